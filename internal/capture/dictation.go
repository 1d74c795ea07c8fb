package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// CommandDictation runs an external speech-to-text command. The
// command's standard output, trimmed, is the transcript. Stop interrupts
// the command, which is expected to print what it heard and exit.
type CommandDictation struct {
	Command []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

var _ Capability = (*CommandDictation)(nil)

// NewCommandDictation parses a command line such as "whisper-listen --lang en".
func NewCommandDictation(commandLine string) *CommandDictation {
	return &CommandDictation{Command: strings.Fields(commandLine)}
}

// Available reports whether a command is configured.
func (d *CommandDictation) Available() bool {
	return len(d.Command) > 0
}

// Start launches the command.
func (d *CommandDictation) Start(ctx context.Context, done func(Result)) error {
	if !d.Available() {
		return errors.New("capture: no dictation command configured")
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cmd != nil {
		return ErrBusy
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, d.Command[0], d.Command[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("capture: start %s: %w", d.Command[0], err)
	}
	d.cmd = cmd

	go func() {
		err := cmd.Wait()

		d.mu.Lock()
		d.cmd = nil
		d.mu.Unlock()

		res := Result{Text: strings.TrimSpace(stdout.String())}
		if err != nil && res.Text == "" {
			res.Err = fmt.Errorf("capture: %s: %w: %s", d.Command[0], err, strings.TrimSpace(stderr.String()))
		}
		done(res)
	}()
	return nil
}

// Stop interrupts a running command. It is a no-op when idle.
func (d *CommandDictation) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.cmd == nil || d.cmd.Process == nil {
		return nil
	}
	if err := d.cmd.Process.Signal(os.Interrupt); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return fmt.Errorf("capture: stop: %w", err)
	}
	return nil
}

// Running reports whether the command is running.
func (d *CommandDictation) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cmd != nil
}
