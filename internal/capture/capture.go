// Package capture defines the start/stop capabilities the studio uses to
// collect input from the world: dictated speech and picked image files.
package capture

import (
	"context"
	"errors"
)

// ErrBusy is returned by Start while a capture is already running.
var ErrBusy = errors.New("capture: already running")

// Result is what a capture produced. Text is set by dictation, Data and
// MIMEType by file selection.
type Result struct {
	Text     string
	Name     string
	Data     []byte
	MIMEType string
	Err      error
}

// Capability is a capture that runs in the background and reports its
// outcome exactly once through done.
type Capability interface {
	Start(ctx context.Context, done func(Result)) error
	Stop() error
}
