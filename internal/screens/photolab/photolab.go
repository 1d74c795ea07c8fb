// Package photolab implements the photo lab screen: pick an image file,
// describe an edit, and save the artist's version next to the original.
package photolab

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/capture"
	lab "github.com/abhisek/grammarstudio/internal/photolab"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// EditedMsg reports a finished photo lab run.
type EditedMsg struct {
	// SavedPath is where the edited image was written, empty if nothing
	// new was produced.
	SavedPath string
	Err       error
}

type field int

const (
	fieldPath field = iota
	fieldInstruction
)

// PhotoLabScreen collects an image path and an edit instruction.
type PhotoLabScreen struct {
	lab     *lab.Lab
	timeout time.Duration

	path        components.TextInput
	instruction components.TextInput
	focus       field

	running bool
	saved   string
	err     string
}

var _ screen.Screen = (*PhotoLabScreen)(nil)

// New creates a PhotoLabScreen.
func New(l *lab.Lab, timeout time.Duration) *PhotoLabScreen {
	instruction := components.NewTextInput("Add a retro filter, give the cat a cape...", 300)
	instruction.Blur()
	return &PhotoLabScreen{
		lab:         l,
		timeout:     timeout,
		path:        components.NewTextInput("path/to/image.png", 1024),
		instruction: instruction,
	}
}

func (p *PhotoLabScreen) Init() tea.Cmd {
	return p.path.Init()
}

func (p *PhotoLabScreen) Title() string {
	return "Photo Lab"
}

func (p *PhotoLabScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case EditedMsg:
		p.running = false
		p.err = ""
		if msg.Err != nil {
			p.err = msg.Err.Error()
		}
		if msg.SavedPath != "" {
			p.saved = msg.SavedPath
		}
		return p, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "tab", "shift+tab", "up", "down":
			return p, p.toggleFocus()
		case "enter":
			if p.focus == fieldPath {
				return p, p.toggleFocus()
			}
			return p, p.submit()
		}
	}

	var cmd tea.Cmd
	if p.focus == fieldPath {
		p.path, cmd = p.path.Update(msg)
	} else {
		p.instruction, cmd = p.instruction.Update(msg)
	}
	return p, cmd
}

func (p *PhotoLabScreen) toggleFocus() tea.Cmd {
	if p.focus == fieldPath {
		p.focus = fieldInstruction
		p.path.Blur()
		return p.instruction.Focus()
	}
	p.focus = fieldPath
	p.instruction.Blur()
	return p.path.Focus()
}

func (p *PhotoLabScreen) submit() tea.Cmd {
	if p.running || p.path.Blank() || p.instruction.Blank() {
		return nil
	}
	p.running = true
	p.err = ""

	path := strings.TrimSpace(p.path.Value())
	instruction := p.instruction.Value()
	l, timeout := p.lab, p.timeout

	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return run(ctx, l, path, instruction)
	}
}

// run picks the file, edits it and saves the result beside the source.
func run(ctx context.Context, l *lab.Lab, path, instruction string) EditedMsg {
	picked := make(chan capture.Result, 1)
	sel := &capture.FileSelector{Path: path}
	if err := sel.Start(ctx, func(r capture.Result) { picked <- r }); err != nil {
		return EditedMsg{Err: err}
	}
	src := <-picked
	if src.Err != nil {
		return EditedMsg{Err: src.Err}
	}

	before, _, _ := l.State()
	l.Process(ctx, src.Data, src.MIMEType, instruction)
	after, alert, _ := l.State()
	if alert != "" {
		return EditedMsg{Err: errors.New(alert)}
	}
	if after == nil || after == before {
		return EditedMsg{}
	}

	out := lab.OutputPath(path, after.MIMEType)
	if err := os.WriteFile(out, after.Data, 0o644); err != nil {
		return EditedMsg{Err: fmt.Errorf("save edited image: %w", err)}
	}
	return EditedMsg{SavedPath: out}
}

func (p *PhotoLabScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	pathBorder, instrBorder := theme.Border, theme.Border
	if p.focus == fieldPath {
		pathBorder = theme.Secondary
	} else {
		instrBorder = theme.Secondary
	}

	sections := []string{
		components.Caption("PHOTO LAB", cw),
		theme.Hint.Render("Image file"),
		components.Panel(p.path.View(), cw, pathBorder),
		theme.Hint.Render("Edit instruction"),
		components.Panel(p.instruction.View(), cw, instrBorder),
	}

	if p.running {
		sections = append(sections, theme.Hint.Render("DEVELOPING..."))
	}
	if p.err != "" {
		sections = append(sections, theme.Incorrect.Render(components.Wrap(p.err, cw)))
	}

	if img, _, _ := p.lab.State(); img != nil {
		uri := img.DataURI()
		summary := fmt.Sprintf("%s · %d bytes\n%s", img.MIMEType, len(img.Data), components.Truncate(uri, cw-4))
		if p.saved != "" {
			summary += "\n" + theme.Correct.Render("Saved to "+p.saved)
		}
		sections = append(sections, components.Panel(summary, cw, theme.Primary))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func (p *PhotoLabScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Switch field"},
		{Key: "Enter", Description: "Edit"},
		{Key: "Esc", Description: "Back"},
	}
}
