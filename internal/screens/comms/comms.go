// Package comms implements the chat screen where the player talks to
// Captain Syntax and Professor Punctuation.
package comms

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/capture"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// ReplyMsg carries the turn appended for a sent message.
type ReplyMsg struct {
	Turn chat.Turn
}

// DictatedMsg carries a finished dictation.
type DictatedMsg struct {
	Result capture.Result
}

// CommsScreen shows the conversation and an input line.
type CommsScreen struct {
	log       *chat.Log
	dictation capture.Capability
	timeout   time.Duration

	input     components.TextInput
	waiting   bool
	listening bool
	status    string
}

var _ screen.Screen = (*CommsScreen)(nil)

// New creates a CommsScreen. dictation may be nil.
func New(log *chat.Log, dictation capture.Capability, timeout time.Duration) *CommsScreen {
	return &CommsScreen{
		log:       log,
		dictation: dictation,
		timeout:   timeout,
		input:     components.NewTextInput("Ask Captain Syntax anything...", 500),
	}
}

func (c *CommsScreen) Init() tea.Cmd {
	return c.input.Init()
}

func (c *CommsScreen) Title() string {
	return "Comms"
}

func (c *CommsScreen) callContext() (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(context.Background(), c.timeout)
	}
	return context.WithCancel(context.Background())
}

func (c *CommsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ReplyMsg:
		c.waiting = false
		return c, nil

	case DictatedMsg:
		c.listening = false
		if msg.Result.Err != nil {
			c.status = "Dictation failed: " + msg.Result.Err.Error()
			return c, screen.FX(studio.FXError)
		}
		c.status = ""
		if msg.Result.Text != "" {
			c.input.SetValue(msg.Result.Text)
		}
		return c, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "enter":
			return c, c.send()
		case "ctrl+r":
			return c, c.toggleDictation()
		}
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return c, cmd
}

func (c *CommsScreen) send() tea.Cmd {
	if c.waiting {
		return nil
	}
	history, ok := c.log.AppendUser(c.input.Value())
	if !ok {
		return nil
	}
	c.input.Reset()
	c.waiting = true

	log := c.log
	respond := func() tea.Msg {
		ctx, cancel := c.callContext()
		defer cancel()
		return ReplyMsg{Turn: log.Respond(ctx, history)}
	}
	return tea.Batch(respond, screen.FX(studio.FXBam))
}

func (c *CommsScreen) toggleDictation() tea.Cmd {
	if c.dictation == nil {
		c.status = "No dictation command configured."
		return nil
	}
	if c.listening {
		if err := c.dictation.Stop(); err != nil {
			c.status = err.Error()
		}
		return nil
	}

	results := make(chan capture.Result, 1)
	if err := c.dictation.Start(context.Background(), func(r capture.Result) { results <- r }); err != nil {
		c.status = "Dictation failed: " + err.Error()
		return screen.FX(studio.FXError)
	}
	c.listening = true
	c.status = ""
	wait := func() tea.Msg { return DictatedMsg{Result: <-results} }
	return tea.Batch(wait, screen.FX(studio.FXListen))
}

func (c *CommsScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var footer []string
	switch {
	case c.waiting:
		footer = append(footer, theme.Hint.Render("Captain Syntax is typing..."))
	case c.listening:
		footer = append(footer, theme.FX.Render("● LISTENING... (Ctrl+R to stop)"))
	}
	if c.status != "" {
		footer = append(footer, theme.Incorrect.Render(c.status))
	}
	footer = append(footer, components.Panel(c.input.View(), cw, theme.Secondary))
	bottom := strings.Join(footer, "\n")

	avail := height - lipgloss.Height(bottom) - 1
	transcript := renderTurns(c.log.Turns(), cw, avail)

	content := lipgloss.JoinVertical(lipgloss.Left, transcript, bottom)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Bottom, content)
}

// renderTurns renders the newest turns that fit into maxLines.
func renderTurns(turns []chat.Turn, cw, maxLines int) string {
	bubbleWidth := cw * 3 / 4
	var blocks []string
	used := 0
	for i := len(turns) - 1; i >= 0; i-- {
		block := renderTurn(turns[i], cw, bubbleWidth)
		h := lipgloss.Height(block) + 1
		if used+h > maxLines && len(blocks) > 0 {
			break
		}
		blocks = append([]string{block}, blocks...)
		used += h
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(blocks, "\n\n"))
}

func renderTurn(t chat.Turn, cw, bubbleWidth int) string {
	text := components.Wrap(t.Text, bubbleWidth-2)
	switch t.Role {
	case chat.RoleUser:
		bubble := theme.UserBubble.Render(text)
		return lipgloss.PlaceHorizontal(cw, lipgloss.Right, bubble)
	case chat.RoleMentor:
		label := lipgloss.NewStyle().Foreground(theme.Mentor).Bold(true).Render(strings.ToUpper(chat.MentorName))
		return label + "\n" + theme.MentorBubble.Render(text)
	default:
		label := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("CAPTAIN SYNTAX")
		return label + "\n" + theme.HeroBubble.Render(text)
	}
}

func (c *CommsScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Enter", Description: "Send"},
	}
	if c.dictation != nil {
		hints = append(hints, layout.KeyHint{Key: "Ctrl+R", Description: "Dictate"})
	}
	return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
}
