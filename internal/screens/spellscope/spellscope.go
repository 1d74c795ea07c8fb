// Package spellscope implements the spelling scanner screen.
package spellscope

import (
	"context"
	"strings"
	"time"

	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/spelling"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// ScannedMsg reports a finished scan.
type ScannedMsg struct {
	Stored bool
}

// SpellScopeScreen lets the player paste text and see it corrected.
type SpellScopeScreen struct {
	desk    *spelling.Desk
	timeout time.Duration

	area     textarea.Model
	scanning bool
	failed   bool
}

var _ screen.Screen = (*SpellScopeScreen)(nil)

// New creates a SpellScopeScreen.
func New(desk *spelling.Desk, timeout time.Duration) *SpellScopeScreen {
	ta := textarea.New()
	ta.Placeholder = "Type a word to check..."
	ta.CharLimit = 2000
	ta.ShowLineNumbers = false
	ta.SetHeight(4)
	ta.Focus()

	return &SpellScopeScreen{
		desk:    desk,
		timeout: timeout,
		area:    ta,
	}
}

func (s *SpellScopeScreen) Init() tea.Cmd {
	return s.area.Focus()
}

func (s *SpellScopeScreen) Title() string {
	return "SpellScope"
}

func (s *SpellScopeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case ScannedMsg:
		s.scanning = false
		s.failed = !msg.Stored
		return s, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+s" {
			return s, s.scan()
		}
	}

	var cmd tea.Cmd
	s.area, cmd = s.area.Update(msg)
	return s, cmd
}

func (s *SpellScopeScreen) scan() tea.Cmd {
	text := s.area.Value()
	if s.scanning || strings.TrimSpace(text) == "" {
		return nil
	}
	s.scanning = true
	s.failed = false

	desk, timeout := s.desk, s.timeout
	run := func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		return ScannedMsg{Stored: desk.Scan(ctx, text)}
	}
	return tea.Batch(run, screen.FX(studio.FXScan))
}

func (s *SpellScopeScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	s.area.SetWidth(cw - 4)

	sections := []string{
		components.Caption("SPELL-O-SCOPE", cw),
		components.Panel(s.area.View(), cw, theme.Secondary),
	}

	switch {
	case s.scanning:
		sections = append(sections, theme.Hint.Render("SCANNING..."))
	case s.failed:
		sections = append(sections, theme.Incorrect.Render("The scope jammed! Try scanning again."))
	}

	if res, _, ok := s.desk.Result(); ok {
		sections = append(sections, renderResult(res, cw))
	}

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func renderResult(res *spelling.Result, cw int) string {
	var b strings.Builder
	b.WriteString(theme.FX.Render("SCAN RESULT:"))
	b.WriteString("\n")
	b.WriteString(theme.Body.Render(components.Wrap(res.CorrectedText, cw-4)))
	b.WriteString("\n\n")
	if res.ErrorsFound {
		b.WriteString(theme.Incorrect.Render("Errors found and fixed!"))
	} else {
		b.WriteString(theme.Correct.Render("Perfect spelling, hero!"))
	}
	if res.Explanation != "" {
		b.WriteString("\n")
		b.WriteString(theme.Hint.Render(components.Wrap(res.Explanation, cw-4)))
	}
	return components.Panel(b.String(), cw, theme.Primary)
}

func (s *SpellScopeScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Ctrl+S", Description: "Scan"},
		{Key: "Esc", Description: "Back"},
	}
}
