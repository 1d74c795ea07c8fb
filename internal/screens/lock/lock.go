// Package lock implements the studio's lock screen: a clock face with the
// hero waiting behind the ENTER STUDIO! button.
package lock

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/common-nighthawk/go-figure"

	"github.com/abhisek/grammarstudio/internal/router"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

const (
	ButtonLabel = "ENTER STUDIO!"
	Tagline     = "CAPTAIN SYNTAX IS WAITING..."
)

type tickMsg time.Time

// LockScreen shows the time and waits for the player to enter the studio.
type LockScreen struct {
	studio           *studio.Studio
	dashboardFactory func() screen.Screen
	now              func() time.Time
	current          time.Time
	banner           string
	button           components.Button
	err              string
}

var _ screen.Screen = (*LockScreen)(nil)

// New creates a LockScreen that unlocks into the screen produced by
// dashboardFactory.
func New(st *studio.Studio, dashboardFactory func() screen.Screen) *LockScreen {
	l := &LockScreen{
		studio:           st,
		dashboardFactory: dashboardFactory,
		now:              time.Now,
		banner:           figure.NewFigure("GRAMMAR", "", true).String(),
	}
	l.current = l.now()
	l.button = components.NewButton(ButtonLabel, l.unlock)
	return l
}

func (l *LockScreen) Title() string {
	return "Locked"
}

func (l *LockScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Every(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (l *LockScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		l.current = time.Time(msg)
		return l, tick()

	case tea.KeyPressMsg:
		var cmd tea.Cmd
		l.button, cmd = l.button.Update(msg)
		return l, cmd
	}
	return l, nil
}

func (l *LockScreen) unlock() tea.Cmd {
	word, err := l.studio.Unlock()
	if err != nil {
		l.err = err.Error()
		return nil
	}
	dash := l.dashboardFactory()
	return tea.Batch(
		func() tea.Msg { return router.ResetScreenMsg{Screen: dash} },
		screen.FX(word),
	)
}

// Clock returns the HH:MM time shown on the lock screen.
func Clock(t time.Time) string {
	return t.Format("15:04")
}

// LongDate returns the date line, e.g. "January 2, 2006".
func LongDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// Weekday returns the upper-case day name.
func Weekday(t time.Time) string {
	return strings.ToUpper(t.Weekday().String())
}

func (l *LockScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string

	if !layout.IsCompactWidth(width) && !layout.IsCompactHeight(height+layout.HeaderHeight+layout.FooterHeight) {
		sections = append(sections, lipgloss.NewStyle().Foreground(theme.Primary).Render(l.banner))
	} else {
		sections = append(sections, theme.Title.Render("G R A M M A R"))
	}

	clock := lipgloss.NewStyle().Bold(true).Foreground(theme.Text).Render(Clock(l.current))
	sections = append(sections, clock)
	sections = append(sections, lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(Weekday(l.current)))
	sections = append(sections, theme.Subtitle.Render(LongDate(l.current)))
	sections = append(sections, "")
	l.button.Width = cw / 2
	sections = append(sections, l.button.View())
	sections = append(sections, theme.Hint.Render(Tagline))
	if l.err != "" {
		sections = append(sections, theme.Incorrect.Render(l.err))
	}

	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

func (l *LockScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Enter studio"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}
