// Package dashboard implements the mission picker: one card per topic,
// plus shortcuts to the studio's tools.
package dashboard

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/capture"
	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/router"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/screens/comms"
	missionscreen "github.com/abhisek/grammarstudio/internal/screens/mission"
	"github.com/abhisek/grammarstudio/internal/screens/photolab"
	"github.com/abhisek/grammarstudio/internal/screens/spellscope"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// Options wires the dashboard to the studio and its tools.
type Options struct {
	Studio *studio.Studio

	// Dictation is optional; comms hides the mic toggle without it.
	Dictation capture.Capability

	// Timeout bounds each AI call started from a screen.
	Timeout time.Duration

	// LockFactory builds the lock screen shown after locking.
	LockFactory func() screen.Screen
}

// DashboardScreen lists the topics as mission cards.
type DashboardScreen struct {
	opts   Options
	topics []catalog.Topic
	cursor int
	tools  components.Menu
	err    string
}

var _ screen.Screen = (*DashboardScreen)(nil)

// New creates a DashboardScreen.
func New(opts Options) *DashboardScreen {
	d := &DashboardScreen{
		opts:   opts,
		topics: opts.Studio.Catalog.All(),
	}
	st := opts.Studio
	d.tools = components.NewMenu([]components.MenuItem{
		{Key: "c", Label: "Comms", Action: func() tea.Cmd {
			return push(comms.New(st.Chat, opts.Dictation, opts.Timeout))
		}},
		{Key: "s", Label: "SpellScope", Action: func() tea.Cmd {
			return push(spellscope.New(st.Spelling, opts.Timeout))
		}},
		{Key: "p", Label: "Photo Lab", Action: func() tea.Cmd {
			return push(photolab.New(st.Photo, opts.Timeout))
		}},
		{Key: "l", Label: "Lock", Action: d.lock},
	})
	return d
}

func (d *DashboardScreen) Init() tea.Cmd {
	return nil
}

func (d *DashboardScreen) Title() string {
	return "Mission Dashboard"
}

func (d *DashboardScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return d, nil
	}

	switch kmsg.String() {
	case "up", "k", "left", "h":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j", "right":
		if d.cursor < len(d.topics)-1 {
			d.cursor++
		}
	case "enter":
		return d, d.selectMission()
	default:
		var cmd tea.Cmd
		d.tools, cmd = d.tools.Update(kmsg)
		return d, cmd
	}
	return d, nil
}

// Selected returns the topic under the cursor.
func (d *DashboardScreen) Selected() catalog.Topic {
	return d.topics[d.cursor]
}

func (d *DashboardScreen) selectMission() tea.Cmd {
	if len(d.topics) == 0 {
		return nil
	}
	topic := d.Selected()
	req, err := d.opts.Studio.SelectMission(topic)
	if err != nil {
		d.err = err.Error()
		return nil
	}
	d.err = ""
	return tea.Batch(
		push(missionscreen.New(d.opts.Studio, req, d.opts.Timeout)),
		screen.FX(studio.FXZap),
	)
}

func (d *DashboardScreen) lock() tea.Cmd {
	if err := d.opts.Studio.Lock(); err != nil {
		d.err = err.Error()
		return nil
	}
	if d.opts.LockFactory == nil {
		return nil
	}
	lockScreen := d.opts.LockFactory()
	return func() tea.Msg { return router.ResetScreenMsg{Screen: lockScreen} }
}

func push(s screen.Screen) tea.Cmd {
	return func() tea.Msg { return router.PushScreenMsg{Screen: s} }
}

func (d *DashboardScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var sections []string
	sections = append(sections, components.Caption("CHOOSE YOUR MISSION, HERO!", cw))

	// Cards scroll so the selected one stays visible.
	perCard := 4
	visible := (height - 8) / perCard
	if visible < 1 {
		visible = 1
	}
	start := 0
	if d.cursor >= visible {
		start = d.cursor - visible + 1
	}
	end := start + visible
	if end > len(d.topics) {
		end = len(d.topics)
	}
	for i := start; i < end; i++ {
		sections = append(sections, renderCard(d.topics[i], i == d.cursor, cw))
	}

	if d.err != "" {
		sections = append(sections, theme.Incorrect.Render(d.err))
	}
	sections = append(sections, "", d.tools.View())

	content := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}

func renderCard(t catalog.Topic, selected bool, cw int) string {
	subjectColor := theme.SubjectColor(t.Subject.Color())

	heading := fmt.Sprintf("%s  STEP %d  %s", t.Icon, t.Step, strings.ToUpper(t.Title))
	subject := lipgloss.NewStyle().Foreground(subjectColor).Bold(true).Render(string(t.Subject))
	desc := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(components.Truncate(t.Description, cw-6))

	headStyle := lipgloss.NewStyle().Foreground(theme.Text).Bold(true)
	border := theme.Border
	if selected {
		headStyle = headStyle.Foreground(theme.Primary)
		border = subjectColor
	}

	body := headStyle.Render(heading) + "  " + subject + "\n" + desc
	return components.Panel(body, cw, border)
}

func (d *DashboardScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Choose"},
		{Key: "Enter", Description: "Launch"},
		{Key: "C", Description: "Comms"},
		{Key: "S", Description: "SpellScope"},
		{Key: "P", Description: "Photo Lab"},
		{Key: "L", Description: "Lock"},
	}
}
