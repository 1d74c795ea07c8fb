package app

import (
	"fmt"
	"os"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/capture"
	"github.com/abhisek/grammarstudio/internal/logging"
	"github.com/abhisek/grammarstudio/internal/router"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/screens/dashboard"
	"github.com/abhisek/grammarstudio/internal/screens/lock"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
)

// fxDuration is how long a sound-effect word stays in the header.
const fxDuration = 1500 * time.Millisecond

// Options holds the dependencies the TUI needs.
type Options struct {
	Studio    *studio.Studio
	Dictation capture.Capability
	Timeout   time.Duration
	Log       *logging.Logger
}

type clearFXMsg struct {
	seq int
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	studio *studio.Studio
	log    *logging.Logger
	width  int
	height int

	fx    string
	fxSeq int
}

// newAppModel creates a new AppModel starting on the lock screen.
func newAppModel(opts Options) AppModel {
	log := opts.Log
	if log == nil {
		log = logging.Nop()
	}

	var lockFactory func() screen.Screen
	dashFactory := func() screen.Screen {
		return dashboard.New(dashboard.Options{
			Studio:      opts.Studio,
			Dictation:   opts.Dictation,
			Timeout:     opts.Timeout,
			LockFactory: lockFactory,
		})
	}
	lockFactory = func() screen.Screen {
		return lock.New(opts.Studio, dashFactory)
	}

	return AppModel{
		router: router.New(lockFactory()),
		studio: opts.Studio,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	return m.router.Active().Init()
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case screen.FXMsg:
		m.fx = msg.Word
		m.fxSeq++
		seq := m.fxSeq
		return m, tea.Tick(fxDuration, func(time.Time) tea.Msg {
			return clearFXMsg{seq: seq}
		})

	case clearFXMsg:
		if msg.seq == m.fxSeq {
			m.fx = ""
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "esc":
			if m.router.Depth() > 1 {
				return m, func() tea.Msg { return router.PopScreenMsg{} }
			}
			return m, nil
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true

	if m.width == 0 || m.height == 0 {
		return v
	}

	if layout.IsTooSmall(m.width, m.height) {
		v.SetContent(layout.RenderMinSizeMessage(m.width, m.height))
		return v
	}

	active := m.router.Active()
	title := ""
	if active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.studio.Mode().String(), m.fx, m.width)

	var footerHints []layout.KeyHint
	if p, ok := active.(screen.KeyHintProvider); ok {
		footerHints = p.KeyHints()
	} else if m.router.Depth() > 1 {
		footerHints = []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	} else {
		footerHints = []layout.KeyHint{
			{Key: "↑↓", Description: "Navigate"},
			{Key: "Enter", Description: "Select"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}

	footer := layout.RenderFooter(footerHints, m.width)

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	frame := layout.RenderFrame(header, content, footer, m.width, m.height)

	v.SetContent(frame)
	return v
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := newAppModel(opts)
	m.log.Info("tui starting", "mode", m.studio.Mode().String())
	defer m.log.Info("tui stopped")

	p := tea.NewProgram(m)
	_, err := p.Run()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		return err
	}
	return nil
}
