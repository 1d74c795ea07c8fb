// Package mission implements the lesson and quiz screen for the selected
// topic.
package mission

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/catalog"
	"github.com/abhisek/grammarstudio/internal/chat"
	"github.com/abhisek/grammarstudio/internal/lessons"
	missionctl "github.com/abhisek/grammarstudio/internal/mission"
	"github.com/abhisek/grammarstudio/internal/quiz"
	"github.com/abhisek/grammarstudio/internal/router"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/studio"
	"github.com/abhisek/grammarstudio/internal/ui/components"
	"github.com/abhisek/grammarstudio/internal/ui/layout"
	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// Tab is one page of the mission screen.
type Tab int

const (
	TabBriefing Tab = iota
	TabComic
	TabQuiz
)

var tabNames = []string{"BRIEFING", "THE SHOWDOWN", "QUIZ"}

// LoadedMsg reports a finished lesson fetch. The fetch commits its own
// result, so a screen popped mid-load still leaves the studio consistent.
type LoadedMsg struct {
	Result    missionctl.Result
	Committed bool
}

// Failure lines per failure kind.
var failureText = map[string]string{
	"unavailable":      "KRAK! The lesson press is offline. Check your AI provider and try again.",
	"invalid_response": "SPLAT! The lesson came back garbled. Press R to try again.",
	"other":            "BLAM! Something went wrong. Press R to try again.",
}

// MissionScreen shows the lesson for the current mission and runs its quiz.
type MissionScreen struct {
	studio  *studio.Studio
	req     missionctl.Request
	timeout time.Duration

	tab    Tab
	choice components.MultiChoice
	// quizIndex tracks which question the choice component shows.
	quizIndex int
}

var _ screen.Screen = (*MissionScreen)(nil)

// New creates a MissionScreen for an issued lesson ticket.
func New(st *studio.Studio, req missionctl.Request, timeout time.Duration) *MissionScreen {
	return &MissionScreen{
		studio:    st,
		req:       req,
		timeout:   timeout,
		quizIndex: -1,
	}
}

func (m *MissionScreen) Init() tea.Cmd {
	return m.load(m.req)
}

func (m *MissionScreen) load(req missionctl.Request) tea.Cmd {
	st, timeout := m.studio, m.timeout
	return func() tea.Msg {
		ctx := context.Background()
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		res := st.Load(ctx, req)
		return LoadedMsg{Result: res, Committed: st.Complete(res)}
	}
}

func (m *MissionScreen) Title() string {
	return "Mission: " + m.req.Topic.Title
}

// Leave returns the studio to the dashboard when the screen is popped.
func (m *MissionScreen) Leave() tea.Cmd {
	if err := m.studio.GoHome(); err != nil {
		return nil
	}
	return screen.FX(studio.FXHome)
}

func (m *MissionScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		if !msg.Committed || msg.Result.Err != nil {
			return m, nil
		}
		return m, screen.FX(studio.FXReady)

	case tea.KeyPressMsg:
		return m, m.handleKey(msg)
	}
	return m, nil
}

func (m *MissionScreen) handleKey(msg tea.KeyPressMsg) tea.Cmd {
	status := m.studio.Mission.Status()
	key := msg.String()

	switch key {
	case "h":
		return func() tea.Msg { return router.PopScreenMsg{} }
	case "tab":
		if status == missionctl.StatusReady {
			m.tab = (m.tab + 1) % Tab(len(tabNames))
		}
		return nil
	case "shift+tab":
		if status == missionctl.StatusReady {
			m.tab = (m.tab + Tab(len(tabNames)) - 1) % Tab(len(tabNames))
		}
		return nil
	case "1", "2", "3":
		if status == missionctl.StatusReady {
			m.tab = Tab(key[0] - '1')
		}
		return nil
	}

	switch status {
	case missionctl.StatusFailed:
		if key == "r" {
			return m.retry()
		}
	case missionctl.StatusReady:
		if m.tab == TabQuiz {
			return m.handleQuizKey(key, msg)
		}
	}
	return nil
}

func (m *MissionScreen) retry() tea.Cmd {
	req, err := m.studio.SelectMission(m.req.Topic)
	if err != nil {
		return nil
	}
	m.req = req
	m.tab = TabBriefing
	m.quizIndex = -1
	return tea.Batch(m.load(req), screen.FX(studio.FXZap))
}

func (m *MissionScreen) handleQuizKey(key string, msg tea.KeyPressMsg) tea.Cmd {
	ctl := m.studio.Mission
	snap, ok := ctl.QuizSnapshot()
	if !ok {
		return nil
	}
	m.syncChoice(snap)

	switch key {
	case "enter", "space":
		switch {
		case snap.Finished:
			return nil
		case snap.Answered:
			ctl.NextQuestion()
		default:
			if opt, ok := m.choice.Highlighted(); ok {
				ctl.SelectOption(opt)
				ctl.SubmitAnswer()
			}
		}
	case "r":
		if snap.Finished {
			ctl.RestartQuiz()
			m.quizIndex = -1
		}
	default:
		m.choice, _ = m.choice.Update(msg)
	}
	return nil
}

// syncChoice rebuilds the choice widget when the quiz moves to a new
// question and mirrors the answer state into it.
func (m *MissionScreen) syncChoice(snap quiz.Snapshot) {
	if snap.Question == nil {
		return
	}
	if m.quizIndex != snap.CurrentIndex || len(m.choice.Options) == 0 {
		m.choice = components.NewMultiChoice(snap.Question.Question, snap.Question.Options)
		m.quizIndex = snap.CurrentIndex
	}
	m.choice.Chosen = ""
	if snap.SelectedOption != nil {
		m.choice.Chosen = *snap.SelectedOption
	}
	m.choice.Revealed = snap.Answered
	m.choice.Correct = ""
	if snap.Answered {
		m.choice.Correct = snap.Question.CorrectAnswer
	}
}

func (m *MissionScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	ctl := m.studio.Mission

	var body string
	switch ctl.Status() {
	case missionctl.StatusLoading, missionctl.StatusIdle:
		body = theme.Title.Render("INKING LESSON...") + "\n\n" +
			theme.Hint.Render(fmt.Sprintf("%s · %s", m.req.Topic.Title, m.req.Topic.Subject))
	case missionctl.StatusFailed:
		body = theme.Incorrect.Render(failureLine(ctl.FailureKind()))
	case missionctl.StatusReady:
		topic, _ := ctl.Topic()
		body = m.renderTabs(cw) + "\n\n" + m.renderTab(topic, ctl.Lesson(), cw)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, body)
}

func failureLine(kind string) string {
	if line, ok := failureText[kind]; ok {
		return line
	}
	return failureText["other"]
}

func (m *MissionScreen) renderTabs(cw int) string {
	parts := make([]string, len(tabNames))
	for i, name := range tabNames {
		label := fmt.Sprintf(" %d %s ", i+1, name)
		if Tab(i) == m.tab {
			parts[i] = theme.ButtonActive.Render(label)
		} else {
			parts[i] = theme.Hint.Render(label)
		}
	}
	return lipgloss.NewStyle().Width(cw).Render(strings.Join(parts, " "))
}

func (m *MissionScreen) renderTab(topic catalog.Topic, lesson *lessons.Lesson, cw int) string {
	if lesson == nil {
		return ""
	}
	inner := cw - 4
	switch m.tab {
	case TabComic:
		cast := theme.Selected.Render("CAPTAIN SYNTAX") + "  vs  " + theme.Incorrect.Render("THE TYPO") +
			"  with  " + lipgloss.NewStyle().Foreground(theme.Mentor).Bold(true).Render(strings.ToUpper(chat.MentorName))
		dialogue := cast + "\n" + components.Panel(components.Wrap("\""+lesson.ComicDialogue+"\"", inner), cw, theme.Primary)
		tip := components.Caption("PROFESSOR'S CORNER", cw) + "\n" +
			components.Panel(components.Wrap(lesson.ProfessorTip, inner), cw, theme.Mentor)
		return dialogue + "\n" + tip

	case TabQuiz:
		return m.renderQuiz(cw)

	default:
		var b strings.Builder
		b.WriteString(components.Caption(strings.ToUpper(topic.Title), cw))
		b.WriteString("\n")
		b.WriteString(theme.Body.Render(components.Wrap(lesson.Explanation, cw)))
		b.WriteString("\n\n")
		b.WriteString(theme.Selected.Render("CLEAR EXAMPLES"))
		for _, ex := range lesson.Examples {
			b.WriteString("\n")
			b.WriteString(theme.Body.Render(components.Wrap("• "+ex, cw)))
		}
		b.WriteString("\n\n")
		b.WriteString(theme.Selected.Render("MASTER TIPS"))
		for _, tip := range lesson.Tips {
			b.WriteString("\n")
			b.WriteString(theme.Body.Render(components.Wrap("⚡ "+tip, cw)))
		}
		return b.String()
	}
}

func (m *MissionScreen) renderQuiz(cw int) string {
	snap, ok := m.studio.Mission.QuizSnapshot()
	if !ok {
		return ""
	}

	if snap.Finished {
		score := fmt.Sprintf("SCORE: %d / %d", snap.Score, snap.Total)
		return theme.Title.Render(score) + "\n\n" +
			theme.FX.Render(snap.Verdict) + "\n\n" +
			theme.Hint.Render("R restart · H home")
	}

	m.syncChoice(snap)

	var percent float64
	if snap.Total > 0 {
		percent = float64(snap.CurrentIndex) / float64(snap.Total)
	}
	progress := components.NewProgressBar(
		fmt.Sprintf("Q%d/%d", snap.CurrentIndex+1, snap.Total), percent, false, cw).View()

	out := progress + "\n\n" + m.choice.View()
	if snap.Answered {
		style := theme.Incorrect
		if snap.Correct {
			style = theme.Correct
		}
		out += "\n" + style.Render(snap.Feedback)
		if snap.Question != nil && snap.Question.Explanation != "" {
			out += "\n" + theme.Hint.Render(components.Wrap(snap.Question.Explanation, cw))
		}
	}
	return out
}

func (m *MissionScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "Tab", Description: "Page"},
		{Key: "↑↓", Description: "Option"},
		{Key: "Enter", Description: "Answer/Next"},
		{Key: "H/Esc", Description: "Home"},
	}
	if m.studio.Mission.Status() == missionctl.StatusFailed {
		hints = append(hints, layout.KeyHint{Key: "R", Description: "Retry"})
	}
	return hints
}
