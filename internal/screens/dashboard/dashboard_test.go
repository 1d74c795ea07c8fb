package dashboard

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/grammarstudio/internal/router"
	"github.com/abhisek/grammarstudio/internal/screen"
	"github.com/abhisek/grammarstudio/internal/studio"
)

type stubScreen struct{}

func (s *stubScreen) Init() tea.Cmd                           { return nil }
func (s *stubScreen) Update(tea.Msg) (screen.Screen, tea.Cmd) { return s, nil }
func (s *stubScreen) View(int, int) string                    { return "lock" }
func (s *stubScreen) Title() string                           { return "Locked" }

func newDashboard(t *testing.T) (*DashboardScreen, *studio.Studio) {
	t.Helper()
	st := studio.New(studio.Deps{})
	_, err := st.Unlock()
	require.NoError(t, err)
	return New(Options{Studio: st, LockFactory: func() screen.Screen { return &stubScreen{} }}), st
}

func msgs(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, msgs(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func pushed(t *testing.T, cmd tea.Cmd) screen.Screen {
	t.Helper()
	for _, m := range msgs(cmd) {
		if p, ok := m.(router.PushScreenMsg); ok {
			return p.Screen
		}
	}
	t.Fatal("expected a PushScreenMsg")
	return nil
}

func TestDashboard_CursorBounds(t *testing.T) {
	d, st := newDashboard(t)
	d.Update(tea.KeyPressMsg{Code: tea.KeyUp})
	assert.Equal(t, "nouns", d.Selected().ID)

	for i := 0; i < 20; i++ {
		d.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	}
	last := st.Catalog.All()[st.Catalog.Len()-1]
	assert.Equal(t, last.ID, d.Selected().ID)
}

func TestDashboard_SelectMissionPushesMission(t *testing.T) {
	d, st := newDashboard(t)
	d.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	_, cmd := d.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s := pushed(t, cmd)
	assert.Equal(t, "Mission: Action Verbs", s.Title())
	assert.Equal(t, studio.ModeMission, st.Mode())

	var zap bool
	for _, m := range msgs(cmd) {
		if fx, ok := m.(screen.FXMsg); ok && fx.Word == studio.FXZap {
			zap = true
		}
	}
	assert.True(t, zap)
}

func TestDashboard_ToolShortcuts(t *testing.T) {
	tests := []struct {
		key   rune
		title string
	}{
		{'c', "Comms"},
		{'s', "SpellScope"},
		{'p', "Photo Lab"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			d, _ := newDashboard(t)
			_, cmd := d.Update(tea.KeyPressMsg{Code: tt.key, Text: string(tt.key)})
			assert.Equal(t, tt.title, pushed(t, cmd).Title())
		})
	}
}

func TestDashboard_Lock(t *testing.T) {
	d, st := newDashboard(t)
	_, cmd := d.Update(tea.KeyPressMsg{Code: 'l', Text: "l"})
	require.NotNil(t, cmd)

	reset, ok := cmd().(router.ResetScreenMsg)
	require.True(t, ok)
	assert.Equal(t, "Locked", reset.Screen.Title())
	assert.Equal(t, studio.ModeLocked, st.Mode())
}

func TestDashboard_ViewShowsCards(t *testing.T) {
	d, _ := newDashboard(t)
	view := d.View(120, 40)
	assert.Contains(t, view, "NOBLE NOUNS")
	assert.Contains(t, view, "STEP 1")
	assert.Contains(t, view, "[C]")
	assert.Contains(t, view, "SPELLSCOPE")
}
