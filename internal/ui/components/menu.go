package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// MenuItem is a tool reachable by a single hotkey.
type MenuItem struct {
	Key    string
	Label  string
	Action func() tea.Cmd
}

// Menu is a row of hotkey tools shown under a screen's main content.
type Menu struct {
	Items []MenuItem
}

// NewMenu creates a menu with the given items.
func NewMenu(items []MenuItem) Menu {
	return Menu{Items: items}
}

// Update runs the action bound to the pressed key, if any.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}
	if item, ok := m.Lookup(kmsg.String()); ok && item.Action != nil {
		return m, item.Action()
	}
	return m, nil
}

// Lookup finds the item bound to key.
func (m Menu) Lookup(key string) (MenuItem, bool) {
	for _, item := range m.Items {
		if strings.EqualFold(item.Key, key) {
			return item, true
		}
	}
	return MenuItem{}, false
}

// View renders the items on one line, e.g. "[C] COMMS  [S] SPELLSCOPE".
func (m Menu) View() string {
	keyStyle := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(theme.Text)

	parts := make([]string, len(m.Items))
	for i, item := range m.Items {
		parts[i] = keyStyle.Render("["+strings.ToUpper(item.Key)+"]") + " " +
			labelStyle.Render(strings.ToUpper(item.Label))
	}
	return strings.Join(parts, "   ")
}
