package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// Button is a comic panel button pressed with Enter or Space.
type Button struct {
	Label   string
	Active  bool
	Width   int
	OnPress func() tea.Cmd
}

// NewButton creates an active button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{
		Label:   label,
		Active:  true,
		OnPress: onPress,
	}
}

// Update presses the button on Enter or Space.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Active || b.OnPress == nil {
		return b, nil
	}
	if kmsg, ok := msg.(tea.KeyPressMsg); ok {
		switch kmsg.String() {
		case "enter", "space":
			return b, b.OnPress()
		}
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	style := lipgloss.NewStyle().
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	if b.Width > 0 {
		style = style.Width(b.Width)
	}
	if b.Active {
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + b.Label)
	}
	return style.
		Foreground(theme.TextDim).
		BorderForeground(theme.Border).
		Render("  " + b.Label)
}
