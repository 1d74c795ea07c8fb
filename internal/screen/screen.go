package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/grammarstudio/internal/ui/layout"
)

// Screen defines the interface for all application screens.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// Leaver is an optional interface for screens that need to react when
// they are popped off the stack.
type Leaver interface {
	Leave() tea.Cmd
}

// FXMsg asks the app to flash a sound-effect word in the header.
type FXMsg struct {
	Word string
}

// FX returns a command that flashes word in the header.
func FX(word string) tea.Cmd {
	if word == "" {
		return nil
	}
	return func() tea.Msg { return FXMsg{Word: word} }
}
