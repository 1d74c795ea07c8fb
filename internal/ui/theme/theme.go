package theme

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette: bold comic-book primaries on ink-dark panels
var (
	Primary      = lipgloss.Color("#FACC15") // Hero Yellow
	Secondary    = lipgloss.Color("#3B82F6") // Cape Blue
	Accent       = lipgloss.Color("#EF4444") // Villain Red
	ArcadeYellow = lipgloss.Color("#FDE047") // Highlight
	Success      = lipgloss.Color("#22C55E") // Green
	Error        = lipgloss.Color("#F43F5E") // Rose
	Text         = lipgloss.Color("#F8FAFC") // White
	TextDim      = lipgloss.Color("#94A3B8") // Slate
	BgDark       = lipgloss.Color("#0B0B0F") // Ink
	BgCard       = lipgloss.Color("#1C1917") // Panel
	Border       = lipgloss.Color("#44403C") // Gutter
	Mentor       = lipgloss.Color("#A855F7") // Professor Purple
)

// SubjectColor converts a hex subject color into a palette color.
func SubjectColor(hex string) color.Color {
	return lipgloss.Color(hex)
}

// Typography
var (
	Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(Primary).
		Align(lipgloss.Center)

	Subtitle = lipgloss.NewStyle().
			Foreground(TextDim).
			Align(lipgloss.Center)

	Body = lipgloss.NewStyle().
		Foreground(Text)

	Hint = lipgloss.NewStyle().
		Foreground(TextDim).
		Italic(true)

	FX = lipgloss.NewStyle().
		Bold(true).
		Foreground(Accent)
)

// Layout
var (
	Header = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Footer = lipgloss.NewStyle().
		Background(BgCard).
		Padding(0, 2)

	Card = lipgloss.NewStyle().
		Background(BgCard).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Border).
		Padding(1, 2)
)

// States
var (
	Selected = lipgloss.NewStyle().
			Foreground(Primary).
			Bold(true)

	Unselected = lipgloss.NewStyle().
			Foreground(Text)

	Correct = lipgloss.NewStyle().
		Foreground(Success).
		Bold(true)

	Incorrect = lipgloss.NewStyle().
			Foreground(Error).
			Bold(true)
)

// Speech bubbles
var (
	UserBubble = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Secondary).
			Padding(0, 1)

	HeroBubble = lipgloss.NewStyle().
			Foreground(BgDark).
			Background(Primary).
			Padding(0, 1)

	MentorBubble = lipgloss.NewStyle().
			Foreground(Text).
			Background(Mentor).
			Padding(0, 1)
)

// Components
var (
	ProgressFilled = lipgloss.NewStyle().
			Background(Secondary)

	ProgressEmpty = lipgloss.NewStyle().
			Background(Border)

	ButtonActive = lipgloss.NewStyle().
			Background(Primary).
			Foreground(BgDark).
			Bold(true).
			Padding(0, 2)

	ButtonInactive = lipgloss.NewStyle().
			Background(BgCard).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 2)
)
