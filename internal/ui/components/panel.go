package components

import (
	"image/color"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/grammarstudio/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for comic panels.
func ContentWidth(frameWidth int) int {
	// Leave room for page border (2) + inner padding (4)
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// PageFrame wraps content in a thick-bordered comic page,
// centering it within the given dimensions.
func PageFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.ThickBorder()).
		BorderForeground(theme.Primary).
		Width(width-2).
		Height(height-2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// Panel wraps content in a rounded panel with the given border color.
func Panel(content string, cw int, border color.Color) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Width(cw-2).
		Padding(0, 1).
		Render(content)
}

// Caption renders a bold caption box, the yellow strip used for narration.
func Caption(text string, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Bold(true).
		Foreground(theme.BgDark).
		Background(theme.Primary).
		Padding(0, 1).
		Render(text)
}
