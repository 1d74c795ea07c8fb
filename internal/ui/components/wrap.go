package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Wrap breaks text into lines no wider than width display cells,
// splitting on spaces where possible. Existing newlines are kept.
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	paras := strings.Split(text, "\n")
	out := make([]string, 0, len(paras))
	for _, p := range paras {
		out = append(out, wrapLine(p, width)...)
	}
	return strings.Join(out, "\n")
}

func wrapLine(line string, width int) []string {
	words := strings.Fields(line)
	if len(words) == 0 {
		return []string{""}
	}

	var lines []string
	var cur strings.Builder
	curWidth := 0
	for _, w := range words {
		ww := runewidth.StringWidth(w)
		if curWidth > 0 && curWidth+1+ww > width {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		for ww > width {
			head := runewidth.Truncate(w, width, "")
			if curWidth > 0 {
				lines = append(lines, cur.String())
				cur.Reset()
				curWidth = 0
			}
			lines = append(lines, head)
			w = strings.TrimPrefix(w, head)
			ww = runewidth.StringWidth(w)
		}
		if curWidth > 0 {
			cur.WriteByte(' ')
			curWidth++
		}
		cur.WriteString(w)
		curWidth += ww
	}
	if curWidth > 0 {
		lines = append(lines, cur.String())
	}
	return lines
}

// Truncate shortens s to width display cells, adding an ellipsis when cut.
func Truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}
