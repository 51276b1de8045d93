package ui

import "github.com/charmbracelet/lipgloss"

var glyphs = map[string]string{
	"settings-outline": "⚙",
	"mic":              "●",
	"mic-outline":      "○",
	"send":             "➤",
}

// Icon renders a named glyph in color. Sizes of 48 and up are drawn bold and
// padded so they stand out in the empty state.
func Icon(name string, size int, color lipgloss.Color) string {
	g, ok := glyphs[name]
	if !ok {
		g = "?"
	}

	st := lipgloss.NewStyle().Foreground(color)
	if size >= 48 {
		st = st.Bold(true)
		g = " " + g + " "
	}
	return st.Render(g)
}
