package ui

import "github.com/charmbracelet/lipgloss"

// Colors follow the original mobile palette.
var (
	Background = lipgloss.Color("#000000")
	Bar        = lipgloss.Color("#1a1a1a")
	Field      = lipgloss.Color("#2a2a2a")
	AIBubble   = lipgloss.Color("#1c1c1c")
	Blue       = lipgloss.Color("#007AFF")
	Red        = lipgloss.Color("#FF3B30")
	Green      = lipgloss.Color("#34C759")
	White      = lipgloss.Color("#ffffff")
	Grey       = lipgloss.Color("#666666")
)

type Styles struct {
	Header       lipgloss.Style
	Title        lipgloss.Style
	UserBubble   lipgloss.Style
	AIBubble     lipgloss.Style
	Loading      lipgloss.Style
	EmptyText    lipgloss.Style
	EmptySubtext lipgloss.Style
	InputBar     lipgloss.Style
	Hint         lipgloss.Style
}

func DefaultStyles() Styles {
	bubble := lipgloss.NewStyle().
		Padding(0, 1).
		MarginBottom(1).
		Foreground(White)

	return Styles{
		Header:       lipgloss.NewStyle().Background(Bar).Padding(0, 1),
		Title:        lipgloss.NewStyle().Bold(true).Foreground(White),
		UserBubble:   bubble.Background(Blue),
		AIBubble:     bubble.Background(AIBubble),
		Loading:      lipgloss.NewStyle().Background(AIBubble).Padding(0, 1).Foreground(Blue),
		EmptyText:    lipgloss.NewStyle().Foreground(White),
		EmptySubtext: lipgloss.NewStyle().Foreground(Grey),
		InputBar:     lipgloss.NewStyle().Background(Bar).Padding(0, 1),
		Hint:         lipgloss.NewStyle().Foreground(Grey),
	}
}
