package jsontree

import "github.com/charmbracelet/lipgloss"

var (
	keyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D7FF"))
	stringStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
	numberStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFA500"))
	literalStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF00FF"))
	bracketStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	elidedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	toggleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))

	cursorStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#7D56F4")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Bold(true)
)

const (
	expandedGlyph  = "▾ "
	collapsedGlyph = "▸ "
	leafGlyph      = "  "
)
