package render

import "github.com/charmbracelet/lipgloss"

var (
	ColorMatch = lipgloss.Color("#EF4444")
	ColorLabel = lipgloss.Color("#3B82F6")
	ColorMuted = lipgloss.Color("#6B7280")
)

// LabelPrefix is written before every entry label.
const LabelPrefix = "Date: "
