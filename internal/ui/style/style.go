// Package style provides shared styling primitives including colors and
// icons for consistent presentation across the CLI.
package style

import "github.com/charmbracelet/lipgloss"

// Brand Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Arrow   = "→"
	Dot     = "●"
)

// Text styles used when rendering query results.
var (
	Label   = lipgloss.NewStyle().Foreground(Slate)
	Value   = lipgloss.NewStyle().Foreground(Iris).Bold(true)
	Success = lipgloss.NewStyle().Foreground(Green)
	Missing = lipgloss.NewStyle().Foreground(Yellow)
)
