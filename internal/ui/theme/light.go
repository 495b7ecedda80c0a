package theme

import "github.com/charmbracelet/lipgloss"

// Light uses the Gruvbox light palette
// https://github.com/morhetz/gruvbox
var Light = Theme{
	Name: "light",

	Background: lipgloss.Color("#FBF1C7"),
	Foreground: lipgloss.Color("#3C3836"),
	Subtle:     lipgloss.Color("#928374"),
	Highlight:  lipgloss.Color("#EBDBB2"),
	Border:     lipgloss.Color("#BDAE93"),

	Primary:   lipgloss.Color("#076678"), // Blue
	Secondary: lipgloss.Color("#427B58"), // Aqua
	Info:      lipgloss.Color("#076678"),

	Success: lipgloss.Color("#79740E"), // Green
	Warning: lipgloss.Color("#B57614"), // Yellow
	Error:   lipgloss.Color("#9D0006"), // Red

	CategoryWork:     lipgloss.Color("#076678"),
	CategoryPersonal: lipgloss.Color("#8F3F71"), // Purple
	CategoryExercise: lipgloss.Color("#79740E"),
	CategoryOther:    lipgloss.Color("#AF3A03"), // Orange
}
