package ui

// View represents the current active view
type View int

const (
	ViewTasks View = iota
	ViewGoals
	ViewStats
)

// String returns the display name for a view
func (v View) String() string {
	switch v {
	case ViewTasks:
		return "Tasks"
	case ViewGoals:
		return "Goals"
	case ViewStats:
		return "Stats"
	default:
		return "Unknown"
	}
}

// Messages for inter-component communication

// ErrorMsg contains an error to display
type ErrorMsg struct {
	Err error
}

// StatusMsg contains a status message to display
type StatusMsg struct {
	Message string
}

// ThemeChangedMsg indicates dark mode was toggled
type ThemeChangedMsg struct {
	Dark bool
}
