package model

// Event is a discrete state transition reported to the notification sink
type Event string

const (
	EventAdd      Event = "add"
	EventComplete Event = "complete"
	EventDelete   Event = "delete"
)

// Title returns a short human label for the event
func (e Event) Title() string {
	switch e {
	case EventAdd:
		return "Task added"
	case EventComplete:
		return "Task completed"
	case EventDelete:
		return "Task deleted"
	default:
		return string(e)
	}
}
