// Package timefmt renders timestamps as labels relative to a reference time.
package timefmt

import (
	"fmt"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

const (
	msPerHour = int64(time.Hour / time.Millisecond)
	msPerDay  = 24 * msPerHour
)

// Relative describes ts relative to now: "Tomorrow", "in 3 days",
// "2 years ago", "in 4 hours", "today".
func Relative(ts, now time.Time) string {
	diff := ts.UnixMilli() - now.UnixMilli()
	days := floorDiv(diff, msPerDay)
	hours := floorDiv(diff%msPerDay, msPerHour)

	switch {
	case abs(days) > 365:
		years := abs(days) / 365
		if days > 0 {
			return fmt.Sprintf("in %d year%s", years, plural(years))
		}
		return fmt.Sprintf("%d year%s ago", years, plural(years))

	case abs(days) >= 1:
		switch {
		case days == 1:
			return "Tomorrow"
		case days == -1:
			return "Yesterday"
		case days > 1:
			return fmt.Sprintf("in %d days", days)
		default:
			return fmt.Sprintf("%d days ago", -days)
		}

	case hours > 0:
		return fmt.Sprintf("in %d hour%s", hours, plural(hours))
	case hours < 0:
		return fmt.Sprintf("%d hour%s ago", -hours, plural(-hours))
	default:
		return "today"
	}
}

// DueLabel is the label shown next to a task: "overdue" once the task is
// overdue at now, otherwise the relative due date.
func DueLabel(t model.Task, now time.Time) string {
	if t.IsOverdue(now) {
		return "overdue"
	}
	return Relative(t.DueDate, now)
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func abs(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

func plural(n int64) string {
	if n > 1 {
		return "s"
	}
	return ""
}
