package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

type quickAdd struct {
	Text     string
	Category model.Category
	DueDays  *int // nil keeps the default of one day
}

// parseQuickAdd pulls "@category" and "due:" words out of the task text.
// Words that do not parse stay in the text.
func parseQuickAdd(text string, now time.Time) quickAdd {
	var task quickAdd

	var titleParts []string
	for _, word := range strings.Fields(text) {
		switch {
		// Category (@work, @personal, ...)
		case strings.HasPrefix(word, "@"):
			c, err := model.ParseCategory(strings.TrimPrefix(word, "@"))
			if err != nil {
				titleParts = append(titleParts, word)
				continue
			}
			task.Category = c

		// Due date (due:3, due:-1, due:tomorrow, due:fri)
		case strings.HasPrefix(strings.ToLower(word), "due:"):
			days, ok := parseDueDays(strings.TrimPrefix(strings.ToLower(word), "due:"), now)
			if !ok {
				titleParts = append(titleParts, word)
				continue
			}
			task.DueDays = &days

		default:
			titleParts = append(titleParts, word)
		}
	}

	task.Text = strings.Join(titleParts, " ")
	return task
}

// parseDueDays turns the part after "due:" into whole days from now
func parseDueDays(s string, now time.Time) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}

	switch s {
	case "today":
		return 0, true
	case "tomorrow", "tom":
		return 1, true
	case "nextweek":
		return 7, true
	}

	weekdays := map[string]time.Weekday{
		"monday": time.Monday, "mon": time.Monday,
		"tuesday": time.Tuesday, "tue": time.Tuesday,
		"wednesday": time.Wednesday, "wed": time.Wednesday,
		"thursday": time.Thursday, "thu": time.Thursday,
		"friday": time.Friday, "fri": time.Friday,
		"saturday": time.Saturday, "sat": time.Saturday,
		"sunday": time.Sunday, "sun": time.Sunday,
	}
	if day, ok := weekdays[s]; ok {
		return daysUntil(day, now), true
	}
	return 0, false
}

// daysUntil returns 1..7 days to the next given weekday
func daysUntil(day time.Weekday, now time.Time) int {
	n := int(day - now.Weekday())
	if n <= 0 {
		n += 7
	}
	return n
}
