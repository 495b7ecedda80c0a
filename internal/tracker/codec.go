package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

// taskRecord is the persisted shape of a task. Timestamps are epoch millis.
type taskRecord struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	Completed bool           `json:"completed"`
	CreatedAt int64          `json:"createdAt"`
	DueDate   int64          `json:"dueDate"`
	Category  model.Category `json:"category"`
}

type goalRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Target  int    `json:"target"`
	Current int    `json:"current"`
}

// EncodeTasks serializes tasks in collection order
func EncodeTasks(tasks []model.Task) (string, error) {
	records := make([]taskRecord, len(tasks))
	for i, t := range tasks {
		records[i] = taskRecord{
			ID:        t.ID,
			Text:      t.Text,
			Completed: t.Completed,
			CreatedAt: t.CreatedAt.UnixMilli(),
			DueDate:   t.DueDate.UnixMilli(),
			Category:  t.Category,
		}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(data), nil
}

// DecodeTasks parses a snapshot written by EncodeTasks. Any malformed record
// rejects the whole blob with ErrPersistenceCorrupt.
func DecodeTasks(blob string) ([]model.Task, error) {
	var records []taskRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}

	tasks := make([]model.Task, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		switch {
		case r.ID == "":
			return nil, fmt.Errorf("%w: task %d has no id", ErrPersistenceCorrupt, i)
		case seen[r.ID]:
			return nil, fmt.Errorf("%w: duplicate task id %s", ErrPersistenceCorrupt, r.ID)
		case strings.TrimSpace(r.Text) == "":
			return nil, fmt.Errorf("%w: task %s has empty text", ErrPersistenceCorrupt, r.ID)
		case !r.Category.Valid():
			return nil, fmt.Errorf("%w: task %s has unknown category %q", ErrPersistenceCorrupt, r.ID, r.Category)
		}
		seen[r.ID] = true
		tasks = append(tasks, model.Task{
			ID:        r.ID,
			Text:      r.Text,
			Completed: r.Completed,
			CreatedAt: time.UnixMilli(r.CreatedAt),
			DueDate:   time.UnixMilli(r.DueDate),
			Category:  r.Category,
		})
	}
	return tasks, nil
}

// EncodeGoals serializes goals in collection order
func EncodeGoals(goals []model.Goal) (string, error) {
	records := make([]goalRecord, len(goals))
	for i, g := range goals {
		records[i] = goalRecord(g)
	}
	data, err := json.Marshal(records)
	if err != nil {
		return "", fmt.Errorf("failed to encode goals: %w", err)
	}
	return string(data), nil
}

// DecodeGoals parses a snapshot written by EncodeGoals. Out-of-range counters
// are clamped rather than rejected.
func DecodeGoals(blob string) ([]model.Goal, error) {
	var records []goalRecord
	if err := json.Unmarshal([]byte(blob), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceCorrupt, err)
	}

	goals := make([]model.Goal, 0, len(records))
	seen := make(map[string]bool, len(records))
	for i, r := range records {
		switch {
		case r.ID == "":
			return nil, fmt.Errorf("%w: goal %d has no id", ErrPersistenceCorrupt, i)
		case seen[r.ID]:
			return nil, fmt.Errorf("%w: duplicate goal id %s", ErrPersistenceCorrupt, r.ID)
		case r.Target <= 0:
			return nil, fmt.Errorf("%w: goal %s has target %d", ErrPersistenceCorrupt, r.ID, r.Target)
		}
		seen[r.ID] = true
		g := model.Goal(r)
		g.Current = g.Clamp(g.Current)
		goals = append(goals, g)
	}
	return goals, nil
}
