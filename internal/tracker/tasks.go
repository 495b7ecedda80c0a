package tracker

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dori/taskdeck/internal/model"
)

// Day is the fixed span used for default due dates and rescheduling
const Day = 24 * time.Hour

// MaxRescheduleDays bounds Reschedule offsets so due dates stay representable
const MaxRescheduleDays = 100_000_000

const msPerDay = int64(Day / time.Millisecond)

// Stats is a point-in-time summary of the task collection
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Overdue   int `json:"overdue"`
	DueToday  int `json:"dueToday"`
}

// Pending returns the number of incomplete tasks
func (s Stats) Pending() int {
	return s.Total - s.Completed
}

// TaskStore owns the ordered task collection, newest first
type TaskStore struct {
	opts  options
	tasks []model.Task
}

// NewTaskStore creates an empty task store
func NewTaskStore(opts ...Option) *TaskStore {
	return &TaskStore{opts: newOptions(opts)}
}

// Load replaces the collection with the snapshot stored under KeyTasks.
// Absent or corrupt snapshots leave the store empty.
func (s *TaskStore) Load(g Getter) {
	s.tasks = nil

	blob, ok := loadBlob(g, KeyTasks, s.opts.logger)
	if !ok {
		return
	}
	tasks, err := DecodeTasks(blob)
	if err != nil {
		s.opts.logger.Warn("discarding stored tasks", "error", err)
		return
	}
	s.tasks = tasks
	s.opts.logger.Debug("loaded tasks", "count", len(tasks))
}

// Create adds a task with a trimmed text. Blank text returns
// ErrValidationRejected and leaves the collection unchanged.
func (s *TaskStore) Create(text string, category model.Category) (model.Task, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Task{}, fmt.Errorf("%w: task text is empty", ErrValidationRejected)
	}
	if category == "" {
		category = model.DefaultCategory
	}
	if !category.Valid() {
		return model.Task{}, fmt.Errorf("%w: unknown category %q", ErrValidationRejected, category)
	}

	now := s.opts.clock()
	task := model.Task{
		ID:        s.opts.newID(),
		Text:      text,
		CreatedAt: now,
		DueDate:   now.Add(Day),
		Category:  category,
	}
	s.tasks = append([]model.Task{task}, s.tasks...)

	s.opts.notifier.Notify(model.EventAdd)
	s.persist()
	return task, nil
}

// ToggleComplete flips the completion flag of id. The complete event is
// emitted on every call, including reopening and unknown ids.
func (s *TaskStore) ToggleComplete(id string) bool {
	found := s.update(id, func(t *model.Task) {
		t.Completed = !t.Completed
	})
	s.opts.notifier.Notify(model.EventComplete)
	return found
}

// Delete removes id from the collection. The delete event is always emitted.
func (s *TaskStore) Delete(id string) bool {
	i := s.index(id)
	if i >= 0 {
		s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
		s.persist()
	}
	s.opts.notifier.Notify(model.EventDelete)
	return i >= 0
}

// Reschedule sets the due date of id to now plus daysFromNow days.
// Negative values backdate. Offsets beyond MaxRescheduleDays are clamped.
func (s *TaskStore) Reschedule(id string, daysFromNow int) bool {
	days := int64(max(-MaxRescheduleDays, min(daysFromNow, MaxRescheduleDays)))
	due := time.UnixMilli(s.opts.clock().UnixMilli() + days*msPerDay)
	return s.update(id, func(t *model.Task) {
		t.DueDate = due
	})
}

// Recategorize sets the category of id. Unknown categories are ignored.
func (s *TaskStore) Recategorize(id string, category model.Category) bool {
	if !category.Valid() {
		return false
	}
	return s.update(id, func(t *model.Task) {
		t.Category = category
	})
}

// Tasks returns a copy of the collection in stored order
func (s *TaskStore) Tasks() []model.Task {
	out := make([]model.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

// Get returns the task with id
func (s *TaskStore) Get(id string) (model.Task, bool) {
	if i := s.index(id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

// FindByPrefix resolves a unique id prefix, as typed on the command line
func (s *TaskStore) FindByPrefix(prefix string) (model.Task, error) {
	ids := make([]string, len(s.tasks))
	for i, t := range s.tasks {
		ids[i] = t.ID
	}
	i, err := matchPrefix(ids, prefix)
	if err != nil {
		return model.Task{}, err
	}
	return s.tasks[i], nil
}

// FilterByText returns tasks whose text contains query, ignoring case.
// An empty query matches every task.
func (s *TaskStore) FilterByText(query string) []model.Task {
	q := strings.ToLower(query)
	return s.filter(func(t model.Task) bool {
		return strings.Contains(strings.ToLower(t.Text), q)
	})
}

// FilterByCategory returns tasks in category c
func (s *TaskStore) FilterByCategory(c model.Category) []model.Task {
	return s.filter(func(t model.Task) bool {
		return t.Category == c
	})
}

// FindOverdueCandidates returns the tasks that are overdue at now
func (s *TaskStore) FindOverdueCandidates(now time.Time) []model.Task {
	return s.filter(func(t model.Task) bool {
		return t.IsOverdue(now)
	})
}

// ComputeStats summarises the collection as of now. DueToday counts tasks
// due within now's local calendar day, completed or not.
func (s *TaskStore) ComputeStats(now time.Time) Stats {
	stats := Stats{Total: len(s.tasks)}
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.Completed {
			stats.Completed++
		}
		if t.IsOverdue(now) {
			stats.Overdue++
		}
		if t.IsDueOn(now) {
			stats.DueToday++
		}
	}
	return stats
}

// CategoryBreakdown counts tasks per category; every category is present
func (s *TaskStore) CategoryBreakdown() map[model.Category]int {
	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}
	for _, t := range s.tasks {
		counts[t.Category]++
	}
	return counts
}

func (s *TaskStore) filter(keep func(model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

func (s *TaskStore) index(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

// update applies fn to the task with id and persists. Unknown ids are a no-op.
func (s *TaskStore) update(id string, fn func(*model.Task)) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}
	fn(&s.tasks[i])
	s.persist()
	return true
}

func (s *TaskStore) persist() {
	blob, err := EncodeTasks(s.tasks)
	if err != nil {
		s.opts.logger.Error("failed to snapshot tasks", "error", err)
		return
	}
	s.opts.persister.Persist(KeyTasks, blob)
}

// matchPrefix returns the index of the single id starting with prefix
func matchPrefix(ids []string, prefix string) (int, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return -1, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	match := -1
	for i, id := range ids {
		if id == prefix {
			return i, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match >= 0 {
				return -1, fmt.Errorf("%w: id prefix %q is ambiguous", ErrNotFound, prefix)
			}
			match = i
		}
	}
	if match < 0 {
		return -1, fmt.Errorf("%w: no item with id %q", ErrNotFound, prefix)
	}
	return match, nil
}

// IsValidationError reports whether err is a rejected-input error
func IsValidationError(err error) bool {
	return errors.Is(err, ErrValidationRejected)
}
