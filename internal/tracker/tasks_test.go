package tracker

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/dori/taskdeck/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type memPersister struct {
	writes map[string][]string
}

func newMemPersister() *memPersister {
	return &memPersister{writes: make(map[string][]string)}
}

func (p *memPersister) Persist(key, value string) {
	p.writes[key] = append(p.writes[key], value)
}

func (p *memPersister) Get(key string) (string, bool, error) {
	w := p.writes[key]
	if len(w) == 0 {
		return "", false, nil
	}
	return w[len(w)-1], true, nil
}

func (p *memPersister) count(key string) int {
	return len(p.writes[key])
}

type eventLog struct {
	events []model.Event
}

func (l *eventLog) Notify(e model.Event) { l.events = append(l.events, e) }

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

type taskFixture struct {
	clock  *fakeClock
	store  *TaskStore
	saved  *memPersister
	events *eventLog
}

// t0 is a fixed local instant in the middle of a day
var t0 = time.Date(2026, 3, 14, 12, 0, 0, 0, time.Local)

func newTaskFixture() *taskFixture {
	f := &taskFixture{
		clock:  &fakeClock{now: t0},
		saved:  newMemPersister(),
		events: &eventLog{},
	}
	f.store = NewTaskStore(
		WithClock(f.clock.Now),
		WithIDs(sequentialIDs()),
		WithPersister(f.saved),
		WithNotifier(f.events),
	)
	return f
}

func TestTaskStore_CreateTrimsAndDefaults(t *testing.T) {
	f := newTaskFixture()

	task, err := f.store.Create("  buy milk \n", model.CategoryPersonal)
	require.NoError(t, err)

	assert.Equal(t, "buy milk", task.Text)
	assert.False(t, task.Completed)
	assert.Equal(t, model.CategoryPersonal, task.Category)
	assert.True(t, task.CreatedAt.Equal(t0))
	assert.Equal(t, int64(86_400_000), task.DueDate.UnixMilli()-task.CreatedAt.UnixMilli())
	assert.Equal(t, []model.Event{model.EventAdd}, f.events.events)
	assert.Equal(t, 1, f.saved.count(KeyTasks))
}

func TestTaskStore_CreateDefaultsCategoryToWork(t *testing.T) {
	f := newTaskFixture()

	task, err := f.store.Create("standup", "")
	require.NoError(t, err)
	assert.Equal(t, model.CategoryWork, task.Category)
}

func TestTaskStore_CreateRejectsBlankText(t *testing.T) {
	f := newTaskFixture()
	_, err := f.store.Create("keep", model.CategoryWork)
	require.NoError(t, err)

	for _, text := range []string{"", " ", "\t\n", "   "} {
		_, err := f.store.Create(text, model.CategoryWork)
		assert.ErrorIs(t, err, ErrValidationRejected, "text %q", text)
		assert.True(t, IsValidationError(err))
	}

	assert.Equal(t, 1, f.store.Len())
	assert.Equal(t, 1, f.saved.count(KeyTasks), "rejected creates must not persist")
	assert.Equal(t, []model.Event{model.EventAdd}, f.events.events)
}

func TestTaskStore_CreateRejectsUnknownCategory(t *testing.T) {
	f := newTaskFixture()

	_, err := f.store.Create("swim", model.Category("hobby"))
	assert.ErrorIs(t, err, ErrValidationRejected)
	assert.Zero(t, f.store.Len())
}

func TestTaskStore_NewestFirstAndUniqueIDs(t *testing.T) {
	f := newTaskFixture()
	for _, text := range []string{"first", "second", "third"} {
		_, err := f.store.Create(text, model.CategoryWork)
		require.NoError(t, err)
		f.clock.Advance(time.Minute)
	}

	tasks := f.store.Tasks()
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Text)
	assert.Equal(t, "second", tasks[1].Text)
	assert.Equal(t, "first", tasks[2].Text)

	seen := map[string]bool{}
	for _, task := range tasks {
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		seen[task.ID] = true
	}
}

func TestTaskStore_ToggleIsInvolution(t *testing.T) {
	f := newTaskFixture()
	task, err := f.store.Create("write report", model.CategoryWork)
	require.NoError(t, err)

	assert.True(t, f.store.ToggleComplete(task.ID))
	got, _ := f.store.Get(task.ID)
	assert.True(t, got.Completed)

	assert.True(t, f.store.ToggleComplete(task.ID))
	got, _ = f.store.Get(task.ID)
	assert.False(t, got.Completed)

	assert.Equal(t,
		[]model.Event{model.EventAdd, model.EventComplete, model.EventComplete},
		f.events.events)
	assert.Equal(t, 3, f.saved.count(KeyTasks))
}

func TestTaskStore_ToggleUnknownIDStillNotifies(t *testing.T) {
	f := newTaskFixture()

	assert.False(t, f.store.ToggleComplete("nope"))
	assert.Equal(t, []model.Event{model.EventComplete}, f.events.events)
	assert.Zero(t, f.saved.count(KeyTasks))
}

func TestTaskStore_Delete(t *testing.T) {
	f := newTaskFixture()
	a, _ := f.store.Create("a", model.CategoryWork)
	b, _ := f.store.Create("b", model.CategoryWork)

	assert.True(t, f.store.Delete(a.ID))
	assert.False(t, f.store.Delete(a.ID))

	tasks := f.store.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, b.ID, tasks[0].ID)

	reloaded := NewTaskStore()
	reloaded.Load(f.saved)
	require.Len(t, reloaded.Tasks(), 1)
	assert.Equal(t, b.ID, reloaded.Tasks()[0].ID)

	assert.Equal(t, model.EventDelete, f.events.events[len(f.events.events)-1])
}

func TestTaskStore_DeleteDoesNotAliasSnapshots(t *testing.T) {
	f := newTaskFixture()
	a, _ := f.store.Create("a", model.CategoryWork)
	f.store.Create("b", model.CategoryWork)
	f.store.Create("c", model.CategoryWork)

	before := f.store.Tasks()
	f.store.Delete(a.ID)

	assert.Len(t, before, 3)
	assert.Equal(t, "a", before[2].Text)
}

func TestTaskStore_Reschedule(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("dentist", model.CategoryPersonal)

	f.clock.Advance(3 * time.Hour)
	assert.True(t, f.store.Reschedule(task.ID, 5))
	got, _ := f.store.Get(task.ID)
	assert.True(t, got.DueDate.Equal(t0.Add(3*time.Hour+5*Day)))
	assert.True(t, got.CreatedAt.Equal(t0), "createdAt never changes")

	assert.True(t, f.store.Reschedule(task.ID, -2))
	got, _ = f.store.Get(task.ID)
	assert.True(t, got.DueDate.Equal(t0.Add(3*time.Hour-2*Day)))

	assert.False(t, f.store.Reschedule("missing", 1))
}

func TestTaskStore_RescheduleFarOffsets(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("someday", model.CategoryOther)
	now := f.clock.Now()

	require.True(t, f.store.Reschedule(task.ID, 200_000))
	got, _ := f.store.Get(task.ID)
	assert.True(t, got.DueDate.After(now), "forward offset moves the due date forward")
	assert.Equal(t, now.UnixMilli()+200_000*msPerDay, got.DueDate.UnixMilli())

	require.True(t, f.store.Reschedule(task.ID, -200_000))
	got, _ = f.store.Get(task.ID)
	assert.True(t, got.DueDate.Before(now), "backward offset moves the due date back")
	assert.Equal(t, now.UnixMilli()-200_000*msPerDay, got.DueDate.UnixMilli())

	require.True(t, f.store.Reschedule(task.ID, math.MaxInt))
	got, _ = f.store.Get(task.ID)
	assert.Equal(t, now.UnixMilli()+MaxRescheduleDays*msPerDay, got.DueDate.UnixMilli())

	require.True(t, f.store.Reschedule(task.ID, math.MinInt))
	got, _ = f.store.Get(task.ID)
	assert.Equal(t, now.UnixMilli()-MaxRescheduleDays*msPerDay, got.DueDate.UnixMilli())
}

func TestTaskStore_Recategorize(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("run 5k", model.CategoryWork)

	assert.True(t, f.store.Recategorize(task.ID, model.CategoryExercise))
	got, _ := f.store.Get(task.ID)
	assert.Equal(t, model.CategoryExercise, got.Category)

	assert.False(t, f.store.Recategorize(task.ID, model.Category("bogus")))
	got, _ = f.store.Get(task.ID)
	assert.Equal(t, model.CategoryExercise, got.Category)

	assert.False(t, f.store.Recategorize("missing", model.CategoryOther))
}

func TestTaskStore_MutationsKeepCompletion(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("laundry", model.CategoryOther)
	f.store.ToggleComplete(task.ID)

	f.store.Reschedule(task.ID, 3)
	f.store.Recategorize(task.ID, model.CategoryPersonal)

	got, _ := f.store.Get(task.ID)
	assert.True(t, got.Completed)
}

func TestTaskStore_FilterByText(t *testing.T) {
	f := newTaskFixture()
	f.store.Create("Finish work report", model.CategoryWork)
	f.store.Create("Call mom", model.CategoryPersonal)
	f.store.Create("Homework for class", model.CategoryWork)

	all := f.store.FilterByText("")
	require.Len(t, all, 3)
	assert.Equal(t, f.store.Tasks(), all)

	matches := f.store.FilterByText("WORK")
	require.Len(t, matches, 2)
	assert.Equal(t, "Homework for class", matches[0].Text)
	assert.Equal(t, "Finish work report", matches[1].Text)

	assert.Empty(t, f.store.FilterByText("personal"), "category is not searched")
}

func TestTaskStore_FilterByCategory(t *testing.T) {
	f := newTaskFixture()
	f.store.Create("a", model.CategoryWork)
	f.store.Create("b", model.CategoryPersonal)
	f.store.Create("c", model.CategoryWork)

	work := f.store.FilterByCategory(model.CategoryWork)
	require.Len(t, work, 2)
	assert.Equal(t, "c", work[0].Text)
	assert.Equal(t, "a", work[1].Text)

	breakdown := f.store.CategoryBreakdown()
	assert.Equal(t, 2, breakdown[model.CategoryWork])
	assert.Equal(t, 1, breakdown[model.CategoryPersonal])
	assert.Equal(t, 0, breakdown[model.CategoryExercise])
	assert.Len(t, breakdown, 4)
}

func TestTaskStore_OverdueBoundaryIsStrict(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("pay rent", model.CategoryPersonal)
	f.store.Reschedule(task.ID, 0)

	got, _ := f.store.Get(task.ID)
	assert.False(t, got.IsOverdue(got.DueDate))
	assert.Empty(t, f.store.FindOverdueCandidates(got.DueDate))
	assert.Zero(t, f.store.ComputeStats(got.DueDate).Overdue)

	later := got.DueDate.Add(time.Millisecond)
	assert.True(t, got.IsOverdue(later))
	assert.Len(t, f.store.FindOverdueCandidates(later), 1)
	assert.Equal(t, 1, f.store.ComputeStats(later).Overdue)
}

func TestTaskStore_ComputeStats(t *testing.T) {
	f := newTaskFixture()

	dueToday, _ := f.store.Create("due today", model.CategoryWork)
	f.store.Reschedule(dueToday.ID, 0)

	overdue, _ := f.store.Create("overdue", model.CategoryWork)
	f.store.Reschedule(overdue.ID, -2)

	doneLate, _ := f.store.Create("completed and late", model.CategoryWork)
	f.store.Reschedule(doneLate.ID, -1)
	f.store.ToggleComplete(doneLate.ID)

	f.store.Create("due tomorrow", model.CategoryWork)

	now := t0.Add(time.Hour)
	stats := f.store.ComputeStats(now)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 1, stats.Completed)
	assert.Equal(t, 2, stats.Overdue, "due-today task is past due by an hour")
	assert.Equal(t, 1, stats.DueToday)
	assert.Equal(t, 3, stats.Pending())

	candidates := f.store.FindOverdueCandidates(now)
	require.Len(t, candidates, 2)
	assert.Equal(t, overdue.ID, candidates[0].ID)
	assert.Equal(t, dueToday.ID, candidates[1].ID)
}

func TestTaskStore_DueTodayUsesCalendarDay(t *testing.T) {
	f := newTaskFixture()
	task, _ := f.store.Create("late night", model.CategoryOther)
	f.store.ToggleComplete(task.ID)

	// due at t0 + 1 day, i.e. noon tomorrow
	assert.Zero(t, f.store.ComputeStats(t0).DueToday)

	tomorrowMorning := model.StartOfDay(t0).AddDate(0, 0, 1).Add(time.Minute)
	assert.Equal(t, 1, f.store.ComputeStats(tomorrowMorning).DueToday, "completed tasks still count")

	dayAfter := model.StartOfDay(t0).AddDate(0, 0, 2)
	assert.Zero(t, f.store.ComputeStats(dayAfter).DueToday)
}

func TestTaskStore_StatsInvariants(t *testing.T) {
	f := newTaskFixture()
	for i := 0; i < 20; i++ {
		task, err := f.store.Create(fmt.Sprintf("task %d", i), model.Categories()[i%4])
		require.NoError(t, err)
		f.store.Reschedule(task.ID, i-10)
		if i%3 == 0 {
			f.store.ToggleComplete(task.ID)
		}
	}

	for _, offset := range []time.Duration{-30 * Day, 0, time.Hour, 5 * Day, 30 * Day} {
		s := f.store.ComputeStats(t0.Add(offset))
		assert.LessOrEqual(t, s.Completed, s.Total)
		assert.LessOrEqual(t, s.Overdue, s.Total-s.Completed)
		assert.LessOrEqual(t, s.DueToday, s.Total)
	}
}

func TestTaskStore_LoadRoundTrip(t *testing.T) {
	f := newTaskFixture()
	f.store.Create("one", model.CategoryWork)
	two, _ := f.store.Create("two", model.CategoryExercise)
	f.store.ToggleComplete(two.ID)
	f.store.Create("three", model.CategoryOther)

	reloaded := NewTaskStore()
	reloaded.Load(f.saved)
	assert.Equal(t, f.store.Tasks(), reloaded.Tasks())
}

func TestTaskStore_LoadCorruptFallsBackToEmpty(t *testing.T) {
	for name, blob := range map[string]string{
		"not json":     "{oops",
		"wrong shape":  `{"id":"a"}`,
		"bad category": `[{"id":"a","text":"x","category":"hobby"}]`,
		"empty text":   `[{"id":"a","text":" ","category":"work"}]`,
		"duplicate id": `[{"id":"a","text":"x","category":"work"},{"id":"a","text":"y","category":"work"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			saved := newMemPersister()
			saved.Persist(KeyTasks, blob)

			store := NewTaskStore()
			store.Load(saved)
			assert.Zero(t, store.Len())
		})
	}
}

func TestTaskStore_LoadReadErrorFallsBackToEmpty(t *testing.T) {
	store := NewTaskStore()
	store.Load(failingGetter{})
	assert.Zero(t, store.Len())

	store.Load(nil)
	assert.Zero(t, store.Len())
}

type failingGetter struct{}

func (failingGetter) Get(string) (string, bool, error) {
	return "", false, fmt.Errorf("disk on fire")
}

func TestTaskStore_FindByPrefix(t *testing.T) {
	store := NewTaskStore(WithIDs(func() func() string {
		ids := []string{"abc123", "abd456", "xyz789"}
		i := 0
		return func() string { i++; return ids[i-1] }
	}()))
	store.Create("a", model.CategoryWork)
	store.Create("b", model.CategoryWork)
	store.Create("c", model.CategoryWork)

	task, err := store.FindByPrefix("abc")
	require.NoError(t, err)
	assert.Equal(t, "a", task.Text)

	task, err = store.FindByPrefix("x")
	require.NoError(t, err)
	assert.Equal(t, "c", task.Text)

	_, err = store.FindByPrefix("ab")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByPrefix("zzz")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.FindByPrefix("")
	assert.ErrorIs(t, err, ErrNotFound)
}
