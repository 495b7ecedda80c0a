package views

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/timefmt"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// OverdueCheckInterval is how often the tasks view re-evaluates the overdue banner
const OverdueCheckInterval = 30 * time.Second

// TaskMode represents the current input mode of the tasks view
type TaskMode int

const (
	TaskModeNormal TaskMode = iota
	TaskModeAdd
	TaskModeSearch
	TaskModeConfirmDelete
)

// OverdueTickMsg is the periodic overdue re-check; it schedules the next one
type OverdueTickMsg struct{}

// OverdueCheckMsg is a one-off overdue re-check
type OverdueCheckMsg struct{}

// DueReminder sends a reminder for the alerted task
type DueReminder interface {
	SendDueReminder(title string, dueIn time.Duration) error
}

// TasksView displays the task list
type TasksView struct {
	store    *tracker.TaskStore
	reminder DueReminder
	logger   *slog.Logger
	now      func() time.Time
	width    int
	height   int

	tasks        []model.Task // visible rows after filters
	cursor       int
	scrollOffset int

	mode           TaskMode
	input          textinput.Model
	addCategory    model.Category
	searchFilter   string
	categoryFilter model.Category // empty = all
	deleteID       string

	// At most one overdue task is alerted at a time; dismissed ids stay
	// quiet for the session.
	alertedID string
	dismissed map[string]bool

	statusMsg string
}

// NewTasksView creates a new tasks view
func NewTasksView(store *tracker.TaskStore, reminder DueReminder) TasksView {
	ti := textinput.New()
	ti.Placeholder = "New task..."
	ti.CharLimit = 256

	v := TasksView{
		store:       store,
		reminder:    reminder,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:         time.Now,
		input:       ti,
		addCategory: model.DefaultCategory,
		dismissed:   make(map[string]bool),
	}
	v.refresh()
	return v
}

// WithClock overrides time.Now, for tests
func (v TasksView) WithClock(now func() time.Time) TasksView {
	v.now = now
	v.refresh()
	return v
}

// WithLogger sets the logger for reminder delivery failures
func (v TasksView) WithLogger(l *slog.Logger) TasksView {
	if l != nil {
		v.logger = l
	}
	return v
}

// Init starts the overdue check loop
func (v TasksView) Init() tea.Cmd {
	return tea.Batch(func() tea.Msg { return OverdueCheckMsg{} }, overdueTick())
}

func overdueTick() tea.Cmd {
	return tea.Tick(OverdueCheckInterval, func(time.Time) tea.Msg {
		return OverdueTickMsg{}
	})
}

// IsInputMode returns true when the view is capturing keys
func (v TasksView) IsInputMode() bool {
	return v.mode != TaskModeNormal
}

// SetSize updates the view dimensions
func (v TasksView) SetSize(width, height int) TasksView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	return v
}

// AlertedID returns the id of the task shown in the overdue banner
func (v TasksView) AlertedID() string {
	return v.alertedID
}

// Tasks returns the visible rows
func (v TasksView) Tasks() []model.Task {
	return v.tasks
}

// Refresh recomputes rows after an outside change
func (v TasksView) Refresh() TasksView {
	v.refresh()
	return v
}

// visibleTaskCount returns how many tasks can fit in the viewport
func (v TasksView) visibleTaskCount() int {
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// ensureCursorVisible adjusts scrollOffset to keep cursor in view
func (v *TasksView) ensureCursorVisible() {
	visible := v.visibleTaskCount()

	if v.cursor < v.scrollOffset {
		v.scrollOffset = v.cursor
	}
	if v.cursor >= v.scrollOffset+visible {
		v.scrollOffset = v.cursor - visible + 1
	}

	maxOffset := len(v.tasks) - visible
	if maxOffset < 0 {
		maxOffset = 0
	}
	if v.scrollOffset > maxOffset {
		v.scrollOffset = maxOffset
	}
	if v.scrollOffset < 0 {
		v.scrollOffset = 0
	}
}

// refresh reapplies filters and clamps the cursor
func (v *TasksView) refresh() {
	rows := v.store.FilterByText(v.searchFilter)
	if v.categoryFilter != "" {
		kept := rows[:0]
		for _, t := range rows {
			if t.Category == v.categoryFilter {
				kept = append(kept, t)
			}
		}
		rows = kept
	}
	v.tasks = rows

	if v.cursor >= len(v.tasks) {
		v.cursor = len(v.tasks) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
	v.ensureCursorVisible()
}

// selectAlert keeps the current alert while it is still overdue, otherwise
// picks the first undismissed candidate. It reports whether a new task was
// picked.
func (v *TasksView) selectAlert() bool {
	candidates := v.store.FindOverdueCandidates(v.now())
	for _, t := range candidates {
		if t.ID == v.alertedID {
			return false
		}
	}
	v.alertedID = ""
	for _, t := range candidates {
		if !v.dismissed[t.ID] {
			v.alertedID = t.ID
			return true
		}
	}
	return false
}

// checkOverdue updates the alert and sends a reminder for a newly alerted task
func (v *TasksView) checkOverdue() tea.Cmd {
	if !v.selectAlert() || v.reminder == nil {
		return nil
	}
	task, ok := v.store.Get(v.alertedID)
	if !ok {
		return nil
	}
	reminder, logger := v.reminder, v.logger
	dueIn := task.DueDate.Sub(v.now())
	return func() tea.Msg {
		if err := reminder.SendDueReminder(task.Text, dueIn); err != nil {
			logger.Debug("due reminder failed", "task", task.ID, "error", err)
		}
		return nil
	}
}

func (v TasksView) current() (model.Task, bool) {
	if v.cursor < 0 || v.cursor >= len(v.tasks) {
		return model.Task{}, false
	}
	return v.tasks[v.cursor], true
}

// Update handles messages for the tasks view
func (v TasksView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case OverdueCheckMsg:
		v.refresh()
		cmd := v.checkOverdue()
		return v, cmd

	case OverdueTickMsg:
		v.refresh()
		cmd := v.checkOverdue()
		return v, tea.Batch(cmd, overdueTick())

	case tea.KeyMsg:
		switch v.mode {
		case TaskModeAdd:
			return v.handleAddMode(msg)
		case TaskModeSearch:
			return v.handleSearchMode(msg)
		case TaskModeConfirmDelete:
			return v.handleDeleteConfirm(msg)
		default:
			return v.handleNormalMode(msg)
		}
	}
	return v, nil
}

// handleNormalMode handles keypresses in normal mode
func (v TasksView) handleNormalMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v.statusMsg = ""

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
		v.ensureCursorVisible()
	case "down", "j":
		if v.cursor < len(v.tasks)-1 {
			v.cursor++
		}
		v.ensureCursorVisible()
	case "g":
		v.cursor = 0
		v.ensureCursorVisible()
	case "G":
		if len(v.tasks) > 0 {
			v.cursor = len(v.tasks) - 1
		}
		v.ensureCursorVisible()

	case "a":
		v.mode = TaskModeAdd
		v.addCategory = model.DefaultCategory
		v.input.Placeholder = "New task..."
		v.input.SetValue("")
		cmd := v.input.Focus()
		return v, cmd

	case "/":
		v.mode = TaskModeSearch
		v.input.Placeholder = "Filter..."
		v.input.SetValue(v.searchFilter)
		cmd := v.input.Focus()
		return v, cmd

	case "f":
		v.categoryFilter = nextFilter(v.categoryFilter)
		v.refresh()

	case "esc":
		v.searchFilter = ""
		v.categoryFilter = ""
		v.refresh()

	case "tab":
		if task, ok := v.current(); ok {
			v.store.ToggleComplete(task.ID)
			v.refresh()
			cmd := v.checkOverdue()
			return v, cmd
		}

	case "d":
		if task, ok := v.current(); ok {
			v.deleteID = task.ID
			v.mode = TaskModeConfirmDelete
		}

	case "+", "=":
		return v.shiftDue(1)
	case "-":
		return v.shiftDue(-1)

	case "c":
		if task, ok := v.current(); ok {
			v.store.Recategorize(task.ID, task.Category.Next())
			v.refresh()
		}

	case "x":
		if v.alertedID != "" {
			v.dismissed[v.alertedID] = true
			v.alertedID = ""
			v.statusMsg = "Alert dismissed"
			cmd := v.checkOverdue()
			return v, cmd
		}
	}
	return v, nil
}

// shiftDue moves the due date of the current task by delta days, keeping
// the whole-day offset from now.
func (v TasksView) shiftDue(delta int) (tea.Model, tea.Cmd) {
	task, ok := v.current()
	if !ok {
		return v, nil
	}
	days := dayOffset(task.DueDate, v.now()) + delta
	v.store.Reschedule(task.ID, days)
	v.refresh()
	if updated, ok := v.store.Get(task.ID); ok {
		v.statusMsg = fmt.Sprintf("Due %s", timefmt.Relative(updated.DueDate, v.now()))
	}
	cmd := v.checkOverdue()
	return v, cmd
}

func dayOffset(due, now time.Time) int {
	return int(math.Round(float64(due.Sub(now)) / float64(tracker.Day)))
}

func nextFilter(c model.Category) model.Category {
	all := model.Categories()
	if c == "" {
		return all[0]
	}
	for i, cat := range all {
		if cat == c && i+1 < len(all) {
			return all[i+1]
		}
	}
	return ""
}

// handleAddMode handles keypresses when adding a task
func (v TasksView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		task, err := v.store.Create(v.input.Value(), v.addCategory)
		if err != nil {
			// Blank text keeps the input open
			return v, nil
		}
		v.mode = TaskModeNormal
		v.input.Blur()
		v.input.SetValue("")
		v.refresh()
		v.cursor = 0
		v.ensureCursorVisible()
		v.statusMsg = fmt.Sprintf("Added %q", task.Text)
		return v, nil
	case "tab":
		v.addCategory = v.addCategory.Next()
		return v, nil
	case "esc":
		v.mode = TaskModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleSearchMode filters as the user types
func (v TasksView) handleSearchMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		v.searchFilter = strings.TrimSpace(v.input.Value())
		v.mode = TaskModeNormal
		v.input.Blur()
		v.refresh()
		return v, nil
	case "esc":
		v.mode = TaskModeNormal
		v.input.Blur()
		v.searchFilter = ""
		v.refresh()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	v.searchFilter = v.input.Value()
	v.refresh()
	return v, cmd
}

// handleDeleteConfirm handles y/n after d
func (v TasksView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.mode = TaskModeNormal
		v.store.Delete(v.deleteID)
		if v.alertedID == v.deleteID {
			v.alertedID = ""
		}
		v.deleteID = ""
		v.refresh()
		cmd := v.checkOverdue()
		return v, cmd
	case "n", "N", "esc":
		v.mode = TaskModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// View renders the tasks view
func (v TasksView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme
	now := v.now()

	var b strings.Builder

	if banner := v.renderBanner(now); banner != "" {
		b.WriteString(banner)
		b.WriteString("\n")
	}

	switch v.mode {
	case TaskModeAdd:
		category := lipgloss.NewStyle().Foreground(t.CategoryColor(v.addCategory)).Render("[" + v.addCategory.String() + "]")
		b.WriteString(styles.InputFocused.Render(v.input.View() + " " + category))
		b.WriteString("\n\n")
	case TaskModeSearch:
		b.WriteString(lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Render("/"))
		b.WriteString(v.input.View())
		b.WriteString("\n\n")
	default:
		if filters := v.formatActiveFilters(); filters != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Info).Italic(true).Render(filters))
			b.WriteString(lipgloss.NewStyle().Foreground(t.Subtle).Render(" (esc to clear)"))
			b.WriteString("\n\n")
		}
	}

	if v.mode == TaskModeConfirmDelete {
		if task, ok := v.store.Get(v.deleteID); ok {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Bold(true).
				Render(fmt.Sprintf("Delete %q? (y/n)", task.Text)))
			b.WriteString("\n\n")
		}
	}

	if len(v.tasks) == 0 {
		empty := "No tasks yet. Press a to add one."
		if v.store.Len() > 0 {
			empty = "No tasks match the current filter."
		}
		b.WriteString(styles.Label.Render(empty))
		return b.String()
	}

	end := v.scrollOffset + v.visibleTaskCount()
	if end > len(v.tasks) {
		end = len(v.tasks)
	}
	for i := v.scrollOffset; i < end; i++ {
		b.WriteString(v.renderTask(v.tasks[i], i == v.cursor, now))
		if i < end-1 {
			b.WriteString("\n")
		}
	}

	if v.statusMsg != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().Foreground(t.Info).Render(v.statusMsg))
	}
	return b.String()
}

func (v TasksView) renderBanner(now time.Time) string {
	if v.alertedID == "" {
		return ""
	}
	task, ok := v.store.Get(v.alertedID)
	if !ok || !task.IsOverdue(now) {
		return ""
	}
	text := fmt.Sprintf("Overdue: %s (due %s)  x to dismiss", task.Text, timefmt.Relative(task.DueDate, now))
	return theme.Current.Styles.Banner.Render(text)
}

func (v TasksView) formatActiveFilters() string {
	var parts []string
	if v.searchFilter != "" {
		parts = append(parts, fmt.Sprintf("text:%q", v.searchFilter))
	}
	if v.categoryFilter != "" {
		parts = append(parts, "category:"+v.categoryFilter.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return "Filter " + strings.Join(parts, " ")
}

// renderTask renders one row
func (v TasksView) renderTask(task model.Task, isCursor bool, now time.Time) string {
	t := theme.Current.Theme
	styles := theme.Current.Styles

	checkbox := "[ ]"
	if task.Completed {
		checkbox = "[x]"
	}

	titleStyle := styles.TaskNormal
	if task.Completed {
		titleStyle = styles.TaskDone
	} else if task.IsOverdue(now) {
		titleStyle = styles.TaskOverdue
	}
	if isCursor {
		titleStyle = titleStyle.Background(t.Highlight)
	}

	category := lipgloss.NewStyle().
		Foreground(t.CategoryColor(task.Category)).
		Width(10).
		Render(task.Category.String())

	dueStyle := styles.DueDate
	if task.IsOverdue(now) {
		dueStyle = lipgloss.NewStyle().Foreground(t.Error)
	} else if task.Completed {
		dueStyle = styles.Label
	}
	due := dueStyle.Render(timefmt.DueLabel(task, now))

	cursor := " "
	if isCursor {
		cursor = lipgloss.NewStyle().Foreground(t.Primary).Render(">")
	}

	return fmt.Sprintf("%s %s %s %s %s", cursor, checkbox, category, titleStyle.Render(task.Text), due)
}
