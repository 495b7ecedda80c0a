package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// GoalMode represents the current input mode of the goals view
type GoalMode int

const (
	GoalModeNormal GoalMode = iota
	GoalModeAdd
	GoalModeConfirmDelete
)

const progressBarWidth = 30

// GoalsView displays goals with progress bars
type GoalsView struct {
	store  *tracker.GoalStore
	width  int
	height int

	cursor   int
	mode     GoalMode
	input    textinput.Model
	deleteID string
}

// NewGoalsView creates a new goals view
func NewGoalsView(store *tracker.GoalStore) GoalsView {
	ti := textinput.New()
	ti.Placeholder = "New goal..."
	ti.CharLimit = 128

	return GoalsView{
		store: store,
		input: ti,
	}
}

// Init initializes the goals view
func (v GoalsView) Init() tea.Cmd {
	return nil
}

// IsInputMode returns whether the view is capturing keys
func (v GoalsView) IsInputMode() bool {
	return v.mode != GoalModeNormal
}

// SetSize sets the view dimensions
func (v GoalsView) SetSize(width, height int) GoalsView {
	v.width = width
	v.height = height
	v.input.Width = width - 4
	return v
}

func (v GoalsView) current() (model.Goal, bool) {
	goals := v.store.Goals()
	if v.cursor < 0 || v.cursor >= len(goals) {
		return model.Goal{}, false
	}
	return goals[v.cursor], true
}

func (v *GoalsView) clampCursor() {
	n := len(v.store.Goals())
	if v.cursor >= n {
		v.cursor = n - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

// Update handles messages
func (v GoalsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch v.mode {
	case GoalModeAdd:
		return v.handleAddMode(keyMsg)
	case GoalModeConfirmDelete:
		return v.handleDeleteConfirm(keyMsg)
	}

	switch keyMsg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		v.cursor++
		v.clampCursor()
	case "a":
		v.mode = GoalModeAdd
		v.input.SetValue("")
		cmd := v.input.Focus()
		return v, cmd
	case "+", "=", "l", "right":
		if goal, ok := v.current(); ok {
			v.store.Increment(goal.ID)
		}
	case "-", "h", "left":
		if goal, ok := v.current(); ok {
			v.store.Decrement(goal.ID)
		}
	case "d":
		if goal, ok := v.current(); ok {
			v.deleteID = goal.ID
			v.mode = GoalModeConfirmDelete
		}
	}
	return v, nil
}

func (v GoalsView) handleAddMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if _, err := v.store.Create(v.input.Value()); err != nil {
			return v, nil
		}
		v.mode = GoalModeNormal
		v.input.Blur()
		v.cursor = len(v.store.Goals()) - 1
		return v, nil
	case "esc":
		v.mode = GoalModeNormal
		v.input.Blur()
		return v, nil
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

func (v GoalsView) handleDeleteConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		v.store.Delete(v.deleteID)
		v.mode = GoalModeNormal
		v.deleteID = ""
		v.clampCursor()
	case "n", "N", "esc":
		v.mode = GoalModeNormal
		v.deleteID = ""
	}
	return v, nil
}

// View renders the goals view
func (v GoalsView) View() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	var b strings.Builder

	if v.mode == GoalModeAdd {
		b.WriteString(styles.InputFocused.Render(v.input.View()))
		b.WriteString("\n\n")
	}
	if v.mode == GoalModeConfirmDelete {
		if goal, ok := v.store.Get(v.deleteID); ok {
			b.WriteString(lipgloss.NewStyle().Foreground(t.Warning).Bold(true).
				Render(fmt.Sprintf("Delete goal %q? (y/n)", goal.Name)))
			b.WriteString("\n\n")
		}
	}

	goals := v.store.Goals()
	if len(goals) == 0 {
		b.WriteString(styles.Label.Render("No goals yet. Press a to add one."))
		return b.String()
	}

	nameWidth := 0
	for _, g := range goals {
		if w := lipgloss.Width(g.Name); w > nameWidth {
			nameWidth = w
		}
	}
	if nameWidth > 30 {
		nameWidth = 30
	}

	for i, g := range goals {
		cursor := " "
		nameStyle := lipgloss.NewStyle().Foreground(t.Foreground).Width(nameWidth)
		if i == v.cursor {
			cursor = lipgloss.NewStyle().Foreground(t.Primary).Render(">")
			nameStyle = nameStyle.Bold(true)
		}
		count := fmt.Sprintf("%d/%d", g.Current, g.Target)
		if g.Done() {
			count = lipgloss.NewStyle().Foreground(t.Success).Render(count + " done")
		}
		fmt.Fprintf(&b, "%s %s  %s  %s", cursor, nameStyle.Render(g.Name), renderBar(g.Progress(), progressBarWidth), count)
		if i < len(goals)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderBar draws a filled/empty bar for a 0..1 ratio
func renderBar(ratio float64, width int) string {
	t := theme.Current.Theme

	filled := int(ratio * float64(width))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}
	return lipgloss.NewStyle().Foreground(t.Success).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(t.Subtle).Render(strings.Repeat("░", width-filled))
}
