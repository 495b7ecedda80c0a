package views

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/dori/taskdeck/internal/ui/theme"
)

// StatsView represents the statistics view. Everything is recomputed on
// render since overdue and due-today depend on the current time.
type StatsView struct {
	tasks  *tracker.TaskStore
	goals  *tracker.GoalStore
	now    func() time.Time
	width  int
	height int
}

// NewStatsView creates a new stats view
func NewStatsView(tasks *tracker.TaskStore, goals *tracker.GoalStore) StatsView {
	return StatsView{
		tasks: tasks,
		goals: goals,
		now:   time.Now,
	}
}

// WithClock overrides time.Now, for tests
func (v StatsView) WithClock(now func() time.Time) StatsView {
	v.now = now
	return v
}

// Init initializes the stats view
func (v StatsView) Init() tea.Cmd {
	return nil
}

// SetSize sets the view dimensions
func (v StatsView) SetSize(width, height int) StatsView {
	v.width = width
	v.height = height
	return v
}

// Update handles messages
func (v StatsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return v, nil
}

// View renders the stats view
func (v StatsView) View() string {
	t := theme.Current.Theme
	stats := v.tasks.ComputeStats(v.now())

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Primary)
	sections = append(sections, titleStyle.Render("Statistics"))
	sections = append(sections, "")

	// Summary cards (side by side)
	cardStyle := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 2).
		Width(16)

	labelStyle := lipgloss.NewStyle().Foreground(t.Subtle)
	card := func(value int, label string, color lipgloss.Color) string {
		valueStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
		return cardStyle.Render(valueStyle.Render(fmt.Sprintf("%d", value)) + "\n" + labelStyle.Render(label))
	}

	cardRow := lipgloss.JoinHorizontal(lipgloss.Top,
		card(stats.Total, "Total", t.Primary),
		card(stats.Completed, "Completed", t.Success),
		card(stats.Pending(), "Pending", t.Info),
		card(stats.Overdue, "Overdue", t.Error),
		card(stats.DueToday, "Due Today", t.Warning),
	)
	sections = append(sections, cardRow)
	sections = append(sections, "")

	if stats.Total > 0 {
		ratio := float64(stats.Completed) / float64(stats.Total)
		sections = append(sections, fmt.Sprintf("Completion %s %3.0f%%", renderBar(ratio, progressBarWidth), ratio*100))
		sections = append(sections, "")
	}

	sections = append(sections, v.renderCategories())

	if goals := v.goals.Goals(); len(goals) > 0 {
		done := 0
		for _, g := range goals {
			if g.Done() {
				done++
			}
		}
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Render("Goals"))
		sections = append(sections, fmt.Sprintf("%d of %d reached", done, len(goals)))
	}

	return strings.Join(sections, "\n")
}

// renderCategories renders task counts per category
func (v StatsView) renderCategories() string {
	t := theme.Current.Theme

	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(t.Secondary)

	var lines []string
	lines = append(lines, headerStyle.Render("By Category"))

	breakdown := v.tasks.CategoryBreakdown()

	// Find max for bar scaling
	maxCount := 1
	for _, n := range breakdown {
		if n > maxCount {
			maxCount = n
		}
	}

	barMaxWidth := 30
	for _, c := range model.Categories() {
		n := breakdown[c]
		barWidth := n * barMaxWidth / maxCount
		if barWidth < 1 && n > 0 {
			barWidth = 1
		}

		bar := lipgloss.NewStyle().Foreground(t.CategoryColor(c)).Render(strings.Repeat("█", barWidth))
		lines = append(lines, fmt.Sprintf("%-10s %s %d", c.String(), bar, n))
	}

	return strings.Join(lines, "\n")
}

// IsInputMode returns whether the view is in input mode
func (v StatsView) IsInputMode() bool {
	return false
}
