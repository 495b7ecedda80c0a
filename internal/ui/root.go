package ui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/dori/taskdeck/internal/ui/theme"
	"github.com/dori/taskdeck/internal/ui/views"
)

// Deps are the stores and services the UI drives
type Deps struct {
	Tasks    *tracker.TaskStore
	Goals    *tracker.GoalStore
	Prefs    *tracker.Preferences
	Reminder views.DueReminder
	Logger   *slog.Logger
}

// RootModel is the main application model that manages views
type RootModel struct {
	prefs  *tracker.Preferences
	logger *slog.Logger
	keys   KeyMap
	help   help.Model
	width  int
	height int

	currentView View
	tasksView   views.TasksView
	goalsView   views.GoalsView
	statsView   views.StatsView
	helpVisible bool

	// Status message
	statusMsg string
	errorMsg  string
}

// NewRootModel creates a new root model and applies the stored theme
func NewRootModel(deps Deps) RootModel {
	h := help.New()
	h.ShowAll = true

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	theme.Apply(deps.Prefs.DarkMode())

	return RootModel{
		prefs:       deps.Prefs,
		logger:      logger,
		keys:        DefaultKeyMap(),
		help:        h,
		currentView: ViewTasks,
		tasksView:   views.NewTasksView(deps.Tasks, deps.Reminder).WithLogger(logger),
		goalsView:   views.NewGoalsView(deps.Goals),
		statsView:   views.NewStatsView(deps.Tasks, deps.Goals),
	}
}

// Init initializes the model
func (m RootModel) Init() tea.Cmd {
	return m.tasksView.Init()
}

// CurrentView returns the active view
func (m RootModel) CurrentView() View {
	return m.currentView
}

// Update handles messages
func (m RootModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width

		// Reserve space for header (1 line) and footer (3 lines)
		contentHeight := m.height - 4
		m.tasksView = m.tasksView.SetSize(m.width, contentHeight)
		m.goalsView = m.goalsView.SetSize(m.width, contentHeight)
		m.statsView = m.statsView.SetSize(m.width, contentHeight)
		return m, nil

	case views.OverdueTickMsg, views.OverdueCheckMsg:
		// The overdue loop runs whichever view is showing
		next, cmd := m.tasksView.Update(msg)
		m.tasksView = next.(views.TasksView)
		return m, cmd

	case tea.KeyMsg:
		// Clear status/error on any keypress
		m.statusMsg = ""
		m.errorMsg = ""

		isInputMode := m.isInputMode()

		switch {
		case key.Matches(msg, m.keys.Quit):
			// ctrl+c always quits, but 'q' only quits when not in input mode
			if msg.String() == "ctrl+c" || !isInputMode {
				return m, tea.Quit
			}

		case key.Matches(msg, m.keys.DarkToggle):
			dark := m.prefs.ToggleDarkMode()
			theme.Apply(dark)
			m.logger.Debug("dark mode toggled", "dark", dark)
			return m, func() tea.Msg { return ThemeChangedMsg{Dark: dark} }
		}

		if isInputMode {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Help):
			m.helpVisible = !m.helpVisible
			return m, nil
		case msg.String() == "esc" && m.helpVisible:
			m.helpVisible = false
			return m, nil
		case key.Matches(msg, m.keys.TasksView):
			m.currentView = ViewTasks
			m.tasksView = m.tasksView.Refresh()
			return m, nil
		case key.Matches(msg, m.keys.GoalsView):
			m.currentView = ViewGoals
			return m, nil
		case key.Matches(msg, m.keys.StatsView):
			m.currentView = ViewStats
			return m, nil
		}

	case ErrorMsg:
		m.errorMsg = msg.Err.Error()
		return m, nil

	case StatusMsg:
		m.statusMsg = msg.Message
		return m, nil

	case ThemeChangedMsg:
		if msg.Dark {
			m.statusMsg = "Dark mode"
		} else {
			m.statusMsg = "Light mode"
		}
		return m, nil
	}

	// Delegate to current view
	var cmd tea.Cmd
	switch m.currentView {
	case ViewTasks:
		var next tea.Model
		next, cmd = m.tasksView.Update(msg)
		m.tasksView = next.(views.TasksView)
	case ViewGoals:
		var next tea.Model
		next, cmd = m.goalsView.Update(msg)
		m.goalsView = next.(views.GoalsView)
	case ViewStats:
		var next tea.Model
		next, cmd = m.statsView.Update(msg)
		m.statsView = next.(views.StatsView)
	}
	return m, cmd
}

func (m RootModel) isInputMode() bool {
	switch m.currentView {
	case ViewTasks:
		return m.tasksView.IsInputMode()
	case ViewGoals:
		return m.goalsView.IsInputMode()
	case ViewStats:
		return m.statsView.IsInputMode()
	}
	return false
}

// View renders the UI
func (m RootModel) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sections []string
	sections = append(sections, m.renderHeader())

	contentHeight := m.height - 4
	if m.errorMsg != "" || m.statusMsg != "" {
		contentHeight--
	}

	var content string
	if m.helpVisible {
		content = m.renderHelp()
	} else {
		switch m.currentView {
		case ViewTasks:
			content = m.tasksView.View()
		case ViewGoals:
			content = m.goalsView.View()
		case ViewStats:
			content = m.statsView.View()
		}
	}

	// Ensure content fills available space
	contentLines := strings.Count(content, "\n") + 1
	if contentLines < contentHeight {
		content += strings.Repeat("\n", contentHeight-contentLines)
	}
	sections = append(sections, content)
	sections = append(sections, m.renderFooter())

	return strings.Join(sections, "\n")
}

// renderHeader renders the header bar
func (m RootModel) renderHeader() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	title := styles.Header.Render("taskdeck")

	viewStyle := lipgloss.NewStyle().
		Foreground(t.Subtle).
		Padding(0, 1)

	var tabs []string
	for _, v := range []View{ViewTasks, ViewGoals, ViewStats} {
		label := fmt.Sprintf("%d %s", int(v)+1, v.String())
		if v == m.currentView {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(t.Primary).Bold(true).Padding(0, 1).Render(label))
		} else {
			tabs = append(tabs, viewStyle.Render(label))
		}
	}
	themeIndicator := viewStyle.Render(t.Name)

	leftSide := lipgloss.JoinHorizontal(lipgloss.Center, append([]string{title}, tabs...)...)

	gap := m.width - lipgloss.Width(leftSide) - lipgloss.Width(themeIndicator)
	if gap < 0 {
		gap = 0
	}
	return leftSide + strings.Repeat(" ", gap) + themeIndicator
}

// renderFooter renders the footer/status bar
func (m RootModel) renderFooter() string {
	styles := theme.Current.Styles
	t := theme.Current.Theme

	key := func(k, desc string) string {
		return styles.HelpKey.Render(k) + styles.HelpDesc.Render(" "+desc)
	}
	sep := styles.HelpSeparator.Render(" │ ")

	var statusLine string
	if m.errorMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Error).Render(m.errorMsg)
	} else if m.statusMsg != "" {
		statusLine = lipgloss.NewStyle().Foreground(t.Info).Render(m.statusMsg)
	}

	var line1, line2 string
	switch {
	case m.currentView == ViewTasks && m.tasksView.IsInputMode():
		line1 = key("enter", "confirm") + sep + key("tab", "category") + sep + key("esc", "cancel")
	case m.currentView == ViewGoals && m.goalsView.IsInputMode():
		line1 = key("enter", "confirm") + sep + key("esc", "cancel")
	case m.currentView == ViewTasks:
		line1 = key("a", "add") + sep +
			key("tab", "done") + sep +
			key("d", "del") + sep +
			key("+/-", "due") + sep +
			key("c", "category") + sep +
			key("/", "search") + sep +
			key("f", "filter")
		line2 = key("x", "dismiss alert") + sep +
			key("1-3", "views") + sep +
			key("ctrl+t", "dark/light") + sep +
			key("?", "help")
	case m.currentView == ViewGoals:
		line1 = key("a", "add") + sep +
			key("+/-", "progress") + sep +
			key("d", "del")
		line2 = key("1-3", "views") + sep +
			key("ctrl+t", "dark/light") + sep +
			key("?", "help")
	default:
		line1 = key("1-3", "views") + sep +
			key("ctrl+t", "dark/light") + sep +
			key("?", "help")
	}

	var lines []string
	if statusLine != "" {
		lines = append(lines, statusLine)
	}
	if line1 != "" {
		lines = append(lines, line1)
	}
	if line2 != "" {
		lines = append(lines, line2)
	}
	return strings.Join(lines, "\n")
}

// renderHelp renders the help overlay
func (m RootModel) renderHelp() string {
	t := theme.Current.Theme

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(t.Foreground).
		Bold(true).
		Width(12)

	descStyle := lipgloss.NewStyle().
		Foreground(t.Subtle)

	var b strings.Builder
	b.WriteString(titleStyle.Render("taskdeck help"))
	b.WriteString("\n\n")

	section := func(name string, rows [][]string) {
		b.WriteString(sectionStyle.Render(name))
		b.WriteString("\n")
		for _, kv := range rows {
			b.WriteString(keyStyle.Render(kv[0]))
			b.WriteString(descStyle.Render(kv[1]))
			b.WriteString("\n")
		}
	}

	section("Tasks", [][]string{
		{"↑/k ↓/j", "Navigate up/down"},
		{"a", "Add task (tab cycles category)"},
		{"tab", "Toggle done/pending"},
		{"d", "Delete task"},
		{"+ / -", "Move due date a day later/earlier"},
		{"c", "Cycle category"},
		{"/", "Filter by text"},
		{"f", "Filter by category"},
		{"x", "Dismiss overdue alert"},
	})
	section("Goals", [][]string{
		{"a", "Add goal"},
		{"+ / -", "Adjust progress"},
		{"d", "Delete goal"},
	})

	b.WriteString(sectionStyle.Render("Global"))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n\n")
	b.WriteString(descStyle.Render("Press ? or esc to close"))

	return b.String()
}
