package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/model"
	"github.com/dori/taskdeck/internal/timefmt"
	"github.com/dori/taskdeck/internal/tracker"
	"github.com/spf13/cobra"
)

const shortIDLen = 8

func shortID(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Quick add a task",
		Long: `Quick add a task. Words of the form @category set the category
(work, personal, exercise, other) and due:N sets the due date N days from
now (due:today, due:tomorrow and weekday names also work).`,
		Example: `  taskdeck add Buy groceries
  taskdeck add Long run @exercise due:sat`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parsed := parseQuickAdd(strings.Join(args, " "), time.Now())
			return opts.withApp(func(a *app.App) error {
				task, err := a.Tasks.Create(parsed.Text, parsed.Category)
				if err != nil {
					return err
				}
				if parsed.DueDays != nil {
					a.Tasks.Reschedule(task.ID, *parsed.DueDays)
					task, _ = a.Tasks.Get(task.ID)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Created: %s (%s)\n", task.Text, shortID(task.ID))
				fmt.Fprintf(out, "Category: %s\n", task.Category)
				fmt.Fprintf(out, "Due: %s\n", timefmt.Relative(task.DueDate, time.Now()))
				return nil
			})
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	var category string
	var pending bool

	cmd := &cobra.Command{
		Use:   "list [query]",
		Short: "List tasks, newest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			var filter model.Category
			if category != "" {
				c, err := model.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = c
			}

			return opts.withApp(func(a *app.App) error {
				var tasks []model.Task
				for _, t := range a.Tasks.FilterByText(query) {
					if filter != "" && t.Category != filter {
						continue
					}
					if pending && t.Completed {
						continue
					}
					tasks = append(tasks, t)
				}

				out := cmd.OutOrStdout()
				if len(tasks) == 0 {
					fmt.Fprintln(out, "No tasks found.")
					return nil
				}
				now := time.Now()
				for _, t := range tasks {
					printTask(out, t, now)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "Only show one category")
	cmd.Flags().BoolVarP(&pending, "pending", "p", false, "Hide completed tasks")
	return cmd
}

func printTask(out io.Writer, t model.Task, now time.Time) {
	check := "[ ]"
	if t.Completed {
		check = "[x]"
	}
	fmt.Fprintf(out, "%-8s  %s  %-9s  %s  (%s)\n", shortID(t.ID), check, t.Category, t.Text, timefmt.DueLabel(t, now))
}

func newDoneCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Toggle a task between done and pending",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				task, err := a.Tasks.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Tasks.ToggleComplete(task.ID)
				if task.Completed {
					fmt.Fprintf(cmd.OutOrStdout(), "Reopened: %s\n", task.Text)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Completed: %s\n", task.Text)
				}
				return nil
			})
		},
	}
}

func newRmCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				task, err := a.Tasks.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Tasks.Delete(task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted: %s\n", task.Text)
				return nil
			})
		},
	}
}

func newDueCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "due <id> <days>",
		Short: "Set the due date to <days> days from now (negative backdates)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("days must be a whole number: %w", err)
			}
			return opts.withApp(func(a *app.App) error {
				task, err := a.Tasks.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Tasks.Reschedule(task.ID, days)
				task, _ = a.Tasks.Get(task.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "%s is due %s\n", task.Text, timefmt.Relative(task.DueDate, time.Now()))
				return nil
			})
		},
	}
}

func newCatCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cat <id> <category>",
		Short: "Change the category of a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			category, err := model.ParseCategory(args[1])
			if err != nil {
				return err
			}
			return opts.withApp(func(a *app.App) error {
				task, err := a.Tasks.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Tasks.Recategorize(task.ID, category)
				fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", task.Text, category)
				return nil
			})
		},
	}
}

func newStatsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show task and goal statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				printStats(cmd.OutOrStdout(), a.Tasks, a.Goals, time.Now())
				return nil
			})
		},
	}
}

func printStats(out io.Writer, tasks *tracker.TaskStore, goals *tracker.GoalStore, now time.Time) {
	s := tasks.ComputeStats(now)
	fmt.Fprintf(out, "Total:     %d\n", s.Total)
	fmt.Fprintf(out, "Completed: %d\n", s.Completed)
	fmt.Fprintf(out, "Pending:   %d\n", s.Pending())
	fmt.Fprintf(out, "Overdue:   %d\n", s.Overdue)
	fmt.Fprintf(out, "Due today: %d\n", s.DueToday)

	breakdown := tasks.CategoryBreakdown()
	fmt.Fprintln(out)
	for _, c := range model.Categories() {
		fmt.Fprintf(out, "  %-9s %d\n", c, breakdown[c])
	}

	all := goals.Goals()
	if len(all) == 0 {
		return
	}
	done := 0
	for _, g := range all {
		if g.Done() {
			done++
		}
	}
	fmt.Fprintf(out, "\nGoals:     %d of %d reached\n", done, len(all))
}
