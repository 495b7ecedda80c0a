package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/model"
	"github.com/spf13/cobra"
)

func newGoalCmd(opts *rootOptions) *cobra.Command {
	goalCmd := &cobra.Command{
		Use:   "goal",
		Short: "Manage progress goals",
	}

	var target int
	addCmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Add a goal",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				goal, err := a.Goals.CreateWithTarget(strings.Join(args, " "), target)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Created goal: %s (%s) 0/%d\n", goal.Name, shortID(goal.ID), goal.Target)
				return nil
			})
		},
	}
	addCmd.Flags().IntVarP(&target, "target", "t", model.DefaultGoalTarget, "Target count")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List goals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				goals := a.Goals.Goals()
				if len(goals) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No goals found.")
					return nil
				}
				for _, g := range goals {
					printGoal(cmd.OutOrStdout(), g)
				}
				return nil
			})
		},
	}

	step := func(use, short string, delta int) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return opts.withApp(func(a *app.App) error {
					goal, err := a.Goals.FindByPrefix(args[0])
					if err != nil {
						return err
					}
					a.Goals.AdjustProgress(goal.ID, goal.Current+delta)
					goal, _ = a.Goals.Get(goal.ID)
					printGoal(cmd.OutOrStdout(), goal)
					return nil
				})
			},
		}
	}

	setCmd := &cobra.Command{
		Use:   "set <id> <n>",
		Short: "Set goal progress (clamped to 0..target)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("progress must be a whole number: %w", err)
			}
			return opts.withApp(func(a *app.App) error {
				goal, err := a.Goals.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Goals.AdjustProgress(goal.ID, n)
				goal, _ = a.Goals.Get(goal.ID)
				printGoal(cmd.OutOrStdout(), goal)
				return nil
			})
		},
	}

	rmCmd := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a goal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				goal, err := a.Goals.FindByPrefix(args[0])
				if err != nil {
					return err
				}
				a.Goals.Delete(goal.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted goal: %s\n", goal.Name)
				return nil
			})
		},
	}

	goalCmd.AddCommand(addCmd, listCmd,
		step("inc", "Increase goal progress by one", 1),
		step("dec", "Decrease goal progress by one", -1),
		setCmd, rmCmd)
	return goalCmd
}

func printGoal(out io.Writer, g model.Goal) {
	const width = 20
	filled := int(g.Progress() * width)
	bar := strings.Repeat("#", filled) + strings.Repeat(".", width-filled)
	fmt.Fprintf(out, "%-8s  %-24s [%s] %d/%d\n", shortID(g.ID), g.Name, bar, g.Current, g.Target)
}
