// Package cli wires the cobra command tree. Running taskdeck with no
// subcommand starts the TUI.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dori/taskdeck/internal/app"
	"github.com/dori/taskdeck/internal/config"
	"github.com/dori/taskdeck/internal/ui"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	dataDir    string
	ephemeral  bool
}

// NewRootCmd builds the command tree
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "taskdeck",
		Short: "taskdeck - tasks, goals and due dates in the terminal",
		Long: `taskdeck keeps a list of categorised tasks with due dates and a set of
progress goals. Run it without arguments for the TUI, or use the
subcommands for quick edits from the shell.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(opts)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file (default "+config.GlobalConfigPath()+")")
	rootCmd.PersistentFlags().StringVar(&opts.dataDir, "data-dir", "", "Override the data directory")
	rootCmd.PersistentFlags().BoolVar(&opts.ephemeral, "ephemeral", false, "Keep everything in memory for this session")

	rootCmd.AddCommand(newAddCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newDoneCmd(opts))
	rootCmd.AddCommand(newRmCmd(opts))
	rootCmd.AddCommand(newDueCmd(opts))
	rootCmd.AddCommand(newCatCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))
	rootCmd.AddCommand(newGoalCmd(opts))
	rootCmd.AddCommand(newThemeCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))
	rootCmd.AddCommand(newVersionCmd(version))

	rootCmd.Version = version
	return rootCmd
}

// Execute runs the root command
func Execute(version string) error {
	if err := NewRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (o *rootOptions) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if o.dataDir != "" {
		cfg.DataDir = o.dataDir
	}
	if o.ephemeral {
		cfg.Storage.Backend = config.BackendMemory
	}
	return cfg, nil
}

// withApp opens the application for one command and always closes it,
// which flushes pending writes.
func (o *rootOptions) withApp(fn func(a *app.App) error) (err error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return err
	}
	a, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(a)
}

func runTUI(opts *rootOptions) error {
	return opts.withApp(func(a *app.App) error {
		model := ui.NewRootModel(ui.Deps{
			Tasks:    a.Tasks,
			Goals:    a.Goals,
			Prefs:    a.Prefs,
			Reminder: a.Notifier,
			Logger:   a.Logger,
		})

		p := tea.NewProgram(
			model,
			tea.WithAltScreen(),
		)

		_, err := p.Run()
		return err
	})
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskdeck %s\n", version)
		},
	}
}
