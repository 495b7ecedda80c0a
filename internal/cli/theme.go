package cli

import (
	"fmt"

	"github.com/dori/taskdeck/internal/app"
	"github.com/spf13/cobra"
)

func newThemeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:       "theme [dark|light|toggle]",
		Short:     "Show or change the display mode",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dark", "light", "toggle"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withApp(func(a *app.App) error {
				if len(args) == 1 {
					switch args[0] {
					case "dark":
						a.Prefs.SetDarkMode(true)
					case "light":
						a.Prefs.SetDarkMode(false)
					case "toggle":
						a.Prefs.ToggleDarkMode()
					default:
						return fmt.Errorf("unknown mode %q (want dark, light or toggle)", args[0])
					}
				}
				mode := "light"
				if a.Prefs.DarkMode() {
					mode = "dark"
				}
				fmt.Fprintln(cmd.OutOrStdout(), mode)
				return nil
			})
		},
	}
}
