package cli

import (
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Game settings commands",
	}

	cmd.AddCommand(newSettingsShowCmd())
	cmd.AddCommand(newSettingsSetCmd())

	return cmd
}

func newSettingsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current := app.SettingsService.Current(cmd.Context())
			newOutput(cmd).Print(toSettings(current))
			return nil
		},
	}
}

func newSettingsSetCmd() *cobra.Command {
	var timeLimit, rows, cols int

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change the time limit or grid size",
		Long: `Change the settings used for new rounds. Values outside the allowed range
are clamped: time 10-300 seconds, rows and columns 2-8. The grid must hold an
even number of cards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			next := app.SettingsService.Current(ctx)
			if cmd.Flags().Changed("time") {
				next.TimeLimit = timeLimit
			}
			if cmd.Flags().Changed("rows") {
				next.Rows = rows
			}
			if cmd.Flags().Changed("cols") {
				next.Columns = cols
			}

			updated, err := app.SettingsService.Update(ctx, next)
			if err != nil {
				return err
			}
			newOutput(cmd).Print(toSettings(updated))
			return nil
		},
	}

	cmd.Flags().IntVar(&timeLimit, "time", 0, "Time limit in seconds")
	cmd.Flags().IntVar(&rows, "rows", 0, "Grid rows")
	cmd.Flags().IntVar(&cols, "cols", 0, "Grid columns")

	return cmd
}
