package cli

import (
	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats [NAME]",
		Short: "Show games played and won for one or all users",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newOutput(cmd)

			if len(args) == 1 {
				p, err := app.ProfileService.Get(ctx, args[0])
				if err != nil {
					return err
				}
				out.Print(toStats(p))
				return nil
			}

			profiles, err := app.ProfileService.List(ctx)
			if err != nil {
				out.PrintError(err)
			}
			stats := make([]Stats, 0, len(profiles))
			for _, p := range profiles {
				stats = append(stats, toStats(p))
			}
			out.Print(stats)
			return nil
		},
	}
}
