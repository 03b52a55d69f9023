package cli

import (
	"github.com/spf13/cobra"
)

func newAboutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "about",
		Short: "About this game",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			newOutput(cmd).Print(About{
				Name:        "memgame",
				Description: "A single-player memory game: find every pair before time runs out.",
				HowToPlay: `Start with 'memgame play NAME'. Type a card's number to turn it over.
Two cards with the same picture stay face up; two different ones turn back
after a moment. Type 'save' to keep the round for later and 'play NAME --resume'
to pick it up again.`,
			})
			return nil
		},
	}
}
