package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/memgame-go/internal/services/assets"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "User management commands",
	}

	cmd.AddCommand(newUserListCmd())
	cmd.AddCommand(newUserNewCmd())
	cmd.AddCommand(newUserDeleteCmd())
	cmd.AddCommand(newUserAvatarCmd())

	return cmd
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := newOutput(cmd)

			profiles, err := app.ProfileService.List(cmd.Context())
			if err != nil {
				// Unreadable data is reported and treated as no users
				out.PrintError(err)
			}

			views := make([]Profile, 0, len(profiles))
			for _, p := range profiles {
				views = append(views, toProfile(p))
			}
			out.Print(views)
			return nil
		},
	}
}

func newUserNewCmd() *cobra.Command {
	var avatar string

	cmd := &cobra.Command{
		Use:   "new NAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			if avatar == "" {
				pool, err := app.AssetProvider.Avatars(ctx)
				if err != nil {
					return err
				}
				if len(pool) > 0 {
					avatar = pool[0]
				}
			}

			p, err := app.ProfileService.Create(ctx, args[0], avatar)
			if err != nil {
				return err
			}

			newOutput(cmd).Print(toProfile(p))
			return nil
		},
	}

	cmd.Flags().StringVar(&avatar, "avatar", "", "Avatar image path (default: first avatar available)")

	return cmd
}

func newUserDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete a user with their statistics and saved game",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.ProfileService.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			newOutput(cmd).PrintMessage(fmt.Sprintf("Deleted user %s", args[0]))
			return nil
		},
	}
}

func newUserAvatarCmd() *cobra.Command {
	var next, prev bool
	var set string

	cmd := &cobra.Command{
		Use:   "avatar NAME",
		Short: "Show or change a user's avatar",
		Long: `Show a user's avatar, or browse the available avatars with --next and --prev.
Browsing wraps around at either end of the list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := newOutput(cmd)

			p, err := app.ProfileService.Get(ctx, args[0])
			if err != nil {
				return err
			}

			var avatar string
			switch {
			case set != "":
				if !assets.IsImage(set) {
					return errors.New("--set must name a .jpg, .jpeg or .png file")
				}
				avatar = set
			case next || prev:
				pool, err := app.AssetProvider.Avatars(ctx)
				if err != nil {
					return err
				}
				step := 1
				if prev {
					step = -1
				}
				avatar, err = assets.Cycle(pool, p.AvatarPath, step)
				if err != nil {
					return err
				}
			default:
				out.Print(toProfile(p))
				return nil
			}

			p, err = app.ProfileService.SetAvatar(ctx, p.Username, avatar)
			if err != nil {
				return err
			}
			out.Print(toProfile(p))
			return nil
		},
	}

	cmd.Flags().BoolVar(&next, "next", false, "Switch to the next avatar")
	cmd.Flags().BoolVar(&prev, "prev", false, "Switch to the previous avatar")
	cmd.Flags().StringVar(&set, "set", "", "Use this avatar image path")
	cmd.MarkFlagsMutuallyExclusive("next", "prev", "set")

	return cmd
}
