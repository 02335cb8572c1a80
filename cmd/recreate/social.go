package main

import (
	"fmt"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/spf13/cobra"
)

func newProfileCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile [username]",
		Short: "Show a profile, yours by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			var profile data.Profile
			var err error
			if len(args) == 1 {
				profile, err = a.social.FetchByUsername(cmd.Context(), args[0])
			} else {
				profile, err = a.social.FetchSelf(cmd.Context())
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s), cooking as %s, joined %s\n",
				profile.Username, profile.FullName, profile.SelectedAvatar, _timeSince(profile.CreateTime))
			fmt.Fprintf(cmd.OutOrStdout(), "%d followers, %d following, %d recipes, %d likes\n",
				len(profile.Followers), len(profile.Following), len(profile.Recipes), len(profile.Likes))
			for _, recipe := range profile.Recipes {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s  %s (%s)\n", recipe.Id, recipe.Title, recipe.Cuisine)
			}
			return nil
		},
	}
}

func newFollowCommand(a *app) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "follow <username>",
		Short: "Follow or unfollow another cook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			profile, err := a.social.FetchByUsername(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if err := a.social.Follow(cmd.Context(), profile.Id, !undo); err != nil {
				return err
			}
			toasts := a.social.ConsumeToasts()
			if toasts.DidFollow {
				fmt.Fprintf(cmd.OutOrStdout(), "Now following %s\n", args[0])
			}
			if toasts.DidUnfollow {
				fmt.Fprintf(cmd.OutOrStdout(), "Unfollowed %s\n", args[0])
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "unfollow instead")
	return cmd
}

func newAccountCommand(a *app) *cobra.Command {
	account := &cobra.Command{
		Use:   "account",
		Short: "Manage your account",
	}
	account.AddCommand(
		_newAccountUpdateCommand(a),
		_newAccountDeleteLikesCommand(a),
		_newAccountDeleteRecipesCommand(a),
		_newAccountDeleteCommand(a),
	)
	return account
}

func _newAccountUpdateCommand(a *app) *cobra.Command {
	var update data.AccountUpdate
	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change username or avatar",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			if update.Username == "" {
				sess, _ := a.sessions.Current()
				update.Username = sess.Username
			}
			sess, err := a.social.UpdateAccount(cmd.Context(), update)
			if err != nil {
				_printFieldErrors(cmd, a.social.Errors())
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "You are now %s, cooking as %s\n", sess.Username, sess.SelectedAvatar)
			return nil
		},
	}
	cmd.Flags().StringVar(&update.Username, "username", "", "new username")
	cmd.Flags().StringVar(&update.SelectedAvatar, "avatar", "", "new avatar name")
	return cmd
}

func _newAccountDeleteLikesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-likes",
		Short: "Withdraw every like you gave",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.social.DeleteLikes(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Every like withdrawn")
			return nil
		},
	}
}

func _newAccountDeleteRecipesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-recipes",
		Short: "Delete every recipe you shared",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			if err := a.social.DeleteRecipes(cmd.Context()); err != nil {
				return err
			}
			a.recipes.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Every recipe deleted")
			return nil
		},
	}
}

func _newAccountDeleteCommand(a *app) *cobra.Command {
	var confirmed bool
	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete the account entirely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			if !confirmed {
				return fmt.Errorf("pass --yes to confirm; this cannot be undone")
			}
			if err := a.social.DeleteAccount(cmd.Context()); err != nil {
				return err
			}
			a.sessions.Logout()
			a.recipes.Reset()
			a.social.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Account deleted")
			return nil
		},
	}
	cmd.Flags().BoolVar(&confirmed, "yes", false, "confirm the deletion")
	return cmd
}
