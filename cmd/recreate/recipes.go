package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/recipes"
	"github.com/spf13/cobra"
)

func newFeedCommand(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "feed",
		Short: "Browse every shared recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			return _listSlot(cmd, a, recipes.Feed, page, a.recipes.FetchFeed)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newTopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "top3",
		Short: "Show the three most liked recipes",
		RunE: func(cmd *cobra.Command, args []string) error {
			return _listSlot(cmd, a, recipes.TopRanked, 1, a.recipes.FetchTopRanked)
		},
	}
}

func newMineCommand(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "mine",
		Short: "List the recipes you shared",
		RunE: func(cmd *cobra.Command, args []string) error {
			return _listSlot(cmd, a, recipes.Authored, page, a.recipes.FetchAuthored)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newLikesCommand(a *app) *cobra.Command {
	var page int
	cmd := &cobra.Command{
		Use:   "likes",
		Short: "List the recipes you liked",
		RunE: func(cmd *cobra.Command, args []string) error {
			return _listSlot(cmd, a, recipes.Liked, page, a.recipes.FetchLiked)
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	return cmd
}

func newShowCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <recipe-id>",
		Short: "Show one recipe in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			recipe, err := a.recipes.FetchByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) by %s, %s\n", recipe.Title, recipe.Cuisine, recipe.Username, _timeSince(recipe.CreatedAt))
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", _likeLine(recipe))
			for _, ingredient := range recipe.Ingredients {
				fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", ingredient)
			}
			return nil
		},
	}
}

func newCreateCommand(a *app) *cobra.Command {
	var draft data.RecipeDraft
	var cuisine string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Share a new recipe",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			draft.Cuisine = data.Cuisine(cuisine)
			created, err := a.recipes.Create(cmd.Context(), draft)
			if err != nil {
				_printFieldErrors(cmd, a.recipes.Errors())
				return err
			}
			if a.recipes.ConsumeCreated() {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %q (%s)\n", created.Title, created.Id)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "recipe title")
	cmd.Flags().StringVar(&cuisine, "cuisine", "", "cuisine, one of: "+_cuisineNames())
	cmd.Flags().StringSliceVar(&draft.Ingredients, "ingredient", nil, `ingredient, repeatable; lead with a count to pluralize ("2 egg")`)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("cuisine")
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var draft data.RecipeDraft
	var cuisine string
	cmd := &cobra.Command{
		Use:   "edit <recipe-id>",
		Short: "Rewrite one of your recipes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			draft.Cuisine = data.Cuisine(cuisine)
			updated, err := a.recipes.Update(cmd.Context(), args[0], draft)
			if err != nil {
				_printFieldErrors(cmd, a.recipes.Errors())
				return err
			}
			if a.recipes.ConsumeUpdated() {
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %q\n", updated.Title)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&draft.Title, "title", "", "recipe title")
	cmd.Flags().StringVar(&cuisine, "cuisine", "", "cuisine, one of: "+_cuisineNames())
	cmd.Flags().StringSliceVar(&draft.Ingredients, "ingredient", nil, `ingredient, repeatable; lead with a count to pluralize ("2 egg")`)
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("cuisine")
	return cmd
}

func newDeleteCommand(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "delete [recipe-id]",
		Short: "Delete one of your recipes, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			if all {
				if err := a.recipes.RemoveAll(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted every recipe you shared")
				return nil
			}
			if len(args) != 1 {
				return fmt.Errorf("a recipe id is required unless --all is set")
			}
			if err := a.recipes.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			if a.recipes.ConsumeDeleted() {
				fmt.Fprintln(cmd.OutOrStdout(), "Deleted")
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "delete every recipe you shared")
	return cmd
}

func newLikeCommand(a *app) *cobra.Command {
	var undo bool
	cmd := &cobra.Command{
		Use:   "like <recipe-id>",
		Short: "Like or unlike a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.RequireSession(); err != nil {
				return err
			}
			// the like flip needs a cached copy to work against
			if _, err := a.recipes.FetchByID(cmd.Context(), args[0]); err != nil {
				return err
			}
			sess, _ := a.sessions.Current()
			recipe, err := a.recipes.ToggleLike(cmd.Context(), args[0], sess.Username, !undo)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%q %s\n", recipe.Title, _likeLine(recipe))
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "remove your like instead")
	return cmd
}

func _listSlot(cmd *cobra.Command, a *app, slot recipes.Slot, page int, fetch func(context.Context) error) error {
	if err := a.RequireSession(); err != nil {
		return err
	}
	if err := fetch(cmd.Context()); err != nil {
		return err
	}
	listed := a.recipes.Page(slot, page)
	if len(listed) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "Nothing here yet")
		return nil
	}
	for _, recipe := range listed {
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-16s  %-10s  by %-8s  %s\n",
			recipe.Id, recipe.Title, recipe.Cuisine, recipe.Username, _likeLine(recipe))
	}
	if pages := a.recipes.Pages(slot); pages > 1 {
		fmt.Fprintf(cmd.OutOrStdout(), "Page %d of %d\n", page, pages)
	}
	return nil
}

func _likeLine(recipe data.Recipe) string {
	suffix := ""
	if recipe.IsLiked {
		suffix = ", including yours"
	}
	if recipe.LikeCount == 1 {
		return fmt.Sprintf("1 like%s", suffix)
	}
	return fmt.Sprintf("%d likes%s", recipe.LikeCount, suffix)
}

func _cuisineNames() string {
	names := make([]string, 0, len(data.Cuisines()))
	for _, cuisine := range data.Cuisines() {
		names = append(names, string(cuisine))
	}
	return strings.Join(names, ", ")
}
