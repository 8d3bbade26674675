package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
)

// TechniquesOptions holds flags for the techniques subcommands.
type TechniquesOptions struct {
	*RootOptions
	Category string
}

// NewTechniquesCommand creates the techniques command group.
func NewTechniquesCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TechniquesOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "techniques",
		Short: "Browse coping techniques",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List techniques, optionally by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			cat, err := catalog.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}

			techniques := cat.Techniques()
			if opts.Category != "" {
				category, err := findCategory(techniques, opts.Category)
				if err != nil {
					return out.Fail(err)
				}
				techniques = cat.TechniquesIn(category)
			}

			if out.IsJSON() {
				return out.Success(techniques)
			}
			return out.Success(formatTechniqueList(techniques))
		},
	}
	list.Flags().StringVar(&opts.Category, "category", "", "only show this category (case-insensitive)")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a technique's instructions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := opts.formatter(cmd)
			cat, err := catalog.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			t, err := cat.Technique(args[0])
			if err != nil {
				return out.Fail(err)
			}
			if out.IsJSON() {
				return out.Success(t)
			}
			return out.Success(formatTechnique(t))
		},
	}

	cmd.AddCommand(list, show)
	return cmd
}

// NewFavoriteCommand creates the favorite command.
func NewFavoriteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorite <technique-id>",
		Short: "Star or unstar a technique",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				on, err := app.Manager.ToggleFavorite(ctx, sess, args[0])
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(map[string]any{"technique": args[0], "favorite": on})
				}
				t, _ := app.Catalog.Technique(args[0])
				if on {
					return app.Out.Success(fmt.Sprintf("★ Added %q to favorites.", t.Title))
				}
				return app.Out.Success(fmt.Sprintf("Removed %q from favorites.", t.Title))
			})
		},
	}
}

// NewFavoritesCommand creates the favorites command.
func NewFavoritesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "favorites",
		Short: "List starred techniques",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				favs := app.Manager.FavoriteTechniques(sess)
				if app.Out.IsJSON() {
					if favs == nil {
						favs = []catalog.Technique{}
					}
					return app.Out.Success(favs)
				}
				if len(favs) == 0 {
					return app.Out.Success("No favorites yet. Star one with 'selfcare favorite <id>'.")
				}
				return app.Out.Success(formatTechniqueList(favs))
			})
		},
	}
}

// findCategory resolves a user-supplied category name.
func findCategory(techniques []catalog.Technique, name string) (catalog.Category, error) {
	for _, t := range techniques {
		if strings.EqualFold(string(t.Category), strings.TrimSpace(name)) {
			return t.Category, nil
		}
	}
	return "", &model.NotFoundError{Kind: "category", ID: name}
}

func formatTechniqueList(techniques []catalog.Technique) string {
	if len(techniques) == 0 {
		return "No techniques found."
	}
	lines := make([]string, len(techniques))
	for i, t := range techniques {
		lines[i] = fmt.Sprintf("%3s  %-22s %s", t.ID, t.Category, t.Title)
	}
	return strings.Join(lines, "\n")
}

func formatTechnique(t catalog.Technique) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n%s\n", t.Title, t.Category, t.Description)
	for i, step := range t.Instructions {
		fmt.Fprintf(&b, "\n%d. %s", i+1, step)
	}
	return b.String()
}
