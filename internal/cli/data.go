package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/profile"
)

// Dashboard is the dashboard command's JSON payload.
type Dashboard struct {
	User  Identity      `json:"user"`
	Stats profile.Stats `json:"stats"`
}

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Summarise your entries, results and favorites",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				st, err := app.Manager.Stats(sess)
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(Dashboard{User: identityOf(sess), Stats: st})
				}

				var b strings.Builder
				fmt.Fprintf(&b, "Hello, %s!\n", sess.Profile.Name)
				fmt.Fprintf(&b, "Mood entries:   %d\n", st.MoodEntries)
				fmt.Fprintf(&b, "Test results:   %d\n", st.TestResults)
				fmt.Fprintf(&b, "Favorites:      %d\n", st.Favorites)
				fmt.Fprintf(&b, "Average stress: %.1f", st.AverageStress)
				if st.LastEmotion != "" {
					fmt.Fprintf(&b, "\nLast mood:      %s", st.LastEmotion)
				}
				if st.LastLevel != "" {
					fmt.Fprintf(&b, "\nLast result:    %s", st.LastLevel)
				}
				return app.Out.Success(b.String())
			})
		},
	}
}

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Dir string
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write your data to a JSON file",
		Long: `Write your profile, mood entries and test results to
mental-health-data-YYYY-MM-DD.json.

The directory defaults to export.dir from the config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				dir := opts.Dir
				if dir == "" {
					dir = app.Config.Export.Dir
				}
				path, err := app.Manager.WriteExport(sess, dir)
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(map[string]string{"path": path})
				}
				return app.Out.Success("Exported to " + path)
			})
		},
	}
	cmd.Flags().StringVar(&opts.Dir, "dir", "", "output directory (default: export.dir)")

	return cmd
}

// DeleteOptions holds flags for the delete-all command.
type DeleteOptions struct {
	*RootOptions
	Yes bool
}

// NewDeleteAllCommand creates the delete-all command.
func NewDeleteAllCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete-all",
		Short: "Permanently delete your entries, results and favorites",
		Long: `Permanently delete your mood entries, test results and favorites.
Your profile stays registered.

You are asked to confirm unless --yes is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				confirm := newPrompter(cmd).Confirm
				if opts.Yes {
					confirm = func(string) (bool, error) { return true, nil }
				}

				deleted, err := app.Manager.DeleteAll(ctx, sess, confirm)
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(map[string]bool{"deleted": deleted})
				}
				if !deleted {
					return app.Out.Success("Nothing was deleted.")
				}
				return app.Out.Success("All your data has been deleted.")
			})
		},
	}
	cmd.Flags().BoolVarP(&opts.Yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
