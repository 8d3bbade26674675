package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
)

// MoodOptions holds flags for the mood subcommands.
type MoodOptions struct {
	*RootOptions
	Stress int
	Note   string
	Limit  int
}

// NewMoodCommand creates the mood command group.
func NewMoodCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MoodOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "mood",
		Short: "Record and review mood entries",
	}

	add := &cobra.Command{
		Use:   "add <emotion>",
		Short: "Record how you feel right now",
		Long: `Record a mood entry with a stress level from 1 to 10.

Run "selfcare mood emotions" for the accepted emotions.

Examples:
  selfcare mood add calm
  selfcare mood add anxious --stress 8 --note "deadline tomorrow"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				emotion := model.Emotion(strings.ToLower(strings.TrimSpace(args[0])))
				entry, err := app.Manager.AddMood(ctx, sess, emotion, opts.Stress, opts.Note)
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(entry)
				}
				return app.Out.Success(fmt.Sprintf("Saved: %s", formatMood(app.Catalog, entry)))
			})
		},
	}
	add.Flags().IntVar(&opts.Stress, "stress", model.DefaultStress, "stress level (1-10)")
	add.Flags().StringVar(&opts.Note, "note", "", "optional note")

	list := &cobra.Command{
		Use:   "list",
		Short: "Show mood history, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				moods := sess.Moods
				if opts.Limit > 0 && len(moods) > opts.Limit {
					moods = moods[:opts.Limit]
				}
				if app.Out.IsJSON() {
					return app.Out.Success(moods)
				}
				if len(moods) == 0 {
					return app.Out.Success("No mood entries yet.")
				}
				lines := make([]string, len(moods))
				for i, m := range moods {
					lines[i] = formatMood(app.Catalog, m)
				}
				return app.Out.Success(strings.Join(lines, "\n"))
			})
		},
	}
	list.Flags().IntVar(&opts.Limit, "limit", 0, "show at most this many entries (0 = all)")

	emotions := &cobra.Command{
		Use:   "emotions",
		Short: "List the accepted emotions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			out := opts.formatter(cmd)
			if out.IsJSON() {
				return out.Success(cat.Emotions())
			}
			lines := make([]string, 0, len(cat.Emotions()))
			for _, e := range cat.Emotions() {
				lines = append(lines, fmt.Sprintf("%s %-8s %s", e.Emoji, e.Value, e.Label))
			}
			return out.Success(strings.Join(lines, "\n"))
		},
	}

	cmd.AddCommand(add, list, emotions)
	return cmd
}

// formatMood renders one entry on a single line.
func formatMood(cat *catalog.Catalog, m model.MoodEntry) string {
	label := string(m.Emotion)
	if info, err := cat.Emotion(m.Emotion); err == nil {
		label = info.Emoji + " " + info.Label
	}
	line := fmt.Sprintf("%s  %s  stress %d/%d",
		m.Timestamp.Local().Format(time.DateTime), label, m.StressLevel, model.MaxStress)
	if m.Note != "" {
		line += "  " + m.Note
	}
	return line
}
