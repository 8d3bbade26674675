package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/profile"
	"github.com/roach88/selfcare/internal/recommend"
)

var reasonText = map[recommend.Reason]string{
	recommend.ReasonAnxious:  "you often felt anxious recently",
	recommend.ReasonStress:   "your recent stress levels are high",
	recommend.ReasonSad:      "you often felt sad recently",
	recommend.ReasonFallback: "a good general check-in",
}

// NewRecommendCommand creates the recommend command.
func NewRecommendCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend",
		Short: "Suggest a questionnaire and techniques",
		Long: `Suggest a questionnaire and up to three techniques based on your
five most recent mood entries.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return rootOpts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				rec, err := app.Manager.Recommend(sess)
				if err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(rec)
				}
				return app.Out.Success(formatRecommendation(rec))
			})
		},
	}
}

func formatRecommendation(rec recommend.Recommendation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Suggested test: %s (%s)\n", rec.Questionnaire.Name, reasonText[rec.Reason])
	fmt.Fprintf(&b, "  run: selfcare test take %s\n", rec.Questionnaire.ID)
	fmt.Fprintf(&b, "Average stress (last %d entries): %.1f\n", recommend.Window, rec.AverageStress)
	b.WriteString("Techniques to try:")
	for _, t := range rec.Techniques {
		fmt.Fprintf(&b, "\n%3s  %s (%s)", t.ID, t.Title, t.Category)
	}
	return b.String()
}
