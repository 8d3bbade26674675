package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/assessment"
	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
)

// TestOptions holds flags for the test subcommands.
type TestOptions struct {
	*RootOptions
	Answers string
}

// NewTestCommand creates the test command group.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test",
		Short: "Take self-assessment questionnaires",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List available questionnaires",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.Load()
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to load catalog", err)
			}
			out := opts.formatter(cmd)
			qs := cat.Questionnaires()
			if out.IsJSON() {
				return out.Success(qs)
			}
			lines := make([]string, len(qs))
			for i, q := range qs {
				lines[i] = fmt.Sprintf("%-11s %s (%d questions)", q.ID, q.Name, len(q.Questions))
			}
			return out.Success(strings.Join(lines, "\n"))
		},
	}

	take := &cobra.Command{
		Use:   "take <questionnaire>",
		Short: "Answer a questionnaire and store the result",
		Long: `Answer every question on a 1-5 scale (1 = never, 5 = very often).

Answers are asked one by one on stdin unless --answers supplies them all.

Examples:
  selfcare test take anxiety
  selfcare test take stress --answers 3,4,2,5,1,3,4,2,3,4`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				id := catalog.QuestionnaireID(strings.ToLower(args[0]))

				var (
					result model.TestResult
					err    error
				)
				if opts.Answers != "" {
					result, err = runWithAnswers(app, id, opts.Answers)
				} else {
					result, err = runInteractive(cmd, app, id)
				}
				if err != nil {
					return err
				}

				if err := app.Manager.CompleteTest(ctx, sess, result); err != nil {
					return err
				}
				if app.Out.IsJSON() {
					return app.Out.Success(result)
				}
				return app.Out.Success(formatResult(result, true))
			})
		},
	}
	take.Flags().StringVar(&opts.Answers, "answers", "", "comma-separated answers, one per question")

	results := &cobra.Command{
		Use:   "results",
		Short: "Show past results, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return opts.withSession(cmd, func(ctx context.Context, app *App, sess *profile.Session) error {
				if app.Out.IsJSON() {
					return app.Out.Success(sess.Results)
				}
				if len(sess.Results) == 0 {
					return app.Out.Success("No test results yet.")
				}
				lines := make([]string, len(sess.Results))
				for i, r := range sess.Results {
					lines[i] = formatResult(r, false)
				}
				return app.Out.Success(strings.Join(lines, "\n"))
			})
		},
	}

	cmd.AddCommand(list, take, results)
	return cmd
}

// runWithAnswers scores a questionnaire from a comma-separated answer list.
func runWithAnswers(app *App, id catalog.QuestionnaireID, raw string) (model.TestResult, error) {
	answers, err := parseAnswers(raw)
	if err != nil {
		return model.TestResult{}, err
	}
	return assessment.Run(app.Catalog, model.SystemClock{}, model.UUIDv7Generator{}, id, answers)
}

func parseAnswers(raw string) ([]int, error) {
	parts := strings.Split(raw, ",")
	answers := make([]int, 0, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, model.NewFieldError(model.CodeInvalidField, "answers",
				"answer %d is not a number: %q", i+1, strings.TrimSpace(part))
		}
		answers = append(answers, n)
	}
	return answers, nil
}

// runInteractive asks each question on stdin until the questionnaire is
// complete. Invalid replies are asked again.
func runInteractive(cmd *cobra.Command, app *App, id catalog.QuestionnaireID) (model.TestResult, error) {
	s := assessment.NewSession(app.Catalog, model.SystemClock{}, model.UUIDv7Generator{})
	if err := s.Start(id); err != nil {
		return model.TestResult{}, err
	}
	app.Logger.Debug("questionnaire started")

	p := newPrompter(cmd)
	for {
		question, ok := s.Current()
		if !ok {
			return model.TestResult{}, model.NewValidationError(model.CodeNoActiveTest, "no questionnaire in progress")
		}
		answered, total := s.Progress()

		reply, err := p.Ask(fmt.Sprintf("[%d/%d] %s (1-5): ", answered+1, total, question))
		if err != nil {
			s.Cancel()
			if errors.Is(err, errInputClosed) {
				return model.TestResult{}, model.NewFieldError(model.CodeMissingField, "answers",
					"questionnaire cancelled after %d of %d answers", answered, total)
			}
			return model.TestResult{}, err
		}

		score, err := strconv.Atoi(reply)
		if err != nil {
			fmt.Fprintf(p.out, "Please answer with a number from %d to %d.\n", model.MinAnswer, model.MaxAnswer)
			continue
		}
		result, err := s.Answer(score)
		if model.HasCode(err, model.CodeOutOfRange) {
			fmt.Fprintf(p.out, "Please answer with a number from %d to %d.\n", model.MinAnswer, model.MaxAnswer)
			continue
		}
		if err != nil {
			return model.TestResult{}, err
		}
		if result != nil {
			return *result, nil
		}
	}
}

// formatResult renders a result, with its advice when detailed is set.
func formatResult(r model.TestResult, detailed bool) string {
	line := fmt.Sprintf("%s  %s: %s (average %.2f)",
		r.Timestamp.Local().Format(time.DateTime), r.QuestionnaireName, r.Level, r.AverageScore)
	if !detailed || len(r.Recommendations) == 0 {
		return line
	}
	var b strings.Builder
	b.WriteString(line)
	b.WriteString("\nRecommendations:")
	for _, rec := range r.Recommendations {
		b.WriteString("\n  - ")
		b.WriteString(rec)
	}
	return b.String()
}
