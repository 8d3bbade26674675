package assessment

import (
	"fmt"

	"github.com/roach88/selfcare/internal/model"
)

// Level thresholds. A score equal to a threshold belongs to the lower tier.
const (
	LowMax      = 2.0
	ModerateMax = 3.5
)

// LevelFor maps an average score to its level.
func LevelFor(avg float64) model.Level {
	switch {
	case avg <= LowMax:
		return model.LevelLow
	case avg <= ModerateMax:
		return model.LevelModerate
	default:
		return model.LevelHigh
	}
}

// Score returns the arithmetic mean of answers and its level.
// Every answer must be in [1,5] and at least one answer is required.
func Score(answers []int) (float64, model.Level, error) {
	if len(answers) == 0 {
		return 0, "", model.NewValidationError(model.CodeMissingField, "no answers to score")
	}

	sum := 0
	for i, a := range answers {
		if err := checkAnswer(a); err != nil {
			return 0, "", fmt.Errorf("answer %d: %w", i+1, err)
		}
		sum += a
	}

	avg := float64(sum) / float64(len(answers))
	return avg, LevelFor(avg), nil
}

func checkAnswer(score int) error {
	if score < model.MinAnswer || score > model.MaxAnswer {
		return model.NewFieldError(model.CodeOutOfRange, "answer",
			"answer must be between %d and %d, got %d", model.MinAnswer, model.MaxAnswer, score)
	}
	return nil
}
