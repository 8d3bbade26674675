// Package recommend suggests a questionnaire and coping techniques from a
// user's most recent mood entries.
//
// Both selections look only at the newest Window entries. Moods must be
// ordered newest-first, which is how profile keeps them.
package recommend

import (
	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
)

// Window is how many recent entries feed a recommendation.
const Window = 5

// MaxTechniques caps the technique suggestion list.
const MaxTechniques = 3

// Cascade thresholds, counted within Window.
const (
	anxiousThreshold = 2
	stressThreshold  = 3
	sadThreshold     = 2

	highStress = 7
)

// Stress bands for technique selection.
const (
	highBand     = 7.0
	moderateBand = 4.0
)

// Catalog is the slice of the content catalog the selector reads.
// *catalog.Catalog satisfies it.
type Catalog interface {
	Questionnaire(id catalog.QuestionnaireID) (catalog.Questionnaire, error)
	Questionnaires() []catalog.Questionnaire
	TechniquesIn(categories ...catalog.Category) []catalog.Technique
}

// Recommendation bundles both suggestions.
type Recommendation struct {
	Questionnaire catalog.Questionnaire `json:"questionnaire"`
	Reason        Reason                `json:"reason"`
	Techniques    []catalog.Technique   `json:"techniques"`
	AverageStress float64               `json:"average_stress"`
}

// Reason records which cascade rule picked the questionnaire.
type Reason string

const (
	ReasonAnxious  Reason = "anxious"
	ReasonStress   Reason = "high_stress"
	ReasonSad      Reason = "sad"
	ReasonFallback Reason = "default"
)

// Recent returns the newest Window entries of moods.
func Recent(moods []model.MoodEntry) []model.MoodEntry {
	if len(moods) > Window {
		return moods[:Window]
	}
	return moods
}

// For computes both suggestions for moods.
func For(cat Catalog, moods []model.MoodEntry) (Recommendation, error) {
	q, reason, err := Questionnaire(cat, moods)
	if err != nil {
		return Recommendation{}, err
	}
	return Recommendation{
		Questionnaire: q,
		Reason:        reason,
		Techniques:    Techniques(cat, moods),
		AverageStress: AverageStress(moods),
	}, nil
}

// Questionnaire picks one questionnaire by a fixed priority cascade over the
// recent entries; the first rule that matches wins:
//
//  1. at least 2 anxious entries: anxiety questionnaire
//  2. at least 3 entries with stress >= 7: stress questionnaire
//  3. at least 2 sad entries: depression questionnaire
//  4. otherwise the first questionnaire in the catalog
func Questionnaire(cat Catalog, moods []model.MoodEntry) (catalog.Questionnaire, Reason, error) {
	recent := Recent(moods)

	var anxious, stressed, sad int
	for _, m := range recent {
		if m.Emotion == model.EmotionAnxious {
			anxious++
		}
		if m.StressLevel >= highStress {
			stressed++
		}
		if m.Emotion == model.EmotionSad {
			sad++
		}
	}

	var id catalog.QuestionnaireID
	var reason Reason
	switch {
	case anxious >= anxiousThreshold:
		id, reason = catalog.AnxietyID, ReasonAnxious
	case stressed >= stressThreshold:
		id, reason = catalog.StressID, ReasonStress
	case sad >= sadThreshold:
		id, reason = catalog.DepressionID, ReasonSad
	default:
		all := cat.Questionnaires()
		if len(all) == 0 {
			return catalog.Questionnaire{}, "", &model.NotFoundError{Kind: "questionnaire", ID: "<default>"}
		}
		return all[0], ReasonFallback, nil
	}

	q, err := cat.Questionnaire(id)
	if err != nil {
		return catalog.Questionnaire{}, "", err
	}
	return q, reason, nil
}

// AverageStress is the mean stress of the recent entries, or 0 with no entries.
func AverageStress(moods []model.MoodEntry) float64 {
	recent := Recent(moods)
	if len(recent) == 0 {
		return 0
	}
	sum := 0
	for _, m := range recent {
		sum += m.StressLevel
	}
	return float64(sum) / float64(len(recent))
}

// Categories returns the technique categories matching an average stress.
func Categories(avgStress float64) []catalog.Category {
	switch {
	case avgStress >= highBand:
		return []catalog.Category{catalog.CategoryBreathing, catalog.CategoryRelaxation}
	case avgStress >= moderateBand:
		return []catalog.Category{catalog.CategoryMindfulness}
	default:
		return []catalog.Category{catalog.CategoryPhysical, catalog.CategoryCreative}
	}
}

// Techniques returns up to MaxTechniques techniques for the recent average
// stress, in catalog order.
func Techniques(cat Catalog, moods []model.MoodEntry) []catalog.Technique {
	matches := cat.TechniquesIn(Categories(AverageStress(moods))...)
	if len(matches) > MaxTechniques {
		matches = matches[:MaxTechniques]
	}
	return matches
}
