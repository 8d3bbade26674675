package catalog

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/selfcare/internal/model"
)

func TestLoad_Embedded(t *testing.T) {
	c, err := Load()
	require.NoError(t, err)

	assert.Len(t, c.Emotions(), 6)
	assert.Len(t, c.Questionnaires(), 4)
	assert.Len(t, c.Techniques(), 12)
	assert.Len(t, c.Hotlines(), 3)

	for _, q := range c.Questionnaires() {
		assert.Len(t, q.Questions, 10, "questionnaire %s", q.ID)
	}

	assert.Len(t, c.Recommendations(model.LevelLow), 3)
	assert.Len(t, c.Recommendations(model.LevelModerate), 4)
	assert.Len(t, c.Recommendations(model.LevelHigh), 4)
}

func TestQuestionnaire_Lookup(t *testing.T) {
	c := MustLoad()

	q, err := c.Questionnaire(DepressionID)
	require.NoError(t, err)
	assert.Equal(t, "Depression test", q.Name)

	_, err = c.Questionnaire("sleep")
	require.Error(t, err)
	assert.True(t, model.IsNotFound(err))
}

func TestQuestionnaires_CatalogOrder(t *testing.T) {
	c := MustLoad()

	var ids []QuestionnaireID
	for _, q := range c.Questionnaires() {
		ids = append(ids, q.ID)
	}
	assert.Equal(t, []QuestionnaireID{AnxietyID, StressID, BurnoutID, DepressionID}, ids)
}

func TestTechnique_Lookup(t *testing.T) {
	c := MustLoad()

	tech, err := c.Technique("5")
	require.NoError(t, err)
	assert.Equal(t, "5-4-3-2-1 grounding", tech.Title)
	assert.Equal(t, CategoryMindfulness, tech.Category)

	_, err = c.Technique("42")
	assert.True(t, model.IsNotFound(err))
}

func TestTechniquesIn_StableOrder(t *testing.T) {
	c := MustLoad()

	got := c.TechniquesIn(CategoryRelaxation, CategoryBreathing)
	var ids []string
	for _, tech := range got {
		ids = append(ids, tech.ID)
	}
	// Catalog order, not argument order.
	assert.Equal(t, []string{"1", "2", "3", "4"}, ids)

	assert.Empty(t, c.TechniquesIn("Sleep hygiene"))
}

func TestCatalog_ReturnsCopies(t *testing.T) {
	c := MustLoad()

	q, err := c.Questionnaire(AnxietyID)
	require.NoError(t, err)
	q.Questions[0] = "mutated"

	again, err := c.Questionnaire(AnxietyID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.Questions[0])

	recs := c.Recommendations(model.LevelHigh)
	recs[0] = "mutated"
	assert.NotEqual(t, "mutated", c.Recommendations(model.LevelHigh)[0])
}

func TestEmotion_Lookup(t *testing.T) {
	c := MustLoad()

	info, err := c.Emotion(model.EmotionTired)
	require.NoError(t, err)
	assert.Equal(t, "Fatigue", info.Label)

	_, err = c.Emotion("bored")
	assert.True(t, model.IsNotFound(err))
}

// minimalCatalog is a valid source; tests splice broken pieces into it.
const minimalCatalog = `
emotions: [
	{value: "happy", label: "Joy", emoji: ""},
	{value: "calm", label: "Calm", emoji: ""},
	{value: "sad", label: "Sadness", emoji: ""},
	{value: "anxious", label: "Anxiety", emoji: ""},
	{value: "angry", label: "Anger", emoji: ""},
	{value: "tired", label: "Fatigue", emoji: ""},
]
questionnaires: [
	{id: "anxiety", name: "A", questions: ["q1"]},
	{id: "stress", name: "S", questions: ["q1", "q2"]},
	QUESTIONNAIRE,
]
techniques: [
	TECHNIQUE,
]
hotlines: []
recommendations: {
	Low: ["fine"]
	Moderate: ["rest"]
	High: ["call"]
}
`

func buildCatalog(questionnaire, technique string) string {
	s := strings.Replace(minimalCatalog, "QUESTIONNAIRE", questionnaire, 1)
	return strings.Replace(s, "TECHNIQUE", technique, 1)
}

const okQuestionnaire = `{id: "depression", name: "D", questions: ["q1"]}`
const okTechnique = `{id: "1", title: "Breathe", category: "Breathing", description: "", instructions: ["in", "out"]}`

func TestParse_Minimal(t *testing.T) {
	c, err := Parse("test.cue", []byte(buildCatalog(okQuestionnaire, okTechnique)))
	require.NoError(t, err)
	assert.Len(t, c.Questionnaires(), 3)
	assert.Equal(t, []string{"call"}, c.Recommendations(model.LevelHigh))
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name          string
		questionnaire string
		technique     string
		contains      string
	}{
		{
			name:          "empty questionnaire",
			questionnaire: `{id: "depression", name: "D", questions: []}`,
			technique:     okTechnique,
		},
		{
			name:          "unknown category",
			questionnaire: okQuestionnaire,
			technique:     `{id: "1", title: "Nap", category: "Sleep", description: "", instructions: ["zz"]}`,
		},
		{
			name:          "missing depression questionnaire",
			questionnaire: `{id: "burnout", name: "B", questions: ["q1"]}`,
			technique:     okTechnique,
			contains:      `missing required questionnaire "depression"`,
		},
		{
			name:          "duplicate questionnaire id",
			questionnaire: `{id: "stress", name: "S2", questions: ["q1"]}`,
			technique:     okTechnique,
			contains:      `duplicate id "stress"`,
		},
		{
			name:          "unknown field",
			questionnaire: `{id: "depression", name: "D", questions: ["q1"], weight: 2}`,
			technique:     okTechnique,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("test.cue", []byte(buildCatalog(tt.questionnaire, tt.technique)))
			require.Error(t, err)

			var loadErr *LoadError
			require.ErrorAs(t, err, &loadErr)
			if tt.contains != "" {
				assert.Contains(t, err.Error(), tt.contains)
			}
		})
	}
}

func TestParse_SyntaxError(t *testing.T) {
	_, err := Parse("broken.cue", []byte(`questionnaires: [`))
	require.Error(t, err)
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
}
