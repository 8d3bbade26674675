package catalog

import "github.com/roach88/selfcare/internal/model"

// QuestionnaireID keys a questionnaire in the catalog.
type QuestionnaireID string

// Questionnaires the recommendation cascade refers to by id.
const (
	AnxietyID    QuestionnaireID = "anxiety"
	StressID     QuestionnaireID = "stress"
	BurnoutID    QuestionnaireID = "burnout"
	DepressionID QuestionnaireID = "depression"
)

// Category tags a technique.
type Category string

const (
	CategoryBreathing   Category = "Breathing"
	CategoryRelaxation  Category = "Relaxation"
	CategoryMindfulness Category = "Mindfulness"
	CategoryCognitive   Category = "Cognitive"
	CategoryPhysical    Category = "Physical activity"
	CategoryCreative    Category = "Creative expression"
)

// EmotionInfo describes how an emotion is shown to the user.
type EmotionInfo struct {
	Value model.Emotion `json:"value"`
	Label string        `json:"label"`
	Emoji string        `json:"emoji"`
}

// Questionnaire is an ordered list of Likert-scale prompts.
type Questionnaire struct {
	ID        QuestionnaireID `json:"id"`
	Name      string          `json:"name"`
	Questions []string        `json:"questions"`
}

// Technique is a coping exercise with step-by-step instructions.
type Technique struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     Category `json:"category"`
	Description  string   `json:"description"`
	Instructions []string `json:"instructions"`
}

// Hotline is a support service the user can call.
type Hotline struct {
	Name   string `json:"name"`
	Number string `json:"number"`
	Note   string `json:"note"`
}
