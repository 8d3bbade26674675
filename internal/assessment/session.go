package assessment

import (
	"fmt"
	"slices"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
)

// Source resolves questionnaires and the advice attached to each level.
// *catalog.Catalog satisfies it.
type Source interface {
	Questionnaire(id catalog.QuestionnaireID) (catalog.Questionnaire, error)
	Recommendations(level model.Level) []string
}

// State is one of Idle, InProgress or Completed.
type State interface {
	stateName() string
}

// Idle means no questionnaire is running.
type Idle struct{}

// InProgress holds a running questionnaire.
type InProgress struct {
	Questionnaire catalog.Questionnaire
	Answers       []int
	Index         int // next question to answer
}

// Completed carries the result of the session that just finished. A Session
// only passes through it: Answer hands the result back and returns to Idle.
type Completed struct {
	Result model.TestResult
}

func (Idle) stateName() string       { return "idle" }
func (InProgress) stateName() string { return "in_progress" }
func (Completed) stateName() string  { return "completed" }

// StateName returns a short label for s, for logs and traces.
func StateName(s State) string {
	if s == nil {
		return Idle{}.stateName()
	}
	return s.stateName()
}

// Session drives one questionnaire at a time. It is not safe for concurrent
// use; one user action is processed at a time.
type Session struct {
	source Source
	clock  model.Clock
	ids    model.IDGenerator
	state  State
}

// NewSession creates an Idle session.
func NewSession(source Source, clock model.Clock, ids model.IDGenerator) *Session {
	return &Session{
		source: source,
		clock:  clock,
		ids:    ids,
		state:  Idle{},
	}
}

// State returns the current state. InProgress values are copies.
func (s *Session) State() State {
	if ip, ok := s.state.(InProgress); ok {
		ip.Answers = slices.Clone(ip.Answers)
		return ip
	}
	return s.state
}

// Start begins questionnaire id, discarding any session in progress.
//
// Returns a NotFoundError for an unknown id and a ValidationError for a
// questionnaire without questions; in both cases the state is unchanged.
func (s *Session) Start(id catalog.QuestionnaireID) error {
	q, err := s.source.Questionnaire(id)
	if err != nil {
		return fmt.Errorf("start %s: %w", id, err)
	}
	if len(q.Questions) == 0 {
		return model.NewFieldError(model.CodeEmptyQuestionnaire, "questions",
			"questionnaire %q has no questions", id)
	}

	s.state = InProgress{
		Questionnaire: q,
		Answers:       make([]int, 0, len(q.Questions)),
		Index:         0,
	}
	return nil
}

// Current returns the prompt awaiting an answer.
func (s *Session) Current() (string, bool) {
	ip, ok := s.state.(InProgress)
	if !ok {
		return "", false
	}
	return ip.Questionnaire.Questions[ip.Index], true
}

// Progress returns how many questions have been answered out of how many.
// Both are zero when Idle.
func (s *Session) Progress() (answered, total int) {
	ip, ok := s.state.(InProgress)
	if !ok {
		return 0, 0
	}
	return len(ip.Answers), len(ip.Questionnaire.Questions)
}

// Answer records score for the current question.
//
// It returns nil until the last question is answered; then it returns the
// scored result and the session is Idle again.
func (s *Session) Answer(score int) (*model.TestResult, error) {
	ip, ok := s.state.(InProgress)
	if !ok {
		return nil, model.NewValidationError(model.CodeNoActiveTest, "no questionnaire in progress")
	}
	if err := checkAnswer(score); err != nil {
		return nil, err
	}

	ip.Answers = append(ip.Answers, score)
	ip.Index++

	if ip.Index < len(ip.Questionnaire.Questions) {
		s.state = ip
		return nil, nil
	}

	done, err := s.complete(ip)
	if err != nil {
		return nil, err
	}
	s.state = Idle{}
	return &done.Result, nil
}

// Cancel abandons the running questionnaire, if any.
func (s *Session) Cancel() {
	s.state = Idle{}
}

// complete scores a finished questionnaire.
func (s *Session) complete(ip InProgress) (Completed, error) {
	avg, level, err := Score(ip.Answers)
	if err != nil {
		return Completed{}, err
	}

	return Completed{Result: model.TestResult{
		ID:                s.ids.NewID(),
		Timestamp:         s.clock.Now().UTC(),
		QuestionnaireName: ip.Questionnaire.Name,
		AverageScore:      avg,
		Level:             level,
		Recommendations:   s.source.Recommendations(level),
	}}, nil
}

// Run answers every question of id in order and returns the result.
// len(answers) must equal the number of questions.
func Run(source Source, clock model.Clock, ids model.IDGenerator, id catalog.QuestionnaireID, answers []int) (model.TestResult, error) {
	s := NewSession(source, clock, ids)
	if err := s.Start(id); err != nil {
		return model.TestResult{}, err
	}

	if _, total := s.Progress(); len(answers) != total {
		return model.TestResult{}, model.NewFieldError(model.CodeOutOfRange, "answers",
			"questionnaire %q has %d questions, got %d answers", id, total, len(answers))
	}

	for _, a := range answers {
		res, err := s.Answer(a)
		if err != nil {
			return model.TestResult{}, err
		}
		if res != nil {
			return *res, nil
		}
	}
	// Unreachable: the last answer always completes the session.
	return model.TestResult{}, fmt.Errorf("questionnaire %q did not complete", id)
}
