package catalog

import (
	_ "embed"
	"fmt"
	"slices"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/selfcare/internal/model"
)

//go:embed schema.cue
var schemaSrc []byte

//go:embed catalog.cue
var catalogSrc []byte

// Catalog is the validated, read-only content set. All slices are returned
// as copies; callers cannot mutate the catalog.
type Catalog struct {
	emotions        []EmotionInfo
	questionnaires  []Questionnaire
	techniques      []Technique
	hotlines        []Hotline
	recommendations map[model.Level][]string
}

// LoadError reports a catalog source that failed to compile or validate.
type LoadError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	return Parse("catalog.cue", catalogSrc)
}

// MustLoad is Load for callers that cannot proceed without the catalog.
// The embedded source is covered by tests, so a panic here means a broken build.
func MustLoad() *Catalog {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse compiles src against the catalog schema and decodes it.
// filename is only used in error positions.
func Parse(filename string, src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileBytes(schemaSrc, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{recommendations: make(map[model.Level][]string)}

	if err := decodeField(v, "emotions", &c.emotions); err != nil {
		return nil, err
	}
	if err := decodeField(v, "questionnaires", &c.questionnaires); err != nil {
		return nil, err
	}
	if err := decodeField(v, "techniques", &c.techniques); err != nil {
		return nil, err
	}
	if err := decodeField(v, "hotlines", &c.hotlines); err != nil {
		return nil, err
	}

	var recs struct {
		Low      []string `json:"Low"`
		Moderate []string `json:"Moderate"`
		High     []string `json:"High"`
	}
	if err := decodeField(v, "recommendations", &recs); err != nil {
		return nil, err
	}
	c.recommendations[model.LevelLow] = recs.Low
	c.recommendations[model.LevelModerate] = recs.Moderate
	c.recommendations[model.LevelHigh] = recs.High

	if err := c.check(); err != nil {
		return nil, err
	}
	return c, nil
}

// decodeField decodes the top-level field name of v into out.
func decodeField(v cue.Value, name string, out any) error {
	fv := v.LookupPath(cue.ParsePath(name))
	if !fv.Exists() {
		return &LoadError{Field: name, Message: "field is required", Pos: v.Pos()}
	}
	if err := fv.Decode(out); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// check enforces the cross-entry rules the schema cannot express.
func (c *Catalog) check() error {
	seenQ := make(map[QuestionnaireID]bool, len(c.questionnaires))
	for _, q := range c.questionnaires {
		if seenQ[q.ID] {
			return &LoadError{Field: "questionnaires", Message: fmt.Sprintf("duplicate id %q", q.ID)}
		}
		seenQ[q.ID] = true
	}

	// The recommendation cascade points at these ids.
	for _, id := range []QuestionnaireID{AnxietyID, StressID, DepressionID} {
		if !seenQ[id] {
			return &LoadError{Field: "questionnaires", Message: fmt.Sprintf("missing required questionnaire %q", id)}
		}
	}

	seenT := make(map[string]bool, len(c.techniques))
	for _, t := range c.techniques {
		if seenT[t.ID] {
			return &LoadError{Field: "techniques", Message: fmt.Sprintf("duplicate id %q", t.ID)}
		}
		seenT[t.ID] = true
	}

	seenE := make(map[model.Emotion]bool, len(c.emotions))
	for _, e := range c.emotions {
		seenE[e.Value] = true
	}
	for _, e := range model.Emotions {
		if !seenE[e] {
			return &LoadError{Field: "emotions", Message: fmt.Sprintf("missing emotion %q", e)}
		}
	}

	return nil
}

// Emotions returns the emotion labels in display order.
func (c *Catalog) Emotions() []EmotionInfo {
	return slices.Clone(c.emotions)
}

// Emotion returns the display info for e.
func (c *Catalog) Emotion(e model.Emotion) (EmotionInfo, error) {
	for _, info := range c.emotions {
		if info.Value == e {
			return info, nil
		}
	}
	return EmotionInfo{}, &model.NotFoundError{Kind: "emotion", ID: string(e)}
}

// Questionnaires returns every questionnaire in catalog order.
func (c *Catalog) Questionnaires() []Questionnaire {
	out := make([]Questionnaire, len(c.questionnaires))
	for i, q := range c.questionnaires {
		out[i] = q.clone()
	}
	return out
}

// Questionnaire looks up a questionnaire by id.
func (c *Catalog) Questionnaire(id QuestionnaireID) (Questionnaire, error) {
	for _, q := range c.questionnaires {
		if q.ID == id {
			return q.clone(), nil
		}
	}
	return Questionnaire{}, &model.NotFoundError{Kind: "questionnaire", ID: string(id)}
}

// Techniques returns every technique in catalog order.
func (c *Catalog) Techniques() []Technique {
	out := make([]Technique, len(c.techniques))
	for i, t := range c.techniques {
		out[i] = t.clone()
	}
	return out
}

// Technique looks up a technique by id.
func (c *Catalog) Technique(id string) (Technique, error) {
	for _, t := range c.techniques {
		if t.ID == id {
			return t.clone(), nil
		}
	}
	return Technique{}, &model.NotFoundError{Kind: "technique", ID: id}
}

// TechniquesIn returns techniques whose category is one of categories, in
// catalog order.
func (c *Catalog) TechniquesIn(categories ...Category) []Technique {
	var out []Technique
	for _, t := range c.techniques {
		if slices.Contains(categories, t.Category) {
			out = append(out, t.clone())
		}
	}
	return out
}

// Hotlines returns the support services.
func (c *Catalog) Hotlines() []Hotline {
	return slices.Clone(c.hotlines)
}

// Recommendations returns the advice shown for a result level.
func (c *Catalog) Recommendations(level model.Level) []string {
	return slices.Clone(c.recommendations[level])
}

func (q Questionnaire) clone() Questionnaire {
	q.Questions = slices.Clone(q.Questions)
	return q
}

func (t Technique) clone() Technique {
	t.Instructions = slices.Clone(t.Instructions)
	return t
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &LoadError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return &LoadError{Field: "cue", Message: first.Error()}
}
