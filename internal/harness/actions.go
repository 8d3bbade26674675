package harness

import (
	"context"
	"fmt"
	"slices"

	"github.com/roach88/selfcare/internal/assessment"
	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
)

type actionFunc func(h *Harness, ctx context.Context, args argSet) (any, error)

// actions maps scenario action names to profile operations.
var actions = map[string]actionFunc{
	"register":        (*Harness).register,
	"login":           (*Harness).login,
	"resume":          (*Harness).resume,
	"logout":          (*Harness).logout,
	"add_mood":        (*Harness).addMood,
	"take_test":       (*Harness).takeTest,
	"toggle_favorite": (*Harness).toggleFavorite,
	"delete_all":      (*Harness).deleteAll,
	"recommend":       (*Harness).recommend,
	"stats":           (*Harness).stats,
	"export":          (*Harness).export,
}

func isAction(name string) bool {
	_, ok := actions[name]
	return ok
}

type identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (h *Harness) register(ctx context.Context, args argSet) (any, error) {
	sess, err := h.manager.Register(ctx, args.str("name"), args.str("email"), args.str("password"))
	if err != nil {
		return nil, err
	}
	h.session = sess
	return identity{Name: sess.Profile.Name, Email: sess.Profile.Email}, nil
}

func (h *Harness) login(ctx context.Context, args argSet) (any, error) {
	sess, err := h.manager.Login(ctx, args.str("email"), args.str("password"))
	if err != nil {
		return nil, err
	}
	h.session = sess
	return identity{Name: sess.Profile.Name, Email: sess.Profile.Email}, nil
}

func (h *Harness) resume(ctx context.Context, _ argSet) (any, error) {
	sess, err := h.manager.Resume(ctx)
	if err != nil {
		return nil, err
	}
	h.session = sess
	return identity{Name: sess.Profile.Name, Email: sess.Profile.Email}, nil
}

func (h *Harness) logout(ctx context.Context, _ argSet) (any, error) {
	h.manager.Logout(ctx, h.session)
	h.session = nil
	return nil, nil
}

func (h *Harness) addMood(ctx context.Context, args argSet) (any, error) {
	stress, err := args.integer("stress", model.DefaultStress)
	if err != nil {
		return nil, err
	}
	return h.manager.AddMood(ctx, h.session, model.Emotion(args.str("emotion")), stress, args.str("note"))
}

func (h *Harness) takeTest(ctx context.Context, args argSet) (any, error) {
	if h.session == nil {
		return nil, model.NewValidationError(model.CodeNoSession, "not logged in")
	}
	answers, err := args.integers("answers")
	if err != nil {
		return nil, err
	}
	result, err := assessment.Run(h.catalog, h.clock, h.ids, catalog.QuestionnaireID(args.str("test")), answers)
	if err != nil {
		return nil, err
	}
	if err := h.manager.CompleteTest(ctx, h.session, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (h *Harness) toggleFavorite(ctx context.Context, args argSet) (any, error) {
	id := args.str("technique")
	on, err := h.manager.ToggleFavorite(ctx, h.session, id)
	if err != nil {
		return nil, err
	}
	return map[string]any{"technique": id, "favorite": on}, nil
}

func (h *Harness) deleteAll(ctx context.Context, args argSet) (any, error) {
	confirm := args.flag("confirm")
	deleted, err := h.manager.DeleteAll(ctx, h.session, func(string) (bool, error) {
		return confirm, nil
	})
	if err != nil {
		return nil, err
	}
	return map[string]any{"deleted": deleted}, nil
}

func (h *Harness) recommend(_ context.Context, _ argSet) (any, error) {
	rec, err := h.manager.Recommend(h.session)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rec.Techniques))
	for i, t := range rec.Techniques {
		ids[i] = t.ID
	}
	return map[string]any{
		"questionnaire": string(rec.Questionnaire.ID),
		"reason":        string(rec.Reason),
		"techniques":    ids,
		"averageStress": rec.AverageStress,
	}, nil
}

func (h *Harness) stats(_ context.Context, _ argSet) (any, error) {
	return h.manager.Stats(h.session)
}

func (h *Harness) export(_ context.Context, _ argSet) (any, error) {
	doc, err := h.manager.Export(h.session)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"fileName":    profile.FileName(doc.ExportDate),
		"user":        doc.User.Email,
		"moodEntries": len(doc.MoodEntries),
		"testResults": len(doc.TestResults),
		"exportDate":  doc.ExportDate,
	}, nil
}

// argSet reads typed values from YAML-decoded args.
type argSet map[string]any

func (a argSet) str(key string) string {
	switch v := a[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (a argSet) flag(key string) bool {
	v, _ := a[key].(bool)
	return v
}

func (a argSet) integer(key string, def int) (int, error) {
	v, ok := a[key]
	if !ok || v == nil {
		return def, nil
	}
	return toInt(key, v)
}

func (a argSet) integers(key string) ([]int, error) {
	raw, ok := a[key].([]any)
	if !ok {
		return nil, fmt.Errorf("arg %q: expected a list of integers", key)
	}
	out := make([]int, len(raw))
	for i, v := range raw {
		n, err := toInt(fmt.Sprintf("%s[%d]", key, i), v)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func toInt(key string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n == float64(int(n)) {
			return int(n), nil
		}
	}
	return 0, fmt.Errorf("arg %q: expected an integer, got %v", key, v)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
