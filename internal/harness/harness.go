package harness

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/profile"
	"github.com/roach88/selfcare/internal/store"
	"github.com/roach88/selfcare/internal/testutil"
)

// ClockStep is how far the scenario clock advances per reading.
const ClockStep = time.Minute

// Harness executes one scenario against a fresh stack.
type Harness struct {
	store   store.Backend
	catalog *catalog.Catalog
	manager *profile.Manager
	clock   *testutil.FixedClock
	ids     *testutil.SequenceIDs
	logger  *zap.Logger
	session *profile.Session
	seq     int64
}

// Option configures Run.
type Option func(*Harness)

// WithLogger routes harness and manager logs to l.
func WithLogger(l *zap.Logger) Option {
	return func(h *Harness) { h.logger = l }
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh store for isolation, with the clock at
// testutil.DefaultEpoch and ids from a new sequence.
//
// Execution flow:
// 1. Open the scenario's storage backend
// 2. Execute setup steps, which must succeed
// 3. Execute flow steps and check their expect clauses
// 4. Capture the final state tables and evaluate assertions
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	ctx := context.Background()

	backend, err := openBackend(scenario.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer backend.Close()

	cat, err := catalog.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	h := &Harness{
		store:   backend,
		catalog: cat,
		clock:   testutil.NewFixedClock(testutil.DefaultEpoch, ClockStep),
		ids:     testutil.NewSequenceIDs("rec"),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(h)
	}
	h.manager = profile.NewManager(backend, cat,
		profile.WithClock(h.clock),
		profile.WithIDs(h.ids),
		profile.WithLogger(h.logger),
		profile.WithBcryptCost(bcrypt.MinCost),
	)

	result := NewResult()
	if err := h.executeSetup(ctx, scenario.Setup, result); err != nil {
		return nil, fmt.Errorf("failed to execute setup: %w", err)
	}

	h.executeFlow(ctx, scenario.Flow, result)

	state, err := h.captureState(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to capture state: %w", err)
	}
	result.State = state

	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(errMsg)
	}

	return result, nil
}

func openBackend(storage string) (store.Backend, error) {
	switch storage {
	case "", store.DriverMemory:
		return store.NewMemory(), nil
	default:
		return store.OpenSQLite(storage, ":memory:")
	}
}

// executeSetup runs all setup steps. A setup step that does not complete
// with case ok aborts the scenario.
func (h *Harness) executeSetup(ctx context.Context, setup []ActionStep, result *Result) error {
	for i, step := range setup {
		outcome, res := h.invoke(ctx, step.Action, step.Args, result)
		if outcome != CaseOK {
			return fmt.Errorf("setup step %d (%s): completed with %s: %v", i, step.Action, outcome, res)
		}
		h.logger.Debug("setup step completed", zap.Int("step", i), zap.String("action", step.Action))
	}
	return nil
}

// executeFlow runs all flow steps and validates expect clauses. Failures
// are recorded on result; the flow always runs to the end.
func (h *Harness) executeFlow(ctx context.Context, flow []FlowStep, result *Result) {
	for i, step := range flow {
		outcome, res := h.invoke(ctx, step.Invoke, step.Args, result)

		expect := step.Expect
		if expect == nil {
			expect = &ExpectClause{Case: CaseOK}
		}
		for _, msg := range checkExpect(expect, outcome, res) {
			result.AddError(fmt.Sprintf("flow[%d] %s: %s", i, step.Invoke, msg))
		}

		h.logger.Debug("flow step completed",
			zap.Int("step", i),
			zap.String("action", step.Invoke),
			zap.String("case", outcome),
		)
	}
}

// invoke runs one action and appends its invocation and completion.
func (h *Harness) invoke(ctx context.Context, action string, args map[string]any, result *Result) (string, any) {
	h.seq++
	result.AddInvocationTrace(action, normalize(args), h.seq)

	fn, ok := actions[action]
	var (
		res any
		err error
	)
	if !ok {
		err = fmt.Errorf("unknown action %q", action)
	} else {
		res, err = fn(h, ctx, argSet(args))
	}

	outcome, out := classify(res, err)
	h.seq++
	result.AddCompletionTrace(outcome, out, h.seq)
	return outcome, out
}

// classify maps an action's return to a completion case and result.
func classify(res any, err error) (string, any) {
	if err == nil {
		return CaseOK, normalize(res)
	}

	var verr *model.ValidationError
	if errors.As(err, &verr) {
		out := map[string]any{"code": string(verr.Code), "message": verr.Message}
		if verr.Field != "" {
			out["field"] = verr.Field
		}
		return CaseValidation, out
	}
	if model.IsNotFound(err) {
		return CaseNotFound, map[string]any{"message": err.Error()}
	}
	return CaseError, map[string]any{"message": err.Error()}
}

func checkExpect(expect *ExpectClause, outcome string, res any) []string {
	var msgs []string
	if outcome != expect.Case {
		msgs = append(msgs, fmt.Sprintf("expected case %q, got %q (result %v)", expect.Case, outcome, res))
		return msgs
	}
	if expect.Code != "" {
		m, _ := res.(map[string]any)
		got, _ := m["code"].(string)
		if got != expect.Code {
			msgs = append(msgs, fmt.Sprintf("expected code %q, got %q", expect.Code, got))
		}
	}
	if len(expect.Result) > 0 && !matchArgs(res, normalizeMap(expect.Result)) {
		msgs = append(msgs, fmt.Sprintf("expected result %v, got %v", expect.Result, res))
	}
	return msgs
}

// captureState snapshots the tables final_state assertions query.
func (h *Harness) captureState(ctx context.Context) (map[string][]map[string]any, error) {
	state := map[string][]map[string]any{
		"moods":     {},
		"tests":     {},
		"favorites": {},
		"stats":     {},
		"session":   {},
	}

	if sess := h.session; sess != nil {
		state["moods"] = rows(sess.Moods)
		state["tests"] = rows(sess.Results)
		for _, id := range sess.Favorites {
			state["favorites"] = append(state["favorites"], map[string]any{"id": id})
		}
		st, err := h.manager.Stats(sess)
		if err != nil {
			return nil, err
		}
		state["stats"] = rows([]profile.Stats{st})
		state["session"] = []map[string]any{{
			"name":  sess.Profile.Name,
			"email": sess.Profile.Email,
			"key":   sess.Key,
		}}
	}

	keys, err := h.storedKeys(ctx)
	if err != nil {
		return nil, err
	}
	state["keys"] = keys
	return state, nil
}

// storedKeys reads every key the profile layout can produce.
func (h *Harness) storedKeys(ctx context.Context) ([]map[string]any, error) {
	candidates := []string{profile.KeyUsers, profile.KeyCurrentUser}

	var users map[string]model.UserProfile
	if _, err := store.GetJSON(ctx, h.store, profile.KeyUsers, &users); err != nil {
		return nil, err
	}
	for _, id := range sortedKeys(users) {
		candidates = append(candidates, profile.CollectionKeys(id)...)
	}

	out := []map[string]any{}
	for _, key := range candidates {
		_, found, err := h.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if found {
			out = append(out, map[string]any{"key": key})
		}
	}
	return out, nil
}

// normalize converts v to its JSON form so values from YAML, Go structs
// and storage compare equal.
func normalize(v any) any {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Sprintf("%v", v)
	}
	return out
}

func normalizeMap(m map[string]any) map[string]any {
	out, _ := normalize(m).(map[string]any)
	return out
}

func rows[T any](list []T) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := normalize(item).(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}
