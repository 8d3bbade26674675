package harness

// Trace event types.
const (
	EventInvocation = "invocation"
	EventCompletion = "completion"
)

// Completion cases.
const (
	CaseOK         = "ok"
	CaseValidation = "validation"
	CaseNotFound   = "not_found"
	CaseError      = "error"
)

// TraceEvent is either an action invocation or its completion. Args and
// Result are held in their JSON form (maps, slices, float64, string, bool)
// so that comparisons and snapshots do not depend on Go types.
type TraceEvent struct {
	Type   string `json:"type"`
	Action string `json:"action,omitempty"`
	Args   any    `json:"args,omitempty"`
	Case   string `json:"case,omitempty"`
	Result any    `json:"result,omitempty"`
	Seq    int64  `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains all invocations and completions in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains failure messages. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// State contains the final state tables used by final_state.
	State map[string][]map[string]any `json:"state,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
		State:  make(map[string][]map[string]any),
	}
}

// AddError adds a failure message and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddInvocationTrace appends an invocation.
func (r *Result) AddInvocationTrace(action string, args any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventInvocation,
		Action: action,
		Args:   args,
		Seq:    seq,
	})
}

// AddCompletionTrace appends a completion.
func (r *Result) AddCompletionTrace(outputCase string, result any, seq int64) {
	r.Trace = append(r.Trace, TraceEvent{
		Type:   EventCompletion,
		Case:   outputCase,
		Result: result,
		Seq:    seq,
	})
}
