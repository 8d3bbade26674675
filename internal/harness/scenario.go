package harness

import (
	"bytes"
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/roach88/selfcare/internal/store"
)

// Scenario is a scripted session against the selfcare stack.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Storage selects the backend: memory (default), sqlite3 or sqlite.
	// SQLite backends use a private in-memory database.
	Storage string `yaml:"storage,omitempty"`

	// Setup contains actions run before the flow. They must succeed.
	Setup []ActionStep `yaml:"setup,omitempty"`

	// Flow contains the steps under test.
	Flow []FlowStep `yaml:"flow"`

	// Assertions validate the final trace and state.
	Assertions []Assertion `yaml:"assertions"`
}

// ActionStep is a setup action.
type ActionStep struct {
	Action string         `yaml:"action"`
	Args   map[string]any `yaml:"args,omitempty"`
}

// FlowStep invokes an action and optionally checks its completion.
type FlowStep struct {
	Invoke string         `yaml:"invoke"`
	Args   map[string]any `yaml:"args,omitempty"`

	// Expect specifies the expected completion. Without it the step must
	// complete with case ok.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies expected completion behavior.
type ExpectClause struct {
	// Case is the expected completion case (ok, validation, not_found, error).
	Case string `yaml:"case"`

	// Code is the expected validation code, for case validation.
	Code string `yaml:"code,omitempty"`

	// Result is a subset of the expected completion result.
	Result map[string]any `yaml:"result,omitempty"`
}

// Assertion validates trace or final state.
type Assertion struct {
	// Type is one of trace_contains, trace_order, trace_count, final_state.
	Type string `yaml:"type"`

	// Action is used by trace_contains and trace_count.
	Action string `yaml:"action,omitempty"`

	// Args are matched as a subset by trace_contains.
	Args map[string]any `yaml:"args,omitempty"`

	// Count is the expected occurrences for trace_count.
	Count int `yaml:"count,omitempty"`

	// Actions is the expected order for trace_order.
	Actions []string `yaml:"actions,omitempty"`

	// Table names the state table for final_state.
	Table string `yaml:"table,omitempty"`

	// Where filters rows of Table (subset match).
	Where map[string]any `yaml:"where,omitempty"`

	// Expect is matched against the single row selected by Where.
	Expect map[string]any `yaml:"expect,omitempty"`

	// Rows is the expected number of rows selected by Where.
	Rows *int `yaml:"rows,omitempty"`
}

// Assertion type constants.
const (
	AssertTraceContains = "trace_contains"
	AssertTraceOrder    = "trace_order"
	AssertTraceCount    = "trace_count"
	AssertFinalState    = "final_state"
)

// State tables available to final_state.
var Tables = []string{"moods", "tests", "favorites", "keys", "stats", "session"}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Parse YAML with strict field validation (catches typos like "assertion:" vs "assertions:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	switch s.Storage {
	case "", store.DriverMemory, store.DriverSQLite3, store.DriverSQLite:
	default:
		return fmt.Errorf("storage: unsupported backend %q", s.Storage)
	}

	if len(s.Flow) == 0 {
		return fmt.Errorf("flow list is required and must be non-empty")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i, step := range s.Setup {
		if step.Action == "" {
			return fmt.Errorf("setup[%d]: action is required", i)
		}
		if !isAction(step.Action) {
			return fmt.Errorf("setup[%d]: unknown action %q", i, step.Action)
		}
	}

	for i, step := range s.Flow {
		if step.Invoke == "" {
			return fmt.Errorf("flow[%d]: invoke is required", i)
		}
		if !isAction(step.Invoke) {
			return fmt.Errorf("flow[%d]: unknown action %q", i, step.Invoke)
		}
		if step.Expect != nil {
			if err := validateExpect(i, step.Expect); err != nil {
				return err
			}
		}
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

func validateExpect(index int, e *ExpectClause) error {
	switch e.Case {
	case "":
		return fmt.Errorf("flow[%d].expect: case is required", index)
	case CaseOK, CaseValidation, CaseNotFound, CaseError:
	default:
		return fmt.Errorf("flow[%d].expect: unknown case %q", index, e.Case)
	}
	if e.Code != "" && e.Case != CaseValidation {
		return fmt.Errorf("flow[%d].expect: code is only valid with case validation", index)
	}
	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertTraceContains:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_contains", index)
		}
	case AssertTraceOrder:
		if len(a.Actions) == 0 {
			return fmt.Errorf("assertions[%d]: actions list is required for trace_order", index)
		}
	case AssertTraceCount:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for trace_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for trace_count", index)
		}
	case AssertFinalState:
		if a.Table == "" {
			return fmt.Errorf("assertions[%d]: table is required for final_state", index)
		}
		if !slices.Contains(Tables, a.Table) {
			return fmt.Errorf("assertions[%d]: unknown table %q", index, a.Table)
		}
		if len(a.Expect) == 0 && a.Rows == nil {
			return fmt.Errorf("assertions[%d]: expect or rows is required for final_state", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
