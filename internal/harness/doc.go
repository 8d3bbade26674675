// Package harness runs YAML scenarios against the full selfcare stack.
//
// Each scenario drives a profile.Manager backed by a fresh store, with a
// deterministic clock and id sequence, and records every action as an
// invocation/completion pair in a trace.
//
// # Scenario Format
//
//	name: anxious_history
//	description: "What this scenario validates"
//	storage: memory            # memory (default), sqlite3 or sqlite
//	setup:
//	  - action: register
//	    args: { name: Ana, email: ana@example.com, password: pw }
//	flow:
//	  - invoke: add_mood
//	    args: { emotion: anxious, stress: 8 }
//	    expect:
//	      case: ok
//	      result: { emotion: anxious }
//	  - invoke: login
//	    args: { email: ghost@example.com, password: x }
//	    expect:
//	      case: validation
//	      code: INVALID_CREDENTIALS
//	assertions:
//	  - type: trace_count
//	    action: add_mood
//	    count: 1
//	  - type: final_state
//	    table: moods
//	    rows: 1
//
// # Actions
//
//	register        name, email, password
//	login           email, password
//	resume
//	logout
//	add_mood        emotion, stress (default 5), note
//	take_test       test, answers
//	toggle_favorite technique
//	delete_all      confirm
//	recommend
//	stats
//	export
//
// # Completion Cases
//
//	ok, validation, not_found, error
//
// # Assertion Types
//
//   - trace_contains: an action appears in the trace with matching args
//   - trace_order: actions appear in the given order
//   - trace_count: an action appears exactly N times
//   - final_state: rows of a state table (moods, tests, favorites, keys,
//     stats, session) match where/expect, or number exactly rows
//
// # Golden Files
//
// RunWithGolden snapshots the trace as indented JSON under
// testdata/golden/<name>.golden. The clock starts at testutil.DefaultEpoch
// and advances one minute per reading; record ids are rec-0001, rec-0002...
package harness
