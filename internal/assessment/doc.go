// Package assessment runs a questionnaire from first answer to scored result.
//
// A Session moves through three states:
//
//	Idle ──Start──▶ InProgress ──Answer (last)──▶ Completed ──▶ Idle
//	                    ▲   │
//	                    └───┘ Answer (not last)
//
// Start resets the answer accumulator. Answer accepts integers 1..5; anything
// else is rejected with a ValidationError and leaves the session unchanged.
// The final Answer returns the TestResult and the session goes back to Idle.
// There is no backward navigation.
//
// Score and LevelFor are pure and can be used without a Session.
package assessment
