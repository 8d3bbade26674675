// Package model defines the records a user owns and the errors the rest of
// selfcare reports.
//
// # Records
//
//   - UserProfile: the identity namespace all other records live under
//   - MoodEntry: one dated self-report (emotion, stress 1..10, optional note)
//   - TestResult: the scored outcome of one completed questionnaire
//   - FavoriteSet: technique ids the user starred
//
// MoodEntry and TestResult are immutable once built. Collections are kept
// newest-first.
//
// # Errors
//
// ValidationError, NotFoundError and PersistenceError follow a single
// pattern: a struct carrying a code or kind, plus an Is* helper that uses
// errors.As so wrapped errors still match.
package model
