// Package catalog holds the static content selfcare ships with: emotions,
// questionnaires, coping techniques, support hotlines and the advice shown
// for each result level.
//
// The content is authored in CUE (catalog.cue) and checked against
// schema.cue when loaded, so a questionnaire without questions or a
// technique in an unknown category never reaches the engine. Load parses
// the embedded copy; Parse accepts an alternative source with the same
// shape.
package catalog
