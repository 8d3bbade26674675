// Package profile binds an authenticated identity to its persisted
// collections.
//
// A Manager owns no per-user state. Login, Register and Resume return a
// *Session holding the profile and its three collections (mood entries,
// test results, favorite technique ids); every other operation takes that
// Session explicitly and persists the changed collection before returning.
//
// Stored keys:
//
//	users                  registry, identity key -> profile
//	currentUser            the active identity
//	user_<key>_moods       mood entries, newest first
//	user_<key>_tests       test results, newest first
//	user_<key>_favorites   favorite technique ids, in the order starred
//
// A collection that fails to load is treated as empty. A failed write is
// logged at Warn and reported to the WriteFailureFunc, if any; the in-memory
// Session keeps the change and the stored state diverges until the next
// successful write of that key.
package profile
