package profile

import (
	"github.com/roach88/selfcare/internal/model"
)

// Session is the authenticated context every mutation operates on.
// Slices are replaced, never modified in place, so a caller holding an
// earlier slice keeps a consistent snapshot.
type Session struct {
	Profile   model.UserProfile
	Key       string // identity key derived from Profile.Email
	Moods     []model.MoodEntry
	Results   []model.TestResult
	Favorites model.FavoriteSet
}

func newSession(p model.UserProfile) *Session {
	return &Session{
		Profile:   p,
		Key:       model.IdentityKey(p.Email),
		Moods:     []model.MoodEntry{},
		Results:   []model.TestResult{},
		Favorites: model.FavoriteSet{},
	}
}

func (s *Session) clear() {
	s.Moods = []model.MoodEntry{}
	s.Results = []model.TestResult{}
	s.Favorites = model.FavoriteSet{}
}

func requireSession(s *Session) error {
	if s == nil || s.Key == "" {
		return model.NewValidationError(model.CodeNoSession, "not logged in")
	}
	return nil
}
