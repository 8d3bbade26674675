package profile

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/model"
	"github.com/roach88/selfcare/internal/recommend"
	"github.com/roach88/selfcare/internal/store"
)

// Catalog is the static content the Manager consults.
type Catalog interface {
	recommend.Catalog
	Technique(id string) (catalog.Technique, error)
	Techniques() []catalog.Technique
}

// WriteFailureFunc is told about every write or remove that failed.
type WriteFailureFunc func(key string, err error)

// Confirmer is the yes/no gate in front of irreversible operations.
type Confirmer func(prompt string) (bool, error)

// DeletePrompt is shown to the Confirmer by DeleteAll.
const DeletePrompt = "Are you sure? All data will be permanently deleted."

// Manager orchestrates load-on-login and save-on-mutate.
type Manager struct {
	store          store.Gateway
	catalog        Catalog
	clock          model.Clock
	ids            model.IDGenerator
	logger         *zap.Logger
	bcryptCost     int
	onWriteFailure WriteFailureFunc
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock sets the timestamp source for new records.
func WithClock(c model.Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithIDs sets the id generator for new records.
func WithIDs(g model.IDGenerator) Option {
	return func(m *Manager) { m.ids = g }
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) { m.logger = l }
}

// WithBcryptCost sets the credential hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(m *Manager) { m.bcryptCost = cost }
}

// WithWriteFailureHandler registers fn to be called after a failed write.
func WithWriteFailureHandler(fn WriteFailureFunc) Option {
	return func(m *Manager) { m.onWriteFailure = fn }
}

// NewManager returns a Manager persisting through gw.
func NewManager(gw store.Gateway, cat Catalog, opts ...Option) *Manager {
	m := &Manager{
		store:      gw,
		catalog:    cat,
		clock:      model.SystemClock{},
		ids:        model.UUIDv7Generator{},
		logger:     zap.NewNop(),
		bcryptCost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register creates a profile, makes it the current user and returns its
// Session. A second registration with the same email (after case and
// Unicode normalisation) is rejected with DUPLICATE_EMAIL.
func (m *Manager) Register(ctx context.Context, name, email, credential string) (*Session, error) {
	p := model.UserProfile{
		Name:       strings.TrimSpace(name),
		Email:      strings.TrimSpace(email),
		Credential: credential,
	}
	if err := model.Validate(p); err != nil {
		return nil, err
	}

	users, err := m.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	key := model.IdentityKey(p.Email)
	if _, exists := users[key]; exists {
		return nil, model.NewFieldError(model.CodeDuplicateEmail, "email",
			"a user with email %q already exists", p.Email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(credential), m.bcryptCost)
	if err != nil {
		return nil, model.NewFieldError(model.CodeInvalidField, "credential", "%v", err)
	}
	p.Credential = string(hash)

	users[key] = p
	m.persist(ctx, KeyUsers, users)
	m.persist(ctx, KeyCurrentUser, currentUser{Name: p.Name, Email: p.Email})

	m.logger.Info("user registered", zap.String("user", key))
	return m.open(ctx, p), nil
}

// Login checks the credential and returns the user's Session with its
// collections loaded. An unknown email and a wrong credential produce the
// same INVALID_CREDENTIALS error.
func (m *Manager) Login(ctx context.Context, email, credential string) (*Session, error) {
	users, err := m.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := users[model.IdentityKey(email)]
	if !ok || bcrypt.CompareHashAndPassword([]byte(p.Credential), []byte(credential)) != nil {
		return nil, model.NewValidationError(model.CodeInvalidCredentials, "invalid email or password")
	}

	m.persist(ctx, KeyCurrentUser, currentUser{Name: p.Name, Email: p.Email})

	m.logger.Info("user logged in", zap.String("user", model.IdentityKey(p.Email)))
	return m.open(ctx, p), nil
}

// Resume restores the Session of the persisted current user.
func (m *Manager) Resume(ctx context.Context) (*Session, error) {
	var cur currentUser
	found, err := store.GetJSON(ctx, m.store, KeyCurrentUser, &cur)
	if err != nil {
		m.readFailed(KeyCurrentUser, err)
	}
	if !found || err != nil || cur.Email == "" {
		return nil, model.NewValidationError(model.CodeNoSession, "not logged in")
	}

	users, err := m.loadRegistry(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := users[model.IdentityKey(cur.Email)]
	if !ok {
		return nil, model.NewValidationError(model.CodeNoSession, "current user %q is not registered", cur.Email)
	}
	return m.open(ctx, p), nil
}

// Logout forgets the current user and clears sess. Persisted collections
// are left untouched.
func (m *Manager) Logout(ctx context.Context, sess *Session) {
	m.remove(ctx, KeyCurrentUser)
	if sess != nil {
		m.logger.Info("user logged out", zap.String("user", sess.Key))
		sess.clear()
		sess.Profile = model.UserProfile{}
		sess.Key = ""
	}
}

// AddMood records a mood entry at the head of the user's history.
func (m *Manager) AddMood(ctx context.Context, sess *Session, emotion model.Emotion, stress int, note string) (model.MoodEntry, error) {
	if err := requireSession(sess); err != nil {
		return model.MoodEntry{}, err
	}
	entry, err := model.NewMoodEntry(m.ids.NewID(), m.clock.Now(), emotion, stress, strings.TrimSpace(note))
	if err != nil {
		return model.MoodEntry{}, err
	}

	sess.Moods = prepend(sess.Moods, entry)
	m.persist(ctx, MoodsKey(sess.Key), sess.Moods)
	return entry, nil
}

// CompleteTest stores a finished questionnaire result at the head of the
// user's history.
func (m *Manager) CompleteTest(ctx context.Context, sess *Session, result model.TestResult) error {
	if err := requireSession(sess); err != nil {
		return err
	}
	if !result.Level.Valid() {
		return model.NewFieldError(model.CodeOutOfRange, "level", "unknown level %q", result.Level)
	}

	sess.Results = prepend(sess.Results, result)
	m.persist(ctx, TestsKey(sess.Key), sess.Results)
	return nil
}

// ToggleFavorite stars or unstars a technique and reports whether it is now
// a favorite.
func (m *Manager) ToggleFavorite(ctx context.Context, sess *Session, techniqueID string) (bool, error) {
	if err := requireSession(sess); err != nil {
		return false, err
	}
	if _, err := m.catalog.Technique(techniqueID); err != nil {
		return false, err
	}

	sess.Favorites = sess.Favorites.Toggle(techniqueID)
	m.persist(ctx, FavoritesKey(sess.Key), sess.Favorites)
	return sess.Favorites.Contains(techniqueID), nil
}

// FavoriteTechniques returns the user's favorites in catalog order.
func (m *Manager) FavoriteTechniques(sess *Session) []catalog.Technique {
	if sess == nil {
		return nil
	}
	var out []catalog.Technique
	for _, t := range m.catalog.Techniques() {
		if sess.Favorites.Contains(t.ID) {
			out = append(out, t)
		}
	}
	return out
}

// DeleteAll removes the user's three collections after confirm agrees.
// It reports false, with no change, when confirm declines.
func (m *Manager) DeleteAll(ctx context.Context, sess *Session, confirm Confirmer) (bool, error) {
	if err := requireSession(sess); err != nil {
		return false, err
	}
	if confirm == nil {
		return false, errors.New("delete requires a confirmation gate")
	}
	ok, err := confirm(DeletePrompt)
	if err != nil || !ok {
		return false, err
	}

	for _, key := range CollectionKeys(sess.Key) {
		m.remove(ctx, key)
	}
	sess.clear()

	m.logger.Info("user data deleted", zap.String("user", sess.Key))
	return true, nil
}

// Recommend runs the Recommendation Selector over the user's history.
func (m *Manager) Recommend(sess *Session) (recommend.Recommendation, error) {
	if err := requireSession(sess); err != nil {
		return recommend.Recommendation{}, err
	}
	return recommend.For(m.catalog, sess.Moods)
}

// Stats summarises a Session for the dashboard.
type Stats struct {
	MoodEntries   int           `json:"moodEntries"`
	TestResults   int           `json:"testResults"`
	Favorites     int           `json:"favorites"`
	AverageStress float64       `json:"averageStress"`
	LastEmotion   model.Emotion `json:"lastEmotion,omitempty"`
	LastLevel     model.Level   `json:"lastLevel,omitempty"`
}

// Stats computes dashboard counts. AverageStress covers the recent window
// used by the Recommendation Selector.
func (m *Manager) Stats(sess *Session) (Stats, error) {
	if err := requireSession(sess); err != nil {
		return Stats{}, err
	}
	st := Stats{
		MoodEntries:   len(sess.Moods),
		TestResults:   len(sess.Results),
		Favorites:     len(sess.Favorites),
		AverageStress: recommend.AverageStress(sess.Moods),
	}
	if len(sess.Moods) > 0 {
		st.LastEmotion = sess.Moods[0].Emotion
	}
	if len(sess.Results) > 0 {
		st.LastLevel = sess.Results[0].Level
	}
	return st, nil
}

// currentUser is the record stored under KeyCurrentUser.
type currentUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// open builds a Session for p and loads its collections.
func (m *Manager) open(ctx context.Context, p model.UserProfile) *Session {
	sess := newSession(p)
	sess.Moods = loadList(ctx, m, MoodsKey(sess.Key), func(e model.MoodEntry) error {
		return model.Validate(e)
	})
	sess.Results = loadList(ctx, m, TestsKey(sess.Key), func(r model.TestResult) error {
		if !r.Level.Valid() {
			return model.NewFieldError(model.CodeOutOfRange, "level", "unknown level %q", r.Level)
		}
		return nil
	})
	sess.Favorites = loadList(ctx, m, FavoritesKey(sess.Key), m.checkFavorite)

	m.logger.Debug("session loaded",
		zap.String("user", sess.Key),
		zap.Int("moods", len(sess.Moods)),
		zap.Int("tests", len(sess.Results)),
		zap.Int("favorites", len(sess.Favorites)),
	)
	return sess
}

// loadList decodes the list at key. A missing key, a null value or a
// failed read yields an empty, non-nil list. Items rejected by check are
// dropped with a Warn log.
func loadList[T any](ctx context.Context, m *Manager, key string, check func(T) error) []T {
	var list []T
	if _, err := store.GetJSON(ctx, m.store, key, &list); err != nil {
		m.readFailed(key, err)
		return []T{}
	}

	out := make([]T, 0, len(list))
	for i, item := range list {
		if err := check(item); err != nil {
			m.logger.Warn("dropped invalid stored record",
				zap.String("key", key), zap.Int("index", i), zap.Error(err))
			continue
		}
		out = append(out, item)
	}
	return out
}

// checkFavorite accepts catalog technique ids only.
func (m *Manager) checkFavorite(id string) error {
	_, err := m.catalog.Technique(id)
	return err
}

// loadRegistry reads the user registry. Unlike collections, a failed read
// is returned so that a registration cannot overwrite an unreadable
// registry.
func (m *Manager) loadRegistry(ctx context.Context) (map[string]model.UserProfile, error) {
	users := make(map[string]model.UserProfile)
	if _, err := store.GetJSON(ctx, m.store, KeyUsers, &users); err != nil {
		m.readFailed(KeyUsers, err)
		return nil, err
	}
	if users == nil {
		users = make(map[string]model.UserProfile)
	}
	return users, nil
}

func (m *Manager) readFailed(key string, err error) {
	m.logger.Warn("persistence read failed", zap.String("key", key), zap.Error(err))
}

func (m *Manager) persist(ctx context.Context, key string, v any) {
	if err := store.SetJSON(ctx, m.store, key, v); err != nil {
		m.writeFailed(key, err)
		return
	}
	m.logger.Debug("persisted", zap.String("key", key))
}

func (m *Manager) remove(ctx context.Context, key string) {
	if err := m.store.Remove(ctx, key); err != nil {
		m.writeFailed(key, err)
		return
	}
	m.logger.Debug("removed", zap.String("key", key))
}

func (m *Manager) writeFailed(key string, err error) {
	m.logger.Warn("persistence write failed", zap.String("key", key), zap.Error(err))
	if m.onWriteFailure != nil {
		m.onWriteFailure(key, err)
	}
}

func prepend[T any](list []T, v T) []T {
	out := make([]T, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}
