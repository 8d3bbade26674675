package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/selfcare/internal/model"
)

func openSQLite(t *testing.T, driver string) *SQLite {
	t.Helper()
	s, err := OpenSQLite(driver, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// gatewayContract runs the behaviour every backend must share.
func gatewayContract(t *testing.T, g Gateway) {
	t.Helper()
	ctx := context.Background()

	_, found, err := g.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found, "never-written key")

	require.NoError(t, g.Set(ctx, "users", []byte(`[]`)))
	require.NoError(t, g.Set(ctx, "users", []byte(`[{"name":"Ana"}]`)))

	v, found, err := g.Get(ctx, "users")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, `[{"name":"Ana"}]`, string(v))

	require.NoError(t, g.Remove(ctx, "users"))
	_, found, err = g.Get(ctx, "users")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, g.Remove(ctx, "users"), "removing a missing key")
}

func TestSQLite_Contract(t *testing.T) {
	for _, driver := range []string{DriverSQLite3, DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			gatewayContract(t, openSQLite(t, driver))
		})
	}
}

func TestMemory_Contract(t *testing.T) {
	gatewayContract(t, NewMemory())
}

func TestOpenSQLite_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(DriverSQLite3, path)
	require.NoError(t, err)
	defer s.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err, "database file was not created")
}

func TestOpenSQLite_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	ctx := context.Background()

	s, err := OpenSQLite(DriverSQLite3, path)
	require.NoError(t, err)
	require.NoError(t, s.Set(ctx, "currentUser", []byte(`"ana@example.com"`)))
	require.NoError(t, s.Close())

	for i := 0; i < 3; i++ {
		s, err := OpenSQLite(DriverSQLite3, path)
		require.NoError(t, err, "iteration %d", i)
		require.NoError(t, s.Close())
	}

	s, err = OpenSQLite(DriverSQLite3, path)
	require.NoError(t, err)
	defer s.Close()

	v, found, err := s.Get(ctx, "currentUser")
	require.NoError(t, err)
	require.True(t, found, "value survives reopen")
	assert.Equal(t, `"ana@example.com"`, string(v))
}

func TestOpenSQLite_Pragmas(t *testing.T) {
	s := openSQLite(t, DriverSQLite3)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("synchronous", "1")) // NORMAL
	assert.NoError(t, s.verifyPragma("busy_timeout", "5000"))
	assert.NoError(t, s.verifyPragma("user_version", "1"))
}

func TestOpenSQLite_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := OpenSQLite(DriverSQLite3, path)
	require.NoError(t, err)
	_, err = s.db.Exec("PRAGMA user_version = 99")
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = OpenSQLite(DriverSQLite3, path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "newer than supported")
}

func TestOpenSQLite_RequiresPath(t *testing.T) {
	_, err := OpenSQLite(DriverSQLite3, "")
	assert.Error(t, err)
}

func TestSQLite_ClosedDatabaseReportsPersistenceError(t *testing.T) {
	s, err := OpenSQLite(DriverSQLite3, filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Close())

	err = s.Set(context.Background(), "users", []byte(`[]`))
	require.Error(t, err)
	assert.True(t, model.IsPersistence(err))

	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "set", perr.Op)
	assert.Equal(t, "users", perr.Key)
}

func TestMemory_CopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	in := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", in))
	in[0] = 'z'

	out, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(out))

	out[1] = 'z'
	again, _, _ := m.Get(ctx, "k")
	assert.Equal(t, "abc", string(again))
}

func TestMemory_Keys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "users", nil))
	require.NoError(t, m.Set(ctx, "currentUser", nil))

	assert.Equal(t, []string{"currentUser", "users"}, m.Keys())
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	type note struct {
		Text string `json:"text"`
	}

	require.NoError(t, SetJSON(ctx, m, "n", note{Text: "a < b & c"}))
	raw, _, _ := m.Get(ctx, "n")
	assert.Equal(t, `{"text":"a < b & c"}`, string(raw), "HTML characters are not escaped")

	var got note
	found, err := GetJSON(ctx, m, "n", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "a < b & c", got.Text)

	found, err = GetJSON(ctx, m, "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetJSON_CorruptValue(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "users", []byte("{not json")))

	var v []string
	found, err := GetJSON(ctx, m, "users", &v)
	assert.True(t, found)
	require.Error(t, err)

	var perr *model.PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "decode", perr.Op)
}

func TestOpen_Drivers(t *testing.T) {
	ctx := context.Background()

	b, err := Open(ctx, Options{Driver: DriverMemory})
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, b)
	require.NoError(t, b.Close())

	b, err = Open(ctx, Options{Driver: DriverSQLite, Path: filepath.Join(t.TempDir(), "x.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLite{}, b)
	require.NoError(t, b.Close())

	_, err = Open(ctx, Options{Driver: "postgres"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage driver")
}

func TestOpenRedis_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := OpenRedis(ctx, RedisOptions{Address: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")

	_, err = OpenRedis(ctx, RedisOptions{})
	assert.Error(t, err)
}

func TestRedis_Contract(t *testing.T) {
	addr := os.Getenv("SELFCARE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SELFCARE_TEST_REDIS_ADDR not set")
	}
	r, err := OpenRedis(context.Background(), RedisOptions{
		Address: addr,
		Prefix:  "selfcare-test:" + t.Name() + ":",
	})
	require.NoError(t, err)
	defer r.Close()

	gatewayContract(t, r)
}
