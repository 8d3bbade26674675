package profile

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roach88/selfcare/internal/catalog"
	"github.com/roach88/selfcare/internal/store"
	"github.com/roach88/selfcare/internal/testutil"
)

type fixture struct {
	mgr      *Manager
	mem      *store.Memory
	clock    *testutil.FixedClock
	failures []string
}

func newFixture(t *testing.T, gw store.Gateway) *fixture {
	t.Helper()
	f := &fixture{clock: testutil.NewFixedClock(testutil.DefaultEpoch, 0)}
	if gw == nil {
		f.mem = store.NewMemory()
		gw = f.mem
	}
	f.mgr = NewManager(gw, catalog.MustLoad(),
		WithClock(f.clock),
		WithIDs(testutil.NewSequenceIDs("rec")),
		WithBcryptCost(bcrypt.MinCost),
		WithWriteFailureHandler(func(key string, err error) {
			f.failures = append(f.failures, key)
		}),
	)
	return f
}

func (f *fixture) register(t *testing.T) *Session {
	t.Helper()
	sess, err := f.mgr.Register(context.Background(), "Ana", "ana@example.com", "s3cret")
	require.NoError(t, err)
	return sess
}

var errBackend = errors.New("backend down")

// flakyGateway wraps a Gateway and fails selected operations.
type flakyGateway struct {
	store.Gateway
	mu        sync.Mutex
	failGet   map[string]bool
	failWrite bool
}

func (g *flakyGateway) Get(ctx context.Context, key string) ([]byte, bool, error) {
	g.mu.Lock()
	fail := g.failGet[key]
	g.mu.Unlock()
	if fail {
		return nil, false, errBackend
	}
	return g.Gateway.Get(ctx, key)
}

func (g *flakyGateway) Set(ctx context.Context, key string, value []byte) error {
	g.mu.Lock()
	fail := g.failWrite
	g.mu.Unlock()
	if fail {
		return errBackend
	}
	return g.Gateway.Set(ctx, key, value)
}

func (g *flakyGateway) Remove(ctx context.Context, key string) error {
	g.mu.Lock()
	fail := g.failWrite
	g.mu.Unlock()
	if fail {
		return errBackend
	}
	return g.Gateway.Remove(ctx, key)
}
