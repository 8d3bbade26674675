package store

import (
	"context"
	"fmt"
)

// Gateway is a durable key-value store.
type Gateway interface {
	// Get returns the value stored at key. found is false when the key was
	// never written or has been removed.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error
}

// Backend is a Gateway that holds resources.
type Backend interface {
	Gateway
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSQLite3 = "sqlite3" // github.com/mattn/go-sqlite3
	DriverSQLite  = "sqlite"  // modernc.org/sqlite
	DriverMemory  = "memory"
	DriverRedis   = "redis"
)

// Drivers lists every driver Open accepts.
var Drivers = []string{DriverSQLite3, DriverSQLite, DriverMemory, DriverRedis}

// Options selects and configures a backend.
type Options struct {
	Driver string
	Path   string // SQLite database file; ":memory:" for a private in-memory DB
	Redis  RedisOptions
}

// Open creates the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Backend, error) {
	switch opts.Driver {
	case DriverSQLite3, DriverSQLite:
		return OpenSQLite(opts.Driver, opts.Path)
	case DriverMemory:
		return NewMemory(), nil
	case DriverRedis:
		return OpenRedis(ctx, opts.Redis)
	default:
		return nil, fmt.Errorf("unknown storage driver %q: must be one of %v", opts.Driver, Drivers)
	}
}
