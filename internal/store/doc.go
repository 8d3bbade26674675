// Package store provides the Persistence Gateway: get, set and remove of
// opaque values by string key.
//
// Backends:
//   - SQLite via github.com/mattn/go-sqlite3 (driver "sqlite3", the default)
//   - SQLite via modernc.org/sqlite (driver "sqlite", no cgo)
//   - Redis via github.com/redis/go-redis/v9 (driver "redis")
//   - an in-process map (driver "memory"), for tests and dry runs
//
// Every backend reports failures as *model.PersistenceError. A key that was
// never written is not an error: Get returns found=false.
//
// # SQLite configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//
// Values are JSON documents written through SetJSON and read through
// GetJSON; the gateway itself never inspects them.
package store
