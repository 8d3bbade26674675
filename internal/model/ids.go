package model

import (
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces unique record ids.
type IDGenerator interface {
	NewID() string
}

// Clock supplies timestamps for new records.
type Clock interface {
	Now() time.Time
}

// UUIDv7Generator generates time-sortable UUIDv7 ids.
//
// UUIDv7 embeds a millisecond timestamp in its most significant bits, so ids
// sort by creation time and do not collide when two records are created in
// the same millisecond.
type UUIDv7Generator struct{}

// NewID returns a hyphenated UUIDv7. Panics if the system random source fails.
func (UUIDv7Generator) NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SystemClock reads the wall clock in UTC.
type SystemClock struct{}

// Now returns the current UTC time.
func (SystemClock) Now() time.Time {
	return time.Now().UTC()
}
