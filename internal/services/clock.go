package services

import (
	"time"

	"github.com/google/uuid"
)

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns the current time in UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// UUIDGenerator mints random UUIDv4 alert ids.
type UUIDGenerator struct{}

// NewID returns a new UUID string.
func (UUIDGenerator) NewID() string { return uuid.New().String() }
