package store

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"
)

// IDGenerator produces values for the id field of inserted records.
type IDGenerator func() any

// NewULIDGenerator returns lexically sortable ids, monotonic within the
// same millisecond.
func NewULIDGenerator() IDGenerator {
	var mu sync.Mutex
	entropy := ulid.Monotonic(rand.Reader, 0)
	return func() any {
		mu.Lock()
		defer mu.Unlock()
		return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
	}
}

// NewUUIDGenerator returns random (version 4) UUIDs.
func NewUUIDGenerator() IDGenerator {
	return func() any {
		return uuid.NewString()
	}
}

// ParseIDGenerator maps a configuration name to a generator. The empty name
// means ids are left to the caller.
func ParseIDGenerator(name string) (IDGenerator, error) {
	switch name {
	case "", "none":
		return nil, nil
	case "ulid":
		return NewULIDGenerator(), nil
	case "uuid":
		return NewUUIDGenerator(), nil
	}
	return nil, errors.Errorf("unknown id generator %q", name)
}
