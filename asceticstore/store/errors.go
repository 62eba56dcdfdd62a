package store

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrInvalidSource = errors.New("store: source is not a collection of records")
	ErrInvalidState  = errors.New("store: no path to save a non-collection source to")
)

// ConstructionError is returned when a backing file cannot be read or is
// not valid JSON.
type ConstructionError struct {
	Path string
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("store: unable to load %s: %v", e.Path, e.Err)
}

func (e *ConstructionError) Unwrap() error {
	return e.Err
}
