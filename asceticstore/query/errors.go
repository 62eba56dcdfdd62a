package query

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrInvalidQuery is matched by every filter compile and query validation error.
var ErrInvalidQuery = errors.New("invalid query")

// CompileError locates a problem in a filter expression.
type CompileError struct {
	Path   string
	Reason string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("filter: %s", e.Reason)
	}
	return fmt.Sprintf("filter %s: %s", e.Path, e.Reason)
}

func (e *CompileError) Is(target error) bool {
	return target == ErrInvalidQuery
}

func compileErrorf(path, format string, args ...any) *CompileError {
	return &CompileError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
