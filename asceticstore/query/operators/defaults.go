package operators

import (
	"cmp"
	"time"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

func registerComparison[T cmp.Ordered](reg *OperatorRegistry) {
	RegisterBinary[T, T](reg, OperatorEq, func(a, b T) (any, error) { return a == b, nil })
	RegisterBinary[T, T](reg, OperatorNe, func(a, b T) (any, error) { return a != b, nil })
	RegisterBinary[T, T](reg, OperatorGt, func(a, b T) (any, error) { return a > b, nil })
	RegisterBinary[T, T](reg, OperatorGte, func(a, b T) (any, error) { return a >= b, nil })
	RegisterBinary[T, T](reg, OperatorLt, func(a, b T) (any, error) { return a < b, nil })
	RegisterBinary[T, T](reg, OperatorLte, func(a, b T) (any, error) { return a <= b, nil })
}

// registerNumberPair registers comparisons between two numeric types.
// Integers are compared exactly; NaN is unordered and unequal to anything.
func registerNumberPair[L, R any](reg *OperatorRegistry) {
	compare := func(pred func(int) bool) func(L, R) (any, error) {
		return func(a L, b R) (any, error) {
			c, ok := record.CompareNumbers(a, b)
			return ok && pred(c), nil
		}
	}
	RegisterBinary[L, R](reg, OperatorEq, compare(func(c int) bool { return c == 0 }))
	RegisterBinary[L, R](reg, OperatorNe, func(a L, b R) (any, error) {
		c, ok := record.CompareNumbers(a, b)
		return !ok || c != 0, nil
	})
	RegisterBinary[L, R](reg, OperatorGt, compare(func(c int) bool { return c > 0 }))
	RegisterBinary[L, R](reg, OperatorGte, compare(func(c int) bool { return c >= 0 }))
	RegisterBinary[L, R](reg, OperatorLt, compare(func(c int) bool { return c < 0 }))
	RegisterBinary[L, R](reg, OperatorLte, compare(func(c int) bool { return c <= 0 }))
}

func registerNumbers[L any](reg *OperatorRegistry) {
	registerNumberPair[L, int](reg)
	registerNumberPair[L, int64](reg)
	registerNumberPair[L, uint64](reg)
	registerNumberPair[L, float64](reg)
}

// NewDefaultRegistry creates a registry with comparison operators for the
// value types a record can hold.
func NewDefaultRegistry() *OperatorRegistry {
	reg := NewOperatorRegistry()

	// bool: false < true
	RegisterBinary[bool, bool](reg, OperatorEq, func(a, b bool) (any, error) { return a == b, nil })
	RegisterBinary[bool, bool](reg, OperatorNe, func(a, b bool) (any, error) { return a != b, nil })
	RegisterBinary[bool, bool](reg, OperatorGt, func(a, b bool) (any, error) { return a && !b, nil })
	RegisterBinary[bool, bool](reg, OperatorGte, func(a, b bool) (any, error) { return a || !b, nil })
	RegisterBinary[bool, bool](reg, OperatorLt, func(a, b bool) (any, error) { return !a && b, nil })
	RegisterBinary[bool, bool](reg, OperatorLte, func(a, b bool) (any, error) { return !a || b, nil })

	// numbers, any pair of int, int64, uint64 and float64
	registerNumbers[int](reg)
	registerNumbers[int64](reg)
	registerNumbers[uint64](reg)
	registerNumbers[float64](reg)

	// string
	registerComparison[string](reg)

	// time.Duration
	registerComparison[time.Duration](reg)

	// time.Time
	RegisterBinary[time.Time, time.Time](reg, OperatorEq, func(a, b time.Time) (any, error) { return a.Equal(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorNe, func(a, b time.Time) (any, error) { return !a.Equal(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorGt, func(a, b time.Time) (any, error) { return a.After(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorGte, func(a, b time.Time) (any, error) { return !a.Before(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorLt, func(a, b time.Time) (any, error) { return a.Before(b), nil })
	RegisterBinary[time.Time, time.Time](reg, OperatorLte, func(a, b time.Time) (any, error) { return !a.After(b), nil })

	return reg
}
