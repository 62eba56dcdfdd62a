package operators

import (
	"fmt"
	"reflect"
)

type BinaryOp func(left, right any) (any, error)

type binaryKey struct {
	left  reflect.Type
	op    Operator
	right reflect.Type
}

type OperatorRegistry struct {
	binary map[binaryKey]BinaryOp
}

func NewOperatorRegistry() *OperatorRegistry {
	return &OperatorRegistry{
		binary: make(map[binaryKey]BinaryOp),
	}
}

func RegisterBinary[L, R any](reg *OperatorRegistry, op Operator, fn func(L, R) (any, error)) {
	var zeroL L
	var zeroR R
	key := binaryKey{
		left:  reflect.TypeOf(zeroL),
		op:    op,
		right: reflect.TypeOf(zeroR),
	}
	reg.binary[key] = func(left, right any) (any, error) {
		return fn(left.(L), right.(R))
	}
}

// Supports reports whether op has an implementation for the operand types.
func (r *OperatorRegistry) Supports(left any, op Operator, right any) bool {
	if left == nil || right == nil {
		return false
	}
	_, err := r.lookupBinary(left, op, right)
	return err == nil
}

// ExecBinary executes a binary operator. A nil operand yields a nil (NULL) result.
func (r *OperatorRegistry) ExecBinary(left any, op Operator, right any) (any, error) {
	if left == nil || right == nil {
		return nil, nil
	}

	fn, err := r.lookupBinary(left, op, right)
	if err != nil {
		return nil, err
	}
	return fn(left, right)
}

// ExecPredicate executes a comparison and collapses NULL, unsupported
// operand types and non-bool results to false.
func (r *OperatorRegistry) ExecPredicate(left any, op Operator, right any) bool {
	result, err := r.ExecBinary(left, op, right)
	if err != nil || result == nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

func (r *OperatorRegistry) lookupBinary(left any, op Operator, right any) (BinaryOp, error) {
	key := binaryKey{
		left:  reflect.TypeOf(left),
		op:    op,
		right: reflect.TypeOf(right),
	}
	fn, ok := r.binary[key]
	if ok {
		return fn, nil
	}

	if fallback := interfaceFallback(left, op); fallback != nil {
		return fallback, nil
	}

	return nil, fmt.Errorf("operator \"%s\" is not supported for %T and %T", op, left, right)
}

func operandFallback[T any](name string, cmp func(l, r T) bool) BinaryOp {
	return func(left, right any) (any, error) {
		l, ok := left.(T)
		if !ok {
			return nil, fmt.Errorf("left operand %T does not implement %s", left, name)
		}
		r, ok := right.(T)
		if !ok {
			return nil, fmt.Errorf("right operand %T does not implement %s", right, name)
		}
		return cmp(l, r), nil
	}
}

func interfaceFallback(left any, op Operator) BinaryOp {
	switch op {
	case OperatorEq:
		if _, ok := left.(EqualOperand); ok {
			return operandFallback("EqualOperand", func(l, r EqualOperand) bool { return l.Equal(r) })
		}
	case OperatorNe:
		if _, ok := left.(EqualOperand); ok {
			return operandFallback("EqualOperand", func(l, r EqualOperand) bool { return !l.Equal(r) })
		}
	case OperatorGt:
		if _, ok := left.(GreaterThanOperand); ok {
			return operandFallback("GreaterThanOperand", func(l, r GreaterThanOperand) bool { return l.GreaterThan(r) })
		}
	case OperatorGte:
		if _, ok := left.(GreaterThanEqualOperand); ok {
			return operandFallback("GreaterThanEqualOperand", func(l, r GreaterThanEqualOperand) bool { return l.GreaterThanEqual(r) })
		}
	case OperatorLt:
		if _, ok := left.(LessThanOperand); ok {
			return operandFallback("LessThanOperand", func(l, r LessThanOperand) bool { return l.LessThan(r) })
		}
	case OperatorLte:
		if _, ok := left.(LessThanEqualOperand); ok {
			return operandFallback("LessThanEqualOperand", func(l, r LessThanEqualOperand) bool { return l.LessThanEqual(r) })
		}
	}
	return nil
}
