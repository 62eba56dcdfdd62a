package query

import (
	"github.com/pkg/errors"
)

// FilterToDictVisitor renders a compiled filter back into a JSON-safe Filter.
// Regular expressions are written as {"pattern": ..., "flags": ...}.
type FilterToDictVisitor struct{}

func (v FilterToDictVisitor) Visit(op IFilterOperator) (Filter, error) {
	result, err := op.Accept(v)
	if err != nil {
		return nil, err
	}
	m, ok := result.(map[string]any)
	if !ok {
		return nil, errors.Errorf("%v is not a record-level filter", op)
	}
	return Filter(m), nil
}

func (v FilterToDictVisitor) VisitEmpty(op EmptyQuery) (any, error) {
	return map[string]any{}, nil
}

func (v FilterToDictVisitor) VisitComposite(op CompositeQuery) (any, error) {
	result := make(map[string]any, len(op.Fields))
	for k, fieldOp := range op.Fields {
		val, err := fieldOp.Accept(v)
		if err != nil {
			return nil, err
		}
		result[k] = val
	}
	return result, nil
}

func (v FilterToDictVisitor) visitList(operands []IFilterOperator) ([]any, error) {
	items := make([]any, len(operands))
	for i, operand := range operands {
		item, err := operand.Accept(v)
		if err != nil {
			return nil, err
		}
		items[i] = item
	}
	return items, nil
}

func (v FilterToDictVisitor) VisitAndQuery(op AndQuery) (any, error) {
	items, err := v.visitList(op.Operands)
	if err != nil {
		return nil, err
	}
	return map[string]any{opAnd: items}, nil
}

func (v FilterToDictVisitor) VisitOrQuery(op OrQuery) (any, error) {
	items, err := v.visitList(op.Operands)
	if err != nil {
		return nil, err
	}
	return map[string]any{opOr: items}, nil
}

func (v FilterToDictVisitor) VisitNotQuery(op NotQuery) (any, error) {
	inner, err := op.Operand.Accept(v)
	if err != nil {
		return nil, err
	}
	return map[string]any{opNot: inner}, nil
}

func (v FilterToDictVisitor) VisitEq(op EqOperator) (any, error) {
	return map[string]any{opEq: op.Value}, nil
}

func (v FilterToDictVisitor) VisitComparison(op ComparisonOperator) (any, error) {
	return map[string]any{op.Op: op.Value}, nil
}

func (v FilterToDictVisitor) VisitRegex(op RegexOperator) (any, error) {
	return map[string]any{opRegex: map[string]any{"pattern": op.Pattern, "flags": op.Flags}}, nil
}

func (v FilterToDictVisitor) VisitIn(op InOperator) (any, error) {
	values := make([]any, len(op.Values))
	copy(values, op.Values)
	return map[string]any{opIn: values}, nil
}

func (v FilterToDictVisitor) VisitExists(op ExistsOperator) (any, error) {
	return map[string]any{opExists: op.Value}, nil
}

func (v FilterToDictVisitor) VisitAnd(op AndOperator) (any, error) {
	result := make(map[string]any)
	for _, operand := range op.Operands {
		accepted, err := operand.Accept(v)
		if err != nil {
			return nil, err
		}
		for k, val := range accepted.(map[string]any) {
			result[k] = val
		}
	}
	return result, nil
}

var filterToDictVisitor = FilterToDictVisitor{}

// FilterToDict converts a compiled filter to a Filter that survives JSON encoding.
func FilterToDict(op IFilterOperator) (Filter, error) {
	return filterToDictVisitor.Visit(op)
}
