package query

import (
	"github.com/krew-solutions/ascetic-store-go/asceticstore/query/operators"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

var comparisonRegistryOps = map[string]operators.Operator{
	"$gt":  operators.OperatorGt,
	"$gte": operators.OperatorGte,
	"$lt":  operators.OperatorLt,
	"$lte": operators.OperatorLte,
}

// Evaluator decides whether a record matches a compiled filter.
// Evaluation never fails: comparisons between incomparable values are false.
type Evaluator struct {
	registry *operators.OperatorRegistry
}

func NewEvaluator() *Evaluator {
	return &Evaluator{registry: operators.NewDefaultRegistry()}
}

// NewEvaluatorWithRegistry uses a custom registry for equality and ordering
// comparisons, e.g. one with extra value types registered.
func NewEvaluatorWithRegistry(registry *operators.OperatorRegistry) *Evaluator {
	return &Evaluator{registry: registry}
}

// Matches reports whether rec satisfies op.
func (e *Evaluator) Matches(op IFilterOperator, rec *record.Record) bool {
	return e.Evaluate(op, rec)
}

// Evaluate checks state against op. Record-level operators expect a
// *record.Record or map[string]any; field operators expect a field value.
func (e *Evaluator) Evaluate(op IFilterOperator, state any) bool {
	switch q := op.(type) {
	case EmptyQuery:
		return false

	case AndQuery:
		for _, operand := range q.Operands {
			if !e.Evaluate(operand, state) {
				return false
			}
		}
		return true

	case OrQuery:
		for _, operand := range q.Operands {
			if e.Evaluate(operand, state) {
				return true
			}
		}
		return false

	case NotQuery:
		return !e.Evaluate(q.Operand, state)

	case CompositeQuery:
		return e.evaluateComposite(q, state)

	case EqOperator:
		return e.equal(state, q.Value)

	case ComparisonOperator:
		return e.compare(q.Op, state, q.Value)

	case RegexOperator:
		if q.Regexp == nil {
			return false
		}
		return q.Regexp.MatchString(record.Stringify(state))

	case InOperator:
		for _, v := range q.Values {
			if e.equal(state, v) {
				return true
			}
		}
		return false

	case ExistsOperator:
		return !record.IsUndefined(state) == q.Value

	case AndOperator:
		for _, operand := range q.Operands {
			if !e.Evaluate(operand, state) {
				return false
			}
		}
		return true
	}

	return false
}

func (e *Evaluator) evaluateComposite(query CompositeQuery, state any) bool {
	if !isStructLike(state) {
		return false
	}
	for field, fieldOp := range query.Fields {
		if !e.Evaluate(fieldOp, getFieldValue(state, field)) {
			return false
		}
	}
	return true
}

func (e *Evaluator) compare(op string, actual, expected any) bool {
	if op == "$ne" {
		return !e.equal(actual, expected)
	}
	regOp, ok := comparisonRegistryOps[op]
	if !ok {
		return false
	}
	return e.registry.ExecPredicate(record.Normalize(actual), regOp, record.Normalize(expected))
}

// equal is strict equality. Registered types and value objects
// implementing operators.EqualOperand decide through the registry, the rest
// compare structurally.
func (e *Evaluator) equal(actual, expected any) bool {
	a, b := record.Normalize(actual), record.Normalize(expected)
	if e.registry.Supports(a, operators.OperatorEq, b) {
		return e.registry.ExecPredicate(a, operators.OperatorEq, b)
	}
	return record.Equal(a, b)
}

func isStructLike(state any) bool {
	switch s := state.(type) {
	case *record.Record:
		return s != nil
	case map[string]any:
		return true
	}
	return false
}

func getFieldValue(state any, field string) any {
	switch s := state.(type) {
	case *record.Record:
		return s.Value(field)
	case map[string]any:
		if v, ok := s[field]; ok {
			return v
		}
	}
	return record.Undefined
}

var defaultEvaluator = NewEvaluator()

// Matches compiles f and evaluates it against rec. An empty filter never matches.
func Matches(rec *record.Record, f Filter) (bool, error) {
	op, err := Compile(f)
	if err != nil {
		return false, err
	}
	return defaultEvaluator.Matches(op, rec), nil
}

// MustMatch is like Matches but panics when f does not compile.
func MustMatch(rec *record.Record, f Filter) bool {
	ok, err := Matches(rec, f)
	if err != nil {
		panic(err)
	}
	return ok
}
