package query

import (
	"fmt"
	"regexp"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

type IFilterVisitor interface {
	VisitEmpty(op EmptyQuery) (any, error)
	VisitComposite(op CompositeQuery) (any, error)
	VisitAndQuery(op AndQuery) (any, error)
	VisitOrQuery(op OrQuery) (any, error)
	VisitNotQuery(op NotQuery) (any, error)
	VisitEq(op EqOperator) (any, error)
	VisitComparison(op ComparisonOperator) (any, error)
	VisitRegex(op RegexOperator) (any, error)
	VisitIn(op InOperator) (any, error)
	VisitExists(op ExistsOperator) (any, error)
	VisitAnd(op AndOperator) (any, error)
}

// IFilterOperator is a node of a compiled filter. Record-level nodes
// (EmptyQuery, CompositeQuery, AndQuery, OrQuery, NotQuery) are evaluated
// against a record; the rest against a single field value.
type IFilterOperator interface {
	Accept(visitor IFilterVisitor) (any, error)
	Equal(other IFilterOperator) bool
}

func equalOperands(a, b []IFilterOperator) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// EmptyQuery is a filter without keys: {}. It matches nothing.
type EmptyQuery struct{}

func (o EmptyQuery) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitEmpty(o)
}

func (o EmptyQuery) Equal(other IFilterOperator) bool {
	_, ok := other.(EmptyQuery)
	return ok
}

func (o EmptyQuery) String() string {
	return "EmptyQuery()"
}

// CompositeQuery holds the leaf clauses of a filter: {'field1': cond1, 'field2': cond2}
type CompositeQuery struct {
	Fields map[string]IFilterOperator
}

func (o CompositeQuery) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitComposite(o)
}

func (o CompositeQuery) Equal(other IFilterOperator) bool {
	oo, ok := other.(CompositeQuery)
	if !ok {
		return false
	}
	if len(o.Fields) != len(oo.Fields) {
		return false
	}
	for k, v := range o.Fields {
		ov, exists := oo.Fields[k]
		if !exists {
			return false
		}
		if !v.Equal(ov) {
			return false
		}
	}
	return true
}

func (o CompositeQuery) String() string {
	return fmt.Sprintf("CompositeQuery(%v)", o.Fields)
}

// AndQuery represents {'$and': [filter1, filter2, ...]}
type AndQuery struct {
	Operands []IFilterOperator
}

func (o AndQuery) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitAndQuery(o)
}

func (o AndQuery) Equal(other IFilterOperator) bool {
	oo, ok := other.(AndQuery)
	return ok && equalOperands(o.Operands, oo.Operands)
}

func (o AndQuery) String() string {
	return fmt.Sprintf("AndQuery(%v)", o.Operands)
}

// OrQuery represents {'$or': [filter1, filter2, ...]}
type OrQuery struct {
	Operands []IFilterOperator
}

func (o OrQuery) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitOrQuery(o)
}

func (o OrQuery) Equal(other IFilterOperator) bool {
	oo, ok := other.(OrQuery)
	return ok && equalOperands(o.Operands, oo.Operands)
}

func (o OrQuery) String() string {
	return fmt.Sprintf("OrQuery(%v)", o.Operands)
}

// NotQuery represents {'$not': filter}
type NotQuery struct {
	Operand IFilterOperator
}

func (o NotQuery) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitNotQuery(o)
}

func (o NotQuery) Equal(other IFilterOperator) bool {
	oo, ok := other.(NotQuery)
	return ok && o.Operand.Equal(oo.Operand)
}

func (o NotQuery) String() string {
	return fmt.Sprintf("NotQuery(%v)", o.Operand)
}

// EqOperator represents equality check: value or {'$eq': value}
type EqOperator struct {
	Value any
}

func (o EqOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitEq(o)
}

func (o EqOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(EqOperator)
	return ok && record.Equal(o.Value, oo.Value)
}

func (o EqOperator) String() string {
	return fmt.Sprintf("EqOperator(%v)", o.Value)
}

// ComparisonOperator represents comparison: {'$ne': value}, {'$gt': value}, etc.
type ComparisonOperator struct {
	Op    string
	Value any
}

var comparisonSupportedOps = map[string]struct{}{
	"$ne": {}, "$gt": {}, "$gte": {}, "$lt": {}, "$lte": {},
}

func (o ComparisonOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitComparison(o)
}

func (o ComparisonOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(ComparisonOperator)
	return ok && o.Op == oo.Op && record.Equal(o.Value, oo.Value)
}

func (o ComparisonOperator) String() string {
	return fmt.Sprintf("ComparisonOperator(%s, %v)", o.Op, o.Value)
}

// RegexOperator represents pattern match on the stringified value: {'$regex': pattern}
type RegexOperator struct {
	Pattern string
	Flags   string
	Regexp  *regexp.Regexp
}

func (o RegexOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitRegex(o)
}

func (o RegexOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(RegexOperator)
	return ok && o.Pattern == oo.Pattern && o.Flags == oo.Flags
}

func (o RegexOperator) String() string {
	return fmt.Sprintf("RegexOperator(/%s/%s)", o.Pattern, o.Flags)
}

// InOperator represents membership check: {'$in': [value1, value2, ...]}
type InOperator struct {
	Values []any
}

func (o InOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitIn(o)
}

func (o InOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(InOperator)
	return ok && record.Equal(o.Values, oo.Values)
}

func (o InOperator) String() string {
	return fmt.Sprintf("InOperator(%v)", o.Values)
}

// ExistsOperator represents presence check: {'$exists': true/false}
type ExistsOperator struct {
	Value bool
}

func (o ExistsOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitExists(o)
}

func (o ExistsOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(ExistsOperator)
	return ok && o.Value == oo.Value
}

func (o ExistsOperator) String() string {
	return fmt.Sprintf("ExistsOperator(%v)", o.Value)
}

// AndOperator represents implicit AND of comparators on one field:
// {'$gt': 1, '$lt': 5}. With no operands it is always satisfied.
type AndOperator struct {
	Operands []IFilterOperator
}

func (o AndOperator) Accept(visitor IFilterVisitor) (any, error) {
	return visitor.VisitAnd(o)
}

func (o AndOperator) Equal(other IFilterOperator) bool {
	oo, ok := other.(AndOperator)
	return ok && equalOperands(o.Operands, oo.Operands)
}

func (o AndOperator) String() string {
	return fmt.Sprintf("AndOperator(%v)", o.Operands)
}
