package query

import (
	"slices"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/query/operators"
	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

// Pipeline runs queries over collections: filter, sort,
// limit and select, always in that order. The input collection is never
// modified.
type Pipeline struct {
	evaluator *Evaluator
	registry  *operators.OperatorRegistry
}

func NewPipeline() *Pipeline {
	registry := operators.NewDefaultRegistry()
	return &Pipeline{
		evaluator: NewEvaluatorWithRegistry(registry),
		registry:  registry,
	}
}

// Run returns the records of col selected by q as a new collection.
func (p *Pipeline) Run(col record.Collection, q Query) (record.Collection, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}
	result, err := p.Filter(col, q.Filter)
	if err != nil {
		return nil, err
	}
	if q.Sort != nil {
		p.sort(result, *q.Sort)
	}
	if limit, ok := q.Limit.Get(); ok && limit < len(result) {
		result = result[:limit]
	}
	if q.Select != nil {
		for i, rec := range result {
			result[i] = rec.Pick(q.Select...)
		}
	}
	return result, nil
}

// Filter returns the records of col matching f. A nil or empty filter keeps
// every record.
func (p *Pipeline) Filter(col record.Collection, f Filter) (record.Collection, error) {
	if len(f) == 0 {
		return col.Clone(), nil
	}
	op, err := Compile(f)
	if err != nil {
		return nil, err
	}
	return p.Select(col, op, true), nil
}

// Select returns the records of col whose match against op equals want.
func (p *Pipeline) Select(col record.Collection, op IFilterOperator, want bool) record.Collection {
	result := make(record.Collection, 0, len(col))
	for _, rec := range col {
		if p.evaluator.Matches(op, rec) == want {
			result = append(result, rec)
		}
	}
	return result
}

// Evaluator exposes the evaluator used by the pipeline.
func (p *Pipeline) Evaluator() *Evaluator {
	return p.evaluator
}

func (p *Pipeline) sort(col record.Collection, s Sort) {
	desc := s.Descending()
	slices.SortStableFunc(col, func(a, b *record.Record) int {
		c := p.registry.Compare(a.Value(s.By), b.Value(s.By))
		if desc {
			return -c
		}
		return c
	})
}

var defaultPipeline = NewPipeline()

// Run runs q over col with the default pipeline.
func Run(col record.Collection, q Query) (record.Collection, error) {
	return defaultPipeline.Run(col, q)
}

// Filtered returns the records of col matching f with the default pipeline.
func Filtered(col record.Collection, f Filter) (record.Collection, error) {
	return defaultPipeline.Filter(col, f)
}
