package query

import (
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/option"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Sort orders results by one field. An empty Order means ascending.
type Sort struct {
	By    string `json:"by" yaml:"by"`
	Order Order  `json:"order,omitempty" yaml:"order,omitempty"`
}

func Asc(field string) *Sort {
	return &Sort{By: field, Order: OrderAsc}
}

func Desc(field string) *Sort {
	return &Sort{By: field, Order: OrderDesc}
}

func (s Sort) Descending() bool {
	return s.Order == OrderDesc
}

// Query selects, orders and shapes records. Every facet is optional; an absent facet
// skips its pipeline stage. Select is absent when nil; a non-nil empty
// Select projects every record to an empty one.
type Query struct {
	Filter Filter             `json:"filter,omitempty" yaml:"filter,omitempty"`
	Sort   *Sort              `json:"sort,omitempty" yaml:"sort,omitempty"`
	Limit  option.Option[int] `json:"limit,omitzero" yaml:"limit,omitempty"`
	Select []string           `json:"select,omitempty" yaml:"select,omitempty"`
}

type invalidQuery struct {
	reason string
}

func (e *invalidQuery) Error() string {
	return e.reason
}

func (e *invalidQuery) Is(target error) bool {
	return target == ErrInvalidQuery
}

// Validate checks the facets that do not depend on the data.
func (q Query) Validate() error {
	var errs *multierror.Error
	if limit, ok := q.Limit.Get(); ok && limit < 0 {
		errs = multierror.Append(errs, &invalidQuery{fmt.Sprintf("limit must be non-negative, got %d", limit)})
	}
	if q.Sort != nil {
		if q.Sort.By == "" {
			errs = multierror.Append(errs, &invalidQuery{"sort field is empty"})
		}
		switch q.Sort.Order {
		case "", OrderAsc, OrderDesc:
		default:
			errs = multierror.Append(errs, &invalidQuery{fmt.Sprintf("unknown sort order %q", q.Sort.Order)})
		}
	}
	return errs.ErrorOrNil()
}

// ParseQueryJSON decodes {filter?, sort?: {by, order}, limit?, select?}.
func ParseQueryJSON(data []byte) (Query, error) {
	var q Query
	if err := json.Unmarshal(data, &q); err != nil {
		return Query{}, errors.Wrap(err, "unable to decode query")
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// ParseQueryYAML decodes the same shape as ParseQueryJSON from YAML.
func ParseQueryYAML(data []byte) (Query, error) {
	var q Query
	if err := yaml.Unmarshal(data, &q); err != nil {
		return Query{}, errors.Wrap(err, "unable to decode query")
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}
