package query

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/hashicorp/go-multierror"
)

const operatorPrefix = "$"

const (
	opAnd    = "$and"
	opOr     = "$or"
	opNot    = "$not"
	opEq     = "$eq"
	opRegex  = "$regex"
	opIn     = "$in"
	opExists = "$exists"
)

// Filter is a host-native filter expression:
//
//	query.Filter{"age": map[string]any{"$gt": 25}, "status": "active"}
//	query.Filter{"$or": []query.Filter{{"role": "admin"}, {"age": map[string]any{"$lt": 18}}}}
//
// Pattern-match comparators take a *regexp.Regexp, a pattern string, or
// the JSON-safe form {"pattern": "...", "flags": "i"}.
//
// Keys starting with "$" are reserved for operators. Outside the $and, $or
// and $not combinators such a key is rejected as an unknown operator, so a
// field whose name starts with "$" cannot be filtered on.
type Filter map[string]any

// FilterCompiler compiles Filter into an IFilterOperator tree.
type FilterCompiler struct{}

// Compile compiles a whole filter. Problems in different clauses are
// reported together.
func (c FilterCompiler) Compile(f Filter) (IFilterOperator, error) {
	op, errs := c.compileExpression(f, "")
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	return op, nil
}

// Compile compiles a filter with the default compiler.
func Compile(f Filter) (IFilterOperator, error) {
	return FilterCompiler{}.Compile(f)
}

// MustCompile is like Compile but panics on error.
func MustCompile(f Filter) IFilterOperator {
	op, err := Compile(f)
	if err != nil {
		panic(err)
	}
	return op
}

func joinPath(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// compileExpression applies combinator precedence: an empty filter, then
// $and, $or, $not, and only then leaf clauses. The first match wins and the
// remaining keys are not consulted.
func (c FilterCompiler) compileExpression(m map[string]any, path string) (IFilterOperator, *multierror.Error) {
	if len(m) == 0 {
		return EmptyQuery{}, nil
	}
	if v, ok := m[opAnd]; ok {
		operands, errs := c.compileList(v, joinPath(path, opAnd))
		return AndQuery{Operands: operands}, errs
	}
	if v, ok := m[opOr]; ok {
		operands, errs := c.compileList(v, joinPath(path, opOr))
		return OrQuery{Operands: operands}, errs
	}
	if v, ok := m[opNot]; ok {
		p := joinPath(path, opNot)
		sub, ok := asFilter(v)
		if !ok {
			return nil, multierror.Append(nil, compileErrorf(p, "value must be a filter, got %T", v))
		}
		operand, errs := c.compileExpression(sub, p)
		return NotQuery{Operand: operand}, errs
	}
	return c.compileFields(m, path)
}

func (c FilterCompiler) compileList(v any, path string) ([]IFilterOperator, *multierror.Error) {
	list, ok := asList(v)
	if !ok {
		return nil, multierror.Append(nil, compileErrorf(path, "value must be a list of filters, got %T", v))
	}
	var errs *multierror.Error
	operands := make([]IFilterOperator, 0, len(list))
	for i, item := range list {
		p := fmt.Sprintf("%s[%d]", path, i)
		sub, ok := asFilter(item)
		if !ok {
			errs = multierror.Append(errs, compileErrorf(p, "element must be a filter, got %T", item))
			continue
		}
		op, subErrs := c.compileExpression(sub, p)
		if subErrs != nil {
			errs = multierror.Append(errs, subErrs.Errors...)
			continue
		}
		operands = append(operands, op)
	}
	return operands, errs
}

func (c FilterCompiler) compileFields(m map[string]any, path string) (IFilterOperator, *multierror.Error) {
	var errs *multierror.Error
	fields := make(map[string]IFilterOperator, len(m))
	for _, field := range sortedKeys(m) {
		p := joinPath(path, field)
		if strings.HasPrefix(field, operatorPrefix) {
			errs = multierror.Append(errs, compileErrorf(p, "unknown operator: %s", field))
			continue
		}
		op, err := c.compileCondition(m[field], p)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		fields[field] = op
	}
	return CompositeQuery{Fields: fields}, errs
}

// compileCondition compiles the clause of one field. A map whose keys all
// start with "$" is a comparison object; any other value is a literal
// compared by strict equality.
func (c FilterCompiler) compileCondition(v any, path string) (IFilterOperator, error) {
	m, ok := asFilter(v)
	if !ok {
		return EqOperator{Value: v}, nil
	}
	if len(m) == 0 {
		return AndOperator{}, nil
	}

	var operators, fields []string
	for _, k := range sortedKeys(m) {
		if strings.HasPrefix(k, operatorPrefix) {
			operators = append(operators, k)
		} else {
			fields = append(fields, k)
		}
	}
	if len(operators) == 0 {
		return EqOperator{Value: v}, nil
	}
	if len(fields) > 0 {
		return nil, compileErrorf(
			path, "cannot mix operators and fields at same level. Operators: %v, Fields: %v",
			operators, fields,
		)
	}

	var errs *multierror.Error
	parsed := make([]IFilterOperator, 0, len(operators))
	for _, name := range operators {
		op, err := c.compileComparator(name, m[name], joinPath(path, name))
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		parsed = append(parsed, op)
	}
	if err := errs.ErrorOrNil(); err != nil {
		return nil, err
	}
	if len(parsed) == 1 {
		return parsed[0], nil
	}
	return AndOperator{Operands: parsed}, nil
}

func (c FilterCompiler) compileComparator(name string, value any, path string) (IFilterOperator, error) {
	if _, ok := comparisonSupportedOps[name]; ok {
		return ComparisonOperator{Op: name, Value: value}, nil
	}
	switch name {
	case opEq:
		return EqOperator{Value: value}, nil
	case opRegex:
		return compileRegex(value, path)
	case opIn:
		list, ok := asList(value)
		if !ok {
			return nil, compileErrorf(path, "value must be list, got: %T", value)
		}
		values := make([]any, len(list))
		copy(values, list)
		return InOperator{Values: values}, nil
	case opExists:
		b, ok := value.(bool)
		if !ok {
			return nil, compileErrorf(path, "value must be bool, got: %T", value)
		}
		return ExistsOperator{Value: b}, nil
	case opAnd, opOr, opNot:
		return nil, compileErrorf(path, "combinator %s is not allowed inside a field clause", name)
	default:
		return nil, compileErrorf(path, "unknown operator: %s", name)
	}
}

func compileRegex(value any, path string) (IFilterOperator, error) {
	var pattern, flags string
	switch v := value.(type) {
	case *regexp.Regexp:
		if v == nil {
			return nil, compileErrorf(path, "nil regular expression")
		}
		return RegexOperator{Pattern: v.String(), Regexp: v}, nil
	case regexp.Regexp:
		return RegexOperator{Pattern: v.String(), Regexp: &v}, nil
	case string:
		pattern = v
	default:
		m, ok := asFilter(value)
		if !ok {
			return nil, compileErrorf(path, "value must be a regular expression, pattern string or {pattern, flags}, got: %T", value)
		}
		if pattern, ok = m["pattern"].(string); !ok {
			return nil, compileErrorf(path, "pattern must be a string, got: %T", m["pattern"])
		}
		if f, exists := m["flags"]; exists && f != nil {
			if flags, ok = f.(string); !ok {
				return nil, compileErrorf(path, "flags must be a string, got: %T", f)
			}
		}
	}
	op, err := NewRegexOperator(pattern, flags)
	if err != nil {
		return nil, compileErrorf(path, "%v", err)
	}
	return op, nil
}

// NewRegexOperator compiles pattern with JavaScript-style flags. Flags i, m
// and s map to the Go inline flags; g, u and y do not affect matching.
func NewRegexOperator(pattern, flags string) (RegexOperator, error) {
	var inline strings.Builder
	for _, f := range flags {
		switch f {
		case 'i', 'm', 's':
			if !strings.ContainsRune(inline.String(), f) {
				inline.WriteRune(f)
			}
		case 'g', 'u', 'y':
		default:
			return RegexOperator{}, fmt.Errorf("unsupported regular expression flag %q", f)
		}
	}
	source := pattern
	if inline.Len() > 0 {
		source = "(?" + inline.String() + ")" + pattern
	}
	re, err := regexp.Compile(source)
	if err != nil {
		return RegexOperator{}, err
	}
	return RegexOperator{Pattern: pattern, Flags: flags, Regexp: re}, nil
}

func asFilter(v any) (map[string]any, bool) {
	switch x := v.(type) {
	case Filter:
		return x, true
	case map[string]any:
		return x, true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch x := v.(type) {
	case []any:
		return x, true
	case []Filter:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(x))
		for i, f := range x {
			out[i] = f
		}
		return out, true
	}
	return nil, false
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
