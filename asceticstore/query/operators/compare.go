package operators

import (
	"cmp"

	"github.com/krew-solutions/ascetic-store-go/asceticstore/record"
)

var defaultRegistry = NewDefaultRegistry()

// Compare orders two field values for sorting using the default registry.
func Compare(a, b any) int {
	return defaultRegistry.Compare(a, b)
}

// Compare orders numbers exactly, integers without rounding, and falls
// back to the registered < and > for other same-kind values. Values of
// different kinds are ranked by kind: undefined, null, bool, number,
// string, sequence, mapping, other. Same-kind values with no ordering,
// NaN included, compare equal.
func (r *OperatorRegistry) Compare(a, b any) int {
	a, b = record.Normalize(a), record.Normalize(b)
	ka, kb := record.KindOf(a), record.KindOf(b)
	if ka != kb {
		return cmp.Compare(ka, kb)
	}
	if ka == record.KindNumber {
		c, _ := record.CompareNumbers(a, b)
		return c
	}
	if r.ExecPredicate(a, OperatorLt, b) {
		return -1
	}
	if r.ExecPredicate(a, OperatorGt, b) {
		return 1
	}
	return 0
}
