package operators

type Operator string

const (
	// Comparison

	OperatorEq  Operator = "="
	OperatorGt  Operator = ">"
	OperatorLt  Operator = "<"
	OperatorGte Operator = ">="
	OperatorLte Operator = "<="
	OperatorNe  Operator = "!="
)

// Value objects stored in records may take part in comparisons by
// implementing these interfaces.

type EqualOperand interface {
	Equal(other EqualOperand) bool
}

type GreaterThanOperand interface {
	GreaterThan(other GreaterThanOperand) bool
}

type GreaterThanEqualOperand interface {
	GreaterThanEqual(other GreaterThanEqualOperand) bool
}

type LessThanOperand interface {
	LessThan(other LessThanOperand) bool
}

type LessThanEqualOperand interface {
	LessThanEqual(other LessThanEqualOperand) bool
}
