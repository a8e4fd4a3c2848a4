package query

import "github.com/asaidimu/go-sysparm/core/schema"

// Operator is a token of the encoded query syntax. Condition operators sit
// between a field and its operand; connectors and ordering directives stand
// on their own.
type Operator string

// Condition operators.
const (
	OperatorStartsWith  Operator = "STARTSWITH"
	OperatorEndsWith    Operator = "ENDSWITH"
	OperatorLike        Operator = "LIKE"
	OperatorNotLike     Operator = "NOTLIKE"
	OperatorIsEmpty     Operator = "ISEMPTY"
	OperatorIsNotEmpty  Operator = "ISNOTEMPTY"
	OperatorEmptyString Operator = "EMPTYSTRING"
	OperatorAnything    Operator = "ANYTHING"
	OperatorEq          Operator = "="
	OperatorNeq         Operator = "!="
	OperatorIn          Operator = "IN"
	OperatorNotIn       Operator = "NOT IN"
	OperatorGt          Operator = ">"
	OperatorGte         Operator = ">="
	OperatorLt          Operator = "<"
	OperatorLte         Operator = "<="
	OperatorBetween     Operator = "BETWEEN"
)

// Connectors.
const (
	OperatorAnd      Operator = "^"
	OperatorOr       Operator = "^OR"
	OperatorNewQuery Operator = "^NQ"
)

// Ordering directives.
const (
	OperatorOrderBy     Operator = "ORDERBY"
	OperatorOrderByDesc Operator = "ORDERBYDESC"
)

// Separators used inside operands.
const (
	ListSeparator  = ","
	RangeSeparator = "@"
)

// standardOperators is the set of condition operators the processor evaluates
// without a registered function.
var standardOperators = map[Operator]struct{}{
	OperatorStartsWith:  {},
	OperatorEndsWith:    {},
	OperatorLike:        {},
	OperatorNotLike:     {},
	OperatorIsEmpty:     {},
	OperatorIsNotEmpty:  {},
	OperatorEmptyString: {},
	OperatorAnything:    {},
	OperatorEq:          {},
	OperatorNeq:         {},
	OperatorIn:          {},
	OperatorNotIn:       {},
	OperatorGt:          {},
	OperatorGte:         {},
	OperatorLt:          {},
	OperatorLte:         {},
	OperatorBetween:     {},
}

// IsStandard checks if an operator is one of the built-in condition operators.
func (o Operator) IsStandard() bool {
	_, ok := standardOperators[o]
	return ok
}

// Logical maps a connector token to the logical operator it stands for. The
// second result is false for anything that is not a connector.
func (o Operator) Logical() (schema.LogicalOperator, bool) {
	switch o {
	case OperatorAnd:
		return schema.LogicalAnd, true
	case OperatorOr:
		return schema.LogicalOr, true
	case OperatorNewQuery:
		return schema.LogicalNq, true
	}
	return "", false
}

// FragmentKind tags what a Fragment encodes.
type FragmentKind int

const (
	FragmentCondition FragmentKind = iota
	FragmentConnector
	FragmentOrdering
)

func (k FragmentKind) String() string {
	switch k {
	case FragmentCondition:
		return "condition"
	case FragmentConnector:
		return "connector"
	case FragmentOrdering:
		return "ordering"
	}
	return "unknown"
}

// Fragment is one already-encoded segment of a query. Operand is kept in its
// final textual form; the type it had when it was added is gone.
type Fragment struct {
	Kind     FragmentKind
	Field    string
	Operator Operator
	Operand  string
}

// String renders the fragment exactly as it appears in the encoded query.
func (f Fragment) String() string {
	switch f.Kind {
	case FragmentConnector:
		return string(f.Operator)
	case FragmentOrdering:
		return string(f.Operator) + f.Field
	default:
		return f.Field + string(f.Operator) + f.Operand
	}
}
