// Package query provides a fluent API for building encoded query strings, the
// caret-delimited filter syntax accepted by table APIs as a single query
// parameter. The builder validates operand types as conditions are added and
// renders the final string in Build.
package query

import (
	"strings"

	"github.com/asaidimu/go-sysparm/core/schema"
	"go.uber.org/zap"
)

// QueryBuilder accumulates query fragments in call order. A field selected
// with Field applies to every following condition and ordering until another
// field is selected.
//
// A QueryBuilder is owned by one caller and is not safe for concurrent use.
type QueryBuilder struct {
	fragments []Fragment
	field     string
	err       error
	logger    *zap.Logger
}

// Option configures a QueryBuilder.
type Option func(*QueryBuilder)

// WithLogger sets the logger used to trace rejected conditions at debug level.
func WithLogger(logger *zap.Logger) Option {
	return func(qb *QueryBuilder) {
		if logger != nil {
			qb.logger = logger
		}
	}
}

// NewQueryBuilder creates a new, empty query builder instance.
func NewQueryBuilder(opts ...Option) *QueryBuilder {
	qb := &QueryBuilder{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(qb)
	}
	return qb
}

// Build concatenates the accumulated fragments into the encoded query. It
// returns the first error recorded by a rejected call, or an
// *EmptyQueryError when nothing has been added. Build does not modify the
// builder.
func (qb *QueryBuilder) Build() (string, error) {
	if qb.err != nil {
		return "", qb.err
	}
	if len(qb.fragments) == 0 {
		return "", &EmptyQueryError{}
	}
	return qb.render(), nil
}

func (qb *QueryBuilder) render() string {
	var sb strings.Builder
	for _, f := range qb.fragments {
		sb.WriteString(f.String())
	}
	return sb.String()
}

// Err returns the first error recorded by a rejected call, if any.
func (qb *QueryBuilder) Err() error {
	return qb.err
}

// Fragments returns a copy of the accumulated fragments in output order.
func (qb *QueryBuilder) Fragments() []Fragment {
	out := make([]Fragment, len(qb.fragments))
	copy(out, qb.fragments)
	return out
}

// Clone creates an independent copy of the builder, including its selected
// field and any recorded error.
func (qb *QueryBuilder) Clone() *QueryBuilder {
	return &QueryBuilder{
		fragments: qb.Fragments(),
		field:     qb.field,
		err:       qb.err,
		logger:    qb.logger,
	}
}

// Reset clears all fragments, the selected field and any recorded error.
func (qb *QueryBuilder) Reset() *QueryBuilder {
	qb.fragments = nil
	qb.field = ""
	qb.err = nil
	return qb
}

// String returns the encoded query as accumulated so far, ignoring any
// recorded error.
func (qb *QueryBuilder) String() string {
	if len(qb.fragments) == 0 {
		return "EMPTY QUERY"
	}
	return qb.render()
}

// Field selects the field that following conditions and orderings apply to.
// The name is not validated.
func (qb *QueryBuilder) Field(name string) *QueryBuilder {
	qb.field = name
	return qb
}

// OrderAscending sorts by the selected field in ascending order.
func (qb *QueryBuilder) OrderAscending() *QueryBuilder {
	return qb.appendOrdering(OperatorOrderBy)
}

// OrderDescending sorts by the selected field in descending order.
func (qb *QueryBuilder) OrderDescending() *QueryBuilder {
	return qb.appendOrdering(OperatorOrderByDesc)
}

// And joins the next condition with a logical AND.
func (qb *QueryBuilder) And() *QueryBuilder {
	return qb.appendConnector(OperatorAnd)
}

// Or joins the next condition with a logical OR.
func (qb *QueryBuilder) Or() *QueryBuilder {
	return qb.appendConnector(OperatorOr)
}

// NotQueried starts a new, independent query whose results are added to
// those of the query before it.
func (qb *QueryBuilder) NotQueried() *QueryBuilder {
	return qb.appendConnector(OperatorNewQuery)
}

// StartsWith matches values beginning with v.
func (qb *QueryBuilder) StartsWith(v any) *QueryBuilder {
	return qb.addCondition(OperatorStartsWith, v, schema.FieldTypeString)
}

// EndsWith matches values ending with v.
func (qb *QueryBuilder) EndsWith(v any) *QueryBuilder {
	return qb.addCondition(OperatorEndsWith, v, schema.FieldTypeString)
}

// Contains matches values containing v.
func (qb *QueryBuilder) Contains(v any) *QueryBuilder {
	return qb.addCondition(OperatorLike, v, schema.FieldTypeString)
}

// DoesNotContain matches values not containing v.
func (qb *QueryBuilder) DoesNotContain(v any) *QueryBuilder {
	return qb.addCondition(OperatorNotLike, v, schema.FieldTypeString)
}

// IsEmpty matches empty values.
func (qb *QueryBuilder) IsEmpty() *QueryBuilder {
	return qb.addCondition(OperatorIsEmpty, "", schema.FieldTypeString)
}

// IsNotEmpty matches non-empty values.
func (qb *QueryBuilder) IsNotEmpty() *QueryBuilder {
	return qb.addCondition(OperatorIsNotEmpty, "", schema.FieldTypeString)
}

// IsEmptyString matches values that are exactly the empty string.
func (qb *QueryBuilder) IsEmptyString() *QueryBuilder {
	return qb.addCondition(OperatorEmptyString, "", schema.FieldTypeString)
}

// IsAnything matches every value.
func (qb *QueryBuilder) IsAnything() *QueryBuilder {
	return qb.addCondition(OperatorAnything, "", schema.FieldTypeString)
}

// Equals adds "=" for a string or number, or "IN" for a list of strings and
// numbers.
func (qb *QueryBuilder) Equals(v any) *QueryBuilder {
	return qb.matchOne(OperatorEq, OperatorIn, v)
}

// NotEquals adds "!=" for a string or number, or "NOT IN" for a list of
// strings and numbers.
func (qb *QueryBuilder) NotEquals(v any) *QueryBuilder {
	return qb.matchOne(OperatorNeq, OperatorNotIn, v)
}

// IsOneOf matches values contained in the list v.
func (qb *QueryBuilder) IsOneOf(v any) *QueryBuilder {
	if found := schema.TypeOf(v); found != schema.FieldTypeArray {
		return qb.reject(OperatorIn, newTypeError(found, schema.FieldTypeArray))
	}
	return qb.addCondition(OperatorIn, v, schema.FieldTypeString, schema.FieldTypeNumber)
}

// GreaterThan matches values greater than v, a string, number or date.
func (qb *QueryBuilder) GreaterThan(v any) *QueryBuilder {
	return qb.compare(OperatorGt, v)
}

// GreaterThanOrIs matches values greater than or equal to v.
func (qb *QueryBuilder) GreaterThanOrIs(v any) *QueryBuilder {
	return qb.compare(OperatorGte, v)
}

// LessThan matches values less than v.
func (qb *QueryBuilder) LessThan(v any) *QueryBuilder {
	return qb.compare(OperatorLt, v)
}

// LessThanOrIs matches values less than or equal to v.
func (qb *QueryBuilder) LessThanOrIs(v any) *QueryBuilder {
	return qb.compare(OperatorLte, v)
}

// Between matches values in the inclusive range [start, end]. Both bounds must
// be numbers, strings or dates, and of the same kind.
func (qb *QueryBuilder) Between(start, end any) *QueryBuilder {
	ks, ke := schema.TypeOf(start), schema.TypeOf(end)
	if ks != ke || !isRangeKind(ks) {
		return qb.reject(OperatorBetween, newRangeError(ks, ke))
	}
	operand := formatRangeBound(start) + RangeSeparator + formatRangeBound(end)
	return qb.addCondition(OperatorBetween, operand, schema.FieldTypeString)
}

// Custom adds a condition with an operator token the named methods do not
// cover. The operand must be a string, a number or a list of those.
func (qb *QueryBuilder) Custom(operator Operator, v any) *QueryBuilder {
	return qb.addCondition(operator, v, schema.FieldTypeString, schema.FieldTypeNumber)
}

func isRangeKind(t schema.FieldType) bool {
	return t == schema.FieldTypeString || t == schema.FieldTypeNumber || t == schema.FieldTypeDateTime
}

// matchOne dispatches on the operand shape: scalars use the scalar operator,
// lists the list operator.
func (qb *QueryBuilder) matchOne(scalar, list Operator, v any) *QueryBuilder {
	switch found := schema.TypeOf(v); found {
	case schema.FieldTypeString, schema.FieldTypeNumber:
		return qb.addCondition(scalar, v, schema.FieldTypeString, schema.FieldTypeNumber)
	case schema.FieldTypeArray:
		return qb.addCondition(list, v, schema.FieldTypeString, schema.FieldTypeNumber)
	default:
		return qb.reject(scalar, newShapeError(found))
	}
}

// compare handles the ordering comparisons. Dates are normalized to UTC
// before they are encoded.
func (qb *QueryBuilder) compare(operator Operator, v any) *QueryBuilder {
	if t, ok := dateValue(v); ok {
		return qb.addCondition(operator, ToUTCQueryFormat(t), schema.FieldTypeString)
	}
	if found := schema.TypeOf(v); found == schema.FieldTypeArray {
		return qb.reject(operator, newTypeError(found, schema.FieldTypeString, schema.FieldTypeNumber))
	}
	return qb.addCondition(operator, v, schema.FieldTypeString, schema.FieldTypeNumber)
}

// addCondition is the single path through which condition fragments are
// appended. A rejected call leaves the fragments untouched.
func (qb *QueryBuilder) addCondition(operator Operator, v any, allowed ...schema.FieldType) *QueryBuilder {
	if qb.field == "" {
		return qb.fail(operator, &MissingFieldError{})
	}
	operand, err := encodeOperand(v, allowed...)
	if err != nil {
		return qb.fail(operator, err)
	}
	qb.fragments = append(qb.fragments, Fragment{
		Kind:     FragmentCondition,
		Field:    qb.field,
		Operator: operator,
		Operand:  operand,
	})
	return qb
}

// reject records an operand shape error, unless no field is selected, which
// takes precedence.
func (qb *QueryBuilder) reject(operator Operator, err error) *QueryBuilder {
	if qb.field == "" {
		err = &MissingFieldError{}
	}
	return qb.fail(operator, err)
}

func (qb *QueryBuilder) fail(operator Operator, err error) *QueryBuilder {
	qb.logger.Debug("Rejected condition",
		zap.String("field", qb.field),
		zap.String("operator", string(operator)),
		zap.Error(err),
	)
	if qb.err == nil {
		qb.err = err
	}
	return qb
}

func (qb *QueryBuilder) appendOrdering(operator Operator) *QueryBuilder {
	qb.fragments = append(qb.fragments, Fragment{
		Kind:     FragmentOrdering,
		Field:    qb.field,
		Operator: operator,
	})
	return qb
}

func (qb *QueryBuilder) appendConnector(operator Operator) *QueryBuilder {
	qb.fragments = append(qb.fragments, Fragment{
		Kind:     FragmentConnector,
		Operator: operator,
	})
	return qb
}
