package query

import (
	"fmt"
	"strings"

	"github.com/asaidimu/go-sysparm/core/schema"
)

// MissingFieldError is returned when a condition is added before any field
// has been selected.
type MissingFieldError struct{}

func (e *MissingFieldError) Error() string {
	return "a field must be selected before adding a condition"
}

// QueryTypeError is returned when an operand, or one element of a list
// operand, does not have a type the operator accepts.
type QueryTypeError struct {
	Expected []schema.FieldType
	Found    schema.FieldType
	msg      string
}

func newTypeError(found schema.FieldType, expected ...schema.FieldType) *QueryTypeError {
	var msg string
	if len(expected) == 1 {
		msg = fmt.Sprintf("expected %s, found %s", expected[0], found)
	} else {
		names := make([]string, len(expected))
		for i, t := range expected {
			names[i] = string(t)
		}
		msg = fmt.Sprintf("expected one of: %s, found %s", strings.Join(names, ", "), found)
	}
	return &QueryTypeError{Expected: expected, Found: found, msg: msg}
}

// newShapeError reports an equals/notEquals operand that is neither a scalar
// nor a list.
func newShapeError(found schema.FieldType) *QueryTypeError {
	return &QueryTypeError{
		Expected: []schema.FieldType{schema.FieldTypeString, schema.FieldTypeNumber, schema.FieldTypeArray},
		Found:    found,
		msg:      fmt.Sprintf("expected string or list, found %s", found),
	}
}

// newRangeError reports between operands of different or unsupported kinds.
func newRangeError(start, end schema.FieldType) *QueryTypeError {
	return &QueryTypeError{
		Expected: []schema.FieldType{schema.FieldTypeString, schema.FieldTypeNumber, schema.FieldTypeDateTime},
		Found:    start,
		msg:      fmt.Sprintf("between operands must be the same kind, found %s and %s", start, end),
	}
}

func (e *QueryTypeError) Error() string {
	return e.msg
}

// EmptyQueryError is returned by Build when nothing has been added.
type EmptyQueryError struct{}

func (e *EmptyQueryError) Error() string {
	return "at least one condition is required"
}
