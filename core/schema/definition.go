// Package schema holds the small type vocabulary shared by the query encoder,
// the in-memory processor and the saved-query store.
package schema

// LogicalOperator for combining conditions.
type LogicalOperator string

const (
	LogicalAnd LogicalOperator = "and" // All conditions must be true
	LogicalOr  LogicalOperator = "or"  // At least one condition must be true
	LogicalNq  LogicalOperator = "nq"  // Starts a new, independent query segment
)

// FieldType names the kind of a value as it is reported to callers, for
// example in operand type errors.
type FieldType string

const (
	FieldTypeString   FieldType = "string"   // Text data
	FieldTypeNumber   FieldType = "number"   // Any Go integer or float
	FieldTypeBoolean  FieldType = "boolean"  // True/false values
	FieldTypeArray    FieldType = "array"    // Slices and arrays
	FieldTypeDateTime FieldType = "datetime" // time.Time values
	FieldTypeObject   FieldType = "object"   // Maps, structs and anything else
	FieldTypeNull     FieldType = "null"     // nil
)

// Document represents a single record retrieved from a table, keyed by
// field name.
type Document map[string]any
