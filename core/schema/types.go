package schema

import (
	"reflect"
	"time"
)

// TypeOf classifies a Go value into a FieldType. Named types are classified
// by their underlying kind, so `type State string` is a string.
//
// Byte slices are reported as objects rather than arrays: they are almost
// always raw payloads and never a list of operands.
func TypeOf(value any) FieldType {
	switch v := value.(type) {
	case nil:
		return FieldTypeNull
	case time.Time:
		return FieldTypeDateTime
	case *time.Time:
		if v == nil {
			return FieldTypeNull
		}
		return FieldTypeDateTime
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.String:
		return FieldTypeString
	case reflect.Bool:
		return FieldTypeBoolean
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return FieldTypeObject
		}
		return FieldTypeArray
	case reflect.Array:
		return FieldTypeArray
	}
	if IsNumeric(value) {
		return FieldTypeNumber
	}
	return FieldTypeObject
}

// IsNumeric checks if a value is a numeric type, including named types whose
// underlying kind is an integer or float.
func IsNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case nil:
		return false
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// IsArray checks if a value is an array or slice.
func IsArray(value any) bool {
	if value == nil {
		return false
	}
	rv := reflect.ValueOf(value)
	return rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array
}
