package query

import (
	"reflect"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/asaidimu/go-sysparm/core/schema"
)

// encodeOperand validates v against the allowed types and renders it. A list
// is validated element by element and comma-joined.
func encodeOperand(v any, allowed ...schema.FieldType) (string, error) {
	if schema.TypeOf(v) == schema.FieldTypeArray {
		return encodeList(v, allowed...)
	}
	return encodeScalar(v, allowed...)
}

func encodeList(v any, allowed ...schema.FieldType) (string, error) {
	rv := reflect.ValueOf(v)
	parts := make([]string, rv.Len())
	for i := range parts {
		s, err := encodeScalar(rv.Index(i).Interface(), allowed...)
		if err != nil {
			return "", err
		}
		parts[i] = s
	}
	return strings.Join(parts, ListSeparator), nil
}

func encodeScalar(v any, allowed ...schema.FieldType) (string, error) {
	found := schema.TypeOf(v)
	if !slices.Contains(allowed, found) {
		return "", newTypeError(found, allowed...)
	}
	s, ok := formatScalar(v)
	if !ok {
		return "", newTypeError(found, allowed...)
	}
	return s, nil
}

// formatScalar renders a string or number, including named types of either. Floats use the shortest
// representation that round-trips, without an exponent.
func formatScalar(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case int:
		return strconv.FormatInt(int64(val), 10), true
	case int8:
		return strconv.FormatInt(int64(val), 10), true
	case int16:
		return strconv.FormatInt(int64(val), 10), true
	case int32:
		return strconv.FormatInt(int64(val), 10), true
	case int64:
		return strconv.FormatInt(val, 10), true
	case uint:
		return strconv.FormatUint(uint64(val), 10), true
	case uint8:
		return strconv.FormatUint(uint64(val), 10), true
	case uint16:
		return strconv.FormatUint(uint64(val), 10), true
	case uint32:
		return strconv.FormatUint(uint64(val), 10), true
	case uint64:
		return strconv.FormatUint(val, 10), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case nil:
		return "", false
	}

	// Named types render by their underlying kind.
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), true
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32), true
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), true
	}
	return "", false
}

// dateValue unwraps a date-like operand.
func dateValue(v any) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val != nil {
			return *val, true
		}
	}
	return time.Time{}, false
}

// formatRangeBound renders one side of a between operand.
func formatRangeBound(v any) string {
	if t, ok := dateValue(v); ok {
		return ToUTCQueryFormat(t)
	}
	s, _ := formatScalar(v)
	return s
}
