// Package coltype catalogs column type descriptors. Each descriptor knows
// how to normalize a raw value into its stored form, format a stored value
// the way the database renders it, prepare a stored value for parameter
// binding, and compare two values for type-aware equality.
package coltype

import (
	"fmt"
	"reflect"
	"strconv"
)

// Attrs parametrizes a type descriptor at construction time.
type Attrs struct {
	// Size is the declared display size, e.g. the 11 in int(11).
	Size int

	// Precision is the declared decimal precision, e.g. the 2 in decimal(10,2).
	Precision int

	// Unsigned indicates the column rejects negative values.
	Unsigned bool

	// Nullable indicates the column accepts NULL.
	Nullable bool

	// Options lists the valid values for enum columns.
	Options []string
}

// Type describes one logical column type.
//
// Normalize is tolerant: database-native string encodings of numbers and
// temporal values coerce to the canonical stored form, and values that
// cannot be interpreted pass through unchanged rather than failing. nil
// always normalizes to nil.
type Type interface {
	// Name returns the canonical type name, e.g. "INT" or "DATETIME".
	Name() string

	// Normalize coerces raw input into the canonical stored form.
	Normalize(raw any) any

	// Format renders a stored value the way the database would render it.
	Format(v any) any

	// Prepare converts a stored value into the form bound as a statement
	// parameter.
	Prepare(v any) any

	// Compare reports type-aware equality of two stored values.
	Compare(a, b any) bool
}

// toInt64 coerces numeric and string encodings to int64.
func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int8:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint8:
		return int64(n), true
	case uint16:
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		return int64(n), true
	case float32:
		return int64(n), true
	case float64:
		return int64(n), true
	case []byte:
		return toInt64(string(n))
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(f), true
		}
	}
	return 0, false
}

// toFloat64 coerces numeric and string encodings to float64.
func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case []byte:
		return toFloat64(string(n))
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// toString coerces scalar values to their string encoding.
func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case bool:
		if s {
			return "1", true
		}
		return "0", true
	}
	return "", false
}

// identityEqual is the fallback comparison when no richer rule applies.
func identityEqual(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
