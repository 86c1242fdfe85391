// Package engine holds the pure computation core: amount normalization,
// FIFO payment allocation, tuition totals and year-end migration planning.
// Nothing in this package performs I/O.
package engine

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// SafeAmount coerces a heterogeneous numeric-like value into a usable
// float64. nil and empty strings become 0; strings are stripped down to
// digits, '.' and '-' before parsing, so currency formatting like "¥900,000"
// survives legacy data. Anything unparseable or non-finite becomes 0.
// It never fails.
func SafeAmount(v interface{}) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case float32:
		return SafeAmount(float64(x))
	case int:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case string:
		cleaned := stripNonNumeric(x)
		if cleaned == "" {
			return 0
		}
		d, err := decimal.NewFromString(cleaned)
		if err != nil {
			return 0
		}
		return d.InexactFloat64()
	default:
		return 0
	}
}

// SafeYen is SafeAmount rounded to the nearest whole yen.
func SafeYen(v interface{}) int64 {
	return int64(math.Round(SafeAmount(v)))
}

// SafeNonNegativeYen is SafeYen floored at zero, for amounts that may not
// be negative.
func SafeNonNegativeYen(v interface{}) int64 {
	if yen := SafeYen(v); yen > 0 {
		return yen
	}
	return 0
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
