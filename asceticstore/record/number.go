package record

import (
	"cmp"
	"encoding/json"
	"math"
	"strconv"
)

const (
	twoTo53 = 1 << 53
	twoTo63 = 1 << 63
	twoTo64 = 1 << 64
)

// canonicalNumber folds a Go number to one representation per value:
// int64 for integers that fit, uint64 for larger non-negative integers,
// float64 for everything else. A float holding an integer in int64 or
// uint64 range becomes that integer, so 30 and 30.0 share a form.
func canonicalNumber(v any) (any, bool) {
	switch x := v.(type) {
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case int64:
		return x, true
	case uint:
		return canonicalUint(uint64(x)), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case uint64:
		return canonicalUint(x), true
	case float32:
		return canonicalFloat(float64(x)), true
	case float64:
		return canonicalFloat(x), true
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i, true
		}
		if u, err := strconv.ParseUint(string(x), 10, 64); err == nil {
			return canonicalUint(u), true
		}
		if f, err := x.Float64(); err == nil {
			return canonicalFloat(f), true
		}
	}
	return nil, false
}

func canonicalUint(u uint64) any {
	if u <= math.MaxInt64 {
		return int64(u)
	}
	return u
}

func canonicalFloat(f float64) any {
	if f != math.Trunc(f) || math.IsInf(f, 0) {
		return f
	}
	switch {
	case f >= -twoTo63 && f < twoTo63:
		return int64(f)
	case f >= twoTo63 && f < twoTo64:
		return uint64(f)
	}
	return f
}

// IsNumber reports whether v is a Go number.
func IsNumber(v any) bool {
	_, ok := canonicalNumber(v)
	return ok
}

// CompareNumbers orders two numbers exactly, without rounding integers
// through float64. It reports false when either side is not a number or
// is NaN.
func CompareNumbers(a, b any) (int, bool) {
	x, ok := canonicalNumber(a)
	if !ok {
		return 0, false
	}
	y, ok := canonicalNumber(b)
	if !ok {
		return 0, false
	}
	switch l := x.(type) {
	case int64:
		switch r := y.(type) {
		case int64:
			return cmp.Compare(l, r), true
		case uint64:
			return -1, true
		case float64:
			return compareWithFloat(float64(l), r)
		}
	case uint64:
		switch r := y.(type) {
		case int64:
			return 1, true
		case uint64:
			return cmp.Compare(l, r), true
		case float64:
			return compareWithFloat(float64(l), r)
		}
	case float64:
		if math.IsNaN(l) {
			return 0, false
		}
		switch r := y.(type) {
		case int64:
			c, ok := compareWithFloat(float64(r), l)
			return -c, ok
		case uint64:
			c, ok := compareWithFloat(float64(r), l)
			return -c, ok
		case float64:
			if math.IsNaN(r) {
				return 0, false
			}
			return cmp.Compare(l, r), true
		}
	}
	return 0, false
}

// compareWithFloat compares an integer i, converted to float64, with a
// canonical float f. A canonical float is NaN, infinite, outside the
// integer ranges, or has a fraction; in the last case |f| < 2^53 and the
// conversion of i cannot change the order.
func compareWithFloat(i, f float64) (int, bool) {
	if math.IsNaN(f) {
		return 0, false
	}
	if math.Abs(f) >= twoTo53 {
		if f > 0 {
			return -1, true
		}
		return 1, true
	}
	return cmp.Compare(i, f), true
}

func formatNumber(v any) string {
	switch x := v.(type) {
	case int64:
		return strconv.FormatInt(x, 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float64:
		return formatFloat(x)
	}
	return ""
}

// formatFloat writes f the way JavaScript's Number#toString does: plain
// decimals for 1e-7 <= |f| < 1e21, exponent form otherwise.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}
	if abs := math.Abs(f); abs >= 1e-7 && abs < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	s := strconv.FormatFloat(f, 'e', -1, 64)
	for i := 0; i < len(s); i++ {
		if s[i] != 'e' {
			continue
		}
		mantissa, sign, digits := s[:i], s[i+1], s[i+2:]
		for len(digits) > 1 && digits[0] == '0' {
			digits = digits[1:]
		}
		return mantissa + "e" + string(sign) + digits
	}
	return s
}
