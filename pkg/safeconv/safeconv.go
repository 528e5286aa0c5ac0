// Package safeconv provides overflow-safe integer conversions.
package safeconv

import "math"

// Integer is the set of signed integer types accepted by ToInt32.
type Integer interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// ToInt32 converts v to int32, saturating at the int32 bounds.
func ToInt32[T Integer](v T) int32 {
	switch {
	case int64(v) > math.MaxInt32:
		return math.MaxInt32
	case int64(v) < math.MinInt32:
		return math.MinInt32
	default:
		return int32(v)
	}
}

// TotalPages returns the number of pages needed for total items, 0 when
// pageSize is not positive.
func TotalPages(total int64, pageSize int) int32 {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return ToInt32((total + int64(pageSize) - 1) / int64(pageSize))
}
