package model

import (
	"math"
	"strings"
)

// ValidAmount reports whether x is storable as an expense amount: a
// finite, non-negative number.
func ValidAmount(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0
}

// ValidCategory reports whether s names a usable expense category.
func ValidCategory(s string) bool {
	return strings.TrimSpace(s) != ""
}
