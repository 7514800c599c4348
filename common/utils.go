package common

import (
	"fmt"
	"strings"
)

// Coalesce returns the first non-zero value, or the zero value if every value is zero.
// Used to fill configuration defaults.
//
// Parameters:
//   - values: candidate values in priority order
//
// Returns:
//   - T: the first non-zero value
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// ParseNamed returns the value whose String form matches name, ignoring case.
//
// Parameters:
//   - name: the name to look up
//   - values: the candidates
//
// Returns:
//   - T: the matching value, zero if none matched
//   - bool: true if a value matched
func ParseNamed[T fmt.Stringer](name string, values ...T) (T, bool) {
	for _, v := range values {
		if strings.EqualFold(v.String(), name) {
			return v, true
		}
	}
	var zero T
	return zero, false
}
