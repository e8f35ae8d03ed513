// Package checker implements output comparison policies for judging.
package checker

import (
	"math"
	"strconv"
	"strings"
)

// Kind selects the comparison mode applied to every test case of a problem.
type Kind string

const (
	KindExact          Kind = "exact"
	KindTrim           Kind = "trim"
	KindToken          Kind = "token"
	KindFloatTolerance Kind = "float_tolerance"
)

// DefaultFloatTolerance is used when a float_tolerance config leaves the
// tolerance unset.
const DefaultFloatTolerance = 1e-6

// Config governs how actual output is compared against expected output.
type Config struct {
	Kind            Kind    `json:"kind" yaml:"kind"`
	CaseInsensitive bool    `json:"case_insensitive" yaml:"caseInsensitive"`
	FloatTolerance  float64 `json:"float_tolerance,omitempty" yaml:"floatTolerance"`
}

// Compare reports whether actual matches expected under the given config.
// It is deterministic and total: malformed numeric tokens fall back to
// string comparison, unknown kinds fall back to exact.
func Compare(actual, expected string, cfg Config) bool {
	if cfg.CaseInsensitive {
		actual = strings.ToLower(actual)
		expected = strings.ToLower(expected)
	}

	switch cfg.Kind {
	case KindTrim:
		return strings.TrimSpace(actual) == strings.TrimSpace(expected)
	case KindToken:
		return compareTokens(actual, expected, func(a, b string) bool {
			return a == b
		})
	case KindFloatTolerance:
		tol := cfg.FloatTolerance
		if tol <= 0 {
			tol = DefaultFloatTolerance
		}
		return compareTokens(actual, expected, func(a, b string) bool {
			return floatTokenEqual(a, b, tol)
		})
	default:
		return actual == expected
	}
}

// compareTokens splits both strings on runs of whitespace and compares
// token sequences positionally. Length mismatch is an immediate failure.
func compareTokens(actual, expected string, eq func(a, b string) bool) bool {
	actualTokens := strings.Fields(actual)
	expectedTokens := strings.Fields(expected)
	if len(actualTokens) != len(expectedTokens) {
		return false
	}
	for i := range actualTokens {
		if !eq(actualTokens[i], expectedTokens[i]) {
			return false
		}
	}
	return true
}

// floatTokenEqual compares a token pair numerically when both parse as
// finite numbers, otherwise requires exact string equality. Two numeric
// tokens with different textual forms (e.g. "1e10" vs "10000000000")
// therefore compare equal, while "NaN" pairs only match textually.
func floatTokenEqual(a, b string, tol float64) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil && isFinite(fa) && isFinite(fb) {
		return math.Abs(fa-fb) <= tol
	}
	return a == b
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
