package checker_test

import (
	"testing"

	"codearena/internal/judge/checker"
)

func TestCompareExact(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		actual   string
		expected string
		cfg      checker.Config
		want     bool
	}{
		{name: "identical", actual: "hello\nworld", expected: "hello\nworld", cfg: checker.Config{Kind: checker.KindExact}, want: true},
		{name: "trailing-newline-differs", actual: "6", expected: "6\n", cfg: checker.Config{Kind: checker.KindExact}, want: false},
		{name: "case-differs", actual: "Hello", expected: "hello", cfg: checker.Config{Kind: checker.KindExact}, want: false},
		{name: "case-folded", actual: "Hello", expected: "hello", cfg: checker.Config{Kind: checker.KindExact, CaseInsensitive: true}, want: true},
		{name: "unknown-kind-falls-back-to-exact", actual: "a", expected: "a", cfg: checker.Config{Kind: "bogus"}, want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := checker.Compare(tt.actual, tt.expected, tt.cfg); got != tt.want {
				t.Fatalf("Compare(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestCompareTrim(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		actual   string
		expected string
		want     bool
	}{
		{name: "trailing-newline-ignored", actual: "6", expected: "6\n", want: true},
		{name: "leading-whitespace-ignored", actual: "  6", expected: "6", want: true},
		{name: "internal-whitespace-kept", actual: "1  2", expected: "1 2", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := checker.Config{Kind: checker.KindTrim}
			if got := checker.Compare(tt.actual, tt.expected, cfg); got != tt.want {
				t.Fatalf("Compare(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestCompareToken(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		actual   string
		expected string
		want     bool
	}{
		{name: "whitespace-runs-collapse", actual: "1  2\n3", expected: "1 2 3", want: true},
		{name: "length-mismatch", actual: "1 2 3", expected: "1 2", want: false},
		{name: "token-mismatch", actual: "1 2 4", expected: "1 2 3", want: false},
		{name: "both-empty", actual: "", expected: "\n", want: true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := checker.Config{Kind: checker.KindToken}
			if got := checker.Compare(tt.actual, tt.expected, cfg); got != tt.want {
				t.Fatalf("Compare(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}

func TestCompareFloatTolerance(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		actual   string
		expected string
		tol      float64
		want     bool
	}{
		{name: "within-default-tolerance", actual: "1.0", expected: "1.0000001", want: true},
		{name: "outside-default-tolerance", actual: "1.0", expected: "1.01", want: false},
		{name: "different-textual-forms", actual: "1e10", expected: "10000000000", want: true},
		{name: "nan-matches-textually", actual: "NaN", expected: "NaN", want: true},
		{name: "nan-vs-number", actual: "NaN", expected: "0", want: false},
		{name: "non-numeric-exact", actual: "abc", expected: "abc", want: true},
		{name: "length-mismatch", actual: "1.0 2.0", expected: "1.0", want: false},
		{name: "custom-tolerance", actual: "1.0", expected: "1.05", tol: 0.1, want: true},
		{name: "infinity-falls-back-to-text", actual: "+Inf", expected: "Inf", want: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := checker.Config{Kind: checker.KindFloatTolerance, FloatTolerance: tt.tol}
			if got := checker.Compare(tt.actual, tt.expected, cfg); got != tt.want {
				t.Fatalf("Compare(%q, %q) = %v, want %v", tt.actual, tt.expected, got, tt.want)
			}
		})
	}
}
