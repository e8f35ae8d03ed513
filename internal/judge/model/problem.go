// Package model defines the judging domain types.
package model

import (
	"codearena/internal/judge/checker"
	appErr "codearena/pkg/errors"
)

// Kind discriminates how a problem is judged.
type Kind string

const (
	// KindAlgorithm problems run candidate code against stdin/stdout
	// test cases through an execution backend.
	KindAlgorithm Kind = "algorithm"
	// KindSQL problems run the candidate's query against an ephemeral
	// database built from the problem's setup scripts.
	KindSQL Kind = "sql"
)

// TestCase is authored once by a problem creator and immutable at
// judging time.
type TestCase struct {
	ID             string `json:"id"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Hidden         bool   `json:"hidden"`

	// SQL-only fields.
	SQLSetup              string `json:"sql_setup,omitempty"`
	SQLQuery              string `json:"sql_query,omitempty"`
	SQLExpectedFromAuthor bool   `json:"sql_expected_from_author,omitempty"`
}

// Problem carries everything the judge needs: test cases, resource
// constraints and the checker policy applied to every comparison.
type Problem struct {
	ID             string         `json:"id"`
	Title          string         `json:"title"`
	Kind           Kind           `json:"kind"`
	Checker        checker.Config `json:"checker"`
	TimeLimitMs    int            `json:"time_limit_ms"`
	MemoryLimitMb  int            `json:"memory_limit_mb"`
	SQLGlobalSetup string         `json:"sql_global_setup,omitempty"`
	TestCases      []TestCase     `json:"test_cases"`
}

// Validate checks the problem is judgeable.
func (p *Problem) Validate() error {
	if p.ID == "" {
		return appErr.ValidationError("problem.id", "required")
	}
	if p.Kind != KindAlgorithm && p.Kind != KindSQL {
		return appErr.New(appErr.MalformedProblemConfig).
			WithMessagef("unknown problem kind %q", p.Kind)
	}
	if len(p.TestCases) == 0 {
		return appErr.New(appErr.MalformedProblemConfig).
			WithMessage("problem has no test cases")
	}
	if p.Kind == KindSQL {
		for _, tc := range p.TestCases {
			if tc.SQLExpectedFromAuthor && tc.SQLQuery == "" {
				return appErr.New(appErr.MalformedProblemConfig).
					WithMessagef("test case %s requires an author query", tc.ID)
			}
		}
	}
	return nil
}

// FirstVisibleTestCase returns the first non-hidden test case, used by
// the scratch "run" action.
func (p *Problem) FirstVisibleTestCase() (TestCase, bool) {
	for _, tc := range p.TestCases {
		if !tc.Hidden {
			return tc, true
		}
	}
	return TestCase{}, false
}
