package model

import "codearena/internal/judge/executor"

// CaseResult records the outcome of one judged test case. Diff is empty
// for hidden cases so their content never leaks.
type CaseResult struct {
	Index  int    `json:"index"`
	Passed bool   `json:"passed"`
	Hidden bool   `json:"hidden"`
	Diff   string `json:"diff,omitempty"`
}

// Verdict aggregates a judging pass. The loop stops at the first failing
// case, so PerCase may cover fewer cases than TotalCount.
type Verdict struct {
	SubmissionID string          `json:"submission_id"`
	Status       executor.Status `json:"status"`
	PassedCount  int             `json:"passed_count"`
	TotalCount   int             `json:"total_count"`
	PerCase      []CaseResult    `json:"per_case"`
	Transcript   []string        `json:"transcript"`
	RuntimeMs    int64           `json:"runtime_ms"`
	MemoryKb     int64           `json:"memory_kb"`
	ErrorMessage string          `json:"error_message,omitempty"`
}

// Passed reports whether every test case passed.
func (v *Verdict) Passed() bool {
	return v.Status == executor.StatusAccepted
}
