package model

import "codearena/internal/judge/executor"

// Submission is the record sunk into the data store after judging.
type Submission struct {
	ID              string          `json:"id"`
	ProblemID       string          `json:"problem_id"`
	UserID          string          `json:"user_id"`
	Code            string          `json:"code"`
	Language        string          `json:"language"`
	Status          executor.Status `json:"status"`
	RuntimeMs       int64           `json:"runtime_ms"`
	MemoryKb        int64           `json:"memory_kb"`
	TestCasesPassed int             `json:"test_cases_passed"`
	TotalTestCases  int             `json:"total_test_cases"`
	ErrorMessage    string          `json:"error_message,omitempty"`
	SubmittedAt     int64           `json:"submitted_at"`
}
