// Package executor abstracts remote code-execution backends behind a
// common strategy interface and normalizes their responses into one
// canonical result shape.
package executor

import "context"

// Status is the canonical execution status taxonomy.
type Status string

const (
	StatusAccepted     Status = "accepted"
	StatusWrongAnswer  Status = "wrong_answer"
	StatusTimeLimit    Status = "time_limit"
	StatusMemoryLimit  Status = "memory_limit"
	StatusRuntimeError Status = "runtime_error"
	StatusCompileError Status = "compile_error"
	StatusPending      Status = "pending"
	StatusRunning      Status = "running"
)

// Request is an immutable execution request passed to a backend.
type Request struct {
	SourceCode    string
	Language      Language
	Stdin         string
	TimeLimitMs   int
	MemoryLimitMb int
}

// Result is produced by exactly one backend call. Success implies Output
// is defined (possibly empty) and Error is empty.
type Result struct {
	Success   bool   `json:"success"`
	Output    string `json:"output,omitempty"`
	Error     string `json:"error,omitempty"`
	RuntimeMs int64  `json:"runtime_ms,omitempty"`
	MemoryKb  int64  `json:"memory_kb,omitempty"`
	Status    Status `json:"status"`
}

// Strategy is a remote execution backend. Execute never propagates
// transport errors: network and parse failures are downgraded to a
// runtime_error Result with a human-readable message.
type Strategy interface {
	Name() string
	Available(ctx context.Context) bool
	Execute(ctx context.Context, req Request) Result
}

// failureResult builds a non-success Result with the given status.
func failureResult(status Status, msg string) Result {
	return Result{Success: false, Status: status, Error: msg}
}
