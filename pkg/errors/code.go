package errors

// ErrorCode represents a unique error identifier
type ErrorCode int

// Error code ranges allocation:
// 10000-10999: System & Common errors
// 12000-12999: Problem & Language errors
// 13000-13999: Submission & Judge module errors
// 14000-14999: Execution backend errors

const (
	// ========== System & Common Errors (10000-10999) ==========

	// Success
	Success ErrorCode = 10000

	// Generic errors (10000-10099)
	InternalServerError ErrorCode = 10001
	InvalidParams       ErrorCode = 10002
	NotFound            ErrorCode = 10003
	TooManyRequests     ErrorCode = 10004
	ServiceUnavailable  ErrorCode = 10005
	Timeout             ErrorCode = 10006

	// Cache errors (10200-10299)
	CacheError ErrorCode = 10200
	CacheMiss  ErrorCode = 10201

	// Validation errors (10300-10399)
	ValidationFailed   ErrorCode = 10300
	RequiredFieldEmpty ErrorCode = 10301

	// ========== Problem & Language Errors (12000-12999) ==========

	ProblemNotFound       ErrorCode = 12000
	MalformedProblemConfig ErrorCode = 12001
	TestCaseNotFound      ErrorCode = 12002
	LanguageNotSupported  ErrorCode = 12100

	// ========== Submission & Judge Errors (13000-13999) ==========

	SubmissionNotFound  ErrorCode = 13000
	CodeTooLarge        ErrorCode = 13001
	RateLimited         ErrorCode = 13100
	DuplicateSubmission ErrorCode = 13101

	JudgeSystemError    ErrorCode = 13200
	CompileError        ErrorCode = 13201
	RuntimeError        ErrorCode = 13202
	TimeLimitExceeded   ErrorCode = 13203
	MemoryLimitExceeded ErrorCode = 13204
	WrongAnswer         ErrorCode = 13205

	// ========== Execution Backend Errors (14000-14999) ==========

	BackendUnavailable ErrorCode = 14000
	BackendBadResponse ErrorCode = 14001
	SQLJudgeFailed     ErrorCode = 14100
)

// errorMessages maps error codes to their default English messages
var errorMessages = map[ErrorCode]string{
	// System & Common
	Success:             "Success",
	InternalServerError: "Internal server error",
	InvalidParams:       "Invalid parameters",
	NotFound:            "Resource not found",
	TooManyRequests:     "Too many requests, please try again later",
	ServiceUnavailable:  "Service temporarily unavailable",
	Timeout:             "Request timeout",

	// Cache
	CacheError: "Cache operation failed",
	CacheMiss:  "Cache miss",

	// Validation
	ValidationFailed:   "Validation failed",
	RequiredFieldEmpty: "Required field is empty",

	// Problem & Language
	ProblemNotFound:        "Problem not found",
	MalformedProblemConfig: "Problem configuration is malformed",
	TestCaseNotFound:       "Test case not found",
	LanguageNotSupported:   "Programming language not supported",

	// Submission & Judge
	SubmissionNotFound:  "Submission not found",
	CodeTooLarge:        "Code is too large",
	RateLimited:         "Submitting too frequently, please wait",
	DuplicateSubmission: "Identical code was already submitted",
	JudgeSystemError:    "Judge system error",
	CompileError:        "Compilation error",
	RuntimeError:        "Runtime error",
	TimeLimitExceeded:   "Time limit exceeded",
	MemoryLimitExceeded: "Memory limit exceeded",
	WrongAnswer:         "Wrong answer",

	// Execution backend
	BackendUnavailable: "No execution backend available",
	BackendBadResponse: "Execution backend returned an invalid response",
	SQLJudgeFailed:     "SQL evaluation failed",
}

// Message returns the default message for the error code
func (c ErrorCode) Message() string {
	if msg, ok := errorMessages[c]; ok {
		return msg
	}
	return "Unknown error"
}

// HTTPStatus returns the recommended HTTP status code for the error code
func (c ErrorCode) HTTPStatus() int {
	switch {
	case c == Success:
		return 200
	case c == NotFound, c == ProblemNotFound, c == SubmissionNotFound, c == TestCaseNotFound:
		return 404
	case c == TooManyRequests, c == RateLimited:
		return 429
	case c == DuplicateSubmission:
		return 409
	case c == ServiceUnavailable, c == BackendUnavailable:
		return 503
	case c >= 10300 && c < 10400: // Validation errors
		return 400
	case c == InvalidParams, c == CodeTooLarge, c == LanguageNotSupported, c == MalformedProblemConfig:
		return 400
	default:
		return 500
	}
}
