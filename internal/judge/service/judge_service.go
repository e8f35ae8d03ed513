// Package service drives the per-test-case judging loop and aggregates
// verdicts.
package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"codearena/internal/judge/checker"
	"codearena/internal/judge/executor"
	"codearena/internal/judge/model"
	"codearena/internal/judge/ratelimit"
	"codearena/internal/judge/sqljudge"
	appErr "codearena/pkg/errors"
	"codearena/pkg/utils/logger"
)

const (
	defaultTimeLimitMs   = 2000
	defaultMemoryLimitMb = 128
)

// RecordStore persists judging outcomes. It is best-effort from the
// judge's point of view: persistence failures never fail a verdict.
type RecordStore interface {
	SaveVerdict(ctx context.Context, verdict model.Verdict) error
	SaveSubmission(ctx context.Context, submission model.Submission) error
}

// Judge orchestrates the submission pipeline: rate limiting, execution,
// checking and verdict aggregation. Test cases run strictly in order,
// never in parallel, so early-abort behavior and transcripts stay
// deterministic.
type Judge struct {
	registry  *executor.Registry
	catalog   *executor.Catalog
	sqlRunner *sqljudge.Runner
	records   RecordStore
	limitOpts ratelimit.Options
	now       func() time.Time

	mu       sync.Mutex
	limiters map[string]*ratelimit.Limiter
}

// Config holds judge dependencies and settings.
type Config struct {
	Registry  *executor.Registry
	Catalog   *executor.Catalog
	SQLRunner *sqljudge.Runner
	Records   RecordStore
	Limiter   ratelimit.Options
}

// NewJudge creates a judge service.
func NewJudge(cfg Config) (*Judge, error) {
	if cfg.Registry == nil {
		return nil, appErr.New(appErr.InternalServerError).
			WithMessage("execution registry is required")
	}
	catalog := cfg.Catalog
	if catalog == nil {
		catalog = executor.NewCatalog(nil)
	}
	sqlRunner := cfg.SQLRunner
	if sqlRunner == nil {
		sqlRunner = sqljudge.NewRunner()
	}
	return &Judge{
		registry:  cfg.Registry,
		catalog:   catalog,
		sqlRunner: sqlRunner,
		records:   cfg.Records,
		limitOpts: cfg.Limiter,
		now:       time.Now,
		limiters:  make(map[string]*ratelimit.Limiter),
	}, nil
}

// SubmitInput carries one submission attempt.
type SubmitInput struct {
	UserID     string
	Problem    model.Problem
	Code       string
	LanguageID string
}

// RunInput carries one scratch run against the first visible test case.
type RunInput struct {
	Problem    model.Problem
	Code       string
	LanguageID string
}

// Submit judges code against every test case of the problem. The rate
// limiter gates entry and the attempt is recorded win or lose.
// Rate-limit denials come back as errors, never as verdicts.
func (j *Judge) Submit(ctx context.Context, in SubmitInput) (*model.Verdict, error) {
	if err := in.Problem.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Code) == "" {
		return nil, appErr.ValidationError("code", "required")
	}

	lang, err := j.resolveLanguage(in.Problem, in.LanguageID)
	if err != nil {
		return nil, err
	}
	// A dead backend must not consume submission attempts.
	if in.Problem.Kind != model.KindSQL && j.registry.Bind(ctx) == nil {
		return nil, appErr.New(appErr.BackendUnavailable)
	}

	limiter := j.limiterFor(in.UserID)
	decision := limiter.Check(in.Code)
	if !decision.Allowed {
		if decision.Reason == ratelimit.ReasonDuplicate {
			return nil, appErr.New(appErr.DuplicateSubmission).WithMessage(decision.Message)
		}
		return nil, appErr.New(appErr.RateLimited).
			WithMessage(decision.Message).
			WithDetail("wait_seconds", decision.WaitSeconds)
	}
	limiter.Record(in.Code)

	verdict := j.judgeAll(ctx, in.Problem, in.Code, lang)
	verdict.SubmissionID = uuid.NewString()

	j.persist(ctx, in, verdict)
	return verdict, nil
}

// Run executes only the first non-hidden test case and surfaces raw
// output. It applies no checker and does not touch the rate limiter.
func (j *Judge) Run(ctx context.Context, in RunInput) (*executor.Result, error) {
	if err := in.Problem.Validate(); err != nil {
		return nil, err
	}
	tc, ok := in.Problem.FirstVisibleTestCase()
	if !ok {
		return nil, appErr.New(appErr.TestCaseNotFound).
			WithMessage("problem has no visible test case to run against")
	}

	if in.Problem.Kind == model.KindSQL {
		out, err := j.sqlRunner.Run(ctx, sqljudge.Spec{
			GlobalSetup: in.Problem.SQLGlobalSetup,
			TestSetup:   tc.SQLSetup,
			Query:       in.Code,
		})
		if err != nil {
			return &executor.Result{Status: executor.StatusRuntimeError, Error: err.Error()}, nil
		}
		return &executor.Result{Success: true, Status: executor.StatusAccepted, Output: out}, nil
	}

	lang, err := j.resolveLanguage(in.Problem, in.LanguageID)
	if err != nil {
		return nil, err
	}
	if j.registry.Bind(ctx) == nil {
		return nil, appErr.New(appErr.BackendUnavailable)
	}
	res := j.registry.Execute(ctx, executor.Request{
		SourceCode:    in.Code,
		Language:      lang,
		Stdin:         tc.Input,
		TimeLimitMs:   timeLimit(in.Problem),
		MemoryLimitMb: memoryLimit(in.Problem),
	})
	return &res, nil
}

// Languages returns the supported language descriptors, scaffolds
// included, for editor bootstrapping.
func (j *Judge) Languages() []executor.Language {
	return j.catalog.All()
}

// judgeAll runs the sequential per-test-case loop. It stops at the first
// execution failure or checker mismatch.
func (j *Judge) judgeAll(ctx context.Context, problem model.Problem, code string, lang executor.Language) *model.Verdict {
	verdict := &model.Verdict{
		Status:     executor.StatusAccepted,
		TotalCount: len(problem.TestCases),
	}

	for i, tc := range problem.TestCases {
		actual, execRes, err := j.executeCase(ctx, problem, code, lang, tc)
		if err != nil {
			// Setup or engine failure, terminal for this judging pass.
			verdict.Status = executor.StatusRuntimeError
			verdict.ErrorMessage = err.Error()
			verdict.PerCase = append(verdict.PerCase, model.CaseResult{Index: i, Hidden: tc.Hidden})
			verdict.Transcript = append(verdict.Transcript,
				fmt.Sprintf("Test case %d: %s", i+1, err.Error()))
			break
		}
		if execRes != nil {
			verdict.RuntimeMs = max64(verdict.RuntimeMs, execRes.RuntimeMs)
			verdict.MemoryKb = max64(verdict.MemoryKb, execRes.MemoryKb)
			if !execRes.Success {
				verdict.Status = execRes.Status
				verdict.ErrorMessage = execRes.Error
				verdict.PerCase = append(verdict.PerCase, model.CaseResult{Index: i, Hidden: tc.Hidden})
				verdict.Transcript = append(verdict.Transcript,
					fmt.Sprintf("Test case %d: %s", i+1, statusLine(execRes.Status, execRes.Error)))
				break
			}
		}

		expected, err := j.expectedOutput(ctx, problem, tc)
		if err != nil {
			verdict.Status = executor.StatusRuntimeError
			verdict.ErrorMessage = err.Error()
			verdict.PerCase = append(verdict.PerCase, model.CaseResult{Index: i, Hidden: tc.Hidden})
			verdict.Transcript = append(verdict.Transcript,
				fmt.Sprintf("Test case %d: %s", i+1, err.Error()))
			break
		}

		if checker.Compare(actual, expected, problem.Checker) {
			verdict.PassedCount++
			verdict.PerCase = append(verdict.PerCase, model.CaseResult{Index: i, Passed: true, Hidden: tc.Hidden})
			verdict.Transcript = append(verdict.Transcript, fmt.Sprintf("Test case %d passed", i+1))
			continue
		}

		verdict.Status = executor.StatusWrongAnswer
		caseResult := model.CaseResult{Index: i, Hidden: tc.Hidden}
		if tc.Hidden {
			// Never leak hidden inputs or outputs in the transcript.
			verdict.Transcript = append(verdict.Transcript, "Hidden test case failed")
		} else {
			caseResult.Diff = fmt.Sprintf("expected:\n%s\nactual:\n%s", expected, actual)
			verdict.Transcript = append(verdict.Transcript,
				fmt.Sprintf("Test case %d failed\nExpected: %s\nActual: %s", i+1, expected, actual))
		}
		verdict.PerCase = append(verdict.PerCase, caseResult)
		break
	}

	if verdict.PassedCount == verdict.TotalCount {
		verdict.Status = executor.StatusAccepted
		verdict.Transcript = append(verdict.Transcript,
			fmt.Sprintf("All %d test cases passed, well done!", verdict.TotalCount))
	} else {
		verdict.Transcript = append(verdict.Transcript,
			fmt.Sprintf("%d/%d test cases passed", verdict.PassedCount, verdict.TotalCount))
	}
	return verdict
}

// executeCase obtains the candidate's actual output for one test case.
// For SQL problems the candidate code is the query under test.
func (j *Judge) executeCase(ctx context.Context, problem model.Problem, code string, lang executor.Language, tc model.TestCase) (string, *executor.Result, error) {
	if problem.Kind == model.KindSQL {
		out, err := j.sqlRunner.Run(ctx, sqljudge.Spec{
			GlobalSetup: problem.SQLGlobalSetup,
			TestSetup:   tc.SQLSetup,
			Query:       code,
		})
		if err != nil {
			return "", nil, err
		}
		return out, nil, nil
	}

	res := j.registry.Execute(ctx, executor.Request{
		SourceCode:    code,
		Language:      lang,
		Stdin:         tc.Input,
		TimeLimitMs:   timeLimit(problem),
		MemoryLimitMb: memoryLimit(problem),
	})
	return res.Output, &res, nil
}

// expectedOutput returns the declared expected output, or derives it by
// running the author's query on a fresh database instance so the
// candidate run can neither observe nor mutate the reference execution.
func (j *Judge) expectedOutput(ctx context.Context, problem model.Problem, tc model.TestCase) (string, error) {
	if problem.Kind == model.KindSQL && tc.SQLExpectedFromAuthor {
		return j.sqlRunner.Run(ctx, sqljudge.Spec{
			GlobalSetup: problem.SQLGlobalSetup,
			TestSetup:   tc.SQLSetup,
			Query:       tc.SQLQuery,
		})
	}
	return tc.ExpectedOutput, nil
}

func (j *Judge) resolveLanguage(problem model.Problem, languageID string) (executor.Language, error) {
	if problem.Kind == model.KindSQL {
		return executor.Language{}, nil
	}
	lang, ok := j.catalog.Lookup(languageID)
	if !ok {
		return executor.Language{}, appErr.New(appErr.LanguageNotSupported).
			WithMessagef("language %q is not supported", languageID)
	}
	return lang, nil
}

// persist saves the verdict and submission record, logging failures
// instead of surfacing them: the user already has their verdict.
func (j *Judge) persist(ctx context.Context, in SubmitInput, verdict *model.Verdict) {
	if j.records == nil {
		return
	}
	if err := j.records.SaveVerdict(ctx, *verdict); err != nil {
		logger.Warn(ctx, "save verdict failed",
			zap.String("submission_id", verdict.SubmissionID), zap.Error(err))
	}
	submission := model.Submission{
		ID:              verdict.SubmissionID,
		ProblemID:       in.Problem.ID,
		UserID:          in.UserID,
		Code:            in.Code,
		Language:        in.LanguageID,
		Status:          verdict.Status,
		RuntimeMs:       verdict.RuntimeMs,
		MemoryKb:        verdict.MemoryKb,
		TestCasesPassed: verdict.PassedCount,
		TotalTestCases:  verdict.TotalCount,
		ErrorMessage:    verdict.ErrorMessage,
		SubmittedAt:     j.now().Unix(),
	}
	if err := j.records.SaveSubmission(ctx, submission); err != nil {
		logger.Warn(ctx, "save submission failed",
			zap.String("submission_id", submission.ID), zap.Error(err))
	}
}

// limiterFor returns the per-user limiter, creating it on first use.
func (j *Judge) limiterFor(userID string) *ratelimit.Limiter {
	j.mu.Lock()
	defer j.mu.Unlock()
	limiter, ok := j.limiters[userID]
	if !ok {
		limiter = ratelimit.New(j.limitOpts)
		j.limiters[userID] = limiter
	}
	return limiter
}

func statusLine(status executor.Status, errMsg string) string {
	if errMsg == "" {
		return string(status)
	}
	return fmt.Sprintf("%s: %s", status, errMsg)
}

func timeLimit(p model.Problem) int {
	if p.TimeLimitMs > 0 {
		return p.TimeLimitMs
	}
	return defaultTimeLimitMs
}

func memoryLimit(p model.Problem) int {
	if p.MemoryLimitMb > 0 {
		return p.MemoryLimitMb
	}
	return defaultMemoryLimitMb
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
