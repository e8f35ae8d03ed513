package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codearena/pkg/utils/logger"

	"go.uber.org/zap"
)

const pistonName = "piston"

// PistonConfig holds settings for the free-tier piston backend.
type PistonConfig struct {
	BaseURL string        `yaml:"baseURL"`
	Timeout time.Duration `yaml:"timeout"`
}

// PistonClient executes code through a piston-compatible HTTP API.
// It submits synchronously and translates exit/signal codes into the
// canonical status taxonomy.
type PistonClient struct {
	baseURL string
	client  *http.Client
}

// NewPistonClient creates a piston strategy.
func NewPistonClient(cfg PistonConfig) *PistonClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &PistonClient{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

func (p *PistonClient) Name() string { return pistonName }

// Available probes the runtimes endpoint.
func (p *PistonClient) Available(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/runtimes", nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

type pistonFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type pistonRequest struct {
	Language           string       `json:"language"`
	Version            string       `json:"version"`
	Files              []pistonFile `json:"files"`
	Stdin              string       `json:"stdin"`
	Args               []string     `json:"args"`
	CompileTimeout     int          `json:"compile_timeout"`
	RunTimeout         int          `json:"run_timeout"`
	CompileMemoryLimit int64        `json:"compile_memory_limit"`
	RunMemoryLimit     int64        `json:"run_memory_limit"`
}

type pistonStage struct {
	Code   *int   `json:"code"`
	Signal string `json:"signal"`
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
}

type pistonResponse struct {
	Compile *pistonStage `json:"compile"`
	Run     pistonStage  `json:"run"`
	Message string       `json:"message"`
}

// Execute submits the request and waits for the synchronous result.
func (p *PistonClient) Execute(ctx context.Context, req Request) Result {
	if req.Language.PistonName == "" {
		return failureResult(StatusRuntimeError,
			fmt.Sprintf("language %q has no piston mapping", req.Language.ID))
	}

	body := pistonRequest{
		Language: req.Language.PistonName,
		Version:  "*",
		Files: []pistonFile{{
			Name:    "main." + req.Language.Extension,
			Content: req.SourceCode,
		}},
		Stdin:              req.Stdin,
		Args:               []string{},
		CompileTimeout:     10000,
		RunTimeout:         req.TimeLimitMs,
		CompileMemoryLimit: -1,
		RunMemoryLimit:     int64(req.MemoryLimitMb) * 1024 * 1024,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("encode request: %v", err))
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/execute", bytes.NewReader(payload))
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(httpReq)
	if err != nil {
		logger.Warn(ctx, "piston request failed", zap.Error(err))
		return failureResult(StatusRuntimeError, fmt.Sprintf("execution backend unreachable: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode != http.StatusOK {
		return failureResult(StatusRuntimeError,
			fmt.Sprintf("execution backend returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed pistonResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("decode response: %v", err))
	}

	return mapPistonResponse(parsed)
}

// mapPistonResponse translates exit/signal codes into the canonical taxonomy.
func mapPistonResponse(resp pistonResponse) Result {
	if resp.Compile != nil && resp.Compile.Code != nil && *resp.Compile.Code != 0 {
		msg := resp.Compile.Stderr
		if msg == "" {
			msg = resp.Compile.Output
		}
		return failureResult(StatusCompileError, msg)
	}

	run := resp.Run
	if run.Signal != "" {
		// SIGKILL is how the sandbox reports resource exhaustion.
		if run.Signal == "SIGKILL" {
			return Result{
				Success: false,
				Status:  StatusTimeLimit,
				Output:  run.Stdout,
				Error:   "time limit exceeded",
			}
		}
		return Result{
			Success: false,
			Status:  StatusRuntimeError,
			Output:  run.Stdout,
			Error:   fmt.Sprintf("killed by signal %s: %s", run.Signal, run.Stderr),
		}
	}

	if run.Code != nil && *run.Code != 0 {
		return Result{
			Success: false,
			Status:  StatusRuntimeError,
			Output:  run.Stdout,
			Error:   run.Stderr,
		}
	}

	if strings.TrimSpace(run.Stderr) != "" {
		// Clean exit with stderr noise still counts as a runtime error,
		// stdout is preserved for the transcript.
		return Result{
			Success: false,
			Status:  StatusRuntimeError,
			Output:  run.Stdout,
			Error:   run.Stderr,
		}
	}

	return Result{Success: true, Status: StatusAccepted, Output: run.Stdout}
}
