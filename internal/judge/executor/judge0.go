package executor

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"codearena/pkg/utils/logger"

	"go.uber.org/zap"
)

const judge0Name = "judge0"

// Judge0 status ids, per its CE API.
const (
	judge0StatusAccepted     = 3
	judge0StatusWrongAnswer  = 4
	judge0StatusTimeLimit    = 5
	judge0StatusCompileError = 6
)

// Judge0Config holds settings for the keyed-tier judge0 backend.
type Judge0Config struct {
	BaseURL string        `yaml:"baseURL"`
	APIKey  string        `yaml:"apiKey"`
	APIHost string        `yaml:"apiHost"`
	Timeout time.Duration `yaml:"timeout"`
}

// Judge0Client executes code through a judge0-compatible HTTP API using
// base64-encoded payloads and synchronous wait mode.
type Judge0Client struct {
	baseURL string
	apiKey  string
	apiHost string
	client  *http.Client
}

// NewJudge0Client creates a judge0 strategy.
func NewJudge0Client(cfg Judge0Config) *Judge0Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Judge0Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		apiHost: cfg.APIHost,
		client:  &http.Client{Timeout: timeout},
	}
}

func (j *Judge0Client) Name() string { return judge0Name }

// Available reports whether the backend can be used. A missing API key
// disqualifies the keyed tier without any network I/O.
func (j *Judge0Client) Available(ctx context.Context) bool {
	if j.apiKey == "" {
		return false
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, j.baseURL+"/languages", nil)
	if err != nil {
		return false
	}
	j.setAuthHeaders(req)
	resp, err := j.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode == http.StatusOK
}

func (j *Judge0Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("X-RapidAPI-Key", j.apiKey)
	if j.apiHost != "" {
		req.Header.Set("X-RapidAPI-Host", j.apiHost)
	}
}

type judge0Request struct {
	LanguageID   int     `json:"language_id"`
	SourceCode   string  `json:"source_code"`
	Stdin        string  `json:"stdin"`
	CPUTimeLimit float64 `json:"cpu_time_limit"`
	MemoryLimit  int64   `json:"memory_limit"`
}

type judge0Status struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
}

type judge0Response struct {
	Status        judge0Status `json:"status"`
	Stdout        string       `json:"stdout"`
	Stderr        string       `json:"stderr"`
	CompileOutput string       `json:"compile_output"`
	Message       string       `json:"message"`
	Time          string       `json:"time"`
	Memory        float64      `json:"memory"`
}

// Execute submits the request in wait mode and decodes the result.
// A language without a judge0 mapping fails without calling the backend.
func (j *Judge0Client) Execute(ctx context.Context, req Request) Result {
	if req.Language.Judge0ID == 0 {
		return failureResult(StatusRuntimeError,
			fmt.Sprintf("language %q has no judge0 mapping", req.Language.ID))
	}

	body := judge0Request{
		LanguageID:   req.Language.Judge0ID,
		SourceCode:   base64.StdEncoding.EncodeToString([]byte(req.SourceCode)),
		Stdin:        base64.StdEncoding.EncodeToString([]byte(req.Stdin)),
		CPUTimeLimit: float64(req.TimeLimitMs) / 1000,
		MemoryLimit:  int64(req.MemoryLimitMb) * 1024,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("encode request: %v", err))
	}

	url := j.baseURL + "/submissions?base64_encoded=true&wait=true"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("build request: %v", err))
	}
	httpReq.Header.Set("Content-Type", "application/json")
	j.setAuthHeaders(httpReq)

	resp, err := j.client.Do(httpReq)
	if err != nil {
		logger.Warn(ctx, "judge0 request failed", zap.Error(err))
		return failureResult(StatusRuntimeError, fmt.Sprintf("execution backend unreachable: %v", err))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("read response: %v", err))
	}
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return failureResult(StatusRuntimeError,
			fmt.Sprintf("execution backend returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(raw))))
	}

	var parsed judge0Response
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return failureResult(StatusRuntimeError, fmt.Sprintf("decode response: %v", err))
	}

	return mapJudge0Response(parsed)
}

// mapJudge0Response maps numeric status ids onto the canonical taxonomy.
func mapJudge0Response(resp judge0Response) Result {
	stdout := decodeBase64(resp.Stdout)
	stderr := decodeBase64(resp.Stderr)
	compileOutput := decodeBase64(resp.CompileOutput)

	result := Result{
		Output:    stdout,
		RuntimeMs: parseJudge0Time(resp.Time),
		MemoryKb:  int64(resp.Memory),
	}

	switch {
	case resp.Status.ID == judge0StatusCompileError:
		result.Status = StatusCompileError
		result.Error = compileOutput
	case resp.Status.ID == judge0StatusTimeLimit:
		result.Status = StatusTimeLimit
		result.Error = "time limit exceeded"
	case resp.Status.ID > judge0StatusCompileError:
		result.Status = StatusRuntimeError
		result.Error = firstNonEmpty(stderr, resp.Message, resp.Status.Description)
	case resp.Status.ID == judge0StatusWrongAnswer:
		// Judge0 only reports wrong_answer when it compares outputs
		// itself; the checker still owns the final decision, so the run
		// counts as successful and stdout is returned for comparison.
		result.Success = true
		result.Status = StatusAccepted
	default:
		result.Success = true
		result.Status = StatusAccepted
	}
	return result
}

// decodeBase64 tolerates plain text so that non-base64 deployments and
// empty fields pass through unchanged.
func decodeBase64(s string) string {
	if s == "" {
		return ""
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return s
	}
	return string(decoded)
}

// parseJudge0Time converts the backend's fractional seconds into ms.
func parseJudge0Time(s string) int64 {
	if s == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return int64(seconds * 1000)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
