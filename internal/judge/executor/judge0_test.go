package executor_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"codearena/internal/judge/executor"
)

func judge0Server(t *testing.T, handler http.HandlerFunc) *executor.Judge0Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return executor.NewJudge0Client(executor.Judge0Config{BaseURL: server.URL, APIKey: "test-key"})
}

func b64(s string) string { return base64.StdEncoding.EncodeToString([]byte(s)) }

func judge0Request() executor.Request {
	return executor.Request{
		SourceCode: "print(int(input()) * 2)",
		Language: executor.Language{
			ID:       "python",
			Judge0ID: 71,
		},
		Stdin:         "21\n",
		TimeLimitMs:   2000,
		MemoryLimitMb: 128,
	}
}

func TestJudge0Accepted(t *testing.T) {
	t.Parallel()
	client := judge0Server(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		if query.Get("base64_encoded") != "true" || query.Get("wait") != "true" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		if r.Header.Get("X-RapidAPI-Key") != "test-key" {
			t.Error("missing API key header")
		}
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if _, err := base64.StdEncoding.DecodeString(body["source_code"].(string)); err != nil {
			t.Errorf("source_code is not base64: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"status": map[string]interface{}{"id": 3, "description": "Accepted"},
			"stdout": b64("42\n"),
			"time":   "0.031",
			"memory": 3456,
		})
	})

	res := client.Execute(context.Background(), judge0Request())
	if !res.Success || res.Status != executor.StatusAccepted {
		t.Fatalf("expected accepted, got %+v", res)
	}
	if res.Output != "42\n" {
		t.Fatalf("expected decoded stdout, got %q", res.Output)
	}
	if res.RuntimeMs != 31 {
		t.Fatalf("expected 31ms runtime, got %d", res.RuntimeMs)
	}
	if res.MemoryKb != 3456 {
		t.Fatalf("expected 3456kb memory, got %d", res.MemoryKb)
	}
}

func TestJudge0StatusMapping(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		statusID   int
		wantStatus executor.Status
	}{
		{name: "compile-error", statusID: 6, wantStatus: executor.StatusCompileError},
		{name: "time-limit", statusID: 5, wantStatus: executor.StatusTimeLimit},
		{name: "runtime-error-sigsegv", statusID: 11, wantStatus: executor.StatusRuntimeError},
		{name: "internal-error", statusID: 13, wantStatus: executor.StatusRuntimeError},
		{name: "wrong-answer-run-still-succeeds", statusID: 4, wantStatus: executor.StatusAccepted},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			client := judge0Server(t, func(w http.ResponseWriter, r *http.Request) {
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"status":         map[string]interface{}{"id": tt.statusID, "description": tt.name},
					"compile_output": b64("compile log"),
					"stderr":         b64("stderr log"),
				})
			})
			res := client.Execute(context.Background(), judge0Request())
			if res.Status != tt.wantStatus {
				t.Fatalf("status id %d: expected %q, got %+v", tt.statusID, tt.wantStatus, res)
			}
		})
	}
}

func TestJudge0UnmappedLanguageSkipsBackend(t *testing.T) {
	t.Parallel()
	called := false
	client := judge0Server(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := judge0Request()
	req.Language.Judge0ID = 0
	res := client.Execute(context.Background(), req)
	if res.Success || res.Status != executor.StatusRuntimeError {
		t.Fatalf("expected runtime_error for unmapped language, got %+v", res)
	}
	if called {
		t.Fatal("backend must not be called for an unmapped language")
	}
}

func TestJudge0AvailabilityRequiresKey(t *testing.T) {
	t.Parallel()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)

	keyless := executor.NewJudge0Client(executor.Judge0Config{BaseURL: server.URL})
	if keyless.Available(context.Background()) {
		t.Fatal("expected keyless client to be unavailable without network I/O")
	}

	keyed := executor.NewJudge0Client(executor.Judge0Config{BaseURL: server.URL, APIKey: "k"})
	if !keyed.Available(context.Background()) {
		t.Fatal("expected keyed client to be available")
	}
}

func TestJudge0MalformedResponseDowngraded(t *testing.T) {
	t.Parallel()
	client := judge0Server(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	res := client.Execute(context.Background(), judge0Request())
	if res.Success || res.Status != executor.StatusRuntimeError {
		t.Fatalf("expected downgraded runtime_error, got %+v", res)
	}
}
