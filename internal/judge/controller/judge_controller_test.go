package controller_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"codearena/internal/common/cache"
	"codearena/internal/judge/controller"
	"codearena/internal/judge/executor"
	"codearena/internal/judge/model"
	"codearena/internal/judge/ratelimit"
	"codearena/internal/judge/repository"
	"codearena/internal/judge/service"
	appErr "codearena/pkg/errors"
)

type echoStrategy struct{}

func (echoStrategy) Name() string                       { return "echo" }
func (echoStrategy) Available(ctx context.Context) bool { return true }
func (echoStrategy) Execute(ctx context.Context, req executor.Request) executor.Result {
	return executor.Result{Success: true, Status: executor.StatusAccepted, Output: req.Stdin}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	store, err := cache.NewRedisStoreWithClient(client)
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	repo := repository.NewSubmissionRepository(store, time.Hour)
	judge, err := service.NewJudge(service.Config{
		Registry: executor.NewRegistry(echoStrategy{}),
		Records:  repo,
		Limiter:  ratelimit.Options{MaxAttempts: 100},
	})
	if err != nil {
		t.Fatalf("new judge: %v", err)
	}

	router := gin.New()
	api := router.Group("/api/v1")
	controller.NewJudgeController(judge, repo).RegisterRoutes(api)
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func submitBody(code string) controller.SubmitRequest {
	return controller.SubmitRequest{
		UserID:     "u1",
		LanguageID: "python",
		Code:       code,
		Problem: model.Problem{
			ID:   "p1",
			Kind: model.KindAlgorithm,
			TestCases: []model.TestCase{
				{ID: "t1", Input: "42", ExpectedOutput: "42"},
			},
		},
	}
}

func TestSubmitEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/judge/submit", submitBody("print(input())"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Code int           `json:"code"`
		Data model.Verdict `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != int(appErr.Success) {
		t.Fatalf("expected success code, got %d", resp.Code)
	}
	if resp.Data.Status != executor.StatusAccepted || resp.Data.SubmissionID == "" {
		t.Fatalf("unexpected verdict: %+v", resp.Data)
	}

	// The verdict is retrievable afterwards.
	rec = doJSON(t, router, http.MethodGet, "/api/v1/judge/verdicts/"+resp.Data.SubmissionID, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on verdict fetch, got %d", rec.Code)
	}
}

func TestSubmitEndpointDuplicate(t *testing.T) {
	router := newTestRouter(t)
	body := submitBody("print(input())")

	if rec := doJSON(t, router, http.MethodPost, "/api/v1/judge/submit", body); rec.Code != http.StatusOK {
		t.Fatalf("first submit failed: %d", rec.Code)
	}
	rec := doJSON(t, router, http.MethodPost, "/api/v1/judge/submit", body)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for duplicate code, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmitEndpointBadBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/judge/submit", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRunEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/judge/run", controller.RunRequest{
		LanguageID: "python",
		Code:       "print(input())",
		Problem: model.Problem{
			ID:   "p1",
			Kind: model.KindAlgorithm,
			TestCases: []model.TestCase{
				{ID: "t1", Input: "sample", ExpectedOutput: "other"},
			},
		},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Data executor.Result `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Data.Success || resp.Data.Output != "sample" {
		t.Fatalf("unexpected run result: %+v", resp.Data)
	}
}

func TestListLanguages(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/judge/languages", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data struct {
			Languages []executor.Language `json:"languages"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Languages) == 0 {
		t.Fatal("expected builtin languages")
	}
	for _, lang := range resp.Data.Languages {
		if lang.ID == "python" && lang.Scaffold == "" {
			t.Fatal("expected python scaffold")
		}
	}
}

func TestGetVerdictNotFound(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/judge/verdicts/missing", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestListUserSubmissions(t *testing.T) {
	router := newTestRouter(t)

	first := submitBody("print(input())")
	second := submitBody("print(int(input()))")
	for _, body := range []controller.SubmitRequest{first, second} {
		if rec := doJSON(t, router, http.MethodPost, "/api/v1/judge/submit", body); rec.Code != http.StatusOK {
			t.Fatalf("submit failed: %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/v1/judge/users/u1/submissions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Data struct {
			SubmissionIDs []string `json:"submission_ids"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.SubmissionIDs) != 2 {
		t.Fatalf("expected 2 submission ids, got %v", resp.Data.SubmissionIDs)
	}
}
