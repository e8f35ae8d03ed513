// Package controller exposes the judging pipeline over HTTP.
package controller

import (
	"codearena/internal/judge/model"
	"codearena/internal/judge/repository"
	"codearena/internal/judge/service"
	"codearena/pkg/utils/response"

	"github.com/gin-gonic/gin"
)

// JudgeController handles submission and run requests.
type JudgeController struct {
	judge *service.Judge
	repo  *repository.SubmissionRepository
}

// NewJudgeController creates a new controller.
func NewJudgeController(judge *service.Judge, repo *repository.SubmissionRepository) *JudgeController {
	return &JudgeController{judge: judge, repo: repo}
}

// RegisterRoutes mounts the judge API under the given router group.
func (h *JudgeController) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/judge/submit", h.Submit)
	rg.POST("/judge/run", h.Run)
	rg.GET("/judge/verdicts/:id", h.GetVerdict)
	rg.GET("/judge/submissions/:id", h.GetSubmission)
	rg.GET("/judge/users/:user_id/submissions", h.ListUserSubmissions)
	rg.GET("/judge/languages", h.ListLanguages)
}

// ListLanguages returns the supported languages with their scaffolds.
func (h *JudgeController) ListLanguages(c *gin.Context) {
	response.Success(c, gin.H{"languages": h.judge.Languages()})
}

// SubmitRequest is the submit payload. The problem definition travels
// with the request so the judge stays stateless about problem storage.
type SubmitRequest struct {
	UserID     string        `json:"user_id" binding:"required"`
	LanguageID string        `json:"language_id"`
	Code       string        `json:"code" binding:"required"`
	Problem    model.Problem `json:"problem" binding:"required"`
}

// RunRequest is the scratch-run payload.
type RunRequest struct {
	LanguageID string        `json:"language_id"`
	Code       string        `json:"code" binding:"required"`
	Problem    model.Problem `json:"problem" binding:"required"`
}

// Submit judges a full submission and returns the verdict.
func (h *JudgeController) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	verdict, err := h.judge.Submit(c.Request.Context(), service.SubmitInput{
		UserID:     req.UserID,
		Problem:    req.Problem,
		Code:       req.Code,
		LanguageID: req.LanguageID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verdict)
}

// Run executes code against the first visible test case without judging.
func (h *JudgeController) Run(c *gin.Context) {
	var req RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	result, err := h.judge.Run(c.Request.Context(), service.RunInput{
		Problem:    req.Problem,
		Code:       req.Code,
		LanguageID: req.LanguageID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetVerdict returns a stored verdict by submission id.
func (h *JudgeController) GetVerdict(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Invalid submission id")
		return
	}
	verdict, err := h.repo.GetVerdict(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, verdict)
}

// GetSubmission returns a stored submission record by id.
func (h *JudgeController) GetSubmission(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, "Invalid submission id")
		return
	}
	submission, err := h.repo.GetSubmission(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, submission)
}

// ListUserSubmissions returns submission ids for one user, oldest first.
func (h *JudgeController) ListUserSubmissions(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		response.BadRequest(c, "Invalid user id")
		return
	}
	ids, err := h.repo.ListUserSubmissionIDs(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"submission_ids": ids})
}
