// Package repository persists verdicts and submission records in the
// cache-backed store that fronts the remote data service.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"codearena/internal/common/cache"
	"codearena/internal/judge/model"
	appErr "codearena/pkg/errors"
)

const (
	verdictKeyPrefix    = "judge:verdict:"
	submissionKeyPrefix = "judge:submission:"
	userIndexKeyPrefix  = "judge:submissions:user:"
)

// SubmissionRepository handles verdict and submission persistence.
type SubmissionRepository struct {
	store cache.Store
	TTL   time.Duration
}

// NewSubmissionRepository creates a new repository.
func NewSubmissionRepository(store cache.Store, ttl time.Duration) *SubmissionRepository {
	return &SubmissionRepository{store: store, TTL: ttl}
}

// SaveVerdict persists a verdict keyed by submission id.
func (r *SubmissionRepository) SaveVerdict(ctx context.Context, verdict model.Verdict) error {
	if verdict.SubmissionID == "" {
		return appErr.ValidationError("submission_id", "required")
	}
	if r.store == nil {
		return appErr.New(appErr.CacheError).WithMessage("store is not initialized")
	}
	data, err := json.Marshal(verdict)
	if err != nil {
		return fmt.Errorf("marshal verdict failed: %w", err)
	}
	if err := r.store.Set(ctx, verdictKeyPrefix+verdict.SubmissionID, string(data), r.TTL); err != nil {
		return appErr.Wrapf(err, appErr.CacheError, "store verdict failed")
	}
	return nil
}

// GetVerdict returns a verdict by submission id.
func (r *SubmissionRepository) GetVerdict(ctx context.Context, submissionID string) (model.Verdict, error) {
	if submissionID == "" {
		return model.Verdict{}, appErr.ValidationError("submission_id", "required")
	}
	if r.store == nil {
		return model.Verdict{}, appErr.New(appErr.CacheError).WithMessage("store is not initialized")
	}
	val, err := r.store.Get(ctx, verdictKeyPrefix+submissionID)
	if err != nil || val == "" {
		return model.Verdict{}, appErr.New(appErr.SubmissionNotFound)
	}
	var verdict model.Verdict
	if err := json.Unmarshal([]byte(val), &verdict); err != nil {
		return model.Verdict{}, appErr.Wrapf(err, appErr.CacheError, "decode verdict failed")
	}
	return verdict, nil
}

// SaveSubmission persists the final submission record and indexes it
// under the submitting user.
func (r *SubmissionRepository) SaveSubmission(ctx context.Context, submission model.Submission) error {
	if submission.ID == "" {
		return appErr.ValidationError("submission.id", "required")
	}
	if r.store == nil {
		return appErr.New(appErr.CacheError).WithMessage("store is not initialized")
	}
	data, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("marshal submission failed: %w", err)
	}
	if err := r.store.Set(ctx, submissionKeyPrefix+submission.ID, string(data), r.TTL); err != nil {
		return appErr.Wrapf(err, appErr.CacheError, "store submission failed")
	}
	if submission.UserID != "" {
		if err := r.store.RPush(ctx, userIndexKeyPrefix+submission.UserID, submission.ID); err != nil {
			return appErr.Wrapf(err, appErr.CacheError, "index submission failed")
		}
	}
	return nil
}

// GetSubmission returns a submission record by id.
func (r *SubmissionRepository) GetSubmission(ctx context.Context, id string) (model.Submission, error) {
	if id == "" {
		return model.Submission{}, appErr.ValidationError("submission.id", "required")
	}
	val, err := r.store.Get(ctx, submissionKeyPrefix+id)
	if err != nil || val == "" {
		return model.Submission{}, appErr.New(appErr.SubmissionNotFound)
	}
	var submission model.Submission
	if err := json.Unmarshal([]byte(val), &submission); err != nil {
		return model.Submission{}, appErr.Wrapf(err, appErr.CacheError, "decode submission failed")
	}
	return submission, nil
}

// ListUserSubmissionIDs returns submission ids for a user, oldest first.
func (r *SubmissionRepository) ListUserSubmissionIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, appErr.ValidationError("user_id", "required")
	}
	ids, err := r.store.LRange(ctx, userIndexKeyPrefix+userID, 0, -1)
	if err != nil {
		return nil, appErr.Wrapf(err, appErr.CacheError, "list submissions failed")
	}
	return ids, nil
}
