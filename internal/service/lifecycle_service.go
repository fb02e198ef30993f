package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type lifecycleRepository interface {
	FindByID(ctx context.Context, id string) (*models.Interview, error)
	FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error)
	UpdateStatus(ctx context.Context, id string, status models.InterviewStatus) (int64, error)
}

// LifecycleService advances interviews through their status machine.
type LifecycleService struct {
	repo      lifecycleRepository
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLifecycleService instantiates LifecycleService.
func NewLifecycleService(repo lifecycleRepository, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *LifecycleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{repo: repo, stats: stats, validator: validate, logger: logger}
}

// SetStatus transitions a SCHEDULED interview to a terminal state.
// COMPLETED and CANCELLED are final; any transition out of them is
// rejected rather than silently reopening the session.
func (s *LifecycleService) SetStatus(ctx context.Context, id string, status models.InterviewStatus) (*models.InterviewDetail, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interview id required")
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status %q", status))
	}
	if !status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "interviews cannot return to SCHEDULED")
	}

	interview, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	if interview.Status.Terminal() {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, fmt.Sprintf("interview is already %s", interview.Status))
	}

	affected, err := s.repo.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	if affected == 0 {
		// Lost a race with another transition.
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "interview already finalized")
	}

	if s.stats != nil {
		s.stats.InvalidateUser(ctx, interview.UserID)
	}
	s.logger.Info("interview status updated", zap.String("interview_id", id), zap.String("status", string(status)))

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	return detail, nil
}
