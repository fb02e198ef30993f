package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type interviewLister interface {
	List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, int, error)
	FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error)
}

// InterviewService serves read paths over stored interviews.
type InterviewService struct {
	repo   interviewLister
	logger *zap.Logger
}

// NewInterviewService instantiates InterviewService.
func NewInterviewService(repo interviewLister, logger *zap.Logger) *InterviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterviewService{repo: repo, logger: logger}
}

// List returns interviews matching the filter, ordered by date then time.
func (s *InterviewService) List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error) {
	if filter.Status != "" && !models.InterviewStatus(filter.Status).Valid() {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "unknown status filter")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	interviews, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interviews")
	}
	if interviews == nil {
		interviews = []models.InterviewDetail{}
	}

	return interviews, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// ListByUser scopes the listing to one user's interviews.
func (s *InterviewService) ListByUser(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error) {
	if userID == "" {
		return nil, nil, appErrors.Clone(appErrors.ErrValidation, "userId required")
	}
	filter.UserID = userID
	return s.List(ctx, filter)
}

// Get loads one interview with user and mentor display data.
func (s *InterviewService) Get(ctx context.Context, id string) (*models.InterviewDetail, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "interview id required")
	}

	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	return detail, nil
}
