package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type mentorRepository interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, int, error)
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
	ExistsByEmail(ctx context.Context, email, excludeID string) (bool, error)
	Create(ctx context.Context, mentor *models.Mentor) error
	Update(ctx context.Context, mentor *models.Mentor) error
	Deactivate(ctx context.Context, id string) error
}

type scheduledCounter interface {
	CountScheduledByMentor(ctx context.Context, mentorID string) (int, error)
}

// MentorRequest describes payload for creating or updating a mentor.
type MentorRequest struct {
	Name       string `json:"name" validate:"required,min=2"`
	Email      string `json:"email" validate:"required,email"`
	Phone      string `json:"phone" validate:"omitempty,min=7"`
	Speciality string `json:"speciality" validate:"required"`
	Bio        string `json:"bio" validate:"omitempty"`
	ImageURL   string `json:"image_url" validate:"omitempty,url"`
}

// MentorService manages the mentor directory.
type MentorService struct {
	repo       mentorRepository
	interviews scheduledCounter
	cache      *CacheService
	cacheTTL   time.Duration
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewMentorService instantiates MentorService.
func NewMentorService(repo mentorRepository, interviews scheduledCounter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *MentorService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MentorService{
		repo:       repo,
		interviews: interviews,
		cache:      cache,
		cacheTTL:   10 * time.Minute,
		validator:  validate,
		logger:     logger,
	}
}

type mentorListPayload struct {
	Mentors []models.Mentor `json:"mentors"`
	Total   int             `json:"total"`
}

// List returns mentors matching the filter. First-page unfiltered
// results are cached since the directory is read-heavy.
func (s *MentorService) List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	cacheable := filter.Search == "" && filter.Active == nil && filter.Page == 1
	key := mentorListCacheKey(filter.PageSize)

	if cacheable {
		var cached mentorListPayload
		if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
			return cached.Mentors, models.NewPagination(filter.Page, filter.PageSize, cached.Total), nil
		}
	}

	mentors, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list mentors")
	}
	if mentors == nil {
		mentors = []models.Mentor{}
	}

	if cacheable {
		_ = s.cache.Set(ctx, key, mentorListPayload{Mentors: mentors, Total: total}, s.cacheTTL)
	}
	return mentors, models.NewPagination(filter.Page, filter.PageSize, total), nil
}

// Get loads a mentor by id.
func (s *MentorService) Get(ctx context.Context, id string) (*models.Mentor, error) {
	if id == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor id required")
	}

	mentor, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	return mentor, nil
}

// Create registers a mentor. Email must be unique across the directory.
func (s *MentorService) Create(ctx context.Context, req MentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentor email already registered")
	}

	mentor := models.Mentor{
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		Speciality: req.Speciality,
		Bio:        req.Bio,
		ImageURL:   req.ImageURL,
		IsActive:   true,
	}
	if err := s.repo.Create(ctx, &mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mentor")
	}

	s.invalidateListing(ctx)
	s.logger.Info("mentor created", zap.String("mentor_id", mentor.ID), zap.String("email", mentor.Email))
	return &mentor, nil
}

// Update modifies an existing mentor's profile.
func (s *MentorService) Update(ctx context.Context, id string, req MentorRequest) (*models.Mentor, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mentor payload")
	}

	mentor, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, req.Email, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check mentor email")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "mentor email already registered")
	}

	mentor.Name = req.Name
	mentor.Email = req.Email
	mentor.Phone = req.Phone
	mentor.Speciality = req.Speciality
	mentor.Bio = req.Bio
	mentor.ImageURL = req.ImageURL

	if err := s.repo.Update(ctx, mentor); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mentor")
	}

	s.invalidateListing(ctx)
	return mentor, nil
}

// Deactivate removes a mentor from the bookable pool. Mentors with
// SCHEDULED interviews stay active until those sessions resolve.
func (s *MentorService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	pending, err := s.interviews.CountScheduledByMentor(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count scheduled interviews")
	}
	if pending > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("mentor has %d scheduled interviews", pending))
	}

	if err := s.repo.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate mentor")
	}

	s.invalidateListing(ctx)
	s.logger.Info("mentor deactivated", zap.String("mentor_id", id))
	return nil
}

func (s *MentorService) invalidateListing(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "mentors:list:*"); err != nil {
		s.logger.Warn("failed to invalidate mentor cache", zap.Error(err))
	}
}

func mentorListCacheKey(pageSize int) string {
	return fmt.Sprintf("mentors:list:%d", pageSize)
}
