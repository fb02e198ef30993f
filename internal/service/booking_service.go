package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type bookingRepository interface {
	Create(ctx context.Context, interview *models.Interview) error
	CreateIfSlotFree(ctx context.Context, interview *models.Interview) (bool, error)
	FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error)
}

type mentorReader interface {
	FindByID(ctx context.Context, id string) (*models.Mentor, error)
}

type statsInvalidator interface {
	InvalidateUser(ctx context.Context, userID string)
}

// BookRequest describes payload for booking an interview slot.
type BookRequest struct {
	UserID   string `json:"userId" validate:"required"`
	MentorID string `json:"mentorId" validate:"omitempty"`
	Date     string `json:"date" validate:"required"`
	Time     string `json:"time" validate:"required"`
	Type     string `json:"type" validate:"omitempty,oneof=AI HUMAN"`
	Category string `json:"category" validate:"omitempty,oneof=technical hr mock system-design"`
	Duration int    `json:"duration" validate:"omitempty,min=15,max=240"`
}

// BookingService validates and writes interview bookings.
type BookingService struct {
	repo      bookingRepository
	mentors   mentorReader
	stats     statsInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService instantiates BookingService.
func NewBookingService(repo bookingRepository, mentors mentorReader, stats statsInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{repo: repo, mentors: mentors, stats: stats, metrics: metrics, validator: validate, logger: logger}
}

// Book reserves a slot. Mentor bookings go through the atomic
// insert-if-free path; AI sessions share no physical resource and skip
// the conflict check entirely.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (*models.InterviewDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	if _, err := time.Parse("15:04", req.Time); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "time must be HH:mm")
	}

	interview := models.Interview{
		UserID:   req.UserID,
		Date:     date,
		Time:     req.Time,
		Type:     models.TypeAI,
		Category: req.Category,
		Duration: resolveDuration(req.Duration, req.Category),
		Status:   models.StatusScheduled,
	}
	if req.Type != "" {
		interview.Type = models.InterviewType(req.Type)
	}

	if req.MentorID == "" {
		if err := s.repo.Create(ctx, &interview); err != nil {
			s.recordBooking("error")
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book interview")
		}
		return s.finishBooking(ctx, interview.ID, interview.UserID)
	}

	mentor, err := s.mentors.FindByID(ctx, req.MentorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mentor not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load mentor")
	}
	if !mentor.IsActive {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mentor is not accepting bookings")
	}

	interview.MentorID = &mentor.ID
	if req.Type == "" {
		interview.Type = models.TypeHuman
	}

	created, err := s.repo.CreateIfSlotFree(ctx, &interview)
	if err != nil {
		s.recordBooking("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to book interview")
	}
	if !created {
		s.recordBooking("conflict")
		conflict := &models.SlotConflictError{MentorID: mentor.ID, Date: req.Date, Time: req.Time}
		return nil, appErrors.Wrap(conflict, appErrors.ErrConflict.Code, appErrors.ErrConflict.Status, "slot already booked")
	}

	return s.finishBooking(ctx, interview.ID, interview.UserID)
}

func (s *BookingService) finishBooking(ctx context.Context, interviewID, userID string) (*models.InterviewDetail, error) {
	s.recordBooking("created")
	if s.stats != nil {
		s.stats.InvalidateUser(ctx, userID)
	}

	detail, err := s.repo.FindDetailByID(ctx, interviewID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load booked interview")
	}
	s.logger.Info("interview booked",
		zap.String("interview_id", detail.ID),
		zap.String("user_id", detail.UserID),
		zap.String("time", detail.Time),
	)
	return detail, nil
}

func (s *BookingService) recordBooking(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordBooking(outcome)
	}
}

func resolveDuration(requested int, category string) int {
	if requested > 0 {
		return requested
	}
	if d, ok := models.CategoryDurations[category]; ok {
		return d
	}
	return models.DefaultDuration
}
