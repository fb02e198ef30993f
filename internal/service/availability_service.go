package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type bookedSlotReader interface {
	BookedTimes(ctx context.Context, mentorID string, date time.Time) ([]string, error)
}

// SlotQuery identifies a mentor-day whose availability is requested.
type SlotQuery struct {
	MentorID string `validate:"required"`
	Date     string `validate:"required"`
}

// AvailabilityService computes booked and bookable slots for a mentor-day.
type AvailabilityService struct {
	repo      bookedSlotReader
	catalog   []string
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAvailabilityService instantiates AvailabilityService.
func NewAvailabilityService(repo bookedSlotReader, catalog []string, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, catalog: catalog, validator: validate, logger: logger}
}

// BookedSlots returns every time value booked for the mentor on the
// date. Cancelled sessions are reported too; the slot only reopens for
// the conflict check, not for this listing.
func (s *AvailabilityService) BookedSlots(ctx context.Context, query SlotQuery) ([]string, error) {
	date, err := s.parseQuery(query)
	if err != nil {
		return nil, err
	}

	times, err := s.repo.BookedTimes(ctx, query.MentorID, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list booked slots")
	}
	if times == nil {
		times = []string{}
	}
	return times, nil
}

// AvailableSlots returns the catalog complement of the booked set.
func (s *AvailabilityService) AvailableSlots(ctx context.Context, query SlotQuery) ([]string, error) {
	booked, err := s.BookedSlots(ctx, query)
	if err != nil {
		return nil, err
	}

	taken := make(map[string]struct{}, len(booked))
	for _, t := range booked {
		taken[t] = struct{}{}
	}

	available := make([]string, 0, len(s.catalog))
	for _, slot := range s.catalog {
		if _, ok := taken[slot]; !ok {
			available = append(available, slot)
		}
	}
	return available, nil
}

// Catalog exposes the static slot catalog.
func (s *AvailabilityService) Catalog() []string {
	return s.catalog
}

func (s *AvailabilityService) parseQuery(query SlotQuery) (time.Time, error) {
	if err := s.validator.Struct(query); err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "mentorId and date required")
	}
	date, err := time.Parse("2006-01-02", query.Date)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "date must be YYYY-MM-DD")
	}
	return date, nil
}
