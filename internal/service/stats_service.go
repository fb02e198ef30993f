package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type statsRepository interface {
	StatsByUser(ctx context.Context, userID string) (*models.InterviewStats, error)
}

// StatsService derives per-user interview counters, cached in Redis.
type StatsService struct {
	repo   statsRepository
	cache  *CacheService
	ttl    time.Duration
	logger *zap.Logger
}

// NewStatsService instantiates StatsService.
func NewStatsService(repo statsRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *StatsService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// ForUser returns {total, completed} for one user. The second return
// reports whether the payload came from cache.
func (s *StatsService) ForUser(ctx context.Context, userID string) (*models.InterviewStats, bool, error) {
	if userID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "userId required")
	}

	key := statsCacheKey(userID)
	var cached models.InterviewStats
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return &cached, true, nil
	}

	stats, err := s.repo.StatsByUser(ctx, userID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load stats")
	}

	_ = s.cache.Set(ctx, key, stats, s.ttl)
	return stats, false, nil
}

// InvalidateUser drops the cached counters after a write touching the
// user's interviews.
func (s *StatsService) InvalidateUser(ctx context.Context, userID string) {
	if userID == "" {
		return
	}
	if err := s.cache.Invalidate(ctx, statsCacheKey(userID)); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.String("user_id", userID), zap.Error(err))
	}
}

func statsCacheKey(userID string) string {
	return fmt.Sprintf("stats:user:%s", userID)
}
