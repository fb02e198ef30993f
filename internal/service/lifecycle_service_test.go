package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type mockLifecycleRepo struct {
	interview *models.Interview
	findErr   error
	affected  int64
	updateErr error
	updated   models.InterviewStatus
}

func (m *mockLifecycleRepo) FindByID(ctx context.Context, id string) (*models.Interview, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.interview, nil
}

func (m *mockLifecycleRepo) FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error) {
	detail := &models.InterviewDetail{Interview: *m.interview}
	detail.Status = m.updated
	return detail, nil
}

func (m *mockLifecycleRepo) UpdateStatus(ctx context.Context, id string, status models.InterviewStatus) (int64, error) {
	if m.updateErr != nil {
		return 0, m.updateErr
	}
	if m.affected > 0 {
		m.updated = status
	}
	return m.affected, nil
}

func TestSetStatusCompletes(t *testing.T) {
	repo := &mockLifecycleRepo{
		interview: &models.Interview{ID: "iv-1", UserID: "u-1", Status: models.StatusScheduled},
		affected:  1,
	}
	stats := &mockStatsInvalidator{}
	svc := NewLifecycleService(repo, stats, validator.New(), zap.NewNop())

	detail, err := svc.SetStatus(context.Background(), "iv-1", models.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, detail.Status)
	assert.Equal(t, []string{"u-1"}, stats.invalidated)
}

func TestSetStatusCancels(t *testing.T) {
	repo := &mockLifecycleRepo{
		interview: &models.Interview{ID: "iv-1", UserID: "u-1", Status: models.StatusScheduled},
		affected:  1,
	}
	svc := NewLifecycleService(repo, &mockStatsInvalidator{}, validator.New(), zap.NewNop())

	detail, err := svc.SetStatus(context.Background(), "iv-1", models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, detail.Status)
}

func TestSetStatusRejectsTerminalInterview(t *testing.T) {
	repo := &mockLifecycleRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusCompleted},
	}
	svc := NewLifecycleService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), "iv-1", models.StatusCancelled)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestSetStatusRejectsReopening(t *testing.T) {
	repo := &mockLifecycleRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusCompleted},
	}
	svc := NewLifecycleService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), "iv-1", models.StatusScheduled)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestSetStatusUnknownStatus(t *testing.T) {
	svc := NewLifecycleService(&mockLifecycleRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), "iv-1", models.InterviewStatus("ARCHIVED"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSetStatusNotFound(t *testing.T) {
	repo := &mockLifecycleRepo{findErr: sql.ErrNoRows}
	svc := NewLifecycleService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), "iv-404", models.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSetStatusRaceLost(t *testing.T) {
	repo := &mockLifecycleRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusScheduled},
		affected:  0,
	}
	svc := NewLifecycleService(repo, nil, validator.New(), zap.NewNop())

	_, err := svc.SetStatus(context.Background(), "iv-1", models.StatusCompleted)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}
