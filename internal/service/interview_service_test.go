package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type mockInterviewLister struct {
	interviews []models.InterviewDetail
	total      int
	lastFilter models.InterviewFilter
	detail     *models.InterviewDetail
	detailErr  error
}

func (m *mockInterviewLister) List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, int, error) {
	m.lastFilter = filter
	return m.interviews, m.total, nil
}

func (m *mockInterviewLister) FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error) {
	if m.detailErr != nil {
		return nil, m.detailErr
	}
	return m.detail, nil
}

func TestInterviewListDefaultsPaging(t *testing.T) {
	repo := &mockInterviewLister{interviews: []models.InterviewDetail{{}}, total: 1}
	svc := NewInterviewService(repo, zap.NewNop())

	interviews, pagination, err := svc.List(context.Background(), models.InterviewFilter{})
	require.NoError(t, err)
	assert.Len(t, interviews, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 20, pagination.PageSize)
	assert.Equal(t, 1, pagination.TotalCount)
}

func TestInterviewListEmptyIsNotNil(t *testing.T) {
	svc := NewInterviewService(&mockInterviewLister{}, zap.NewNop())

	interviews, _, err := svc.List(context.Background(), models.InterviewFilter{})
	require.NoError(t, err)
	assert.NotNil(t, interviews)
	assert.Empty(t, interviews)
}

func TestInterviewListRejectsUnknownStatus(t *testing.T) {
	svc := NewInterviewService(&mockInterviewLister{}, zap.NewNop())

	_, _, err := svc.List(context.Background(), models.InterviewFilter{Status: "ARCHIVED"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestInterviewListByUserScopesFilter(t *testing.T) {
	repo := &mockInterviewLister{}
	svc := NewInterviewService(repo, zap.NewNop())

	_, _, err := svc.ListByUser(context.Background(), "u-1", models.InterviewFilter{Status: "SCHEDULED"})
	require.NoError(t, err)
	assert.Equal(t, "u-1", repo.lastFilter.UserID)
	assert.Equal(t, "SCHEDULED", repo.lastFilter.Status)
}

func TestInterviewGet(t *testing.T) {
	detail := &models.InterviewDetail{}
	detail.ID = "iv-1"
	repo := &mockInterviewLister{detail: detail}
	svc := NewInterviewService(repo, zap.NewNop())

	got, err := svc.Get(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Equal(t, "iv-1", got.ID)
}

func TestInterviewGetNotFound(t *testing.T) {
	repo := &mockInterviewLister{detailErr: sql.ErrNoRows}
	svc := NewInterviewService(repo, zap.NewNop())

	_, err := svc.Get(context.Background(), "iv-404")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
