package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type mockFeedbackRepo struct {
	interview *models.Interview
	detail    *models.InterviewDetail
	findErr   error
	affected  int64
	attachErr error
	attached  []byte
	score     int
}

func (m *mockFeedbackRepo) FindByID(ctx context.Context, id string) (*models.Interview, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.interview, nil
}

func (m *mockFeedbackRepo) FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error) {
	if m.findErr != nil {
		return nil, m.findErr
	}
	return m.detail, nil
}

func (m *mockFeedbackRepo) AttachFeedback(ctx context.Context, id string, score int, feedback []byte) (int64, error) {
	if m.attachErr != nil {
		return 0, m.attachErr
	}
	m.score = score
	m.attached = feedback
	return m.affected, nil
}

type mockEvaluator struct {
	feedback *models.Feedback
	err      error
	calls    int
}

func (m *mockEvaluator) EvaluateTranscript(ctx context.Context, transcript []models.TranscriptTurn) (*models.Feedback, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.feedback, nil
}

type mockExporter struct {
	rendered []byte
	err      error
}

func (m *mockExporter) RenderFeedback(title string, feedback *models.Feedback) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.rendered, nil
}

func validFeedback() *models.Feedback {
	return &models.Feedback{
		TotalScore: 82,
		CategoryScores: []models.CategoryScore{
			{Name: "Communication Skills", Score: 85, Comment: "clear"},
			{Name: "Technical Knowledge", Score: 80, Comment: "solid"},
			{Name: "Problem-Solving", Score: 78, Comment: "methodical"},
			{Name: "Cultural & Role Fit", Score: 84, Comment: "engaged"},
			{Name: "Confidence & Clarity", Score: 83, Comment: "composed"},
		},
		Strengths:           []string{"structured answers"},
		AreasForImprovement: []string{"edge case coverage"},
		FinalAssessment:     "Strong candidate overall.",
	}
}

func sampleTranscript() []models.TranscriptTurn {
	return []models.TranscriptTurn{
		{Role: "interviewer", Content: "Tell me about goroutine leaks."},
		{Role: "candidate", Content: "They happen when a goroutine blocks forever."},
	}
}

func TestAttachFeedbackSuccess(t *testing.T) {
	repo := &mockFeedbackRepo{
		interview: &models.Interview{ID: "iv-1", UserID: "u-1", Status: models.StatusScheduled},
		affected:  1,
	}
	evaluator := &mockEvaluator{feedback: validFeedback()}
	stats := &mockStatsInvalidator{}
	svc := NewFeedbackService(repo, evaluator, &mockExporter{}, stats, nil, validator.New(), zap.NewNop())

	result, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	require.NoError(t, err)
	assert.Equal(t, 82, result.Score)
	assert.Equal(t, 82, repo.score)
	assert.Equal(t, []string{"u-1"}, stats.invalidated)

	var stored models.Feedback
	require.NoError(t, json.Unmarshal(repo.attached, &stored))
	assert.Len(t, stored.CategoryScores, 5)
}

func TestAttachFeedbackAlreadyScored(t *testing.T) {
	repo := &mockFeedbackRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusCompleted},
	}
	evaluator := &mockEvaluator{feedback: validFeedback()}
	svc := NewFeedbackService(repo, evaluator, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
	assert.Zero(t, evaluator.calls)
}

func TestAttachFeedbackCancelledInterview(t *testing.T) {
	repo := &mockFeedbackRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusCancelled},
	}
	svc := NewFeedbackService(repo, &mockEvaluator{}, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestAttachFeedbackEvaluatorFailurePassesThrough(t *testing.T) {
	repo := &mockFeedbackRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusScheduled},
	}
	evaluator := &mockEvaluator{err: appErrors.Clone(appErrors.ErrEvaluationParse, "evaluation response malformed")}
	svc := NewFeedbackService(repo, evaluator, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEvaluationParse.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.attached)
}

func TestAttachFeedbackRaceLost(t *testing.T) {
	repo := &mockFeedbackRepo{
		interview: &models.Interview{ID: "iv-1", Status: models.StatusScheduled},
		affected:  0,
	}
	svc := NewFeedbackService(repo, &mockEvaluator{feedback: validFeedback()}, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-1",
		Transcript:  sampleTranscript(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}

func TestAttachFeedbackNotFound(t *testing.T) {
	repo := &mockFeedbackRepo{findErr: sql.ErrNoRows}
	svc := NewFeedbackService(repo, &mockEvaluator{}, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{
		InterviewID: "iv-404",
		Transcript:  sampleTranscript(),
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttachFeedbackEmptyTranscript(t *testing.T) {
	svc := NewFeedbackService(&mockFeedbackRepo{}, &mockEvaluator{}, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, err := svc.Attach(context.Background(), AttachFeedbackRequest{InterviewID: "iv-1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestFeedbackReport(t *testing.T) {
	raw, err := json.Marshal(validFeedback())
	require.NoError(t, err)

	username := "lena"
	detail := &models.InterviewDetail{Username: &username}
	detail.ID = "iv-1"
	detail.Status = models.StatusCompleted
	detail.Feedback = raw

	repo := &mockFeedbackRepo{detail: detail}
	svc := NewFeedbackService(repo, &mockEvaluator{}, &mockExporter{rendered: []byte("%PDF-1.4")}, nil, nil, validator.New(), zap.NewNop())

	pdf, filename, err := svc.Report(context.Background(), "iv-1")
	require.NoError(t, err)
	assert.Equal(t, "feedback-iv-1.pdf", filename)
	assert.NotEmpty(t, pdf)
}

func TestFeedbackReportWithoutFeedback(t *testing.T) {
	detail := &models.InterviewDetail{}
	detail.ID = "iv-1"
	detail.Status = models.StatusScheduled

	repo := &mockFeedbackRepo{detail: detail}
	svc := NewFeedbackService(repo, &mockEvaluator{}, &mockExporter{}, nil, nil, validator.New(), zap.NewNop())

	_, _, err := svc.Report(context.Background(), "iv-1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInvalidState.Code, appErrors.FromError(err).Code)
}
