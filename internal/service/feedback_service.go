package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type feedbackRepository interface {
	FindByID(ctx context.Context, id string) (*models.Interview, error)
	FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error)
	AttachFeedback(ctx context.Context, id string, score int, feedback []byte) (int64, error)
}

type transcriptEvaluator interface {
	EvaluateTranscript(ctx context.Context, transcript []models.TranscriptTurn) (*models.Feedback, error)
}

type feedbackExporter interface {
	RenderFeedback(title string, feedback *models.Feedback) ([]byte, error)
}

// AttachFeedbackRequest describes payload for scoring a finished session.
type AttachFeedbackRequest struct {
	InterviewID string                  `json:"interviewId" validate:"required"`
	Transcript  []models.TranscriptTurn `json:"transcript" validate:"required,min=1,dive"`
}

// FeedbackResult is returned after a successful evaluation.
type FeedbackResult struct {
	InterviewID string           `json:"interviewId"`
	Score       int              `json:"score"`
	Feedback    *models.Feedback `json:"feedback"`
}

// FeedbackService evaluates transcripts and attaches structured results.
type FeedbackService struct {
	repo      feedbackRepository
	evaluator transcriptEvaluator
	exporter  feedbackExporter
	stats     statsInvalidator
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService instantiates FeedbackService.
func NewFeedbackService(repo feedbackRepository, evaluator transcriptEvaluator, exporter feedbackExporter, stats statsInvalidator, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, evaluator: evaluator, exporter: exporter, stats: stats, metrics: metrics, validator: validate, logger: logger}
}

// Attach scores the transcript and writes score, feedback and the
// COMPLETED status in a single statement. A malformed evaluator
// response leaves the interview untouched.
func (s *FeedbackService) Attach(ctx context.Context, req AttachFeedbackRequest) (*FeedbackResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "interviewId and transcript required")
	}

	interview, err := s.repo.FindByID(ctx, req.InterviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	if interview.Status == models.StatusCompleted {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "interview already scored")
	}
	if interview.Status == models.StatusCancelled {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "cancelled interviews cannot be scored")
	}

	feedback, err := s.evaluator.EvaluateTranscript(ctx, req.Transcript)
	if err != nil {
		s.recordEvaluation(evaluationOutcome(err))
		return nil, err
	}

	payload, err := json.Marshal(feedback)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode feedback")
	}

	affected, err := s.repo.AttachFeedback(ctx, req.InterviewID, feedback.TotalScore, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach feedback")
	}
	if affected == 0 {
		return nil, appErrors.Clone(appErrors.ErrInvalidState, "interview already finalized")
	}

	s.recordEvaluation("scored")
	if s.stats != nil {
		s.stats.InvalidateUser(ctx, interview.UserID)
	}
	s.logger.Info("feedback attached",
		zap.String("interview_id", req.InterviewID),
		zap.Int("score", feedback.TotalScore),
	)

	return &FeedbackResult{InterviewID: req.InterviewID, Score: feedback.TotalScore, Feedback: feedback}, nil
}

// Report renders a completed interview's feedback as a PDF.
func (s *FeedbackService) Report(ctx context.Context, interviewID string) ([]byte, string, error) {
	if interviewID == "" {
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "interview id required")
	}

	detail, err := s.repo.FindDetailByID(ctx, interviewID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "interview not found")
		}
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load interview")
	}
	if detail.Status != models.StatusCompleted || len(detail.Feedback) == 0 {
		return nil, "", appErrors.Clone(appErrors.ErrInvalidState, "interview has no feedback yet")
	}

	var feedback models.Feedback
	if err := json.Unmarshal(detail.Feedback, &feedback); err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored feedback unreadable")
	}

	title := "Interview Feedback"
	if detail.Username != nil {
		title = fmt.Sprintf("Interview Feedback - %s", *detail.Username)
	}
	pdf, err := s.exporter.RenderFeedback(title, &feedback)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	filename := fmt.Sprintf("feedback-%s.pdf", interviewID)
	return pdf, filename, nil
}

func (s *FeedbackService) recordEvaluation(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordEvaluation(outcome)
	}
}

func evaluationOutcome(err error) string {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrEvaluationParse.Code:
		return "parse_error"
	case appErrors.ErrUpstream.Code:
		return "upstream_error"
	default:
		return "error"
	}
}
