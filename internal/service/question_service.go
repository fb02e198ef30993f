package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
	"github.com/noah-isme/mockmate-api/pkg/genai"
)

const defaultQuestionAmount = 5

type interviewCreator interface {
	Create(ctx context.Context, interview *models.Interview) error
	FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error)
}

type questionGenerator interface {
	GenerateQuestions(ctx context.Context, req genai.QuestionRequest) ([]string, error)
}

// AIInterviewRequest describes payload for generating an AI-led session.
type AIInterviewRequest struct {
	UserID    string   `json:"userId" validate:"required"`
	Role      string   `json:"role" validate:"required"`
	Level     string   `json:"level" validate:"required"`
	TechStack []string `json:"techstack" validate:"omitempty,dive,required"`
	Focus     string   `json:"type" validate:"omitempty,oneof=technical behavioural mixed"`
	Amount    int      `json:"amount" validate:"omitempty,min=1,max=20"`
}

// QuestionService prepares AI interview sessions with generated questions.
type QuestionService struct {
	repo      interviewCreator
	generator questionGenerator
	stats     statsInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionService instantiates QuestionService.
func NewQuestionService(repo interviewCreator, generator questionGenerator, stats statsInvalidator, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{repo: repo, generator: generator, stats: stats, validator: validate, logger: logger}
}

// CreateAIInterview asks the sidecar for questions and stores a ready
// SCHEDULED session dated today. AI sessions never touch the mentor
// slot conflict path.
func (s *QuestionService) CreateAIInterview(ctx context.Context, req AIInterviewRequest) (*models.InterviewDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid ai interview payload")
	}

	amount := req.Amount
	if amount == 0 {
		amount = defaultQuestionAmount
	}

	questions, err := s.generator.GenerateQuestions(ctx, genai.QuestionRequest{
		Role:      req.Role,
		Level:     req.Level,
		TechStack: req.TechStack,
		Focus:     req.Focus,
		Amount:    amount,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	interview := models.Interview{
		UserID:    req.UserID,
		Date:      now.Truncate(24 * time.Hour),
		Time:      now.Format("15:04"),
		Type:      models.TypeAI,
		Category:  req.Focus,
		Duration:  models.DefaultDuration,
		Status:    models.StatusScheduled,
		Role:      req.Role,
		Level:     req.Level,
		TechStack: models.StringList(req.TechStack),
		Questions: models.StringList(questions),
	}

	if err := s.repo.Create(ctx, &interview); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create ai interview")
	}

	if s.stats != nil {
		s.stats.InvalidateUser(ctx, req.UserID)
	}
	s.logger.Info("ai interview created",
		zap.String("interview_id", interview.ID),
		zap.String("user_id", req.UserID),
		zap.Int("questions", len(questions)),
	)

	detail, err := s.repo.FindDetailByID(ctx, interview.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load ai interview")
	}
	return detail, nil
}
