package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/mockmate-api/internal/models"
	"github.com/noah-isme/mockmate-api/pkg/config"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

// Client talks to the Gemini-backed question/evaluation sidecar over
// plain JSON HTTP. The sidecar is opaque: this client only enforces the
// shape of what comes back.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
	logger  *zap.Logger
}

// NewClient constructs a sidecar client.
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
		http:    &http.Client{Timeout: cfg.Timeout},
		logger:  logger,
	}
}

// QuestionRequest describes a question-generation call.
type QuestionRequest struct {
	Role      string   `json:"role"`
	Level     string   `json:"level"`
	TechStack []string `json:"techstack"`
	Focus     string   `json:"focus"`
	Amount    int      `json:"amount"`
}

type questionPayload struct {
	Model string `json:"model"`
	QuestionRequest
}

type evaluatePayload struct {
	Model      string `json:"model"`
	Transcript string `json:"transcript"`
}

// GenerateQuestions asks the sidecar for an ordered list of interview
// questions. The response body must be a JSON array of strings.
func (c *Client) GenerateQuestions(ctx context.Context, req QuestionRequest) ([]string, error) {
	body, err := c.post(ctx, "/v1/questions", questionPayload{Model: c.model, QuestionRequest: req})
	if err != nil {
		return nil, err
	}

	var questions []string
	if err := json.Unmarshal(body, &questions); err != nil {
		c.logger.Warn("question response not a JSON array", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrEvaluationParse.Code, appErrors.ErrEvaluationParse.Status, "question response malformed")
	}
	if len(questions) == 0 {
		return nil, appErrors.Clone(appErrors.ErrEvaluationParse, "question response empty")
	}
	return questions, nil
}

// EvaluateTranscript scores a finished session. The transcript is sent
// pre-formatted, one "- role: content" line per turn, matching what the
// evaluation prompt expects.
func (c *Client) EvaluateTranscript(ctx context.Context, transcript []models.TranscriptTurn) (*models.Feedback, error) {
	body, err := c.post(ctx, "/v1/evaluate", evaluatePayload{Model: c.model, Transcript: FormatTranscript(transcript)})
	if err != nil {
		return nil, err
	}

	var feedback models.Feedback
	if err := json.Unmarshal(body, &feedback); err != nil {
		c.logger.Warn("evaluation response not valid JSON", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrEvaluationParse.Code, appErrors.ErrEvaluationParse.Status, "evaluation response malformed")
	}
	if err := ValidateFeedback(&feedback); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrEvaluationParse.Code, appErrors.ErrEvaluationParse.Status, "evaluation response failed schema validation")
	}
	return &feedback, nil
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode sidecar request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build sidecar request")
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "ai sidecar unreachable")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "failed to read sidecar response")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("ai sidecar returned error status", zap.Int("status", resp.StatusCode))
		return nil, appErrors.Clone(appErrors.ErrUpstream, fmt.Sprintf("ai sidecar returned status %d", resp.StatusCode))
	}
	return body, nil
}

// FormatTranscript renders turns the way the evaluation prompt expects.
func FormatTranscript(transcript []models.TranscriptTurn) string {
	var b strings.Builder
	for _, turn := range transcript {
		b.WriteString("- ")
		b.WriteString(turn.Role)
		b.WriteString(": ")
		b.WriteString(turn.Content)
		b.WriteString("\n")
	}
	return b.String()
}

// EvaluationCategories are the fixed category names, in report order.
var EvaluationCategories = []string{
	"Communication Skills",
	"Technical Knowledge",
	"Problem-Solving",
	"Cultural & Role Fit",
	"Confidence & Clarity",
}

// ValidateFeedback rejects any deviation from the fixed feedback shape
// rather than trusting whatever the model produced.
func ValidateFeedback(f *models.Feedback) error {
	if f.TotalScore < 0 || f.TotalScore > 100 {
		return fmt.Errorf("totalScore %d out of range", f.TotalScore)
	}
	if len(f.CategoryScores) != len(EvaluationCategories) {
		return fmt.Errorf("expected %d category scores, got %d", len(EvaluationCategories), len(f.CategoryScores))
	}
	for i, category := range f.CategoryScores {
		if category.Name != EvaluationCategories[i] {
			return fmt.Errorf("unexpected category %q at position %d", category.Name, i)
		}
		if category.Score < 0 || category.Score > 100 {
			return fmt.Errorf("category %q score %d out of range", category.Name, category.Score)
		}
	}
	if f.FinalAssessment == "" {
		return fmt.Errorf("missing final assessment")
	}
	return nil
}
