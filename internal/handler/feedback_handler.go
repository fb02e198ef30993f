package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mockmate-api/internal/service"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
	"github.com/noah-isme/mockmate-api/pkg/response"
)

type feedbackService interface {
	Attach(ctx context.Context, req service.AttachFeedbackRequest) (*service.FeedbackResult, error)
	Report(ctx context.Context, interviewID string) ([]byte, string, error)
}

// FeedbackHandler wires transcript evaluation endpoints.
type FeedbackHandler struct {
	service feedbackService
}

// NewFeedbackHandler constructs the handler.
func NewFeedbackHandler(service feedbackService) *FeedbackHandler {
	return &FeedbackHandler{service: service}
}

// Create godoc
// @Summary Score a finished interview transcript
// @Tags Feedback
// @Accept json
// @Produce json
// @Param payload body service.AttachFeedbackRequest true "Transcript payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /feedback/create-feedback [post]
func (h *FeedbackHandler) Create(c *gin.Context) {
	var req service.AttachFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	result, err := h.service.Attach(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Report godoc
// @Summary Download the feedback report as PDF
// @Tags Feedback
// @Produce application/pdf
// @Param id path string true "Interview ID"
// @Success 200 {file} binary
// @Security BearerAuth
// @Router /interviews/{id}/feedback/report [get]
func (h *FeedbackHandler) Report(c *gin.Context) {
	pdf, filename, err := h.service.Report(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
