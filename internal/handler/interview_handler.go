package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mockmate-api/internal/middleware"
	"github.com/noah-isme/mockmate-api/internal/models"
	"github.com/noah-isme/mockmate-api/internal/service"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
	"github.com/noah-isme/mockmate-api/pkg/response"
)

type interviewService interface {
	List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error)
	ListByUser(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.InterviewDetail, error)
}

type bookingService interface {
	Book(ctx context.Context, req service.BookRequest) (*models.InterviewDetail, error)
}

type lifecycleService interface {
	SetStatus(ctx context.Context, id string, status models.InterviewStatus) (*models.InterviewDetail, error)
}

type statsService interface {
	ForUser(ctx context.Context, userID string) (*models.InterviewStats, bool, error)
}

type aiInterviewService interface {
	CreateAIInterview(ctx context.Context, req service.AIInterviewRequest) (*models.InterviewDetail, error)
}

type availabilityService interface {
	BookedSlots(ctx context.Context, query service.SlotQuery) ([]string, error)
	AvailableSlots(ctx context.Context, query service.SlotQuery) ([]string, error)
}

// InterviewHandler wires interview booking and lifecycle endpoints.
type InterviewHandler struct {
	interviews   interviewService
	booking      bookingService
	lifecycle    lifecycleService
	stats        statsService
	ai           aiInterviewService
	availability availabilityService
}

// NewInterviewHandler constructs the handler.
func NewInterviewHandler(interviews interviewService, booking bookingService, lifecycle lifecycleService, stats statsService, ai aiInterviewService, availability availabilityService) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, booking: booking, lifecycle: lifecycle, stats: stats, ai: ai, availability: availability}
}

// List godoc
// @Summary List interviews
// @Tags Interviews
// @Produce json
// @Param userId query string false "Filter by user"
// @Param mentorId query string false "Filter by mentor"
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews [get]
func (h *InterviewHandler) List(c *gin.Context) {
	filter := models.InterviewFilter{
		UserID:   c.Query("userId"),
		MentorID: c.Query("mentorId"),
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	interviews, pagination, err := h.interviews.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interviews, pagination)
}

// ListMine godoc
// @Summary List the authenticated user's interviews
// @Tags Interviews
// @Produce json
// @Param status query string false "Filter by status"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews/me [get]
func (h *InterviewHandler) ListMine(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	userID := claims.UserID
	if requested := c.Query("userId"); requested != "" && claims.Role == models.RoleAdmin {
		userID = requested
	}

	filter := models.InterviewFilter{
		Status:   c.Query("status"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}

	interviews, pagination, err := h.interviews.ListByUser(c.Request.Context(), userID, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, interviews, pagination)
}

// Get godoc
// @Summary Get one interview
// @Tags Interviews
// @Produce json
// @Param id path string true "Interview ID"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews/{id} [get]
func (h *InterviewHandler) Get(c *gin.Context) {
	detail, err := h.interviews.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Book godoc
// @Summary Book an interview slot
// @Tags Interviews
// @Accept json
// @Produce json
// @Param payload body service.BookRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews/book [post]
func (h *InterviewHandler) Book(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	if req.UserID == "" || claims.Role != models.RoleAdmin {
		req.UserID = claims.UserID
	}

	detail, err := h.booking.Book(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus godoc
// @Summary Transition an interview to COMPLETED or CANCELLED
// @Tags Interviews
// @Accept json
// @Produce json
// @Param id path string true "Interview ID"
// @Param payload body statusUpdateRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews/{id}/status [patch]
func (h *InterviewHandler) UpdateStatus(c *gin.Context) {
	var req statusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	status := models.InterviewStatus(strings.ToUpper(strings.TrimSpace(req.Status)))
	detail, err := h.lifecycle.SetStatus(c.Request.Context(), c.Param("id"), status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// Stats godoc
// @Summary Interview counters for the authenticated user
// @Tags Interviews
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /interviews/me/stats [get]
func (h *InterviewHandler) Stats(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	userID := claims.UserID
	if requested := c.Query("userId"); requested != "" && claims.Role == models.RoleAdmin {
		userID = requested
	}

	stats, cacheHit, err := h.stats.ForUser(c.Request.Context(), userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil, map[string]interface{}{"cache_hit": cacheHit})
}

// BookedSlots godoc
// @Summary List booked time slots for a mentor-day
// @Tags Interviews
// @Produce json
// @Param mentorId query string true "Mentor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /interviews/booked-slots [get]
func (h *InterviewHandler) BookedSlots(c *gin.Context) {
	slots, err := h.availability.BookedSlots(c.Request.Context(), service.SlotQuery{
		MentorID: strings.TrimSpace(c.Query("mentorId")),
		Date:     strings.TrimSpace(c.Query("date")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"slots": slots}, nil)
}

// AvailableSlots godoc
// @Summary List bookable time slots for a mentor-day
// @Tags Interviews
// @Produce json
// @Param mentorId query string true "Mentor ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /interviews/available-slots [get]
func (h *InterviewHandler) AvailableSlots(c *gin.Context) {
	slots, err := h.availability.AvailableSlots(c.Request.Context(), service.SlotQuery{
		MentorID: strings.TrimSpace(c.Query("mentorId")),
		Date:     strings.TrimSpace(c.Query("date")),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"slots": slots}, nil)
}

// CreateAI godoc
// @Summary Generate an AI-led interview with questions
// @Tags Interviews
// @Accept json
// @Produce json
// @Param payload body service.AIInterviewRequest true "AI interview payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /ai-interviews [post]
func (h *InterviewHandler) CreateAI(c *gin.Context) {
	claims := middleware.CurrentUser(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AIInterviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	req.UserID = claims.UserID

	detail, err := h.ai.CreateAIInterview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, detail)
}
