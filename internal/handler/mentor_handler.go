package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mockmate-api/internal/models"
	"github.com/noah-isme/mockmate-api/internal/service"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
	"github.com/noah-isme/mockmate-api/pkg/response"
)

type mentorService interface {
	List(ctx context.Context, filter models.MentorFilter) ([]models.Mentor, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Mentor, error)
	Create(ctx context.Context, req service.MentorRequest) (*models.Mentor, error)
	Update(ctx context.Context, id string, req service.MentorRequest) (*models.Mentor, error)
	Deactivate(ctx context.Context, id string) error
}

// MentorHandler wires the mentor directory to HTTP endpoints.
type MentorHandler struct {
	service mentorService
}

// NewMentorHandler constructs the handler.
func NewMentorHandler(service mentorService) *MentorHandler {
	return &MentorHandler{service: service}
}

// List godoc
// @Summary List mentors
// @Tags Mentors
// @Produce json
// @Param search query string false "Name or speciality search"
// @Param active query bool false "Filter by active flag"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /mentors [get]
func (h *MentorHandler) List(c *gin.Context) {
	filter := models.MentorFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	switch c.Query("active") {
	case "true":
		active := true
		filter.Active = &active
	case "false":
		active := false
		filter.Active = &active
	}

	mentors, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, pagination)
}

// Get godoc
// @Summary Get one mentor
// @Tags Mentors
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /mentors/{id} [get]
func (h *MentorHandler) Get(c *gin.Context) {
	mentor, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Create godoc
// @Summary Register a mentor
// @Tags Mentors
// @Accept json
// @Produce json
// @Param payload body service.MentorRequest true "Mentor payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors [post]
func (h *MentorHandler) Create(c *gin.Context) {
	var req service.MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	mentor, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// Update godoc
// @Summary Update a mentor profile
// @Tags Mentors
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Param payload body service.MentorRequest true "Mentor payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /mentors/{id} [put]
func (h *MentorHandler) Update(c *gin.Context) {
	var req service.MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}

	mentor, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// Deactivate godoc
// @Summary Remove a mentor from the bookable pool
// @Tags Mentors
// @Param id path string true "Mentor ID"
// @Success 204
// @Security BearerAuth
// @Router /mentors/{id} [delete]
func (h *MentorHandler) Deactivate(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
