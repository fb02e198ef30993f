package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/mockmate-api/internal/middleware"
	"github.com/noah-isme/mockmate-api/internal/models"
	"github.com/noah-isme/mockmate-api/internal/service"
)

// Handlers groups everything the router needs.
type Handlers struct {
	Auth      *AuthHandler
	Mentors   *MentorHandler
	Interview *InterviewHandler
	Feedback  *FeedbackHandler
}

// RegisterRoutes mounts all API routes under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	api := r.Group(prefix)

	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)

	api.GET("/mentors", h.Mentors.List)
	api.GET("/mentors/:id", h.Mentors.Get)
	api.GET("/interviews/booked-slots", h.Interview.BookedSlots)
	api.GET("/interviews/available-slots", h.Interview.AvailableSlots)

	authed := api.Group("")
	authed.Use(middleware.JWT(auth))

	authed.GET("/interviews/me", h.Interview.ListMine)
	authed.GET("/interviews/me/stats", h.Interview.Stats)
	authed.GET("/interviews/:id", h.Interview.Get)
	authed.POST("/interviews/book", h.Interview.Book)
	authed.PATCH("/interviews/:id/status", h.Interview.UpdateStatus)
	authed.POST("/ai-interviews", h.Interview.CreateAI)
	authed.POST("/feedback/create-feedback", h.Feedback.Create)
	authed.GET("/interviews/:id/feedback/report", h.Feedback.Report)

	admin := authed.Group("")
	admin.Use(middleware.RequireRoles(models.RoleAdmin))

	admin.GET("/interviews", h.Interview.List)
	admin.GET("/users", h.Auth.ListUsers)
	admin.POST("/mentors", h.Mentors.Create)
	admin.PUT("/mentors/:id", h.Mentors.Update)
	admin.DELETE("/mentors/:id", h.Mentors.Deactivate)
}
