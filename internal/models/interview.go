package models

import (
	"encoding/json"
	"time"
)

// InterviewStatus is the lifecycle state of an interview.
type InterviewStatus string

const (
	StatusScheduled InterviewStatus = "SCHEDULED"
	StatusCompleted InterviewStatus = "COMPLETED"
	StatusCancelled InterviewStatus = "CANCELLED"
)

// Valid reports whether the status is a known lifecycle state.
func (s InterviewStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are permitted.
func (s InterviewStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// InterviewType distinguishes AI-driven sessions from human mentor sessions.
type InterviewType string

const (
	TypeAI    InterviewType = "AI"
	TypeHuman InterviewType = "HUMAN"
)

// DefaultDuration is used when neither the request nor the category
// lookup supplies a session length.
const DefaultDuration = 60

// CategoryDurations maps interview categories to session length in minutes.
var CategoryDurations = map[string]int{
	"technical":     60,
	"hr":            30,
	"mock":          45,
	"system-design": 60,
}

// Interview is the central booking record.
type Interview struct {
	ID        string          `db:"id" json:"id"`
	UserID    string          `db:"user_id" json:"user_id"`
	MentorID  *string         `db:"mentor_id" json:"mentor_id,omitempty"`
	Date      time.Time       `db:"date" json:"date"`
	Time      string          `db:"time" json:"time"`
	Type      InterviewType   `db:"type" json:"type"`
	Category  string          `db:"category" json:"category,omitempty"`
	Duration  int             `db:"duration" json:"duration"`
	Status    InterviewStatus `db:"status" json:"status"`
	Role      string          `db:"role" json:"role,omitempty"`
	Level     string          `db:"level" json:"level,omitempty"`
	TechStack StringList      `db:"techstack" json:"techstack,omitempty"`
	Questions StringList      `db:"questions" json:"questions,omitempty"`
	Feedback  json.RawMessage `db:"feedback" json:"feedback,omitempty"`
	Score     *int            `db:"score" json:"score,omitempty"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}

// InterviewDetail joins an interview with user and mentor display data.
type InterviewDetail struct {
	Interview
	Username       *string `db:"username" json:"username,omitempty"`
	UserEmail      *string `db:"user_email" json:"user_email,omitempty"`
	MentorName     *string `db:"mentor_name" json:"mentor_name,omitempty"`
	MentorImageURL *string `db:"mentor_image_url" json:"mentor_image_url,omitempty"`
}

// InterviewStats aggregates per-user counters.
type InterviewStats struct {
	Total     int `db:"total" json:"total"`
	Completed int `db:"completed" json:"completed"`
}

// TranscriptTurn is a single exchange in a finished interview session.
type TranscriptTurn struct {
	Role    string `json:"role" validate:"required"`
	Content string `json:"content" validate:"required"`
}

// CategoryScore is one of the five fixed evaluation categories.
type CategoryScore struct {
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Comment string `json:"comment"`
}

// Feedback is the structured evaluation attached to a completed interview.
type Feedback struct {
	TotalScore          int             `json:"totalScore"`
	CategoryScores      []CategoryScore `json:"categoryScores"`
	Strengths           []string        `json:"strengths"`
	AreasForImprovement []string        `json:"areasForImprovement"`
	FinalAssessment     string          `json:"finalAssessment"`
}

// InterviewFilter scopes interview listing queries.
type InterviewFilter struct {
	UserID   string
	MentorID string
	Status   string
	Page     int
	PageSize int
}

// SlotConflictError carries the occupied slot that blocked a booking.
type SlotConflictError struct {
	MentorID string
	Date     string
	Time     string
}

// Error implements the error interface.
func (e *SlotConflictError) Error() string {
	return "slot " + e.Time + " on " + e.Date + " is already booked for mentor " + e.MentorID
}
