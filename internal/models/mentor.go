package models

import "time"

// Mentor represents a human interviewer available for booking.
type Mentor struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Phone      string    `db:"phone" json:"phone,omitempty"`
	Speciality string    `db:"speciality" json:"speciality"`
	Bio        string    `db:"bio" json:"bio,omitempty"`
	ImageURL   string    `db:"image_url" json:"image_url,omitempty"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`

	// InterviewCount is derived from the interviews table, never stored.
	InterviewCount int `db:"interview_count" json:"interview_count"`
}

// MentorFilter scopes mentor listing queries.
type MentorFilter struct {
	Search   string
	Active   *bool
	Page     int
	PageSize int
}
