package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/mockmate-api/internal/models"
)

const interviewColumns = "id, user_id, mentor_id, date, time, type, category, duration, status, role, level, techstack, questions, feedback, score, created_at, updated_at"

const interviewDetailColumns = `i.id, i.user_id, i.mentor_id, i.date, i.time, i.type, i.category, i.duration, i.status, i.role, i.level, i.techstack, i.questions, i.feedback, i.score, i.created_at, i.updated_at,
	u.username AS username, u.email AS user_email, m.name AS mentor_name, m.image_url AS mentor_image_url`

// InterviewRepository provides persistence for interviews.
type InterviewRepository struct {
	db *sqlx.DB
}

// NewInterviewRepository creates a new interview repository.
func NewInterviewRepository(db *sqlx.DB) *InterviewRepository {
	return &InterviewRepository{db: db}
}

// List returns interviews joined with user/mentor display data.
func (r *InterviewRepository) List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, int, error) {
	base := "FROM interviews i JOIN users u ON u.id = i.user_id LEFT JOIN mentors m ON m.id = i.mentor_id WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.UserID != "" {
		conditions = append(conditions, fmt.Sprintf("i.user_id = $%d", len(args)+1))
		args = append(args, filter.UserID)
	}
	if filter.MentorID != "" {
		conditions = append(conditions, fmt.Sprintf("i.mentor_id = $%d", len(args)+1))
		args = append(args, filter.MentorID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("i.status = $%d", len(args)+1))
		args = append(args, filter.Status)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY i.date ASC, i.time ASC LIMIT %d OFFSET %d", interviewDetailColumns, base, size, offset)
	var interviews []models.InterviewDetail
	if err := r.db.SelectContext(ctx, &interviews, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list interviews: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count interviews: %w", err)
	}

	return interviews, total, nil
}

// FindByID loads an interview by id.
func (r *InterviewRepository) FindByID(ctx context.Context, id string) (*models.Interview, error) {
	query := fmt.Sprintf("SELECT %s FROM interviews WHERE id = $1", interviewColumns)
	var interview models.Interview
	if err := r.db.GetContext(ctx, &interview, query, id); err != nil {
		return nil, err
	}
	return &interview, nil
}

// FindDetailByID loads an interview joined with display data.
func (r *InterviewRepository) FindDetailByID(ctx context.Context, id string) (*models.InterviewDetail, error) {
	query := fmt.Sprintf("SELECT %s FROM interviews i JOIN users u ON u.id = i.user_id LEFT JOIN mentors m ON m.id = i.mentor_id WHERE i.id = $1", interviewDetailColumns)
	var detail models.InterviewDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// BookedTimes returns every time value booked for a mentor on a date,
// regardless of status.
func (r *InterviewRepository) BookedTimes(ctx context.Context, mentorID string, date time.Time) ([]string, error) {
	const query = `SELECT time FROM interviews WHERE mentor_id = $1 AND date = $2 ORDER BY time ASC`
	var times []string
	if err := r.db.SelectContext(ctx, &times, query, mentorID, date); err != nil {
		return nil, fmt.Errorf("list booked times: %w", err)
	}
	return times, nil
}

// Create stores a new interview record.
func (r *InterviewRepository) Create(ctx context.Context, interview *models.Interview) error {
	prepareInterview(interview)

	const query = `INSERT INTO interviews (id, user_id, mentor_id, date, time, type, category, duration, status, role, level, techstack, questions, created_at, updated_at)
		VALUES (:id, :user_id, :mentor_id, :date, :time, :type, :category, :duration, :status, :role, :level, :techstack, :questions, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, interview); err != nil {
		return fmt.Errorf("create interview: %w", err)
	}
	return nil
}

// CreateIfSlotFree inserts a mentor booking only when no non-cancelled
// interview occupies the same (mentor, date, time). Returns false when
// the slot was taken. The statement is atomic; the partial unique index
// on the same tuple backs it against concurrent writers.
func (r *InterviewRepository) CreateIfSlotFree(ctx context.Context, interview *models.Interview) (bool, error) {
	prepareInterview(interview)

	const query = `INSERT INTO interviews (id, user_id, mentor_id, date, time, type, category, duration, status, role, level, techstack, questions, created_at, updated_at)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15
		WHERE NOT EXISTS (
			SELECT 1 FROM interviews WHERE mentor_id = $3 AND date = $4 AND time = $5 AND status <> 'CANCELLED'
		)`
	result, err := r.db.ExecContext(ctx, query,
		interview.ID, interview.UserID, interview.MentorID, interview.Date, interview.Time,
		interview.Type, interview.Category, interview.Duration, interview.Status,
		interview.Role, interview.Level, interview.TechStack, interview.Questions,
		interview.CreatedAt, interview.UpdatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("create interview if slot free: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("create interview if slot free: %w", err)
	}
	return affected == 1, nil
}

// UpdateStatus transitions an interview out of SCHEDULED. Returns the
// number of rows changed; zero means the row was no longer SCHEDULED.
func (r *InterviewRepository) UpdateStatus(ctx context.Context, id string, status models.InterviewStatus) (int64, error) {
	const query = `UPDATE interviews SET status = $2, updated_at = $3 WHERE id = $1 AND status = 'SCHEDULED'`
	result, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("update interview status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update interview status: %w", err)
	}
	return affected, nil
}

// AttachFeedback writes score, feedback and the COMPLETED status in one
// statement so the three can never diverge. Zero rows means the
// interview was not SCHEDULED anymore.
func (r *InterviewRepository) AttachFeedback(ctx context.Context, id string, score int, feedback []byte) (int64, error) {
	const query = `UPDATE interviews SET score = $2, feedback = $3, status = 'COMPLETED', updated_at = $4 WHERE id = $1 AND status = 'SCHEDULED'`
	result, err := r.db.ExecContext(ctx, query, id, score, feedback, time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("attach feedback: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("attach feedback: %w", err)
	}
	return affected, nil
}

// StatsByUser aggregates interview counters for one user.
func (r *InterviewRepository) StatsByUser(ctx context.Context, userID string) (*models.InterviewStats, error) {
	const query = `SELECT COUNT(*) AS total, COUNT(*) FILTER (WHERE status = 'COMPLETED') AS completed FROM interviews WHERE user_id = $1`
	var stats models.InterviewStats
	if err := r.db.GetContext(ctx, &stats, query, userID); err != nil {
		return nil, fmt.Errorf("interview stats: %w", err)
	}
	return &stats, nil
}

// CountScheduledByMentor reports how many SCHEDULED interviews still
// reference a mentor.
func (r *InterviewRepository) CountScheduledByMentor(ctx context.Context, mentorID string) (int, error) {
	const query = `SELECT COUNT(*) FROM interviews WHERE mentor_id = $1 AND status = 'SCHEDULED'`
	var count int
	if err := r.db.GetContext(ctx, &count, query, mentorID); err != nil {
		return 0, fmt.Errorf("count scheduled interviews: %w", err)
	}
	return count, nil
}

func prepareInterview(interview *models.Interview) {
	if interview.ID == "" {
		interview.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if interview.CreatedAt.IsZero() {
		interview.CreatedAt = now
	}
	interview.UpdatedAt = now
	if interview.Status == "" {
		interview.Status = models.StatusScheduled
	}
}
