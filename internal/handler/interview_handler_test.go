package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/mockmate-api/internal/middleware"
	"github.com/noah-isme/mockmate-api/internal/models"
	"github.com/noah-isme/mockmate-api/internal/service"
	appErrors "github.com/noah-isme/mockmate-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeInterviewSrv struct {
	interviews []models.InterviewDetail
	detail     *models.InterviewDetail
	err        error
	lastUserID string
}

func (f *fakeInterviewSrv) List(ctx context.Context, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error) {
	return f.interviews, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.interviews)}, f.err
}

func (f *fakeInterviewSrv) ListByUser(ctx context.Context, userID string, filter models.InterviewFilter) ([]models.InterviewDetail, *models.Pagination, error) {
	f.lastUserID = userID
	return f.interviews, &models.Pagination{Page: 1, PageSize: 20, TotalCount: len(f.interviews)}, f.err
}

func (f *fakeInterviewSrv) Get(ctx context.Context, id string) (*models.InterviewDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeBookingSrv struct {
	detail  *models.InterviewDetail
	err     error
	lastReq service.BookRequest
}

func (f *fakeBookingSrv) Book(ctx context.Context, req service.BookRequest) (*models.InterviewDetail, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeLifecycleSrv struct {
	detail     *models.InterviewDetail
	err        error
	lastStatus models.InterviewStatus
}

func (f *fakeLifecycleSrv) SetStatus(ctx context.Context, id string, status models.InterviewStatus) (*models.InterviewDetail, error) {
	f.lastStatus = status
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeStatsSrv struct {
	stats      *models.InterviewStats
	hit        bool
	err        error
	lastUserID string
}

func (f *fakeStatsSrv) ForUser(ctx context.Context, userID string) (*models.InterviewStats, bool, error) {
	f.lastUserID = userID
	return f.stats, f.hit, f.err
}

type fakeAISrv struct {
	detail *models.InterviewDetail
	err    error
}

func (f *fakeAISrv) CreateAIInterview(ctx context.Context, req service.AIInterviewRequest) (*models.InterviewDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.detail, nil
}

type fakeAvailabilitySrv struct {
	booked    []string
	available []string
	err       error
	lastQuery service.SlotQuery
}

func (f *fakeAvailabilitySrv) BookedSlots(ctx context.Context, query service.SlotQuery) ([]string, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.booked, nil
}

func (f *fakeAvailabilitySrv) AvailableSlots(ctx context.Context, query service.SlotQuery) ([]string, error) {
	f.lastQuery = query
	if f.err != nil {
		return nil, f.err
	}
	return f.available, nil
}

func newTestContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, rec
}

func authenticate(c *gin.Context, userID string, role models.UserRole) {
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: userID, Role: role})
}

func TestInterviewHandlerBook(t *testing.T) {
	booking := &fakeBookingSrv{detail: &models.InterviewDetail{}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, booking, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPost, "/interviews", `{"mentorId":"m-1","date":"2026-09-01","time":"10:00"}`)
	authenticate(c, "u-1", models.RoleUser)

	handler.Book(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "u-1", booking.lastReq.UserID)
	assert.Equal(t, "m-1", booking.lastReq.MentorID)
}

func TestInterviewHandlerBookConflict(t *testing.T) {
	booking := &fakeBookingSrv{err: appErrors.Clone(appErrors.ErrConflict, "slot already booked")}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, booking, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPost, "/interviews", `{"mentorId":"m-1","date":"2026-09-01","time":"10:00"}`)
	authenticate(c, "u-1", models.RoleUser)

	handler.Book(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "CONFLICT", envelope.Error["code"])
}

func TestInterviewHandlerBookUnauthenticated(t *testing.T) {
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPost, "/interviews", `{"date":"2026-09-01","time":"10:00"}`)

	handler.Book(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInterviewHandlerUpdateStatus(t *testing.T) {
	lifecycle := &fakeLifecycleSrv{detail: &models.InterviewDetail{}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, lifecycle, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPatch, "/interviews/iv-1/status", `{"status":"completed"}`)
	c.Params = gin.Params{{Key: "id", Value: "iv-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.StatusCompleted, lifecycle.lastStatus)
}

func TestInterviewHandlerUpdateStatusInvalidState(t *testing.T) {
	lifecycle := &fakeLifecycleSrv{err: appErrors.Clone(appErrors.ErrInvalidState, "interview already finalized")}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, lifecycle, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPatch, "/interviews/iv-1/status", `{"status":"CANCELLED"}`)
	c.Params = gin.Params{{Key: "id", Value: "iv-1"}}

	handler.UpdateStatus(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "INVALID_STATE", envelope.Error["code"])
}

func TestInterviewHandlerStats(t *testing.T) {
	stats := &fakeStatsSrv{stats: &models.InterviewStats{Total: 4, Completed: 2}, hit: true}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, stats, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodGet, "/interviews/stats", "")
	authenticate(c, "u-1", models.RoleUser)

	handler.Stats(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", stats.lastUserID)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(4), envelope.Data["total"])
	assert.Equal(t, float64(2), envelope.Data["completed"])
	assert.Equal(t, true, envelope.Meta["cache_hit"])
}

func TestInterviewHandlerStatsAdminOverridesUser(t *testing.T) {
	stats := &fakeStatsSrv{stats: &models.InterviewStats{}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, stats, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, _ := newTestContext(t, http.MethodGet, "/interviews/stats?userId=u-2", "")
	authenticate(c, "admin-1", models.RoleAdmin)

	handler.Stats(c)

	assert.Equal(t, "u-2", stats.lastUserID)
}

func TestInterviewHandlerStatsUserCannotOverride(t *testing.T) {
	stats := &fakeStatsSrv{stats: &models.InterviewStats{}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, stats, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, _ := newTestContext(t, http.MethodGet, "/interviews/stats?userId=u-2", "")
	authenticate(c, "u-1", models.RoleUser)

	handler.Stats(c)

	assert.Equal(t, "u-1", stats.lastUserID)
}

func TestInterviewHandlerListMine(t *testing.T) {
	interviews := &fakeInterviewSrv{interviews: []models.InterviewDetail{{}}}
	handler := NewInterviewHandler(interviews, &fakeBookingSrv{}, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodGet, "/interviews/mine", "")
	authenticate(c, "u-1", models.RoleUser)

	handler.ListMine(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-1", interviews.lastUserID)
}

func TestInterviewHandlerBookedSlots(t *testing.T) {
	availability := &fakeAvailabilitySrv{booked: []string{"09:30", "10:00"}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, availability)

	c, rec := newTestContext(t, http.MethodGet, "/interviews/booked-slots?mentorId=m-1&date=2026-09-01", "")

	handler.BookedSlots(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "m-1", availability.lastQuery.MentorID)
	assert.Equal(t, "2026-09-01", availability.lastQuery.Date)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, []interface{}{"09:30", "10:00"}, envelope.Data["slots"])
}

func TestInterviewHandlerAvailableSlotsValidation(t *testing.T) {
	availability := &fakeAvailabilitySrv{err: appErrors.Clone(appErrors.ErrValidation, "mentorId and date required")}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, &fakeStatsSrv{}, &fakeAISrv{}, availability)

	c, rec := newTestContext(t, http.MethodGet, "/interviews/available-slots", "")

	handler.AvailableSlots(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestInterviewHandlerCreateAI(t *testing.T) {
	ai := &fakeAISrv{detail: &models.InterviewDetail{}}
	handler := NewInterviewHandler(&fakeInterviewSrv{}, &fakeBookingSrv{}, &fakeLifecycleSrv{}, &fakeStatsSrv{}, ai, &fakeAvailabilitySrv{})

	c, rec := newTestContext(t, http.MethodPost, "/ai-interviews", `{"role":"Backend Engineer","level":"mid"}`)
	authenticate(c, "u-1", models.RoleUser)

	handler.CreateAI(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}
