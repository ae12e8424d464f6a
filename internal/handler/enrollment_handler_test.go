package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
	"github.com/unitrack-app/unitrack-api/internal/service"
	"github.com/unitrack-app/unitrack-api/pkg/response"
)

type enrollmentRepoStub struct {
	enrollments map[string]*models.Enrollment
	activeCount int
	hasActive   bool
}

func (s *enrollmentRepoStub) List(ctx context.Context, filter models.EnrollmentFilter) ([]models.EnrollmentDetail, int, error) {
	return nil, 0, nil
}

func (s *enrollmentRepoStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := s.enrollments[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) FindDetailByID(ctx context.Context, id string) (*models.EnrollmentDetail, error) {
	if e, ok := s.enrollments[id]; ok {
		return &models.EnrollmentDetail{Enrollment: *e}, nil
	}
	return nil, sql.ErrNoRows
}

func (s *enrollmentRepoStub) CountActive(ctx context.Context, courseID string) (int, error) {
	return s.activeCount, nil
}

func (s *enrollmentRepoStub) ExistsActive(ctx context.Context, studentID, courseID string) (bool, error) {
	return s.hasActive, nil
}

func (s *enrollmentRepoStub) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = "enr-new"
	s.enrollments[enrollment.ID] = enrollment
	return nil
}

func (s *enrollmentRepoStub) UpdateStatus(ctx context.Context, id string, status models.EnrollmentStatus) error {
	s.enrollments[id].Status = status
	return nil
}

type courseReaderStub struct {
	courses map[string]*models.Course
}

func (s *courseReaderStub) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := s.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

type studentReaderStub struct {
	users map[string]*models.User
}

func (s *studentReaderStub) FindByID(ctx context.Context, id string) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func newEnrollmentHandler(repo *enrollmentRepoStub) *EnrollmentHandler {
	courses := &courseReaderStub{courses: map[string]*models.Course{
		"crs-1": {ID: "crs-1", Code: "CSE101", Credit: 4, Quota: 30, Active: true},
	}}
	students := &studentReaderStub{users: map[string]*models.User{
		"stu-1": {ID: "stu-1", FullName: "Ada Lovelace", Role: models.RoleStudent, Active: true},
	}}
	svc := service.NewEnrollmentService(repo, courses, students, nil, nil, nil)
	return NewEnrollmentHandler(svc)
}

func TestEnrollmentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{}}
	handler := newEnrollmentHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.CreateEnrollmentRequest{StudentID: "stu-1", CourseID: "crs-1"})
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data models.Enrollment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, models.EnrollmentStatusActive, envelope.Data.Status)
}

func TestEnrollmentHandlerCreateQuotaFull(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{}, activeCount: 30}
	handler := newEnrollmentHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.CreateEnrollmentRequest{StudentID: "stu-1", CourseID: "crs-1"})
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "QUOTA_EXCEEDED", envelope.Error.Code)
}

func TestEnrollmentHandlerCreateDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{}, hasActive: true}
	handler := newEnrollmentHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.CreateEnrollmentRequest{StudentID: "stu-1", CourseID: "crs-1"})
	req, _ := http.NewRequest(http.MethodPost, "/enrollments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "DUPLICATE_ENROLLMENT", envelope.Error.Code)
}

func TestEnrollmentHandlerUpdateStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{
		"enr-1": {ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1", Status: models.EnrollmentStatusActive},
	}}
	handler := newEnrollmentHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpdateEnrollmentStatusRequest{Status: "dropped"})
	req, _ := http.NewRequest(http.MethodPut, "/enrollments/enr-1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.UpdateStatus(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, models.EnrollmentStatusDropped, repo.enrollments["enr-1"].Status)
}

func TestEnrollmentHandlerUpdateStatusUnsupported(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &enrollmentRepoStub{enrollments: map[string]*models.Enrollment{
		"enr-1": {ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1", Status: models.EnrollmentStatusActive},
	}}
	handler := newEnrollmentHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpdateEnrollmentStatusRequest{Status: "PAUSED"})
	req, _ := http.NewRequest(http.MethodPut, "/enrollments/enr-1/status", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.UpdateStatus(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
