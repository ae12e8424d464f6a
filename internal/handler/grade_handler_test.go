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

type gradeRepoStub struct {
	grades map[string]*models.Grade
}

func (s *gradeRepoStub) FindByEnrollment(ctx context.Context, enrollmentID string) (*models.Grade, error) {
	if g, ok := s.grades[enrollmentID]; ok {
		return g, nil
	}
	return nil, sql.ErrNoRows
}

func (s *gradeRepoStub) Upsert(ctx context.Context, grade *models.Grade) error {
	if s.grades == nil {
		s.grades = make(map[string]*models.Grade)
	}
	if grade.ID == "" {
		grade.ID = "grd-1"
	}
	s.grades[grade.EnrollmentID] = grade
	return nil
}

func (s *gradeRepoStub) ListByCourse(ctx context.Context, courseID string) ([]models.GradeDetail, error) {
	return nil, nil
}

func (s *gradeRepoStub) Delete(ctx context.Context, enrollmentID string) error {
	delete(s.grades, enrollmentID)
	return nil
}

type enrollmentReaderStub struct {
	enrollments map[string]*models.Enrollment
}

func (s *enrollmentReaderStub) FindByID(ctx context.Context, id string) (*models.Enrollment, error) {
	if e, ok := s.enrollments[id]; ok {
		return e, nil
	}
	return nil, sql.ErrNoRows
}

func newGradeHandler() *GradeHandler {
	repo := &gradeRepoStub{grades: map[string]*models.Grade{}}
	enrollments := &enrollmentReaderStub{enrollments: map[string]*models.Enrollment{
		"enr-1": {ID: "enr-1", StudentID: "stu-1", CourseID: "crs-1", Status: models.EnrollmentStatusActive},
	}}
	return NewGradeHandler(service.NewGradeService(repo, enrollments, nil, nil, nil))
}

func TestGradeHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpsertScoresRequest{Midterm: floatPtr(80), Final: floatPtr(90)})
	req, _ := http.NewRequest(http.MethodPost, "/grades/preview", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.GradeResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Average)
	assert.InDelta(t, 86.0, *envelope.Data.Average, 1e-9)
	require.NotNil(t, envelope.Data.Letter)
	assert.Equal(t, models.LetterBA, *envelope.Data.Letter)
	assert.True(t, envelope.Data.Passed)
}

func TestGradeHandlerPreviewInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/grades/preview", bytes.NewReader([]byte(`not-json`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Preview(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGradeHandlerUpsertAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandler()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpsertScoresRequest{Midterm: floatPtr(40), Final: floatPtr(40)})
	req, _ := http.NewRequest(http.MethodPut, "/enrollments/enr-1/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.Upsert(c)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/enrollments/enr-1/grade", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.Grade `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Data.Letter)
	assert.Equal(t, models.LetterFD, *envelope.Data.Letter)
	assert.False(t, envelope.Data.Passed)
}

func TestGradeHandlerGetMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/enrollments/enr-1/grade", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "enr-1"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
}

func TestGradeHandlerUpsertUnknownEnrollment(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newGradeHandler()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(service.UpsertScoresRequest{Midterm: floatPtr(50), Final: floatPtr(50)})
	req, _ := http.NewRequest(http.MethodPut, "/enrollments/nope/grade", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.Upsert(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func floatPtr(v float64) *float64 { return &v }
