package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

type mockFullCourseRepo struct {
	courses map[string]*models.Course
}

func (m *mockFullCourseRepo) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error) {
	var out []models.CourseDetail
	for _, c := range m.courses {
		out = append(out, models.CourseDetail{Course: *c})
	}
	return out, len(out), nil
}

func (m *mockFullCourseRepo) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if c, ok := m.courses[id]; ok {
		return c, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFullCourseRepo) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	for _, c := range m.courses {
		if c.Code == code {
			return c, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockFullCourseRepo) FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error) {
	if c, ok := m.courses[id]; ok {
		return &models.CourseDetail{Course: *c}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFullCourseRepo) Create(ctx context.Context, course *models.Course) error {
	if m.courses == nil {
		m.courses = make(map[string]*models.Course)
	}
	course.ID = "crs-new"
	m.courses[course.ID] = course
	return nil
}

func (m *mockFullCourseRepo) Update(ctx context.Context, course *models.Course) error {
	m.courses[course.ID] = course
	return nil
}

func (m *mockFullCourseRepo) SetActive(ctx context.Context, id string, active bool) error {
	if c, ok := m.courses[id]; ok {
		c.Active = active
		return nil
	}
	return sql.ErrNoRows
}

func intPtr(v int) *int { return &v }

func newCourseFixture() (*mockFullCourseRepo, *mockStudentReader) {
	repo := &mockFullCourseRepo{courses: map[string]*models.Course{
		"crs-1": {ID: "crs-1", Code: "CSE101", Name: "Intro", Credit: 4, Quota: 30, Active: true},
	}}
	instructors := &mockStudentReader{users: map[string]*models.User{
		"ins-1": {ID: "ins-1", FullName: "Grace Hopper", Role: models.RoleInstructor, Active: true},
		"stu-1": {ID: "stu-1", FullName: "Ada Lovelace", Role: models.RoleStudent, Active: true},
	}}
	return repo, instructors
}

func TestCourseServiceCreate(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	course, err := svc.Create(context.Background(), CourseRequest{
		Code:                " cse202 ",
		Name:                "Algorithms",
		Credit:              4,
		Quota:               40,
		WeeklyTheoryHours:   intPtr(3),
		WeeklyPracticeHours: intPtr(1),
		WeeklyTotalHours:    intPtr(4),
		InstructorID:        strPtr("ins-1"),
	})
	require.NoError(t, err)
	assert.Equal(t, "CSE202", course.Code)
	assert.True(t, course.Active)
}

func TestCourseServiceCreateDuplicateCode(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{Code: "cse101", Name: "Dup", Credit: 3, Quota: 20})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCourseServiceCreateHourMismatch(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{
		Code:              "CSE203",
		Name:              "Mismatch",
		Credit:            3,
		Quota:             20,
		WeeklyTheoryHours: intPtr(2),
		WeeklyTotalHours:  intPtr(4),
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	// A total without component hours is accepted as-is.
	_, err = svc.Create(context.Background(), CourseRequest{
		Code:             "CSE204",
		Name:             "Total Only",
		Credit:           3,
		Quota:            20,
		WeeklyTotalHours: intPtr(4),
	})
	require.NoError(t, err)
}

func TestCourseServiceCreateInstructorChecks(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	_, err := svc.Create(context.Background(), CourseRequest{
		Code: "CSE205", Name: "X", Credit: 3, Quota: 20, InstructorID: strPtr("stu-1"),
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))

	_, err = svc.Create(context.Background(), CourseRequest{
		Code: "CSE206", Name: "X", Credit: 3, Quota: 20, InstructorID: strPtr("nope"),
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestCourseServiceUpdate(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	active := false
	course, err := svc.Update(context.Background(), "crs-1", CourseRequest{
		Code:   "CSE101",
		Name:   "Intro to Computing",
		Credit: 5,
		Quota:  25,
		Active: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, "Intro to Computing", course.Name)
	assert.Equal(t, 5, course.Credit)
	assert.False(t, course.Active)

	_, err = svc.Update(context.Background(), "nope", CourseRequest{Code: "ZZ999", Name: "X", Credit: 1, Quota: 1})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}

func TestCourseServiceUpdateCodeConflict(t *testing.T) {
	repo, instructors := newCourseFixture()
	repo.courses["crs-2"] = &models.Course{ID: "crs-2", Code: "CSE300", Name: "Other", Credit: 3, Quota: 20, Active: true}
	svc := NewCourseService(repo, instructors, nil, nil)

	_, err := svc.Update(context.Background(), "crs-1", CourseRequest{Code: "CSE300", Name: "Clash", Credit: 3, Quota: 20})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConflict))
}

func TestCourseServiceSetActive(t *testing.T) {
	repo, instructors := newCourseFixture()
	svc := NewCourseService(repo, instructors, nil, nil)

	require.NoError(t, svc.SetActive(context.Background(), "crs-1", false))
	assert.False(t, repo.courses["crs-1"].Active)

	err := svc.SetActive(context.Background(), "nope", true)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
