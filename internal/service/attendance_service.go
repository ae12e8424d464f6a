package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unitrack-app/unitrack-api/internal/models"
	"github.com/unitrack-app/unitrack-api/pkg/config"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

type attendanceRepo interface {
	ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error)
	CountByEnrollment(ctx context.Context, enrollmentID string) (int, error)
	Create(ctx context.Context, record *models.AttendanceRecord) error
	Delete(ctx context.Context, id string) (bool, error)
	SyncCount(ctx context.Context, enrollmentID string, target int) error
}

type attendanceEnrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

type attendanceCourseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

// RecordAbsenceRequest registers one missed session.
type RecordAbsenceRequest struct {
	Date  time.Time `json:"date" validate:"required"`
	Notes *string   `json:"notes"`
}

// SetAbsentHoursRequest replaces an enrollment's absence volume, expressed in
// clock-hours. Used by bulk entry where sessions are not tracked one by one.
type SetAbsentHoursRequest struct {
	AbsentHours int `json:"absent_hours" validate:"gte=0"`
}

// AttendanceService records missed sessions and derives absence summaries.
type AttendanceService struct {
	repo               attendanceRepo
	enrollments        attendanceEnrollmentReader
	courses            attendanceCourseReader
	classifier         *AbsenceClassifier
	defaultWeeklyHours int
	validator          *validator.Validate
	logger             *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(repo attendanceRepo, enrollments attendanceEnrollmentReader, courses attendanceCourseReader, cfg config.AttendanceConfig, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	defaultHours := cfg.DefaultWeeklyHours
	if defaultHours <= 0 {
		defaultHours = DefaultWeeklyTotalHours
	}
	return &AttendanceService{
		repo:               repo,
		enrollments:        enrollments,
		courses:            courses,
		classifier:         NewAbsenceClassifier(cfg),
		defaultWeeklyHours: defaultHours,
		validator:          validate,
		logger:             logger,
	}
}

// Summary returns the derived absence view for an enrollment.
func (s *AttendanceService) Summary(ctx context.Context, enrollmentID string) (*models.AttendanceSummary, error) {
	enrollment, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	return s.buildSummary(ctx, enrollment)
}

// Records returns the raw missed-session rows for an enrollment.
func (s *AttendanceService) Records(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error) {
	if _, err := s.loadEnrollment(ctx, enrollmentID); err != nil {
		return nil, err
	}
	records, err := s.repo.ListByEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance records")
	}
	return records, nil
}

// RecordAbsence registers one missed session and returns the updated summary.
func (s *AttendanceService) RecordAbsence(ctx context.Context, enrollmentID string, req RecordAbsenceRequest) (*models.AttendanceSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	enrollment, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}

	record := &models.AttendanceRecord{
		EnrollmentID: enrollment.ID,
		Date:         req.Date,
		Notes:        req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record absence")
	}
	return s.buildSummary(ctx, enrollment)
}

// RemoveAbsence deletes one missed-session record.
func (s *AttendanceService) RemoveAbsence(ctx context.Context, recordID string) error {
	found, err := s.repo.Delete(ctx, recordID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete absence")
	}
	if !found {
		return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	return nil
}

// SetAbsentHours replaces the absence volume from an hours figure. The hours
// must be a whole multiple of the course's weekly total hours; the stored
// session records are adjusted to match the converted count.
func (s *AttendanceService) SetAbsentHours(ctx context.Context, enrollmentID string, req SetAbsentHoursRequest) (*models.AttendanceSummary, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence hours payload")
	}
	enrollment, err := s.loadEnrollment(ctx, enrollmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.loadCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	weeklyHours, _ := resolveWeeklyHours(course)
	if err := ValidateAbsentHours(req.AbsentHours, weeklyHours); err != nil {
		return nil, err
	}
	count := ToAbsentCount(weeklyHours, req.AbsentHours)

	if err := s.repo.SyncCount(ctx, enrollment.ID, count); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to adjust attendance records")
	}
	s.logger.Info("absence hours applied",
		zap.String("enrollment_id", enrollment.ID),
		zap.Int("absent_hours", req.AbsentHours),
		zap.Int("absent_count", count))
	return s.buildSummary(ctx, enrollment)
}

func (s *AttendanceService) loadEnrollment(ctx context.Context, id string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *AttendanceService) loadCourse(ctx context.Context, id string) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return course, nil
}

func (s *AttendanceService) buildSummary(ctx context.Context, enrollment *models.Enrollment) (*models.AttendanceSummary, error) {
	count, err := s.repo.CountByEnrollment(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count absences")
	}
	course, err := s.loadCourse(ctx, enrollment.CourseID)
	if err != nil {
		return nil, err
	}

	weeklyHours, estimated := resolveWeeklyHours(course)
	hours := ToAbsentHours(weeklyHours, count)

	// Courses without hour data classify against the configured fallback
	// budget instead of their own (unknown) weekly load.
	denominator := weeklyHours
	if estimated {
		denominator = s.defaultWeeklyHours
	}

	return &models.AttendanceSummary{
		EnrollmentID:   enrollment.ID,
		AbsentCount:    count,
		AbsentHours:    hours,
		Level:          s.classifier.Classify(denominator, hours),
		HoursEstimated: estimated,
	}, nil
}

// resolveWeeklyHours extracts a usable weekly hour load from the course.
// Theory and practice hours stand in when the total is missing; estimated is
// true when the course carries no hour data at all.
func resolveWeeklyHours(course *models.Course) (hours int, estimated bool) {
	if course.WeeklyTotalHours != nil && *course.WeeklyTotalHours > 0 {
		return *course.WeeklyTotalHours, false
	}
	sum := 0
	if course.WeeklyTheoryHours != nil {
		sum += *course.WeeklyTheoryHours
	}
	if course.WeeklyPracticeHours != nil {
		sum += *course.WeeklyPracticeHours
	}
	if sum > 0 {
		return sum, false
	}
	return 0, true
}
