package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

type gradeRepo interface {
	FindByEnrollment(ctx context.Context, enrollmentID string) (*models.Grade, error)
	Upsert(ctx context.Context, grade *models.Grade) error
	ListByCourse(ctx context.Context, courseID string) ([]models.GradeDetail, error)
	Delete(ctx context.Context, enrollmentID string) error
}

type gradeEnrollmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Enrollment, error)
}

// UpsertScoresRequest carries the raw exam scores for an enrollment. Either
// score may be absent; the derived fields follow from whatever is present.
type UpsertScoresRequest struct {
	Midterm *float64 `json:"midterm" validate:"omitempty,gte=0,lte=100"`
	Final   *float64 `json:"final" validate:"omitempty,gte=0,lte=100"`
}

// GradeService persists exam scores and their derived grade fields.
type GradeService struct {
	repo        gradeRepo
	enrollments gradeEnrollmentReader
	transcripts transcriptInvalidator
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(repo gradeRepo, enrollments gradeEnrollmentReader, transcripts transcriptInvalidator, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{
		repo:        repo,
		enrollments: enrollments,
		transcripts: transcripts,
		validator:   validate,
		logger:      logger,
	}
}

// Get returns the grade row for an enrollment.
func (s *GradeService) Get(ctx context.Context, enrollmentID string) (*models.Grade, error) {
	grade, err := s.repo.FindByEnrollment(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no grade recorded for enrollment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load grade")
	}
	return grade, nil
}

// Upsert stores the scores for an enrollment and recomputes the derived
// average, letter, and pass flag in the same write.
func (s *GradeService) Upsert(ctx context.Context, enrollmentID string, req UpsertScoresRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}

	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}

	result := DeriveGradeResult(models.ScorePair{Midterm: req.Midterm, Final: req.Final})
	grade := &models.Grade{
		EnrollmentID: enrollment.ID,
		Midterm:      req.Midterm,
		Final:        req.Final,
		Average:      result.Average,
		Letter:       result.Letter,
		Passed:       result.Passed,
	}
	if existing, err := s.repo.FindByEnrollment(ctx, enrollment.ID); err == nil {
		grade.ID = existing.ID
		grade.CreatedAt = existing.CreatedAt
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing grade")
	}

	if err := s.repo.Upsert(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
	}

	if s.transcripts != nil {
		s.transcripts.InvalidateStudent(ctx, enrollment.StudentID)
	}
	s.logger.Info("grade saved",
		zap.String("enrollment_id", enrollment.ID),
		zap.Bool("passed", grade.Passed))
	return grade, nil
}

// Preview derives average, letter, and pass flag without persisting.
func (s *GradeService) Preview(req UpsertScoresRequest) (*models.GradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid score payload")
	}
	result := DeriveGradeResult(models.ScorePair{Midterm: req.Midterm, Final: req.Final})
	return &result, nil
}

// ListByCourse returns all grades recorded for a course.
func (s *GradeService) ListByCourse(ctx context.Context, courseID string) ([]models.GradeDetail, error) {
	grades, err := s.repo.ListByCourse(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Delete removes the grade row for an enrollment.
func (s *GradeService) Delete(ctx context.Context, enrollmentID string) error {
	enrollment, err := s.enrollments.FindByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.Delete(ctx, enrollmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	if s.transcripts != nil {
		s.transcripts.InvalidateStudent(ctx, enrollment.StudentID)
	}
	return nil
}
