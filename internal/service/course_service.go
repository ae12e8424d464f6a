package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

type courseRepo interface {
	List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	FindDetailByID(ctx context.Context, id string) (*models.CourseDetail, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	SetActive(ctx context.Context, id string, active bool) error
}

type instructorReader interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// CourseRequest is the payload for creating or updating a course.
type CourseRequest struct {
	Code                string  `json:"code" validate:"required,min=2,max=16"`
	Name                string  `json:"name" validate:"required"`
	Credit              int     `json:"credit" validate:"required,gt=0"`
	Quota               int     `json:"quota" validate:"required,gt=0"`
	WeeklyTheoryHours   *int    `json:"weekly_theory_hours" validate:"omitempty,gte=0"`
	WeeklyPracticeHours *int    `json:"weekly_practice_hours" validate:"omitempty,gte=0"`
	WeeklyTotalHours    *int    `json:"weekly_total_hours" validate:"omitempty,gt=0"`
	InstructorID        *string `json:"instructor_id"`
	Active              *bool   `json:"active"`
}

// CourseService manages the course catalog.
type CourseService struct {
	repo        courseRepo
	instructors instructorReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseRepo, instructors instructorReader, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, instructors: instructors, validator: validate, logger: logger}
}

// List returns courses matching the filter with pagination metadata.
func (s *CourseService) List(ctx context.Context, filter models.CourseFilter) ([]models.CourseDetail, *models.Pagination, error) {
	courses, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list courses")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	return courses, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get returns a course with instructor and enrollment context.
func (s *CourseService) Get(ctx context.Context, id string) (*models.CourseDetail, error) {
	detail, err := s.repo.FindDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return detail, nil
}

// Create adds a new course to the catalog.
func (s *CourseService) Create(ctx context.Context, req CourseRequest) (*models.Course, error) {
	if err := s.validateRequest(ctx, &req); err != nil {
		return nil, err
	}

	if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
	}

	course := &models.Course{
		Code:                req.Code,
		Name:                strings.TrimSpace(req.Name),
		Credit:              req.Credit,
		Quota:               req.Quota,
		WeeklyTheoryHours:   req.WeeklyTheoryHours,
		WeeklyPracticeHours: req.WeeklyPracticeHours,
		WeeklyTotalHours:    req.WeeklyTotalHours,
		InstructorID:        req.InstructorID,
		Active:              true,
	}
	if req.Active != nil {
		course.Active = *req.Active
	}
	if err := s.repo.Create(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create course")
	}

	s.logger.Info("course created", zap.String("course_id", course.ID), zap.String("code", course.Code))
	return course, nil
}

// Update rewrites a course's catalog data.
func (s *CourseService) Update(ctx context.Context, id string, req CourseRequest) (*models.Course, error) {
	if err := s.validateRequest(ctx, &req); err != nil {
		return nil, err
	}

	course, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}

	if req.Code != course.Code {
		if _, err := s.repo.FindByCode(ctx, req.Code); err == nil {
			return nil, appErrors.Clone(appErrors.ErrConflict, "course code already exists")
		} else if !errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check course code")
		}
	}

	course.Code = req.Code
	course.Name = strings.TrimSpace(req.Name)
	course.Credit = req.Credit
	course.Quota = req.Quota
	course.WeeklyTheoryHours = req.WeeklyTheoryHours
	course.WeeklyPracticeHours = req.WeeklyPracticeHours
	course.WeeklyTotalHours = req.WeeklyTotalHours
	course.InstructorID = req.InstructorID
	if req.Active != nil {
		course.Active = *req.Active
	}

	if err := s.repo.Update(ctx, course); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return course, nil
}

// SetActive opens or closes a course for new enrollments.
func (s *CourseService) SetActive(ctx context.Context, id string, active bool) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update course")
	}
	return nil
}

func (s *CourseService) validateRequest(ctx context.Context, req *CourseRequest) error {
	req.Code = strings.ToUpper(strings.TrimSpace(req.Code))
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}

	// Theory plus practice must add up to the declared weekly total.
	if req.WeeklyTotalHours != nil {
		theory, practice := 0, 0
		if req.WeeklyTheoryHours != nil {
			theory = *req.WeeklyTheoryHours
		}
		if req.WeeklyPracticeHours != nil {
			practice = *req.WeeklyPracticeHours
		}
		if (req.WeeklyTheoryHours != nil || req.WeeklyPracticeHours != nil) && theory+practice != *req.WeeklyTotalHours {
			return appErrors.Clone(appErrors.ErrValidation, "weekly theory and practice hours must sum to the weekly total")
		}
	}

	if req.InstructorID != nil {
		instructor, err := s.instructors.FindByID(ctx, *req.InstructorID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, "instructor not found")
			}
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load instructor")
		}
		if instructor.Role != models.RoleInstructor {
			return appErrors.Clone(appErrors.ErrValidation, "assigned user is not an instructor")
		}
	}
	return nil
}
