package service

import (
	"strings"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

// ValidateQuota fails once the active enrollment count has reached the quota.
func ValidateQuota(currentActiveCount, quota int) error {
	if currentActiveCount >= quota {
		return appErrors.Clone(appErrors.ErrQuotaExceeded, "")
	}
	return nil
}

// ValidateNoDuplicateActiveEnrollment fails when the student already holds an
// active enrollment in the course.
func ValidateNoDuplicateActiveEnrollment(exists bool) error {
	if exists {
		return appErrors.Clone(appErrors.ErrDuplicateEnrollment, "")
	}
	return nil
}

// ValidateCourseActive fails for courses closed to new enrollments.
func ValidateCourseActive(active bool) error {
	if !active {
		return appErrors.Clone(appErrors.ErrCourseInactive, "")
	}
	return nil
}

// NormalizeStatus trims and upper-cases a free-text status and returns the
// canonical value. Any recognized status may be set from any other; there is
// deliberately no transition state machine.
func NormalizeStatus(raw string) (models.EnrollmentStatus, error) {
	status := models.EnrollmentStatus(strings.ToUpper(strings.TrimSpace(raw)))
	if !status.Valid() {
		return "", appErrors.Clone(appErrors.ErrUnsupportedStatus, "unsupported enrollment status: "+raw)
	}
	return status, nil
}

// ValidateEnrollmentSnapshot runs the admission gates in order: course
// activity, duplicate enrollment, quota capacity.
func ValidateEnrollmentSnapshot(snap models.EnrollmentSnapshot) error {
	if err := ValidateCourseActive(snap.CourseActive); err != nil {
		return err
	}
	if err := ValidateNoDuplicateActiveEnrollment(snap.DuplicateActive); err != nil {
		return err
	}
	return ValidateQuota(snap.CurrentActiveCount, snap.Quota)
}
