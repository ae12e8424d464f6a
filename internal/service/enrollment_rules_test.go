package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

func TestValidateQuota(t *testing.T) {
	require.NoError(t, ValidateQuota(29, 30))
	require.NoError(t, ValidateQuota(0, 1))

	err := ValidateQuota(30, 30)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrQuotaExceeded))

	err = ValidateQuota(31, 30)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrQuotaExceeded))
}

func TestValidateNoDuplicateActiveEnrollment(t *testing.T) {
	require.NoError(t, ValidateNoDuplicateActiveEnrollment(false))

	err := ValidateNoDuplicateActiveEnrollment(true)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateEnrollment))
}

func TestValidateCourseActive(t *testing.T) {
	require.NoError(t, ValidateCourseActive(true))

	err := ValidateCourseActive(false)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCourseInactive))
}

func TestNormalizeStatus(t *testing.T) {
	status, err := NormalizeStatus(" active ")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusActive, status)

	status, err = NormalizeStatus("dropped")
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusDropped, status)

	_, err = NormalizeStatus("bogus")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrUnsupportedStatus))

	_, err = NormalizeStatus("")
	require.Error(t, err)
}

func TestValidateEnrollmentSnapshotGateOrder(t *testing.T) {
	// An inactive course wins over every other violation.
	snap := models.EnrollmentSnapshot{
		CourseActive:       false,
		DuplicateActive:    true,
		CurrentActiveCount: 30,
		Quota:              30,
	}
	err := ValidateEnrollmentSnapshot(snap)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrCourseInactive))

	// With the course active, duplicates are reported before quota.
	snap.CourseActive = true
	err = ValidateEnrollmentSnapshot(snap)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrDuplicateEnrollment))

	snap.DuplicateActive = false
	err = ValidateEnrollmentSnapshot(snap)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrQuotaExceeded))
}

func TestValidateEnrollmentSnapshotAdmits(t *testing.T) {
	require.NoError(t, ValidateEnrollmentSnapshot(models.EnrollmentSnapshot{
		CourseActive:       true,
		DuplicateActive:    false,
		CurrentActiveCount: 29,
		Quota:              30,
	}))
}

func TestEnrollmentStatusCountsAsActive(t *testing.T) {
	assert.True(t, models.EnrollmentStatusActive.CountsAsActive())
	assert.True(t, models.EnrollmentStatusEnrolled.CountsAsActive())
	assert.True(t, models.EnrollmentStatusRegistered.CountsAsActive())
	assert.False(t, models.EnrollmentStatusDropped.CountsAsActive())
	assert.False(t, models.EnrollmentStatusCancelled.CountsAsActive())
}
