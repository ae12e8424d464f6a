package service

import (
	"github.com/unitrack-app/unitrack-api/internal/models"
	"github.com/unitrack-app/unitrack-api/pkg/config"
	appErrors "github.com/unitrack-app/unitrack-api/pkg/errors"
)

// DefaultWeeklyTotalHours is assumed for courses that lack explicit weekly
// hour data.
const DefaultWeeklyTotalHours = 42

const (
	defaultWarningRatio  = 0.10
	defaultCriticalRatio = 0.20
)

// ToAbsentHours converts a missed-session count into clock-hours. When the
// weekly hour load is unknown the count is returned unscaled; legacy courses
// without hour data otherwise could not report absence volume at all.
func ToAbsentHours(weeklyTotalHours, absentCount int) int {
	if weeklyTotalHours <= 0 {
		return absentCount
	}
	return absentCount * weeklyTotalHours
}

// ToAbsentCount converts clock-hours back into a missed-session count using
// integer division. The caller must establish divisibility via
// ValidateAbsentHours first; the conversion is undefined otherwise.
func ToAbsentCount(weeklyTotalHours, absentHours int) int {
	if weeklyTotalHours <= 0 {
		return absentHours
	}
	return absentHours / weeklyTotalHours
}

// ValidateAbsentHours rejects negative hour values and values that are not a
// whole multiple of the course's weekly total hours.
func ValidateAbsentHours(absentHours, weeklyTotalHours int) error {
	if absentHours < 0 {
		return appErrors.Clone(appErrors.ErrValidation, "absence hours must not be negative")
	}
	if weeklyTotalHours > 0 && absentHours%weeklyTotalHours != 0 {
		return appErrors.Clone(appErrors.ErrValidation, "absence hours must be a multiple of the course's weekly total hours")
	}
	return nil
}

// AbsenceClassifier grades absence volume against warning/critical ratios.
type AbsenceClassifier struct {
	warningRatio  float64
	criticalRatio float64
}

// NewAbsenceClassifier builds a classifier from configuration, falling back to
// the 10%/20% defaults when unset.
func NewAbsenceClassifier(cfg config.AttendanceConfig) *AbsenceClassifier {
	warning := cfg.WarningRatio
	if warning <= 0 {
		warning = defaultWarningRatio
	}
	critical := cfg.CriticalRatio
	if critical <= 0 {
		critical = defaultCriticalRatio
	}
	return &AbsenceClassifier{warningRatio: warning, criticalRatio: critical}
}

// IsCritical reports whether absence hours reach the critical ratio of the
// course's total hour budget. Unknown hour loads never classify.
func (c *AbsenceClassifier) IsCritical(weeklyTotalHours, absentHours int) bool {
	if weeklyTotalHours <= 0 {
		return false
	}
	return float64(absentHours)/float64(weeklyTotalHours) >= c.criticalRatio
}

// IsWarning reports whether the absence ratio falls in the warning band,
// below critical.
func (c *AbsenceClassifier) IsWarning(weeklyTotalHours, absentHours int) bool {
	if weeklyTotalHours <= 0 {
		return false
	}
	ratio := float64(absentHours) / float64(weeklyTotalHours)
	return ratio >= c.warningRatio && ratio < c.criticalRatio
}

// Classify folds the two checks into a single level.
func (c *AbsenceClassifier) Classify(weeklyTotalHours, absentHours int) models.AbsenceLevel {
	switch {
	case c.IsCritical(weeklyTotalHours, absentHours):
		return models.AbsenceLevelCritical
	case c.IsWarning(weeklyTotalHours, absentHours):
		return models.AbsenceLevelWarning
	default:
		return models.AbsenceLevelNormal
	}
}
