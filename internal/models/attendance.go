package models

import "time"

// AbsenceLevel classifies an enrollment's absence volume against thresholds.
type AbsenceLevel string

const (
	AbsenceLevelNormal   AbsenceLevel = "NORMAL"
	AbsenceLevelWarning  AbsenceLevel = "WARNING"
	AbsenceLevelCritical AbsenceLevel = "CRITICAL"
)

// AttendanceRecord is one missed weekly session for an enrollment (N:1).
type AttendanceRecord struct {
	ID           string    `db:"id" json:"id"`
	EnrollmentID string    `db:"enrollment_id" json:"enrollment_id"`
	Date         time.Time `db:"date" json:"date"`
	Notes        *string   `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}

// AttendanceSummary is the derived view served to clients. AbsentHours is
// AbsentCount scaled by the course's weekly total hours; HoursEstimated is set
// when the course lacks hour data and the degraded count==hours fallback was
// used.
type AttendanceSummary struct {
	EnrollmentID   string       `json:"enrollment_id"`
	AbsentCount    int          `json:"absent_count"`
	AbsentHours    int          `json:"absent_hours"`
	Level          AbsenceLevel `json:"level"`
	HoursEstimated bool         `json:"hours_estimated"`
}
