package models

import "time"

// EnrollmentStatus represents the lifecycle of an enrollment.
type EnrollmentStatus string

// Recognized enrollment statuses. The first three count as active for quota
// and duplicate-enrollment purposes.
const (
	EnrollmentStatusActive     EnrollmentStatus = "ACTIVE"
	EnrollmentStatusEnrolled   EnrollmentStatus = "ENROLLED"
	EnrollmentStatusRegistered EnrollmentStatus = "REGISTERED"
	EnrollmentStatusDropped    EnrollmentStatus = "DROPPED"
	EnrollmentStatusCancelled  EnrollmentStatus = "CANCELLED"
)

// Valid returns true when the status is a recognized value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusEnrolled, EnrollmentStatusRegistered,
		EnrollmentStatusDropped, EnrollmentStatusCancelled:
		return true
	default:
		return false
	}
}

// CountsAsActive reports whether the status occupies a quota slot.
func (s EnrollmentStatus) CountsAsActive() bool {
	switch s {
	case EnrollmentStatusActive, EnrollmentStatusEnrolled, EnrollmentStatusRegistered:
		return true
	default:
		return false
	}
}

// Enrollment captures a student's registration to a course.
type Enrollment struct {
	ID         string           `db:"id" json:"id"`
	StudentID  string           `db:"student_id" json:"student_id"`
	CourseID   string           `db:"course_id" json:"course_id"`
	Status     EnrollmentStatus `db:"status" json:"status"`
	EnrolledAt time.Time        `db:"enrolled_at" json:"enrolled_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}

// EnrollmentDetail enriches Enrollment with student and course info.
type EnrollmentDetail struct {
	Enrollment
	StudentName string  `db:"student_name" json:"student_name"`
	StudentNo   *string `db:"student_no" json:"student_no,omitempty"`
	CourseCode  string  `db:"course_code" json:"course_code"`
	CourseName  string  `db:"course_name" json:"course_name"`
}

// EnrollmentSnapshot is the plain value the enrollment rules operate on. It is
// assembled per request from repository lookups and discarded after use.
type EnrollmentSnapshot struct {
	CourseID           string
	StudentID          string
	CurrentActiveCount int
	Quota              int
	CourseActive       bool
	DuplicateActive    bool
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	CourseID  string
	Status    EnrollmentStatus
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
