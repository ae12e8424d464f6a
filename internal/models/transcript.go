package models

import "time"

// TranscriptLine is one row of a student's transcript. Lines with a nil
// letter (no determinable grade yet) are excluded from the GPA.
type TranscriptLine struct {
	CourseCode string       `db:"course_code" json:"course_code"`
	CourseName string       `db:"course_name" json:"course_name"`
	Credit     int          `db:"credit" json:"credit"`
	Letter     *LetterGrade `db:"letter" json:"letter,omitempty"`
}

// Transcript aggregates a student's graded enrollments.
type Transcript struct {
	StudentID   string           `json:"student_id"`
	StudentName string           `json:"student_name"`
	StudentNo   *string          `json:"student_no,omitempty"`
	Lines       []TranscriptLine `json:"lines"`
	GPA         string           `json:"gpa"`
	GeneratedAt time.Time        `json:"generated_at"`
}
