package models

import "time"

// LetterGrade is the discretized grade band derived from the weighted average.
type LetterGrade string

const (
	LetterAA LetterGrade = "AA"
	LetterBA LetterGrade = "BA"
	LetterBB LetterGrade = "BB"
	LetterCB LetterGrade = "CB"
	LetterCC LetterGrade = "CC"
	LetterDC LetterGrade = "DC"
	LetterDD LetterGrade = "DD"
	LetterFD LetterGrade = "FD"
	LetterFF LetterGrade = "FF"
)

// ScorePair holds the raw exam scores for an enrollment. Each score, when
// present, lies in [0,100]. The average is defined only when both are present.
type ScorePair struct {
	Midterm *float64 `json:"midterm,omitempty"`
	Final   *float64 `json:"final,omitempty"`
}

// GradeResult is the derived outcome for a score pair.
type GradeResult struct {
	Average *float64     `json:"average,omitempty"`
	Letter  *LetterGrade `json:"letter,omitempty"`
	Passed  bool         `json:"passed"`
}

// Grade stores scores and derived fields for an enrollment (1:1).
type Grade struct {
	ID           string       `db:"id" json:"id"`
	EnrollmentID string       `db:"enrollment_id" json:"enrollment_id"`
	Midterm      *float64     `db:"midterm" json:"midterm,omitempty"`
	Final        *float64     `db:"final" json:"final,omitempty"`
	Average      *float64     `db:"average" json:"average,omitempty"`
	Letter       *LetterGrade `db:"letter" json:"letter,omitempty"`
	Passed       bool         `db:"passed" json:"passed"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// GradeDetail enriches a grade row with student and course context.
type GradeDetail struct {
	Grade
	StudentID   string `db:"student_id" json:"student_id"`
	StudentName string `db:"student_name" json:"student_name"`
	CourseCode  string `db:"course_code" json:"course_code"`
	CourseName  string `db:"course_name" json:"course_name"`
}
