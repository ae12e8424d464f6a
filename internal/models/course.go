package models

import "time"

// Course represents a catalog course offered to students.
type Course struct {
	ID                  string    `db:"id" json:"id"`
	Code                string    `db:"code" json:"code"`
	Name                string    `db:"name" json:"name"`
	Credit              int       `db:"credit" json:"credit"`
	Quota               int       `db:"quota" json:"quota"`
	WeeklyTheoryHours   *int      `db:"weekly_theory_hours" json:"weekly_theory_hours,omitempty"`
	WeeklyPracticeHours *int      `db:"weekly_practice_hours" json:"weekly_practice_hours,omitempty"`
	WeeklyTotalHours    *int      `db:"weekly_total_hours" json:"weekly_total_hours,omitempty"`
	InstructorID        *string   `db:"instructor_id" json:"instructor_id,omitempty"`
	Active              bool      `db:"active" json:"active"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time `db:"updated_at" json:"updated_at"`
}

// CourseDetail enriches Course with instructor info and usage counters.
type CourseDetail struct {
	Course
	InstructorName *string `db:"instructor_name" json:"instructor_name,omitempty"`
	ActiveCount    int     `db:"active_count" json:"active_count"`
}

// CourseHours is the weekly hour layout consumed by attendance conversions.
// Legacy courses may lack hour data entirely, in which case WeeklyTotalHours
// is nil and classification falls back to configured defaults.
type CourseHours struct {
	WeeklyTotalHours    *int
	WeeklyTheoryHours   *int
	WeeklyPracticeHours *int
}

// CourseFilter captures filtering criteria for listing courses.
type CourseFilter struct {
	Active    *bool
	Search    string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
