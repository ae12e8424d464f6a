package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

// GradeRepository handles persistence of exam scores and derived grades.
// Each enrollment holds at most one grade row.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository constructs the repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// FindByEnrollment returns the grade row for an enrollment.
func (r *GradeRepository) FindByEnrollment(ctx context.Context, enrollmentID string) (*models.Grade, error) {
	const query = `SELECT id, enrollment_id, midterm, final, average, letter, passed, created_at, updated_at
        FROM grades WHERE enrollment_id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, enrollmentID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert inserts or replaces the grade row for an enrollment. Scores and
// derived fields always travel together so stored letters can never drift
// from stored scores.
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, enrollment_id, midterm, final, average, letter, passed, created_at, updated_at)
        VALUES (:id, :enrollment_id, :midterm, :final, :average, :letter, :passed, :created_at, :updated_at)
        ON CONFLICT (enrollment_id) DO UPDATE SET
            midterm = EXCLUDED.midterm,
            final = EXCLUDED.final,
            average = EXCLUDED.average,
            letter = EXCLUDED.letter,
            passed = EXCLUDED.passed,
            updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// ListByCourse returns all grade rows for a course with student context,
// ordered by student name.
func (r *GradeRepository) ListByCourse(ctx context.Context, courseID string) ([]models.GradeDetail, error) {
	const query = `SELECT g.id, g.enrollment_id, g.midterm, g.final, g.average, g.letter, g.passed,
            g.created_at, g.updated_at,
            e.student_id, s.full_name AS student_name, c.code AS course_code, c.name AS course_name
        FROM grades g
        JOIN enrollments e ON e.id = g.enrollment_id
        JOIN users s ON s.id = e.student_id
        JOIN courses c ON c.id = e.course_id
        WHERE e.course_id = $1
        ORDER BY s.full_name ASC`
	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, courseID); err != nil {
		return nil, fmt.Errorf("list grades by course: %w", err)
	}
	return grades, nil
}

// Delete removes the grade row for an enrollment.
func (r *GradeRepository) Delete(ctx context.Context, enrollmentID string) error {
	const query = `DELETE FROM grades WHERE enrollment_id = $1`
	if _, err := r.db.ExecContext(ctx, query, enrollmentID); err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	return nil
}
