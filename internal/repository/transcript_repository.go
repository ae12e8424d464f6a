package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

// TranscriptRepository reads the denormalized view a transcript is built
// from.
type TranscriptRepository struct {
	db *sqlx.DB
}

// NewTranscriptRepository constructs the repository.
func NewTranscriptRepository(db *sqlx.DB) *TranscriptRepository {
	return &TranscriptRepository{db: db}
}

// LinesByStudent returns one line per quota-occupying enrollment of the
// student, joined with the course and any grade. Enrollments without a grade
// row surface with a nil letter.
func (r *TranscriptRepository) LinesByStudent(ctx context.Context, studentID string) ([]models.TranscriptLine, error) {
	query := `SELECT c.code AS course_code, c.name AS course_name, c.credit, g.letter
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        LEFT JOIN grades g ON g.enrollment_id = e.id
        WHERE e.student_id = $1 AND e.status IN ` + activeStatusSet + `
        ORDER BY c.code ASC`
	var lines []models.TranscriptLine
	if err := r.db.SelectContext(ctx, &lines, query, studentID); err != nil {
		return nil, fmt.Errorf("transcript lines: %w", err)
	}
	return lines, nil
}
