package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

// AttendanceRepository persists missed-session records. Each row is one
// missed weekly session; the absence count for an enrollment is the row
// count.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByEnrollment returns the missed sessions for an enrollment, newest
// first.
func (r *AttendanceRepository) ListByEnrollment(ctx context.Context, enrollmentID string) ([]models.AttendanceRecord, error) {
	const query = `SELECT id, enrollment_id, date, notes, created_at
        FROM attendance_records WHERE enrollment_id = $1 ORDER BY date DESC, created_at DESC`
	var records []models.AttendanceRecord
	if err := r.db.SelectContext(ctx, &records, query, enrollmentID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// CountByEnrollment returns the number of missed sessions for an enrollment.
func (r *AttendanceRepository) CountByEnrollment(ctx context.Context, enrollmentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, enrollmentID); err != nil {
		return 0, fmt.Errorf("count attendance records: %w", err)
	}
	return count, nil
}

// Create persists one missed session.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.AttendanceRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance_records (id, enrollment_id, date, notes, created_at)
        VALUES (:id, :enrollment_id, :date, :notes, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance record: %w", err)
	}
	return nil
}

// Delete removes one missed session by ID and reports whether a row existed.
func (r *AttendanceRepository) Delete(ctx context.Context, id string) (bool, error) {
	const query = `DELETE FROM attendance_records WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return false, fmt.Errorf("delete attendance record: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance record: %w", err)
	}
	return affected > 0, nil
}

// SyncCount adjusts the stored record count for an enrollment to the target.
// Surplus rows are removed newest first; missing rows are inserted dated
// today with a bulk-entry note. Used by the bulk hour-entry path where the
// caller supplies a total instead of individual sessions.
func (r *AttendanceRepository) SyncCount(ctx context.Context, enrollmentID string, target int) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sync attendance count: %w", err)
	}
	defer tx.Rollback()

	var current int
	if err := tx.GetContext(ctx, &current, `SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`, enrollmentID); err != nil {
		return fmt.Errorf("sync attendance count: %w", err)
	}

	switch {
	case current > target:
		const trim = `DELETE FROM attendance_records WHERE id IN (
            SELECT id FROM attendance_records WHERE enrollment_id = $1
            ORDER BY date DESC, created_at DESC LIMIT $2)`
		if _, err := tx.ExecContext(ctx, trim, enrollmentID, current-target); err != nil {
			return fmt.Errorf("sync attendance count: %w", err)
		}
	case current < target:
		now := time.Now().UTC()
		note := "bulk entry"
		const insert = `INSERT INTO attendance_records (id, enrollment_id, date, notes, created_at)
            VALUES ($1, $2, $3, $4, $5)`
		for i := current; i < target; i++ {
			if _, err := tx.ExecContext(ctx, insert, uuid.NewString(), enrollmentID, now, note, now); err != nil {
				return fmt.Errorf("sync attendance count: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sync attendance count: %w", err)
	}
	return nil
}
