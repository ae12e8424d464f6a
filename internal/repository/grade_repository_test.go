package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/unitrack-app/unitrack-api/internal/models"
)

func TestGradeRepositoryFindByEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	now := time.Now()
	letter := models.LetterBA
	rows := sqlmock.NewRows([]string{"id", "enrollment_id", "midterm", "final", "average", "letter", "passed", "created_at", "updated_at"}).
		AddRow("grd-1", "enr-1", 80.0, 90.0, 86.0, letter, true, now, now)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, enrollment_id, midterm, final, average, letter, passed, created_at, updated_at`)).
		WithArgs("enr-1").
		WillReturnRows(rows)

	grade, err := repo.FindByEnrollment(context.Background(), "enr-1")
	require.NoError(t, err)
	require.Equal(t, "grd-1", grade.ID)
	require.NotNil(t, grade.Letter)
	require.Equal(t, models.LetterBA, *grade.Letter)
	require.True(t, grade.Passed)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFindByEnrollmentMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, enrollment_id`)).
		WithArgs("nope").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByEnrollment(context.Background(), "nope")
	require.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec("INSERT INTO grades").
		WillReturnResult(sqlmock.NewResult(0, 1))

	midterm, final, average := 80.0, 90.0, 86.0
	letter := models.LetterBA
	grade := &models.Grade{
		EnrollmentID: "enr-1",
		Midterm:      &midterm,
		Final:        &final,
		Average:      &average,
		Letter:       &letter,
		Passed:       true,
	}
	require.NoError(t, repo.Upsert(context.Background(), grade))
	require.NotEmpty(t, grade.ID)
	require.False(t, grade.CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewGradeRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM grades WHERE enrollment_id = $1`)).
		WithArgs("enr-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "enr-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}
