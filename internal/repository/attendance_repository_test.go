package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestAttendanceRepositoryCountByEnrollment(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`)).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByEnrollment(context.Background(), "enr-1")
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryDeleteReportsMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM attendance_records WHERE id = $1`)).
		WithArgs("att-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM attendance_records WHERE id = $1`)).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	found, err := repo.Delete(context.Background(), "att-1")
	require.NoError(t, err)
	require.True(t, found)

	found, err = repo.Delete(context.Background(), "nope")
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySyncCountTrims(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`)).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectExec("DELETE FROM attendance_records WHERE id IN").
		WithArgs("enr-1", 2).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, repo.SyncCount(context.Background(), "enr-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySyncCountInserts(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`)).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	for i := 0; i < 2; i++ {
		mock.ExpectExec("INSERT INTO attendance_records").
			WithArgs(sqlmock.AnyArg(), "enr-1", sqlmock.AnyArg(), "bulk entry", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, repo.SyncCount(context.Background(), "enr-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositorySyncCountNoChange(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM attendance_records WHERE enrollment_id = $1`)).
		WithArgs("enr-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectCommit()

	require.NoError(t, repo.SyncCount(context.Background(), "enr-1", 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
