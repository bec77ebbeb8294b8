package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestRequestRepositoryInsertReturnsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	date := time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO requests")).
		WithArgs(int64(150076), "Jaclyn Lee", int64(130002), "Jack Sim", "Sales", "Account Manager",
			date, models.LeaveTypeFull, "medical appointment", models.RequestStatusPending).
		WillReturnRows(sqlmock.NewRows([]string{"request_id"}).AddRow(int64(41)))

	req := &models.LeaveRequest{
		StaffID:       150076,
		StaffName:     "Jaclyn Lee",
		ManagerID:     130002,
		ManagerName:   "Jack Sim",
		Department:    "Sales",
		Position:      "Account Manager",
		RequestedDate: date,
		RequestType:   models.LeaveTypeFull,
		Reason:        "medical appointment",
		Status:        models.RequestStatusPending,
	}
	require.NoError(t, repo.Insert(context.Background(), req))
	require.Equal(t, int64(41), req.RequestID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryUpdateStatusConditional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	decidedBy := int64(130002)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests")).
		WithArgs(int64(41), models.RequestStatusPending, models.RequestStatusApproved, &decidedBy, (*string)(nil)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.UpdateStatus(context.Background(), 41, models.RequestStatusPending, models.RequestStatusApproved, &decidedBy, nil)
	require.NoError(t, err)
	require.True(t, ok)

	// Second writer loses the race: zero rows affected, no error.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE requests")).
		WithArgs(int64(41), models.RequestStatusPending, models.RequestStatusApproved, &decidedBy, (*string)(nil)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.UpdateStatus(context.Background(), 41, models.RequestStatusPending, models.RequestStatusApproved, &decidedBy, nil)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryMarkInitiatedWithdrawalOnce(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("SET initiated_withdrawal = TRUE")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	ok, err := repo.MarkInitiatedWithdrawal(context.Background(), 7)
	require.NoError(t, err)
	require.True(t, ok)

	mock.ExpectExec(regexp.QuoteMeta("SET initiated_withdrawal = TRUE")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	ok, err = repo.MarkInitiatedWithdrawal(context.Background(), 7)
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryHasConflictOnDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	date := time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM requests")).
		WithArgs(int64(150076), date, models.RequestStatusPending, models.RequestStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	conflict, err := repo.HasConflictOnDate(context.Background(), 150076, date)
	require.NoError(t, err)
	require.True(t, conflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRequestRepositoryExpirePendingBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewRequestRepository(db)

	cutoff := time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"request_id", "staff_id", "staff_name", "manager_id", "manager_name", "department", "position",
		"requested_date", "request_type", "reason", "decision_reason", "decided_by", "initiated_withdrawal",
		"status", "created_at", "updated_at",
	}).AddRow(int64(41), int64(150076), "Jaclyn Lee", int64(130002), "Jack Sim", "Sales", "Account Manager",
		cutoff, models.LeaveTypeFull, "medical appointment", nil, nil, false,
		models.RequestStatusExpired, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE requests SET status = $1")).
		WithArgs(models.RequestStatusExpired, models.RequestStatusPending, cutoff).
		WillReturnRows(rows)

	expired, err := repo.ExpirePendingBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.Equal(t, models.RequestStatusExpired, expired[0].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
