package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

func TestWithdrawalRepositoryHasOpenForRequest(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWithdrawalRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM withdrawals")).
		WithArgs(int64(41), models.WithdrawalStatusPending, models.WithdrawalStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	open, err := repo.HasOpenForRequest(context.Background(), 41)
	require.NoError(t, err)
	require.True(t, open)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM withdrawals")).
		WithArgs(int64(42), models.WithdrawalStatusPending, models.WithdrawalStatusApproved).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))
	open, err = repo.HasOpenForRequest(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, open)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepositoryUpdateStatusConditional(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWithdrawalRepository(db)

	reason := "covered by teammate"
	mock.ExpectExec(regexp.QuoteMeta("UPDATE withdrawals SET status = $3")).
		WithArgs(int64(5), models.WithdrawalStatusPending, models.WithdrawalStatusRejected, &reason).
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.UpdateStatus(context.Background(), 5, models.WithdrawalStatusPending, models.WithdrawalStatusRejected, &reason)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestWithdrawalRepositoryExpirePendingBefore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWithdrawalRepository(db)

	cutoff := time.Date(2024, 9, 16, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{
		"withdrawal_id", "request_id", "staff_id", "staff_name", "manager_id", "manager_name", "department", "position",
		"requested_date", "request_type", "reason", "decision_reason", "status", "created_at", "updated_at",
	}).AddRow(int64(5), int64(41), int64(150076), "Jaclyn Lee", int64(130002), "Jack Sim", "Sales", "Account Manager",
		cutoff, models.LeaveTypeFull, "no longer needed", nil, models.WithdrawalStatusExpired, time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE withdrawals SET status = $1")).
		WithArgs(models.WithdrawalStatusExpired, models.WithdrawalStatusPending, cutoff).
		WillReturnRows(rows)

	expired, err := repo.ExpirePendingBefore(context.Background(), cutoff)
	require.NoError(t, err)
	require.Len(t, expired, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
