package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

const withdrawalColumns = `withdrawal_id, request_id, staff_id, staff_name, manager_id, manager_name, department, position,
        requested_date, request_type, reason, decision_reason, status, created_at, updated_at`

// WithdrawalRepository handles persistence of withdrawal requests.
type WithdrawalRepository struct {
	db *sqlx.DB
}

// NewWithdrawalRepository constructs the repository.
func NewWithdrawalRepository(db *sqlx.DB) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// Insert persists a new withdrawal and fills in its generated ID.
func (r *WithdrawalRepository) Insert(ctx context.Context, w *models.Withdrawal) error {
	const query = `INSERT INTO withdrawals (request_id, staff_id, staff_name, manager_id, manager_name, department, position,
        requested_date, request_type, reason, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING withdrawal_id`
	if err := r.db.GetContext(ctx, &w.WithdrawalID, query,
		w.RequestID, w.StaffID, w.StaffName, w.ManagerID, w.ManagerName, w.Department, w.Position,
		w.RequestedDate, w.RequestType, w.Reason, w.Status); err != nil {
		return fmt.Errorf("insert withdrawal: %w", err)
	}
	return nil
}

// FindByIDAndStatus returns the withdrawal only if it currently holds the
// given status.
func (r *WithdrawalRepository) FindByIDAndStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) (*models.Withdrawal, error) {
	query := fmt.Sprintf("SELECT %s FROM withdrawals WHERE withdrawal_id = $1 AND status = $2", withdrawalColumns)
	var w models.Withdrawal
	if err := r.db.GetContext(ctx, &w, query, withdrawalID, status); err != nil {
		return nil, err
	}
	return &w, nil
}

// HasOpenForRequest reports whether the request already carries a pending or
// approved withdrawal. At most one may be open at a time.
func (r *WithdrawalRepository) HasOpenForRequest(ctx context.Context, requestID int64) (bool, error) {
	const query = `SELECT 1 FROM withdrawals
        WHERE request_id = $1 AND status IN ($2, $3) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, requestID,
		models.WithdrawalStatusPending, models.WithdrawalStatusApproved); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check open withdrawal: %w", err)
	}
	return true, nil
}

// ListByStaff returns the staff member's withdrawal history.
func (r *WithdrawalRepository) ListByStaff(ctx context.Context, staffID int64) ([]models.Withdrawal, error) {
	query := fmt.Sprintf("SELECT %s FROM withdrawals WHERE staff_id = $1 ORDER BY created_at DESC", withdrawalColumns)
	var list []models.Withdrawal
	if err := r.db.SelectContext(ctx, &list, query, staffID); err != nil {
		return nil, fmt.Errorf("list staff withdrawals: %w", err)
	}
	return list, nil
}

// ListPendingByManager returns withdrawals awaiting the manager's decision.
func (r *WithdrawalRepository) ListPendingByManager(ctx context.Context, managerID int64) ([]models.Withdrawal, error) {
	query := fmt.Sprintf("SELECT %s FROM withdrawals WHERE manager_id = $1 AND status = $2 ORDER BY requested_date", withdrawalColumns)
	var list []models.Withdrawal
	if err := r.db.SelectContext(ctx, &list, query, managerID, models.WithdrawalStatusPending); err != nil {
		return nil, fmt.Errorf("list pending withdrawals: %w", err)
	}
	return list, nil
}

// UpdateStatus transitions a withdrawal from one status to another. Returns
// false when the row no longer holds the expected status.
func (r *WithdrawalRepository) UpdateStatus(ctx context.Context, withdrawalID int64, from, to models.WithdrawalStatus, reason *string) (bool, error) {
	const query = `UPDATE withdrawals SET status = $3, decision_reason = $4, updated_at = NOW()
        WHERE withdrawal_id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, withdrawalID, from, to, reason)
	if err != nil {
		return false, fmt.Errorf("update withdrawal status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update withdrawal status: %w", err)
	}
	return affected == 1, nil
}

// ExpirePendingBefore expires pending withdrawals whose leave date is at or
// before the cutoff day and returns the affected rows for logging.
func (r *WithdrawalRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Withdrawal, error) {
	query := fmt.Sprintf(`UPDATE withdrawals SET status = $1, updated_at = NOW()
        WHERE status = $2 AND requested_date <= $3
        RETURNING %s`, withdrawalColumns)
	var expired []models.Withdrawal
	if err := r.db.SelectContext(ctx, &expired, query,
		models.WithdrawalStatusExpired, models.WithdrawalStatusPending, cutoff); err != nil {
		return nil, fmt.Errorf("expire pending withdrawals: %w", err)
	}
	return expired, nil
}
