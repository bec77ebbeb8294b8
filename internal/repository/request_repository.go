package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

const requestColumns = `request_id, staff_id, staff_name, manager_id, manager_name, department, position,
        requested_date, request_type, reason, decision_reason, decided_by, initiated_withdrawal, status, created_at, updated_at`

// RequestRepository handles persistence of WFH leave requests. Every status
// transition is a conditional update keyed on the expected current status, so
// concurrent writers race on rows-affected instead of locks.
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository constructs the repository.
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// Insert persists a new request and fills in its generated ID.
func (r *RequestRepository) Insert(ctx context.Context, req *models.LeaveRequest) error {
	const query = `INSERT INTO requests (staff_id, staff_name, manager_id, manager_name, department, position,
        requested_date, request_type, reason, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
        RETURNING request_id`
	if err := r.db.GetContext(ctx, &req.RequestID, query,
		req.StaffID, req.StaffName, req.ManagerID, req.ManagerName, req.Department, req.Position,
		req.RequestedDate, req.RequestType, req.Reason, req.Status); err != nil {
		return fmt.Errorf("insert request: %w", err)
	}
	return nil
}

// FindByID returns a request by its ID.
func (r *RequestRepository) FindByID(ctx context.Context, requestID int64) (*models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE request_id = $1", requestColumns)
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, requestID); err != nil {
		return nil, err
	}
	return &req, nil
}

// FindByIDAndStatus returns the request only if it currently holds the given
// status. sql.ErrNoRows means either the row is missing or the status moved.
func (r *RequestRepository) FindByIDAndStatus(ctx context.Context, requestID int64, status models.RequestStatus) (*models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE request_id = $1 AND status = $2", requestColumns)
	var req models.LeaveRequest
	if err := r.db.GetContext(ctx, &req, query, requestID, status); err != nil {
		return nil, err
	}
	return &req, nil
}

// ListByStaff returns every request a staff member has ever filed.
func (r *RequestRepository) ListByStaff(ctx context.Context, staffID int64) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE staff_id = $1 ORDER BY requested_date DESC", requestColumns)
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, staffID); err != nil {
		return nil, fmt.Errorf("list staff requests: %w", err)
	}
	return requests, nil
}

// ListNonTerminalByStaff returns the staff member's requests that still count
// against scheduling: everything except rejected, cancelled, withdrawn,
// expired and revoked rows.
func (r *RequestRepository) ListNonTerminalByStaff(ctx context.Context, staffID int64) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests
        WHERE staff_id = $1 AND status NOT IN ($2, $3, $4, $5, $6)
        ORDER BY requested_date`, requestColumns)
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, staffID,
		models.RequestStatusRejected, models.RequestStatusCancelled, models.RequestStatusWithdrawn,
		models.RequestStatusExpired, models.RequestStatusRevoked); err != nil {
		return nil, fmt.Errorf("list non-terminal requests: %w", err)
	}
	return requests, nil
}

// ListPendingByManager returns requests awaiting the manager's decision.
func (r *RequestRepository) ListPendingByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`SELECT %s FROM requests WHERE manager_id = $1 AND status = $2 ORDER BY requested_date`, requestColumns)
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, managerID, models.RequestStatusPending); err != nil {
		return nil, fmt.Errorf("list pending requests: %w", err)
	}
	return requests, nil
}

// ListByManager returns every request reporting to the manager.
func (r *RequestRepository) ListByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE manager_id = $1 ORDER BY requested_date DESC", requestColumns)
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, managerID); err != nil {
		return nil, fmt.Errorf("list manager requests: %w", err)
	}
	return requests, nil
}

// ListApprovedByDepartment returns approved requests for a department,
// optionally narrowed to one position.
func (r *RequestRepository) ListApprovedByDepartment(ctx context.Context, department, position string) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf("SELECT %s FROM requests WHERE department = $1 AND status = $2", requestColumns)
	args := []interface{}{department, models.RequestStatusApproved}
	if position != "" {
		query += fmt.Sprintf(" AND position = $%d", len(args)+1)
		args = append(args, position)
	}
	query += " ORDER BY requested_date"
	var requests []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list department requests: %w", err)
	}
	return requests, nil
}

// HasConflictOnDate checks whether the staff member already holds a pending
// or approved request for the date.
func (r *RequestRepository) HasConflictOnDate(ctx context.Context, staffID int64, day time.Time) (bool, error) {
	const query = `SELECT 1 FROM requests
        WHERE staff_id = $1 AND requested_date = $2 AND status IN ($3, $4) LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, staffID, day,
		models.RequestStatusPending, models.RequestStatusApproved); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check date conflict: %w", err)
	}
	return true, nil
}

// UpdateStatus transitions a request from one status to another. It returns
// false when the row no longer holds the expected status, which is how
// concurrent decisions lose the race.
func (r *RequestRepository) UpdateStatus(ctx context.Context, requestID int64, from, to models.RequestStatus, decidedBy *int64, reason *string) (bool, error) {
	const query = `UPDATE requests
        SET status = $3, decided_by = $4, decision_reason = $5, updated_at = NOW()
        WHERE request_id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, requestID, from, to, decidedBy, reason)
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update request status: %w", err)
	}
	return affected == 1, nil
}

// MarkInitiatedWithdrawal flips the one-shot withdrawal flag on an approved
// request. It returns false if the flag was already set.
func (r *RequestRepository) MarkInitiatedWithdrawal(ctx context.Context, requestID int64) (bool, error) {
	const query = `UPDATE requests SET initiated_withdrawal = TRUE, updated_at = NOW()
        WHERE request_id = $1 AND initiated_withdrawal = FALSE`
	res, err := r.db.ExecContext(ctx, query, requestID)
	if err != nil {
		return false, fmt.Errorf("mark initiated withdrawal: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("mark initiated withdrawal: %w", err)
	}
	return affected == 1, nil
}

// ClearInitiatedWithdrawal resets the flag after a withdrawal is rejected or
// expires, so the staff member may file again.
func (r *RequestRepository) ClearInitiatedWithdrawal(ctx context.Context, requestID int64) error {
	const query = `UPDATE requests SET initiated_withdrawal = FALSE, updated_at = NOW() WHERE request_id = $1`
	if _, err := r.db.ExecContext(ctx, query, requestID); err != nil {
		return fmt.Errorf("clear initiated withdrawal: %w", err)
	}
	return nil
}

// ExpirePendingBefore expires every pending request whose date is at or
// before the cutoff day and returns the affected rows for logging.
func (r *RequestRepository) ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.LeaveRequest, error) {
	query := fmt.Sprintf(`UPDATE requests SET status = $1, updated_at = NOW()
        WHERE status = $2 AND requested_date <= $3
        RETURNING %s`, requestColumns)
	var expired []models.LeaveRequest
	if err := r.db.SelectContext(ctx, &expired, query,
		models.RequestStatusExpired, models.RequestStatusPending, cutoff); err != nil {
		return nil, fmt.Errorf("expire pending requests: %w", err)
	}
	return expired, nil
}
