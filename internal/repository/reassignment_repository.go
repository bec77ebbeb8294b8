package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

const reassignmentColumns = `reassignment_id, staff_id, staff_name, department, temp_manager_id, temp_manager_name,
        start_date, end_date, status, active, created_at, updated_at`

// DelegationQuery narrows an active-delegation lookup to either side of the
// relationship. At least one of the two must be set.
type DelegationQuery struct {
	DelegatorID *int64
	DelegateID  *int64
}

// ReassignmentRepository handles persistence of authority delegations.
type ReassignmentRepository struct {
	db *sqlx.DB
}

// NewReassignmentRepository constructs the repository.
func NewReassignmentRepository(db *sqlx.DB) *ReassignmentRepository {
	return &ReassignmentRepository{db: db}
}

// Insert persists a new delegation request and fills in its generated ID.
func (r *ReassignmentRepository) Insert(ctx context.Context, rec *models.Reassignment) error {
	const query = `INSERT INTO reassignments (staff_id, staff_name, department, temp_manager_id, temp_manager_name,
        start_date, end_date, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING reassignment_id`
	if err := r.db.GetContext(ctx, &rec.ReassignmentID, query,
		rec.StaffID, rec.StaffName, rec.Department, rec.TempManagerID, rec.TempManagerName,
		rec.StartDate, rec.EndDate, rec.Status); err != nil {
		return fmt.Errorf("insert reassignment: %w", err)
	}
	return nil
}

// FindByID returns a delegation record by its ID.
func (r *ReassignmentRepository) FindByID(ctx context.Context, reassignmentID int64) (*models.Reassignment, error) {
	query := fmt.Sprintf("SELECT %s FROM reassignments WHERE reassignment_id = $1", reassignmentColumns)
	var rec models.Reassignment
	if err := r.db.GetContext(ctx, &rec, query, reassignmentID); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListByDelegator returns every delegation the manager has requested.
func (r *ReassignmentRepository) ListByDelegator(ctx context.Context, staffID int64) ([]models.Reassignment, error) {
	query := fmt.Sprintf("SELECT %s FROM reassignments WHERE staff_id = $1 ORDER BY start_date DESC", reassignmentColumns)
	var recs []models.Reassignment
	if err := r.db.SelectContext(ctx, &recs, query, staffID); err != nil {
		return nil, fmt.Errorf("list delegator reassignments: %w", err)
	}
	return recs, nil
}

// ListByDelegate returns every delegation addressed to the staff member.
func (r *ReassignmentRepository) ListByDelegate(ctx context.Context, tempManagerID int64) ([]models.Reassignment, error) {
	query := fmt.Sprintf("SELECT %s FROM reassignments WHERE temp_manager_id = $1 ORDER BY start_date DESC", reassignmentColumns)
	var recs []models.Reassignment
	if err := r.db.SelectContext(ctx, &recs, query, tempManagerID); err != nil {
		return nil, fmt.Errorf("list delegate reassignments: %w", err)
	}
	return recs, nil
}

// ListPendingByDelegate returns incoming delegations awaiting the delegate's
// decision.
func (r *ReassignmentRepository) ListPendingByDelegate(ctx context.Context, tempManagerID int64) ([]models.Reassignment, error) {
	query := fmt.Sprintf("SELECT %s FROM reassignments WHERE temp_manager_id = $1 AND status = $2 ORDER BY start_date", reassignmentColumns)
	var recs []models.Reassignment
	if err := r.db.SelectContext(ctx, &recs, query, tempManagerID, models.ReassignmentStatusPending); err != nil {
		return nil, fmt.Errorf("list pending reassignments: %w", err)
	}
	return recs, nil
}

// UpdateStatus transitions a delegation from one status to another. Returns
// false when the row no longer holds the expected status.
func (r *ReassignmentRepository) UpdateStatus(ctx context.Context, reassignmentID int64, from, to models.ReassignmentStatus) (bool, error) {
	const query = `UPDATE reassignments SET status = $3, updated_at = NOW()
        WHERE reassignment_id = $1 AND status = $2`
	res, err := r.db.ExecContext(ctx, query, reassignmentID, from, to)
	if err != nil {
		return false, fmt.Errorf("update reassignment status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update reassignment status: %w", err)
	}
	return affected == 1, nil
}

// HasOverlapping reports whether the delegator already has a non-rejected
// delegation whose window intersects [start, end].
func (r *ReassignmentRepository) HasOverlapping(ctx context.Context, staffID int64, start, end time.Time) (bool, error) {
	const query = `SELECT 1 FROM reassignments
        WHERE staff_id = $1 AND status <> $2 AND start_date <= $3 AND end_date >= $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, staffID, models.ReassignmentStatusRejected, end, start); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check overlapping reassignment: %w", err)
	}
	return true, nil
}

// HasActiveDelegationInvolving reports whether the staff member is currently
// on either side of an active delegation. New delegation requests are blocked
// while one is in force.
func (r *ReassignmentRepository) HasActiveDelegationInvolving(ctx context.Context, staffID int64) (bool, error) {
	const query = `SELECT 1 FROM reassignments
        WHERE (staff_id = $1 OR temp_manager_id = $1) AND active = TRUE LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, staffID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active delegation: %w", err)
	}
	return true, nil
}

// FindActiveDelegation returns the approved delegation in force on the given
// day matching the query's sides. Authority checks and schedule views both
// resolve through this one lookup, computing "in force" from the approved
// window rather than trusting the swept flag.
func (r *ReassignmentRepository) FindActiveDelegation(ctx context.Context, q DelegationQuery, day time.Time) (*models.Reassignment, error) {
	query := fmt.Sprintf(`SELECT %s FROM reassignments
        WHERE status = $1 AND start_date <= $2 AND end_date >= $2`, reassignmentColumns)
	args := []interface{}{models.ReassignmentStatusApproved, day}
	if q.DelegatorID != nil {
		query += fmt.Sprintf(" AND staff_id = $%d", len(args)+1)
		args = append(args, *q.DelegatorID)
	}
	if q.DelegateID != nil {
		query += fmt.Sprintf(" AND temp_manager_id = $%d", len(args)+1)
		args = append(args, *q.DelegateID)
	}
	query += " LIMIT 1"
	var rec models.Reassignment
	if err := r.db.GetContext(ctx, &rec, query, args...); err != nil {
		return nil, err
	}
	return &rec, nil
}

// SetActiveOn activates approved delegations whose window covers the day and
// returns the rows it flipped.
func (r *ReassignmentRepository) SetActiveOn(ctx context.Context, day time.Time) ([]models.Reassignment, error) {
	query := fmt.Sprintf(`UPDATE reassignments SET active = TRUE, updated_at = NOW()
        WHERE status = $1 AND start_date <= $2 AND end_date >= $2 AND (active IS NULL OR active = FALSE)
        RETURNING %s`, reassignmentColumns)
	var recs []models.Reassignment
	if err := r.db.SelectContext(ctx, &recs, query, models.ReassignmentStatusApproved, day); err != nil {
		return nil, fmt.Errorf("activate reassignments: %w", err)
	}
	return recs, nil
}

// SetInactiveBefore deactivates delegations whose window ended before the day
// and returns the rows it flipped.
func (r *ReassignmentRepository) SetInactiveBefore(ctx context.Context, day time.Time) ([]models.Reassignment, error) {
	query := fmt.Sprintf(`UPDATE reassignments SET active = FALSE, updated_at = NOW()
        WHERE end_date < $1 AND active = TRUE
        RETURNING %s`, reassignmentColumns)
	var recs []models.Reassignment
	if err := r.db.SelectContext(ctx, &recs, query, day); err != nil {
		return nil, fmt.Errorf("deactivate reassignments: %w", err)
	}
	return recs, nil
}
