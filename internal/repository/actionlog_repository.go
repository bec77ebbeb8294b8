package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

// ActionLogRepository persists the audit trail. Entries are append-only.
type ActionLogRepository struct {
	db *sqlx.DB
}

// NewActionLogRepository constructs the repository.
func NewActionLogRepository(db *sqlx.DB) *ActionLogRepository {
	return &ActionLogRepository{db: db}
}

// Insert appends one audit entry.
func (r *ActionLogRepository) Insert(ctx context.Context, entry *models.ActionLog) error {
	const query = `INSERT INTO action_logs (performed_by, kind, action, request_id, staff_name, manager_id, manager_name, department, position, reason)
        VALUES (:performed_by, :kind, :action, :request_id, :staff_name, :manager_id, :manager_name, :department, :position, :reason)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert action log: %w", err)
	}
	return nil
}

// List returns audit entries matching the filter, newest first.
func (r *ActionLogRepository) List(ctx context.Context, filter models.ActionLogFilter) ([]models.ActionLog, error) {
	base := `SELECT log_id, performed_by, kind, action, request_id, staff_name, manager_id, manager_name, department, position, reason, created_at
        FROM action_logs`
	var conditions []string
	var args []interface{}

	if filter.PerformedBy != nil {
		conditions = append(conditions, fmt.Sprintf("performed_by = $%d", len(args)+1))
		args = append(args, *filter.PerformedBy)
	}
	if filter.Kind != "" {
		conditions = append(conditions, fmt.Sprintf("kind = $%d", len(args)+1))
		args = append(args, filter.Kind)
	}
	if filter.Department != "" {
		conditions = append(conditions, fmt.Sprintf("department = $%d", len(args)+1))
		args = append(args, filter.Department)
	}

	query := base
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d OFFSET %d", limit, offset)

	var entries []models.ActionLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("list action logs: %w", err)
	}
	return entries, nil
}
