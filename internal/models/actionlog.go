package models

import "time"

// LogKind names the workflow an action log entry belongs to.
type LogKind string

const (
	LogKindApplication  LogKind = "APPLICATION"
	LogKindWithdrawal   LogKind = "WITHDRAWAL"
	LogKindReassignment LogKind = "REASSIGNMENT"
)

// LogAction enumerates the recorded operations.
type LogAction string

const (
	LogActionApply       LogAction = "APPLY"
	LogActionRetrieve    LogAction = "RETRIEVE"
	LogActionApprove     LogAction = "APPROVE"
	LogActionReject      LogAction = "REJECT"
	LogActionCancel      LogAction = "CANCEL"
	LogActionRevoke      LogAction = "REVOKE"
	LogActionExpire      LogAction = "EXPIRE"
	LogActionSetActive   LogAction = "SET_ACTIVE"
	LogActionSetInactive LogAction = "SET_INACTIVE"
)

// SystemActor marks sweep-driven log entries where no staff member acted.
const SystemActor int64 = 0

// ActionLog records who did what to which request, with display snapshots so
// history stays readable after the directory changes.
type ActionLog struct {
	LogID       int64     `db:"log_id" json:"log_id"`
	PerformedBy int64     `db:"performed_by" json:"performed_by"`
	Kind        LogKind   `db:"kind" json:"kind"`
	Action      LogAction `db:"action" json:"action"`
	RequestID   *int64    `db:"request_id" json:"request_id,omitempty"`
	StaffName   string    `db:"staff_name" json:"staff_name"`
	ManagerID   *int64    `db:"manager_id" json:"manager_id,omitempty"`
	ManagerName *string   `db:"manager_name" json:"manager_name,omitempty"`
	Department  string    `db:"department" json:"department"`
	Position    string    `db:"position" json:"position"`
	Reason      *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// ActionLogFilter constrains action log queries.
type ActionLogFilter struct {
	PerformedBy *int64
	Kind        LogKind
	Department  string
	Limit       int
	Offset      int
}
