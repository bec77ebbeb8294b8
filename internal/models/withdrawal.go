package models

import "time"

// WithdrawalStatus is deliberately its own enum: a withdrawal is never
// cancelled or revoked, and EXPIRED exists only as the nightly sweep's
// target state for withdrawals overtaken by their leave date.
type WithdrawalStatus string

const (
	WithdrawalStatusPending  WithdrawalStatus = "PENDING"
	WithdrawalStatusApproved WithdrawalStatus = "APPROVED"
	WithdrawalStatusRejected WithdrawalStatus = "REJECTED"
	WithdrawalStatusExpired  WithdrawalStatus = "EXPIRED"
)

// Withdrawal is a request to undo an already-approved WFH day. Staff and
// manager fields are snapshots of the parent request at the time the
// withdrawal was filed.
type Withdrawal struct {
	WithdrawalID   int64            `db:"withdrawal_id" json:"withdrawal_id"`
	RequestID      int64            `db:"request_id" json:"request_id"`
	StaffID        int64            `db:"staff_id" json:"staff_id"`
	StaffName      string           `db:"staff_name" json:"staff_name"`
	ManagerID      int64            `db:"manager_id" json:"manager_id"`
	ManagerName    string           `db:"manager_name" json:"manager_name"`
	Department     string           `db:"department" json:"department"`
	Position       string           `db:"position" json:"position"`
	RequestedDate  time.Time        `db:"requested_date" json:"requested_date"`
	RequestType    LeaveType        `db:"request_type" json:"request_type"`
	Reason         string           `db:"reason" json:"reason"`
	DecisionReason *string          `db:"decision_reason" json:"decision_reason,omitempty"`
	Status         WithdrawalStatus `db:"status" json:"status"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`
}
