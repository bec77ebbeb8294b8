package models

import "time"

// LeaveType is the half/full-day granularity of a WFH day.
type LeaveType string

const (
	LeaveTypeAM   LeaveType = "AM"
	LeaveTypePM   LeaveType = "PM"
	LeaveTypeFull LeaveType = "FULL"
)

// Valid reports whether the value is one of the known leave types.
func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypeAM, LeaveTypePM, LeaveTypeFull:
		return true
	}
	return false
}

// RequestStatus captures the lifecycle states of a WFH request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
	RequestStatusWithdrawn RequestStatus = "WITHDRAWN"
	RequestStatusExpired   RequestStatus = "EXPIRED"
	RequestStatusRevoked   RequestStatus = "REVOKED"
)

// Terminal reports whether no further transition is defined from the status.
func (s RequestStatus) Terminal() bool {
	switch s {
	case RequestStatusRejected, RequestStatusCancelled, RequestStatusWithdrawn,
		RequestStatusExpired, RequestStatusRevoked:
		return true
	}
	return false
}

// LeaveRequest is one requested WFH day. A batch submission creates one row
// per accepted date. Manager and department fields are snapshots taken at
// submission time; terminal rows are never deleted.
type LeaveRequest struct {
	RequestID           int64         `db:"request_id" json:"request_id"`
	StaffID             int64         `db:"staff_id" json:"staff_id"`
	StaffName           string        `db:"staff_name" json:"staff_name"`
	ManagerID           int64         `db:"manager_id" json:"manager_id"`
	ManagerName         string        `db:"manager_name" json:"manager_name"`
	Department          string        `db:"department" json:"department"`
	Position            string        `db:"position" json:"position"`
	RequestedDate       time.Time     `db:"requested_date" json:"requested_date"`
	RequestType         LeaveType     `db:"request_type" json:"request_type"`
	Reason              string        `db:"reason" json:"reason"`
	DecisionReason      *string       `db:"decision_reason" json:"decision_reason,omitempty"`
	DecidedBy           *int64        `db:"decided_by" json:"decided_by,omitempty"`
	InitiatedWithdrawal bool          `db:"initiated_withdrawal" json:"initiated_withdrawal"`
	Status              RequestStatus `db:"status" json:"status"`
	CreatedAt           time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time     `db:"updated_at" json:"updated_at"`
}
