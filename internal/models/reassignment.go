package models

import "time"

// ReassignmentStatus captures the delegation record lifecycle.
type ReassignmentStatus string

const (
	ReassignmentStatusPending  ReassignmentStatus = "PENDING"
	ReassignmentStatusApproved ReassignmentStatus = "APPROVED"
	ReassignmentStatusRejected ReassignmentStatus = "REJECTED"
	ReassignmentStatusExpired  ReassignmentStatus = "EXPIRED"
)

// Reassignment is a time-windowed grant of one manager's approval authority
// to another staff member. Active is tri-state: nil until the first nightly
// sweep evaluates the record, then true while today falls inside
// [StartDate, EndDate] and false once the window has closed.
type Reassignment struct {
	ReassignmentID  int64              `db:"reassignment_id" json:"reassignment_id"`
	StaffID         int64              `db:"staff_id" json:"staff_id"`
	StaffName       string             `db:"staff_name" json:"staff_name"`
	Department      string             `db:"department" json:"department"`
	TempManagerID   int64              `db:"temp_manager_id" json:"temp_manager_id"`
	TempManagerName string             `db:"temp_manager_name" json:"temp_manager_name"`
	StartDate       time.Time          `db:"start_date" json:"start_date"`
	EndDate         time.Time          `db:"end_date" json:"end_date"`
	Status          ReassignmentStatus `db:"status" json:"status"`
	Active          *bool              `db:"active" json:"active"`
	CreatedAt       time.Time          `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `db:"updated_at" json:"updated_at"`
}

// CoversDate reports whether the given day falls inside the delegation
// window (inclusive on both ends). Dates are compared at day granularity.
func (r *Reassignment) CoversDate(d time.Time) bool {
	day := dateOnly(d)
	return !day.Before(dateOnly(r.StartDate)) && !day.After(dateOnly(r.EndDate))
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
