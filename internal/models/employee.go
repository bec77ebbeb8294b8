package models

import "time"

// StaffRole mirrors the organization's coarse role codes.
type StaffRole int

const (
	RoleHR      StaffRole = 1
	RoleStaff   StaffRole = 2
	RoleManager StaffRole = 3
)

// Employee is a row in the employee directory.
type Employee struct {
	StaffID      int64     `db:"staff_id" json:"staff_id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	LastName     string    `db:"last_name" json:"last_name"`
	Email        string    `db:"email" json:"email"`
	Department   string    `db:"department" json:"department"`
	Position     string    `db:"position" json:"position"`
	Role         StaffRole `db:"role" json:"role"`
	ManagerID    *int64    `db:"manager_id" json:"manager_id,omitempty"`
	ManagerName  *string   `db:"manager_name" json:"manager_name,omitempty"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// FullName joins the name parts the way notifications and logs display them.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
