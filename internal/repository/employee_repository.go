package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

const employeeColumns = `e.staff_id, e.first_name, e.last_name, e.email, e.department, e.position, e.role,
        e.manager_id, m.first_name || ' ' || m.last_name AS manager_name, e.password_hash, e.created_at, e.updated_at`

const employeeBase = `FROM employees e LEFT JOIN employees m ON m.staff_id = e.manager_id`

// EmployeeRepository reads the employee directory.
type EmployeeRepository struct {
	db *sqlx.DB
}

// NewEmployeeRepository constructs the repository.
func NewEmployeeRepository(db *sqlx.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

// FindByID returns an employee with their manager's display name resolved.
func (r *EmployeeRepository) FindByID(ctx context.Context, staffID int64) (*models.Employee, error) {
	query := "SELECT " + employeeColumns + " " + employeeBase + " WHERE e.staff_id = $1"
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, staffID); err != nil {
		return nil, err
	}
	return &emp, nil
}

// FindByEmail returns an employee by their login email.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := "SELECT " + employeeColumns + " " + employeeBase + " WHERE e.email = $1"
	var emp models.Employee
	if err := r.db.GetContext(ctx, &emp, query, email); err != nil {
		return nil, err
	}
	return &emp, nil
}

// ListByManager returns the employees reporting directly to the manager.
func (r *EmployeeRepository) ListByManager(ctx context.Context, managerID int64) ([]models.Employee, error) {
	query := "SELECT " + employeeColumns + " " + employeeBase + " WHERE e.manager_id = $1 ORDER BY e.first_name"
	var emps []models.Employee
	if err := r.db.SelectContext(ctx, &emps, query, managerID); err != nil {
		return nil, err
	}
	return emps, nil
}

// ListByDepartment returns the employees of a department.
func (r *EmployeeRepository) ListByDepartment(ctx context.Context, department string) ([]models.Employee, error) {
	query := "SELECT " + employeeColumns + " " + employeeBase + " WHERE e.department = $1 ORDER BY e.first_name"
	var emps []models.Employee
	if err := r.db.SelectContext(ctx, &emps, query, department); err != nil {
		return nil, err
	}
	return emps, nil
}
