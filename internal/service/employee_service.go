package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type employeeStore interface {
	FindByID(ctx context.Context, staffID int64) (*models.Employee, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.Employee, error)
	ListByDepartment(ctx context.Context, department string) ([]models.Employee, error)
}

// EmployeeService exposes the staff directory.
type EmployeeService struct {
	repo   employeeStore
	logger *zap.Logger
}

// NewEmployeeService constructs the service.
func NewEmployeeService(repo employeeStore, logger *zap.Logger) *EmployeeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EmployeeService{repo: repo, logger: logger}
}

// Profile returns a staff member's directory entry.
func (s *EmployeeService) Profile(ctx context.Context, staffID int64) (*models.Employee, error) {
	emp, err := s.repo.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	return emp, nil
}

// TeamMembers returns the direct reports of a manager.
func (s *EmployeeService) TeamMembers(ctx context.Context, managerID int64) ([]models.Employee, error) {
	emps, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list team members")
	}
	return emps, nil
}

// DepartmentMembers returns every staff member of a department.
func (s *EmployeeService) DepartmentMembers(ctx context.Context, department string) ([]models.Employee, error) {
	emps, err := s.repo.ListByDepartment(ctx, department)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list department members")
	}
	return emps, nil
}
