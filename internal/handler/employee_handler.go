package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/response"
)

type employeeService interface {
	Profile(ctx context.Context, staffID int64) (*models.Employee, error)
	TeamMembers(ctx context.Context, managerID int64) ([]models.Employee, error)
	DepartmentMembers(ctx context.Context, department string) ([]models.Employee, error)
}

// EmployeeHandler exposes the staff directory.
type EmployeeHandler struct {
	service employeeService
}

// NewEmployeeHandler constructs the handler.
func NewEmployeeHandler(service employeeService) *EmployeeHandler {
	return &EmployeeHandler{service: service}
}

// Me godoc
// @Summary Own directory profile
// @Tags Employees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees/me [get]
func (h *EmployeeHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	emp, err := h.service.Profile(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emp, nil)
}

// Team godoc
// @Summary Direct reports of the caller
// @Tags Employees
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /employees/team [get]
func (h *EmployeeHandler) Team(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	emps, err := h.service.TeamMembers(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emps, nil)
}

// Department godoc
// @Summary Staff members of a department
// @Tags Employees
// @Produce json
// @Param department query string true "Department name"
// @Success 200 {object} response.Envelope
// @Router /employees/department [get]
func (h *EmployeeHandler) Department(c *gin.Context) {
	department := c.Query("department")
	if department == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "department is required"))
		return
	}
	emps, err := h.service.DepartmentMembers(c.Request.Context(), department)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emps, nil)
}
