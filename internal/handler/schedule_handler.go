package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/service"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/response"
)

type scheduleService interface {
	OwnSchedule(ctx context.Context, staffID int64) ([]models.LeaveRequest, error)
	TeamSchedule(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
	DepartmentSchedule(ctx context.Context, actor *models.JWTClaims, department, position string) ([]models.LeaveRequest, error)
	ExportDepartmentSchedule(ctx context.Context, actor *models.JWTClaims, department, position string, format service.ExportFormat) ([]byte, string, error)
}

// ScheduleHandler exposes WFH schedule views and exports.
type ScheduleHandler struct {
	service scheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(service scheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: service}
}

// Own godoc
// @Summary Own WFH schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/own [get]
func (h *ScheduleHandler) Own(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	schedule, err := h.service.OwnSchedule(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Team godoc
// @Summary Team WFH schedule
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/team [get]
func (h *ScheduleHandler) Team(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	schedule, err := h.service.TeamSchedule(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Department godoc
// @Summary Department WFH schedule
// @Tags Schedule
// @Produce json
// @Param department query string true "Department name"
// @Param position query string false "Position filter"
// @Success 200 {object} response.Envelope
// @Router /schedule/department [get]
func (h *ScheduleHandler) Department(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	schedule, err := h.service.DepartmentSchedule(c.Request.Context(), claims, c.Query("department"), c.Query("position"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Export godoc
// @Summary Export a department schedule as CSV or PDF
// @Tags Schedule
// @Produce octet-stream
// @Param department query string true "Department name"
// @Param position query string false "Position filter"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /schedule/department/export [get]
func (h *ScheduleHandler) Export(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))
	payload, filename, err := h.service.ExportDepartmentSchedule(c.Request.Context(),
		claims, c.Query("department"), c.Query("position"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	contentType := "text/csv"
	if format == service.ExportPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
