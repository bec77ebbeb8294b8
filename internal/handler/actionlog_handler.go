package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/response"
)

type actionLogService interface {
	List(ctx context.Context, filter models.ActionLogFilter, actor *models.JWTClaims) ([]models.ActionLog, error)
}

// ActionLogHandler exposes the audit trail.
type ActionLogHandler struct {
	service actionLogService
}

// NewActionLogHandler constructs the handler.
func NewActionLogHandler(service actionLogService) *ActionLogHandler {
	return &ActionLogHandler{service: service}
}

// List godoc
// @Summary List audit log entries
// @Tags Logs
// @Produce json
// @Param kind query string false "APPLICATION, WITHDRAWAL or REASSIGNMENT"
// @Param department query string false "Department filter"
// @Param limit query int false "Page size"
// @Param offset query int false "Page offset"
// @Success 200 {object} response.Envelope
// @Router /logs [get]
func (h *ActionLogHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	filter := models.ActionLogFilter{
		Department: strings.TrimSpace(c.Query("department")),
	}
	if kind := strings.ToUpper(strings.TrimSpace(c.Query("kind"))); kind != "" {
		filter.Kind = models.LogKind(kind)
	}
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Limit = v
		}
	}
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.Offset = v
		}
	}
	entries, err := h.service.List(c.Request.Context(), filter, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
