package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/response"
)

type requestService interface {
	Submit(ctx context.Context, staffID int64, req dto.SubmitRequest) (*dto.SubmitResult, error)
	Approve(ctx context.Context, actorID, requestID int64) (*models.LeaveRequest, error)
	Reject(ctx context.Context, actorID, requestID int64, reason string) (*models.LeaveRequest, error)
	Revoke(ctx context.Context, actorID, requestID int64, reason string) (*models.LeaveRequest, error)
	Cancel(ctx context.Context, actorID, requestID int64) (*models.LeaveRequest, error)
	OwnRequests(ctx context.Context, staffID int64) ([]models.LeaveRequest, error)
	PendingApprovals(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
	TeamRequests(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
}

// RequestHandler exposes REST endpoints for the WFH request lifecycle.
type RequestHandler struct {
	service requestService
}

// NewRequestHandler constructs the handler.
func NewRequestHandler(service requestService) *RequestHandler {
	return &RequestHandler{service: service}
}

// Submit godoc
// @Summary Submit a batch of WFH dates
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitRequest true "Batch of dates"
// @Success 201 {object} response.Envelope
// @Router /requests [post]
func (h *RequestHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid submission payload"))
		return
	}
	result, err := h.service.Submit(c.Request.Context(), claims.StaffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// Approve godoc
// @Summary Approve a pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.ApproveRequest true "Request to approve"
// @Success 200 {object} response.Envelope
// @Router /requests/approve [post]
func (h *RequestHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ApproveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid approval payload"))
		return
	}
	updated, err := h.service.Approve(c.Request.Context(), claims.StaffID, req.RequestID)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Reject godoc
// @Summary Reject a pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.RejectRequest true "Request to reject"
// @Success 200 {object} response.Envelope
// @Router /requests/reject [post]
func (h *RequestHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RejectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	updated, err := h.service.Reject(c.Request.Context(), claims.StaffID, req.RequestID, req.Reason)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Revoke godoc
// @Summary Revoke an approved request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.RevokeRequest true "Request to revoke"
// @Success 200 {object} response.Envelope
// @Router /requests/revoke [post]
func (h *RequestHandler) Revoke(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid revocation payload"))
		return
	}
	updated, err := h.service.Revoke(c.Request.Context(), claims.StaffID, req.RequestID, req.Reason)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Cancel godoc
// @Summary Cancel own pending request
// @Tags Requests
// @Accept json
// @Produce json
// @Param payload body dto.CancelRequest true "Request to cancel"
// @Success 200 {object} response.Envelope
// @Router /requests/cancel [post]
func (h *RequestHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid cancellation payload"))
		return
	}
	updated, err := h.service.Cancel(c.Request.Context(), claims.StaffID, req.RequestID)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, updated, nil)
}

// Own godoc
// @Summary List own requests
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/own [get]
func (h *RequestHandler) Own(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	requests, err := h.service.OwnRequests(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Pending godoc
// @Summary List requests awaiting the caller's decision
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/pending [get]
func (h *RequestHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	requests, err := h.service.PendingApprovals(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Team godoc
// @Summary List every request from the caller's reports
// @Tags Requests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /requests/team [get]
func (h *RequestHandler) Team(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	requests, err := h.service.TeamRequests(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}
