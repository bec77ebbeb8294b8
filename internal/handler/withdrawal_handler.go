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

type withdrawalService interface {
	Withdraw(ctx context.Context, actorID int64, req dto.WithdrawRequest) (*models.Withdrawal, error)
	Approve(ctx context.Context, actorID, withdrawalID int64) (*models.Withdrawal, error)
	Reject(ctx context.Context, actorID, withdrawalID int64, reason string) (*models.Withdrawal, error)
	OwnWithdrawals(ctx context.Context, staffID int64) ([]models.Withdrawal, error)
	PendingApprovals(ctx context.Context, managerID int64) ([]models.Withdrawal, error)
}

// WithdrawalHandler exposes REST endpoints for the withdrawal sub-workflow.
type WithdrawalHandler struct {
	service withdrawalService
}

// NewWithdrawalHandler constructs the handler.
func NewWithdrawalHandler(service withdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{service: service}
}

// Withdraw godoc
// @Summary File a withdrawal against an approved request
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param payload body dto.WithdrawRequest true "Request to withdraw"
// @Success 201 {object} response.Envelope
// @Router /withdrawals [post]
func (h *WithdrawalHandler) Withdraw(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.WithdrawRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid withdrawal payload"))
		return
	}
	w, err := h.service.Withdraw(c.Request.Context(), claims.StaffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, w, nil)
}

// Approve godoc
// @Summary Approve a pending withdrawal
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param payload body dto.ApproveWithdrawalRequest true "Withdrawal to approve"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/approve [post]
func (h *WithdrawalHandler) Approve(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.ApproveWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid approval payload"))
		return
	}
	w, err := h.service.Approve(c.Request.Context(), claims.StaffID, req.WithdrawalID)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, w, nil)
}

// Reject godoc
// @Summary Reject a pending withdrawal
// @Tags Withdrawals
// @Accept json
// @Produce json
// @Param payload body dto.RejectWithdrawalRequest true "Withdrawal to reject"
// @Success 200 {object} response.Envelope
// @Router /withdrawals/reject [post]
func (h *WithdrawalHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.RejectWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid rejection payload"))
		return
	}
	w, err := h.service.Reject(c.Request.Context(), claims.StaffID, req.WithdrawalID, req.Reason)
	if err != nil {
		decisionError(c, err)
		return
	}
	response.JSON(c, http.StatusOK, w, nil)
}

// Own godoc
// @Summary List own withdrawals
// @Tags Withdrawals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /withdrawals/own [get]
func (h *WithdrawalHandler) Own(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.service.OwnWithdrawals(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}

// Pending godoc
// @Summary List withdrawals awaiting the caller's decision
// @Tags Withdrawals
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /withdrawals/pending [get]
func (h *WithdrawalHandler) Pending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	list, err := h.service.PendingApprovals(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, nil)
}
