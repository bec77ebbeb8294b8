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

type reassignmentService interface {
	Create(ctx context.Context, actorID int64, req dto.CreateReassignmentRequest) (*models.Reassignment, error)
	Handle(ctx context.Context, actorID int64, req dto.HandleReassignmentRequest) (*models.Reassignment, error)
	DelegatedRequests(ctx context.Context, actorID int64) ([]models.LeaveRequest, error)
	IncomingPending(ctx context.Context, actorID int64) ([]models.Reassignment, error)
	OwnDelegations(ctx context.Context, actorID int64) ([]models.Reassignment, error)
	IncomingDelegations(ctx context.Context, actorID int64) ([]models.Reassignment, error)
}

// ReassignmentHandler exposes REST endpoints for authority delegation.
type ReassignmentHandler struct {
	service reassignmentService
}

// NewReassignmentHandler constructs the handler.
func NewReassignmentHandler(service reassignmentService) *ReassignmentHandler {
	return &ReassignmentHandler{service: service}
}

// Create godoc
// @Summary Request delegation of approval authority
// @Tags Reassignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateReassignmentRequest true "Delegation window"
// @Success 201 {object} response.Envelope
// @Router /reassignments [post]
func (h *ReassignmentHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateReassignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid reassignment payload"))
		return
	}
	rec, err := h.service.Create(c.Request.Context(), claims.StaffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, rec, nil)
}

// Handle godoc
// @Summary Decide on an incoming delegation request
// @Tags Reassignments
// @Accept json
// @Produce json
// @Param payload body dto.HandleReassignmentRequest true "Decision"
// @Success 200 {object} response.Envelope
// @Router /reassignments/handle [post]
func (h *ReassignmentHandler) Handle(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.HandleReassignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid decision payload"))
		return
	}
	// Unlike request decisions, delegation handling reports its failures
	// precisely: a missing record and an already-decided one are distinct
	// fatal errors, not a collapsed NOT_MODIFIED.
	rec, err := h.service.Handle(c.Request.Context(), claims.StaffID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rec, nil)
}

// Delegated godoc
// @Summary List subordinate requests visible under an active delegation
// @Tags Reassignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reassignments/requests [get]
func (h *ReassignmentHandler) Delegated(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	requests, err := h.service.DelegatedRequests(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// IncomingPending godoc
// @Summary List delegation requests awaiting the caller's decision
// @Tags Reassignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reassignments/pending [get]
func (h *ReassignmentHandler) IncomingPending(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	recs, err := h.service.IncomingPending(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil)
}

// Own godoc
// @Summary List delegations the caller has requested
// @Tags Reassignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reassignments/own [get]
func (h *ReassignmentHandler) Own(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	recs, err := h.service.OwnDelegations(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil)
}

// Incoming godoc
// @Summary List delegations ever addressed to the caller
// @Tags Reassignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /reassignments/incoming [get]
func (h *ReassignmentHandler) Incoming(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	recs, err := h.service.IncomingDelegations(c.Request.Context(), claims.StaffID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, recs, nil)
}
