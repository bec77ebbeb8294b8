package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type withdrawalStore interface {
	Insert(ctx context.Context, w *models.Withdrawal) error
	FindByIDAndStatus(ctx context.Context, withdrawalID int64, status models.WithdrawalStatus) (*models.Withdrawal, error)
	HasOpenForRequest(ctx context.Context, requestID int64) (bool, error)
	ListByStaff(ctx context.Context, staffID int64) ([]models.Withdrawal, error)
	ListPendingByManager(ctx context.Context, managerID int64) ([]models.Withdrawal, error)
	UpdateStatus(ctx context.Context, withdrawalID int64, from, to models.WithdrawalStatus, reason *string) (bool, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.Withdrawal, error)
}

type withdrawalRequestStore interface {
	FindByIDAndStatus(ctx context.Context, requestID int64, status models.RequestStatus) (*models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, requestID int64, from, to models.RequestStatus, decidedBy *int64, reason *string) (bool, error)
	MarkInitiatedWithdrawal(ctx context.Context, requestID int64) (bool, error)
	ClearInitiatedWithdrawal(ctx context.Context, requestID int64) error
}

// WithdrawalService runs the sub-workflow that undoes approved requests.
// Approving a withdrawal is a two-phase write across the withdrawal and its
// parent request, with a compensating revert when the second phase fails.
type WithdrawalService struct {
	repo        withdrawalStore
	requests    withdrawalRequestStore
	delegations delegationResolver
	audit       auditRecorder
	notify      notificationDispatcher
	calendar    *dates.Calendar
	logger      *zap.Logger
}

// NewWithdrawalService constructs the service.
func NewWithdrawalService(repo withdrawalStore, requests withdrawalRequestStore, delegations delegationResolver,
	audit auditRecorder, notify notificationDispatcher, calendar *dates.Calendar, logger *zap.Logger) *WithdrawalService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalService{
		repo:        repo,
		requests:    requests,
		delegations: delegations,
		audit:       audit,
		notify:      notify,
		calendar:    calendar,
		logger:      logger,
	}
}

// Withdraw files a withdrawal against the caller's own approved request. The
// WFH day must not have fully passed, and at most one withdrawal may be open
// per request at a time.
func (s *WithdrawalService) Withdraw(ctx context.Context, actorID int64, req dto.WithdrawRequest) (*models.Withdrawal, error) {
	parent, err := s.requests.FindByIDAndStatus(ctx, req.RequestID, models.RequestStatusApproved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no approved request to withdraw")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	if parent.StaffID != actorID {
		return nil, appErrors.ErrForbidden
	}
	if s.calendar.IsFullyElapsed(parent.RequestedDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot withdraw a WFH day that has already passed")
	}
	open, err := s.repo.HasOpenForRequest(ctx, parent.RequestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check open withdrawals")
	}
	if open {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a withdrawal is already open for this request")
	}
	marked, err := s.requests.MarkInitiatedWithdrawal(ctx, parent.RequestID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to flag request")
	}
	if !marked {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a withdrawal is already open for this request")
	}

	w := &models.Withdrawal{
		RequestID:     parent.RequestID,
		StaffID:       parent.StaffID,
		StaffName:     parent.StaffName,
		ManagerID:     parent.ManagerID,
		ManagerName:   parent.ManagerName,
		Department:    parent.Department,
		Position:      parent.Position,
		RequestedDate: parent.RequestedDate,
		RequestType:   parent.RequestType,
		Reason:        req.Reason,
		Status:        models.WithdrawalStatusPending,
	}
	if err := s.repo.Insert(ctx, w); err != nil {
		// Release the flag so the staff member can retry.
		if clearErr := s.requests.ClearInitiatedWithdrawal(ctx, parent.RequestID); clearErr != nil {
			s.logger.Error("failed to release withdrawal flag after insert failure",
				zap.Int64("request_id", parent.RequestID), zap.Error(clearErr))
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create withdrawal")
	}

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindWithdrawal,
		Action:      models.LogActionApply,
		RequestID:   &w.RequestID,
		StaffName:   w.StaffName,
		ManagerID:   &w.ManagerID,
		ManagerName: &w.ManagerName,
		Department:  w.Department,
		Position:    w.Position,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   w.ManagerID,
		RecipientName: w.ManagerName,
		Subject:       "WFH withdrawal pending",
		Body: fmt.Sprintf("%s asks to withdraw their approved WFH day on %s.",
			w.StaffName, w.RequestedDate.Format(dates.DateLayout)),
	})
	return w, nil
}

// Approve grants a pending withdrawal and moves the parent request to
// withdrawn. If the parent write fails, the withdrawal is reverted to
// pending so the two records never disagree.
func (s *WithdrawalService) Approve(ctx context.Context, actorID, withdrawalID int64) (*models.Withdrawal, error) {
	w, err := s.loadPending(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	allowed, err := hasAuthority(ctx, s.delegations, w.ManagerID, actorID, s.calendar.Today())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.ErrForbidden
	}

	changed, err := s.repo.UpdateStatus(ctx, w.WithdrawalID, models.WithdrawalStatusPending, models.WithdrawalStatusApproved, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve withdrawal")
	}
	if !changed {
		return nil, appErrors.ErrAlreadyProcessed
	}

	parentMoved, err := s.requests.UpdateStatus(ctx, w.RequestID, models.RequestStatusApproved, models.RequestStatusWithdrawn, &actorID, nil)
	if err != nil || !parentMoved {
		// Compensate: put the withdrawal back so state stays consistent.
		if _, revertErr := s.repo.UpdateStatus(ctx, w.WithdrawalID, models.WithdrawalStatusApproved, models.WithdrawalStatusPending, nil); revertErr != nil {
			s.logger.Error("failed to revert withdrawal after parent update failure",
				zap.Int64("withdrawal_id", w.WithdrawalID), zap.Error(revertErr))
		}
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update parent request")
		}
		return nil, appErrors.ErrAlreadyProcessed
	}
	w.Status = models.WithdrawalStatusApproved

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindWithdrawal,
		Action:      models.LogActionApprove,
		RequestID:   &w.RequestID,
		StaffName:   w.StaffName,
		ManagerID:   &w.ManagerID,
		ManagerName: &w.ManagerName,
		Department:  w.Department,
		Position:    w.Position,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   w.StaffID,
		RecipientName: w.StaffName,
		Subject:       "WFH withdrawal approved",
		Body: fmt.Sprintf("Your withdrawal for %s was approved; the WFH day is cancelled.",
			w.RequestedDate.Format(dates.DateLayout)),
	})
	return w, nil
}

// Reject declines a pending withdrawal with a reason and releases the parent
// request's withdrawal flag so the staff member may file again.
func (s *WithdrawalService) Reject(ctx context.Context, actorID, withdrawalID int64, reason string) (*models.Withdrawal, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	w, err := s.loadPending(ctx, withdrawalID)
	if err != nil {
		return nil, err
	}
	allowed, err := hasAuthority(ctx, s.delegations, w.ManagerID, actorID, s.calendar.Today())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.ErrForbidden
	}
	changed, err := s.repo.UpdateStatus(ctx, w.WithdrawalID, models.WithdrawalStatusPending, models.WithdrawalStatusRejected, &reason)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject withdrawal")
	}
	if !changed {
		return nil, appErrors.ErrAlreadyProcessed
	}
	if err := s.requests.ClearInitiatedWithdrawal(ctx, w.RequestID); err != nil {
		s.logger.Warn("failed to release withdrawal flag after rejection",
			zap.Int64("request_id", w.RequestID), zap.Error(err))
	}
	w.Status = models.WithdrawalStatusRejected
	w.DecisionReason = &reason

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindWithdrawal,
		Action:      models.LogActionReject,
		RequestID:   &w.RequestID,
		StaffName:   w.StaffName,
		ManagerID:   &w.ManagerID,
		ManagerName: &w.ManagerName,
		Department:  w.Department,
		Position:    w.Position,
		Reason:      &reason,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   w.StaffID,
		RecipientName: w.StaffName,
		Subject:       "WFH withdrawal rejected",
		Body: fmt.Sprintf("Your withdrawal for %s was rejected: %s",
			w.RequestedDate.Format(dates.DateLayout), reason),
	})
	return w, nil
}

func (s *WithdrawalService) loadPending(ctx context.Context, withdrawalID int64) (*models.Withdrawal, error) {
	w, err := s.repo.FindByIDAndStatus(ctx, withdrawalID, models.WithdrawalStatusPending)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyProcessed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load withdrawal")
	}
	return w, nil
}

// ExpirePending moves withdrawals overtaken by their WFH day to expired and
// releases the parent flags. Run by the nightly sweep.
func (s *WithdrawalService) ExpirePending(ctx context.Context) ([]models.Withdrawal, error) {
	expired, err := s.repo.ExpirePendingBefore(ctx, s.calendar.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire withdrawals")
	}
	for i := range expired {
		w := &expired[i]
		if err := s.requests.ClearInitiatedWithdrawal(ctx, w.RequestID); err != nil {
			s.logger.Warn("failed to release withdrawal flag after expiry",
				zap.Int64("request_id", w.RequestID), zap.Error(err))
		}
		s.audit.Record(ctx, &models.ActionLog{
			PerformedBy: models.SystemActor,
			Kind:        models.LogKindWithdrawal,
			Action:      models.LogActionExpire,
			RequestID:   &w.RequestID,
			StaffName:   w.StaffName,
			ManagerID:   &w.ManagerID,
			ManagerName: &w.ManagerName,
			Department:  w.Department,
			Position:    w.Position,
		})
	}
	return expired, nil
}

// OwnWithdrawals returns the staff member's withdrawal history.
func (s *WithdrawalService) OwnWithdrawals(ctx context.Context, staffID int64) ([]models.Withdrawal, error) {
	list, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list withdrawals")
	}
	return list, nil
}

// PendingApprovals returns withdrawals awaiting the actor's decision: those
// of direct reports, plus the delegator's subordinates' when the actor holds
// an active delegation today.
func (s *WithdrawalService) PendingApprovals(ctx context.Context, managerID int64) ([]models.Withdrawal, error) {
	list, err := s.repo.ListPendingByManager(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending withdrawals")
	}

	rec, err := s.delegations.FindActiveDelegation(ctx, repository.DelegationQuery{DelegateID: &managerID}, s.calendar.Today())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return list, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve delegation")
	}
	delegated, err := s.repo.ListPendingByManager(ctx, rec.StaffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list delegated withdrawals")
	}
	return append(list, delegated...), nil
}
