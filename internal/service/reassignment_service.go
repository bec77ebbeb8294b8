package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type reassignmentStore interface {
	Insert(ctx context.Context, rec *models.Reassignment) error
	FindByID(ctx context.Context, reassignmentID int64) (*models.Reassignment, error)
	ListByDelegator(ctx context.Context, staffID int64) ([]models.Reassignment, error)
	ListByDelegate(ctx context.Context, tempManagerID int64) ([]models.Reassignment, error)
	ListPendingByDelegate(ctx context.Context, tempManagerID int64) ([]models.Reassignment, error)
	UpdateStatus(ctx context.Context, reassignmentID int64, from, to models.ReassignmentStatus) (bool, error)
	HasOverlapping(ctx context.Context, staffID int64, start, end time.Time) (bool, error)
	HasActiveDelegationInvolving(ctx context.Context, staffID int64) (bool, error)
	FindActiveDelegation(ctx context.Context, q repository.DelegationQuery, day time.Time) (*models.Reassignment, error)
	SetActiveOn(ctx context.Context, day time.Time) ([]models.Reassignment, error)
	SetInactiveBefore(ctx context.Context, day time.Time) ([]models.Reassignment, error)
}

type delegatedRequestLister interface {
	ListByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
}

// ReassignmentService manages time-windowed delegation of approval authority
// between managers.
type ReassignmentService struct {
	repo      reassignmentStore
	requests  delegatedRequestLister
	employees employeeDirectory
	audit     auditRecorder
	notify    notificationDispatcher
	calendar  *dates.Calendar
	logger    *zap.Logger
}

// NewReassignmentService constructs the service.
func NewReassignmentService(repo reassignmentStore, requests delegatedRequestLister, employees employeeDirectory,
	audit auditRecorder, notify notificationDispatcher, calendar *dates.Calendar, logger *zap.Logger) *ReassignmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReassignmentService{
		repo:      repo,
		requests:  requests,
		employees: employees,
		audit:     audit,
		notify:    notify,
		calendar:  calendar,
		logger:    logger,
	}
}

// Create files a new delegation request. The window must start strictly in
// the future, neither party may already sit on an active delegation, and the
// delegator may not hold another non-rejected delegation overlapping the
// window.
func (s *ReassignmentService) Create(ctx context.Context, actorID int64, req dto.CreateReassignmentRequest) (*models.Reassignment, error) {
	start, err := s.calendar.ParseDate(req.StartDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", req.StartDate))
	}
	end, err := s.calendar.ParseDate(req.EndDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid end date %q, expected YYYY-MM-DD", req.EndDate))
	}
	if end.Before(start) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end date must not be before start date")
	}
	if s.calendar.IsFullyElapsed(start) {
		return nil, appErrors.ErrPastStartDate
	}
	if !s.calendar.IsFutureDate(start) {
		return nil, appErrors.ErrCurrentStartDate
	}
	if req.TempManagerID == actorID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot delegate authority to yourself")
	}

	delegator, err := s.employees.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load delegator")
	}
	delegate, err := s.employees.FindByID(ctx, req.TempManagerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "temporary manager not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load temporary manager")
	}

	for _, staffID := range []int64{delegator.StaffID, delegate.StaffID} {
		active, err := s.repo.HasActiveDelegationInvolving(ctx, staffID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check active delegations")
		}
		if active {
			return nil, appErrors.ErrActiveDelegation
		}
	}
	overlap, err := s.repo.HasOverlapping(ctx, delegator.StaffID, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check overlapping delegations")
	}
	if overlap {
		return nil, appErrors.ErrOverlapRange
	}

	rec := &models.Reassignment{
		StaffID:         delegator.StaffID,
		StaffName:       delegator.FullName(),
		Department:      delegator.Department,
		TempManagerID:   delegate.StaffID,
		TempManagerName: delegate.FullName(),
		StartDate:       start,
		EndDate:         end,
		Status:          models.ReassignmentStatusPending,
	}
	if err := s.repo.Insert(ctx, rec); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create reassignment")
	}

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: delegator.StaffID,
		Kind:        models.LogKindReassignment,
		Action:      models.LogActionApply,
		StaffName:   rec.StaffName,
		Department:  rec.Department,
		Position:    delegator.Position,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   delegate.StaffID,
		RecipientName: rec.TempManagerName,
		Subject:       "Delegation request pending",
		Body: fmt.Sprintf("%s asks you to cover their approvals from %s to %s.",
			rec.StaffName, start.Format(dates.DateLayout), end.Format(dates.DateLayout)),
	})
	return rec, nil
}

// Handle records the delegate's decision on an incoming delegation request.
// Only the named delegate may decide, and only while the request is pending.
func (s *ReassignmentService) Handle(ctx context.Context, actorID int64, req dto.HandleReassignmentRequest) (*models.Reassignment, error) {
	rec, err := s.repo.FindByID(ctx, req.ReassignmentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "reassignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reassignment")
	}
	if rec.TempManagerID != actorID {
		return nil, appErrors.ErrForbidden
	}
	if rec.Status != models.ReassignmentStatusPending {
		return nil, appErrors.ErrAlreadyProcessed
	}

	to := models.ReassignmentStatusRejected
	action := models.LogActionReject
	if req.Action == "APPROVE" {
		to = models.ReassignmentStatusApproved
		action = models.LogActionApprove
	}
	changed, err := s.repo.UpdateStatus(ctx, rec.ReassignmentID, models.ReassignmentStatusPending, to)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update reassignment")
	}
	if !changed {
		return nil, appErrors.ErrAlreadyProcessed
	}
	rec.Status = to

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindReassignment,
		Action:      action,
		StaffName:   rec.StaffName,
		Department:  rec.Department,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   rec.StaffID,
		RecipientName: rec.StaffName,
		Subject:       fmt.Sprintf("Delegation request %s", rec.Status),
		Body: fmt.Sprintf("%s has %s your delegation request for %s to %s.",
			rec.TempManagerName, rec.Status, rec.StartDate.Format(dates.DateLayout), rec.EndDate.Format(dates.DateLayout)),
	})
	return rec, nil
}

// ActivateWindows flips approved delegations whose window covers today to
// active. Run by the nightly sweep.
func (s *ReassignmentService) ActivateWindows(ctx context.Context) ([]models.Reassignment, error) {
	activated, err := s.repo.SetActiveOn(ctx, s.calendar.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to activate delegations")
	}
	for i := range activated {
		s.recordSweep(ctx, &activated[i], models.LogActionSetActive)
	}
	return activated, nil
}

// DeactivateExpired flips delegations whose window has closed to inactive.
// Run by the nightly sweep.
func (s *ReassignmentService) DeactivateExpired(ctx context.Context) ([]models.Reassignment, error) {
	deactivated, err := s.repo.SetInactiveBefore(ctx, s.calendar.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate delegations")
	}
	for i := range deactivated {
		s.recordSweep(ctx, &deactivated[i], models.LogActionSetInactive)
	}
	return deactivated, nil
}

func (s *ReassignmentService) recordSweep(ctx context.Context, rec *models.Reassignment, action models.LogAction) {
	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: models.SystemActor,
		Kind:        models.LogKindReassignment,
		Action:      action,
		StaffName:   rec.StaffName,
		Department:  rec.Department,
	})
}

// DelegatedRequests returns the delegator's subordinate requests visible to
// the acting delegate. Pending requests always pass through so decisions can
// be made, while approved and rejected ones are shown only when they fall
// inside the delegation window.
func (s *ReassignmentService) DelegatedRequests(ctx context.Context, actorID int64) ([]models.LeaveRequest, error) {
	rec, err := s.repo.FindActiveDelegation(ctx, repository.DelegationQuery{DelegateID: &actorID}, s.calendar.Today())
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no active delegation")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve delegation")
	}
	all, err := s.requests.ListByManager(ctx, rec.StaffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list delegated requests")
	}
	visible := make([]models.LeaveRequest, 0, len(all))
	for _, req := range all {
		switch req.Status {
		case models.RequestStatusPending:
			visible = append(visible, req)
		case models.RequestStatusApproved, models.RequestStatusRejected:
			if rec.CoversDate(req.RequestedDate) {
				visible = append(visible, req)
			}
		}
	}
	return visible, nil
}

// IncomingPending returns delegation requests awaiting the actor's decision.
func (s *ReassignmentService) IncomingPending(ctx context.Context, actorID int64) ([]models.Reassignment, error) {
	recs, err := s.repo.ListPendingByDelegate(ctx, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incoming delegations")
	}
	return recs, nil
}

// OwnDelegations returns the delegations the actor has requested.
func (s *ReassignmentService) OwnDelegations(ctx context.Context, actorID int64) ([]models.Reassignment, error) {
	recs, err := s.repo.ListByDelegator(ctx, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list delegations")
	}
	return recs, nil
}

// IncomingDelegations returns every delegation ever addressed to the actor.
func (s *ReassignmentService) IncomingDelegations(ctx context.Context, actorID int64) ([]models.Reassignment, error) {
	recs, err := s.repo.ListByDelegate(ctx, actorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list incoming delegations")
	}
	return recs, nil
}
