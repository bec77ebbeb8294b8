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
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type requestStore interface {
	Insert(ctx context.Context, req *models.LeaveRequest) error
	FindByIDAndStatus(ctx context.Context, requestID int64, status models.RequestStatus) (*models.LeaveRequest, error)
	ListByStaff(ctx context.Context, staffID int64) ([]models.LeaveRequest, error)
	ListNonTerminalByStaff(ctx context.Context, staffID int64) ([]models.LeaveRequest, error)
	ListPendingByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
	ListByManager(ctx context.Context, managerID int64) ([]models.LeaveRequest, error)
	HasConflictOnDate(ctx context.Context, staffID int64, day time.Time) (bool, error)
	UpdateStatus(ctx context.Context, requestID int64, from, to models.RequestStatus, decidedBy *int64, reason *string) (bool, error)
	ExpirePendingBefore(ctx context.Context, cutoff time.Time) ([]models.LeaveRequest, error)
}

type employeeDirectory interface {
	FindByID(ctx context.Context, staffID int64) (*models.Employee, error)
}

// RequestService drives the WFH request lifecycle. Every transition goes
// through a conditional update so concurrent decisions resolve by
// rows-affected instead of locks.
type RequestService struct {
	repo        requestStore
	employees   employeeDirectory
	delegations delegationResolver
	audit       auditRecorder
	notify      notificationDispatcher
	calendar    *dates.Calendar
	logger      *zap.Logger
}

// NewRequestService constructs the service.
func NewRequestService(repo requestStore, employees employeeDirectory, delegations delegationResolver,
	audit auditRecorder, notify notificationDispatcher, calendar *dates.Calendar, logger *zap.Logger) *RequestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RequestService{
		repo:        repo,
		employees:   employees,
		delegations: delegations,
		audit:       audit,
		notify:      notify,
		calendar:    calendar,
		logger:      logger,
	}
}

type submissionEntry struct {
	raw dto.SubmissionEntry
	day time.Time
	typ models.LeaveType
}

// Submit files a batch of WFH dates. The batch never fails as a whole: each
// entry lands in exactly one outcome bucket, and only entries passing every
// calendar rule are persisted as pending requests.
func (s *RequestService) Submit(ctx context.Context, staffID int64, req dto.SubmitRequest) (*dto.SubmitResult, error) {
	emp, err := s.employees.FindByID(ctx, staffID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "staff member not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff member")
	}
	if emp.ManagerID == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no reporting manager on record")
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "reason is required")
	}

	entries := make([]submissionEntry, 0, len(req.Entries))
	for _, e := range req.Entries {
		day, err := s.calendar.ParseDate(e.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", e.Date))
		}
		typ := models.LeaveType(strings.ToUpper(e.Type))
		if !typ.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid request type %q", e.Type))
		}
		entries = append(entries, submissionEntry{raw: e, day: day, typ: typ})
	}

	existing, err := s.repo.ListNonTerminalByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load existing requests")
	}
	existingDates := make([]time.Time, 0, len(existing))
	for _, r := range existing {
		existingDates = append(existingDates, r.RequestedDate)
	}
	counts := s.calendar.WeeklyQuota(existingDates)

	result := dto.NewSubmitResult()
	seen := make(map[string]bool, len(entries))
	accepted := 0

	for _, entry := range entries {
		if seen[entry.raw.Date] {
			result.Duplicate = append(result.Duplicate, entry.raw)
			continue
		}
		seen[entry.raw.Date] = true

		switch {
		case s.calendar.IsWeekend(entry.day):
			result.Weekend = append(result.Weekend, entry.raw)
			continue
		case s.calendar.IsPastOrTooSoon(entry.day):
			result.Past = append(result.Past, entry.raw)
			continue
		case s.calendar.IsPastApplicationDeadline(entry.day):
			result.PastDeadline = append(result.PastDeadline, entry.raw)
			continue
		}

		conflict, err := s.repo.HasConflictOnDate(ctx, staffID, entry.day)
		if err != nil {
			s.logger.Warn("conflict check failed", zap.String("date", entry.raw.Date), zap.Error(err))
			result.InsertError = append(result.InsertError, entry.raw)
			continue
		}
		if conflict {
			result.SameDay = append(result.SameDay, entry.raw)
			continue
		}

		record := &models.LeaveRequest{
			StaffID:       emp.StaffID,
			StaffName:     emp.FullName(),
			ManagerID:     *emp.ManagerID,
			Department:    emp.Department,
			Position:      emp.Position,
			RequestedDate: entry.day,
			RequestType:   entry.typ,
			Reason:        req.Reason,
			Status:        models.RequestStatusPending,
		}
		if emp.ManagerName != nil {
			record.ManagerName = *emp.ManagerName
		}
		if err := s.repo.Insert(ctx, record); err != nil {
			s.logger.Warn("request insert failed", zap.String("date", entry.raw.Date), zap.Error(err))
			result.InsertError = append(result.InsertError, entry.raw)
			continue
		}

		result.Success = append(result.Success, entry.raw)
		if s.calendar.ExceedsWeeklyQuota(entry.day, counts) {
			result.Note = append(result.Note, entry.raw)
		}
		accepted++
		s.audit.Record(ctx, &models.ActionLog{
			PerformedBy: emp.StaffID,
			Kind:        models.LogKindApplication,
			Action:      models.LogActionApply,
			RequestID:   &record.RequestID,
			StaffName:   record.StaffName,
			ManagerID:   &record.ManagerID,
			ManagerName: emp.ManagerName,
			Department:  record.Department,
			Position:    record.Position,
		})
	}

	if accepted > 0 {
		s.notify.Dispatch(Notification{
			RecipientID:   *emp.ManagerID,
			RecipientName: displayName(emp.ManagerName),
			Subject:       "New WFH requests pending",
			Body:          fmt.Sprintf("%s filed %d WFH request(s) awaiting your decision.", emp.FullName(), accepted),
		})
	}
	return result, nil
}

func displayName(name *string) string {
	if name == nil {
		return ""
	}
	return *name
}

// Approve transitions a pending request to approved. The actor must be the
// request's manager or hold an active delegation from them.
func (s *RequestService) Approve(ctx context.Context, actorID, requestID int64) (*models.LeaveRequest, error) {
	return s.decide(ctx, actorID, requestID, models.RequestStatusPending, models.RequestStatusApproved, models.LogActionApprove, nil)
}

// Reject transitions a pending request to rejected with a mandatory reason.
func (s *RequestService) Reject(ctx context.Context, actorID, requestID int64, reason string) (*models.LeaveRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "rejection reason is required")
	}
	return s.decide(ctx, actorID, requestID, models.RequestStatusPending, models.RequestStatusRejected, models.LogActionReject, &reason)
}

// Revoke undoes an approved request before or on its WFH day.
func (s *RequestService) Revoke(ctx context.Context, actorID, requestID int64, reason string) (*models.LeaveRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "revocation reason is required")
	}
	req, err := s.loadForDecision(ctx, requestID, models.RequestStatusApproved)
	if err != nil {
		return nil, err
	}
	if s.calendar.IsFullyElapsed(req.RequestedDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "cannot revoke a WFH day that has already passed")
	}
	return s.applyDecision(ctx, actorID, req, models.RequestStatusApproved, models.RequestStatusRevoked, models.LogActionRevoke, &reason)
}

// Cancel lets a staff member retract their own pending request.
func (s *RequestService) Cancel(ctx context.Context, actorID, requestID int64) (*models.LeaveRequest, error) {
	req, err := s.loadForDecision(ctx, requestID, models.RequestStatusPending)
	if err != nil {
		return nil, err
	}
	if req.StaffID != actorID {
		return nil, appErrors.ErrForbidden
	}
	changed, err := s.repo.UpdateStatus(ctx, requestID, models.RequestStatusPending, models.RequestStatusCancelled, &actorID, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel request")
	}
	if !changed {
		return nil, appErrors.ErrAlreadyProcessed
	}
	req.Status = models.RequestStatusCancelled
	req.DecidedBy = &actorID
	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindApplication,
		Action:      models.LogActionCancel,
		RequestID:   &req.RequestID,
		StaffName:   req.StaffName,
		ManagerID:   &req.ManagerID,
		ManagerName: &req.ManagerName,
		Department:  req.Department,
		Position:    req.Position,
	})
	return req, nil
}

func (s *RequestService) decide(ctx context.Context, actorID, requestID int64,
	from, to models.RequestStatus, action models.LogAction, reason *string) (*models.LeaveRequest, error) {
	req, err := s.loadForDecision(ctx, requestID, from)
	if err != nil {
		return nil, err
	}
	return s.applyDecision(ctx, actorID, req, from, to, action, reason)
}

func (s *RequestService) loadForDecision(ctx context.Context, requestID int64, status models.RequestStatus) (*models.LeaveRequest, error) {
	req, err := s.repo.FindByIDAndStatus(ctx, requestID, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrAlreadyProcessed
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load request")
	}
	return req, nil
}

func (s *RequestService) applyDecision(ctx context.Context, actorID int64, req *models.LeaveRequest,
	from, to models.RequestStatus, action models.LogAction, reason *string) (*models.LeaveRequest, error) {
	allowed, err := hasAuthority(ctx, s.delegations, req.ManagerID, actorID, s.calendar.Today())
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, appErrors.ErrForbidden
	}
	changed, err := s.repo.UpdateStatus(ctx, req.RequestID, from, to, &actorID, reason)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update request")
	}
	if !changed {
		return nil, appErrors.ErrAlreadyProcessed
	}
	req.Status = to
	req.DecidedBy = &actorID
	req.DecisionReason = reason

	s.audit.Record(ctx, &models.ActionLog{
		PerformedBy: actorID,
		Kind:        models.LogKindApplication,
		Action:      action,
		RequestID:   &req.RequestID,
		StaffName:   req.StaffName,
		ManagerID:   &req.ManagerID,
		ManagerName: &req.ManagerName,
		Department:  req.Department,
		Position:    req.Position,
		Reason:      reason,
	})
	s.notify.Dispatch(Notification{
		RecipientID:   req.StaffID,
		RecipientName: req.StaffName,
		Subject:       fmt.Sprintf("WFH request %s", strings.ToLower(string(to))),
		Body: fmt.Sprintf("Your WFH request for %s (%s) is now %s.",
			req.RequestedDate.Format(dates.DateLayout), req.RequestType, to),
	})
	return req, nil
}

// ExpirePending moves every pending request whose day has arrived without a
// decision to expired. Run by the nightly sweep.
func (s *RequestService) ExpirePending(ctx context.Context) ([]models.LeaveRequest, error) {
	expired, err := s.repo.ExpirePendingBefore(ctx, s.calendar.Today())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to expire requests")
	}
	for i := range expired {
		req := &expired[i]
		s.audit.Record(ctx, &models.ActionLog{
			PerformedBy: models.SystemActor,
			Kind:        models.LogKindApplication,
			Action:      models.LogActionExpire,
			RequestID:   &req.RequestID,
			StaffName:   req.StaffName,
			ManagerID:   &req.ManagerID,
			ManagerName: &req.ManagerName,
			Department:  req.Department,
			Position:    req.Position,
		})
		s.notify.Dispatch(Notification{
			RecipientID:   req.StaffID,
			RecipientName: req.StaffName,
			Subject:       "WFH request expired",
			Body: fmt.Sprintf("Your WFH request for %s expired without a decision.",
				req.RequestedDate.Format(dates.DateLayout)),
		})
	}
	return expired, nil
}

// OwnRequests returns the staff member's full request history.
func (s *RequestService) OwnRequests(ctx context.Context, staffID int64) ([]models.LeaveRequest, error) {
	requests, err := s.repo.ListByStaff(ctx, staffID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list requests")
	}
	return requests, nil
}

// PendingApprovals returns requests awaiting the manager's decision.
func (s *RequestService) PendingApprovals(ctx context.Context, managerID int64) ([]models.LeaveRequest, error) {
	requests, err := s.repo.ListPendingByManager(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list pending requests")
	}
	return requests, nil
}

// TeamRequests returns every request filed by the manager's reports.
func (s *RequestService) TeamRequests(ctx context.Context, managerID int64) ([]models.LeaveRequest, error) {
	requests, err := s.repo.ListByManager(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list team requests")
	}
	return requests, nil
}
