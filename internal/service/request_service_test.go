package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type statusUpdate struct {
	requestID int64
	from, to  models.RequestStatus
}

type stubRequestStore struct {
	inserted    []*models.LeaveRequest
	insertErrOn map[string]error
	conflicts   map[string]bool
	nonTerminal []models.LeaveRequest
	findResult  *models.LeaveRequest
	findErr     error
	updateOK    bool
	updateErr   error
	updates     []statusUpdate
	expired     []models.LeaveRequest
}

func (s *stubRequestStore) Insert(_ context.Context, req *models.LeaveRequest) error {
	key := req.RequestedDate.Format(dates.DateLayout)
	if err := s.insertErrOn[key]; err != nil {
		return err
	}
	req.RequestID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, req)
	return nil
}

func (s *stubRequestStore) FindByIDAndStatus(context.Context, int64, models.RequestStatus) (*models.LeaveRequest, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	found := *s.findResult
	return &found, nil
}

func (s *stubRequestStore) ListByStaff(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) ListNonTerminalByStaff(context.Context, int64) ([]models.LeaveRequest, error) {
	return s.nonTerminal, nil
}

func (s *stubRequestStore) ListPendingByManager(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) ListByManager(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (s *stubRequestStore) HasConflictOnDate(_ context.Context, _ int64, day time.Time) (bool, error) {
	return s.conflicts[day.Format(dates.DateLayout)], nil
}

func (s *stubRequestStore) UpdateStatus(_ context.Context, requestID int64, from, to models.RequestStatus, _ *int64, _ *string) (bool, error) {
	s.updates = append(s.updates, statusUpdate{requestID: requestID, from: from, to: to})
	return s.updateOK, s.updateErr
}

func (s *stubRequestStore) ExpirePendingBefore(context.Context, time.Time) ([]models.LeaveRequest, error) {
	return s.expired, nil
}

type stubDirectory struct {
	employees map[int64]*models.Employee
}

func (s *stubDirectory) FindByID(_ context.Context, staffID int64) (*models.Employee, error) {
	emp, ok := s.employees[staffID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return emp, nil
}

type stubDelegations struct {
	rec *models.Reassignment
	err error
}

func (s *stubDelegations) FindActiveDelegation(context.Context, repository.DelegationQuery, time.Time) (*models.Reassignment, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.rec == nil {
		return nil, sql.ErrNoRows
	}
	return s.rec, nil
}

type stubAudit struct {
	entries []*models.ActionLog
}

func (s *stubAudit) Record(_ context.Context, entry *models.ActionLog) {
	s.entries = append(s.entries, entry)
}

type stubNotify struct {
	sent []Notification
}

func (s *stubNotify) Dispatch(n Notification) {
	s.sent = append(s.sent, n)
}

func frozenCalendar(t *testing.T, now string) *dates.Calendar {
	t.Helper()
	cal, err := dates.New(dates.DefaultTimezone)
	require.NoError(t, err)
	fixed, err := time.ParseInLocation("2006-01-02 15:04:05", now, cal.Location())
	require.NoError(t, err)
	return cal.WithNow(func() time.Time { return fixed })
}

func testEmployee(staffID int64) *models.Employee {
	managerID := int64(130002)
	managerName := "Jack Sim"
	return &models.Employee{
		StaffID:     staffID,
		FirstName:   "Jaclyn",
		LastName:    "Lee",
		Email:       "jaclyn.lee@example.com",
		Department:  "Sales",
		Position:    "Account Manager",
		Role:        models.RoleStaff,
		ManagerID:   &managerID,
		ManagerName: &managerName,
	}
}

func dateStrings(entries []dto.SubmissionEntry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Date)
	}
	return out
}

func TestSubmitSortsEntriesIntoBuckets(t *testing.T) {
	// Friday 2024-09-20: the Monday 09-23 deadline (Thursday 09-19) has passed.
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	parse := func(raw string) time.Time {
		d, err := cal.ParseDate(raw)
		require.NoError(t, err)
		return d
	}

	store := &stubRequestStore{
		insertErrOn: map[string]error{"2024-09-27": sql.ErrConnDone},
		conflicts:   map[string]bool{"2024-09-26": true},
		nonTerminal: []models.LeaveRequest{
			{RequestedDate: parse("2024-09-24"), Status: models.RequestStatusApproved},
			{RequestedDate: parse("2024-09-26"), Status: models.RequestStatusPending},
		},
	}
	dir := &stubDirectory{employees: map[int64]*models.Employee{150076: testEmployee(150076)}}
	audit := &stubAudit{}
	notify := &stubNotify{}
	svc := NewRequestService(store, dir, &stubDelegations{}, audit, notify, cal, zap.NewNop())

	result, err := svc.Submit(context.Background(), 150076, dto.SubmitRequest{
		Reason: "home repairs",
		Entries: []dto.SubmissionEntry{
			{Date: "2024-09-25", Type: "FULL"}, // accepted, third in its week
			{Date: "2024-09-25", Type: "AM"},   // duplicate within batch
			{Date: "2024-09-28", Type: "FULL"}, // Saturday
			{Date: "2024-09-19", Type: "FULL"}, // yesterday
			{Date: "2024-09-23", Type: "FULL"}, // Monday past its deadline
			{Date: "2024-09-26", Type: "PM"},   // conflicts with existing request
			{Date: "2024-09-27", Type: "FULL"}, // insert fails
		},
	})
	require.NoError(t, err)

	require.Equal(t, []string{"2024-09-25"}, dateStrings(result.Success))
	require.Equal(t, []string{"2024-09-25"}, dateStrings(result.Note))
	require.Equal(t, []string{"2024-09-25"}, dateStrings(result.Duplicate))
	require.Equal(t, []string{"2024-09-28"}, dateStrings(result.Weekend))
	require.Equal(t, []string{"2024-09-19"}, dateStrings(result.Past))
	require.Equal(t, []string{"2024-09-23"}, dateStrings(result.PastDeadline))
	require.Equal(t, []string{"2024-09-26"}, dateStrings(result.SameDay))
	require.Equal(t, []string{"2024-09-27"}, dateStrings(result.InsertError))

	require.Len(t, store.inserted, 1)
	require.Equal(t, models.RequestStatusPending, store.inserted[0].Status)
	require.Equal(t, "Jaclyn Lee", store.inserted[0].StaffName)
	require.Len(t, audit.entries, 1)
	require.Len(t, notify.sent, 1)
	require.Equal(t, int64(130002), notify.sent[0].RecipientID)
}

func TestSubmitRejectsInvalidPayload(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	dir := &stubDirectory{employees: map[int64]*models.Employee{150076: testEmployee(150076)}}
	svc := NewRequestService(&stubRequestStore{}, dir, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Submit(context.Background(), 150076, dto.SubmitRequest{
		Reason:  "x",
		Entries: []dto.SubmissionEntry{{Date: "25-09-2024", Type: "FULL"}},
	})
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Submit(context.Background(), 150076, dto.SubmitRequest{
		Reason:  "x",
		Entries: []dto.SubmissionEntry{{Date: "2024-09-25", Type: "HALF"}},
	})
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func pendingRequest() *models.LeaveRequest {
	return &models.LeaveRequest{
		RequestID:     41,
		StaffID:       150076,
		StaffName:     "Jaclyn Lee",
		ManagerID:     130002,
		ManagerName:   "Jack Sim",
		Department:    "Sales",
		Position:      "Account Manager",
		RequestedDate: time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC),
		RequestType:   models.LeaveTypeFull,
		Status:        models.RequestStatusPending,
	}
}

func TestApproveByManager(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findResult: pendingRequest(), updateOK: true}
	notify := &stubNotify{}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, notify, cal, zap.NewNop())

	req, err := svc.Approve(context.Background(), 130002, 41)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusApproved, req.Status)
	require.Equal(t, statusUpdate{requestID: 41, from: models.RequestStatusPending, to: models.RequestStatusApproved}, store.updates[0])
	require.Len(t, notify.sent, 1)
	require.Equal(t, int64(150076), notify.sent[0].RecipientID)
}

func TestApproveByActiveDelegate(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findResult: pendingRequest(), updateOK: true}
	delegations := &stubDelegations{rec: &models.Reassignment{
		ReassignmentID: 9,
		StaffID:        130002,
		TempManagerID:  140001,
		Status:         models.ReassignmentStatusApproved,
	}}
	svc := NewRequestService(store, &stubDirectory{}, delegations, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	req, err := svc.Approve(context.Background(), 140001, 41)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusApproved, req.Status)
}

func TestApproveWithoutAuthorityForbidden(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findResult: pendingRequest(), updateOK: true}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Approve(context.Background(), 140001, 41)
	require.Equal(t, appErrors.ErrForbidden, err)
	require.Empty(t, store.updates)
}

func TestApproveLosesConcurrentRace(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findResult: pendingRequest(), updateOK: false}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Approve(context.Background(), 130002, 41)
	require.Equal(t, appErrors.ErrAlreadyProcessed, err)
}

func TestApproveMissingRequestAlreadyProcessed(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findErr: sql.ErrNoRows}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Approve(context.Background(), 130002, 41)
	require.Equal(t, appErrors.ErrAlreadyProcessed, err)
}

func TestRejectRequiresReason(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	svc := NewRequestService(&stubRequestStore{}, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Reject(context.Background(), 130002, 41, "  ")
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestRevokeElapsedDateRejected(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	req := pendingRequest()
	req.Status = models.RequestStatusApproved
	req.RequestedDate = time.Date(2024, 9, 18, 0, 0, 0, 0, time.UTC)
	store := &stubRequestStore{findResult: req, updateOK: true}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Revoke(context.Background(), 130002, 41, "office day")
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	require.Empty(t, store.updates)
}

func TestRevokeOnTheDayAllowed(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	req := pendingRequest()
	req.Status = models.RequestStatusApproved
	req.RequestedDate = time.Date(2024, 9, 20, 0, 0, 0, 0, time.UTC)
	store := &stubRequestStore{findResult: req, updateOK: true}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	updated, err := svc.Revoke(context.Background(), 130002, 41, "office day")
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusRevoked, updated.Status)
}

func TestCancelOnlyByOwner(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	store := &stubRequestStore{findResult: pendingRequest(), updateOK: true}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, &stubAudit{}, &stubNotify{}, cal, zap.NewNop())

	_, err := svc.Cancel(context.Background(), 999999, 41)
	require.Equal(t, appErrors.ErrForbidden, err)

	req, err := svc.Cancel(context.Background(), 150076, 41)
	require.NoError(t, err)
	require.Equal(t, models.RequestStatusCancelled, req.Status)
}

func TestExpirePendingNotifiesAndAudits(t *testing.T) {
	cal := frozenCalendar(t, "2024-09-20 09:00:00")
	expired := *pendingRequest()
	expired.Status = models.RequestStatusExpired
	store := &stubRequestStore{expired: []models.LeaveRequest{expired}}
	audit := &stubAudit{}
	notify := &stubNotify{}
	svc := NewRequestService(store, &stubDirectory{}, &stubDelegations{}, audit, notify, cal, zap.NewNop())

	rows, err := svc.ExpirePending(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Len(t, audit.entries, 1)
	require.Equal(t, models.SystemActor, audit.entries[0].PerformedBy)
	require.Equal(t, models.LogActionExpire, audit.entries[0].Action)
	require.Len(t, notify.sent, 1)
}
