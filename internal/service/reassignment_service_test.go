package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type reassignmentUpdate struct {
	reassignmentID int64
	from, to       models.ReassignmentStatus
}

type stubReassignmentStore struct {
	inserted    []*models.Reassignment
	findResult  *models.Reassignment
	findErr     error
	updateOK    bool
	updates     []reassignmentUpdate
	overlap     bool
	activeFor   map[int64]bool
	activeRec   *models.Reassignment
	activated   []models.Reassignment
	deactivated []models.Reassignment
}

func (s *stubReassignmentStore) Insert(_ context.Context, rec *models.Reassignment) error {
	rec.ReassignmentID = int64(len(s.inserted) + 1)
	s.inserted = append(s.inserted, rec)
	return nil
}

func (s *stubReassignmentStore) FindByID(context.Context, int64) (*models.Reassignment, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	found := *s.findResult
	return &found, nil
}

func (s *stubReassignmentStore) ListByDelegator(context.Context, int64) ([]models.Reassignment, error) {
	return nil, nil
}

func (s *stubReassignmentStore) ListByDelegate(context.Context, int64) ([]models.Reassignment, error) {
	return nil, nil
}

func (s *stubReassignmentStore) ListPendingByDelegate(context.Context, int64) ([]models.Reassignment, error) {
	return nil, nil
}

func (s *stubReassignmentStore) UpdateStatus(_ context.Context, id int64, from, to models.ReassignmentStatus) (bool, error) {
	s.updates = append(s.updates, reassignmentUpdate{reassignmentID: id, from: from, to: to})
	return s.updateOK, nil
}

func (s *stubReassignmentStore) HasOverlapping(context.Context, int64, time.Time, time.Time) (bool, error) {
	return s.overlap, nil
}

func (s *stubReassignmentStore) HasActiveDelegationInvolving(_ context.Context, staffID int64) (bool, error) {
	return s.activeFor[staffID], nil
}

func (s *stubReassignmentStore) FindActiveDelegation(context.Context, repository.DelegationQuery, time.Time) (*models.Reassignment, error) {
	if s.activeRec == nil {
		return nil, sql.ErrNoRows
	}
	return s.activeRec, nil
}

func (s *stubReassignmentStore) SetActiveOn(context.Context, time.Time) ([]models.Reassignment, error) {
	return s.activated, nil
}

func (s *stubReassignmentStore) SetInactiveBefore(context.Context, time.Time) ([]models.Reassignment, error) {
	return s.deactivated, nil
}

type stubRequestLister struct {
	requests []models.LeaveRequest
}

func (s *stubRequestLister) ListByManager(context.Context, int64) ([]models.LeaveRequest, error) {
	return s.requests, nil
}

func managersDirectory() *stubDirectory {
	manager := &models.Employee{
		StaffID: 130002, FirstName: "Jack", LastName: "Sim",
		Department: "Sales", Position: "Director", Role: models.RoleManager,
	}
	cover := &models.Employee{
		StaffID: 140001, FirstName: "Derek", LastName: "Tan",
		Department: "Sales", Position: "Director", Role: models.RoleManager,
	}
	return &stubDirectory{employees: map[int64]*models.Employee{130002: manager, 140001: cover}}
}

func newReassignmentService(t *testing.T, store *stubReassignmentStore, requests *stubRequestLister) (*ReassignmentService, *stubAudit, *stubNotify) {
	t.Helper()
	if requests == nil {
		requests = &stubRequestLister{}
	}
	audit := &stubAudit{}
	notify := &stubNotify{}
	// Friday 2024-09-20, 09:00 SGT.
	svc := NewReassignmentService(store, requests, managersDirectory(),
		audit, notify, frozenCalendar(t, "2024-09-20 09:00:00"), zap.NewNop())
	return svc, audit, notify
}

func TestCreateReassignmentValidWindow(t *testing.T) {
	store := &stubReassignmentStore{}
	svc, audit, notify := newReassignmentService(t, store, nil)

	rec, err := svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001,
		StartDate:     "2024-09-23",
		EndDate:       "2024-09-27",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReassignmentStatusPending, rec.Status)
	require.Equal(t, "Jack Sim", rec.StaffName)
	require.Equal(t, "Derek Tan", rec.TempManagerName)
	require.Nil(t, rec.Active)
	require.Len(t, audit.entries, 1)
	require.Len(t, notify.sent, 1)
	require.Equal(t, int64(140001), notify.sent[0].RecipientID)
}

func TestCreateReassignmentStartDateRules(t *testing.T) {
	svc, _, _ := newReassignmentService(t, &stubReassignmentStore{}, nil)

	_, err := svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001, StartDate: "2024-09-19", EndDate: "2024-09-27",
	})
	require.Equal(t, appErrors.ErrPastStartDate, err)

	_, err = svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001, StartDate: "2024-09-20", EndDate: "2024-09-27",
	})
	require.Equal(t, appErrors.ErrCurrentStartDate, err)

	_, err = svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001, StartDate: "2024-09-27", EndDate: "2024-09-23",
	})
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 130002, StartDate: "2024-09-23", EndDate: "2024-09-27",
	})
	require.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateReassignmentBlockedByActiveDelegation(t *testing.T) {
	store := &stubReassignmentStore{activeFor: map[int64]bool{140001: true}}
	svc, _, _ := newReassignmentService(t, store, nil)

	_, err := svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001, StartDate: "2024-09-23", EndDate: "2024-09-27",
	})
	require.Equal(t, appErrors.ErrActiveDelegation, err)
}

func TestCreateReassignmentBlockedByOverlap(t *testing.T) {
	store := &stubReassignmentStore{overlap: true}
	svc, _, _ := newReassignmentService(t, store, nil)

	_, err := svc.Create(context.Background(), 130002, dto.CreateReassignmentRequest{
		TempManagerID: 140001, StartDate: "2024-09-23", EndDate: "2024-09-27",
	})
	require.Equal(t, appErrors.ErrOverlapRange, err)
}

func pendingReassignment() *models.Reassignment {
	return &models.Reassignment{
		ReassignmentID:  9,
		StaffID:         130002,
		StaffName:       "Jack Sim",
		Department:      "Sales",
		TempManagerID:   140001,
		TempManagerName: "Derek Tan",
		StartDate:       time.Date(2024, 9, 23, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2024, 9, 27, 0, 0, 0, 0, time.UTC),
		Status:          models.ReassignmentStatusPending,
	}
}

func TestHandleReassignmentOnlyDelegateDecides(t *testing.T) {
	store := &stubReassignmentStore{findResult: pendingReassignment(), updateOK: true}
	svc, _, _ := newReassignmentService(t, store, nil)

	_, err := svc.Handle(context.Background(), 130002, dto.HandleReassignmentRequest{
		ReassignmentID: 9, Action: "APPROVE",
	})
	require.Equal(t, appErrors.ErrForbidden, err)
	require.Empty(t, store.updates)
}

func TestHandleReassignmentApprove(t *testing.T) {
	store := &stubReassignmentStore{findResult: pendingReassignment(), updateOK: true}
	svc, _, notify := newReassignmentService(t, store, nil)

	rec, err := svc.Handle(context.Background(), 140001, dto.HandleReassignmentRequest{
		ReassignmentID: 9, Action: "APPROVE",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReassignmentStatusApproved, rec.Status)
	require.Equal(t, reassignmentUpdate{reassignmentID: 9, from: models.ReassignmentStatusPending, to: models.ReassignmentStatusApproved}, store.updates[0])
	require.Len(t, notify.sent, 1)
	require.Equal(t, int64(130002), notify.sent[0].RecipientID)
}

func TestHandleReassignmentAlreadyDecided(t *testing.T) {
	rec := pendingReassignment()
	rec.Status = models.ReassignmentStatusApproved
	store := &stubReassignmentStore{findResult: rec, updateOK: true}
	svc, _, _ := newReassignmentService(t, store, nil)

	_, err := svc.Handle(context.Background(), 140001, dto.HandleReassignmentRequest{
		ReassignmentID: 9, Action: "REJECT",
	})
	require.Equal(t, appErrors.ErrAlreadyProcessed, err)
}

func TestDelegatedRequestsFiltersByWindow(t *testing.T) {
	active := pendingReassignment()
	active.Status = models.ReassignmentStatusApproved
	inside := time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC)
	outside := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)

	requests := &stubRequestLister{requests: []models.LeaveRequest{
		{RequestID: 1, Status: models.RequestStatusPending, RequestedDate: outside},
		{RequestID: 2, Status: models.RequestStatusApproved, RequestedDate: inside},
		{RequestID: 3, Status: models.RequestStatusApproved, RequestedDate: outside},
		{RequestID: 4, Status: models.RequestStatusRejected, RequestedDate: inside},
		{RequestID: 5, Status: models.RequestStatusCancelled, RequestedDate: inside},
	}}
	store := &stubReassignmentStore{activeRec: active}
	svc, _, _ := newReassignmentService(t, store, requests)

	visible, err := svc.DelegatedRequests(context.Background(), 140001)
	require.NoError(t, err)

	ids := make([]int64, 0, len(visible))
	for _, req := range visible {
		ids = append(ids, req.RequestID)
	}
	// Pending always visible, approved/rejected only inside the window.
	require.Equal(t, []int64{1, 2, 4}, ids)
}

func TestDelegatedRequestsWithoutActiveDelegation(t *testing.T) {
	svc, _, _ := newReassignmentService(t, &stubReassignmentStore{}, nil)

	_, err := svc.DelegatedRequests(context.Background(), 140001)
	require.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSweepsRecordSystemActor(t *testing.T) {
	active := pendingReassignment()
	active.Status = models.ReassignmentStatusApproved
	store := &stubReassignmentStore{
		activated:   []models.Reassignment{*active},
		deactivated: []models.Reassignment{*active},
	}
	svc, audit, _ := newReassignmentService(t, store, nil)

	activated, err := svc.ActivateWindows(context.Background())
	require.NoError(t, err)
	require.Len(t, activated, 1)

	deactivated, err := svc.DeactivateExpired(context.Background())
	require.NoError(t, err)
	require.Len(t, deactivated, 1)

	require.Len(t, audit.entries, 2)
	require.Equal(t, models.LogActionSetActive, audit.entries[0].Action)
	require.Equal(t, models.LogActionSetInactive, audit.entries[1].Action)
	require.Equal(t, models.SystemActor, audit.entries[0].PerformedBy)
}
