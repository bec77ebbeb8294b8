package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/models"
)

type stubRequestSweeper struct {
	rows []models.LeaveRequest
	err  error
	runs int
}

func (s *stubRequestSweeper) ExpirePending(context.Context) ([]models.LeaveRequest, error) {
	s.runs++
	return s.rows, s.err
}

type stubWithdrawalSweeper struct {
	rows []models.Withdrawal
	runs int
}

func (s *stubWithdrawalSweeper) ExpirePending(context.Context) ([]models.Withdrawal, error) {
	s.runs++
	return s.rows, nil
}

type stubReassignmentSweeper struct {
	activateRuns   int
	deactivateRuns int
}

func (s *stubReassignmentSweeper) ActivateWindows(context.Context) ([]models.Reassignment, error) {
	s.activateRuns++
	return nil, nil
}

func (s *stubReassignmentSweeper) DeactivateExpired(context.Context) ([]models.Reassignment, error) {
	s.deactivateRuns++
	return nil, nil
}

type stubSweepMetrics struct {
	observed map[string]int
	errors   map[string]int
}

func (s *stubSweepMetrics) ObserveSweep(sweep string, rows int, err error) {
	if s.observed == nil {
		s.observed = map[string]int{}
		s.errors = map[string]int{}
	}
	s.observed[sweep] += rows
	if err != nil {
		s.errors[sweep]++
	}
}

func TestRunOnceExecutesEverySweep(t *testing.T) {
	requests := &stubRequestSweeper{rows: []models.LeaveRequest{{RequestID: 41}}}
	withdrawals := &stubWithdrawalSweeper{}
	reassignments := &stubReassignmentSweeper{}
	metrics := &stubSweepMetrics{}

	sweeper := NewSweeperService(requests, withdrawals, reassignments, metrics,
		frozenCalendar(t, "2024-09-20 00:00:00"), 0, zap.NewNop())
	sweeper.RunOnce(context.Background())

	require.Equal(t, 1, requests.runs)
	require.Equal(t, 1, withdrawals.runs)
	require.Equal(t, 1, reassignments.activateRuns)
	require.Equal(t, 1, reassignments.deactivateRuns)
	require.Equal(t, 1, metrics.observed["expire_requests"])
}

func TestRunOnceContinuesPastFailures(t *testing.T) {
	requests := &stubRequestSweeper{err: errors.New("db down")}
	withdrawals := &stubWithdrawalSweeper{}
	reassignments := &stubReassignmentSweeper{}
	metrics := &stubSweepMetrics{}

	sweeper := NewSweeperService(requests, withdrawals, reassignments, metrics,
		frozenCalendar(t, "2024-09-20 00:00:00"), 0, zap.NewNop())
	sweeper.RunOnce(context.Background())

	require.Equal(t, 1, withdrawals.runs)
	require.Equal(t, 1, reassignments.activateRuns)
	require.Equal(t, 1, reassignments.deactivateRuns)
	require.Equal(t, 1, metrics.errors["expire_requests"])
}
