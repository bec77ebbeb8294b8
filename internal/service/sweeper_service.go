package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/dates"
	"github.com/noah-isme/wfh-portal-api/internal/models"
)

type requestSweeper interface {
	ExpirePending(ctx context.Context) ([]models.LeaveRequest, error)
}

type withdrawalSweeper interface {
	ExpirePending(ctx context.Context) ([]models.Withdrawal, error)
}

type reassignmentSweeper interface {
	ActivateWindows(ctx context.Context) ([]models.Reassignment, error)
	DeactivateExpired(ctx context.Context) ([]models.Reassignment, error)
}

type sweepMetrics interface {
	ObserveSweep(sweep string, rows int, err error)
}

// SweeperService runs the nightly maintenance pass: expiring overdue pending
// requests and withdrawals and rolling the delegation active flags forward.
// Each sweep is idempotent, so an extra run after a restart is harmless.
type SweeperService struct {
	requests      requestSweeper
	withdrawals   withdrawalSweeper
	reassignments reassignmentSweeper
	metrics       sweepMetrics
	calendar      *dates.Calendar
	hour          int
	logger        *zap.Logger
}

// NewSweeperService constructs the sweeper. hour is the local hour of day the
// sweeps fire at, normally 0 for midnight.
func NewSweeperService(requests requestSweeper, withdrawals withdrawalSweeper, reassignments reassignmentSweeper,
	metrics sweepMetrics, calendar *dates.Calendar, hour int, logger *zap.Logger) *SweeperService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if hour < 0 || hour > 23 {
		hour = 0
	}
	return &SweeperService{
		requests:      requests,
		withdrawals:   withdrawals,
		reassignments: reassignments,
		metrics:       metrics,
		calendar:      calendar,
		hour:          hour,
		logger:        logger,
	}
}

// RunOnce executes every sweep once. Failures in one sweep never stop the
// others.
func (s *SweeperService) RunOnce(ctx context.Context) {
	expired, err := s.requests.ExpirePending(ctx)
	s.metrics.ObserveSweep("expire_requests", len(expired), err)
	if err != nil {
		s.logger.Error("request expiry sweep failed", zap.Error(err))
	} else if len(expired) > 0 {
		s.logger.Info("expired pending requests", zap.Int("count", len(expired)))
	}

	expiredW, err := s.withdrawals.ExpirePending(ctx)
	s.metrics.ObserveSweep("expire_withdrawals", len(expiredW), err)
	if err != nil {
		s.logger.Error("withdrawal expiry sweep failed", zap.Error(err))
	} else if len(expiredW) > 0 {
		s.logger.Info("expired pending withdrawals", zap.Int("count", len(expiredW)))
	}

	activated, err := s.reassignments.ActivateWindows(ctx)
	s.metrics.ObserveSweep("activate_delegations", len(activated), err)
	if err != nil {
		s.logger.Error("delegation activation sweep failed", zap.Error(err))
	} else if len(activated) > 0 {
		s.logger.Info("activated delegations", zap.Int("count", len(activated)))
	}

	deactivated, err := s.reassignments.DeactivateExpired(ctx)
	s.metrics.ObserveSweep("deactivate_delegations", len(deactivated), err)
	if err != nil {
		s.logger.Error("delegation deactivation sweep failed", zap.Error(err))
	} else if len(deactivated) > 0 {
		s.logger.Info("deactivated delegations", zap.Int("count", len(deactivated)))
	}
}

// Run blocks, firing the sweeps at the configured hour every day until the
// context is cancelled. Meant to be started in its own goroutine.
func (s *SweeperService) Run(ctx context.Context) {
	for {
		wait := s.untilNextBoundary()
		s.logger.Info("sweeper sleeping", zap.Duration("until_next_run", wait))
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			s.RunOnce(ctx)
		}
	}
}

func (s *SweeperService) untilNextBoundary() time.Duration {
	now := time.Now().In(s.calendar.Location())
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, 0, 0, 0, s.calendar.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}
