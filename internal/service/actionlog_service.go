package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type actionLogStore interface {
	Insert(ctx context.Context, entry *models.ActionLog) error
	List(ctx context.Context, filter models.ActionLogFilter) ([]models.ActionLog, error)
}

// ActionLogService records the audit trail of workflow actions.
type ActionLogService struct {
	repo   actionLogStore
	logger *zap.Logger
}

// NewActionLogService constructs the service.
func NewActionLogService(repo actionLogStore, logger *zap.Logger) *ActionLogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActionLogService{repo: repo, logger: logger}
}

// Record appends an audit entry. Best effort: an audit failure is logged but
// never fails the workflow write it describes.
func (s *ActionLogService) Record(ctx context.Context, entry *models.ActionLog) {
	if entry == nil {
		return
	}
	if err := s.repo.Insert(ctx, entry); err != nil {
		s.logger.Warn("failed to persist action log",
			zap.String("kind", string(entry.Kind)),
			zap.String("action", string(entry.Action)),
			zap.Error(err),
		)
	}
}

// List returns audit entries. HR sees everything; everyone else only their
// own actions.
func (s *ActionLogService) List(ctx context.Context, filter models.ActionLogFilter, actor *models.JWTClaims) ([]models.ActionLog, error) {
	if actor == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if actor.Role != models.RoleHR {
		filter.PerformedBy = &actor.StaffID
	}
	entries, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list action logs")
	}
	return entries, nil
}
