package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/noah-isme/wfh-portal-api/internal/models"
	"github.com/noah-isme/wfh-portal-api/internal/repository"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type delegationResolver interface {
	FindActiveDelegation(ctx context.Context, q repository.DelegationQuery, day time.Time) (*models.Reassignment, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry *models.ActionLog)
}

type notificationDispatcher interface {
	Dispatch(n Notification)
}

// hasAuthority reports whether the actor may decide on requests addressed to
// the manager: either the actor is the manager, or the manager holds an
// approved delegation to the actor that is in force today.
func hasAuthority(ctx context.Context, resolver delegationResolver, managerID, actorID int64, today time.Time) (bool, error) {
	if actorID == managerID {
		return true, nil
	}
	_, err := resolver.FindActiveDelegation(ctx, repository.DelegationQuery{
		DelegatorID: &managerID,
		DelegateID:  &actorID,
	}, today)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve delegation")
	}
	return true, nil
}
