package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/wfh-portal-api/internal/middleware"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
	"github.com/noah-isme/wfh-portal-api/pkg/response"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	value, exists := c.Get(middleware.ContextUserKey)
	if !exists {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}

// decisionError collapses the "nothing happened" family of decision failures
// into one NOT_MODIFIED answer. A caller probing request IDs cannot tell a
// missing row from an already-decided one from a lost race.
func decisionError(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	switch appErr.Code {
	case appErrors.ErrNotFound.Code, appErrors.ErrAlreadyProcessed.Code:
		response.Error(c, appErrors.ErrNotModified)
	default:
		response.Error(c, err)
	}
}
