package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/wfh-portal-api/internal/dto"
	"github.com/noah-isme/wfh-portal-api/internal/middleware"
	"github.com/noah-isme/wfh-portal-api/internal/models"
	appErrors "github.com/noah-isme/wfh-portal-api/pkg/errors"
)

type requestServiceMock struct {
	approveErr error
}

func (m *requestServiceMock) Submit(context.Context, int64, dto.SubmitRequest) (*dto.SubmitResult, error) {
	return dto.NewSubmitResult(), nil
}

func (m *requestServiceMock) Approve(context.Context, int64, int64) (*models.LeaveRequest, error) {
	return nil, m.approveErr
}

func (m *requestServiceMock) Reject(context.Context, int64, int64, string) (*models.LeaveRequest, error) {
	return nil, nil
}

func (m *requestServiceMock) Revoke(context.Context, int64, int64, string) (*models.LeaveRequest, error) {
	return nil, nil
}

func (m *requestServiceMock) Cancel(context.Context, int64, int64) (*models.LeaveRequest, error) {
	return nil, nil
}

func (m *requestServiceMock) OwnRequests(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (m *requestServiceMock) PendingApprovals(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func (m *requestServiceMock) TeamRequests(context.Context, int64) ([]models.LeaveRequest, error) {
	return nil, nil
}

func approveRequest(t *testing.T, mockSvc *requestServiceMock) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewRequestHandler(mockSvc)

	payload, _ := json.Marshal(dto.ApproveRequest{RequestID: 41})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/requests/approve", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StaffID: 130002, Role: models.RoleManager})

	handler.Approve(c)
	return w
}

// Request decisions collapse the "nothing happened" family into one answer so
// callers cannot distinguish a missing row from an already-decided one.
func TestRequestApproveCollapsesMissingAndDecided(t *testing.T) {
	for _, svcErr := range []error{
		appErrors.Clone(appErrors.ErrNotFound, "request not found"),
		appErrors.ErrAlreadyProcessed,
	} {
		w := approveRequest(t, &requestServiceMock{approveErr: svcErr})
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, appErrors.ErrNotModified.Code, decodeErrorCode(t, w))
	}
}

func TestRequestApproveForbiddenIsNotCollapsed(t *testing.T) {
	w := approveRequest(t, &requestServiceMock{approveErr: appErrors.ErrForbidden})
	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, appErrors.ErrForbidden.Code, decodeErrorCode(t, w))
}
