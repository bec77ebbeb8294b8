package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/pkg/jobs"
)

type stubDropMetrics struct {
	dropped int
}

func (s *stubDropMetrics) RecordDroppedNotification() {
	s.dropped++
}

func TestDispatchCountsDropWhenQueueNotStarted(t *testing.T) {
	metrics := &stubDropMetrics{}
	svc := NewNotificationService(NewLogNotifier(zap.NewNop()), jobs.QueueConfig{}, metrics, zap.NewNop())

	svc.Dispatch(Notification{RecipientID: 150076, Subject: "WFH request approved"})

	require.Equal(t, 1, metrics.dropped)
}

func TestDispatchEnqueuesWhenRunning(t *testing.T) {
	metrics := &stubDropMetrics{}
	svc := NewNotificationService(NewLogNotifier(zap.NewNop()), jobs.QueueConfig{Workers: 1, BufferSize: 4}, metrics, zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Dispatch(Notification{RecipientID: 150076, Subject: "WFH request approved"})

	require.Zero(t, metrics.dropped)
}
