package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/wfh-portal-api/pkg/jobs"
)

// Notification is one message to a staff member about a workflow event.
type Notification struct {
	RecipientID   int64
	RecipientName string
	Subject       string
	Body          string
}

// Notifier delivers notifications. The default implementation only logs;
// deployments plug in mail or chat delivery here.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// LogNotifier writes notifications to the structured log.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier constructs the logging notifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

// Send implements Notifier.
func (n *LogNotifier) Send(_ context.Context, msg Notification) error {
	n.logger.Info("notification",
		zap.Int64("recipient_id", msg.RecipientID),
		zap.String("recipient", msg.RecipientName),
		zap.String("subject", msg.Subject),
		zap.String("body", msg.Body),
	)
	return nil
}

type dropMetrics interface {
	RecordDroppedNotification()
}

// NotificationService dispatches notifications asynchronously through a
// worker queue so workflow writes never wait on delivery.
type NotificationService struct {
	queue   *jobs.Queue
	metrics dropMetrics
	logger  *zap.Logger
}

// NewNotificationService wires the notifier behind a job queue.
func NewNotificationService(notifier Notifier, cfg jobs.QueueConfig, metrics dropMetrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &NotificationService{metrics: metrics, logger: logger}
	svc.queue = jobs.NewQueue("notifications", func(ctx context.Context, job jobs.Job) error {
		n, ok := job.Payload.(Notification)
		if !ok {
			return fmt.Errorf("unexpected payload type %T", job.Payload)
		}
		return notifier.Send(ctx, n)
	}, cfg)
	return svc
}

// Start begins background dispatch.
func (s *NotificationService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	s.queue.Stop()
}

// Dispatch enqueues a notification. Failures are logged and counted, never
// surfaced to the caller: a lost notification must not fail a workflow write.
func (s *NotificationService) Dispatch(n Notification) {
	err := s.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    "notification",
		Payload: n,
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordDroppedNotification()
		}
		s.logger.Warn("failed to enqueue notification",
			zap.Int64("recipient_id", n.RecipientID),
			zap.String("subject", n.Subject),
			zap.Error(err),
		)
	}
}
