package workers

import (
	"context"
	"log/slog"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/ports"
	"keystone/internal/shared/events"
)

// NotificationConsumer drains published notification events and records the
// delivery. The mail gateway integration lands behind this handler; until
// then delivery is a structured log line.
type NotificationConsumer struct {
	Subscriber    ports.EventSubscriber
	Topic         string
	ConsumerGroup string
	Logger        *slog.Logger
}

func (c NotificationConsumer) Start(ctx context.Context) error {
	logger := application.ResolveLogger(c.Logger)

	topic := c.Topic
	if topic == "" {
		topic = "account.notifications"
	}
	group := c.ConsumerGroup
	if group == "" {
		group = "account-notification-delivery-cg"
	}

	return c.Subscriber.Subscribe(ctx, topic, group, func(_ context.Context, envelope events.Envelope) error {
		logger.Info("notification delivered",
			"event", "notification_delivered",
			"module", "account-management/account-service",
			"layer", "worker",
			"event_id", envelope.EventID,
			"event_type", envelope.EventType,
			"entity_id", envelope.EntityID,
			"org_id", envelope.PartitionKey,
		)
		return nil
	})
}
