package workers

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	application "keystone/contexts/account-management/account-service/application"
	"keystone/contexts/account-management/account-service/ports"
	"keystone/internal/shared/events"
)

// NotificationRelay publishes pending notification outbox rows to the bus.
type NotificationRelay struct {
	Outbox    ports.NotificationOutbox
	Publisher ports.EventPublisher
	Clock     ports.Clock
	Topic     string
	BatchSize int
	Logger    *slog.Logger
}

func (r NotificationRelay) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(r.Logger)
	limit := r.BatchSize
	if limit <= 0 {
		limit = 100
	}

	pending, err := r.Outbox.ListPendingNotifications(ctx, limit)
	if err != nil {
		logger.Error("notification outbox list failed",
			"event", "notification_outbox_list_failed",
			"module", "account-management/account-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}

	now := time.Now().UTC()
	if r.Clock != nil {
		now = r.Clock.Now().UTC()
	}

	for _, row := range pending {
		var envelope events.Envelope
		if err := json.Unmarshal(row.Payload, &envelope); err != nil {
			logger.Error("notification outbox decode failed",
				"event", "notification_outbox_decode_failed",
				"module", "account-management/account-service",
				"layer", "worker",
				"notification_id", row.ID,
				"error", err.Error(),
			)
			return err
		}

		if err := r.Publisher.Publish(ctx, r.Topic, envelope); err != nil {
			logger.Error("notification publish failed",
				"event", "notification_publish_failed",
				"module", "account-management/account-service",
				"layer", "worker",
				"notification_id", row.ID,
				"event_id", envelope.EventID,
				"event_type", envelope.EventType,
				"topic", r.Topic,
				"error", err.Error(),
			)
			return err
		}
		if err := r.Outbox.MarkNotificationPublished(ctx, row.ID, now); err != nil {
			logger.Error("notification mark published failed",
				"event", "notification_mark_published_failed",
				"module", "account-management/account-service",
				"layer", "worker",
				"notification_id", row.ID,
				"error", err.Error(),
			)
			return err
		}
	}

	if len(pending) > 0 {
		logger.Info("notification relay cycle completed",
			"event", "notification_relay_completed",
			"module", "account-management/account-service",
			"layer", "worker",
			"published_count", len(pending),
		)
	}
	return nil
}
