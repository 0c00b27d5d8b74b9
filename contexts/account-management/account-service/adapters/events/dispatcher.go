package events

import (
	"context"
	"encoding/json"
	"log/slog"

	"keystone/contexts/account-management/account-service/ports"
	sharedevents "keystone/internal/shared/events"
)

// Dispatcher records notification events in the outbox for the relay worker
// to publish. Callers treat it as fire-and-forget.
type Dispatcher struct {
	outbox ports.NotificationOutbox
	logger *slog.Logger
}

func NewDispatcher(outbox ports.NotificationOutbox, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{outbox: outbox, logger: logger}
}

func (d Dispatcher) Dispatch(ctx context.Context, event ports.NotificationEvent) error {
	payload, err := json.Marshal(map[string]any{
		"org_id":        event.OrgID,
		"membership_id": event.MembershipID,
		"user_id":       event.UserID,
	})
	if err != nil {
		return err
	}
	envelope := sharedevents.Envelope{
		EventID:       event.EventID,
		EventType:     event.EventType,
		SourceService: "account-service",
		OccurredAtUTC: event.OccurredAt.UTC(),
		EntityType:    "membership",
		EntityID:      event.MembershipID,
		PartitionKey:  event.OrgID,
		Payload:       payload,
	}
	if err := d.outbox.AppendNotification(ctx, envelope); err != nil {
		return err
	}

	d.logger.Info("notification queued",
		"event", "notification_queued",
		"module", "account-management/account-service",
		"layer", "adapter",
		"event_id", event.EventID,
		"event_type", event.EventType,
		"org_id", event.OrgID,
		"membership_id", event.MembershipID,
	)
	return nil
}
