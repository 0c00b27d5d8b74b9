package outbox

import "time"

// Statuses a notification row moves through. Rows are written best-effort
// after the owning transaction commits; the worker relay drains pending rows.
const (
	StatusPending   = "pending"
	StatusPublished = "published"
)

// Message is a durable notification record awaiting relay to the bus.
type Message struct {
	ID          string
	EventType   string
	Payload     []byte
	Status      string // pending, published
	CreatedAt   time.Time
	PublishedAt *time.Time
}
