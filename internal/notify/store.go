package notify

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists notifications. InsertDeduped must hold the window-dedup
// invariant under concurrent inserts; the Postgres implementation leans on a
// uniqueness backstop rather than a select-then-insert.
type Store interface {
	// InsertDeduped inserts n unless an identical (message, type, priority)
	// notification exists within the window; created is false when the
	// insert was suppressed.
	InsertDeduped(ctx context.Context, n *Notification, window time.Duration) (created bool, err error)

	ListByVehicle(ctx context.Context, vehicleID uuid.UUID, onlyUnread bool) ([]Notification, error)
}
