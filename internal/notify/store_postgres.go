package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PostgresStore persists notifications with atomic window deduplication.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// InsertDeduped is a single statement: the NOT EXISTS clause enforces the
// rolling window, and the (dedup_hash, day_bucket) unique index backstops
// concurrent same-content inserts that both pass the window check.
func (s *PostgresStore) InsertDeduped(ctx context.Context, n *Notification, window time.Duration) (bool, error) {
	hash := DedupHash(n.Message, n.Type, n.Priority)
	bucket := time.Now().Unix() / 86400

	var vehicleID any
	if n.VehicleID != nil {
		vehicleID = *n.VehicleID
	}
	var plazaID any
	if n.PlazaID != "" {
		plazaID = n.PlazaID
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO notifications (notification_id, message, created_at, type, priority, status, vehicle_id, plaza_id, dedup_hash, day_bucket)
		SELECT $1, $2, NOW(), $3, $4, $5, $6, $7, $8, $9
		WHERE NOT EXISTS (
			SELECT 1 FROM notifications
			WHERE dedup_hash = $8 AND created_at >= NOW() - ($10 * INTERVAL '1 second')
		)
		ON CONFLICT (dedup_hash, day_bucket) DO NOTHING
	`, n.ID, n.Message, n.Type, n.Priority, n.Status, vehicleID, plazaID, hash, bucket, int64(window.Seconds()))
	if err != nil {
		return false, fmt.Errorf("insert deduped notification: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert notification rows affected: %w", err)
	}
	return rows > 0, nil
}

func (s *PostgresStore) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, onlyUnread bool) ([]Notification, error) {
	query := `
		SELECT notification_id, message, created_at, type, priority, status, vehicle_id, plaza_id
		FROM notifications
		WHERE vehicle_id = $1
	`
	if onlyUnread {
		query += ` AND status = 'unread'`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, vehicleID)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	defer rows.Close()

	var out []Notification
	for rows.Next() {
		var n Notification
		var vID uuid.NullUUID
		var plaza sql.NullString
		if err := rows.Scan(&n.ID, &n.Message, &n.Timestamp, &n.Type, &n.Priority, &n.Status, &vID, &plaza); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		if vID.Valid {
			id := vID.UUID
			n.VehicleID = &id
		}
		n.PlazaID = plaza.String
		out = append(out, n)
	}
	return out, rows.Err()
}
