package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"
)

// Channel is an outbound delivery sink. Actual delivery (SMS gateway, mail
// relay, SOC feed) is outside this system; channels only hand the message
// off.
type Channel interface {
	Name() string
	Deliver(ctx context.Context, n Notification) error
}

// LogChannel writes deliveries to the structured log; the stand-in for the
// SMS/email/security-desk hand-off in environments without a broker.
type LogChannel struct {
	logger *slog.Logger
}

func NewLogChannel(logger *slog.Logger) *LogChannel {
	return &LogChannel{logger: logger}
}

func (c *LogChannel) Name() string { return "log" }

func (c *LogChannel) Deliver(ctx context.Context, n Notification) error {
	c.logger.InfoContext(ctx, "notification dispatched",
		"type", n.Type, "priority", n.Priority, "plaza_id", n.PlazaID, "message", n.Message)
	return nil
}

// Publisher is satisfied by the platform Kafka producer.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// KafkaChannel publishes created notifications as JSON events keyed by
// vehicle for per-vehicle ordering.
type KafkaChannel struct {
	publisher Publisher
}

func NewKafkaChannel(publisher Publisher) *KafkaChannel {
	return &KafkaChannel{publisher: publisher}
}

func (c *KafkaChannel) Name() string { return "kafka" }

type notificationEvent struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Message   string    `json:"message"`
	VehicleID string    `json:"vehicle_id,omitempty"`
	PlazaID   string    `json:"plaza_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *KafkaChannel) Deliver(ctx context.Context, n Notification) error {
	event := notificationEvent{
		ID:        n.ID.String(),
		Type:      n.Type,
		Priority:  n.Priority,
		Message:   n.Message,
		PlazaID:   n.PlazaID,
		CreatedAt: time.Now(),
	}
	key := n.PlazaID
	if n.VehicleID != nil {
		event.VehicleID = n.VehicleID.String()
		key = event.VehicleID
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode notification event: %w", err)
	}
	return c.publisher.Publish(ctx, key, payload)
}
