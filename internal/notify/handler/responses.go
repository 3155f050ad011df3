package handler

import (
	"time"

	"github.com/google/uuid"

	"tollgate/internal/notify"
)

type ListResponse struct {
	VehicleID     uuid.UUID              `json:"vehicle_id"`
	Count         int                    `json:"count"`
	Advisory      string                 `json:"advisory,omitempty"`
	Notifications []NotificationResponse `json:"notifications"`
}

type NotificationResponse struct {
	ID        uuid.UUID `json:"id"`
	Message   string    `json:"message"`
	Type      string    `json:"type"`
	Priority  string    `json:"priority"`
	Status    string    `json:"status"`
	PlazaID   string    `json:"plaza_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func FromNotifications(vehicleID uuid.UUID, list []notify.Notification) ListResponse {
	out := make([]NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, NotificationResponse{
			ID:        n.ID,
			Message:   n.Message,
			Type:      n.Type,
			Priority:  n.Priority,
			Status:    n.Status,
			PlazaID:   n.PlazaID,
			Timestamp: n.Timestamp,
		})
	}
	return ListResponse{VehicleID: vehicleID, Count: len(out), Notifications: out}
}
