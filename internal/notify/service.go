package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"tollgate/internal/identity"
)

// VehicleReader is the read-only slice of the identity store used for
// message enrichment.
type VehicleReader interface {
	GetVehicle(ctx context.Context, id uuid.UUID) (*identity.Vehicle, error)
}

// Service deduplicates and persists notifications, then fans them out to the
// configured outbound channels. Channel delivery is best effort; the stored
// notification is the source of truth.
type Service struct {
	store      Store
	vehicles   VehicleReader
	channels   []Channel
	logger     *slog.Logger
	paymentURL string
}

type Option func(*Service)

func WithChannels(channels ...Channel) Option {
	return func(s *Service) {
		s.channels = append(s.channels, channels...)
	}
}

func WithPaymentURL(base string) Option {
	return func(s *Service) {
		s.paymentURL = base
	}
}

func NewService(store Store, vehicles VehicleReader, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:      store,
		vehicles:   vehicles,
		logger:     logger,
		paymentURL: "https://smart-toll.local/pay",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Notify enriches, deduplicates, and persists one notification. Returns
// whether a row was created (false means the dedup window suppressed it).
func (s *Service) Notify(ctx context.Context, typ, message, priority string, vehicleID *uuid.UUID, plazaID string) (bool, error) {
	message = s.enrich(ctx, typ, message, vehicleID)

	n := &Notification{
		ID:        uuid.New(),
		Message:   message,
		Type:      typ,
		Priority:  priority,
		Status:    StatusUnread,
		VehicleID: vehicleID,
		PlazaID:   plazaID,
	}
	created, err := s.store.InsertDeduped(ctx, n, DedupWindow)
	if err != nil {
		return false, fmt.Errorf("insert notification: %w", err)
	}
	if !created {
		s.logger.InfoContext(ctx, "notification deduped", "type", typ, "priority", priority)
		return false, nil
	}

	s.logger.InfoContext(ctx, "notification created",
		"type", typ, "priority", priority, "plaza_id", plazaID, "message", message)

	for _, ch := range s.channels {
		if err := ch.Deliver(ctx, *n); err != nil {
			s.logger.WarnContext(ctx, "notification channel delivery failed",
				"channel", ch.Name(), "type", typ, "error", err)
		}
	}
	return true, nil
}

// enrich appends a vehicle summary for the lookup-failure types and a
// payment link for LOW_BALANCE. A failed vehicle lookup degrades gracefully:
// the notification still goes out unenriched.
func (s *Service) enrich(ctx context.Context, typ, message string, vehicleID *uuid.UUID) string {
	switch typ {
	case TypeLowBalance:
		if vehicleID != nil {
			return message + fmt.Sprintf("\nPlease top up here: %s?vehicle=%s", s.paymentURL, vehicleID)
		}
		return message
	case TypeTagMissing, TypeLicenseMissing, TypeUnmatchedPlate:
		if vehicleID == nil {
			return message
		}
		v, err := s.vehicles.GetVehicle(ctx, *vehicleID)
		if err != nil {
			s.logger.WarnContext(ctx, "vehicle lookup for enrichment failed",
				"vehicle_id", vehicleID, "error", err)
			return message
		}
		if v == nil {
			return message
		}
		return message + v.Summary()
	default:
		return message
	}
}

// ListByVehicle exposes the stored notifications for the lookup endpoint.
func (s *Service) ListByVehicle(ctx context.Context, vehicleID uuid.UUID, onlyUnread bool) ([]Notification, error) {
	list, err := s.store.ListByVehicle(ctx, vehicleID, onlyUnread)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return list, nil
}
