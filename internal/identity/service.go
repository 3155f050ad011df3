package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"tollgate/pkg/apperrors"
)

// Service covers the registration side of the identity store: new vehicles
// and tag assignment. The decision engine itself never writes here.
type Service struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewService(store Store, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger, now: time.Now}
}

// Register creates a vehicle and its first tag in one pass.
func (s *Service) Register(ctx context.Context, reg Registration) (*Vehicle, *Tag, error) {
	plate := strings.TrimSpace(reg.Plate)
	if plate == "" {
		return nil, nil, apperrors.New(apperrors.CodeBadRequest, "license plate is required")
	}
	if strings.TrimSpace(reg.TagID) == "" {
		return nil, nil, apperrors.New(apperrors.CodeBadRequest, "tag_id is required")
	}

	existing, err := s.store.FindVehicleByPlate(ctx, plate)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "vehicle lookup failed")
	}
	if existing != nil {
		return nil, nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("vehicle with plate %q is already registered", plate))
	}

	now := s.now()
	v := &Vehicle{
		ID:           uuid.New(),
		Plate:        plate,
		VehicleType:  reg.VehicleType,
		Model:        orDefault(reg.Model, "Unknown"),
		Color:        orDefault(reg.Color, "Unpainted"),
		OwnerID:      reg.OwnerID,
		RegisteredAt: now,
	}
	if err := s.store.CreateVehicle(ctx, v); err != nil {
		if err == ErrPlateExists {
			return nil, nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("vehicle with plate %q is already registered", plate))
		}
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "vehicle registration failed")
	}

	tag, err := s.assignTag(ctx, v.ID, reg.TagID, now)
	if err != nil {
		return nil, nil, err
	}

	s.logger.InfoContext(ctx, "vehicle registered",
		"vehicle_id", v.ID, "plate", v.Plate, "tag_id", tag.ID)
	return v, tag, nil
}

// AssignTag issues a tag for an already registered vehicle, looked up by
// plate at the API boundary and keyed by vehicle_id internally.
func (s *Service) AssignTag(ctx context.Context, plate, tagID string) (*Tag, error) {
	v, err := s.store.FindVehicleByPlate(ctx, plate)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "vehicle lookup failed")
	}
	if v == nil {
		return nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no vehicle found with plate %q", plate))
	}
	return s.assignTag(ctx, v.ID, tagID, s.now())
}

func (s *Service) assignTag(ctx context.Context, vehicleID uuid.UUID, tagID string, issued time.Time) (*Tag, error) {
	tag := &Tag{
		ID:         strings.TrimSpace(tagID),
		VehicleID:  vehicleID,
		Active:     true,
		IssueDate:  issued,
		ExpiryDate: issued.Add(DefaultTagValidity),
	}
	if err := s.store.CreateTag(ctx, tag); err != nil {
		if err == ErrTagExists {
			return nil, apperrors.New(apperrors.CodeConflict, fmt.Sprintf("tag %q is already assigned to another vehicle", tag.ID))
		}
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "tag assignment failed")
	}
	return tag, nil
}

// GetByPlate serves the vehicle lookup endpoint: the vehicle plus its active
// tag, if any.
func (s *Service) GetByPlate(ctx context.Context, plate string) (*Vehicle, *Tag, error) {
	v, err := s.store.FindVehicleByPlate(ctx, strings.TrimSpace(plate))
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "vehicle lookup failed")
	}
	if v == nil {
		return nil, nil, apperrors.New(apperrors.CodeNotFound, fmt.Sprintf("no vehicle found with plate %q", plate))
	}
	tag, err := s.store.FindActiveTagForVehicle(ctx, v.ID)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, apperrors.CodeInternal, "tag lookup failed")
	}
	return v, tag, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
