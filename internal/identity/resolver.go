package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// Resolution failures the engine maps onto terminal statuses.
var (
	ErrUnknownTag     = errors.New("unknown or inactive tag")
	ErrLicenseMissing = errors.New("vehicle has no license plate on record")
	ErrUnmatchedPlate = errors.New("no vehicle registered for plate")
	ErrMismatch       = errors.New("plate and tag do not identify the same vehicle")
	ErrPlateExists    = errors.New("plate already registered")
	ErrTagExists      = errors.New("tag already assigned")
)

// Resolver maps a plate and/or tag to a VehicleIdentity. It only reads; all
// writes happen downstream of resolution.
type Resolver struct {
	store  Store
	logger *slog.Logger
}

func NewResolver(store Store, logger *slog.Logger) *Resolver {
	return &Resolver{store: store, logger: logger}
}

// Resolve prefers the tag when one is supplied. A plate-only resolution that
// finds no active tag is NOT an error: the identity comes back with an empty
// TagID and the caller applies its missing-tag policy.
func (r *Resolver) Resolve(ctx context.Context, plate, tagID string) (*VehicleIdentity, error) {
	switch {
	case tagID != "":
		return r.resolveByTag(ctx, tagID)
	case plate != "":
		return r.resolveByPlate(ctx, plate)
	default:
		return nil, fmt.Errorf("plate or tag required")
	}
}

func (r *Resolver) resolveByTag(ctx context.Context, tagID string) (*VehicleIdentity, error) {
	v, err := r.store.FindVehicleByTag(ctx, tagID)
	if err != nil {
		return nil, fmt.Errorf("find vehicle by tag: %w", err)
	}
	if v == nil {
		return nil, ErrUnknownTag
	}
	r.logger.InfoContext(ctx, "resolved vehicle from tag",
		"tag_id", tagID, "vehicle_id", v.ID, "plate", v.Plate, "type", v.VehicleType)

	ident := &VehicleIdentity{
		VehicleID:   v.ID,
		Plate:       v.Plate,
		VehicleType: v.VehicleType,
		OwnerID:     v.OwnerID,
		TagID:       tagID,
	}

	// Found-but-inconsistent data: a tagged vehicle must carry a plate. The
	// partial identity still comes back so callers can reference the vehicle
	// in their escalation writes.
	if v.Plate == "" {
		return ident, ErrLicenseMissing
	}

	return ident, nil
}

func (r *Resolver) resolveByPlate(ctx context.Context, plate string) (*VehicleIdentity, error) {
	v, err := r.store.FindVehicleByPlate(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("find vehicle by plate: %w", err)
	}
	if v == nil {
		return nil, ErrUnmatchedPlate
	}
	r.logger.InfoContext(ctx, "resolved vehicle from plate",
		"plate", plate, "vehicle_id", v.ID, "type", v.VehicleType)

	ident := &VehicleIdentity{
		VehicleID:   v.ID,
		Plate:       v.Plate,
		VehicleType: v.VehicleType,
		OwnerID:     v.OwnerID,
	}
	tag, err := r.store.FindActiveTagForVehicle(ctx, v.ID)
	if err != nil {
		return nil, fmt.Errorf("find active tag: %w", err)
	}
	if tag != nil {
		ident.TagID = tag.ID
	}
	return ident, nil
}

// CrossValidate resolves via tag and requires the supplied plate to match the
// resolved vehicle. Used by the read-only notification lookup path, never by
// the debit path.
func (r *Resolver) CrossValidate(ctx context.Context, plate, tagID string) (*VehicleIdentity, error) {
	ident, err := r.resolveByTag(ctx, tagID)
	if err != nil {
		return nil, err
	}
	if ident.Plate != plate {
		return nil, ErrMismatch
	}
	return ident, nil
}
