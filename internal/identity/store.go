package identity

import (
	"context"

	"github.com/google/uuid"
)

// Store is the identity collaborator consumed by the resolver and the
// registration service. Lookups return (nil, nil) when nothing matches so
// not-found stays distinguishable from infrastructure failure.
type Store interface {
	FindVehicleByPlate(ctx context.Context, plate string) (*Vehicle, error)
	// FindVehicleByTag resolves through active tags only.
	FindVehicleByTag(ctx context.Context, tagID string) (*Vehicle, error)
	FindActiveTagForVehicle(ctx context.Context, vehicleID uuid.UUID) (*Tag, error)
	GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error)

	// CreateVehicle fails with ErrPlateExists when the plate is taken.
	CreateVehicle(ctx context.Context, v *Vehicle) error
	// CreateTag fails with ErrTagExists when the tag id is taken.
	CreateTag(ctx context.Context, t *Tag) error
}
