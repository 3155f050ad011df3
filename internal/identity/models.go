package identity

import (
	"time"

	"github.com/google/uuid"
)

// Vehicle mirrors the vehicles table. Immutable after registration except for
// ownership transfer, which is out of scope here.
type Vehicle struct {
	ID           uuid.UUID
	Plate        string
	VehicleType  string
	Model        string
	Color        string
	OwnerID      uuid.UUID
	RegisteredAt time.Time
}

// Tag is an RFID transponder. Tags are keyed to a vehicle by vehicle_id and
// deactivated rather than deleted.
type Tag struct {
	ID         string
	VehicleID  uuid.UUID
	Active     bool
	IssueDate  time.Time
	ExpiryDate time.Time
}

// VehicleIdentity is the typed record the decision engine consumes. TagID is
// empty when the vehicle has no active tag; the caller decides whether that
// is fatal.
type VehicleIdentity struct {
	VehicleID   uuid.UUID
	Plate       string
	VehicleType string
	OwnerID     uuid.UUID
	TagID       string
}

// Summary renders the human-readable vehicle description appended to
// notifications.
func (v *Vehicle) Summary() string {
	return " (Vehicle: " + v.Plate + ", " + v.Color + " " + v.Model + " [" + v.VehicleType + "])"
}

// Registration is the payload for registering a vehicle together with its
// first tag.
type Registration struct {
	Plate       string
	VehicleType string
	Model       string
	Color       string
	OwnerID     uuid.UUID
	TagID       string
}

// DefaultTagValidity is how long a freshly issued tag stays valid.
const DefaultTagValidity = 3 * 365 * 24 * time.Hour
