package handler

import (
	"time"

	"github.com/google/uuid"

	"tollgate/internal/identity"
)

// VehicleResponse is the HTTP representation of a registered vehicle and its
// active tag, if any.
type VehicleResponse struct {
	VehicleID    uuid.UUID    `json:"vehicle_id"`
	LicensePlate string       `json:"license_plate"`
	VehicleType  string       `json:"vehicle_type"`
	Model        string       `json:"model"`
	Color        string       `json:"color"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	RegisteredAt time.Time    `json:"registered_at"`
	Tag          *TagResponse `json:"tag,omitempty"`
}

type TagResponse struct {
	TagID      string    `json:"tag_id"`
	VehicleID  uuid.UUID `json:"vehicle_id"`
	Active     bool      `json:"active"`
	IssueDate  time.Time `json:"issue_date"`
	ExpiryDate time.Time `json:"expiry_date"`
}

func FromVehicle(v *identity.Vehicle, tag *identity.Tag) VehicleResponse {
	resp := VehicleResponse{
		VehicleID:    v.ID,
		LicensePlate: v.Plate,
		VehicleType:  v.VehicleType,
		Model:        v.Model,
		Color:        v.Color,
		OwnerID:      v.OwnerID,
		RegisteredAt: v.RegisteredAt,
	}
	if tag != nil {
		t := FromTag(tag)
		resp.Tag = &t
	}
	return resp
}

func FromTag(t *identity.Tag) TagResponse {
	return TagResponse{
		TagID:      t.ID,
		VehicleID:  t.VehicleID,
		Active:     t.Active,
		IssueDate:  t.IssueDate,
		ExpiryDate: t.ExpiryDate,
	}
}
