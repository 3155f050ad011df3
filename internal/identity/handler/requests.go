package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"tollgate/pkg/apperrors"
)

var validate = validator.New()

// RegisterVehicleRequest is the HTTP request body for POST /vehicles/register.
type RegisterVehicleRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,max=16"`
	VehicleType  string `json:"vehicle_type" validate:"required,max=24"`
	Model        string `json:"model" validate:"omitempty,max=64"`
	Color        string `json:"color" validate:"omitempty,max=32"`
	OwnerID      string `json:"owner_id" validate:"required,uuid4"`
	TagID        string `json:"tag_id" validate:"required,max=64"`

	parsedOwnerID uuid.UUID
}

// Validate implements httputil.Validatable.
func (r *RegisterVehicleRequest) Validate() error {
	r.LicensePlate = strings.TrimSpace(strings.ToUpper(r.LicensePlate))
	r.VehicleType = strings.TrimSpace(r.VehicleType)
	r.TagID = strings.TrimSpace(r.TagID)
	if err := validate.Struct(r); err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "invalid registration: "+err.Error())
	}
	ownerID, err := uuid.Parse(r.OwnerID)
	if err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "owner_id must be a valid UUID")
	}
	r.parsedOwnerID = ownerID
	return nil
}

// ParsedOwnerID returns the validated owner ID.
func (r *RegisterVehicleRequest) ParsedOwnerID() uuid.UUID {
	return r.parsedOwnerID
}

// AssignTagRequest is the HTTP request body for POST /rfid/assign.
type AssignTagRequest struct {
	LicensePlate string `json:"license_plate" validate:"required,max=16"`
	TagID        string `json:"tag_id" validate:"required,max=64"`
}

// Validate implements httputil.Validatable.
func (r *AssignTagRequest) Validate() error {
	r.LicensePlate = strings.TrimSpace(strings.ToUpper(r.LicensePlate))
	r.TagID = strings.TrimSpace(r.TagID)
	if err := validate.Struct(r); err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "invalid tag assignment: "+err.Error())
	}
	return nil
}
