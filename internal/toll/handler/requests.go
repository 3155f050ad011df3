package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"tollgate/pkg/apperrors"
)

var validate = validator.New()

// ProcessRequest is the HTTP request body for POST /toll/process. Missing
// identifiers are not a transport error: the engine maps them onto decision
// statuses, so validation only rejects oversized fields.
type ProcessRequest struct {
	PlazaID      string `json:"plaza_id" validate:"omitempty,max=32"`
	LicensePlate string `json:"license_plate" validate:"omitempty,max=16"`
	TagID        string `json:"tag_id" validate:"omitempty,max=64"`
}

// Validate implements httputil.Validatable.
func (r *ProcessRequest) Validate() error {
	r.PlazaID = strings.TrimSpace(r.PlazaID)
	r.LicensePlate = strings.TrimSpace(strings.ToUpper(r.LicensePlate))
	r.TagID = strings.TrimSpace(r.TagID)
	if err := validate.Struct(r); err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "invalid toll request: "+err.Error())
	}
	return nil
}
