package handler

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"tollgate/pkg/apperrors"
)

var validate = validator.New()

// ReportStolenRequest is the HTTP request body for POST /security/stolen.
type ReportStolenRequest struct {
	LicensePlate    string `json:"license_plate" validate:"required,max=16"`
	ReportingAgency string `json:"reporting_agency" validate:"omitempty,max=64"`
}

// Validate implements httputil.Validatable.
func (r *ReportStolenRequest) Validate() error {
	r.LicensePlate = strings.TrimSpace(strings.ToUpper(r.LicensePlate))
	r.ReportingAgency = strings.TrimSpace(r.ReportingAgency)
	if err := validate.Struct(r); err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "invalid stolen report: "+err.Error())
	}
	return nil
}

// BlacklistTagRequest is the HTTP request body for POST /rfid/blacklist.
type BlacklistTagRequest struct {
	TagID      string `json:"tag_id" validate:"required,max=64"`
	Reason     string `json:"reason" validate:"omitempty,max=256"`
	Severity   string `json:"severity" validate:"omitempty,oneof=LOW MEDIUM HIGH CRITICAL"`
	ReportedBy string `json:"reported_by" validate:"omitempty,max=64"`
}

// Validate implements httputil.Validatable.
func (r *BlacklistTagRequest) Validate() error {
	r.TagID = strings.TrimSpace(r.TagID)
	r.Severity = strings.TrimSpace(strings.ToUpper(r.Severity))
	if err := validate.Struct(r); err != nil {
		return apperrors.New(apperrors.CodeBadRequest, "invalid blacklist request: "+err.Error())
	}
	return nil
}
