package handler

import (
	"time"

	"tollgate/internal/security"
)

type StolenRecordResponse struct {
	LicensePlate    string    `json:"license_plate"`
	ReportedAt      time.Time `json:"reported_at"`
	ReportingAgency string    `json:"reporting_agency"`
	Active          bool      `json:"active"`
}

func FromStolenRecord(rec *security.StolenRecord) StolenRecordResponse {
	return StolenRecordResponse{
		LicensePlate:    rec.Plate,
		ReportedAt:      rec.ReportedAt,
		ReportingAgency: rec.ReportingAgency,
		Active:          rec.Active,
	}
}

type BlacklistEntryResponse struct {
	TagID         string    `json:"tag_id"`
	Reason        string    `json:"reason"`
	Severity      string    `json:"severity"`
	BlacklistedAt time.Time `json:"blacklisted_at"`
	ReportedBy    string    `json:"reported_by"`
}

func FromBlacklistEntry(entry *security.BlacklistEntry) BlacklistEntryResponse {
	return BlacklistEntryResponse{
		TagID:         entry.TagID,
		Reason:        entry.Reason,
		Severity:      entry.Severity,
		BlacklistedAt: entry.BlacklistedAt,
		ReportedBy:    entry.ReportedBy,
	}
}

type IncidentResponse struct {
	ID         int64     `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Location   string    `json:"location"`
	Severity   string    `json:"severity"`
	ReportedBy string    `json:"reported_by"`
	Status     string    `json:"status"`
}

func FromIncidents(incidents []security.SecurityIncident) []IncidentResponse {
	out := make([]IncidentResponse, 0, len(incidents))
	for _, inc := range incidents {
		out = append(out, IncidentResponse{
			ID:         inc.ID,
			Type:       inc.Type,
			OccurredAt: inc.OccurredAt,
			Location:   inc.Location,
			Severity:   inc.Severity,
			ReportedBy: inc.ReportedBy,
			Status:     inc.Status,
		})
	}
	return out
}
