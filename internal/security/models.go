package security

import (
	"time"

	"github.com/google/uuid"
)

// ScreenStatus is the outcome of registry screening.
type ScreenStatus string

const (
	ScreenClear       ScreenStatus = "CLEAR"
	ScreenStolen      ScreenStatus = "STOLEN"
	ScreenBlacklisted ScreenStatus = "BLACKLISTED"
)

// Screening carries the first registry hit, if any. Details describes a
// stolen-vehicle match, Reason a blacklist match.
type Screening struct {
	Status  ScreenStatus
	Details string
	Reason  string
}

// StolenRecord is an append-only fact from the stolen-vehicle registry.
type StolenRecord struct {
	Plate           string
	ReportedAt      time.Time
	ReportingAgency string
	Active          bool
}

// BlacklistEntry is an append-only fact from the tag blacklist.
type BlacklistEntry struct {
	TagID         string
	Reason        string
	Severity      string
	BlacklistedAt time.Time
	ReportedBy    string
}

type SecurityIncident struct {
	ID         int64
	Type       string
	OccurredAt time.Time
	Location   string
	Severity   string
	ReportedBy string
	Status     string
}

type SecurityAlert struct {
	ID       int64
	Type     string
	Priority string
	RaisedAt time.Time
	Status   string
}

// ScreeningHit bundles what Escalate needs to record a registry match.
type ScreeningHit struct {
	Screening Screening
	VehicleID uuid.UUID
	Plate     string
	PlazaID   string
}
