package security

import "context"

// Store combines the read-only registry feeds with the incident/alert log.
// Registry writes happen only through the admin endpoints, never from the
// decision path.
type Store interface {
	// IsStolen returns the active stolen record for a plate, or nil.
	IsStolen(ctx context.Context, plate string) (*StolenRecord, error)
	// IsBlacklisted returns the blacklist entry for a tag, or nil.
	IsBlacklisted(ctx context.Context, tagID string) (*BlacklistEntry, error)

	AppendIncident(ctx context.Context, inc *SecurityIncident) error
	AppendAlert(ctx context.Context, alert *SecurityAlert) error
	ListIncidents(ctx context.Context, limit int) ([]SecurityIncident, error)

	ReportStolen(ctx context.Context, rec *StolenRecord) error
	AddBlacklistEntry(ctx context.Context, entry *BlacklistEntry) error
}
