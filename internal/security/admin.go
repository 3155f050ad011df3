package security

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"tollgate/pkg/apperrors"
)

// Admin covers the registry write side used by operations staff: stolen
// reports, tag blacklisting, and incident review. The decision path only
// reads these registries.
type Admin struct {
	store  Store
	logger *slog.Logger
	now    func() time.Time
}

func NewAdmin(store Store, logger *slog.Logger) *Admin {
	return &Admin{store: store, logger: logger, now: time.Now}
}

// ReportStolen upserts an active stolen record for a plate. Re-reporting an
// already flagged plate refreshes the record rather than erroring.
func (a *Admin) ReportStolen(ctx context.Context, plate, agency string) (*StolenRecord, error) {
	plate = strings.TrimSpace(plate)
	if plate == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "license plate is required")
	}
	rec := &StolenRecord{
		Plate:           plate,
		ReportedAt:      a.now(),
		ReportingAgency: orDefault(agency, "Unknown"),
		Active:          true,
	}
	if err := a.store.ReportStolen(ctx, rec); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "stolen report failed")
	}
	a.logger.WarnContext(ctx, "vehicle reported stolen", "plate", plate, "agency", rec.ReportingAgency)
	return rec, nil
}

// BlacklistTag upserts a blacklist entry for a tag.
func (a *Admin) BlacklistTag(ctx context.Context, tagID, reason, severity, reportedBy string) (*BlacklistEntry, error) {
	tagID = strings.TrimSpace(tagID)
	if tagID == "" {
		return nil, apperrors.New(apperrors.CodeBadRequest, "tag_id is required")
	}
	entry := &BlacklistEntry{
		TagID:         tagID,
		Reason:        orDefault(reason, "Unspecified"),
		Severity:      orDefault(severity, "HIGH"),
		BlacklistedAt: a.now(),
		ReportedBy:    orDefault(reportedBy, "System"),
	}
	if err := a.store.AddBlacklistEntry(ctx, entry); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "blacklist write failed")
	}
	a.logger.WarnContext(ctx, "tag blacklisted", "tag_id", tagID, "reason", entry.Reason)
	return entry, nil
}

// Incidents lists recorded incidents, newest first.
func (a *Admin) Incidents(ctx context.Context, limit int) ([]SecurityIncident, error) {
	list, err := a.store.ListIncidents(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeInternal, "incident listing failed")
	}
	return list, nil
}

func orDefault(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
