package security

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
)

// Notifier is the slice of the notification service the screener needs.
type Notifier interface {
	Notify(ctx context.Context, typ, message, priority string, vehicleID *uuid.UUID, plazaID string) (bool, error)
}

// Screener checks the stolen-vehicle and blacklisted-tag registries and
// records escalations for hits.
type Screener struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

func NewScreener(store Store, notifier Notifier, logger *slog.Logger) *Screener {
	return &Screener{store: store, notifier: notifier, logger: logger}
}

// Screen runs the registry checks in fixed order: stolen vehicle first by
// plate, blacklist second by tag. The first match wins and the second check
// never executes. Screen itself performs no writes.
func (s *Screener) Screen(ctx context.Context, plate, tagID string) (*Screening, error) {
	stolen, err := s.store.IsStolen(ctx, plate)
	if err != nil {
		return nil, fmt.Errorf("stolen registry check: %w", err)
	}
	if stolen != nil {
		return &Screening{
			Status:  ScreenStolen,
			Details: fmt.Sprintf("Stolen vehicle detected: %s (reported %s by %s)", plate, stolen.ReportedAt.Format("2006-01-02"), stolen.ReportingAgency),
		}, nil
	}

	if tagID != "" {
		entry, err := s.store.IsBlacklisted(ctx, tagID)
		if err != nil {
			return nil, fmt.Errorf("blacklist check: %w", err)
		}
		if entry != nil {
			return &Screening{
				Status: ScreenBlacklisted,
				Reason: entry.Reason,
			}, nil
		}
	}

	return &Screening{Status: ScreenClear}, nil
}

// Escalate records one screening event: a critical notification, a security
// incident, and a security alert. The three writes are best effort; a failed
// sub-write is logged with what did succeed and never rolls back the rest.
func (s *Screener) Escalate(ctx context.Context, hit ScreeningHit) {
	reason := hit.Screening.Reason
	if reason == "" {
		reason = hit.Screening.Details
	}
	if reason == "" {
		reason = "N/A"
	}

	notified, incident, alert := false, false, false

	vehicleID := hit.VehicleID
	if _, err := s.notifier.Notify(ctx, string(hit.Screening.Status),
		fmt.Sprintf("%s flagged: %s", hit.Plate, reason), "CRITICAL", &vehicleID, hit.PlazaID); err != nil {
		s.logger.ErrorContext(ctx, "screening notification failed", "error", err, "plate", hit.Plate)
	} else {
		notified = true
	}

	if err := s.store.AppendIncident(ctx, &SecurityIncident{
		Type:       fmt.Sprintf("%s Detected", hit.Screening.Status),
		Location:   hit.PlazaID,
		Severity:   "HIGH",
		ReportedBy: "System",
		Status:     "Open",
	}); err != nil {
		s.logger.ErrorContext(ctx, "security incident write failed", "error", err, "plate", hit.Plate)
	} else {
		incident = true
	}

	if err := s.store.AppendAlert(ctx, &SecurityAlert{
		Type:     string(hit.Screening.Status),
		Priority: "HIGH",
		Status:   "ACTIVE",
	}); err != nil {
		s.logger.ErrorContext(ctx, "security alert write failed", "error", err, "plate", hit.Plate)
	} else {
		alert = true
	}

	s.logger.WarnContext(ctx, "security screening hit recorded",
		"status", hit.Screening.Status,
		"plate", hit.Plate,
		"plaza_id", hit.PlazaID,
		"notification_written", notified,
		"incident_written", incident,
		"alert_written", alert,
	)
}
