package security

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PostgresStore backs the registries and the incident/alert log.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) IsStolen(ctx context.Context, plate string) (*StolenRecord, error) {
	query := `
		SELECT license_plate, reported_at, reporting_agency
		FROM stolen_vehicle_registry
		WHERE license_plate = $1 AND active
	`
	var rec StolenRecord
	err := s.db.QueryRowContext(ctx, query, plate).Scan(&rec.Plate, &rec.ReportedAt, &rec.ReportingAgency)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("stolen registry lookup: %w", err)
	}
	rec.Active = true
	return &rec, nil
}

func (s *PostgresStore) IsBlacklisted(ctx context.Context, tagID string) (*BlacklistEntry, error) {
	query := `
		SELECT tag_id, reason, severity, blacklisted_at, reported_by
		FROM blacklisted_tags
		WHERE tag_id = $1
	`
	var entry BlacklistEntry
	err := s.db.QueryRowContext(ctx, query, tagID).
		Scan(&entry.TagID, &entry.Reason, &entry.Severity, &entry.BlacklistedAt, &entry.ReportedBy)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("blacklist lookup: %w", err)
	}
	return &entry, nil
}

func (s *PostgresStore) AppendIncident(ctx context.Context, inc *SecurityIncident) error {
	query := `
		INSERT INTO security_incidents (incident_type, occurred_at, location, severity, reported_by, status)
		VALUES ($1, NOW(), $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, inc.Type, inc.Location, inc.Severity, inc.ReportedBy, inc.Status)
	if err != nil {
		return fmt.Errorf("append incident: %w", err)
	}
	return nil
}

func (s *PostgresStore) AppendAlert(ctx context.Context, alert *SecurityAlert) error {
	query := `
		INSERT INTO security_alerts (alert_type, priority, raised_at, status)
		VALUES ($1, $2, NOW(), $3)
	`
	_, err := s.db.ExecContext(ctx, query, alert.Type, alert.Priority, alert.Status)
	if err != nil {
		return fmt.Errorf("append alert: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListIncidents(ctx context.Context, limit int) ([]SecurityIncident, error) {
	if limit <= 0 {
		limit = 50
	}
	query := `
		SELECT incident_id, incident_type, occurred_at, location, severity, reported_by, status
		FROM security_incidents
		ORDER BY occurred_at DESC
		LIMIT $1
	`
	rows, err := s.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list incidents: %w", err)
	}
	defer rows.Close()

	var out []SecurityIncident
	for rows.Next() {
		var inc SecurityIncident
		if err := rows.Scan(&inc.ID, &inc.Type, &inc.OccurredAt, &inc.Location, &inc.Severity, &inc.ReportedBy, &inc.Status); err != nil {
			return nil, fmt.Errorf("scan incident: %w", err)
		}
		out = append(out, inc)
	}
	return out, rows.Err()
}

func (s *PostgresStore) ReportStolen(ctx context.Context, rec *StolenRecord) error {
	reportedAt := rec.ReportedAt
	if reportedAt.IsZero() {
		reportedAt = time.Now()
	}
	query := `
		INSERT INTO stolen_vehicle_registry (license_plate, reported_at, reporting_agency, active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (license_plate) DO UPDATE SET
			reported_at = EXCLUDED.reported_at,
			reporting_agency = EXCLUDED.reporting_agency,
			active = TRUE
	`
	_, err := s.db.ExecContext(ctx, query, rec.Plate, reportedAt, rec.ReportingAgency)
	if err != nil {
		return fmt.Errorf("report stolen: %w", err)
	}
	return nil
}

func (s *PostgresStore) AddBlacklistEntry(ctx context.Context, entry *BlacklistEntry) error {
	blacklistedAt := entry.BlacklistedAt
	if blacklistedAt.IsZero() {
		blacklistedAt = time.Now()
	}
	query := `
		INSERT INTO blacklisted_tags (tag_id, reason, severity, blacklisted_at, reported_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tag_id) DO UPDATE SET
			reason = EXCLUDED.reason,
			severity = EXCLUDED.severity,
			blacklisted_at = EXCLUDED.blacklisted_at,
			reported_by = EXCLUDED.reported_by
	`
	_, err := s.db.ExecContext(ctx, query, entry.TagID, entry.Reason, entry.Severity, blacklistedAt, entry.ReportedBy)
	if err != nil {
		return fmt.Errorf("blacklist tag: %w", err)
	}
	return nil
}
