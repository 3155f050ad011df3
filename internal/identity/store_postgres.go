package identity

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// PostgresStore persists vehicles and tags in PostgreSQL. Pure I/O; lookup
// semantics (active-tag joins, plate matching) live in the SQL so concurrent
// readers see consistent rows.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

const vehicleColumns = `vehicle_id, license_plate, vehicle_type, model, color, owner_id, registered_at`

func (s *PostgresStore) FindVehicleByPlate(ctx context.Context, plate string) (*Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE license_plate = $1`
	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, plate))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle by plate: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) FindVehicleByTag(ctx context.Context, tagID string) (*Vehicle, error) {
	query := `
		SELECT ` + vehicleColumns + `
		FROM vehicles v
		JOIN rfid_tags t ON t.vehicle_id = v.vehicle_id
		WHERE t.tag_id = $1 AND t.is_active
	`
	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, tagID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find vehicle by tag: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) FindActiveTagForVehicle(ctx context.Context, vehicleID uuid.UUID) (*Tag, error) {
	query := `
		SELECT tag_id, vehicle_id, is_active, issue_date, expiry_date
		FROM rfid_tags
		WHERE vehicle_id = $1 AND is_active
		ORDER BY issue_date DESC
		LIMIT 1
	`
	var t Tag
	err := s.db.QueryRowContext(ctx, query, vehicleID).
		Scan(&t.ID, &t.VehicleID, &t.Active, &t.IssueDate, &t.ExpiryDate)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find active tag: %w", err)
	}
	return &t, nil
}

func (s *PostgresStore) GetVehicle(ctx context.Context, id uuid.UUID) (*Vehicle, error) {
	query := `SELECT ` + vehicleColumns + ` FROM vehicles WHERE vehicle_id = $1`
	v, err := scanVehicle(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get vehicle: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) CreateVehicle(ctx context.Context, v *Vehicle) error {
	query := `
		INSERT INTO vehicles (vehicle_id, license_plate, vehicle_type, model, color, owner_id, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(ctx, query, v.ID, v.Plate, v.VehicleType, v.Model, v.Color, v.OwnerID, v.RegisteredAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrPlateExists
		}
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateTag(ctx context.Context, t *Tag) error {
	query := `
		INSERT INTO rfid_tags (tag_id, vehicle_id, is_active, issue_date, expiry_date)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(ctx, query, t.ID, t.VehicleID, t.Active, t.IssueDate, t.ExpiryDate)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrTagExists
		}
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

type vehicleRow interface {
	Scan(dest ...any) error
}

func scanVehicle(row vehicleRow) (*Vehicle, error) {
	var v Vehicle
	var plate sql.NullString
	if err := row.Scan(&v.ID, &plate, &v.VehicleType, &v.Model, &v.Color, &v.OwnerID, &v.RegisteredAt); err != nil {
		return nil, err
	}
	v.Plate = plate.String
	return &v, nil
}

func isUniqueViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505"
	}
	return false
}
