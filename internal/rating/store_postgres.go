package rating

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) PlazaExists(ctx context.Context, plazaID string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		`SELECT 1 FROM toll_plazas WHERE plaza_id = $1 AND operational`, plazaID).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("plaza exists: %w", err)
	}
	return true, nil
}

// UpsertPlaza registers or updates a plaza; used by seeding and operations
// tooling, never by the decision path.
func (s *PostgresStore) UpsertPlaza(ctx context.Context, plazaID, name, location string, operational bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO toll_plazas (plaza_id, name, location, operational)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (plaza_id) DO UPDATE SET
			name = EXCLUDED.name,
			location = EXCLUDED.location,
			operational = EXCLUDED.operational
	`, plazaID, name, location, operational)
	if err != nil {
		return fmt.Errorf("upsert plaza: %w", err)
	}
	return nil
}

// UpsertRate sets a rate; nil plazaID sets the base rate for the type.
func (s *PostgresStore) UpsertRate(ctx context.Context, typeCode string, plazaID *string, amount decimal.Decimal) error {
	var plaza sql.NullString
	if plazaID != nil {
		plaza = sql.NullString{String: *plazaID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO toll_rates (type_code, plaza_id, amount)
		VALUES ($1, $2, $3)
		ON CONFLICT (type_code, COALESCE(plaza_id, '')) DO UPDATE SET amount = EXCLUDED.amount
	`, typeCode, plaza, amount.String())
	if err != nil {
		return fmt.Errorf("upsert rate: %w", err)
	}
	return nil
}

func (s *PostgresStore) FindRate(ctx context.Context, vehicleType, plazaID string) (*RateQuote, error) {
	// Plaza-specific override wins over the base (NULL plaza) rate.
	query := `
		SELECT amount, plaza_id IS NOT NULL
		FROM toll_rates
		WHERE type_code = $1 AND (plaza_id = $2 OR plaza_id IS NULL)
		ORDER BY plaza_id NULLS LAST
		LIMIT 1
	`
	var amountStr string
	var plazaSpecific bool
	err := s.db.QueryRowContext(ctx, query, vehicleType, plazaID).Scan(&amountStr, &plazaSpecific)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find rate: %w", err)
	}
	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse rate amount %q: %w", amountStr, err)
	}
	return &RateQuote{
		VehicleType:   vehicleType,
		PlazaID:       plazaID,
		Amount:        amount,
		PlazaSpecific: plazaSpecific,
	}, nil
}
