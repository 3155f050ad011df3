// Package rating prices a crossing for a vehicle type at a plaza and
// validates the plaza itself.
package rating

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"
)

// ErrNoRate means the vehicle type has no configured rate. This is a hard
// stop for the whole decision; there is no fallback default.
var ErrNoRate = errors.New("no toll rate configured for vehicle type")

// RateQuote is the typed result of a rate lookup.
type RateQuote struct {
	VehicleType   string
	PlazaID       string
	Amount        decimal.Decimal
	PlazaSpecific bool
}

// Store serves plaza validation and rate lookups.
type Store interface {
	// PlazaExists reports whether the plaza exists and is operational.
	PlazaExists(ctx context.Context, plazaID string) (bool, error)
	// FindRate returns the rate for a vehicle type, preferring a
	// plaza-specific override over the base rate; nil when unconfigured.
	FindRate(ctx context.Context, vehicleType, plazaID string) (*RateQuote, error)
}

type Rater struct {
	store  Store
	logger *slog.Logger
}

func NewRater(store Store, logger *slog.Logger) *Rater {
	return &Rater{store: store, logger: logger}
}

func (r *Rater) ValidatePlaza(ctx context.Context, plazaID string) (bool, error) {
	ok, err := r.store.PlazaExists(ctx, plazaID)
	if err != nil {
		return false, fmt.Errorf("plaza lookup: %w", err)
	}
	return ok, nil
}

func (r *Rater) Rate(ctx context.Context, vehicleType, plazaID string) (*RateQuote, error) {
	quote, err := r.store.FindRate(ctx, vehicleType, plazaID)
	if err != nil {
		return nil, fmt.Errorf("rate lookup: %w", err)
	}
	if quote == nil {
		return nil, ErrNoRate
	}
	r.logger.InfoContext(ctx, "toll rated",
		"vehicle_type", vehicleType, "plaza_id", plazaID,
		"amount", quote.Amount.String(), "plaza_specific", quote.PlazaSpecific)
	return quote, nil
}
