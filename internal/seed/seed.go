// Package seed loads the demo dataset used by local development and the
// traffic simulator: plazas, rates, registered vehicles with tags and
// accounts, one stolen plate, and one blacklisted tag.
package seed

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"tollgate/internal/identity"
	"tollgate/internal/ledger"
	"tollgate/internal/rating"
	"tollgate/internal/security"
)

// Plazas available to the simulator.
var Plazas = []struct {
	ID       string
	Name     string
	Location string
}{
	{"PLZ-BLR-01", "Electronic City Phase 1", "Bengaluru"},
	{"PLZ-BLR-02", "Tumkur Road", "Bengaluru"},
	{"PLZ-MUM-01", "Vashi", "Mumbai"},
}

// BaseRates by vehicle type.
var BaseRates = map[string]string{
	"Car":        "2.50",
	"Truck":      "5.00",
	"Motorcycle": "1.50",
	"Bus":        "4.00",
}

type vehicleFixture struct {
	Plate   string
	Type    string
	Model   string
	Color   string
	TagID   string
	Balance string
}

// Vehicles seeded with a tag and an account each. The last two exist to
// exercise the security path: one stolen plate, one blacklisted tag.
var Vehicles = []vehicleFixture{
	{"KA01AB1234", "Car", "Civic", "Blue", "TAG-0001", "100.00"},
	{"KA02CD5678", "Truck", "Volvo FH", "White", "TAG-0002", "250.00"},
	{"MH12EF9012", "Motorcycle", "Bullet", "Black", "TAG-0003", "1.00"},
	{"TN10GH3456", "Bus", "Marcopolo", "Green", "TAG-0004", "50.00"},
	{"DL03JK7890", "Car", "Swift", "Red", "TAG-0005", "75.00"},
}

const (
	StolenPlate    = "TN10GH3456"
	BlacklistedTag = "TAG-0005"
)

// Run is idempotent: plazas, rates, and registries upsert; vehicles already
// registered are left untouched.
func Run(ctx context.Context, db *sql.DB, log *slog.Logger) error {
	identityStore := identity.NewPostgres(db)
	securityStore := security.NewPostgres(db)
	ratingStore := rating.NewPostgres(db)
	ledgerStore := ledger.NewPostgres(db)

	for _, p := range Plazas {
		if err := ratingStore.UpsertPlaza(ctx, p.ID, p.Name, p.Location, true); err != nil {
			return err
		}
	}
	for typeCode, amount := range BaseRates {
		if err := ratingStore.UpsertRate(ctx, typeCode, nil, decimal.RequireFromString(amount)); err != nil {
			return err
		}
	}
	// One plaza-specific override so the precedence path gets real data.
	mumbai := Plazas[2].ID
	if err := ratingStore.UpsertRate(ctx, "Truck", &mumbai, decimal.RequireFromString("7.50")); err != nil {
		return err
	}

	now := time.Now()
	registered := 0
	for _, f := range Vehicles {
		v := &identity.Vehicle{
			ID:           uuid.New(),
			Plate:        f.Plate,
			VehicleType:  f.Type,
			Model:        f.Model,
			Color:        f.Color,
			OwnerID:      uuid.New(),
			RegisteredAt: now,
		}
		if err := identityStore.CreateVehicle(ctx, v); err != nil {
			if errors.Is(err, identity.ErrPlateExists) {
				continue
			}
			return err
		}
		tag := &identity.Tag{
			ID:         f.TagID,
			VehicleID:  v.ID,
			Active:     true,
			IssueDate:  now,
			ExpiryDate: now.Add(identity.DefaultTagValidity),
		}
		if err := identityStore.CreateTag(ctx, tag); err != nil && !errors.Is(err, identity.ErrTagExists) {
			return err
		}
		account := &ledger.Account{
			ID:      uuid.New(),
			OwnerID: v.OwnerID,
			Balance: decimal.RequireFromString(f.Balance),
			Active:  true,
		}
		if err := ledgerStore.CreateAccount(ctx, account); err != nil {
			return err
		}
		registered++
	}

	if err := securityStore.ReportStolen(ctx, &security.StolenRecord{
		Plate:           StolenPlate,
		ReportedAt:      now,
		ReportingAgency: "City PD",
	}); err != nil {
		return err
	}
	if err := securityStore.AddBlacklistEntry(ctx, &security.BlacklistEntry{
		TagID:      BlacklistedTag,
		Reason:     "Reported cloned",
		Severity:   "HIGH",
		ReportedBy: "Seed",
	}); err != nil {
		return err
	}

	log.InfoContext(ctx, "seed complete",
		"plazas", len(Plazas),
		"rates", len(BaseRates)+1,
		"vehicles_registered", registered,
		"vehicles_existing", len(Vehicles)-registered,
	)
	return nil
}
