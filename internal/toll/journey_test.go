package toll

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"tollgate/internal/identity"
	"tollgate/internal/ledger"
	"tollgate/internal/notify"
	"tollgate/internal/rating"
	"tollgate/internal/security"
	"tollgate/pkg/testutil"
)

// TestVehicleJourney drives one vehicle through a multi-crossing day: funded
// crossings drain the balance, the crossing that overruns it goes pending,
// and a top-up-free repeat at the same plaza stays pending without piling on.
func TestVehicleJourney(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	identityStore := identity.NewInMemory()
	ledgerStore := ledger.NewInMemory()
	notifyStore := notify.NewInMemory()
	ratingStore := rating.NewInMemory()
	securityStore := security.NewInMemory()

	notifier := notify.NewService(notifyStore, identityStore, logger)
	engine := NewEngine(
		identity.NewResolver(identityStore, logger),
		security.NewScreener(securityStore, notifier, logger),
		rating.NewRater(ratingStore, logger),
		ledger.NewSettler(ledgerStore, notifier, logger),
		notifier,
		logger,
	)

	ownerID := uuid.New()

	testutil.Given(t, "a registered car with a thin prepaid balance", func(t *testing.T) {
		registry := identity.NewService(identityStore, logger)
		_, _, err := registry.Register(ctx, identity.Registration{
			Plate: "KA05EF9012", VehicleType: "Car", OwnerID: ownerID, TagID: "TAG-0100",
		})
		require.NoError(t, err)

		ledgerStore.AddAccount(&ledger.Account{
			ID: uuid.New(), OwnerID: ownerID,
			Balance: decimal.RequireFromString("6.00"), Active: true,
		})
		ratingStore.AddPlaza("PLZ-BLR-01", true)
		ratingStore.AddPlaza("PLZ-BLR-02", true)
		ratingStore.SetBaseRate("Car", decimal.RequireFromString("2.50"))
	})

	testutil.When(t, "the vehicle crosses twice while funded", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			result := engine.ProcessToll(ctx, Request{PlazaID: "PLZ-BLR-01", TagID: "TAG-0100"})
			require.Equal(t, StatusTollPaid, result.Status)
		}
	})

	testutil.Then(t, "the third crossing overruns the balance and goes pending", func(t *testing.T) {
		result := engine.ProcessToll(ctx, Request{PlazaID: "PLZ-BLR-02", TagID: "TAG-0100"})
		require.Equal(t, StatusInsufficientFunds, result.Status)
		require.NotNil(t, result.Balance)
		require.Equal(t, "1", result.Balance.String())
		require.Equal(t, 1, ledgerStore.PendingCount())
	})

	testutil.Then(t, "repeating the crossing reports the existing due instead of stacking", func(t *testing.T) {
		result := engine.ProcessToll(ctx, Request{PlazaID: "PLZ-BLR-02", TagID: "TAG-0100"})
		require.Equal(t, StatusPendingToll, result.Status)
		require.Equal(t, 1, ledgerStore.PendingCount())
		require.Equal(t, 1, notifyStore.CountByType(notify.TypeLowBalance))
	})
}
