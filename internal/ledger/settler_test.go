package ledger

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type captureNotifier struct {
	mu    sync.Mutex
	calls []string
}

func (n *captureNotifier) Notify(_ context.Context, typ, message, priority string, _ *uuid.UUID, _ string) (bool, error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.calls = append(n.calls, typ+"|"+priority+"|"+message)
	return true, nil
}

func (n *captureNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, len(n.calls))
	copy(out, n.calls)
	return out
}

type SettlerSuite struct {
	suite.Suite
	store    *InMemoryStore
	notifier *captureNotifier
	settler  *Settler

	ownerID   uuid.UUID
	vehicleID uuid.UUID
	accountID uuid.UUID
}

func TestSettlerSuite(t *testing.T) {
	suite.Run(t, new(SettlerSuite))
}

func (s *SettlerSuite) SetupTest() {
	s.store = NewInMemory()
	s.notifier = &captureNotifier{}
	s.settler = NewSettler(s.store, s.notifier, slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.ownerID = uuid.New()
	s.vehicleID = uuid.New()
	s.accountID = uuid.New()
	s.store.AddAccount(&Account{
		ID: s.accountID, OwnerID: s.ownerID,
		Balance: decimal.RequireFromString("10.00"), Active: true,
	})
}

func (s *SettlerSuite) input(amount string) Input {
	return Input{
		OwnerID:   s.ownerID,
		VehicleID: s.vehicleID,
		Plate:     "KA01AB1234",
		TagID:     "TAG-0001",
		PlazaID:   "PLZ-BLR-01",
		Amount:    decimal.RequireFromString(amount),
	}
}

func (s *SettlerSuite) TestSettlePaid() {
	result, err := s.settler.Settle(context.Background(), s.input("2.50"))
	s.Require().NoError(err)

	s.Equal(OutcomePaid, result.Outcome)
	s.Equal("7.5", result.Balance.String())
	s.Len(s.store.Transactions(), 1)
	s.Equal(0, s.store.PendingCount())
	s.Empty(s.notifier.all())
}

func (s *SettlerSuite) TestSettleShortfall() {
	result, err := s.settler.Settle(context.Background(), s.input("25.00"))
	s.Require().NoError(err)

	s.Equal(OutcomeShortfall, result.Outcome)
	s.Equal("10", result.Balance.String())
	s.Equal("25", result.Amount.String())
	s.Require().NotNil(result.Pending)
	s.False(result.Pending.Resolved)
	s.Equal(1, s.store.PendingCount())
	s.Empty(s.store.Transactions())

	calls := s.notifier.all()
	s.Require().Len(calls, 1)
	s.Contains(calls[0], "LOW_BALANCE|HIGH|")
	s.Contains(calls[0], "Insufficient balance (10)")
	s.Contains(calls[0], "KA01AB1234")
}

func (s *SettlerSuite) TestSettleRepeatShortfallIsPending() {
	ctx := context.Background()
	first, err := s.settler.Settle(ctx, s.input("25.00"))
	s.Require().NoError(err)
	s.Equal(OutcomeShortfall, first.Outcome)

	second, err := s.settler.Settle(ctx, s.input("25.00"))
	s.Require().NoError(err)
	s.Equal(OutcomePending, second.Outcome)
	s.Require().NotNil(second.Pending)
	s.Equal(first.Pending.LedgerID, second.Pending.LedgerID)

	// Still one pending row and one notification.
	s.Equal(1, s.store.PendingCount())
	s.Len(s.notifier.all(), 1)
}

func (s *SettlerSuite) TestSettleAccountMissing() {
	in := s.input("2.50")
	in.OwnerID = uuid.New()

	_, err := s.settler.Settle(context.Background(), in)
	s.ErrorIs(err, ErrAccountMissing)
	s.Equal(0, s.store.PendingCount())
}

func (s *SettlerSuite) TestSettleInactiveAccountIsMissing() {
	inactiveOwner := uuid.New()
	s.store.AddAccount(&Account{
		ID: uuid.New(), OwnerID: inactiveOwner,
		Balance: decimal.RequireFromString("100.00"), Active: false,
	})
	in := s.input("2.50")
	in.OwnerID = inactiveOwner

	_, err := s.settler.Settle(context.Background(), in)
	s.ErrorIs(err, ErrAccountMissing)
}

func (s *SettlerSuite) TestConcurrentSettlementsExactlyFunded() {
	// 10.00 funds four 2.50 crossings at distinct plazas; the rest go
	// pending, one entry per plaza.
	ctx := context.Background()
	const crossings = 8

	var wg sync.WaitGroup
	outcomes := make([]Outcome, crossings)
	for i := 0; i < crossings; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in := s.input("2.50")
			in.PlazaID = string(rune('A' + i))
			result, err := s.settler.Settle(ctx, in)
			s.NoError(err)
			outcomes[i] = result.Outcome
		}(i)
	}
	wg.Wait()

	paid := 0
	for _, o := range outcomes {
		if o == OutcomePaid {
			paid++
		}
	}
	s.Equal(4, paid)
	s.Len(s.store.Transactions(), 4)
	s.Equal(crossings-4, s.store.PendingCount())
	s.True(s.store.Balance(s.accountID).Equal(decimal.Zero))
}
