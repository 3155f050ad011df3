package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrAccountMissing means the owner has no active account. Terminal for the
// request; no pending entry is created because there is no account to track
// a debt against.
var ErrAccountMissing = errors.New("no active account for owner")

// Outcome of a settlement attempt.
type Outcome string

const (
	// OutcomePaid: the debit applied and the transaction record was written.
	OutcomePaid Outcome = "PAID"
	// OutcomePending: an unresolved due already existed; no duplicate created.
	OutcomePending Outcome = "PENDING"
	// OutcomeShortfall: insufficient balance; a new pending due was recorded.
	OutcomeShortfall Outcome = "SHORTFALL"
)

// Result reports what settlement did. Balance is the post-debit balance for
// OutcomePaid and the observed (insufficient) balance otherwise.
type Result struct {
	Outcome Outcome
	Amount  decimal.Decimal
	Balance decimal.Decimal
	Pending *PendingToll
}

// Input identifies the crossing being settled.
type Input struct {
	OwnerID   uuid.UUID
	VehicleID uuid.UUID
	Plate     string
	TagID     string
	PlazaID   string
	Amount    decimal.Decimal
}

// Notifier is the slice of the notification service the settler needs.
type Notifier interface {
	Notify(ctx context.Context, typ, message, priority string, vehicleID *uuid.UUID, plazaID string) (bool, error)
}

// Settler attempts to debit an account and falls back to the pending-debt
// ledger on shortfall. It performs no retries; a store failure propagates
// whole to the orchestrator.
type Settler struct {
	store    Store
	notifier Notifier
	logger   *slog.Logger
}

func NewSettler(store Store, notifier Notifier, logger *slog.Logger) *Settler {
	return &Settler{store: store, notifier: notifier, logger: logger}
}

func (s *Settler) Settle(ctx context.Context, in Input) (*Result, error) {
	account, err := s.store.GetActiveAccount(ctx, in.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("account lookup: %w", err)
	}
	if account == nil {
		return nil, ErrAccountMissing
	}

	// Check-and-decrement is a single atomic operation in the store; the
	// balance read above is for reporting only and may be stale.
	newBalance, ok, err := s.store.DebitAndRecord(ctx, account.ID, in.TagID, in.PlazaID, in.Amount)
	if err != nil {
		return nil, fmt.Errorf("debit: %w", err)
	}
	if ok {
		s.logger.InfoContext(ctx, "toll deducted",
			"account_id", account.ID, "amount", in.Amount.String(), "balance", newBalance.String(), "plaza_id", in.PlazaID)
		return &Result{Outcome: OutcomePaid, Amount: in.Amount, Balance: newBalance}, nil
	}

	pending := &PendingToll{
		LedgerID:  uuid.New(),
		VehicleID: in.VehicleID,
		TagID:     in.TagID,
		PlazaID:   in.PlazaID,
		AmountDue: in.Amount,
	}
	created, err := s.store.InsertPending(ctx, pending)
	if err != nil {
		return nil, fmt.Errorf("record pending toll: %w", err)
	}
	if !created {
		existing, err := s.store.FindUnresolvedPending(ctx, in.VehicleID, in.PlazaID)
		if err != nil {
			return nil, fmt.Errorf("pending lookup: %w", err)
		}
		s.logger.WarnContext(ctx, "unresolved toll already pending",
			"vehicle_id", in.VehicleID, "plaza_id", in.PlazaID)
		return &Result{Outcome: OutcomePending, Amount: in.Amount, Balance: account.Balance, Pending: existing}, nil
	}

	s.logger.WarnContext(ctx, "insufficient balance, pending toll recorded",
		"vehicle_id", in.VehicleID, "plaza_id", in.PlazaID,
		"balance", account.Balance.String(), "required", in.Amount.String())

	vehicleID := in.VehicleID
	msg := fmt.Sprintf("Insufficient balance (%s) for toll %s - Vehicle: %s", account.Balance.String(), in.Amount.String(), in.Plate)
	if _, err := s.notifier.Notify(ctx, "LOW_BALANCE", msg, "HIGH", &vehicleID, in.PlazaID); err != nil {
		s.logger.ErrorContext(ctx, "low balance notification failed", "error", err, "vehicle_id", in.VehicleID)
	}

	return &Result{Outcome: OutcomeShortfall, Amount: in.Amount, Balance: account.Balance, Pending: pending}, nil
}
