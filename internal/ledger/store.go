package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Store is the ledger collaborator. Implementations must provide the two
// atomic primitives the engine's consistency rests on: the conditional
// debit-plus-record and the conflict-checked pending insert. A plain
// read-then-write would race under concurrent decisions.
type Store interface {
	// GetActiveAccount returns the active account for an owner, or nil.
	GetActiveAccount(ctx context.Context, ownerID uuid.UUID) (*Account, error)

	// DebitAndRecord decrements the balance and appends the transaction
	// record as one unit, only when the balance covers the amount. ok is
	// false on shortfall; the balance is then untouched and no record is
	// written. The system must never observe one half without the other.
	DebitAndRecord(ctx context.Context, accountID uuid.UUID, tagID, plazaID string, amount decimal.Decimal) (newBalance decimal.Decimal, ok bool, err error)

	// FindUnresolvedPending returns the open due for (vehicle, plaza), or nil.
	FindUnresolvedPending(ctx context.Context, vehicleID uuid.UUID, plazaID string) (*PendingToll, error)

	// InsertPending records a new due unless an unresolved one already
	// exists for the same (vehicle, plaza); created is false on conflict.
	InsertPending(ctx context.Context, p *PendingToll) (created bool, err error)
}
