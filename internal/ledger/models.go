package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account holds a prepaid balance. Balance is mutated only by the settler's
// atomic debit; nothing else writes it.
type Account struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Balance decimal.Decimal
	Active  bool
}

// PendingToll is an unresolved due recorded when immediate settlement fails.
// At most one unresolved entry may exist per (vehicle, plaza).
type PendingToll struct {
	LedgerID  uuid.UUID
	VehicleID uuid.UUID
	TagID     string
	PlazaID   string
	AmountDue decimal.Decimal
	CreatedAt time.Time
	Resolved  bool
}

// Transaction is the durable record paired with every successful debit.
type Transaction struct {
	ID           uuid.UUID
	Timestamp    time.Time
	Amount       decimal.Decimal
	Status       string
	SecurityFlag bool
	TagID        string
	PlazaID      string
}

const TransactionStatusSuccess = "SUCCESS"
