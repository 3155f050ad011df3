package ledger

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PostgresStore persists accounts, transactions, and the pending-toll ledger.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) GetActiveAccount(ctx context.Context, ownerID uuid.UUID) (*Account, error) {
	query := `
		SELECT account_id, owner_id, balance
		FROM accounts
		WHERE owner_id = $1 AND is_active
	`
	var a Account
	var balanceStr string
	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(&a.ID, &a.OwnerID, &balanceStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get active account: %w", err)
	}
	a.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("parse balance %q: %w", balanceStr, err)
	}
	a.Active = true
	return &a, nil
}

// CreateAccount inserts or refreshes an account; used by seeding and account
// provisioning, never by the decision path.
func (s *PostgresStore) CreateAccount(ctx context.Context, a *Account) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO accounts (account_id, owner_id, balance, is_active)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (account_id) DO UPDATE SET
			balance = EXCLUDED.balance,
			is_active = EXCLUDED.is_active
	`, a.ID, a.OwnerID, a.Balance.String(), a.Active)
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

// DebitAndRecord uses a single conditional UPDATE for the check-and-decrement
// so two concurrent debits can never both succeed against one covering
// balance, then writes the transaction record in the same database
// transaction. Either both sides commit or neither does.
func (s *PostgresStore) DebitAndRecord(ctx context.Context, accountID uuid.UUID, tagID, plazaID string, amount decimal.Decimal) (decimal.Decimal, bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("begin debit: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var newBalanceStr string
	err = tx.QueryRowContext(ctx, `
		UPDATE accounts
		SET balance = balance - $2
		WHERE account_id = $1 AND is_active AND balance >= $2
		RETURNING balance
	`, accountID, amount.String()).Scan(&newBalanceStr)
	if err != nil {
		if err == sql.ErrNoRows {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, fmt.Errorf("debit account: %w", err)
	}

	var tag sql.NullString
	if tagID != "" {
		tag = sql.NullString{String: tagID, Valid: true}
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO toll_transactions (transaction_id, occurred_at, amount, status, security_flag, tag_id, plaza_id)
		VALUES ($1, NOW(), $2, $3, FALSE, $4, $5)
	`, uuid.New(), amount.String(), TransactionStatusSuccess, tag, plazaID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("record transaction: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return decimal.Zero, false, fmt.Errorf("commit debit: %w", err)
	}

	newBalance, err := decimal.NewFromString(newBalanceStr)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("parse new balance %q: %w", newBalanceStr, err)
	}
	return newBalance, true, nil
}

func (s *PostgresStore) FindUnresolvedPending(ctx context.Context, vehicleID uuid.UUID, plazaID string) (*PendingToll, error) {
	query := `
		SELECT ledger_id, vehicle_id, tag_id, plaza_id, amount_due, created_at, resolved
		FROM pending_toll_ledger
		WHERE vehicle_id = $1 AND plaza_id = $2 AND NOT resolved
	`
	var p PendingToll
	var tag sql.NullString
	var amountStr string
	err := s.db.QueryRowContext(ctx, query, vehicleID, plazaID).
		Scan(&p.LedgerID, &p.VehicleID, &tag, &p.PlazaID, &amountStr, &p.CreatedAt, &p.Resolved)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("find unresolved pending: %w", err)
	}
	p.TagID = tag.String
	p.AmountDue, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("parse amount due %q: %w", amountStr, err)
	}
	return &p, nil
}

// InsertPending relies on the partial unique index over
// (vehicle_id, plaza_id) WHERE NOT resolved, so concurrent shortfalls for the
// same pair produce exactly one row. A select-then-insert would race.
func (s *PostgresStore) InsertPending(ctx context.Context, p *PendingToll) (bool, error) {
	var tag sql.NullString
	if p.TagID != "" {
		tag = sql.NullString{String: p.TagID, Valid: true}
	}
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_toll_ledger (ledger_id, vehicle_id, tag_id, plaza_id, amount_due, created_at, resolved)
		VALUES ($1, $2, $3, $4, $5, NOW(), FALSE)
		ON CONFLICT (vehicle_id, plaza_id) WHERE NOT resolved DO NOTHING
	`, p.LedgerID, p.VehicleID, tag, p.PlazaID, p.AmountDue.String())
	if err != nil {
		return false, fmt.Errorf("insert pending toll: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert pending rows affected: %w", err)
	}
	return rows > 0, nil
}
