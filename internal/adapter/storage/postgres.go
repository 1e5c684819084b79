package storage

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
)

// PostgresStore persists the ledger in two tables. Save is the same
// full-replace contract the file store has, done inside one database
// transaction: both tables are cleared and rewritten, and the commit is
// the atomic cut-over.
type PostgresStore struct {
	Db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{Db: db}
}

// EnsureSchema creates the ledger tables if they do not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	statements := []string{`
		CREATE TABLE IF NOT EXISTS accounts (
			number  BIGINT PRIMARY KEY,
			balance NUMERIC NOT NULL DEFAULT 0
		)`, `
		CREATE TABLE IF NOT EXISTS account_transactions (
			id             UUID PRIMARY KEY,
			account_number BIGINT NOT NULL REFERENCES accounts(number) ON DELETE CASCADE,
			position       INT NOT NULL,
			kind           TEXT NOT NULL,
			amount         NUMERIC NOT NULL,
			counterparty   BIGINT NOT NULL DEFAULT 0
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.Db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure ledger schema: %w", err)
		}
	}
	return nil
}

// Load reads every account and its history, oldest record first.
func (s *PostgresStore) Load(ctx context.Context) (map[int64]*domain.Account, error) {
	accounts := make(map[int64]*domain.Account)

	rows, err := s.Db.Query(ctx, `SELECT number, balance::text FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var number int64
		var balanceText string
		if err := rows.Scan(&number, &balanceText); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		balance, err := decimal.NewFromString(balanceText)
		if err != nil {
			return nil, fmt.Errorf("bad balance for account %d: %w", number, err)
		}
		accounts[number] = &domain.Account{Number: number, Balance: balance}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load accounts: %w", err)
	}

	txRows, err := s.Db.Query(ctx, `
		SELECT account_number, kind, amount::text, counterparty
		FROM account_transactions
		ORDER BY account_number, position
	`)
	if err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}
	defer txRows.Close()

	for txRows.Next() {
		var number, counterparty int64
		var kind, amountText string
		if err := txRows.Scan(&number, &kind, &amountText, &counterparty); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		acct, ok := accounts[number]
		if !ok {
			continue
		}
		amount, err := decimal.NewFromString(amountText)
		if err != nil {
			return nil, fmt.Errorf("bad amount for account %d: %w", number, err)
		}
		acct.Transactions = append(acct.Transactions, domain.TransactionRecord{
			Kind:         domain.Kind(kind),
			Amount:       amount,
			Counterparty: counterparty,
		})
	}
	if err := txRows.Err(); err != nil {
		return nil, fmt.Errorf("load transactions: %w", err)
	}

	return accounts, nil
}

// Save replaces both tables with the given snapshot in one transaction.
func (s *PostgresStore) Save(ctx context.Context, accounts []domain.Account) error {
	tx, err := s.Db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM account_transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM accounts`); err != nil {
		return fmt.Errorf("clear accounts: %w", err)
	}

	for _, acct := range accounts {
		_, err := tx.Exec(ctx,
			`INSERT INTO accounts (number, balance) VALUES ($1, $2)`,
			acct.Number, acct.Balance.String())
		if err != nil {
			return fmt.Errorf("insert account %d: %w", acct.Number, err)
		}
		for i, rec := range acct.Transactions {
			_, err := tx.Exec(ctx, `
				INSERT INTO account_transactions (id, account_number, position, kind, amount, counterparty)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				uuid.New(), acct.Number, i, string(rec.Kind), rec.Amount.String(), rec.Counterparty)
			if err != nil {
				return fmt.Errorf("insert transaction for account %d: %w", acct.Number, err)
			}
		}
	}

	return tx.Commit(ctx)
}
