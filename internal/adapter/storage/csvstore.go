package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
)

// The backing file keeps the ledger as one CSV table:
//
//	Account Number,Balance,Transactions
//	1001,500.00,"Withdrawal: -$200.00, Deposit: +$50.00, "
//
// Load repairs what it can instead of refusing the file: a balance that
// is not a number becomes 0 with a warning, a missing transaction blob
// is an empty history. Save replaces the whole file atomically by
// writing a temp file next to it and renaming over the original, so a
// crash mid-save never leaves a half-written table behind.

var csvHeader = []string{"Account Number", "Balance", "Transactions"}

// CSVStore persists the ledger to one CSV file.
type CSVStore struct {
	path string
}

func NewCSVStore(path string) *CSVStore {
	return &CSVStore{path: path}
}

// Load reads the whole table. A missing file is domain.ErrStoreMissing;
// the caller decides whether that is fatal.
func (s *CSVStore) Load(ctx context.Context) (map[int64]*domain.Account, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, domain.ErrStoreMissing
		}
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	accounts := make(map[int64]*domain.Account)
	for i, row := range rows {
		if i == 0 && isHeaderRow(row) {
			continue
		}
		acct, err := parseRow(row)
		if err != nil {
			// A row without a usable account number cannot be
			// addressed at all; skip it rather than fail the load.
			slog.Warn("skipping unreadable ledger row", "row", i+1, "error", err)
			continue
		}
		accounts[acct.Number] = acct
	}
	return accounts, nil
}

func isHeaderRow(row []string) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(row[0]), csvHeader[0])
}

func parseRow(row []string) (*domain.Account, error) {
	if len(row) == 0 {
		return nil, errors.New("empty row")
	}
	number, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad account number %q: %w", row[0], err)
	}

	acct := &domain.Account{Number: number, Balance: decimal.Zero}

	if len(row) < 2 || strings.TrimSpace(row[1]) == "" {
		slog.Warn("missing balance, coercing to 0", "account", number)
	} else if balance, err := decimal.NewFromString(strings.TrimSpace(row[1])); err != nil {
		// Repair policy: one corrupt balance cell must not deny
		// access to the rest of the ledger.
		slog.Warn("non-numeric balance, coercing to 0", "account", number, "value", row[1])
	} else {
		acct.Balance = balance
	}

	if len(row) > 2 {
		records, err := domain.ParseStatement(row[2])
		if err != nil {
			slog.Warn("damaged transaction history, keeping readable part", "account", number, "error", err)
		}
		acct.Transactions = records
	}
	return acct, nil
}

// Save writes the full table back, replacing whatever was there.
func (s *CSVStore) Save(ctx context.Context, accounts []domain.Account) error {
	tmp := s.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		f.Close()
		return fmt.Errorf("write ledger header: %w", err)
	}
	for _, acct := range accounts {
		row := []string{
			strconv.FormatInt(acct.Number, 10),
			acct.Balance.String(),
			domain.EncodeStatement(acct.Transactions),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return fmt.Errorf("write ledger row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush ledger file: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return fmt.Errorf("sync ledger file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close ledger file: %w", err)
	}

	// The rename is the commit point: readers see either the old table
	// or the new one, never a partial write.
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
