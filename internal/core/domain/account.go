package domain

import (
	"github.com/shopspring/decimal"
)

// Kind classifies a transaction record.
type Kind string

const (
	Withdrawal  Kind = "withdrawal"
	Deposit     Kind = "deposit"
	TransferOut Kind = "transfer_out"
	TransferIn  Kind = "transfer_in"
)

// TransactionRecord is one movement of money on an account.
// Counterparty is only set for transfer kinds.
type TransactionRecord struct {
	Kind         Kind            `json:"kind"`
	Amount       decimal.Decimal `json:"amount"`
	Counterparty int64           `json:"counterparty,omitempty"`
}

// Account holds one account's balance and its full transaction history.
// Balance is a fixed-point decimal (never a float) and stays >= 0
// between operations. Transactions is append-only, oldest first.
type Account struct {
	Number       int64               `json:"account_number"`
	Balance      decimal.Decimal     `json:"balance"`
	Transactions []TransactionRecord `json:"transactions,omitempty"`
}

// Clone returns a deep copy, so callers can hand out snapshots
// without exposing the ledger's internal state.
func (a *Account) Clone() *Account {
	cp := *a
	cp.Transactions = make([]TransactionRecord, len(a.Transactions))
	copy(cp.Transactions, a.Transactions)
	return &cp
}
