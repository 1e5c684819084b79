package ledger

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
)

// Backend is the persistence adapter the store loads from and saves to.
// Save replaces the whole backing store and must be atomic from any
// reader's perspective.
type Backend interface {
	Load(ctx context.Context) (map[int64]*domain.Account, error)
	Save(ctx context.Context, accounts []domain.Account) error
}

// Options controls how a Store behaves.
type Options struct {
	// SaveEachOp makes every successful mutation durable before it
	// returns (API mode). When false the ledger only persists on Close
	// (interactive mode).
	SaveEachOp bool

	// AllowMissing starts with an empty ledger instead of failing when
	// the backing store does not exist yet.
	AllowMissing bool
}

// Store is the in-memory authoritative ledger. It is the only component
// allowed to mutate account state.
//
// One mutex guards the whole ledger: every mutating operation runs its
// read-check-mutate sequence (and, with SaveEachOp, the durable save)
// inside a single critical section, so concurrent withdrawals cannot
// both spend the same balance and a transfer's two account updates are
// never observable half-done.
type Store struct {
	mu       sync.Mutex
	backend  Backend
	accounts map[int64]*domain.Account
	opts     Options
}

// Open loads the ledger from the backend. A missing backing store is
// domain.ErrStoreMissing unless AllowMissing is set.
func Open(ctx context.Context, backend Backend, opts Options) (*Store, error) {
	accounts, err := backend.Load(ctx)
	if err != nil {
		if opts.AllowMissing && errors.Is(err, domain.ErrStoreMissing) {
			accounts = make(map[int64]*domain.Account)
		} else {
			return nil, err
		}
	}
	return &Store{backend: backend, accounts: accounts, opts: opts}, nil
}

// Close persists the ledger one final time. This is the durability
// point for the interactive deployment, which defers all saves to exit.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// FindAccount returns a snapshot of the account, or
// domain.ErrAccountNotFound. Pure lookup, no mutation.
func (s *Store) FindAccount(number int64) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

// Balance returns the account's current balance.
func (s *Store) Balance(number int64) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	return acct.Balance, nil
}

// Transactions returns the account's history in chronological order.
func (s *Store) Transactions(number int64) ([]domain.TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	out := make([]domain.TransactionRecord, len(acct.Transactions))
	copy(out, acct.Transactions)
	return out, nil
}

// CreateAccount registers a new account with an opening balance.
func (s *Store) CreateAccount(ctx context.Context, number int64, opening decimal.Decimal) (*domain.Account, error) {
	if opening.Sign() < 0 {
		return nil, domain.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[number]; ok {
		return nil, domain.ErrAccountExists
	}
	acct := &domain.Account{Number: number, Balance: opening}
	s.accounts[number] = acct
	if err := s.persistLocked(ctx); err != nil {
		delete(s.accounts, number)
		return nil, err
	}
	return acct.Clone(), nil
}

// Withdraw debits the account and appends a Withdrawal record,
// returning the new balance. The balance check, the mutation and the
// save happen in one critical section; on any failure the account is
// left exactly as it was.
func (s *Store) Withdraw(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	if amount.GreaterThan(acct.Balance) {
		return decimal.Zero, domain.ErrInsufficientFunds
	}
	prev := acct.Clone()
	acct.Balance = acct.Balance.Sub(amount)
	acct.Transactions = append(acct.Transactions, domain.TransactionRecord{Kind: domain.Withdrawal, Amount: amount})
	if err := s.persistLocked(ctx); err != nil {
		s.accounts[number] = prev
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// Deposit credits the account and appends a Deposit record, returning
// the new balance.
func (s *Store) Deposit(ctx context.Context, number int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, domain.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[number]
	if !ok {
		return decimal.Zero, domain.ErrAccountNotFound
	}
	prev := acct.Clone()
	acct.Balance = acct.Balance.Add(amount)
	acct.Transactions = append(acct.Transactions, domain.TransactionRecord{Kind: domain.Deposit, Amount: amount})
	if err := s.persistLocked(ctx); err != nil {
		s.accounts[number] = prev
		return decimal.Zero, err
	}
	return acct.Balance, nil
}

// Transfer moves amount from one account to another as a single atomic
// step: funds check, both mutations and the save share one critical
// section, and a failed save rolls both accounts back. The sender gets
// a TransferOut record, the receiver a TransferIn, or neither.
//
// The funds check runs before the receiver lookup, so when both would
// fail the caller sees ErrInsufficientFunds.
func (s *Store) Transfer(ctx context.Context, from, to int64, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return domain.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sender, ok := s.accounts[from]
	if !ok {
		return domain.ErrAccountNotFound
	}
	if amount.GreaterThan(sender.Balance) {
		return domain.ErrInsufficientFunds
	}
	receiver, ok := s.accounts[to]
	if !ok {
		return domain.ErrReceiverNotFound
	}

	prevSender := sender.Clone()
	prevReceiver := receiver.Clone()

	sender.Balance = sender.Balance.Sub(amount)
	sender.Transactions = append(sender.Transactions, domain.TransactionRecord{Kind: domain.TransferOut, Amount: amount, Counterparty: to})
	receiver.Balance = receiver.Balance.Add(amount)
	receiver.Transactions = append(receiver.Transactions, domain.TransactionRecord{Kind: domain.TransferIn, Amount: amount, Counterparty: from})

	if err := s.persistLocked(ctx); err != nil {
		s.accounts[from] = prevSender
		s.accounts[to] = prevReceiver
		return err
	}
	return nil
}

// persistLocked saves when the store is in per-operation mode.
// Callers must hold mu.
func (s *Store) persistLocked(ctx context.Context) error {
	if !s.opts.SaveEachOp {
		return nil
	}
	return s.saveLocked(ctx)
}

// saveLocked snapshots every account, ordered by number so the backing
// store comes out deterministic, and hands the snapshot to the backend.
func (s *Store) saveLocked(ctx context.Context) error {
	out := make([]domain.Account, 0, len(s.accounts))
	for _, acct := range s.accounts {
		out = append(out, *acct.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })
	if err := s.backend.Save(ctx, out); err != nil {
		return fmt.Errorf("persist ledger: %w", err)
	}
	return nil
}
