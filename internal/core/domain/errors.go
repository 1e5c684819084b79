package domain

import "errors"

// Domain errors. Handlers translate these into HTTP status codes;
// the session adapter translates them into user-facing messages.
// The ledger itself never prints anything.
var (
	// ErrAccountNotFound: the requested account number does not exist. (404)
	ErrAccountNotFound = errors.New("account not found")

	// ErrReceiverNotFound: the transfer target does not exist. (404)
	ErrReceiverNotFound = errors.New("receiver account not found")

	// ErrInsufficientFunds: withdrawal or transfer exceeds the balance. (400)
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidAmount: amount is zero, negative or not a number. (400)
	ErrInvalidAmount = errors.New("amount must be a positive number")

	// ErrAccountExists: account number already taken. (400)
	ErrAccountExists = errors.New("account number already in use")

	// ErrStoreMissing: the backing store does not exist yet. (500)
	ErrStoreMissing = errors.New("backing store not found")
)
