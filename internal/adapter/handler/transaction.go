package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
	"github.com/ibrahimkeyboad/bankledger/internal/core/worker"
)

type TransactionHandler struct {
	Store    *ledger.Store
	Notifier *worker.Notifier
}

// Request Models
type AmountRequest struct {
	AccountNumber int64           `json:"account_number"`
	Amount        decimal.Decimal `json:"amount"`
}

type TransferRequest struct {
	FromAccount int64           `json:"from_account"`
	ToAccount   int64           `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
}

// Withdraw API
func (h *TransactionHandler) Withdraw(c *fiber.Ctx) error {
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	balance, err := h.Store.Withdraw(c.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.Notifier.Enqueue(worker.Event{
		Type:       "withdrawal",
		Account:    req.AccountNumber,
		Amount:     req.Amount.StringFixed(2),
		OccurredAt: time.Now(),
	})

	return c.JSON(fiber.Map{"message": "Withdrawal successful", "balance": balance.StringFixed(2)})
}

// Deposit API
func (h *TransactionHandler) Deposit(c *fiber.Ctx) error {
	var req AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	balance, err := h.Store.Deposit(c.Context(), req.AccountNumber, req.Amount)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	h.Notifier.Enqueue(worker.Event{
		Type:       "deposit",
		Account:    req.AccountNumber,
		Amount:     req.Amount.StringFixed(2),
		OccurredAt: time.Now(),
	})

	return c.JSON(fiber.Map{"message": "Deposit successful", "balance": balance.StringFixed(2)})
}

// Transfer API
func (h *TransactionHandler) Transfer(c *fiber.Ctx) error {
	var req TransferRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	err := h.Store.Transfer(c.Context(), req.FromAccount, req.ToAccount, req.Amount)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("Transfer complete", "from", req.FromAccount, "to", req.ToAccount, "amount", req.Amount.StringFixed(2))

	h.Notifier.Enqueue(worker.Event{
		Type:         "transfer",
		Account:      req.FromAccount,
		Counterparty: req.ToAccount,
		Amount:       req.Amount.StringFixed(2),
		OccurredAt:   time.Now(),
	})

	return c.JSON(fiber.Map{"message": "Transfer successful"})
}

// statusFor maps domain errors to HTTP status codes: missing accounts
// are 404, rejected operations are 400, anything else (a failed save,
// a missing backing store) is 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound), errors.Is(err, domain.ErrReceiverNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAccountExists):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
