package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
)

type AccountHandler struct {
	Store *ledger.Store
}

// Request Models
type AccountRequest struct {
	AccountNumber int64 `json:"account_number"`
}

type CreateAccountRequest struct {
	AccountNumber  int64           `json:"account_number"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// Login checks that the account exists.
func (h *AccountHandler) Login(c *fiber.Ctx) error {
	var req AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if _, err := h.Store.FindAccount(req.AccountNumber); err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	return c.JSON(fiber.Map{"message": "Login successful"})
}

// Balance returns the account's current balance.
func (h *AccountHandler) Balance(c *fiber.Ctx) error {
	var req AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	balance, err := h.Store.Balance(req.AccountNumber)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	return c.JSON(fiber.Map{"balance": balance.StringFixed(2)})
}

// GetHistory returns the account's transactions, oldest first.
func (h *AccountHandler) GetHistory(c *fiber.Ctx) error {
	var req AccountRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	records, err := h.Store.Transactions(req.AccountNumber)
	if err != nil {
		return c.Status(http.StatusNotFound).JSON(fiber.Map{"error": "Account not found"})
	}

	history := make([]fiber.Map, 0, len(records))
	for _, rec := range records {
		entry := fiber.Map{
			"kind":      string(rec.Kind),
			"amount":    rec.Amount.StringFixed(2),
			"statement": rec.StatementLine(),
		}
		if rec.Counterparty != 0 {
			entry["counterparty"] = rec.Counterparty
		}
		history = append(history, entry)
	}

	return c.JSON(fiber.Map{"transactions": history})
}

// CreateAccount registers a new account with an opening balance.
func (h *AccountHandler) CreateAccount(c *fiber.Ctx) error {
	var req CreateAccountRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid account body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.AccountNumber <= 0 {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "Account number must be positive"})
	}

	account, err := h.Store.CreateAccount(c.Context(), req.AccountNumber, req.OpeningBalance)
	if err != nil {
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	slog.Info("✅ Account Created", "account", account.Number)

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"account_number": account.Number,
		"balance":        account.Balance.StringFixed(2),
	})
}
