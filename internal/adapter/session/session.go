package session

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ibrahimkeyboad/bankledger/internal/core/domain"
	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
)

// Session is the interactive ATM loop: one account per session, a
// numbered menu, and all user-facing text lives here. The ledger store
// only ever sees parsed, validated values.
type Session struct {
	store *ledger.Store
	in    *bufio.Scanner
	out   io.Writer
}

func New(store *ledger.Store, in io.Reader, out io.Writer) *Session {
	return &Session{store: store, in: bufio.NewScanner(in), out: out}
}

// Run resolves the account and serves the menu until the user exits or
// input ends. Persistence is the caller's job (store.Close on exit).
func (s *Session) Run(ctx context.Context) error {
	number, err := s.promptInt("Enter your account number: ")
	if err != nil {
		s.println("Invalid account number. Please enter a numeric value.")
		return err
	}
	if _, err := s.store.FindAccount(number); err != nil {
		s.println("Account not found!")
		return err
	}

	s.println("\nWelcome to the ATM!")
	for {
		s.println("\nChoose an option:")
		s.println("1. Check Balance")
		s.println("2. Withdraw Money")
		s.println("3. Deposit Money")
		s.println("4. View Statements")
		s.println("5. Transfer Money to Another Account")
		s.println("6. Exit")

		choice, err := s.prompt("Enter your choice (1-6): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			s.showBalance(number)
		case "2":
			s.withdraw(ctx, number)
		case "3":
			s.deposit(ctx, number)
		case "4":
			s.showStatements(number)
		case "5":
			s.transfer(ctx, number)
		case "6":
			s.println("Thank you for using the ATM. Goodbye!")
			return nil
		default:
			s.println("Invalid choice. Please try again.")
		}
	}
}

func (s *Session) showBalance(number int64) {
	balance, err := s.store.Balance(number)
	if err != nil {
		s.println("Account not found!")
		return
	}
	s.printf("Your current balance is: $%s\n", balance.StringFixed(2))
}

func (s *Session) withdraw(ctx context.Context, number int64) {
	amount, ok := s.promptAmount("Enter the amount to withdraw: ")
	if !ok {
		return
	}
	if _, err := s.store.Withdraw(ctx, number, amount); err != nil {
		if errors.Is(err, domain.ErrInsufficientFunds) {
			s.println("Insufficient funds!")
		} else {
			s.printf("Withdrawal failed: %v\n", err)
		}
		return
	}
	s.printf("$%s withdrawn successfully.\n", amount.StringFixed(2))
}

func (s *Session) deposit(ctx context.Context, number int64) {
	amount, ok := s.promptAmount("Enter the amount to deposit: ")
	if !ok {
		return
	}
	if _, err := s.store.Deposit(ctx, number, amount); err != nil {
		s.printf("Deposit failed: %v\n", err)
		return
	}
	s.printf("$%s deposited successfully.\n", amount.StringFixed(2))
}

func (s *Session) showStatements(number int64) {
	records, err := s.store.Transactions(number)
	if err != nil {
		s.println("Account not found!")
		return
	}
	if len(records) == 0 {
		s.println("No transactions recorded yet.")
		return
	}
	s.println("Transaction History:")
	for _, rec := range records {
		s.println(rec.StatementLine())
	}
}

func (s *Session) transfer(ctx context.Context, number int64) {
	receiver, err := s.promptInt("Enter the receiver's account number: ")
	if err != nil {
		s.println("Please enter valid numbers for the account and amount.")
		return
	}
	amount, ok := s.promptAmount("Enter the amount to transfer: ")
	if !ok {
		return
	}
	if err := s.store.Transfer(ctx, number, receiver, amount); err != nil {
		switch {
		case errors.Is(err, domain.ErrInsufficientFunds):
			s.println("Insufficient funds for transfer!")
		case errors.Is(err, domain.ErrReceiverNotFound):
			s.println("Receiver account not found!")
		default:
			s.printf("Transfer failed: %v\n", err)
		}
		return
	}
	s.printf("$%s transferred successfully to Account %d.\n", amount.StringFixed(2), receiver)
}

func (s *Session) prompt(label string) (string, error) {
	fmt.Fprint(s.out, label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *Session) promptInt(label string) (int64, error) {
	text, err := s.prompt(label)
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(text, 10, 64)
}

// promptAmount reads a decimal amount and rejects non-numbers and
// non-positive values, mirroring the checks the menu always did before
// calling the ledger.
func (s *Session) promptAmount(label string) (decimal.Decimal, bool) {
	text, err := s.prompt(label)
	if err != nil {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		s.println("Please enter a valid number.")
		return decimal.Zero, false
	}
	if amount.Sign() <= 0 {
		s.println("Invalid amount! Please enter a positive number.")
		return decimal.Zero, false
	}
	return amount, true
}

func (s *Session) println(line string) {
	fmt.Fprintln(s.out, line)
}

func (s *Session) printf(format string, args ...interface{}) {
	fmt.Fprintf(s.out, format, args...)
}
