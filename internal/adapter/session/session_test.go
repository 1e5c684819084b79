package session

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ibrahimkeyboad/bankledger/internal/adapter/storage"
	"github.com/ibrahimkeyboad/bankledger/internal/core/ledger"
)

func openSeededStore(t *testing.T) (*ledger.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "bank_database.csv")
	seed := "Account Number,Balance,Transactions\n1001,500.00,\n1002,50.00,\n"
	if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}
	store, err := ledger.Open(context.Background(), storage.NewCSVStore(path), ledger.Options{})
	if err != nil {
		t.Fatalf("Open err = %v", err)
	}
	return store, path
}

func runScript(t *testing.T, store *ledger.Store, lines ...string) string {
	t.Helper()
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	var out bytes.Buffer
	if err := New(store, in, &out).Run(context.Background()); err != nil {
		t.Fatalf("Run err = %v (output: %s)", err, out.String())
	}
	return out.String()
}

func TestSessionFullVisit(t *testing.T) {
	store, path := openSeededStore(t)

	out := runScript(t, store,
		"1001",
		"1",        // check balance
		"2", "200", // withdraw
		"5", "1002", "100", // transfer
		"4", // statements
		"6", // exit
	)

	for _, want := range []string{
		"Welcome to the ATM!",
		"Your current balance is: $500.00",
		"$200.00 withdrawn successfully.",
		"$100.00 transferred successfully to Account 1002.",
		"Transaction History:",
		"Withdrawal: -$200.00",
		"Transfer to Account 1002: -$100.00",
		"Thank you for using the ATM. Goodbye!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	// The session itself never persists; that happens once on exit.
	if err := store.Close(context.Background()); err != nil {
		t.Fatalf("Close err = %v", err)
	}
	reloaded, err := ledger.Open(context.Background(), storage.NewCSVStore(path), ledger.Options{})
	if err != nil {
		t.Fatalf("reopen err = %v", err)
	}
	balance, err := reloaded.Balance(1001)
	if err != nil {
		t.Fatal(err)
	}
	if balance.StringFixed(2) != "200.00" {
		t.Errorf("persisted balance = %s, want 200.00", balance)
	}
}

func TestSessionRejectsBadAmounts(t *testing.T) {
	store, _ := openSeededStore(t)

	out := runScript(t, store,
		"1001",
		"2", "abc", // not a number
		"2", "-5", // not positive
		"2", "9999", // more than the balance
		"6",
	)

	for _, want := range []string{
		"Please enter a valid number.",
		"Invalid amount! Please enter a positive number.",
		"Insufficient funds!",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}

	balance, _ := store.Balance(1001)
	if balance.StringFixed(2) != "500.00" {
		t.Errorf("balance = %s, want untouched 500.00", balance)
	}
}

func TestSessionUnknownAccount(t *testing.T) {
	store, _ := openSeededStore(t)

	in := strings.NewReader("4242\n")
	var out bytes.Buffer
	if err := New(store, in, &out).Run(context.Background()); err == nil {
		t.Fatal("expected an error for an unknown account")
	}
	if !strings.Contains(out.String(), "Account not found!") {
		t.Errorf("output = %s", out.String())
	}
}

func TestSessionTransferToUnknownReceiver(t *testing.T) {
	store, _ := openSeededStore(t)

	out := runScript(t, store,
		"1001",
		"5", "9999", "10",
		"6",
	)
	if !strings.Contains(out, "Receiver account not found!") {
		t.Errorf("output = %s", out)
	}
}
