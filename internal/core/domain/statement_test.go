package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func amt(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad test amount %q: %v", s, err)
	}
	return d
}

func TestStatementLine(t *testing.T) {
	tests := []struct {
		name string
		rec  TransactionRecord
		want string
	}{
		{"withdrawal", TransactionRecord{Kind: Withdrawal, Amount: amt(t, "12.5")}, "Withdrawal: -$12.50"},
		{"deposit", TransactionRecord{Kind: Deposit, Amount: amt(t, "50")}, "Deposit: +$50.00"},
		{"transfer out", TransactionRecord{Kind: TransferOut, Amount: amt(t, "100"), Counterparty: 1002}, "Transfer to Account 1002: -$100.00"},
		{"transfer in", TransactionRecord{Kind: TransferIn, Amount: amt(t, "100"), Counterparty: 1001}, "Transfer from Account 1001: +$100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.StatementLine(); got != tt.want {
				t.Errorf("StatementLine() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementRoundTrip(t *testing.T) {
	records := []TransactionRecord{
		{Kind: Withdrawal, Amount: amt(t, "200")},
		{Kind: Deposit, Amount: amt(t, "50")},
		{Kind: TransferOut, Amount: amt(t, "100"), Counterparty: 1002},
		{Kind: TransferIn, Amount: amt(t, "25.75"), Counterparty: 2001},
	}

	blob := EncodeStatement(records)
	parsed, err := ParseStatement(blob)
	if err != nil {
		t.Fatalf("ParseStatement(%q) err = %v", blob, err)
	}
	if len(parsed) != len(records) {
		t.Fatalf("got %d records, want %d", len(parsed), len(records))
	}
	for i, rec := range records {
		got := parsed[i]
		if got.Kind != rec.Kind || !got.Amount.Equal(rec.Amount) || got.Counterparty != rec.Counterparty {
			t.Errorf("record %d = %+v, want %+v", i, got, rec)
		}
	}
}

func TestEncodeStatementTrailingSeparator(t *testing.T) {
	blob := EncodeStatement([]TransactionRecord{{Kind: Deposit, Amount: amt(t, "1")}})
	if blob != "Deposit: +$1.00, " {
		t.Errorf("EncodeStatement() = %q", blob)
	}
}

func TestParseStatementEmpty(t *testing.T) {
	records, err := ParseStatement("")
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records for empty blob", len(records))
	}
}

func TestParseStatementKeepsReadablePart(t *testing.T) {
	blob := "Deposit: +$50.00, garbage entry, Withdrawal: -$10.00, "
	records, err := ParseStatement(blob)
	if err == nil {
		t.Fatal("expected an error for the garbage entry")
	}
	if len(records) != 1 || records[0].Kind != Deposit {
		t.Errorf("expected the leading deposit to survive, got %+v", records)
	}
}
