package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Statement-line codec.
//
// The backing store keeps each account's history as one text blob of
// comma-separated statement lines, e.g.
//
//	Withdrawal: -$12.50, Deposit: +$50.00, Transfer to Account 1002: -$100.00,
//
// The same lines are what the ATM session prints as the statement view.
// Records are structured in memory; this file is the only place that
// knows the text format, and parsing is the exact inverse of formatting.

const (
	withdrawalPrefix   = "Withdrawal: -$"
	depositPrefix      = "Deposit: +$"
	transferOutPrefix  = "Transfer to Account "
	transferInPrefix   = "Transfer from Account "
	statementSeparator = ", "
)

// StatementLine renders one record as a human-readable line.
// Amounts are printed with two decimal places.
func (r TransactionRecord) StatementLine() string {
	amt := r.Amount.StringFixed(2)
	switch r.Kind {
	case Withdrawal:
		return withdrawalPrefix + amt
	case Deposit:
		return depositPrefix + amt
	case TransferOut:
		return fmt.Sprintf("%s%d: -$%s", transferOutPrefix, r.Counterparty, amt)
	case TransferIn:
		return fmt.Sprintf("%s%d: +$%s", transferInPrefix, r.Counterparty, amt)
	}
	return ""
}

// EncodeStatement joins records into the stored blob form.
// Every line, including the last, is followed by the separator.
func EncodeStatement(records []TransactionRecord) string {
	if len(records) == 0 {
		return ""
	}
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.StatementLine())
		b.WriteString(statementSeparator)
	}
	return b.String()
}

// ParseStatement decodes a stored blob back into records. An empty blob
// is an empty history. On a malformed entry it returns the records
// parsed so far together with the error, so a caller can keep the
// readable part of a damaged row.
func ParseStatement(blob string) ([]TransactionRecord, error) {
	var records []TransactionRecord
	for _, entry := range strings.Split(blob, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		rec, err := parseStatementLine(entry)
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}

func parseStatementLine(line string) (TransactionRecord, error) {
	switch {
	case strings.HasPrefix(line, withdrawalPrefix):
		amt, err := parseAmount(strings.TrimPrefix(line, withdrawalPrefix))
		return TransactionRecord{Kind: Withdrawal, Amount: amt}, err

	case strings.HasPrefix(line, depositPrefix):
		amt, err := parseAmount(strings.TrimPrefix(line, depositPrefix))
		return TransactionRecord{Kind: Deposit, Amount: amt}, err

	case strings.HasPrefix(line, transferOutPrefix):
		return parseTransferLine(line, transferOutPrefix, "-$", TransferOut)

	case strings.HasPrefix(line, transferInPrefix):
		return parseTransferLine(line, transferInPrefix, "+$", TransferIn)
	}
	return TransactionRecord{}, fmt.Errorf("unrecognized statement entry %q", line)
}

// parseTransferLine handles "Transfer to Account 1002: -$100.00" and its
// incoming twin, extracting the counterparty number and the amount.
func parseTransferLine(line, prefix, sign string, kind Kind) (TransactionRecord, error) {
	rest := strings.TrimPrefix(line, prefix)
	num, tail, ok := strings.Cut(rest, ": "+sign)
	if !ok {
		return TransactionRecord{}, fmt.Errorf("malformed transfer entry %q", line)
	}
	counterparty, err := strconv.ParseInt(num, 10, 64)
	if err != nil {
		return TransactionRecord{}, fmt.Errorf("bad counterparty in %q: %w", line, err)
	}
	amt, err := parseAmount(tail)
	if err != nil {
		return TransactionRecord{}, err
	}
	return TransactionRecord{Kind: kind, Amount: amt, Counterparty: counterparty}, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	amt, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("bad amount %q: %w", s, err)
	}
	return amt, nil
}
