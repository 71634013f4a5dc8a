// Package transform maps institution records into canonical transactions.
package transform

import (
	"strings"
	"time"

	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/transfer"
	"github.com/shopspring/decimal"
)

// HomeCurrency is not stored on transactions.
const HomeCurrency = "ILS"

// CanonicalTransaction is an institution agnostic transaction ready to be
// stored. Optional fields are nil when absent.
type CanonicalTransaction struct {
	ExternalID          string
	Date                time.Time
	ProcessedDate       *time.Time
	Description         string
	OriginalDescription *string
	Amount              decimal.Decimal // Unsigned
	Currency            *string         // nil for HomeCurrency
	Type                models.TransactionType
	Memo                *string
}

// Transform converts raw records of an account of the given type.
func Transform(raws []scraper.RawTransaction, accountType models.AccountType) []CanonicalTransaction {
	transactions := make([]CanonicalTransaction, 0, len(raws))
	for _, raw := range raws {
		transactions = append(transactions, One(raw, accountType))
	}
	return transactions
}

// One converts a single raw record.
func One(raw scraper.RawTransaction, accountType models.AccountType) CanonicalTransaction {
	t := CanonicalTransaction{
		ExternalID:          ExternalID(raw),
		Date:                raw.Date.UTC(),
		ProcessedDate:       raw.ProcessedDate,
		Description:         raw.Description,
		OriginalDescription: optional(raw.OriginalDescription),
		Amount:              raw.ChargedAmount.Abs(),
		Type:                Type(raw.ChargedAmount, raw.Description, accountType),
		Memo:                optional(raw.Memo),
	}

	if currency := strings.ToUpper(strings.TrimSpace(raw.ChargedCurrency)); currency != "" && currency != HomeCurrency {
		t.Currency = &currency
	}

	return t
}

// ExternalID returns the issuer identifier or, when there is none, a
// truncated hash of date, charged amount and description.
func ExternalID(raw scraper.RawTransaction) string {
	if id := strings.TrimSpace(raw.Identifier); id != "" {
		return id
	}

	key := strings.Join([]string{
		raw.Date.UTC().Format(time.RFC3339),
		raw.ChargedAmount.String(),
		raw.Description,
	}, "|")

	return sha256String(key)[:hashLength]
}

// Type derives the transaction type from the sign of the charged amount.
// Card bill payments from a bank account are transfers.
func Type(charged decimal.Decimal, description string, accountType models.AccountType) models.TransactionType {
	if !charged.IsNegative() {
		return models.TransactionTypeIncome
	}

	if accountType == models.AccountTypeBank && transfer.IsCardPayment(description) {
		return models.TransactionTypeTransfer
	}

	return models.TransactionTypeExpense
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
