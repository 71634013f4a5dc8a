// Package scraper defines the contract every institution protocol client
// implements and the registry the sync runner dispatches through.
package scraper

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Institution identifies a supported financial institution.
type Institution string

// Credentials are the decrypted, institution specific login fields.
// They only live for the duration of one Scrape call.
type Credentials map[string]string

// Get returns the value for key or an empty string.
func (c Credentials) Get(key string) string {
	return c[key]
}

// RawTransaction is a transaction as reported by the institution.
//
// Charged amounts are signed: negative values are outflows.
type RawTransaction struct {
	Identifier          string // Empty when the institution does not assign one
	Date                time.Time
	ProcessedDate       *time.Time
	Description         string
	OriginalAmount      decimal.Decimal
	OriginalCurrency    string
	ChargedAmount       decimal.Decimal
	ChargedCurrency     string
	Memo                string
	OriginalDescription string // Set when Description was repaired
}

// Result is the tagged outcome of a Scrape call.
type Result struct {
	Success      bool
	Transactions []RawTransaction
	Err          error
}

// Succeeded returns a successful Result.
func Succeeded(transactions []RawTransaction) Result {
	if transactions == nil {
		transactions = []RawTransaction{}
	}
	return Result{Success: true, Transactions: transactions}
}

// Failed returns a failed Result.
func Failed(err error) Result {
	return Result{Success: false, Err: err}
}

// Scraper fetches the transactions of one account from one institution.
//
// Implementations never panic or return errors outside of the Result and
// never retry. Session state must not outlive a single call.
type Scraper interface {
	Scrape(ctx context.Context, credentials Credentials, startDate time.Time) Result
}

// Func adapts a function to the Scraper interface.
type Func func(ctx context.Context, credentials Credentials, startDate time.Time) Result

// Scrape calls f.
func (f Func) Scrape(ctx context.Context, credentials Credentials, startDate time.Time) Result {
	return f(ctx, credentials, startDate)
}
