package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionType is the direction of a transaction.
type TransactionType string

const (
	TransactionTypeIncome   TransactionType = "income"
	TransactionTypeExpense  TransactionType = "expense"
	TransactionTypeTransfer TransactionType = "transfer" // Money moved between the household's own accounts
)

// Transaction is a stored canonical transaction.
//
// (AccountID, ExternalID) is unique and is the only de-duplication mechanism
// for synced transactions.
type Transaction struct {
	DefaultModel
	AccountID           uuid.UUID       `json:"accountId" gorm:"type:uuid;uniqueIndex:transaction_account_external_id" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Account             Account         `json:"-"`
	ExternalID          string          `json:"externalId" gorm:"uniqueIndex:transaction_account_external_id" example:"9f86d081884c7d65"`
	HouseholdID         uuid.UUID       `json:"householdId" gorm:"type:uuid;index"`
	Date                time.Time       `json:"date" gorm:"index" example:"2024-03-05T00:00:00Z"`
	ProcessedDate       *time.Time      `json:"processedDate,omitempty" example:"2024-04-10T00:00:00Z"`
	Description         string          `json:"description" example:"Salary Inc."`
	OriginalDescription *string         `json:"originalDescription,omitempty"`               // Description as received, if it had to be repaired
	Amount              decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)" example:"15000"` // Always non-negative, Type carries the direction
	Currency            *string         `json:"currency,omitempty" example:"USD"`            // Not set for the home currency
	Type                TransactionType `json:"type" example:"income"`
	Memo                *string         `json:"memo,omitempty"`
	CategoryID          *uuid.UUID      `json:"categoryId" gorm:"type:uuid"`
	Category            *Category       `json:"-"`
}

// AfterFind updates the dates to use UTC.
func (t *Transaction) AfterFind(tx *gorm.DB) (err error) {
	if err := t.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	t.Date = t.Date.In(time.UTC)
	if t.ProcessedDate != nil {
		processed := t.ProcessedDate.In(time.UTC)
		t.ProcessedDate = &processed
	}
	return nil
}

// BeforeSave sets the timezone for the dates to UTC.
func (t *Transaction) BeforeSave(_ *gorm.DB) (err error) {
	t.Date = t.Date.In(time.UTC)
	if t.ProcessedDate != nil {
		processed := t.ProcessedDate.In(time.UTC)
		t.ProcessedDate = &processed
	}

	return nil
}
