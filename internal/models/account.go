package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AccountType tells bank accounts apart from credit cards. Only bank accounts
// can pay a credit card bill.
type AccountType string

const (
	AccountTypeBank       AccountType = "bank"
	AccountTypeCreditCard AccountType = "credit_card"
)

// Account is one account at a financial institution that is synced.
type Account struct {
	DefaultModel
	HouseholdID  uuid.UUID   `json:"householdId" gorm:"type:uuid;uniqueIndex:account_name_household_id" example:"550dc009-cea6-4c12-b2a5-03446eb7b7cf"`
	Household    Household   `json:"-"`
	Name         string      `json:"name" gorm:"uniqueIndex:account_name_household_id" example:"Checking"`
	Institution  string      `json:"institution" example:"onezero"` // Key of the protocol client
	Type         AccountType `json:"type" example:"bank"`
	Credentials  []byte      `json:"-"`                                                     // Sealed credentials, see package credentials
	LastSyncedAt *time.Time  `json:"lastSyncedAt" example:"2024-04-02T06:00:00Z"`           // Completion time of the last successful sync
	Active       bool        `json:"active" gorm:"default:true" example:"true"`             // Inactive accounts are skipped by scheduled syncs
	NeedsReauth  bool        `json:"needsReauth" example:"false"`                           // The stored long-term token expired, OTP enrollment must be repeated
}

// BeforeCreate validates the account and generates its ID.
func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.Type == "" {
		a.Type = AccountTypeBank
	}

	if a.Type != AccountTypeBank && a.Type != AccountTypeCreditCard {
		return fmt.Errorf("%w, got %q", ErrAccountTypeInvalid, a.Type)
	}

	if a.Institution == "" {
		return ErrAccountInstitutionRequired
	}

	return a.DefaultModel.BeforeCreate(tx)
}

// AfterFind sets the last sync timestamp to UTC.
func (a *Account) AfterFind(tx *gorm.DB) error {
	if err := a.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	if a.LastSyncedAt != nil {
		t := a.LastSyncedAt.In(time.UTC)
		a.LastSyncedAt = &t
	}
	return nil
}
