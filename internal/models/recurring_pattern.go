package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Frequency is the periodicity bucket of a recurring pattern.
type Frequency string

const (
	FrequencyWeekly     Frequency = "weekly"
	FrequencyBiWeekly   Frequency = "bi-weekly"
	FrequencyMonthly    Frequency = "monthly"
	FrequencyBiMonthly  Frequency = "bi-monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencySemiAnnual Frequency = "semi-annual"
	FrequencyYearly     Frequency = "yearly"
)

// RecurringPattern is a periodic obligation inferred from transaction history.
//
// (HouseholdID, Description) is unique. Re-detection overwrites the statistics
// but keeps the row and its CreatedAt.
type RecurringPattern struct {
	DefaultModel
	HouseholdID    uuid.UUID       `json:"householdId" gorm:"type:uuid;uniqueIndex:recurring_pattern_household_description"`
	Household      Household       `json:"-"`
	Description    string          `json:"description" gorm:"uniqueIndex:recurring_pattern_household_description" example:"salary inc."` // Normalized grouping key
	ExpectedAmount decimal.Decimal `json:"expectedAmount" gorm:"type:DECIMAL(20,8)" example:"15000"`
	Type           TransactionType `json:"type" example:"income"`
	Frequency      Frequency       `json:"frequency" example:"monthly"`
	Occurrences    int             `json:"occurrences" example:"6"`
	LastObserved   time.Time       `json:"lastObserved" example:"2024-04-01T00:00:00Z"`
	NextExpected   time.Time       `json:"nextExpected" example:"2024-05-01T00:00:00Z"`
	Confidence     float64         `json:"confidence" example:"0.93"`
	CategoryID     *uuid.UUID      `json:"categoryId" gorm:"type:uuid"`
	AccountID      *uuid.UUID      `json:"accountId" gorm:"type:uuid"`
}

// AfterFind updates the dates to use UTC.
func (p *RecurringPattern) AfterFind(tx *gorm.DB) (err error) {
	if err := p.DefaultModel.AfterFind(tx); err != nil {
		return err
	}

	p.LastObserved = p.LastObserved.In(time.UTC)
	p.NextExpected = p.NextExpected.In(time.UTC)
	return nil
}

// Fresh reports whether the pattern was inserted, not refreshed, by the last
// write.
func (p RecurringPattern) Fresh() bool {
	return p.UpdatedAt.Sub(p.CreatedAt).Abs() <= time.Second
}
