package models

import (
	"time"

	"github.com/google/uuid"
)

type SyncStatus string

const (
	SyncStatusSuccess SyncStatus = "success"
	SyncStatusError   SyncStatus = "error"
)

// SyncOutcome is the audit record of one sync attempt for one account.
// Outcomes are only ever appended.
type SyncOutcome struct {
	DefaultModel
	AccountID   uuid.UUID  `json:"accountId" gorm:"type:uuid;index" example:"af892e10-7e0a-4fb8-b1bc-4b6d88401ed2"`
	Account     Account    `json:"-"`
	Status      SyncStatus `json:"status" example:"success"`
	Added       int        `json:"added" example:"12"`
	Duplicates  int        `json:"duplicates" example:"3"`
	Error       *string    `json:"error,omitempty" example:"Sync failed: re-authentication required"` // Short message, never an upstream response body
	StartedAt   time.Time  `json:"startedAt" example:"2024-04-02T06:00:00Z"`
	CompletedAt time.Time  `json:"completedAt" example:"2024-04-02T06:00:07Z"`
}
