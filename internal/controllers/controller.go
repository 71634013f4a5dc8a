// Package controllers implements the HTTP handlers of the API.
package controllers

import (
	"context"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
	"github.com/hearth-ledger/backend/internal/runner"
	"github.com/hearth-ledger/backend/internal/scraper/onezero"
	"gorm.io/gorm"
)

// Syncer syncs a single account.
type Syncer interface {
	Run(ctx context.Context, accountID uuid.UUID, opts runner.Options) runner.Result
}

// Processor handles the transactions inserted by a sync.
type Processor interface {
	Process(ctx context.Context, householdID uuid.UUID, transactions []models.Transaction) (int, error)
}

// Detector detects and lists recurring patterns.
type Detector interface {
	Detect(ctx context.Context, householdID uuid.UUID) (recurring.Result, error)
	Patterns(ctx context.Context, householdID uuid.UUID) ([]models.RecurringPattern, error)
}

// Enroller runs the One Zero OTP enrollment.
type Enroller interface {
	TriggerOTP(ctx context.Context, phoneNumber string) (onezero.OTPChallenge, error)
	VerifyOTP(ctx context.Context, otpContext, code string) (string, error)
}

// Controller holds the dependencies of the handlers. Processor is optional.
type Controller struct {
	DB        *gorm.DB
	Syncer    Syncer
	Processor Processor
	Detector  Detector
	Enroller  Enroller
}
