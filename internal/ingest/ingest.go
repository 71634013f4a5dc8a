// Package ingest stores canonical transactions idempotently and keeps the
// sync audit trail.
package ingest

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/transform"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Run identifies the sync run a batch belongs to.
type Run struct {
	AccountID   uuid.UUID
	HouseholdID uuid.UUID
	StartedAt   time.Time
}

// Result summarizes one ingested batch.
type Result struct {
	Added         int
	Duplicates    int
	NewlyInserted []models.Transaction
}

// Pipeline writes batches to the database.
type Pipeline struct {
	db  *gorm.DB
	now func() time.Time
}

// New returns a Pipeline writing to db. now stamps the completion of a run
// and defaults to the wall clock.
func New(db *gorm.DB, now func() time.Time) *Pipeline {
	if now == nil {
		now = time.Now
	}

	return &Pipeline{
		db: db,
		now: func() time.Time {
			return now().In(time.UTC)
		},
	}
}

// Ingest inserts every transaction keyed on (account, external ID).
//
// Conflicts are counted as duplicates. So are rows that fail to insert for any
// other reason, the rest of the batch is still stored. The account's last sync
// time is updated and exactly one success SyncOutcome is appended, also for an
// empty batch. Both writes are committed together.
//
// An error is only returned if the account or the outcome cannot be written.
func (p *Pipeline) Ingest(ctx context.Context, run Run, transactions []transform.CanonicalTransaction) (Result, error) {
	db := p.db.WithContext(ctx)
	result := Result{NewlyInserted: []models.Transaction{}}

	for _, t := range transactions {
		row := toModel(run, t)

		tx := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&row)
		if tx.Error != nil {
			log.Warn().Str("account", run.AccountID.String()).Str("externalId", t.ExternalID).Err(tx.Error).Msg("transaction insert failed, counting as duplicate")
			result.Duplicates++
			continue
		}

		if tx.RowsAffected == 0 {
			result.Duplicates++
			continue
		}

		result.Added++
		result.NewlyInserted = append(result.NewlyInserted, row)
	}

	completed := p.now()

	err := db.Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Account{}).Where("id = ?", run.AccountID).Updates(map[string]any{
			"last_synced_at": completed,
			"needs_reauth":   false,
		}).Error
		if err != nil {
			return fmt.Errorf("updating last sync time of account %s: %w", run.AccountID, err)
		}

		err = tx.Create(&models.SyncOutcome{
			AccountID:   run.AccountID,
			Status:      models.SyncStatusSuccess,
			Added:       result.Added,
			Duplicates:  result.Duplicates,
			StartedAt:   run.StartedAt,
			CompletedAt: completed,
		}).Error
		if err != nil {
			return fmt.Errorf("recording sync outcome for account %s: %w", run.AccountID, err)
		}

		return nil
	})
	if err != nil {
		return result, err
	}

	log.Info().Str("account", run.AccountID.String()).Str("household", run.HouseholdID.String()).Int("added", result.Added).Int("duplicates", result.Duplicates).Msg("ingested transactions")
	return result, nil
}

// RecordFailure appends an error SyncOutcome with zero counts. message must
// be safe to show to users.
func (p *Pipeline) RecordFailure(ctx context.Context, run Run, message string, needsReauth bool) error {
	db := p.db.WithContext(ctx)

	if needsReauth {
		err := db.Model(&models.Account{}).Where("id = ?", run.AccountID).Update("needs_reauth", true).Error
		if err != nil {
			return fmt.Errorf("flagging account %s for re-authentication: %w", run.AccountID, err)
		}
	}

	err := db.Create(&models.SyncOutcome{
		AccountID:   run.AccountID,
		Status:      models.SyncStatusError,
		Error:       &message,
		StartedAt:   run.StartedAt,
		CompletedAt: p.now(),
	}).Error
	if err != nil {
		return fmt.Errorf("recording sync outcome for account %s: %w", run.AccountID, err)
	}

	return nil
}

func toModel(run Run, t transform.CanonicalTransaction) models.Transaction {
	return models.Transaction{
		AccountID:           run.AccountID,
		HouseholdID:         run.HouseholdID,
		ExternalID:          t.ExternalID,
		Date:                t.Date,
		ProcessedDate:       t.ProcessedDate,
		Description:         t.Description,
		OriginalDescription: t.OriginalDescription,
		Amount:              t.Amount,
		Currency:            t.Currency,
		Type:                t.Type,
		Memo:                t.Memo,
	}
}
