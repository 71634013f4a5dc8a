// Package classify assigns categories to newly synced transactions.
package classify

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BatchSize is the maximum number of transactions per classifier call.
const BatchSize = 50

var ErrClassifier = errors.New("classification failed")

// Input is a transaction as the classifier sees it.
type Input struct {
	ID          uuid.UUID              `json:"id"`
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount"`
	Type        models.TransactionType `json:"type"`
}

// Category is an entry of the catalog the classifier chooses from.
type Category struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"`
	Income bool      `json:"income"`
}

// Assignment is one classification result.
type Assignment struct {
	ID         uuid.UUID `json:"id"`
	CategoryID uuid.UUID `json:"categoryId"`
}

// Classifier assigns catalog categories to transactions.
type Classifier interface {
	Classify(ctx context.Context, transactions []Input, catalog []Category) ([]Assignment, error)
}

// Step classifies the transactions inserted by a sync.
type Step struct {
	db         *gorm.DB
	classifier Classifier
}

// NewStep returns a Step. A nil classifier makes Process a no-op.
func NewStep(db *gorm.DB, classifier Classifier) *Step {
	return &Step{db: db, classifier: classifier}
}

// Process sends the transactions to the classifier in batches and stores the
// returned categories as they are. It returns the number of transactions
// updated.
//
// A failed batch is logged and skipped, the remaining batches still run.
func (s *Step) Process(ctx context.Context, householdID uuid.UUID, transactions []models.Transaction) (int, error) {
	if s.classifier == nil || len(transactions) == 0 {
		return 0, nil
	}

	db := s.db.WithContext(ctx)

	var categories []models.Category
	if err := db.Where(models.Category{HouseholdID: householdID}).Order("name").Find(&categories).Error; err != nil {
		return 0, fmt.Errorf("loading categories: %w", err)
	}
	if len(categories) == 0 {
		log.Debug().Str("household", householdID.String()).Msg("no categories, skipping classification")
		return 0, nil
	}

	catalog := make([]Category, 0, len(categories))
	for _, c := range categories {
		catalog = append(catalog, Category{ID: c.ID, Name: c.Name, Income: c.Income})
	}

	var updated int
	for start := 0; start < len(transactions); start += BatchSize {
		end := min(start+BatchSize, len(transactions))

		inputs := make([]Input, 0, end-start)
		for _, t := range transactions[start:end] {
			inputs = append(inputs, Input{ID: t.ID, Description: t.Description, Amount: t.Amount, Type: t.Type})
		}

		assignments, err := s.classifier.Classify(ctx, inputs, catalog)
		if err != nil {
			log.Error().Str("household", householdID.String()).Int("batch", len(inputs)).Err(err).Msg("classification failed")
			continue
		}

		for _, a := range assignments {
			tx := db.Model(&models.Transaction{}).
				Where("id = ? AND household_id = ?", a.ID, householdID).
				Update("category_id", a.CategoryID)
			if tx.Error != nil {
				log.Warn().Str("transaction", a.ID.String()).Err(tx.Error).Msg("could not store category")
				continue
			}
			updated += int(tx.RowsAffected)
		}
	}

	log.Info().Str("household", householdID.String()).Int("transactions", len(transactions)).Int("classified", updated).Msg("classification done")
	return updated, nil
}
