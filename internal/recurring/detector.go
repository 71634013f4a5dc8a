// Package recurring infers periodic obligations like salaries, rent and
// subscriptions from a household's transaction history.
package recurring

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/metrics"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
	"golang.org/x/text/cases"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Lookback is how far back the history is scanned.
const Lookback = 12

// Result counts the patterns written by one detection run.
type Result struct {
	Detected int `json:"detected"` // New patterns
	Updated  int `json:"updated"`  // Refreshed existing patterns
}

// Config configures a Detector.
type Config struct {
	Now func() time.Time
}

// Detector scans transactions and upserts recurring patterns.
type Detector struct {
	db    *gorm.DB
	now   func() time.Time
	locks sync.Map // household ID to *sync.Mutex
}

// New returns a Detector.
func New(db *gorm.DB, cfg Config) *Detector {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Detector{db: db, now: cfg.Now}
}

// Key is the grouping key of a description.
func Key(description string) string {
	return cases.Fold().String(strings.TrimSpace(description))
}

// Candidate is a pattern computed from one description group.
type Candidate struct {
	Description    string
	ExpectedAmount decimal.Decimal
	Type           models.TransactionType
	Bucket         Bucket
	Occurrences    int
	LastObserved   time.Time
	NextExpected   time.Time
	Score          Score
	CategoryID     *uuid.UUID
	AccountID      *uuid.UUID
}

// Detect refreshes the patterns of the household. Calls for the same household
// are serialized.
func (d *Detector) Detect(ctx context.Context, householdID uuid.UUID) (Result, error) {
	lock, _ := d.locks.LoadOrStore(householdID, &sync.Mutex{})
	lock.(*sync.Mutex).Lock()
	defer lock.(*sync.Mutex).Unlock()

	db := d.db.WithContext(ctx)
	now := d.now().In(time.UTC)

	var transactions []models.Transaction
	err := db.
		Where("household_id = ? AND type != ? AND date >= ?", householdID, models.TransactionTypeTransfer, now.AddDate(0, -Lookback, 0)).
		Order("date").
		Find(&transactions).Error
	if err != nil {
		return Result{}, fmt.Errorf("loading transactions: %w", err)
	}

	var categories []models.Category
	if err := db.Where(models.Category{HouseholdID: householdID}).Find(&categories).Error; err != nil {
		return Result{}, fmt.Errorf("loading categories: %w", err)
	}
	income := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		income[c.ID] = c.Income
	}

	groups := make(map[string][]models.Transaction)
	for _, t := range transactions {
		key := Key(t.Description)
		if key == "" {
			continue
		}
		groups[key] = append(groups[key], t)
	}

	keys := maps.Keys(groups)
	slices.Sort(keys)

	var result Result
	for _, key := range keys {
		candidate, ok := Analyze(key, groups[key], income, now)
		if !ok {
			continue
		}

		fresh, err := d.upsert(db, householdID, candidate)
		if err != nil {
			return result, err
		}

		if fresh {
			result.Detected++
		} else {
			result.Updated++
		}
	}

	metrics.ObserveDetection(result.Detected, result.Updated)
	log.Info().Str("household", householdID.String()).Int("groups", len(groups)).Int("detected", result.Detected).Int("updated", result.Updated).Msg("recurring patterns detected")

	return result, nil
}

// Analyze computes the pattern for one description group. It returns false if
// the group does not recur often or regularly enough.
//
// income maps category IDs to their direction.
func Analyze(description string, group []models.Transaction, income map[uuid.UUID]bool, now time.Time) (Candidate, bool) {
	if len(group) < 2 {
		return Candidate{}, false
	}

	sorted := slices.Clone(group)
	slices.SortStableFunc(sorted, func(a, b models.Transaction) int {
		return a.Date.Compare(b.Date)
	})

	dates := make([]time.Time, 0, len(sorted))
	amounts := make([]decimal.Decimal, 0, len(sorted))
	for _, t := range sorted {
		dates = append(dates, t.Date)
		amounts = append(amounts, t.Amount)
	}

	gaps := Gaps(dates)
	bucket, ok := Classify(Median(gaps))
	if !ok || len(sorted) < bucket.MinCount {
		return Candidate{}, false
	}

	last := dates[len(dates)-1]
	score := Score{
		Consistency: Consistency(gaps, bucket.Days),
		Count:       CountScore(len(sorted)),
		Recency:     Recency(last, now, bucket.Days),
	}
	if score.Confidence() < MinConfidence {
		return Candidate{}, false
	}

	dominant := dominantType(sorted)

	var categories, accounts []uuid.UUID
	for _, t := range sorted {
		if t.Type != dominant {
			continue
		}
		accounts = append(accounts, t.AccountID)

		if t.CategoryID == nil {
			continue
		}
		isIncome, known := income[*t.CategoryID]
		if known && isIncome == (dominant == models.TransactionTypeIncome) {
			categories = append(categories, *t.CategoryID)
		}
	}

	return Candidate{
		Description:    description,
		ExpectedAmount: MedianAmount(amounts),
		Type:           dominant,
		Bucket:         bucket,
		Occurrences:    len(sorted),
		LastObserved:   last,
		NextExpected:   last.AddDate(0, 0, bucket.Days),
		Score:          score,
		CategoryID:     mode(categories),
		AccountID:      mode(accounts),
	}, true
}

// dominantType is the majority type of the group. A tie counts as expense.
func dominantType(group []models.Transaction) models.TransactionType {
	var incomes int
	for _, t := range group {
		if t.Type == models.TransactionTypeIncome {
			incomes++
		}
	}

	if incomes*2 > len(group) {
		return models.TransactionTypeIncome
	}
	return models.TransactionTypeExpense
}

// mode returns the most frequent ID, nil for an empty list. Ties go to the ID
// that sorts first.
func mode(ids []uuid.UUID) *uuid.UUID {
	if len(ids) == 0 {
		return nil
	}

	counts := make(map[uuid.UUID]int)
	for _, id := range ids {
		counts[id]++
	}

	candidates := maps.Keys(counts)
	slices.SortFunc(candidates, func(a, b uuid.UUID) int {
		if counts[a] != counts[b] {
			return counts[b] - counts[a]
		}
		return strings.Compare(a.String(), b.String())
	})

	best := candidates[0]
	return &best
}

// upsert writes the candidate and reports whether the row is new.
func (d *Detector) upsert(db *gorm.DB, householdID uuid.UUID, c Candidate) (bool, error) {
	pattern := models.RecurringPattern{
		HouseholdID:    householdID,
		Description:    c.Description,
		ExpectedAmount: c.ExpectedAmount,
		Type:           c.Type,
		Frequency:      c.Bucket.Frequency,
		Occurrences:    c.Occurrences,
		LastObserved:   c.LastObserved,
		NextExpected:   c.NextExpected,
		Confidence:     c.Score.Confidence(),
		CategoryID:     c.CategoryID,
		AccountID:      c.AccountID,
	}

	err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "household_id"}, {Name: "description"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"expected_amount", "type", "frequency", "occurrences", "last_observed",
			"next_expected", "confidence", "category_id", "account_id", "updated_at", "deleted_at",
		}),
	}).Create(&pattern).Error
	if err != nil {
		return false, fmt.Errorf("saving pattern %q: %w", c.Description, err)
	}

	var stored models.RecurringPattern
	err = db.Where("household_id = ? AND description = ?", householdID, c.Description).First(&stored).Error
	if err != nil {
		return false, fmt.Errorf("reloading pattern %q: %w", c.Description, err)
	}

	return stored.Fresh(), nil
}

// Patterns returns the household's patterns, most confident first.
func (d *Detector) Patterns(ctx context.Context, householdID uuid.UUID) ([]models.RecurringPattern, error) {
	var patterns []models.RecurringPattern
	err := d.db.WithContext(ctx).
		Where(models.RecurringPattern{HouseholdID: householdID}).
		Order("confidence DESC, description").
		Find(&patterns).Error
	if err != nil {
		return nil, err
	}

	return patterns, nil
}
