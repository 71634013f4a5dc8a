// Package scheduler runs the periodic sync and detection jobs.
package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
	"github.com/hearth-ledger/backend/internal/runner"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Syncer syncs all active accounts.
type Syncer interface {
	RunAll(ctx context.Context, opts runner.Options) ([]runner.Result, error)
}

// Processor handles the transactions inserted by a sync.
type Processor interface {
	Process(ctx context.Context, householdID uuid.UUID, transactions []models.Transaction) (int, error)
}

// Detector refreshes the recurring patterns of a household.
type Detector interface {
	Detect(ctx context.Context, householdID uuid.UUID) (recurring.Result, error)
}

// Config configures the schedules.
type Config struct {
	SyncSchedule   string
	DetectSchedule string
}

// Scheduler owns the cron instance.
type Scheduler struct {
	cron      *cron.Cron
	db        *gorm.DB
	syncer    Syncer
	processor Processor
	detector  Detector
}

// New registers the jobs. Nothing runs until Start is called.
//
// A job that is still running when it is due again is skipped, so syncs of
// the same account never overlap.
func New(db *gorm.DB, cfg Config, syncer Syncer, processor Processor, detector Detector) (*Scheduler, error) {
	logger := cronLogger{}
	s := &Scheduler{
		cron:      cron.New(cron.WithLogger(logger), cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger))),
		db:        db,
		syncer:    syncer,
		processor: processor,
		detector:  detector,
	}

	if _, err := s.cron.AddFunc(cfg.SyncSchedule, func() { s.SyncAll(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid sync schedule %q: %w", cfg.SyncSchedule, err)
	}

	if _, err := s.cron.AddFunc(cfg.DetectSchedule, func() { s.DetectAll(context.Background()) }); err != nil {
		return nil, fmt.Errorf("invalid detection schedule %q: %w", cfg.DetectSchedule, err)
	}

	return s, nil
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info().Int("jobs", len(s.cron.Entries())).Msg("scheduler started")
}

// Stop stops scheduling. The returned context is done when running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// SyncAll syncs every active account and hands newly inserted transactions
// to the processor. It returns the number of successful syncs.
func (s *Scheduler) SyncAll(ctx context.Context) int {
	results, err := s.syncer.RunAll(ctx, runner.Options{})
	if err != nil {
		log.Error().Err(err).Int("synced", len(results)).Msg("scheduled sync aborted")
	}

	var succeeded int
	for _, result := range results {
		if result.Status != runner.StatusSuccess {
			continue
		}
		succeeded++

		if s.processor == nil || len(result.NewlyInserted) == 0 {
			continue
		}

		if _, err := s.processor.Process(ctx, result.HouseholdID, result.NewlyInserted); err != nil {
			log.Error().Str("account", result.AccountID.String()).Err(err).Msg("post-processing failed")
		}
	}

	log.Info().Int("accounts", len(results)).Int("succeeded", succeeded).Msg("scheduled sync done")
	return succeeded
}

// DetectAll runs detection for every household, one after the other.
func (s *Scheduler) DetectAll(ctx context.Context) recurring.Result {
	var households []models.Household
	if err := s.db.WithContext(ctx).Order("created_at").Find(&households).Error; err != nil {
		log.Error().Err(err).Msg("listing households failed")
		return recurring.Result{}
	}

	var total recurring.Result
	for _, h := range households {
		result, err := s.detector.Detect(ctx, h.ID)
		if err != nil {
			log.Error().Str("household", h.ID.String()).Err(err).Msg("detection failed")
			continue
		}

		total.Detected += result.Detected
		total.Updated += result.Updated
	}

	return total
}

// cronLogger logs cron events with zerolog.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...any) {
	log.Debug().Fields(keysAndValues).Msg("cron: " + msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...any) {
	log.Error().Err(err).Fields(keysAndValues).Msg("cron: " + msg)
}
