// Package runner syncs accounts: it decrypts credentials, scrapes the
// institution, transforms the records and ingests them.
package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/ingest"
	"github.com/hearth-ledger/backend/internal/metrics"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/transform"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	// DefaultWindow is fetched when there is no previous sync or a full sync
	// is forced.
	DefaultWindow = 30 * 24 * time.Hour

	// Overlap is subtracted from the last sync time to pick up records that
	// settled late.
	Overlap = 24 * time.Hour

	DefaultTimeout = 5 * time.Minute
)

// ErrAccountNotFound is returned for unknown account IDs.
var ErrAccountNotFound = errors.New("account not found")

// Decrypter opens sealed credentials into their JSON plaintext.
type Decrypter interface {
	Open(sealed []byte) ([]byte, error)
}

// Status is the typed result of one account sync.
type Status string

const (
	StatusSuccess        Status = "success"
	StatusNotFound       Status = "not_found"
	StatusNoCredentials  Status = "no_credentials"
	StatusUnsupported    Status = "unsupported_institution"
	StatusReauthRequired Status = "reauth_required"
	StatusAuthFailed     Status = "auth_failed"
	StatusFetchFailed    Status = "fetch_failed"
	StatusError          Status = "error"
)

// Result is returned for every account sync, successful or not.
type Result struct {
	AccountID     uuid.UUID
	HouseholdID   uuid.UUID
	Status        Status
	Added         int
	Duplicates    int
	NewlyInserted []models.Transaction
	Err           error
	Message       string // Safe to show to users
}

// Options modify a single sync.
type Options struct {
	// Full ignores the last sync time and fetches the default window
	Full bool
}

// Config configures a Runner.
type Config struct {
	Timeout time.Duration
	Now     func() time.Time
}

// Runner syncs one account per call.
type Runner struct {
	db        *gorm.DB
	registry  scraper.Registry
	decrypter Decrypter
	pipeline  *ingest.Pipeline
	timeout   time.Duration
	now       func() time.Time
}

// New returns a Runner.
func New(db *gorm.DB, registry scraper.Registry, decrypter Decrypter, cfg Config) *Runner {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Runner{
		db:        db,
		registry:  registry,
		decrypter: decrypter,
		pipeline:  ingest.New(db, cfg.Now),
		timeout:   cfg.Timeout,
		now:       cfg.Now,
	}
}

// Run syncs the account. It never panics and never returns an error outside
// of the Result. Every run that finds the account records a SyncOutcome.
func (r *Runner) Run(ctx context.Context, accountID uuid.UUID, opts Options) (result Result) {
	result = Result{AccountID: accountID}

	var account models.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", accountID).Error
	if err != nil {
		if errors.Is(err, models.ErrResourceNotFound) || errors.Is(err, gorm.ErrRecordNotFound) {
			return r.fail(result, StatusNotFound, fmt.Errorf("%w: %s", ErrAccountNotFound, accountID))
		}
		return r.fail(result, StatusError, err)
	}
	result.HouseholdID = account.HouseholdID

	started := r.now()
	run := ingest.Run{AccountID: account.ID, HouseholdID: account.HouseholdID, StartedAt: started}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	defer func() {
		if p := recover(); p != nil {
			log.Error().Str("account", accountID.String()).Interface("panic", p).Msg("sync panicked")
			result = r.failRun(ctx, result, run, StatusError, fmt.Errorf("sync panicked: %v", p))
		}

		metrics.ObserveSync(account.Institution, string(result.Status), result.Added, result.Duplicates, r.now().Sub(started))
	}()

	return r.sync(ctx, result, run, account, opts)
}

func (r *Runner) sync(ctx context.Context, result Result, run ingest.Run, account models.Account, opts Options) Result {
	client, err := r.registry.Lookup(scraper.Institution(account.Institution))
	if err != nil {
		return r.failRun(ctx, result, run, StatusUnsupported, err)
	}

	if len(account.Credentials) == 0 {
		return r.failRun(ctx, result, run, StatusNoCredentials, scraper.ErrMissingCredentials)
	}

	creds, err := r.decrypt(account.Credentials)
	if err != nil {
		return r.failRun(ctx, result, run, StatusNoCredentials, err)
	}

	startDate := r.startDate(account, opts)
	log.Info().Str("account", account.ID.String()).Str("institution", account.Institution).Time("start", startDate).Bool("full", opts.Full).Msg("syncing account")

	scraped := client.Scrape(ctx, creds, startDate)
	if !scraped.Success {
		err := scraped.Err
		if err == nil {
			err = fmt.Errorf("%w: scraper reported failure without an error", scraper.ErrAPI)
		}
		if ctx.Err() != nil {
			err = fmt.Errorf("%w: %w", err, ctx.Err())
		}
		return r.failRun(ctx, result, run, status(err), err)
	}

	transactions := transform.Transform(scraped.Transactions, account.Type)

	// The ingest must finish even if the scrape used up the time budget
	ingested, err := r.pipeline.Ingest(context.WithoutCancel(ctx), run, transactions)
	if err != nil {
		log.Error().Str("account", account.ID.String()).Err(err).Msg("ingest failed")
		return r.failRun(ctx, result, run, StatusError, err)
	}

	result.Status = StatusSuccess
	result.Added = ingested.Added
	result.Duplicates = ingested.Duplicates
	result.NewlyInserted = ingested.NewlyInserted
	return result
}

// startDate returns the beginning of the fetch window.
func (r *Runner) startDate(account models.Account, opts Options) time.Time {
	if account.LastSyncedAt != nil && !opts.Full {
		return account.LastSyncedAt.Add(-Overlap)
	}
	return r.now().Add(-DefaultWindow)
}

func (r *Runner) decrypt(sealed []byte) (scraper.Credentials, error) {
	if r.decrypter == nil {
		return nil, fmt.Errorf("%w: no decrypter configured", scraper.ErrMissingCredentials)
	}

	plain, err := r.decrypter.Open(sealed)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting: %w", scraper.ErrMissingCredentials, err)
	}

	var creds scraper.Credentials
	if err := json.Unmarshal(plain, &creds); err != nil {
		return nil, fmt.Errorf("%w: credentials are not a JSON object", scraper.ErrMissingCredentials)
	}

	return creds, nil
}

// failRun records an error outcome for the run and returns the failed Result.
// Recording is best effort and outlives the run's deadline.
func (r *Runner) failRun(ctx context.Context, result Result, run ingest.Run, s Status, err error) Result {
	result = r.fail(result, s, err)

	recordErr := r.pipeline.RecordFailure(context.WithoutCancel(ctx), run, result.Message, s == StatusReauthRequired)
	if recordErr != nil {
		log.Error().Str("account", run.AccountID.String()).Err(recordErr).Msg("could not record failed sync")
	}

	return result
}

func (r *Runner) fail(result Result, s Status, err error) Result {
	result.Status = s
	result.Err = err
	result.Message = scraper.UserMessage(err)
	result.Added = 0
	result.Duplicates = 0
	result.NewlyInserted = nil

	if s == StatusNotFound {
		result.Message = "Sync failed: account not found"
	}

	log.Warn().Str("account", result.AccountID.String()).Str("status", string(s)).Err(err).Msg("sync failed")
	return result
}

// status maps a scrape error to a Status.
func status(err error) Status {
	switch {
	case errors.Is(err, scraper.ErrMissingCredentials):
		return StatusNoCredentials
	case errors.Is(err, scraper.ErrUnsupportedInstitution):
		return StatusUnsupported
	case errors.Is(err, scraper.ErrReauthRequired):
		return StatusReauthRequired
	case scraper.IsAuthError(err):
		return StatusAuthFailed
	default:
		return StatusFetchFailed
	}
}

// RunAll syncs every active account, one after the other.
func (r *Runner) RunAll(ctx context.Context, opts Options) ([]Result, error) {
	var accounts []models.Account
	err := r.db.WithContext(ctx).Where("active = ?", true).Order("created_at").Find(&accounts).Error
	if err != nil {
		return nil, fmt.Errorf("listing active accounts: %w", err)
	}

	results := make([]Result, 0, len(accounts))
	for _, account := range accounts {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}

		results = append(results, r.Run(ctx, account.ID, opts))
	}

	return results, nil
}
