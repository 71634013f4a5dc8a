package main

import (
	"context"
	"io"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/hearth-ledger/backend/internal/classify"
	"github.com/hearth-ledger/backend/internal/config"
	"github.com/hearth-ledger/backend/internal/controllers"
	"github.com/hearth-ledger/backend/internal/credentials"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/hearth-ledger/backend/internal/recurring"
	"github.com/hearth-ledger/backend/internal/router"
	"github.com/hearth-ledger/backend/internal/runner"
	"github.com/hearth-ledger/backend/internal/scheduler"
	"github.com/hearth-ledger/backend/internal/scraper"
	"github.com/hearth-ledger/backend/internal/scraper/isracard"
	"github.com/hearth-ledger/backend/internal/scraper/onezero"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// gin uses debug as the default mode, we use release for
	// security reasons
	ginMode, ok := os.LookupEnv("GIN_MODE")
	if !ok {
		gin.SetMode("release")
	} else {
		gin.SetMode(ginMode)
	}

	// Log format can be explicitly set.
	// If it is not set, it defaults to human readable for development
	// and JSON for release
	logFormat, ok := os.LookupEnv("LOG_FORMAT")
	output := io.Writer(os.Stdout)
	if (!ok && gin.IsDebugging()) || (ok && logFormat == "human") {
		output = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if gin.IsDebugging() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(output).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Configuration")
	}

	// Create data directory
	err = os.MkdirAll(cfg.DataDir, os.ModePerm)
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	err = models.Connect(cfg.DSN())
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	box, err := credentials.ParseKey(cfg.CredentialsKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Credentials")
	}

	registry := scraper.Registry{
		isracard.Institution: isracard.Factory(isracard.Config{BaseURL: cfg.IsracardBaseURL}),
		onezero.Institution:  onezero.Factory(onezero.Config{IdentityURL: cfg.OneZeroIdentityURL, GraphQLURL: cfg.OneZeroGraphQLURL}),
	}

	syncer := runner.New(models.DB, registry, box, runner.Config{Timeout: cfg.SyncTimeout})
	detector := recurring.New(models.DB, recurring.Config{})

	// Classification is optional
	var classifier classify.Classifier
	if cfg.GeminiAPIKey != "" {
		gemini, err := classify.NewGemini(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("Classification")
		}
		classifier = gemini
	} else {
		log.Info().Msg("GEMINI_API_KEY is not set, transactions will not be classified")
	}
	processor := classify.NewStep(models.DB, classifier)

	s, err := scheduler.New(models.DB, scheduler.Config{
		SyncSchedule:   cfg.SyncSchedule,
		DetectSchedule: cfg.DetectSchedule,
	}, syncer, processor, detector)
	if err != nil {
		log.Fatal().Err(err).Msg("Scheduler")
	}
	s.Start()
	defer func() {
		<-s.Stop().Done()
	}()

	r, teardown, err := router.Config()
	defer teardown()
	if err != nil {
		log.Fatal().Msg(err.Error())
	}

	router.AttachRoutes(controllers.Controller{
		DB:        models.DB,
		Syncer:    syncer,
		Processor: processor,
		Detector:  detector,
		Enroller:  onezero.New(onezero.Config{IdentityURL: cfg.OneZeroIdentityURL, GraphQLURL: cfg.OneZeroGraphQLURL}),
	}, r.Group("/"))

	log.Info().Interface("institutions", registry.Institutions()).Msg("Scrapers")

	if err := r.Run(); err != nil {
		log.Fatal().Msg(err.Error())
	}
}
