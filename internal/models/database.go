package models

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	go_sqlite "github.com/glebarez/go-sqlite"
	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Connect opens the SQLite database, migrates it and configures the
// connection pool.
func Connect(dsn string) error {
	config := &gorm.Config{
		Logger: &logger{
			Logger: log.Logger,
		},
		NowFunc: func() time.Time {
			return time.Now().In(time.UTC)
		},
	}

	db, err := gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	err = migrate(db)
	if err != nil {
		return err
	}

	// Close the connection
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}
	sqlDB.Close()

	// Now, reconnect with foreign keys enabled
	dsn = fmt.Sprintf("%s?_pragma=foreign_keys(1)", dsn)
	db, err = gorm.Open(sqlite.Open(dsn), config)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err = db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	// Get new connections after one hour
	sqlDB.SetConnMaxLifetime(time.Hour)

	// A single connection serializes writers and prevents SQLITE_BUSY
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetMaxOpenConns(1)

	err = registerCallbacks(db)
	if err != nil {
		return err
	}

	// Set the exported variable
	DB = db

	return nil
}

func registerCallbacks(db *gorm.DB) error {
	err := db.Callback().Query().After("*").Register("hearth:after_query", queryCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Query().After("*").Register("hearth:after_query_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("hearth:after_create", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Create().After("*").Register("hearth:after_create_general", generalCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("hearth:after_update", createUpdateCallback)
	if err != nil {
		return err
	}

	err = db.Callback().Update().After("*").Register("hearth:after_update_general", generalCallback)
	if err != nil {
		return err
	}

	return db.Callback().Delete().After("*").Register("hearth:after_delete_general", generalCallback)
}

var plural = regexp.MustCompile("ies$")

// queryCallback replaces the generic "no record" error with a more user
// friendly one
func queryCallback(db *gorm.DB) {
	if errors.Is(db.Error, gorm.ErrRecordNotFound) {
		// Use the table name as information about the type of resource
		// and replace "_" with "[space]"
		name := strings.ReplaceAll(db.Statement.Table, "_", " ")

		// Replace pluralized "ies" with "y"
		name = plural.ReplaceAllString(name, "y")

		// Remove plural "s"
		name = strings.TrimRight(name, "s")

		db.Error = fmt.Errorf("%w %s matching your query", ErrResourceNotFound, name)
	}
}

// createUpdateCallback inspects errors returned by the database for create
// and update calls and replaces them with user friendly ones
func createUpdateCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	message := db.Error.Error()
	switch {
	case strings.Contains(message, "UNIQUE constraint failed: accounts.household_id, accounts.name"):
		db.Error = ErrAccountNameNotUnique
	case strings.Contains(message, "UNIQUE constraint failed: categories.household_id, categories.name"):
		db.Error = ErrCategoryNameNotUnique
	case strings.Contains(message, "UNIQUE constraint failed: transactions.account_id, transactions.external_id"):
		db.Error = ErrTransactionNotUnique
	case strings.Contains(message, "UNIQUE constraint failed: recurring_patterns.household_id, recurring_patterns.description"):
		db.Error = ErrRecurringPatternNotUnique
	}
}

// generalCallback handles unspecified errors.
//
// For these errors, we cannot provide the user with a helpful message.
// Instead, the error is logged and we return a general message to users.
func generalCallback(db *gorm.DB) {
	if db.Error == nil {
		return
	}

	// "sql: database is closed" is hard-coded in the sql module
	if db.Error.Error() == "sql: database is closed" || reflect.TypeOf(db.Error) == reflect.TypeOf(&go_sqlite.Error{}) {
		log.Error().Msgf("%T: %v", db.Error, db.Error.Error())
		db.Error = ErrGeneral

		return
	}
}

// migrate migrates all models to the schema defined in the code.
func migrate(db *gorm.DB) (err error) {
	err = db.AutoMigrate(Household{}, Account{}, Category{}, Transaction{}, SyncOutcome{}, RecurringPattern{})
	if err != nil {
		return fmt.Errorf("error during DB migration: %w", err)
	}

	return nil
}
