package test

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/hearth-ledger/backend/internal/models"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// TmpFile returns the path to a unique file to be used in tests
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// Database connects models.DB to a fresh database and closes it when the
// test ends.
func Database(t *testing.T) *gorm.DB {
	require.NoError(t, models.Connect(TmpFile(t)), "Database connection failed")

	db := models.DB
	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// Household creates a household with the given name.
func Household(t *testing.T, db *gorm.DB, name string) models.Household {
	household := models.Household{Name: name}
	require.NoError(t, db.Create(&household).Error, "Household could not be saved")
	return household
}

// Account creates an account. Name, Institution and Type default to
// unique or valid values.
func Account(t *testing.T, db *gorm.DB, account models.Account) models.Account {
	if account.Name == "" {
		account.Name = uuid.NewString()
	}
	if account.Institution == "" {
		account.Institution = "fake"
	}

	require.NoError(t, db.Create(&account).Error, "Account could not be saved: %#v", account)
	return account
}
