package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pageza/cooking-assistant/backend/config"
	"github.com/pageza/cooking-assistant/backend/internal/models"
)

func TestOpenSQLite(t *testing.T) {
	cfg := &config.Config{
		StorageDriver: config.DriverSQLite,
		DataDir:       filepath.Join(t.TempDir(), "nested"),
	}

	db, err := Open(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })

	require.NoError(t, RunMigrations(db))
	assert.True(t, db.Migrator().HasTable(&models.User{}))
	assert.True(t, db.Migrator().HasTable(&models.RecipeEntry{}))

	user := models.User{
		Email:        "test@example.com",
		Name:         "Test User",
		PasswordHash: "hashedpassword",
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)

	var loaded models.User
	require.NoError(t, db.First(&loaded, "email = ?", user.Email).Error)
	assert.Equal(t, "Test User", loaded.Name)
}

func TestOpenRejectsFileDriver(t *testing.T) {
	_, err := Open(&config.Config{StorageDriver: config.DriverFile}, zaptest.NewLogger(t))
	assert.Error(t, err)
}
