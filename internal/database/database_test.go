package database

import (
	"path/filepath"
	"testing"

	"checkmate/internal/config"
	"checkmate/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectRejectsUnknownDriver(t *testing.T) {
	_, err := Connect(config.DatabaseConfig{Driver: "oracle"}, "", zerolog.Nop())
	assert.Error(t, err)
}

func TestConnectSQLiteAndMigrate(t *testing.T) {
	cfg := config.DatabaseConfig{
		Driver:     "sqlite",
		SQLitePath: filepath.Join(t.TempDir(), "checkmate.db"),
	}

	db, err := Connect(cfg, "", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	require.NoError(t, AutoMigrate(db, zerolog.Nop()))

	for _, model := range models.All() {
		assert.True(t, db.Migrator().HasTable(model), "missing table for %T", model)
	}
	assert.True(t, db.Migrator().HasIndex(&models.Ballot{}, "idx_ballots_submission_reviewer"))
}
