package persistence

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medishare/backend/internal/infrastructure/config"
)

func TestNewDatabase_SQLite(t *testing.T) {
	cfg := &config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "medishare.db"),
		AutoMigrate: true,
	}
	db, err := NewDatabase(cfg, zap.NewNop(), "silent")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite", db.Driver())
	assert.NoError(t, db.Ping())
	for _, table := range []string{"clinics", "medicines", "inventory_items", "surplus_postings", "medicine_requests", "transfers"} {
		assert.True(t, db.DB.Migrator().HasTable(table), table)
	}

	stats, err := db.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.MaxOpenConnections)
}

func TestNewDatabase_UnsupportedDriver(t *testing.T) {
	_, err := NewDatabase(&config.DatabaseConfig{Driver: "oracle"}, zap.NewNop(), "silent")
	assert.ErrorContains(t, err, "unsupported database driver")
}
