package database

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/underwriter/pkg/config"
)

func integrationConfig(t *testing.T) *config.Config {
	t.Helper()
	// Skip if DATABASE_URL is not set
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func TestNew(t *testing.T) {
	cfg := integrationConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	assert.NoError(t, db.Ping(ctx))
}

func TestHealthCheck(t *testing.T) {
	cfg := integrationConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer db.Close()

	status, err := db.HealthCheck(context.Background())
	require.NoError(t, err)

	assert.True(t, status.Healthy)
	assert.Positive(t, status.Stats.MaxConns)
}

func TestMigrateIsIdempotent(t *testing.T) {
	cfg := integrationConfig(t)
	source := "file://../../migrations"

	require.NoError(t, Migrate(cfg.Database.URL, source))
	require.NoError(t, Migrate(cfg.Database.URL, source))

	version, dirty, err := MigrationVersion(cfg.Database.URL, source)
	require.NoError(t, err)
	assert.False(t, dirty)
	assert.Positive(t, version)
}

func TestNewWithInvalidURL(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			URL:             "invalid://url",
			MaxConns:        25,
			MinConns:        5,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
		},
	}

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	cfg := integrationConfig(t)

	db, err := New(context.Background(), cfg)
	require.NoError(t, err)

	// Double close should not panic
	db.Close()
	db.Close()
}
