package database_test

import (
	"context"
	"fmt"
	"log"

	"github.com/wonny/underwriter/pkg/config"
	"github.com/wonny/underwriter/pkg/database"
)

// Example demonstrates migrating and connecting to the quote store
func Example() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.Migrate(cfg.Database.URL, cfg.Database.MigrationsPath); err != nil {
		log.Fatalf("Failed to migrate: %v", err)
	}

	db, err := database.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	status, err := db.HealthCheck(context.Background())
	if err != nil {
		log.Fatalf("Health check failed: %v", err)
	}

	fmt.Printf("Database is healthy: %v\n", status.Healthy)
	fmt.Printf("Max connections: %d\n", status.Stats.MaxConns)
}
