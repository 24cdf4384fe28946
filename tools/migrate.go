package main

import (
	"context"
	"fmt"
	"os"

	"guest-messaging/config"
	"guest-messaging/database"
	"guest-messaging/database/seeders"
	"guest-messaging/repository"
	"guest-messaging/services/communication"
	"guest-messaging/services/matching"
	"guest-messaging/services/migration"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage:")
		fmt.Println("  go run tools/migrate.go migrate - Run schema migrations")
		fmt.Println("  go run tools/migrate.go sweep   - Force a full re-resolution sweep")
		fmt.Println("  go run tools/migrate.go seed    - Insert demo guests and reservations")
		return
	}

	cfg, err := config.NewLoadedConfig()
	if err != nil {
		fmt.Printf("❌ Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to connect to the database: %v\n", err)
		os.Exit(1)
	}

	command := os.Args[1]

	switch command {
	case "migrate":
		// InitDB already ran the schema migration and index creation.
		fmt.Println("✅ Migration completed successfully!")

	case "sweep":
		fmt.Println("🚀 Re-resolving all communications...")
		runner := migration.NewRunner(
			communication.NewStore(db),
			matching.NewResolver(
				repository.NewReservationRepository(db),
				repository.NewGuestRepository(db),
				cfg.PhoneSuffixLength,
			),
			repository.NewSettingRepository(db),
			cfg.MigrationBatchSize,
		)
		stats, err := runner.Sweep(context.Background())
		if err != nil {
			fmt.Printf("❌ Sweep failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("✅ Sweep completed: %d processed, %d updated, %d unchanged, %d failed\n",
			stats.Processed, stats.Updated, stats.Unchanged, stats.Failed)

	case "seed":
		seeders.SeedDemoData(db)

	default:
		fmt.Printf("Unknown command: %s\n", command)
		fmt.Println("Available commands: migrate, sweep, seed")
	}
}
