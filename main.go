package main

import (
	"context"
	"fmt"
	"time"

	"guest-messaging/config"
	"guest-messaging/database"
	"guest-messaging/logger"
	"guest-messaging/repository"
	"guest-messaging/routes"
	"guest-messaging/services/communication"
	"guest-messaging/services/matching"
	"guest-messaging/services/migration"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	app := fiber.New(fiber.Config{
		ReadBufferSize:  32768, // 32KB read buffer
		WriteBufferSize: 32768, // 32KB write buffer
		ReadTimeout:     time.Second * 30,
		WriteTimeout:    time.Second * 30,
		BodyLimit:       50 * 1024 * 1024, // 50MB body limit
	})

	cfg, err := config.NewLoadedConfig()
	if err != nil {
		logger.Fatal("Failed to load configuration: " + err.Error())
		return
	}

	logger.Success("Server is running on ip: " + cfg.AppHost + " port: " + cfg.AppPort +
		"\n\t\t\t\t\t\t******************************************************************************************\n")

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return
	}

	// Re-resolve historical rows recorded under older matching rules before
	// taking traffic, so the inbox never mixes resolution generations.
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
	if err := runner.RunIfNeeded(context.Background()); err != nil {
		logger.Error("Communication backfill failed", err)
		return
	}
	stats := runner.Stats()
	logger.Info(fmt.Sprintf("Communication backfill: %d processed, %d updated, %d unchanged, %d failed",
		stats.Processed, stats.Updated, stats.Unchanged, stats.Failed))

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.FrontendURL,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	routes.SetupRoutes(app, db, cfg)

	app.Listen(cfg.AppHost + ":" + cfg.AppPort)
}
