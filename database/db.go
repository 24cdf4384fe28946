package database

import (
	"fmt"

	"guest-messaging/config"
	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	guestModel "guest-messaging/models/guest"
	logModel "guest-messaging/models/log"
	reservationModel "guest-messaging/models/reservation"
	settingModel "guest-messaging/models/setting"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

// InitDB connects to PostgreSQL, migrates the schema and creates the
// supporting indexes.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DBHost, cfg.DBPort, cfg.DBUsername, cfg.DBPassword, cfg.DBDatabase, cfg.DBSSLMode)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(DB); err != nil {
		logger.Error("Failed to migrate schema", err)
		return nil, err
	}
	logger.Success("Schema migration completed successfully")

	if err := createIndexes(DB); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return DB, nil
}

// autoMigrate runs auto migration for all models in dependency order.
func autoMigrate(db *gorm.DB) error {
	// Stage 1: standalone entities
	stage1Models := []interface{}{
		&guestModel.Guest{},
		&reservationModel.Reservation{},
		&settingModel.Setting{},
	}

	for _, model := range stage1Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Stage 2: the communication log referencing stage 1
	stage2Models := []interface{}{
		&commModel.Communication{},
	}

	for _, model := range stage2Models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	// Remaining models
	remainingModels := []interface{}{
		&logModel.Log{},
	}

	for _, model := range remainingModels {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	// Communication indexes: thread listing, migration cursor, idempotency
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_communications_thread_key ON communications(thread_key)").Error; err != nil {
		return fmt.Errorf("failed to create communication thread_key index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_communications_sent_at ON communications(sent_at)").Error; err != nil {
		return fmt.Errorf("failed to create communication sent_at index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_communications_channel_sent_at ON communications(channel, sent_at)").Error; err != nil {
		return fmt.Errorf("failed to create communication channel index: %w", err)
	}
	if err := db.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_communications_channel_external_id ON communications(channel, external_id) WHERE external_id IS NOT NULL").Error; err != nil {
		return fmt.Errorf("failed to create communication external id index: %w", err)
	}

	// Phone lookup indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_reservations_guest_phone ON reservations(guest_phone)").Error; err != nil {
		return fmt.Errorf("failed to create reservation guest_phone index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_guests_phone ON guests(phone)").Error; err != nil {
		return fmt.Errorf("failed to create guest phone index: %w", err)
	}

	// Settings lookup
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_settings_key ON settings(setting_key)").Error; err != nil {
		return fmt.Errorf("failed to create setting key index: %w", err)
	}

	return nil
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}
