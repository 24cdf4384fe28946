package server

import (
	"guest-messaging/repository"
	"guest-messaging/services/migration"
	"guest-messaging/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ServerController reports service health and the communications data version.
type ServerController struct {
	DB       *gorm.DB
	Settings *repository.SettingRepository
}

func NewServerController(db *gorm.DB) *ServerController {
	return &ServerController{
		DB:       db,
		Settings: repository.NewSettingRepository(db),
	}
}

// Health pings the database and reports the stored data version, so deploy
// tooling can tell a booting instance from one still running its backfill.
func (sc *ServerController) Health(c *fiber.Ctx) error {
	sqlDB, err := sc.DB.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(types.ApiResponse{
			Status:  fiber.StatusServiceUnavailable,
			Message: "Database unreachable",
			Data:    nil,
		})
	}

	dataVersion, _ := sc.Settings.Get(migration.VersionKey)

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Service healthy",
		Data: fiber.Map{
			"data_version":        dataVersion,
			"target_data_version": migration.TargetDataVersion,
		},
	})
}
