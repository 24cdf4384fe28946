package guest

import (
	"guest-messaging/logger"
	"guest-messaging/repository"
	"guest-messaging/types"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GuestController exposes guest profile lookups
type GuestController struct {
	DB     *gorm.DB
	Guests *repository.GuestRepository
}

// NewGuestController creates a new guest controller
func NewGuestController(db *gorm.DB) *GuestController {
	return &GuestController{
		DB:     db,
		Guests: repository.NewGuestRepository(db),
	}
}

// GetByUserID returns the guest profile linked to a site user account.
func (gc *GuestController) GetByUserID(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("id")
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user id",
			Data:    nil,
		})
	}

	profile, err := gc.Guests.GetByUserID(uint(userID))
	if err != nil {
		logger.Error("Failed to look up guest profile", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Database error",
			Data:    nil,
		})
	}
	if profile == nil {
		return c.Status(fiber.StatusNotFound).JSON(types.ApiResponse{
			Status:  fiber.StatusNotFound,
			Message: "No guest profile linked to this user",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Guest profile retrieved successfully",
		Data:    profile,
	})
}
