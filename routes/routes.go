package routes

import (
	"guest-messaging/config"
	"guest-messaging/constants"
	guestController "guest-messaging/controllers/guest"
	messageController "guest-messaging/controllers/message"
	serverController "guest-messaging/controllers/server"
	threadController "guest-messaging/controllers/thread"
	webhookController "guest-messaging/controllers/webhook"
	"guest-messaging/logger"
	"guest-messaging/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	middleware.Init(cfg.JwtSecret)

	asyncLogger := logger.NewAsyncLogger(db)
	webhooks := webhookController.NewWebhookController(db, cfg, asyncLogger)
	messages := messageController.NewMessageController(db, cfg, asyncLogger)
	threads := threadController.NewThreadController(db)
	guests := guestController.NewGuestController(db)
	health := serverController.NewServerController(db)

	// Start the async logger processing goroutine
	go asyncLogger.ProcessLog()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"service": "guest-messaging",
			"status":  "ok",
		})
	})

	/*=============================================================================
	| Public Routes
	===============================================================================*/
	api := app.Group("/api")
	api.Get("/health", health.Health)
	// Provider callbacks authenticate out of band, not with staff tokens.
	api.Post("/webhooks/sms", webhooks.InboundSMS)

	/*=============================================================================
	| Messaging Routes
	===============================================================================*/
	messageGroup := api.Group("/messages")

	messageGroup.Post("/send", middleware.RequireAnyPermission(
		constants.InboxSendPermissions...,
	), messages.Send)

	/*=============================================================================
	| Thread Routes
	===============================================================================*/
	threadGroup := api.Group("/threads").Use(middleware.RequireAnyPermission(
		constants.InboxReadPermissions...,
	))

	threadGroup.Get("/", threads.List)
	threadGroup.Get("/messages", threads.Messages)
	threadGroup.Post("/mark-read", threads.MarkRead)

	/*=============================================================================
	| Guest Routes
	===============================================================================*/
	guestGroup := api.Group("/guests")

	guestGroup.Get("/by-user/:id", middleware.RequirePermissions(
		constants.PermSuperAdminFull,
	), guests.GetByUserID)
}
