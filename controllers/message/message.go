package message

import (
	"fmt"
	"time"

	"guest-messaging/config"
	httpServices "guest-messaging/httpServices/gateway"
	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	"guest-messaging/repository"
	commService "guest-messaging/services/communication"
	"guest-messaging/services/matching"
	"guest-messaging/types"
	messageTypes "guest-messaging/types/message"
	"guest-messaging/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageController handles staff-initiated outbound messages
type MessageController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Logger   *logger.AsyncLogger
	Gateway  *httpServices.GatewayClient
	Resolver *matching.Resolver
	Store    *commService.Store
}

// NewMessageController creates a new message controller
func NewMessageController(db *gorm.DB, cfg *config.Config, asyncLogger *logger.AsyncLogger) *MessageController {
	return &MessageController{
		DB:      db,
		Cfg:     cfg,
		Logger:  asyncLogger,
		Gateway: httpServices.NewClient(cfg.GatewayBaseURL, cfg.GatewayAPIKey),
		Resolver: matching.NewResolver(
			repository.NewReservationRepository(db),
			repository.NewGuestRepository(db),
			cfg.PhoneSuffixLength,
		),
		Store: commService.NewStore(db),
	}
}

// Send logs an outbound SMS from the service number to a guest. The row is
// resolved against reservations and guest profiles exactly like an inbound
// message, so both directions land on the same thread.
func (mc *MessageController) Send(c *fiber.Ctx) error {
	var req messageTypes.SendMessageRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse send request", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if req.To == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Both to number and message are required",
			Data:    nil,
		})
	}

	if mc.Cfg.ServiceNumber == "" {
		logger.Error("Service number is not configured", nil)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Outbound messaging is not configured",
			Data:    nil,
		})
	}

	mctx := mc.Resolver.Resolve(commModel.ChannelSMS, mc.Cfg.ServiceNumber, req.To, commModel.DirectionOutbound)

	externalID := uuid.NewString()
	status := "queued"
	if mc.Gateway.Enabled() {
		dispatch, err := mc.Gateway.SendSMS(httpServices.SendSMSRequest{
			From:    mc.Cfg.ServiceNumber,
			To:      req.To,
			Message: req.Message,
		})
		if err != nil {
			// The row is logged either way; dispatch failures must never
			// lose the message.
			logger.Error("SMS gateway dispatch failed", err)
			status = "failed"
		} else {
			status = dispatch.Status
			if status == "" {
				status = "sent"
			}
			if dispatch.MessageID != "" {
				externalID = dispatch.MessageID
			}
		}
	}

	now := time.Now().UTC()
	row := commModel.Communication{
		Channel:        commModel.ChannelSMS,
		Direction:      commModel.DirectionOutbound,
		FromNumber:     mc.Cfg.ServiceNumber,
		ToNumber:       req.To,
		FromNumberE164: mctx.ServiceNumberE164,
		ToNumberE164:   mctx.GuestNumberE164,
		ReservationID:  mctx.ReservationID,
		GuestID:        mctx.GuestID,
		ThreadKey:      mctx.ThreadKey,
		Message:        req.Message,
		ExternalID:     &externalID,
		SentAt:         now,
		ReadAt:         &now, // our own messages never count as unread
		ResponseData: commModel.ResponseData{
			Provider: "sms-gateway",
			Status:   status,
			Context:  &mctx,
		},
	}

	if err := mc.Store.Create(&row); err != nil {
		logger.Error("Failed to store outbound communication", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to store message",
			Data:    nil,
		})
	}

	mc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	logger.Success(fmt.Sprintf("Logged outbound SMS %d on thread %s", row.ID, row.ThreadKey))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Message queued",
		Data:    row,
	})
}
