package webhook

import (
	"errors"
	"fmt"
	"time"

	"guest-messaging/config"
	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	"guest-messaging/repository"
	commService "guest-messaging/services/communication"
	"guest-messaging/services/matching"
	"guest-messaging/types"
	webhookTypes "guest-messaging/types/webhook"
	"guest-messaging/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// WebhookController handles channel-provider webhook deliveries
type WebhookController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Logger   *logger.AsyncLogger
	Resolver *matching.Resolver
	Store    *commService.Store
}

// NewWebhookController creates a new webhook controller
func NewWebhookController(db *gorm.DB, cfg *config.Config, asyncLogger *logger.AsyncLogger) *WebhookController {
	return &WebhookController{
		DB:     db,
		Cfg:    cfg,
		Logger: asyncLogger,
		Resolver: matching.NewResolver(
			repository.NewReservationRepository(db),
			repository.NewGuestRepository(db),
			cfg.PhoneSuffixLength,
		),
		Store: commService.NewStore(db),
	}
}

// InboundSMS logs one received SMS: normalize, resolve identity, persist.
// Ambiguous and unmatched resolutions are logged like any other message; a
// provider retry with a known message id returns the already-stored row.
func (wc *WebhookController) InboundSMS(c *fiber.Ctx) error {
	var req webhookTypes.InboundSMSRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse webhook body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}

	if req.From == "" || req.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Both from and to numbers are required",
			Data:    nil,
		})
	}

	sentAt := time.Now().UTC()
	if req.SentAt != "" {
		parsed, err := utils.ParseTimestamp(req.SentAt)
		if err != nil {
			logger.Warning(fmt.Sprintf("Unparseable sent_at %q, falling back to receipt time", req.SentAt))
		} else {
			sentAt = parsed
		}
	}

	mctx := wc.Resolver.Resolve(commModel.ChannelSMS, req.From, req.To, commModel.DirectionInbound)

	row := commModel.Communication{
		Channel:        commModel.ChannelSMS,
		Direction:      commModel.DirectionInbound,
		FromNumber:     req.From,
		ToNumber:       req.To,
		FromNumberE164: mctx.GuestNumberE164,
		ToNumberE164:   mctx.ServiceNumberE164,
		ReservationID:  mctx.ReservationID,
		GuestID:        mctx.GuestID,
		ThreadKey:      mctx.ThreadKey,
		Message:        req.Message,
		SentAt:         sentAt,
		ResponseData: commModel.ResponseData{
			Provider: "sms-webhook",
			Status:   "received",
			Context:  &mctx,
		},
	}
	if req.MessageID != "" {
		row.ExternalID = &req.MessageID
	}

	err := wc.Store.Create(&row)
	if errors.Is(err, commService.ErrDuplicateExternalID) {
		existing, lookupErr := wc.Store.FindByExternalID(commModel.ChannelSMS, req.MessageID)
		if lookupErr != nil || existing == nil {
			logger.Error("Failed to load already-logged communication", lookupErr)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Database error",
				Data:    nil,
			})
		}
		logger.Info(fmt.Sprintf("SMS %s already logged as communication %d", req.MessageID, existing.ID))
		return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "Message already logged",
			Data:    existing,
		})
	}
	if err != nil {
		// Never drop the message: retry as a bare unresolved row so the raw
		// payload survives and the migration sweep can resolve it later.
		logger.Error("Failed to store resolved communication, retrying unresolved", err)
		row = commModel.Communication{
			Channel:    commModel.ChannelSMS,
			Direction:  commModel.DirectionInbound,
			FromNumber: req.From,
			ToNumber:   req.To,
			Message:    req.Message,
			SentAt:     sentAt,
		}
		if retryErr := wc.Store.Create(&row); retryErr != nil {
			logger.Error("Failed to store communication", retryErr)
			return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to store message",
				Data:    nil,
			})
		}
	}

	wc.Logger.Log(utils.CreateSanitizedLogEntry(c))

	logger.Success(fmt.Sprintf("Logged inbound SMS %d on thread %s (%s)", row.ID, row.ThreadKey, mctx.Status))

	return c.Status(fiber.StatusCreated).JSON(types.ApiResponse{
		Status:  fiber.StatusCreated,
		Message: "Message logged",
		Data:    row,
	})
}
