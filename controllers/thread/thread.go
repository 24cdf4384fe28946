package thread

import (
	"fmt"

	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	"guest-messaging/repository"
	commService "guest-messaging/services/communication"
	"guest-messaging/services/threads"
	"guest-messaging/types"
	threadTypes "guest-messaging/types/thread"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ThreadController serves the staff inbox views
type ThreadController struct {
	DB         *gorm.DB
	Store      *commService.Store
	Aggregator *threads.Aggregator
}

// NewThreadController creates a new thread controller
func NewThreadController(db *gorm.DB) *ThreadController {
	store := commService.NewStore(db)
	return &ThreadController{
		DB:    db,
		Store: store,
		Aggregator: threads.NewAggregator(
			store,
			repository.NewGuestRepository(db),
			repository.NewReservationRepository(db),
		),
	}
}

// List returns the paginated thread overview, newest activity first.
// Optional query params: channel, search, page, page_size.
func (tc *ThreadController) List(c *fiber.Ctx) error {
	channel := commModel.Channel(c.Query("channel"))
	search := c.Query("search")
	page := c.QueryInt("page", 1)
	pageSize := c.QueryInt("page_size", threads.DefaultPageSize)

	resp, err := tc.Aggregator.ListThreads(channel, search, page, pageSize)
	if err != nil {
		logger.Error("Failed to list threads", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to list threads",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Threads retrieved successfully",
		Data:    resp,
	})
}

// Messages returns every message of one thread in chronological order.
func (tc *ThreadController) Messages(c *fiber.Ctx) error {
	threadKey := c.Query("thread_key")
	if threadKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "thread_key is required",
			Data:    nil,
		})
	}

	messages, err := tc.Store.ThreadMessages(threadKey)
	if err != nil {
		logger.Error("Failed to load thread messages", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load messages",
			Data:    nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Messages retrieved successfully",
		Data:    messages,
	})
}

// MarkRead marks every unread inbound message of a thread as read.
func (tc *ThreadController) MarkRead(c *fiber.Ctx) error {
	var req threadTypes.MarkReadRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Data:    nil,
		})
	}
	if req.ThreadKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "thread_key is required",
			Data:    nil,
		})
	}

	updated, err := tc.Store.MarkThreadRead(req.ThreadKey)
	if err != nil {
		logger.Error("Failed to mark thread as read", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to mark thread as read",
			Data:    nil,
		})
	}

	logger.Info(fmt.Sprintf("Marked %d messages read on thread %s", updated, req.ThreadKey))

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Thread marked as read",
		Data:    fiber.Map{"updated": updated},
	})
}
