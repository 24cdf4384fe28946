package thread

import (
	"time"

	commModel "guest-messaging/models/communication"
)

// ThreadSummary is one conversation row in the inbox listing, built from the
// thread's canonical (most recent) message.
type ThreadSummary struct {
	ThreadKey     string                `json:"thread_key"`
	Channel       commModel.Channel     `json:"channel"`
	GuestID       uint                  `json:"guest_id"`
	ReservationID uint                  `json:"reservation_id"`
	GuestName     string                `json:"guest_name"`
	GuestEmail    string                `json:"guest_email"`
	GuestPhone    string                `json:"guest_phone"`
	PropertyName  string                `json:"property_name"`
	MatchStatus   commModel.MatchStatus `json:"match_status"`
	LastMessage   string                `json:"last_message"`
	LastMessageID uint                  `json:"last_message_id"`
	LastMessageAt time.Time             `json:"last_message_at"`
	LastDirection commModel.Direction   `json:"last_direction"`
	MessageCount  int64                 `json:"message_count"`
	UnreadCount   int64                 `json:"unread_count"`
}

// ThreadListResponse is the paginated inbox payload.
type ThreadListResponse struct {
	Items      []ThreadSummary `json:"items"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	PageSize   int             `json:"page_size"`
	TotalPages int             `json:"total_pages"`
}

// MarkReadRequest asks for every unread inbound message of a thread to be
// stamped read.
type MarkReadRequest struct {
	ThreadKey string `json:"thread_key"`
}
