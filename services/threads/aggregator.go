package threads

import (
	"sort"
	"strings"

	commModel "guest-messaging/models/communication"
	guestModel "guest-messaging/models/guest"
	reservationModel "guest-messaging/models/reservation"
	"guest-messaging/services/communication"
	threadTypes "guest-messaging/types/thread"
)

// DefaultPageSize is used when the caller does not specify one.
const DefaultPageSize = 20

// GuestLookup is the profile access the aggregator needs.
type GuestLookup interface {
	GetByID(id uint) (*guestModel.Guest, error)
}

// ReservationLookup is the reservation access the aggregator needs.
type ReservationLookup interface {
	GetByID(id uint) (*reservationModel.Reservation, error)
}

// Aggregator collapses the communication log into conversation threads.
type Aggregator struct {
	Store        *communication.Store
	Guests       GuestLookup
	Reservations ReservationLookup
}

// NewAggregator creates a new thread aggregator
func NewAggregator(store *communication.Store, guests GuestLookup, reservations ReservationLookup) *Aggregator {
	return &Aggregator{
		Store:        store,
		Guests:       guests,
		Reservations: reservations,
	}
}

// ListThreads returns one row per thread, newest conversation first. Display
// identity prefers the linked guest profile over the reservation snapshot;
// the snapshot is used only when no profile exists, and the raw endpoint
// number is the last resort. Search filters after grouping and before
// pagination; page and pageSize are clamped to sane minimums.
func (a *Aggregator) ListThreads(channel commModel.Channel, search string, page, pageSize int) (*threadTypes.ThreadListResponse, error) {
	heads, err := a.Store.ThreadHeads(channel)
	if err != nil {
		return nil, err
	}

	summaries := make([]threadTypes.ThreadSummary, 0, len(heads))
	for _, head := range heads {
		summaries = append(summaries, a.summarize(head))
	}

	if needle := strings.ToLower(strings.TrimSpace(search)); needle != "" {
		filtered := summaries[:0]
		for _, s := range summaries {
			if matchesSearch(s, needle) {
				filtered = append(filtered, s)
			}
		}
		summaries = filtered
	}

	sort.Slice(summaries, func(i, j int) bool {
		if !summaries[i].LastMessageAt.Equal(summaries[j].LastMessageAt) {
			return summaries[i].LastMessageAt.After(summaries[j].LastMessageAt)
		}
		return summaries[i].LastMessageID > summaries[j].LastMessageID
	})

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	total := len(summaries)
	totalPages := (total + pageSize - 1) / pageSize

	offset := (page - 1) * pageSize
	if offset > total {
		offset = total
	}
	end := offset + pageSize
	if end > total {
		end = total
	}

	return &threadTypes.ThreadListResponse{
		Items:      summaries[offset:end],
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}, nil
}

func (a *Aggregator) summarize(head communication.ThreadHead) threadTypes.ThreadSummary {
	canonical := head.Canonical

	summary := threadTypes.ThreadSummary{
		ThreadKey:     canonical.ThreadKey,
		Channel:       canonical.Channel,
		GuestID:       canonical.GuestID,
		ReservationID: canonical.ReservationID,
		LastMessage:   canonical.Message,
		LastMessageID: canonical.ID,
		LastMessageAt: canonical.SentAt,
		LastDirection: canonical.Direction,
		MessageCount:  head.MessageCount,
		UnreadCount:   head.UnreadCount,
	}
	if canonical.ResponseData.Context != nil {
		summary.MatchStatus = canonical.ResponseData.Context.Status
	}

	var snapshot *reservationModel.Reservation
	if canonical.ReservationID > 0 {
		if res, err := a.Reservations.GetByID(canonical.ReservationID); err == nil && res != nil {
			snapshot = res
			summary.PropertyName = res.PropertyName
		}
	}

	// Profile-over-snapshot precedence for display identity.
	if canonical.GuestID > 0 {
		if profile, err := a.Guests.GetByID(canonical.GuestID); err == nil && profile != nil {
			summary.GuestName = profile.DisplayName()
			summary.GuestEmail = profile.Email
			summary.GuestPhone = profile.Phone
		}
	}

	if summary.GuestName == "" && snapshot != nil {
		summary.GuestName = snapshot.GuestName
	}
	if summary.GuestEmail == "" && snapshot != nil {
		summary.GuestEmail = snapshot.GuestEmail
	}
	if summary.GuestPhone == "" && snapshot != nil {
		summary.GuestPhone = snapshot.GuestPhone
	}
	if summary.GuestPhone == "" {
		summary.GuestPhone = guestEndpoint(canonical)
	}

	return summary
}

// guestEndpoint returns the guest-side number of a message, preferring the
// normalized form.
func guestEndpoint(c commModel.Communication) string {
	if c.Direction == commModel.DirectionOutbound {
		if c.ToNumberE164 != "" {
			return c.ToNumberE164
		}
		return c.ToNumber
	}
	if c.FromNumberE164 != "" {
		return c.FromNumberE164
	}
	return c.FromNumber
}

func matchesSearch(s threadTypes.ThreadSummary, needle string) bool {
	for _, field := range []string{s.GuestName, s.GuestEmail, s.GuestPhone, s.PropertyName} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
