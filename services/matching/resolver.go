package matching

import (
	"guest-messaging/logger"
	commModel "guest-messaging/models/communication"
	guestModel "guest-messaging/models/guest"
	reservationModel "guest-messaging/models/reservation"
	"guest-messaging/services/phone"

	"fmt"
)

// ReservationRepository is the reservation lookup surface the resolver needs.
type ReservationRepository interface {
	FindByPhoneSuffix(digits string) ([]reservationModel.Reservation, error)
	GetByID(id uint) (*reservationModel.Reservation, error)
}

// GuestRepository is the guest-profile lookup surface the resolver needs.
type GuestRepository interface {
	FindByPhoneSuffix(digits string) ([]guestModel.Guest, error)
	GetByID(id uint) (*guestModel.Guest, error)
	GetByUserID(id uint) (*guestModel.Guest, error)
}

// Resolver maps a raw (from, to, direction) tuple on a channel to a
// reservation + guest identity. It is stateless apart from its injected
// repositories and safe for concurrent use.
type Resolver struct {
	Reservations ReservationRepository
	Guests       GuestRepository
	SuffixLength int
}

// NewResolver creates a resolver with the given repositories. suffixLength
// values below 1 fall back to phone.DefaultSuffixLength.
func NewResolver(reservations ReservationRepository, guests GuestRepository, suffixLength int) *Resolver {
	if suffixLength < 1 {
		suffixLength = phone.DefaultSuffixLength
	}
	return &Resolver{
		Reservations: reservations,
		Guests:       guests,
		SuffixLength: suffixLength,
	}
}

// Resolve determines which guest and reservation a message belongs to.
// Ambiguity and no-match are encoded in the returned context status, never as
// errors; repository failures degrade to unmatched so ingestion can still log
// the raw message. The endpoint E164 fields and the thread key are populated
// on every outcome.
func (r *Resolver) Resolve(channel commModel.Channel, fromRaw, toRaw string, direction commModel.Direction) commModel.MatchContext {
	fromE164 := phone.Normalize(fromRaw)
	toE164 := phone.Normalize(toRaw)

	// Inbound: the sender is the guest. Outbound: the recipient is.
	guestE164, serviceE164 := fromE164, toE164
	if direction == commModel.DirectionOutbound {
		guestE164, serviceE164 = toE164, fromE164
	}

	ctx := commModel.MatchContext{
		Status:            commModel.MatchStatusUnmatched,
		GuestNumberE164:   guestE164,
		ServiceNumberE164: serviceE164,
	}

	if phone.Digits(guestE164) == "" {
		ctx.ThreadKey = DeriveThreadKey(ctx, channel)
		return ctx
	}

	res, resAmbiguous := r.uniqueReservation(guestE164)
	prof, profAmbiguous := r.uniqueGuest(guestE164)

	switch {
	case resAmbiguous || profAmbiguous:
		ctx.Status = commModel.MatchStatusAmbiguous

	case res != nil && prof != nil:
		// A reservation hard-linked to one profile while a different profile
		// matches the same phone is a double-match; refuse to guess.
		if res.GuestRecordID != 0 && res.GuestRecordID != prof.ID {
			ctx.Status = commModel.MatchStatusAmbiguous
			break
		}
		ctx.Matched = true
		ctx.Status = commModel.MatchStatusMatched
		ctx.ReservationID = res.ID
		ctx.GuestID = prof.ID

	case res != nil:
		ctx.Matched = true
		ctx.Status = commModel.MatchStatusMatched
		ctx.ReservationID = res.ID
		ctx.GuestID = res.GuestID
		if res.GuestRecordID != 0 {
			if linked, err := r.Guests.GetByID(res.GuestRecordID); err == nil && linked != nil {
				ctx.GuestID = linked.ID
			}
		}

	case prof != nil:
		ctx.Matched = true
		ctx.Status = commModel.MatchStatusMatched
		ctx.ReservationID = 0
		ctx.GuestID = prof.ID
	}

	ctx.ThreadKey = DeriveThreadKey(ctx, channel)
	return ctx
}

// UniqueReservationByPhone returns the single reservation whose guest phone
// matches the given number, or nil when there is none or the match is
// ambiguous.
func (r *Resolver) UniqueReservationByPhone(raw string) *reservationModel.Reservation {
	res, _ := r.uniqueReservation(raw)
	return res
}

// UniqueGuestByPhone returns the single guest profile whose phone matches the
// given number, or nil when there is none or the match is ambiguous.
func (r *Resolver) UniqueGuestByPhone(raw string) *guestModel.Guest {
	prof, _ := r.uniqueGuest(raw)
	return prof
}

func (r *Resolver) uniqueReservation(raw string) (*reservationModel.Reservation, bool) {
	suffix := phone.MatchSuffix(raw, r.SuffixLength)
	if suffix == "" {
		return nil, false
	}

	candidates, err := r.Reservations.FindByPhoneSuffix(suffix)
	if err != nil {
		logger.Error(fmt.Sprintf("Reservation lookup failed for suffix %s", suffix), err)
		return nil, false
	}

	// Ambiguity is decided over distinct digit sequences, not raw rows: two
	// reservations for the same number in different formats are one candidate.
	seen := make(map[string]int)
	for i, c := range candidates {
		digits := phone.Digits(c.GuestPhone)
		if _, ok := seen[digits]; !ok {
			seen[digits] = i
		}
	}

	if len(seen) > 1 {
		return nil, true
	}
	for _, i := range seen {
		return &candidates[i], false
	}
	return nil, false
}

func (r *Resolver) uniqueGuest(raw string) (*guestModel.Guest, bool) {
	suffix := phone.MatchSuffix(raw, r.SuffixLength)
	if suffix == "" {
		return nil, false
	}

	candidates, err := r.Guests.FindByPhoneSuffix(suffix)
	if err != nil {
		logger.Error(fmt.Sprintf("Guest lookup failed for suffix %s", suffix), err)
		return nil, false
	}

	seen := make(map[string]int)
	for i, c := range candidates {
		digits := phone.Digits(c.Phone)
		if _, ok := seen[digits]; !ok {
			seen[digits] = i
		}
	}

	if len(seen) > 1 {
		return nil, true
	}
	for _, i := range seen {
		return &candidates[i], false
	}
	return nil, false
}
