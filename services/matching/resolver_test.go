package matching

import (
	"strings"
	"testing"

	commModel "guest-messaging/models/communication"
	guestModel "guest-messaging/models/guest"
	reservationModel "guest-messaging/models/reservation"
	"guest-messaging/services/phone"
)

// fakeReservationRepo mirrors the SQL repository's suffix semantics: a row
// matches when its cleaned digits end with the requested suffix.
type fakeReservationRepo struct {
	rows []reservationModel.Reservation
}

func (f *fakeReservationRepo) FindByPhoneSuffix(digits string) ([]reservationModel.Reservation, error) {
	var out []reservationModel.Reservation
	for _, r := range f.rows {
		if digits != "" && strings.HasSuffix(phone.Digits(r.GuestPhone), digits) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReservationRepo) GetByID(id uint) (*reservationModel.Reservation, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

type fakeGuestRepo struct {
	rows []guestModel.Guest
}

func (f *fakeGuestRepo) FindByPhoneSuffix(digits string) ([]guestModel.Guest, error) {
	var out []guestModel.Guest
	for _, g := range f.rows {
		if digits != "" && strings.HasSuffix(phone.Digits(g.Phone), digits) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) GetByID(id uint) (*guestModel.Guest, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func (f *fakeGuestRepo) GetByUserID(id uint) (*guestModel.Guest, error) {
	for i := range f.rows {
		if f.rows[i].WPUserID == id {
			return &f.rows[i], nil
		}
	}
	return nil, nil
}

func newTestResolver(res []reservationModel.Reservation, guests []guestModel.Guest) *Resolver {
	return NewResolver(&fakeReservationRepo{rows: res}, &fakeGuestRepo{rows: guests}, 0)
}

func TestResolve_UniqueMatchPrecedence(t *testing.T) {
	// Reservation 701 and guest profile 8001 share the same phone; the
	// profile's id must win for guest_id while the reservation id is kept.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 701, GuestID: 9001, GuestRecordID: 8001, GuestPhone: "+11234567890"},
		},
		[]guestModel.Guest{
			{ID: 8001, Phone: "+11234567890"},
		},
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+11234567890", "+15550001111", commModel.DirectionInbound)

	if !ctx.Matched {
		t.Fatal("Matched = false, want true")
	}
	if ctx.Status != commModel.MatchStatusMatched {
		t.Errorf("Status = %q, want matched", ctx.Status)
	}
	if ctx.ReservationID != 701 {
		t.Errorf("ReservationID = %d, want 701", ctx.ReservationID)
	}
	if ctx.GuestID != 8001 {
		t.Errorf("GuestID = %d, want 8001", ctx.GuestID)
	}
}

func TestResolve_EndToEndSuffixMatch(t *testing.T) {
	// Stored number has no country code; the inbound sender carries one plus
	// punctuation. Suffix matching must still resolve it.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 301, GuestID: 12, GuestPhone: "2223334444"},
		},
		nil,
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+1 (222) 333-4444", "+15550001111", commModel.DirectionInbound)

	if ctx.GuestNumberE164 != "+12223334444" {
		t.Errorf("GuestNumberE164 = %q, want +12223334444", ctx.GuestNumberE164)
	}
	if !ctx.Matched {
		t.Fatal("Matched = false, want true")
	}
	if ctx.ReservationID != 301 || ctx.GuestID != 12 {
		t.Errorf("resolved (%d, %d), want (301, 12)", ctx.ReservationID, ctx.GuestID)
	}
}

func TestResolve_OutboundSwapsEndpoints(t *testing.T) {
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 55, GuestID: 7, GuestPhone: "+12223334444"},
		},
		nil,
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+15550001111", "+12223334444", commModel.DirectionOutbound)

	if ctx.GuestNumberE164 != "+12223334444" {
		t.Errorf("GuestNumberE164 = %q, want +12223334444", ctx.GuestNumberE164)
	}
	if ctx.ServiceNumberE164 != "+15550001111" {
		t.Errorf("ServiceNumberE164 = %q, want +15550001111", ctx.ServiceNumberE164)
	}
	if !ctx.Matched || ctx.ReservationID != 55 {
		t.Errorf("outbound resolution = %+v, want match on reservation 55", ctx)
	}
}

func TestResolve_AmbiguousSuffix(t *testing.T) {
	// Two reservations with distinct digit sequences sharing the last ten
	// digits. Resolution must refuse to pick one.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 1, GuestID: 1, GuestPhone: "+15552223333"},
			{ID: 2, GuestID: 2, GuestPhone: "+445552223333"},
		},
		nil,
	)

	ctx := r.Resolve(commModel.ChannelSMS, "5552223333", "+15550001111", commModel.DirectionInbound)

	if ctx.Matched {
		t.Fatal("Matched = true, want false")
	}
	if ctx.Status != commModel.MatchStatusAmbiguous {
		t.Errorf("Status = %q, want ambiguous", ctx.Status)
	}
	if ctx.ReservationID != 0 || ctx.GuestID != 0 {
		t.Errorf("ambiguous resolution leaked ids: (%d, %d)", ctx.ReservationID, ctx.GuestID)
	}

	if got := r.UniqueReservationByPhone("5552223333"); got != nil {
		t.Errorf("UniqueReservationByPhone = %+v, want nil on ambiguity", got)
	}
}

func TestResolve_DuplicateFormatsAreOneCandidate(t *testing.T) {
	// Same underlying number stored twice in different formats is not
	// ambiguous; the first row wins.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 10, GuestID: 3, GuestPhone: "+12223334444"},
			{ID: 11, GuestID: 3, GuestPhone: "1 (222) 333-4444"},
		},
		nil,
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+12223334444", "+15550001111", commModel.DirectionInbound)

	if !ctx.Matched {
		t.Fatal("Matched = false, want true")
	}
	if ctx.ReservationID != 10 {
		t.Errorf("ReservationID = %d, want 10", ctx.ReservationID)
	}
}

func TestResolve_GuestProfileOnly(t *testing.T) {
	r := newTestResolver(
		nil,
		[]guestModel.Guest{
			{ID: 42, Phone: "+12223334444"},
		},
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+12223334444", "+15550001111", commModel.DirectionInbound)

	if !ctx.Matched {
		t.Fatal("Matched = false, want true")
	}
	if ctx.ReservationID != 0 {
		t.Errorf("ReservationID = %d, want 0", ctx.ReservationID)
	}
	if ctx.GuestID != 42 {
		t.Errorf("GuestID = %d, want 42", ctx.GuestID)
	}
}

func TestResolve_LinkedProfileConflictIsAmbiguous(t *testing.T) {
	// The reservation is hard-linked to profile 8001 but profile 9002 matches
	// the same phone independently. Treated as ambiguous by policy.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 701, GuestID: 9001, GuestRecordID: 8001, GuestPhone: "+11234567890"},
		},
		[]guestModel.Guest{
			{ID: 9002, Phone: "+11234567890"},
		},
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+11234567890", "+15550001111", commModel.DirectionInbound)

	if ctx.Matched {
		t.Fatal("Matched = true, want false")
	}
	if ctx.Status != commModel.MatchStatusAmbiguous {
		t.Errorf("Status = %q, want ambiguous", ctx.Status)
	}
}

func TestResolve_ReservationWithLinkedProfileNoPhoneMatch(t *testing.T) {
	// Profile 8001 has no phone on file, so only the reservation matches; the
	// hard link still promotes the profile id.
	r := newTestResolver(
		[]reservationModel.Reservation{
			{ID: 701, GuestID: 9001, GuestRecordID: 8001, GuestPhone: "+11234567890"},
		},
		[]guestModel.Guest{
			{ID: 8001, Phone: ""},
		},
	)

	ctx := r.Resolve(commModel.ChannelSMS, "+11234567890", "+15550001111", commModel.DirectionInbound)

	if !ctx.Matched {
		t.Fatal("Matched = false, want true")
	}
	if ctx.GuestID != 8001 {
		t.Errorf("GuestID = %d, want 8001", ctx.GuestID)
	}
}

func TestResolve_Unmatched(t *testing.T) {
	r := newTestResolver(nil, nil)

	ctx := r.Resolve(commModel.ChannelSMS, "+19998887777", "+15550001111", commModel.DirectionInbound)

	if ctx.Matched {
		t.Fatal("Matched = true, want false")
	}
	if ctx.Status != commModel.MatchStatusUnmatched {
		t.Errorf("Status = %q, want unmatched", ctx.Status)
	}
	if ctx.GuestNumberE164 != "+19998887777" || ctx.ServiceNumberE164 != "+15550001111" {
		t.Errorf("E164 fields not populated on unmatched: %+v", ctx)
	}
	if ctx.ThreadKey == "" {
		t.Error("ThreadKey empty on unmatched, want endpoint-pair key")
	}
}

func TestResolve_MalformedInput(t *testing.T) {
	r := newTestResolver(nil, nil)

	ctx := r.Resolve(commModel.ChannelSMS, "???", "", commModel.DirectionInbound)

	if ctx.Status != commModel.MatchStatusUnmatched {
		t.Errorf("Status = %q, want unmatched", ctx.Status)
	}
	if ctx.GuestNumberE164 != "" {
		t.Errorf("GuestNumberE164 = %q, want empty", ctx.GuestNumberE164)
	}
}
