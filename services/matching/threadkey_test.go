package matching

import (
	"testing"

	commModel "guest-messaging/models/communication"
)

func TestDeriveThreadKey_Stable(t *testing.T) {
	ctx := commModel.MatchContext{
		Matched:       true,
		Status:        commModel.MatchStatusMatched,
		ReservationID: 701,
		GuestID:       8001,
	}

	first := DeriveThreadKey(ctx, commModel.ChannelSMS)
	for i := 0; i < 10; i++ {
		if got := DeriveThreadKey(ctx, commModel.ChannelSMS); got != first {
			t.Fatalf("DeriveThreadKey unstable: %q vs %q", got, first)
		}
	}
	if first != "guest:8001:reservation:701:sms" {
		t.Errorf("key = %q, want guest:8001:reservation:701:sms", first)
	}
}

func TestDeriveThreadKey_ZeroReservation(t *testing.T) {
	ctx := commModel.MatchContext{
		Matched: true,
		Status:  commModel.MatchStatusMatched,
		GuestID: 42,
	}

	if got := DeriveThreadKey(ctx, commModel.ChannelSMS); got != "guest:42:reservation:0:sms" {
		t.Errorf("key = %q, want guest:42:reservation:0:sms", got)
	}
}

func TestDeriveThreadKey_UnresolvedGroupsByEndpoints(t *testing.T) {
	ctx := commModel.MatchContext{
		Status:            commModel.MatchStatusUnmatched,
		GuestNumberE164:   "+12223334444",
		ServiceNumberE164: "+15550001111",
	}

	a := DeriveThreadKey(ctx, commModel.ChannelSMS)
	b := DeriveThreadKey(ctx, commModel.ChannelSMS)
	if a != b {
		t.Fatalf("unresolved keys differ: %q vs %q", a, b)
	}
	if a != "endpoints:+12223334444:+15550001111:sms" {
		t.Errorf("key = %q, want endpoints:+12223334444:+15550001111:sms", a)
	}
}

func TestDeriveThreadKey_ChannelSeparation(t *testing.T) {
	ctx := commModel.MatchContext{
		Matched:       true,
		Status:        commModel.MatchStatusMatched,
		ReservationID: 1,
		GuestID:       2,
	}

	sms := DeriveThreadKey(ctx, commModel.ChannelSMS)
	other := DeriveThreadKey(ctx, commModel.Channel("whatsapp"))
	if sms == other {
		t.Errorf("keys collide across channels: %q", sms)
	}
}

func TestDeriveThreadKey_MatchedWithoutGuestFallsBackToEndpoints(t *testing.T) {
	// A legacy reservation with inline guest_id 0 cannot key on identity.
	ctx := commModel.MatchContext{
		Matched:           true,
		Status:            commModel.MatchStatusMatched,
		ReservationID:     9,
		GuestID:           0,
		GuestNumberE164:   "+12223334444",
		ServiceNumberE164: "+15550001111",
	}

	if got := DeriveThreadKey(ctx, commModel.ChannelSMS); got != "endpoints:+12223334444:+15550001111:sms" {
		t.Errorf("key = %q, want endpoint-pair form", got)
	}
}
