package matching

import (
	"fmt"

	commModel "guest-messaging/models/communication"
)

// DeriveThreadKey builds the stable conversation key for a resolution result.
//
// Resolved contexts key on identity, so every message between the same guest
// and the service groups together no matter which record found them:
//
//	guest:{guest_id}:reservation:{reservation_id}:{channel}
//
// Unresolved contexts key on the normalized endpoint pair, so repeated
// messages from an unknown number still form one thread until a later
// resolution upgrades them:
//
//	endpoints:{guest_e164}:{service_e164}:{channel}
//
// The channel is part of both forms, keys never collide across channels.
func DeriveThreadKey(ctx commModel.MatchContext, channel commModel.Channel) string {
	if ctx.Matched && ctx.GuestID > 0 {
		return fmt.Sprintf("guest:%d:reservation:%d:%s", ctx.GuestID, ctx.ReservationID, channel)
	}
	return fmt.Sprintf("endpoints:%s:%s:%s", ctx.GuestNumberE164, ctx.ServiceNumberE164, channel)
}
