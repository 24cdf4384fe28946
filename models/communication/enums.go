package communication

// Channel identifies the transport a communication was exchanged on.
type Channel string

const (
	ChannelSMS Channel = "sms"
)

// Direction indicates whether the message was received or sent by the service.
type Direction string

const (
	DirectionInbound  Direction = "inbound"
	DirectionOutbound Direction = "outbound"
)

// MatchStatus is the outcome of an identity resolution attempt. Ambiguous and
// unmatched are expected outcomes, not errors.
type MatchStatus string

const (
	MatchStatusMatched   MatchStatus = "matched"
	MatchStatusAmbiguous MatchStatus = "ambiguous"
	MatchStatusUnmatched MatchStatus = "unmatched"
)
