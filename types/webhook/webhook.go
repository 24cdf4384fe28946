package webhook

// InboundSMSRequest is the payload the SMS provider posts for each received
// message. MessageID, when present, is used as an idempotency key so
// provider retries never duplicate rows.
type InboundSMSRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Message   string `json:"message"`
	MessageID string `json:"message_id"`
	SentAt    string `json:"sent_at"`
}
