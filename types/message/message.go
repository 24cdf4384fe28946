package message

// SendMessageRequest asks for an outbound SMS from the service number.
type SendMessageRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}
