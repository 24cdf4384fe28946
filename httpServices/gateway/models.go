package httpServices

type SendSMSRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Message string `json:"message"`
}

type SendSMSResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}
