package httpServices

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

// GatewayClient talks to the external SMS provider. When no base URL is
// configured the service still logs outbound messages, it just never
// dispatches them.
type GatewayClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *GatewayClient {
	return &GatewayClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

// Enabled reports whether a provider endpoint is configured.
func (c *GatewayClient) Enabled() bool {
	return c.baseURL != ""
}

// SendSMS submits one message to the provider and returns its message id and
// dispatch status.
func (c *GatewayClient) SendSMS(req SendSMSRequest) (*SendSMSResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/messages/send/", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}

	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, errors.New("SMS gateway returned non-OK status: " + resp.Status)
	}

	var apiResp SendSMSResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, err
	}

	return &apiResp, nil
}
