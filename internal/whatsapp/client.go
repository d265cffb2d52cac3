package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client delivers one rendered text to one phone number and returns the
// gateway's correlation id. The caller treats delivery as opaque: any
// non-nil error is stored verbatim on the message.
type Client interface {
	Send(ctx context.Context, phone, text string) (string, error)
}

// NewClient picks the gateway client when a URL is configured, else the
// log-only client used during development.
func NewClient(gatewayURL, token string) Client {
	if gatewayURL == "" {
		return LogClient{}
	}
	return &GatewayClient{
		url:    gatewayURL,
		token:  token,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// GatewayClient posts to a WhatsApp HTTP gateway.
type GatewayClient struct {
	url    string
	token  string
	client *http.Client
}

type gatewayRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type gatewayResponse struct {
	MessageID string `json:"message_id"`
}

func (c *GatewayClient) Send(ctx context.Context, phone, text string) (string, error) {
	body, err := json.Marshal(gatewayRequest{Phone: phone, Message: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode/100 != 2 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return "", fmt.Errorf("gateway status=%d body=%s", res.StatusCode, string(snippet))
	}

	var out gatewayResponse
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil || out.MessageID == "" {
		// gateway responses without an id still count as delivered
		return uuid.NewString(), nil
	}
	return out.MessageID, nil
}

// LogClient prints instead of delivering. Used when WA_GATEWAY_URL is unset.
type LogClient struct{}

func (LogClient) Send(_ context.Context, phone, text string) (string, error) {
	log.Printf("[WA] kirim ke %s: %s", phone, text)
	return uuid.NewString(), nil
}
