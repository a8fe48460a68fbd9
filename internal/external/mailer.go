package external

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MailerClient sends transactional purchase-confirmation emails through a
// hosted email API.
type MailerClient struct {
	baseURL    string
	apiKey     string
	from       string
	httpClient *http.Client
}

type MailerConfig struct {
	BaseURL string
	APIKey  string
	From    string
	Timeout time.Duration
}

// ConfirmationEmail is the payload the email endpoint accepts.
type ConfirmationEmail struct {
	Email              string `json:"email"`
	Name               string `json:"name"`
	Amount             string `json:"amount"`
	Date               string `json:"date"`
	PaymentMethod      string `json:"paymentMethod"`
	RaffleName         string `json:"raffleName"`
	TicketsCount       int    `json:"ticketsCount"`
	ConfirmationNumber string `json:"confirmationNumber"`
	Number             string `json:"number"`
}

type mailerResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func NewMailerClient(cfg MailerConfig) *MailerClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &MailerClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		from:    cfg.From,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// SendPurchaseConfirmation posts the confirmation payload. Callers treat a
// failure as soft: the purchase is already committed when this runs.
func (mc *MailerClient) SendPurchaseConfirmation(email ConfirmationEmail) error {
	body, err := json.Marshal(email)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, mc.baseURL, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to create email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if mc.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+mc.apiKey)
	}

	resp, err := mc.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var payload mailerResponse
		if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil && payload.Error != "" {
			return fmt.Errorf("email endpoint returned %d: %s", resp.StatusCode, payload.Error)
		}
		return fmt.Errorf("email endpoint returned %d", resp.StatusCode)
	}

	return nil
}
