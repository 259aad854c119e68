package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	config "github.com/clubsplusplus/club_recruitment/configs"
)

const mailerSendURL = "https://api.mailersend.com/v1/email"

type Recipient struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email"`
}

// Sender delivers one HTML email.
type Sender interface {
	Send(ctx context.Context, to Recipient, subject, html string) error
}

type MailerSendService struct {
	APIKey   string
	From     Recipient
	ReplyTo  string
	Endpoint string
	Client   *http.Client
}

type mailerSendPayload struct {
	From    Recipient   `json:"from"`
	To      []Recipient `json:"to"`
	ReplyTo *Recipient  `json:"reply_to,omitempty"`
	Subject string      `json:"subject"`
	HTML    string      `json:"html"`
}

// NewEmailService returns nil when mail is not configured; callers treat a
// nil Sender as "skip sending".
func NewEmailService(settings config.MailSettings) *MailerSendService {
	if settings.APIKey == "" || settings.FromEmail == "" {
		log.Println("⚠️ Email service not configured. Missing MAILERSEND_API_KEY or EMAIL_SENDER.")
		return nil
	}

	log.Printf("✅ Email service initialized for sender %s", settings.FromEmail)
	return &MailerSendService{
		APIKey:   settings.APIKey,
		From:     Recipient{Name: settings.FromName, Email: settings.FromEmail},
		ReplyTo:  settings.ReplyTo,
		Endpoint: mailerSendURL,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MailerSendService) Send(ctx context.Context, to Recipient, subject, html string) error {
	if to.Email == "" || !strings.Contains(to.Email, "@") {
		return fmt.Errorf("invalid recipient email: %s", to.Email)
	}
	if to.Name == "" {
		to.Name = to.Email[:strings.Index(to.Email, "@")]
	}

	payload := mailerSendPayload{
		From:    s.From,
		To:      []Recipient{to},
		Subject: subject,
		HTML:    html,
	}
	if s.ReplyTo != "" {
		payload.ReplyTo = &Recipient{Name: "reply", Email: s.ReplyTo}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = mailerSendURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.Printf("MailerSend API error: Status %d, Body: %s", resp.StatusCode, string(bodyBytes))
		return fmt.Errorf("failed to send email via MailerSend: status %d", resp.StatusCode)
	}
	return nil
}

// SendEmail is fire-and-forget: failures are logged and never returned.
func SendEmail(ctx context.Context, sender Sender, to Recipient, subject, html string) {
	if sender == nil {
		log.Println("Email client not initialized, skipping email send.")
		return
	}
	if err := sender.Send(ctx, to, subject, html); err != nil {
		log.Printf("🔥 Failed to send email to %s: %v", to.Email, err)
		return
	}
	log.Printf("✅ Email sent successfully to %s", to.Email)
}
