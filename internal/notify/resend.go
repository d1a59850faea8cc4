package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/glaadoo/print-power-purpose/internal/resilience"
)

// DefaultResendBaseURL is the production Resend API endpoint.
const DefaultResendBaseURL = "https://api.resend.com"

// ResendSender delivers transactional email through the Resend HTTP API,
// wrapped in the shared retry and circuit-breaker client.
type ResendSender struct {
	HTTP    *resilience.HTTPClient
	APIKey  string
	From    string
	BaseURL string
}

type resendMessage struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

// Send implements common.EmailSender.
func (s *ResendSender) Send(to, subject, html string) error {
	return s.SendContext(context.Background(), to, subject, html)
}

// SendContext delivers a single message, honoring the caller's context.
func (s *ResendSender) SendContext(ctx context.Context, to, subject, html string) error {
	if s == nil || s.HTTP == nil {
		return errors.New("notify: resend client not configured")
	}
	if strings.TrimSpace(s.APIKey) == "" {
		return errors.New("notify: resend api key not configured")
	}
	body, err := json.Marshal(resendMessage{
		From:    s.From,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	})
	if err != nil {
		return err
	}
	base := s.BaseURL
	if base == "" {
		base = DefaultResendBaseURL
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/emails", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.HTTP.Do(ctx, req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("resend: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
