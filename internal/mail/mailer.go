// AngelaMos | 2026
// mailer.go

package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/carterperez-dev/storefront/internal/config"
	"github.com/carterperez-dev/storefront/internal/core"
)

type Email struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

// Client delivers mail through the hosted email API. With no API key
// configured it logs the message instead of sending, which keeps local
// development and tests off the network.
type Client struct {
	endpoint   string
	apiKey     string
	from       string
	httpClient *http.Client
	logger     *slog.Logger
}

func NewClient(cfg config.MailConfig, logger *slog.Logger) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}
}

func (c *Client) Send(ctx context.Context, email Email) error {
	if c.apiKey == "" {
		c.logger.Info("mail delivery skipped, no API key configured",
			"to", email.To,
			"subject", email.Subject,
		)
		return nil
	}

	payload := struct {
		From    string `json:"from"`
		To      string `json:"to"`
		Subject string `json:"subject"`
		HTML    string `json:"html"`
	}{
		From:    c.from,
		To:      email.To,
		Subject: email.Subject,
		HTML:    email.HTML,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal email: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint+"/emails",
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("build email request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("send email: %w", core.ErrDependency)
	}
	defer resp.Body.Close() //nolint:errcheck // response body close

	if resp.StatusCode >= 300 {
		return fmt.Errorf("send email: %s: %w", resp.Status, core.ErrDependency)
	}

	return nil
}

var _ Mailer = (*Client)(nil)
