package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Jeffail/gabs/v2"
	"github.com/hashicorp/go-retryablehttp"

	notificationDomain "github.com/MEERAN2314/socialtab/notification"
)

type Config struct {
	URL                  string        `env:"NOTIFY_WEBHOOK_URL"`
	HTTPMaxRetryCount    int           `env:"NOTIFY_WEBHOOK_MAX_RETRY_COUNT" envDefault:"3"`
	HTTPMinRetryDuration time.Duration `env:"NOTIFY_WEBHOOK_MIN_RETRY_DURATION" envDefault:"1s"`
	HTTPMaxRetryDuration time.Duration `env:"NOTIFY_WEBHOOK_MAX_RETRY_DURATION" envDefault:"10s"`
}

// Sink delivers notifications to an external webhook endpoint. The
// endpoint answers with a JSON body; a false "ok" field fails the
// delivery even on HTTP 200.
type Sink struct {
	url    string
	client *retryablehttp.Client
}

func New(cfg Config) *Sink {
	client := retryablehttp.NewClient()
	client.RetryMax = cfg.HTTPMaxRetryCount
	client.RetryWaitMin = cfg.HTTPMinRetryDuration
	client.RetryWaitMax = cfg.HTTPMaxRetryDuration
	client.Logger = nil

	return &Sink{
		url:    cfg.URL,
		client: client,
	}
}

type payload struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Type     string `json:"type"`
	Title    string `json:"title"`
	Message  string `json:"message"`
	DebtID   string `json:"debt_id,omitempty"`
}

func (s *Sink) Notify(ctx context.Context, n *notificationDomain.Notification) error {
	body, err := json.Marshal(payload{
		ID:       n.ID,
		Username: n.UserUsername,
		Type:     string(n.Type),
		Title:    n.Title,
		Message:  n.Message,
		DebtID:   n.DebtID,
	})
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()

	output, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading webhook response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(output))
	}

	gc, err := gabs.ParseJSON(output)
	if err != nil {
		return fmt.Errorf("parse webhook response JSON (%s): %w", string(output), err)
	}
	if ok, isBool := gc.S("ok").Data().(bool); isBool && !ok {
		reason, _ := gc.S("error").Data().(string)
		return fmt.Errorf("webhook rejected notification: %s", reason)
	}

	return nil
}
