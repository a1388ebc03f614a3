package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const DefaultTimeout = 10 * time.Second

// Webhook posts donation receipts as JSON to a configured URL, the way the
// share message reaches its chat channel.
type Webhook struct {
	url  string
	http *http.Client
}

type WebhookConfig struct {
	// Url receiving the POSTed receipt
	Url string
	// Client to use for requests. Defaults to one with DefaultTimeout.
	Client *http.Client
}

var _ Notifier = (*Webhook)(nil)

func NewWebhook(config WebhookConfig) (w *Webhook) {
	w = &Webhook{
		url:  config.Url,
		http: config.Client,
	}
	if w.http == nil {
		w.http = &http.Client{Timeout: DefaultTimeout}
	}
	return w
}

func (w *Webhook) Notify(ctx context.Context, receipt Receipt) (err error) {
	payload, err := json.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver receipt: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("receipt rejected with status %d: %s", resp.StatusCode, body)
	}
	return nil
}
