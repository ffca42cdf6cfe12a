package alert

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/source"
)

// Webhook posts digests as signed JSON to a generic HTTP endpoint.
type Webhook struct {
	client *http.Client
	url    string
	secret string
}

// NewWebhook creates a new generic webhook notifier. With a non-empty
// secret every request carries an X-Signature-256 header.
func NewWebhook(url, secret string) *Webhook {
	return &Webhook{
		client: &http.Client{Timeout: 10 * time.Second},
		url:    url,
		secret: secret,
	}
}

func (w *Webhook) Name() string { return "webhook" }

// WebhookPayload is the JSON body posted by Webhook.
type WebhookPayload struct {
	Subject    string                  `json:"subject"`
	Date       string                  `json:"date"`
	Categories map[source.Category]int `json:"categories"`
	New        []source.Article        `json:"new"`
	Best       []source.Article        `json:"best"`
}

func newWebhookPayload(d *digest.Digest) WebhookPayload {
	p := WebhookPayload{
		Subject:    d.Subject,
		Date:       d.Date.Format("2006-01-02"),
		Categories: make(map[source.Category]int),
		New:        d.New,
		Best:       d.Best,
	}
	// Empty lists encode as [] so receivers need no null checks.
	if p.New == nil {
		p.New = []source.Article{}
	}
	if p.Best == nil {
		p.Best = []source.Article{}
	}
	for _, a := range d.New {
		p.Categories[a.Category]++
	}
	return p
}

// Sign returns the X-Signature-256 header value for body.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return "sha256=" + hex.EncodeToString(mac.Sum(nil))
}

func (w *Webhook) Send(ctx context.Context, d *digest.Digest) error {
	body, err := json.Marshal(newWebhookPayload(d))
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "aidigest/1.0")
	if w.secret != "" {
		req.Header.Set("X-Signature-256", Sign(w.secret, body))
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("post webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook status %d", resp.StatusCode)
	}

	return nil
}
