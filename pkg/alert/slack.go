package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/source"
)

// Slack posts digests via Slack incoming webhook.
type Slack struct {
	client     *http.Client
	webhookURL string
}

// NewSlack creates a new Slack notifier.
func NewSlack(webhookURL string) *Slack {
	return &Slack{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

func (s *Slack) Name() string { return "slack" }

// slackListLimit keeps a digest well under Slack's 50 block cap.
const slackListLimit = 10

func (s *Slack) Send(ctx context.Context, d *digest.Digest) error {
	body, err := json.Marshal(slackPayload(d))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create slack request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack webhook status %d", resp.StatusCode)
	}

	return nil
}

// slackPayload renders the digest as Block Kit: a header, the new articles
// with their categories, then the best article of each source.
func slackPayload(d *digest.Digest) map[string]any {
	blocks := []map[string]any{
		{"type": "header", "text": plainText(d.Subject)},
	}

	if len(d.New) == 0 {
		blocks = append(blocks, mrkdwnSection("_Heute keine neuen Artikel._ 📭"))
	} else {
		summary := fmt.Sprintf("*%d new articles*", len(d.New))
		if cats := categoryLine(d); cats != "" {
			summary += "\n" + cats
		}
		blocks = append(blocks, mrkdwnSection(summary))
		for _, a := range leading(d, slackListLimit) {
			blocks = append(blocks, mrkdwnSection(slackArticle(a)))
		}
		if n := overflow(d, slackListLimit); n > 0 {
			blocks = append(blocks, map[string]any{
				"type":     "context",
				"elements": []map[string]any{{"type": "mrkdwn", "text": fmt.Sprintf("…and %d more in the mail", n)}},
			})
		}
	}

	if len(d.Best) > 0 {
		var lines []string
		for _, a := range d.Best {
			lines = append(lines, fmt.Sprintf("• *%s*: <%s|%s> (score %d)", slackEscape(a.Source), a.Link, slackEscape(a.Title), a.Score))
		}
		blocks = append(blocks,
			map[string]any{"type": "divider"},
			mrkdwnSection("*Bestes pro Quelle*\n"+strings.Join(lines, "\n")),
		)
	}

	return map[string]any{"text": d.Subject, "blocks": blocks}
}

func slackArticle(a source.Article) string {
	return fmt.Sprintf("<%s|*%s*>\n_%s_ · %s", a.Link, slackEscape(a.Title), a.Category, slackEscape(a.Source))
}

func plainText(s string) map[string]any {
	return map[string]any{"type": "plain_text", "text": s}
}

func mrkdwnSection(s string) map[string]any {
	return map[string]any{"type": "section", "text": map[string]any{"type": "mrkdwn", "text": s}}
}

// slackEscape escapes the three characters Slack treats as control syntax.
func slackEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}
