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
)

// Discord posts digests via Discord webhook.
type Discord struct {
	client     *http.Client
	webhookURL string
}

// NewDiscord creates a new Discord notifier.
func NewDiscord(webhookURL string) *Discord {
	return &Discord{
		client:     &http.Client{Timeout: 10 * time.Second},
		webhookURL: webhookURL,
	}
}

func (d *Discord) Name() string { return "discord" }

// Discord embed limits.
const (
	discordDescriptionLimit = 4096
	discordFieldLimit       = 1024
	discordFieldCount       = 25
	discordListLimit        = 15
)

func (d *Discord) Send(ctx context.Context, dg *digest.Digest) error {
	body, err := json.Marshal(discordPayload(dg))
	if err != nil {
		return fmt.Errorf("marshal discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("send discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord webhook status %d", resp.StatusCode)
	}

	return nil
}

// discordPayload puts the new articles into the embed description and the
// best article of each source into one field per source.
func discordPayload(dg *digest.Digest) map[string]any {
	var desc strings.Builder
	if len(dg.New) == 0 {
		desc.WriteString("Heute keine neuen Artikel. 📭")
	} else {
		fmt.Fprintf(&desc, "**%d new articles**", len(dg.New))
		if cats := categoryLine(dg); cats != "" {
			fmt.Fprintf(&desc, "\n%s", cats)
		}
		desc.WriteString("\n")
		for _, a := range leading(dg, discordListLimit) {
			fmt.Fprintf(&desc, "\n• [%s](%s) · *%s* · %s", a.Title, a.Link, a.Category, a.Source)
		}
		if n := overflow(dg, discordListLimit); n > 0 {
			fmt.Fprintf(&desc, "\n…and %d more in the mail", n)
		}
	}

	var fields []map[string]any
	for _, a := range dg.Best {
		if len(fields) == discordFieldCount {
			break
		}
		fields = append(fields, map[string]any{
			"name":   clip(a.Source, 256),
			"value":  clip(fmt.Sprintf("[%s](%s)\n%s · score %d", a.Title, a.Link, a.Category, a.Score), discordFieldLimit),
			"inline": false,
		})
	}

	embed := map[string]any{
		"title":       dg.Subject,
		"description": clip(desc.String(), discordDescriptionLimit),
		"color":       0xFF6600,
		"timestamp":   dg.Date.UTC().Format(time.RFC3339),
	}
	if len(fields) > 0 {
		embed["fields"] = fields
	}

	return map[string]any{
		"embeds": []map[string]any{embed},
	}
}

// clip cuts s to at most n runes.
func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n])
	}
	return s
}
