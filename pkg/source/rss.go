package source

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"
)

// RSS fetches RSS, Atom and JSON feeds over HTTP.
type RSS struct {
	client *http.Client
	parser *gofeed.Parser
}

// NewRSS creates a new feed fetcher.
func NewRSS() *RSS {
	return &RSS{
		client: &http.Client{Timeout: 30 * time.Second},
		parser: gofeed.NewParser(),
	}
}

func (r *RSS) Fetch(ctx context.Context, url string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create feed request %s: %w", url, err)
	}
	req.Header.Set("User-Agent", "aidigest/1.0")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s status %d", url, resp.StatusCode)
	}

	parsed, err := r.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", url, err)
	}

	feed := &Feed{
		Title:   parsed.Title,
		URL:     url,
		Entries: make([]Entry, 0, len(parsed.Items)),
	}
	if feed.Title == "" {
		feed.Title = url
	}

	for _, item := range parsed.Items {
		link := item.Link
		if link == "" && len(item.Links) > 0 {
			link = item.Links[0]
		}

		summary := item.Description
		if summary == "" {
			summary = item.Content
		}

		feed.Entries = append(feed.Entries, Entry{
			Link:      link,
			Title:     item.Title,
			Summary:   summary,
			Published: item.PublishedParsed,
			Updated:   item.UpdatedParsed,
		})
	}

	return feed, nil
}
