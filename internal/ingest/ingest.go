// Package ingest turns configured feeds into scored articles and decides
// which of them are new.
package ingest

import (
	"context"
	"time"

	"github.com/elonfeng/aidigest/internal/store"
	"github.com/elonfeng/aidigest/pkg/rank"
	"github.com/elonfeng/aidigest/pkg/source"
	"github.com/elonfeng/aidigest/pkg/text"
	"go.uber.org/zap"
)

// Failure records a feed that could not be fetched or parsed.
type Failure struct {
	URL string `json:"url"`
	Err string `json:"error"`
}

// Counts are per-run ingestion counters.
type Counts struct {
	FeedsOK     int `json:"feeds_ok"`
	FeedsFailed int `json:"feeds_failed"`
	Entries     int `json:"entries"`
	NoLink      int `json:"no_link"`
	AlreadySeen int `json:"already_seen"`
	Stale       int `json:"stale"`
	New         int `json:"new"`
}

// Result is the outcome of one ingestion pass.
type Result struct {
	// New holds the fresh, previously unseen articles in feed order.
	New []source.Article
	// Scored holds every article with a link, new or not, in feed order.
	Scored   []source.Article
	Failures []Failure
	Counts   Counts
}

// Ingester fetches feeds one at a time and classifies their entries.
type Ingester struct {
	fetcher source.Fetcher
	scorer  *rank.Scorer
	window  time.Duration
	logger  *zap.Logger
}

// New creates an ingester. Entries older than window are never new.
func New(fetcher source.Fetcher, scorer *rank.Scorer, window time.Duration, logger *zap.Logger) *Ingester {
	if window <= 0 {
		window = 48 * time.Hour
	}
	return &Ingester{
		fetcher: fetcher,
		scorer:  scorer,
		window:  window,
		logger:  logger,
	}
}

// Ingest processes urls in order. A feed that fails is logged and skipped.
// Every new article's link is marked in seen.
func (in *Ingester) Ingest(ctx context.Context, urls []string, seen *store.Set, now time.Time) *Result {
	res := &Result{}
	cutoff := now.Add(-in.window)

	for _, url := range urls {
		feed, err := in.fetcher.Fetch(ctx, url)
		if err != nil {
			in.logger.Warn("feed failed", zap.String("url", url), zap.Error(err))
			res.Failures = append(res.Failures, Failure{URL: url, Err: err.Error()})
			res.Counts.FeedsFailed++
			continue
		}
		res.Counts.FeedsOK++

		before := res.Counts.New
		for _, entry := range feed.Entries {
			res.Counts.Entries++
			if entry.Link == "" {
				res.Counts.NoLink++
				continue
			}

			article := in.toArticle(feed.Title, entry, now)
			res.Scored = append(res.Scored, article)

			switch {
			case seen.Has(article.Link):
				res.Counts.AlreadySeen++
			case !article.Published.After(cutoff):
				res.Counts.Stale++
			default:
				seen.Mark(article.Link)
				res.New = append(res.New, article)
				res.Counts.New++
			}
		}

		in.logger.Debug("feed ingested",
			zap.String("url", url),
			zap.String("title", feed.Title),
			zap.Int("entries", len(feed.Entries)),
			zap.Int("new", res.Counts.New-before))
	}

	return res
}

func (in *Ingester) toArticle(feedTitle string, entry source.Entry, now time.Time) source.Article {
	title := text.Normalize(entry.Title)
	summary := text.Normalize(text.StripMarkup(entry.Summary))

	published := now
	if entry.Published != nil {
		published = *entry.Published
	} else if entry.Updated != nil {
		published = *entry.Updated
	}

	return source.Article{
		Title:     title,
		Link:      entry.Link,
		Summary:   summary,
		Source:    feedTitle,
		Category:  rank.Categorize(title, summary),
		Score:     in.scorer.Score(title, summary),
		Published: published,
	}
}
