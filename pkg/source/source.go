package source

import (
	"context"
	"time"
)

// Category is one of the fixed digest labels.
type Category string

const (
	CategoryTutorial Category = "Lerninhalt/Tutorial"
	CategoryTools    Category = "Open Source/Tools"
	CategoryResearch Category = "Research"
	CategoryTrends   Category = "AI Trends"
	CategoryGeneral  Category = "General"
)

// AllCategories returns every label in priority order, General last.
func AllCategories() []Category {
	return []Category{
		CategoryTutorial,
		CategoryTools,
		CategoryResearch,
		CategoryTrends,
		CategoryGeneral,
	}
}

// Article is a scored feed entry. Link is its identity.
type Article struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Summary   string    `json:"summary"`
	Source    string    `json:"source"`
	Category  Category  `json:"category"`
	Score     int       `json:"score"`
	Published time.Time `json:"published"`
}

// Feed is a parsed syndication feed.
type Feed struct {
	Title   string
	URL     string
	Entries []Entry
}

// Entry is a raw feed entry. Every field may be empty.
type Entry struct {
	Link      string
	Title     string
	Summary   string
	Published *time.Time
	Updated   *time.Time
}

// Fetcher retrieves and parses one feed.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*Feed, error)
}
