package rank

import (
	"strings"
	"unicode/utf8"

	"github.com/elonfeng/aidigest/pkg/text"
)

const (
	// KeywordWeight is added once per distinct keyword found.
	KeywordWeight = 3
	// LengthBonusChars is the summary length worth one extra point.
	LengthBonusChars = 300
)

// Scorer computes keyword relevance scores.
type Scorer struct {
	keywords []string
}

// NewScorer creates a scorer with the default keywords plus extras.
// Keywords are lower-cased and deduplicated.
func NewScorer(extraKeywords []string) *Scorer {
	seen := make(map[string]bool)
	var keywords []string

	for _, kw := range append(append([]string{}, DefaultKeywords...), extraKeywords...) {
		kw = text.Lower(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		keywords = append(keywords, kw)
	}

	return &Scorer{keywords: keywords}
}

// Score returns KeywordWeight for every distinct keyword contained in the
// title or summary, plus one point per LengthBonusChars summary runes.
func (s *Scorer) Score(title, summary string) int {
	lower := text.Lower(title + " " + summary)

	score := 0
	for _, kw := range s.keywords {
		if strings.Contains(lower, kw) {
			score += KeywordWeight
		}
	}

	return score + utf8.RuneCountInString(summary)/LengthBonusChars
}
