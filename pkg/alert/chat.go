package alert

import (
	"fmt"
	"strings"

	"github.com/elonfeng/aidigest/pkg/digest"
	"github.com/elonfeng/aidigest/pkg/source"
)

// leading returns at most limit of the digest's new articles.
func leading(d *digest.Digest, limit int) []source.Article {
	if len(d.New) < limit {
		limit = len(d.New)
	}
	return d.New[:limit]
}

// categoryLine counts the new articles per category, in category priority
// order, e.g. "Research 2 · General 1". Empty when there is nothing new.
func categoryLine(d *digest.Digest) string {
	counts := make(map[source.Category]int)
	for _, a := range d.New {
		counts[a.Category]++
	}

	var parts []string
	for _, c := range source.AllCategories() {
		if n := counts[c]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", c, n))
		}
	}
	return strings.Join(parts, " · ")
}

// overflow reports how many new articles did not fit into limit.
func overflow(d *digest.Digest, limit int) int {
	if len(d.New) > limit {
		return len(d.New) - limit
	}
	return 0
}
