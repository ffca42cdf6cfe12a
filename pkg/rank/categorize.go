package rank

import (
	"strings"

	"github.com/elonfeng/aidigest/pkg/source"
	"github.com/elonfeng/aidigest/pkg/text"
)

// Categorize assigns exactly one label to an article. Groups are checked in
// priority order, so an article matching several groups gets the earliest
// one regardless of how many keywords each group hit.
func Categorize(title, summary string) source.Category {
	lower := text.Lower(title + " " + summary)

	for _, g := range categoryGroups {
		for _, kw := range g.keywords {
			if strings.Contains(lower, kw) {
				return g.category
			}
		}
	}
	return source.CategoryGeneral
}
