package rank

import "github.com/elonfeng/aidigest/pkg/source"

// BestPerSource keeps the highest-scoring article of every source. On equal
// scores the article seen first wins. The result is ordered by the first
// appearance of each source.
func BestPerSource(articles []source.Article) []source.Article {
	if len(articles) == 0 {
		return nil
	}

	index := make(map[string]int)
	var best []source.Article

	for _, a := range articles {
		i, ok := index[a.Source]
		if !ok {
			index[a.Source] = len(best)
			best = append(best, a)
			continue
		}
		if a.Score > best[i].Score {
			best[i] = a
		}
	}

	return best
}
