package rank

import "github.com/elonfeng/aidigest/pkg/source"

// DefaultKeywords is the domain vocabulary used for relevance scoring.
// Matching is plain substring containment on lower-cased text.
var DefaultKeywords = []string{
	"ai",
	"artificial intelligence",
	"machine learning",
	"deep learning",
	"neural network",
	"llm",
	"large language model",
	"transformer",
	"gpt",
	"generative",
	"agent",
	"fine-tuning",
	"prompt",
	"embedding",
	"diffusion",
}

// categoryGroup is one keyword group of the categorizer.
type categoryGroup struct {
	category source.Category
	keywords []string
}

// categoryGroups are tested in order; the first group with a hit wins.
var categoryGroups = []categoryGroup{
	{source.CategoryTutorial, []string{"tutorial", "learn", "guide", "how to"}},
	{source.CategoryTools, []string{"framework", "release", "library"}},
	{source.CategoryResearch, []string{"paper", "research", "study"}},
	{source.CategoryTrends, []string{"trend", "future", "market"}},
}
