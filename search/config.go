// Package search implements the past-papers query pipeline: parsing free
// text into facets, merging facets with explicit filter selections, ranking
// candidate papers, and executing searches against the store with a
// client-side fallback when ranked search is unavailable.
package search

import "time"

const (
	// DefaultHalfLife controls how fast the recency signal decays: a paper's
	// recency score halves every half-life. The 180-day default comes from
	// the production tuning; override it through Ranker.HalfLife.
	DefaultHalfLife = 180 * 24 * time.Hour

	DefaultPageSize = 20

	// DefaultWindowMultiplier sizes the fallback fetch window relative to the
	// page size, so the client-side ranker sees enough candidates to produce
	// a correct top-K.
	DefaultWindowMultiplier = 3
)

// DefaultStopWords are dropped from subject tokens. Like the half-life, the
// list is empirical tuning carried over from production; override it through
// NewParser.
var DefaultStopWords = []string{
	"and", "or", "for", "the", "a", "an", "in", "of", "to", "by", "with",
	"paper", "exam", "past", "latest",
	"quiz", "assignment", "midterm", "final",
}
