package search

import "github.com/xxxxxthhh/SignalFeed/internal/storage"

// Result is one search hit.
type Result struct {
	Article *storage.Article
	Score   float64
}

// Searcher is the minimal search API the TUI uses.
type Searcher interface {
	Search(query string, limit int) ([]*Result, error)
}

// UpdateListener is implemented by engines that maintain an external index
// and need to hear about new data.
type UpdateListener interface {
	OnDataUpdated(articles []*storage.Article)
}

// DeleteListener hears about removed sources.
type DeleteListener interface {
	OnSourceDeleted(sourceID string)
}
