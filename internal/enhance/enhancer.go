package enhance

import (
	"context"
	"fmt"

	"github.com/xxxxxthhh/SignalFeed/internal/debuglog"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

// Enhancer runs the summarization pass over stored articles.
type Enhancer struct {
	store     *storage.Store
	client    *Client
	batchSize int
}

func NewEnhancer(store *storage.Store, client *Client, batchSize int) *Enhancer {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Enhancer{store: store, client: client, batchSize: batchSize}
}

// Run enhances up to one batch of articles that have no summary yet and
// writes the results back. Per-article failures are logged and skipped so
// one bad response cannot abort the pass.
func (e *Enhancer) Run(ctx context.Context) (int, error) {
	articles, err := e.store.GetAllArticles()
	if err != nil {
		return 0, fmt.Errorf("loading articles: %w", err)
	}

	enhanced := 0
	for _, article := range articles {
		if article.Summary != "" {
			continue
		}
		if enhanced >= e.batchSize {
			break
		}
		if err := ctx.Err(); err != nil {
			return enhanced, err
		}

		text := article.Content
		if text == "" {
			text = article.Description
		}

		result, err := e.client.Enhance(ctx, article.Title, text)
		if err != nil {
			debuglog.Warnf("enhance %q: %v", article.Title, err)
			continue
		}

		article.Summary = result.Summary
		article.KeyPoints = result.KeyPoints
		mergeTags(article, result.Tags)

		if err := e.store.UpdateArticle(article); err != nil {
			return enhanced, fmt.Errorf("saving enhancement: %w", err)
		}
		enhanced++
	}

	debuglog.Infof("enhanced %d articles", enhanced)
	return enhanced, nil
}

// mergeTags appends model tags the article does not already carry.
func mergeTags(article *storage.Article, tags []string) {
	existing := make(map[string]bool, len(article.Tags))
	for _, t := range article.Tags {
		existing[t.Key] = true
	}
	for _, tag := range tags {
		key := filter.NormalizeKey(tag)
		if key == "" || existing[key] {
			continue
		}
		existing[key] = true
		article.Tags = append(article.Tags, storage.Tag{Label: filter.NormalizeText(tag), Key: key})
	}
}
