package feed

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/debuglog"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
	"github.com/xxxxxthhh/SignalFeed/internal/validation"
)

type Manager struct {
	store        *storage.Store
	fetcher      *Fetcher
	parser       *Parser
	config       *config.Config
	urlValidator *validation.FeedURLValidator
	mu           sync.RWMutex
}

// RefreshResult summarizes one source's refresh.
type RefreshResult struct {
	SourceID string
	Title    string
	Added    int
	Err      error
}

func NewManager(store *storage.Store, cfg *config.Config) *Manager {
	return &Manager{
		store:        store,
		fetcher:      NewFetcher(cfg),
		parser:       NewParser(cfg.UI.Article.MaxDescriptionLength),
		config:       cfg,
		urlValidator: validation.NewFeedURLValidator(),
	}
}

// SetForceRefresh makes the next fetches ignore ETag/Last-Modified.
func (m *Manager) SetForceRefresh(force bool) {
	m.fetcher.SetIgnoreCache(force)
}

// SetPermissiveValidation allows localhost and private addresses, for
// development and tests.
func (m *Manager) SetPermissiveValidation(permissive bool) {
	if permissive {
		m.urlValidator = validation.NewPermissiveFeedURLValidator()
	} else {
		m.urlValidator = validation.NewFeedURLValidator()
	}
}

// AddSource validates the URL, fetches the feed once, and stores both the
// source and its current articles.
func (m *Manager) AddSource(url string) (*storage.Source, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	normalizedURL, err := m.urlValidator.ValidateAndNormalize(url)
	if err != nil {
		return nil, fmt.Errorf("invalid feed URL: %w", err)
	}

	src := &storage.Source{
		ID:        HashURL(normalizedURL),
		URL:       normalizedURL,
		UpdatedAt: time.Now(),
	}

	resp, updated, err := m.fetcher.Fetch(src)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	if !updated || resp == nil {
		return nil, fmt.Errorf("no response received")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	articles, err := m.parser.Parse(strings.NewReader(string(body)), src)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	if len(articles) > 0 && articles[0].SourceLabel != "" {
		src.Title = articles[0].SourceLabel
	}
	m.fetcher.UpdateSourceMetadata(src, resp)

	if err := m.store.SaveSource(src); err != nil {
		return nil, fmt.Errorf("saving source: %w", err)
	}

	added, err := m.store.SaveArticles(m.capNewest(articles))
	if err != nil {
		return nil, fmt.Errorf("saving articles: %w", err)
	}

	debuglog.WithFields(map[string]any{"source": src.Title, "added": added}).
		Infof("source added")

	return src, nil
}

// RefreshSource fetches one source and stores whatever is new. Honors the
// configured refresh interval unless force-refresh is active.
func (m *Manager) RefreshSource(sourceID string) RefreshResult {
	m.mu.Lock()
	defer m.mu.Unlock()

	src, err := m.store.GetSource(sourceID)
	if err != nil {
		return RefreshResult{SourceID: sourceID, Err: fmt.Errorf("getting source: %w", err)}
	}

	result := RefreshResult{SourceID: sourceID, Title: src.Title}

	if !m.fetcher.ignoreCache && time.Since(src.LastFetched) < m.config.Feed.RefreshInterval {
		return result
	}

	resp, updated, err := m.fetcher.Fetch(src)
	if err != nil {
		result.Err = fmt.Errorf("fetching feed: %w", err)
		return result
	}

	if !updated || resp == nil {
		src.LastFetched = time.Now()
		if saveErr := m.store.SaveSource(src); saveErr != nil {
			result.Err = fmt.Errorf("saving source metadata: %w", saveErr)
		}
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Err = fmt.Errorf("reading response: %w", err)
		return result
	}

	articles, err := m.parser.Parse(strings.NewReader(string(body)), src)
	if err != nil {
		result.Err = fmt.Errorf("parsing feed: %w", err)
		return result
	}

	if src.Title == "" && len(articles) > 0 {
		src.Title = articles[0].SourceLabel
	}
	m.fetcher.UpdateSourceMetadata(src, resp)
	src.UpdatedAt = time.Now()

	if err := m.store.SaveSource(src); err != nil {
		result.Err = fmt.Errorf("saving source: %w", err)
		return result
	}

	result.Added, err = m.store.SaveArticles(m.capNewest(articles))
	if err != nil {
		result.Err = fmt.Errorf("saving articles: %w", err)
	}
	return result
}

// RefreshAll refreshes every stored source through a bounded worker pool and
// returns the per-source results.
func (m *Manager) RefreshAll() ([]RefreshResult, error) {
	sources, err := m.store.GetAllSources()
	if err != nil {
		return nil, fmt.Errorf("getting sources: %w", err)
	}
	if len(sources) == 0 {
		return nil, nil
	}

	workers := m.config.Feed.MaxConcurrent
	if workers <= 0 {
		workers = 5
	}
	if workers > len(sources) {
		workers = len(sources)
	}

	srcChan := make(chan *storage.Source, len(sources))
	resChan := make(chan RefreshResult, len(sources))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for src := range srcChan {
				resChan <- m.RefreshSource(src.ID)
			}
		}()
	}

	for _, src := range sources {
		srcChan <- src
	}
	close(srcChan)
	wg.Wait()
	close(resChan)

	var results []RefreshResult
	for res := range resChan {
		if res.Err != nil {
			debuglog.Errorf("refresh %s: %v", res.SourceID, res.Err)
		}
		results = append(results, res)
	}

	sort.Slice(results, func(i, j int) bool {
		return strings.ToLower(results[i].Title) < strings.ToLower(results[j].Title)
	})
	return results, nil
}

// Catalog loads every stored article, newest first, ready for the browse
// filters.
func (m *Manager) Catalog() (*filter.Catalog, error) {
	articles, err := m.store.GetAllArticles()
	if err != nil {
		return nil, fmt.Errorf("loading articles: %w", err)
	}
	return filter.NewCatalog(articles), nil
}

// capNewest keeps at most the configured number of articles per refresh so a
// backfilled feed cannot flood the database.
func (m *Manager) capNewest(articles []*storage.Article) []*storage.Article {
	limit := m.config.Feed.PerSourceLimit
	if limit <= 0 || len(articles) <= limit {
		return articles
	}
	sorted := make([]*storage.Article, len(articles))
	copy(sorted, articles)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Published.After(sorted[j].Published)
	})
	return sorted[:limit]
}
