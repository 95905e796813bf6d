package feed

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

type Fetcher struct {
	client      *http.Client
	cfg         *config.Config
	ignoreCache bool
}

func NewFetcher(cfg *config.Config) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: cfg.Feed.HTTPTimeout,
		},
		cfg: cfg,
	}
}

// SetIgnoreCache disables conditional requests, forcing a full re-download.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// Fetch performs a conditional GET against the source URL. A nil response
// with a nil error means the feed has not changed since the last fetch.
func (f *Fetcher) Fetch(src *storage.Source) (*http.Response, bool, error) {
	req, err := http.NewRequest("GET", src.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", f.cfg.Feed.UserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	if !f.ignoreCache {
		if src.ETag != "" {
			req.Header.Set("If-None-Match", src.ETag)
		}
		if src.LastModified != "" {
			req.Header.Set("If-Modified-Since", src.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, false, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp, true, nil
}

// UpdateSourceMetadata records the validators the server handed back so the
// next fetch can be conditional.
func (f *Fetcher) UpdateSourceMetadata(src *storage.Source, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		src.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		src.LastModified = lastMod
	}
	src.LastFetched = time.Now()
}

// GetRetryAfter honors a Retry-After header, falling back to the configured
// default.
func (f *Fetcher) GetRetryAfter(resp *http.Response) time.Duration {
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return f.cfg.Feed.DefaultRetryAfter
}
