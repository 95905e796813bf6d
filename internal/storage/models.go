package storage

import (
	"time"
)

type Source struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	LastFetched  time.Time `json:"last_fetched"`
	ETag         string    `json:"etag"`
	LastModified string    `json:"last_modified"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Tag carries both the display label and the normalized key used for
// filtering. Key is the trimmed, whitespace-collapsed, lowercased label.
type Tag struct {
	Label string `json:"label"`
	Key   string `json:"key"`
}

type Article struct {
	ID          string    `json:"id"`
	SourceID    string    `json:"source_id"`
	Title       string    `json:"title"`
	Link        string    `json:"link"`
	Description string    `json:"description"`
	Content     string    `json:"content"`
	IsFulltext  bool      `json:"is_fulltext"`
	SourceLabel string    `json:"source_label"`
	Tags        []Tag     `json:"tags"`
	Summary     string    `json:"summary"`
	KeyPoints   []string  `json:"key_points"`
	Published   time.Time `json:"published"`
	FetchedAt   time.Time `json:"fetched_at"`
	URLHash     string    `json:"url_hash"`
}
