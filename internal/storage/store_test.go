package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func setupTestStore(t *testing.T) (*Store, func()) {
	tmpDir, err := os.MkdirTemp("", "store-test-*")
	if err != nil {
		t.Fatal(err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	store, err := NewStore(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatal(err)
	}

	cleanup := func() {
		store.Close()
		os.RemoveAll(tmpDir)
	}

	return store, cleanup
}

func TestStore_SaveAndGetSource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	src := &Source{
		ID:           "src-1",
		URL:          "http://example.org/feed.xml",
		Title:        "Example Blog",
		LastFetched:  time.Now(),
		ETag:         "\"abc123\"",
		LastModified: "Wed, 01 Jan 2025 00:00:00 GMT",
		UpdatedAt:    time.Now(),
	}

	if err := store.SaveSource(src); err != nil {
		t.Fatalf("failed to save source: %v", err)
	}

	retrieved, err := store.GetSource("src-1")
	if err != nil {
		t.Fatalf("failed to get source: %v", err)
	}

	if retrieved.URL != src.URL {
		t.Errorf("expected URL %s, got %s", src.URL, retrieved.URL)
	}
	if retrieved.Title != src.Title {
		t.Errorf("expected Title %s, got %s", src.Title, retrieved.Title)
	}
	if retrieved.ETag != src.ETag {
		t.Errorf("expected ETag %s, got %s", src.ETag, retrieved.ETag)
	}
}

func TestStore_GetSource_NotFound(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, err := store.GetSource("non-existent"); err == nil {
		t.Error("expected error for non-existent source, got nil")
	}
}

func TestStore_SaveArticles_DedupByURLHash(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	articles := []*Article{
		{ID: "a1", SourceID: "s1", Title: "First", Link: "http://example.org/1", URLHash: "hash-1"},
		{ID: "a2", SourceID: "s1", Title: "Second", Link: "http://example.org/2", URLHash: "hash-2"},
	}

	added, err := store.SaveArticles(articles)
	if err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}
	if added != 2 {
		t.Errorf("expected 2 added, got %d", added)
	}

	// Same URL hashes again: everything is a duplicate.
	dupes := []*Article{
		{ID: "a1-again", SourceID: "s1", Title: "First repost", URLHash: "hash-1"},
		{ID: "a3", SourceID: "s1", Title: "Third", URLHash: "hash-3"},
	}
	added, err = store.SaveArticles(dupes)
	if err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}
	if added != 1 {
		t.Errorf("expected 1 added after dedup, got %d", added)
	}

	all, err := store.GetAllArticles()
	if err != nil {
		t.Fatalf("failed to get articles: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 stored articles, got %d", len(all))
	}
}

func TestStore_GetArticles_SortedNewestFirst(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	now := time.Now()
	articles := []*Article{
		{ID: "old", SourceID: "s1", Published: now.Add(-2 * time.Hour), URLHash: "h-old"},
		{ID: "new", SourceID: "s1", Published: now, URLHash: "h-new"},
		{ID: "mid", SourceID: "s1", Published: now.Add(-1 * time.Hour), URLHash: "h-mid"},
	}

	if _, err := store.SaveArticles(articles); err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}

	got, err := store.GetArticles("s1", 0)
	if err != nil {
		t.Fatalf("failed to get articles: %v", err)
	}

	want := []string{"new", "mid", "old"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("position %d: expected %s, got %s", i, id, got[i].ID)
		}
	}
}

func TestStore_GetArticles_Limit(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	articles := make([]*Article, 20)
	for i := 0; i < 20; i++ {
		articles[i] = &Article{
			ID:        fmt.Sprintf("article%d", i),
			SourceID:  "s1",
			Title:     fmt.Sprintf("Article %d", i),
			Published: time.Now().Add(time.Duration(-i) * time.Hour),
			URLHash:   fmt.Sprintf("hash%d", i),
		}
	}

	if _, err := store.SaveArticles(articles); err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}

	limited, err := store.GetArticles("s1", 5)
	if err != nil {
		t.Fatalf("failed to get articles with limit: %v", err)
	}
	if len(limited) != 5 {
		t.Errorf("expected 5 articles with limit, got %d", len(limited))
	}
}

func TestStore_UpdateArticle(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	article := &Article{ID: "a1", SourceID: "s1", Title: "Untagged", URLHash: "h1"}
	if _, err := store.SaveArticles([]*Article{article}); err != nil {
		t.Fatalf("failed to save article: %v", err)
	}

	article.Summary = "A short summary"
	article.Tags = []Tag{{Label: "Go", Key: "go"}}
	if err := store.UpdateArticle(article); err != nil {
		t.Fatalf("failed to update article: %v", err)
	}

	got, err := store.GetAllArticles()
	if err != nil {
		t.Fatalf("failed to get articles: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].Summary != "A short summary" {
		t.Errorf("summary not updated: %q", got[0].Summary)
	}
	if len(got[0].Tags) != 1 || got[0].Tags[0].Key != "go" {
		t.Errorf("tags not updated: %v", got[0].Tags)
	}
}

func TestStore_DeleteSource(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if err := store.SaveSource(&Source{ID: "doomed", URL: "http://example.org/feed.xml"}); err != nil {
		t.Fatalf("failed to save source: %v", err)
	}

	articles := []*Article{
		{ID: "a1", SourceID: "doomed", URLHash: "h1"},
		{ID: "a2", SourceID: "doomed", URLHash: "h2"},
		{ID: "a3", SourceID: "other", URLHash: "h3"},
	}
	if _, err := store.SaveArticles(articles); err != nil {
		t.Fatalf("failed to save articles: %v", err)
	}

	if err := store.DeleteSource("doomed"); err != nil {
		t.Fatalf("failed to delete source: %v", err)
	}

	if _, err := store.GetSource("doomed"); err == nil {
		t.Error("expected error when getting deleted source")
	}

	remaining, err := store.GetAllArticles()
	if err != nil {
		t.Fatalf("failed to get articles: %v", err)
	}
	if len(remaining) != 1 || remaining[0].SourceID != "other" {
		t.Errorf("wrong articles remained after source deletion: %v", remaining)
	}
}

func TestStore_BoolPref(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	if _, ok := store.BoolPref("filters_expanded"); ok {
		t.Error("expected unset preference")
	}

	if err := store.SetBoolPref("filters_expanded", true); err != nil {
		t.Fatalf("failed to set preference: %v", err)
	}
	v, ok := store.BoolPref("filters_expanded")
	if !ok || !v {
		t.Errorf("expected (true, true), got (%v, %v)", v, ok)
	}

	if err := store.SetBoolPref("filters_expanded", false); err != nil {
		t.Fatalf("failed to set preference: %v", err)
	}
	v, ok = store.BoolPref("filters_expanded")
	if !ok || v {
		t.Errorf("expected (false, true), got (%v, %v)", v, ok)
	}
}
