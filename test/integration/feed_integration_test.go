package integration

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/feed"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/site"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

func rssDocument(title string, items int, category string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	b.WriteString(`<rss version="2.0"><channel>`)
	b.WriteString("<title>" + title + "</title>")
	for i := 0; i < items; i++ {
		b.WriteString("<item>")
		b.WriteString(fmt.Sprintf("<title>%s item %d</title>", title, i))
		b.WriteString(fmt.Sprintf("<link>http://example.com/%s/%d</link>", strings.ToLower(title), i))
		b.WriteString("<description>Body text.</description>")
		if category != "" {
			b.WriteString("<category>" + category + "</category>")
		}
		b.WriteString(fmt.Sprintf("<pubDate>Mon, 0%d Jan 2024 10:00:00 GMT</pubDate>", i%9+1))
		b.WriteString("</item>")
	}
	b.WriteString("</channel></rss>")
	return b.String()
}

func serveRSS(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		fmt.Fprint(w, doc)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func setupTestEnvironment(t *testing.T) (*storage.Store, *feed.Manager) {
	t.Helper()

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	cfg := config.TestConfig()
	manager := feed.NewManager(store, cfg)
	// Local test servers live on loopback addresses.
	manager.SetPermissiveValidation(true)

	return store, manager
}

func TestIntegrationFetchAndFilter(t *testing.T) {
	store, manager := setupTestEnvironment(t)

	alpha := serveRSS(t, rssDocument("Alpha", 8, "go"))
	beta := serveRSS(t, rssDocument("Beta", 4, "rust"))

	for _, url := range []string{alpha.URL, beta.URL} {
		if _, err := manager.AddSource(url); err != nil {
			t.Fatalf("AddSource(%s): %v", url, err)
		}
	}

	sources, err := store.GetAllSources()
	if err != nil {
		t.Fatal(err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}

	catalog, err := manager.Catalog()
	if err != nil {
		t.Fatal(err)
	}
	if catalog.Total() != 12 {
		t.Fatalf("expected 12 articles in catalog, got %d", catalog.Total())
	}

	// Hydrate a controller the way the browser does on launch, from the
	// query string of a previous session.
	ctrl := filter.NewController(catalog, filter.WithQuery("source=alpha&tags=go"))
	v := ctrl.View()
	if len(v.Filtered) != 8 {
		t.Errorf("expected 8 filtered articles, got %d", len(v.Filtered))
	}
	if v.Query != "source=alpha&tags=go" {
		t.Errorf("query round trip produced %q", v.Query)
	}

	ctrl.SetSource(filter.AllSources)
	if got := len(ctrl.View().Filtered); got != 8 {
		t.Errorf("tag go alone should match 8 articles, got %d", got)
	}
}

func TestIntegrationRefreshDedup(t *testing.T) {
	store, manager := setupTestEnvironment(t)

	srv := serveRSS(t, rssDocument("Gamma", 5, ""))
	if _, err := manager.AddSource(srv.URL); err != nil {
		t.Fatal(err)
	}

	// A forced refresh refetches the same items; the seen-URL set keeps
	// them from being stored twice.
	manager.SetForceRefresh(true)
	results, err := manager.RefreshAll()
	if err != nil {
		t.Fatal(err)
	}
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("refresh %s: %v", res.Title, res.Err)
		}
		if res.Added != 0 {
			t.Errorf("expected 0 new articles on refetch, got %d", res.Added)
		}
	}

	articles, err := store.GetAllArticles()
	if err != nil {
		t.Fatal(err)
	}
	if len(articles) != 5 {
		t.Fatalf("expected 5 articles after dedup, got %d", len(articles))
	}
}

func TestIntegrationStaticSite(t *testing.T) {
	store, manager := setupTestEnvironment(t)

	srv := serveRSS(t, rssDocument("Delta", 3, "infra"))
	if _, err := manager.AddSource(srv.URL); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	generator, err := site.NewGenerator(store, config.SiteConfig{
		OutputDir: outDir,
		Title:     "SignalFeed",
	})
	if err != nil {
		t.Fatal(err)
	}

	count, err := generator.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("expected 3 cards, got %d", count)
	}

	data, err := os.ReadFile(filepath.Join(outDir, "index.html"))
	if err != nil {
		t.Fatal(err)
	}
	page := string(data)
	if !strings.Contains(page, `data-tag-keys="infra"`) {
		t.Error("expected tag key data attribute in generated page")
	}
	if !strings.Contains(page, `data-source-key="delta"`) {
		t.Error("expected source key data attribute in generated page")
	}
}
