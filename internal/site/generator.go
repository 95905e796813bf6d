// Package site renders the stored articles into a static HTML page. Filter
// metadata is emitted as data attributes on each card, with multi-value tag
// fields joined by the same delimiter the browse filters split on.
package site

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/debuglog"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

//go:embed index.html.tmpl
var indexTemplate string

type Generator struct {
	store *storage.Store
	cfg   config.SiteConfig
	tmpl  *template.Template
}

func NewGenerator(store *storage.Store, cfg config.SiteConfig) (*Generator, error) {
	tmpl, err := template.New("index").Parse(indexTemplate)
	if err != nil {
		return nil, fmt.Errorf("parsing site template: %w", err)
	}
	return &Generator{store: store, cfg: cfg, tmpl: tmpl}, nil
}

type card struct {
	Title       string
	Link        string
	Description string
	Summary     string
	KeyPoints   []string
	Source      string
	SourceKey   string
	TagLabels   string
	TagKeys     string
	Tags        []storage.Tag
	Published   string
	Fulltext    bool
}

type controlOption struct {
	Key   string
	Label string
	Count int
}

type pageData struct {
	Title       string
	GeneratedAt string
	Total       int
	SourceCount int
	TagCount    int
	PageSize    int
	Sources     []controlOption
	Tags        []controlOption
	Cards       []card
}

// Generate writes index.html into the configured output directory and
// returns the number of articles rendered.
func (g *Generator) Generate() (int, error) {
	articles, err := g.store.GetAllArticles()
	if err != nil {
		return 0, fmt.Errorf("loading articles: %w", err)
	}
	articles = g.withinMaxAge(articles)

	catalog := filter.NewCatalog(articles)
	state := filter.NewState()
	view := filter.ComputeView(catalog, &state, "", "")

	data := pageData{
		Title:       g.cfg.Title,
		GeneratedAt: time.Now().Format("2006-01-02 15:04"),
		Total:       catalog.Total(),
		PageSize:    filter.PageSize,
	}

	for _, opt := range view.Sources {
		if opt.Key == filter.AllSources {
			continue
		}
		data.Sources = append(data.Sources, controlOption{Key: opt.Key, Label: opt.Label, Count: opt.Count})
	}
	for _, opt := range view.Tags {
		data.Tags = append(data.Tags, controlOption{Key: opt.Key, Label: opt.Label, Count: opt.Count})
	}
	data.SourceCount = len(data.Sources)
	data.TagCount = len(data.Tags)

	for _, a := range catalog.Articles {
		labels := make([]string, 0, len(a.Ref.Tags))
		for _, t := range a.Ref.Tags {
			labels = append(labels, t.Label)
		}
		data.Cards = append(data.Cards, card{
			Title:       a.Ref.Title,
			Link:        a.Ref.Link,
			Description: a.Ref.Description,
			Summary:     a.Ref.Summary,
			KeyPoints:   a.Ref.KeyPoints,
			Source:      a.SourceLabel,
			SourceKey:   a.SourceKey,
			TagLabels:   filter.JoinTagField(labels),
			TagKeys:     filter.JoinTagField(a.TagKeys),
			Tags:        a.Ref.Tags,
			Published:   a.Ref.Published.Format("2006-01-02"),
			Fulltext:    a.Ref.IsFulltext,
		})
	}

	if err := os.MkdirAll(g.cfg.OutputDir, 0o755); err != nil {
		return 0, fmt.Errorf("creating output directory: %w", err)
	}

	outPath := filepath.Join(g.cfg.OutputDir, "index.html")
	f, err := os.Create(outPath)
	if err != nil {
		return 0, fmt.Errorf("creating %s: %w", outPath, err)
	}
	defer f.Close()

	if err := g.tmpl.Execute(f, data); err != nil {
		return 0, fmt.Errorf("rendering site: %w", err)
	}

	debuglog.Infof("generated %s with %d articles", outPath, len(data.Cards))
	return len(data.Cards), nil
}

// withinMaxAge drops articles older than the configured window. Zero or
// negative MaxAge keeps everything.
func (g *Generator) withinMaxAge(articles []*storage.Article) []*storage.Article {
	if g.cfg.MaxAge <= 0 {
		return articles
	}
	cutoff := time.Now().AddDate(0, 0, -g.cfg.MaxAge)
	var kept []*storage.Article
	for _, a := range articles {
		if a.Published.After(cutoff) {
			kept = append(kept, a)
		}
	}
	return kept
}

// SortedTagLabels renders a tag list the way the browse summary does.
func SortedTagLabels(tags []storage.Tag) string {
	labels := make([]string, 0, len(tags))
	for _, t := range tags {
		labels = append(labels, t.Label)
	}
	sort.Slice(labels, func(i, j int) bool {
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})
	return strings.Join(labels, ", ")
}
