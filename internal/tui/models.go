package tui

import (
	"fmt"

	"github.com/xxxxxthhh/SignalFeed/internal/feed"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/search"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

type View int

const (
	ViewBrowse View = iota
	ViewReader
	ViewSearch
)

// filterSection identifies which half of the filters panel holds the cursor.
type filterSection int

const (
	sectionSources filterSection = iota
	sectionTags
)

// articleItem adapts a catalog article to the bubbles list.
type articleItem struct {
	article *filter.Article
}

func (i articleItem) Title() string {
	title := i.article.Ref.Title
	if title == "" {
		title = i.article.Ref.Link
	}
	return title
}

func (i articleItem) Description() string {
	desc := i.article.Ref.Summary
	if desc == "" {
		desc = i.article.Ref.Description
	}
	meta := i.article.SourceLabel
	if !i.article.Ref.Published.IsZero() {
		meta += " · " + i.article.Ref.Published.Format("2006-01-02")
	}
	if desc == "" {
		return meta
	}
	return fmt.Sprintf("%s · %s", meta, desc)
}

func (i articleItem) FilterValue() string { return i.article.Ref.Title }

// searchResultItem adapts a search hit to the bubbles list.
type searchResultItem struct {
	result *search.Result
}

func (i searchResultItem) Title() string { return i.result.Article.Title }

func (i searchResultItem) Description() string {
	desc := i.result.Article.Summary
	if desc == "" {
		desc = i.result.Article.Description
	}
	if i.result.Article.SourceLabel != "" {
		return i.result.Article.SourceLabel + " · " + desc
	}
	return desc
}

func (i searchResultItem) FilterValue() string { return i.result.Article.Title }

// Messages passed back into Update by async commands.

type catalogLoadedMsg struct {
	catalog *filter.Catalog
}

type refreshDoneMsg struct {
	results []feed.RefreshResult
	err     error
}

type articleRenderedMsg struct {
	content string
}

type searchResultsMsg struct {
	results []*search.Result
}

type linkOpenedMsg struct {
	err error
}

type errorMsg struct {
	err error
}

// fullArticleMsg carries the complete stored article for the reader, since
// search hits only hold indexed fields.
type fullArticleMsg struct {
	article *storage.Article
}
