package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

func (a *App) loadCatalog() tea.Cmd {
	return func() tea.Msg {
		catalog, err := a.manager.Catalog()
		if err != nil {
			return errorMsg{err: err}
		}
		return catalogLoadedMsg{catalog: catalog}
	}
}

func (a *App) refreshAll() tea.Cmd {
	return func() tea.Msg {
		results, err := a.manager.RefreshAll()
		return refreshDoneMsg{results: results, err: err}
	}
}

func (a *App) performSearch(query string) tea.Cmd {
	return func() tea.Msg {
		if a.searcher == nil {
			return searchResultsMsg{}
		}
		results, err := a.searcher.Search(query, 50)
		if err != nil {
			return errorMsg{err: err}
		}
		return searchResultsMsg{results: results}
	}
}

// loadFullArticle re-reads a search hit from the store so the reader has the
// full content, not just the indexed fields.
func (a *App) loadFullArticle(id string) tea.Cmd {
	return func() tea.Msg {
		articles, err := a.store.GetAllArticles()
		if err != nil {
			return errorMsg{err: err}
		}
		for _, art := range articles {
			if art.ID == id {
				return fullArticleMsg{article: art}
			}
		}
		return errorMsg{err: fmt.Errorf("article not found")}
	}
}

// renderArticle builds the reader markdown and renders it with glamour.
func (a *App) renderArticle(article *storage.Article) tea.Cmd {
	return func() tea.Msg {
		var md strings.Builder
		md.WriteString("# " + article.Title + "\n\n")

		meta := article.SourceLabel
		if !article.Published.IsZero() {
			meta += " · " + article.Published.Format("2006-01-02")
		}
		md.WriteString("_" + meta + "_\n\n")

		if article.Summary != "" {
			md.WriteString("> " + article.Summary + "\n\n")
		}
		if len(article.KeyPoints) > 0 {
			md.WriteString("## Key points\n\n")
			for _, kp := range article.KeyPoints {
				md.WriteString("- " + kp + "\n")
			}
			md.WriteString("\n")
		}

		body := article.Content
		if body == "" {
			body = article.Description
		}
		md.WriteString(body)

		if article.Link != "" {
			md.WriteString("\n\n---\n" + article.Link + "\n")
		}

		renderer, err := a.getRenderer()
		if err != nil {
			return errorMsg{err: err}
		}
		content, err := renderer.Render(md.String())
		if err != nil {
			return errorMsg{err: err}
		}
		return articleRenderedMsg{content: content}
	}
}

func (a *App) openArticleLink(article *storage.Article) tea.Cmd {
	return func() tea.Msg {
		return linkOpenedMsg{err: openInBrowser(article.Link)}
	}
}
