package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
)

type KeyHandler struct {
	app      *App
	bindings config.KeyBindings
}

func NewKeyHandler(app *App, cfg *config.Config) *KeyHandler {
	return &KeyHandler{app: app, bindings: cfg.Keys.Bindings}
}

func (kh *KeyHandler) HandleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return kh.app, tea.Quit
	}

	if kh.isInTextInputMode() {
		return kh.handleTextInputMode(msg)
	}

	switch kh.app.view {
	case ViewBrowse:
		return kh.handleBrowseKeys(msg)
	case ViewReader:
		return kh.handleReaderKeys(msg)
	case ViewSearch:
		return kh.handleSearchListKeys(msg)
	}
	return kh.app, nil
}

func (kh *KeyHandler) isInTextInputMode() bool {
	switch kh.app.view {
	case ViewSearch:
		return kh.app.searchInput.Focused()
	case ViewBrowse:
		return kh.app.narrowing && kh.app.narrowInput.Focused()
	default:
		return false
	}
}

func (kh *KeyHandler) handleTextInputMode(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc":
		if a.view == ViewBrowse {
			// Leaving the narrowing input clears it, which un-hides every
			// option again.
			a.narrowing = false
			a.narrowInput.Blur()
			a.narrowInput.SetValue("")
			kh.applyNarrowing("")
			return a, nil
		}
		return kh.navigateBack()
	case "enter", "tab", "down":
		if a.view == ViewSearch {
			if len(a.searchList.Items()) > 0 {
				a.searchInput.Blur()
				a.searchList.Select(0)
			}
			return a, nil
		}
		if a.view == ViewBrowse {
			a.narrowInput.Blur()
			return a, nil
		}
	}

	// Keystroke goes into the input; browse narrowing reapplies live.
	model, cmd := kh.delegateToInput(msg)
	if a.view == ViewBrowse {
		kh.applyNarrowing(a.narrowInput.Value())
	}
	return model, cmd
}

func (kh *KeyHandler) delegateToInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	var cmd tea.Cmd
	switch a.view {
	case ViewSearch:
		a.searchInput, cmd = a.searchInput.Update(msg)
		if query := a.searchInput.Value(); len(query) > 1 {
			return a, tea.Batch(cmd, a.performSearch(query))
		}
	case ViewBrowse:
		a.narrowInput, cmd = a.narrowInput.Update(msg)
	}
	return a, cmd
}

// applyNarrowing routes the narrow input into the section the cursor is on.
func (kh *KeyHandler) applyNarrowing(term string) {
	if kh.app.filterSection == sectionSources {
		kh.app.controller.SetSourceSearch(term)
	} else {
		kh.app.controller.SetTagSearch(term)
	}
	kh.app.clampFilterCursor()
	kh.app.syncArticleList()
}

func (kh *KeyHandler) handleBrowseKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app
	b := kh.bindings
	key := msg.String()

	switch key {
	case b.Quit:
		return a, tea.Quit
	case b.ToggleFilters:
		a.controller.TogglePanel()
		a.filtersFocused = a.controller.Expanded()
		a.clampFilterCursor()
		return a, nil
	case b.ClearFilters:
		a.controller.ClearFilters()
		a.status = MsgFiltersCleared
		a.filterCursor = 0
		a.syncArticleList()
		return a, nil
	case b.ToggleMode:
		if a.controller.State().Mode == filter.ModeAnd {
			a.controller.SetMode(filter.ModeOr)
		} else {
			a.controller.SetMode(filter.ModeAnd)
		}
		a.syncArticleList()
		return a, nil
	case b.NextPage:
		page := a.controller.State().Page
		a.controller.NextPage()
		a.syncArticleList()
		// A new page starts at its top; a no-op at the boundary keeps the
		// cursor where it was.
		if a.controller.State().Page != page {
			a.articleList.Select(0)
		}
		return a, nil
	case b.PrevPage:
		page := a.controller.State().Page
		a.controller.PrevPage()
		a.syncArticleList()
		if a.controller.State().Page != page {
			a.articleList.Select(0)
		}
		return a, nil
	case b.Refresh:
		a.status = MsgRefreshing
		return a, a.refreshAll()
	case b.Search:
		// With the filter panel focused, "/" narrows options instead of
		// opening the article search.
		if a.filtersFocused && a.controller.Expanded() {
			return kh.handleFilterPanelKeys(key)
		}
		a.previousView = a.view
		a.view = ViewSearch
		a.searchInput.SetValue("")
		a.searchInput.Focus()
		return a, nil
	}

	if a.filtersFocused && a.controller.Expanded() {
		return kh.handleFilterPanelKeys(key)
	}

	switch key {
	case b.Open:
		if item, ok := a.articleList.SelectedItem().(articleItem); ok {
			return a, a.openArticleLink(item.article.Ref)
		}
	case "enter":
		if item, ok := a.articleList.SelectedItem().(articleItem); ok {
			a.previousView = a.view
			a.currentArticle = item.article.Ref
			a.view = ViewReader
			a.loadingArticle = true
			return a, a.renderArticle(item.article.Ref)
		}
	}

	var cmd tea.Cmd
	a.articleList, cmd = a.articleList.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleFilterPanelKeys(key string) (tea.Model, tea.Cmd) {
	a := kh.app

	switch key {
	case "tab":
		if a.filterSection == sectionSources {
			a.filterSection = sectionTags
		} else {
			a.filterSection = sectionSources
		}
		a.filterCursor = 0
		a.narrowInput.SetValue("")
		a.controller.SetSourceSearch("")
		a.controller.SetTagSearch("")
		a.syncArticleList()
	case "up", "k":
		if a.filterCursor > 0 {
			a.filterCursor--
		}
	case "down", "j":
		if a.filterCursor < len(a.focusedOptions())-1 {
			a.filterCursor++
		}
	case "enter", " ":
		options := a.focusedOptions()
		if a.filterCursor < len(options) {
			opt := options[a.filterCursor]
			if opt.Disabled {
				return a, nil
			}
			if a.filterSection == sectionSources {
				a.controller.SetSource(opt.Key)
			} else {
				a.controller.ToggleTag(opt.Key)
			}
			a.clampFilterCursor()
			a.syncArticleList()
		}
	case "/":
		a.narrowing = true
		a.narrowInput.SetValue("")
		a.narrowInput.Focus()
	case "esc", kh.bindings.Back:
		a.filtersFocused = false
	}
	return a, nil
}

func (kh *KeyHandler) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc", kh.bindings.Back, "q":
		return kh.navigateBack()
	case kh.bindings.Open:
		if a.currentArticle != nil {
			return a, a.openArticleLink(a.currentArticle)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.viewport, cmd = a.viewport.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) handleSearchListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	a := kh.app

	switch msg.String() {
	case "esc", kh.bindings.Back:
		return kh.navigateBack()
	case "/":
		a.searchInput.Focus()
		return a, nil
	case "enter":
		if item, ok := a.searchList.SelectedItem().(searchResultItem); ok {
			a.previousView = a.view
			return a, a.loadFullArticle(item.result.Article.ID)
		}
		return a, nil
	}

	var cmd tea.Cmd
	a.searchList, cmd = a.searchList.Update(msg)
	return a, cmd
}

func (kh *KeyHandler) navigateBack() (tea.Model, tea.Cmd) {
	a := kh.app

	switch a.view {
	case ViewReader:
		a.view = a.previousView
		a.currentArticle = nil
		if a.view == ViewBrowse {
			a.syncArticleList()
		}
	case ViewSearch:
		a.view = ViewBrowse
		a.searchInput.Blur()
		a.searchInput.SetValue("")
		a.searchList.SetItems(nil)
		a.syncArticleList()
	default:
		a.view = ViewBrowse
	}
	return a, nil
}
