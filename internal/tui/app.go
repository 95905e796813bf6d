package tui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/xxxxxthhh/SignalFeed/internal/config"
	"github.com/xxxxxthhh/SignalFeed/internal/feed"
	"github.com/xxxxxthhh/SignalFeed/internal/filter"
	"github.com/xxxxxthhh/SignalFeed/internal/search"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

type App struct {
	config   *config.Config
	store    *storage.Store
	manager  *feed.Manager
	searcher search.Searcher

	controller   *filter.Controller
	initialQuery string
	permalink    string

	keyHandler  *KeyHandler
	articleList list.Model
	searchList  list.Model
	searchInput textinput.Model
	narrowInput textinput.Model
	viewport    viewport.Model

	view           View
	previousView   View
	currentArticle *storage.Article

	filtersFocused bool
	filterSection  filterSection
	filterCursor   int
	narrowing      bool

	width  int
	height int
	status string
	err    error

	glamourRenderer *glamour.TermRenderer
	rendererWidth   int
	loadingArticle  bool
}

// NewApp builds the TUI. initialQuery hydrates the filters, the same string
// a previous session's status bar displayed.
func NewApp(store *storage.Store, cfg *config.Config, manager *feed.Manager, searcher search.Searcher, initialQuery string) *App {
	articleList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	articleList.Title = "› articles"
	articleList.SetShowStatusBar(false)
	articleList.SetFilteringEnabled(false)
	articleList.SetShowHelp(true)
	articleList.SetShowPagination(false)

	searchList := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	searchList.Title = "› search results"
	searchList.SetShowStatusBar(false)
	searchList.SetFilteringEnabled(false)
	searchList.SetShowHelp(false)

	si := textinput.New()
	si.Placeholder = "Search articles..."

	ni := textinput.New()
	ni.Placeholder = "Narrow options..."

	app := &App{
		config:       cfg,
		store:        store,
		manager:      manager,
		searcher:     searcher,
		initialQuery: initialQuery,
		articleList:  articleList,
		searchList:   searchList,
		searchInput:  si,
		narrowInput:  ni,
		viewport:     viewport.New(0, 0),
		view:         ViewBrowse,
		previousView: ViewBrowse,
	}

	app.controller = app.newController(filter.NewCatalog(nil))
	app.keyHandler = NewKeyHandler(app, cfg)

	return app
}

func (a *App) newController(catalog *filter.Catalog) *filter.Controller {
	return filter.NewController(catalog,
		filter.WithPreferences(a.store),
		filter.WithHistory(a),
		filter.WithQuery(a.initialQuery),
	)
}

// ReplaceQuery records the canonical query string after each filter change,
// keeping the permalink in the status bar current.
func (a *App) ReplaceQuery(query string) error {
	a.permalink = query
	return nil
}

func (a *App) getRenderer() (*glamour.TermRenderer, error) {
	wordWrapWidth := (a.width * 9) / 10
	if wordWrapWidth > a.config.UI.Article.WordWrapMaxWidth {
		wordWrapWidth = a.config.UI.Article.WordWrapMaxWidth
	}
	if wordWrapWidth < a.config.UI.Article.WordWrapMinWidth {
		wordWrapWidth = a.config.UI.Article.WordWrapMinWidth
	}

	if a.glamourRenderer == nil || abs(a.rendererWidth-wordWrapWidth) > 10 {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(wordWrapWidth),
		)
		if err != nil {
			return nil, err
		}
		a.glamourRenderer = r
		a.rendererWidth = wordWrapWidth
	}

	return a.glamourRenderer, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(
		a.loadCatalog(),
		tea.EnterAltScreen,
	)
}

// syncArticleList mirrors the current page of the filtered result set into
// the list widget.
func (a *App) syncArticleList() {
	v := a.controller.View()
	items := make([]list.Item, len(v.Visible))
	for i, art := range v.Visible {
		items[i] = articleItem{article: art}
	}
	a.articleList.SetItems(items)
	if a.articleList.Index() >= len(items) && len(items) > 0 {
		a.articleList.Select(len(items) - 1)
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.articleList.SetSize(msg.Width, msg.Height-3)
		searchListHeight := msg.Height - 10
		if searchListHeight < 5 {
			searchListHeight = 5
		}
		a.searchList.SetSize(msg.Width, searchListHeight)
		a.viewport.Width = msg.Width
		a.viewport.Height = msg.Height - 3

	case tea.KeyMsg:
		return a.keyHandler.HandleKey(msg)

	case catalogLoadedMsg:
		// Active filters survive a catalog reload by round-tripping through
		// their query string. Before the first load the catalog is empty and
		// hydration would have dropped every key, so keep the original.
		if a.controller.Catalog().Total() > 0 {
			a.initialQuery = a.controller.View().Query
		}
		a.controller = a.newController(msg.catalog)
		a.clampFilterCursor()
		a.syncArticleList()

	case refreshDoneMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			added, errs := 0, 0
			for _, res := range msg.results {
				added += res.Added
				if res.Err != nil {
					errs++
				}
			}
			a.status = MsgRefreshSummary(len(msg.results), added, errs)
			cmds = append(cmds, a.loadCatalog())
		}

	case articleRenderedMsg:
		if a.view == ViewReader {
			a.viewport.SetContent(msg.content)
			a.viewport.GotoTop()
			a.loadingArticle = false
		}

	case searchResultsMsg:
		if a.view == ViewSearch {
			items := make([]list.Item, len(msg.results))
			for i, res := range msg.results {
				items[i] = searchResultItem{result: res}
			}
			a.searchList.SetItems(items)
			a.status = MsgResultsCount(len(msg.results))
		}

	case fullArticleMsg:
		a.currentArticle = msg.article
		a.view = ViewReader
		a.loadingArticle = true
		cmds = append(cmds, a.renderArticle(msg.article))

	case linkOpenedMsg:
		if msg.err != nil {
			a.err = msg.err
		} else {
			a.status = MsgLinkOpened
		}

	case errorMsg:
		a.err = msg.err
	}

	switch a.view {
	case ViewBrowse:
		if !a.filtersFocused {
			newListModel, cmd := a.articleList.Update(msg)
			a.articleList = newListModel
			cmds = append(cmds, cmd)
		} else if a.narrowing {
			newInput, cmd := a.narrowInput.Update(msg)
			a.narrowInput = newInput
			cmds = append(cmds, cmd)
		}
	case ViewReader:
		switch msg.(type) {
		case tea.KeyMsg, tea.WindowSizeMsg, tea.MouseMsg:
			newViewport, cmd := a.viewport.Update(msg)
			a.viewport = newViewport
			cmds = append(cmds, cmd)
		}
	case ViewSearch:
		newSearchInput, cmd := a.searchInput.Update(msg)
		a.searchInput = newSearchInput
		cmds = append(cmds, cmd)

		newSearchList, listCmd := a.searchList.Update(msg)
		a.searchList = newSearchList
		cmds = append(cmds, listCmd)

		if query := a.searchInput.Value(); len(query) > 1 {
			cmds = append(cmds, a.performSearch(query))
		}
	}

	return a, tea.Batch(cmds...)
}

func (a *App) View() string {
	var content string

	switch a.view {
	case ViewBrowse:
		v := a.controller.View()
		if v.Empty && a.controller.State().Active() {
			empty := lipgloss.NewStyle().
				Width(a.width).
				Align(lipgloss.Center).
				Render("No articles match the current filters.\nPress c to clear them.")
			content = lipgloss.JoinVertical(lipgloss.Left, a.renderFilterPanel(), empty)
		} else {
			content = lipgloss.JoinVertical(lipgloss.Left, a.renderFilterPanel(), a.articleList.View())
		}
	case ViewReader:
		if a.loadingArticle {
			content = StatusBarStyle.Render(MsgLoadingArticle)
		} else {
			content = a.viewport.View()
		}
	case ViewSearch:
		content = lipgloss.JoinVertical(lipgloss.Left,
			TitleStyle.Render("search"),
			a.searchInput.View(),
			a.searchList.View(),
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, a.statusBar())
}
