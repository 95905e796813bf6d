package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/xxxxxthhh/SignalFeed/internal/debuglog"
	"github.com/xxxxxthhh/SignalFeed/internal/feed"
	"github.com/xxxxxthhh/SignalFeed/internal/search"
	"github.com/xxxxxthhh/SignalFeed/internal/tui"
)

var (
	flagFilters string
	flagRefresh bool
	flagQuiet   bool
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Launch the interactive article browser",
	Long: `Open the article browser.

--filters restores a filter state from its query string, the same string the
status bar shows, e.g. "source=go-blog&tags=generics&mode=and".`,
	RunE: runBrowse,
}

func init() {
	registerBrowseFlags(browseCmd)
}

// registerBrowseFlags goes on both the root command and browse itself, since
// browse is the default action.
func registerBrowseFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFilters, "filters", "", "restore filters from a query string")
	cmd.Flags().BoolVar(&flagRefresh, "refresh", false, "refresh feeds before launching")
	cmd.Flags().BoolVar(&flagQuiet, "quiet", false, "skip the startup banner")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, store, err := loadEnvironment()
	if err != nil {
		return err
	}
	defer store.Close()

	manager := feed.NewManager(store, cfg)

	if flagRefresh {
		fmt.Println("Fetching feeds...")
		results, err := manager.RefreshAll()
		if err != nil {
			return fmt.Errorf("refreshing feeds: %w", err)
		}
		for _, res := range results {
			if res.Err != nil {
				fmt.Printf("  [warn] %s: %v\n", res.Title, res.Err)
			}
		}
	}

	// The browser degrades to filter-only browsing when the index is broken.
	searcher, err := search.NewBleveEngine(store, cfg.Database.SearchIndex)
	if err != nil {
		debuglog.Warnf("search index unavailable: %v", err)
		searcher = nil
	}

	if !flagQuiet {
		fmt.Println(tui.RenderBanner())
	}

	app := tui.NewApp(store, cfg, manager, searcher, flagFilters)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running ui: %w", err)
	}
	return nil
}
