package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xxxxxthhh/SignalFeed/internal/feed"
	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

var (
	flagForce bool
	flagSeed  bool
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Refresh all sources",
	Long: `Fetch every stored source and save new articles.

With --seed, the built-in feed list (plus a feeds.toml in the config
directory) is added first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer store.Close()

		manager := feed.NewManager(store, cfg)
		manager.SetForceRefresh(flagForce)

		if flagSeed {
			if err := seedSources(manager, store); err != nil {
				return err
			}
		}

		results, err := manager.RefreshAll()
		if err != nil {
			return fmt.Errorf("refreshing feeds: %w", err)
		}

		added, failed := 0, 0
		for _, res := range results {
			switch {
			case res.Err != nil:
				failed++
				fmt.Printf("  [warn] %s: %v\n", res.Title, res.Err)
			case res.Added > 0:
				fmt.Printf("  %s: %d new\n", res.Title, res.Added)
				added += res.Added
			}
		}
		fmt.Printf("Fetched %d source(s): %d new article(s), %d error(s).\n", len(results), added, failed)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a feed source",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer store.Close()

		manager := feed.NewManager(store, cfg)
		src, err := manager.AddSource(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", src.Title, src.URL)
		return nil
	},
}

func init() {
	fetchCmd.Flags().BoolVar(&flagForce, "force", false, "ignore ETag/Last-Modified caching")
	fetchCmd.Flags().BoolVar(&flagSeed, "seed", false, "add the built-in feed list first")
}

// seedSources adds every seed feed not already stored. A seed that fails to
// fetch is reported but does not abort the rest.
func seedSources(manager *feed.Manager, store *storage.Store) error {
	seeds, err := feed.LoadSeeds(userConfigDir())
	if err != nil {
		return fmt.Errorf("loading seed feeds: %w", err)
	}

	existing, err := store.GetAllSources()
	if err != nil {
		return fmt.Errorf("listing sources: %w", err)
	}
	known := make(map[string]bool, len(existing))
	for _, src := range existing {
		known[src.URL] = true
	}

	for _, seed := range seeds {
		if known[seed.URL] {
			continue
		}
		if _, err := manager.AddSource(seed.URL); err != nil {
			fmt.Printf("  [warn] %s: %v\n", seed.Name, err)
			continue
		}
		fmt.Printf("  seeded %s\n", seed.Name)
	}
	return nil
}
