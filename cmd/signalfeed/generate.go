package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/xxxxxthhh/SignalFeed/internal/site"
)

var flagOutput string

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write the static site",
	Long: `Render every stored article into a single static HTML page with the
same source and tag controls the browser offers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer store.Close()

		if flagOutput != "" {
			cfg.Site.OutputDir = flagOutput
		}

		generator, err := site.NewGenerator(store, cfg.Site)
		if err != nil {
			return err
		}

		count, err := generator.Generate()
		if err != nil {
			return fmt.Errorf("generating site: %w", err)
		}

		fmt.Printf("Wrote %d article(s) to %s\n", count, filepath.Join(cfg.Site.OutputDir, "index.html"))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides config)")
}
