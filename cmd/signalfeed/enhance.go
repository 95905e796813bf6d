package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xxxxxthhh/SignalFeed/internal/enhance"
)

var flagBatch int

var enhanceCmd = &cobra.Command{
	Use:   "enhance",
	Short: "Summarize unenhanced articles with an AI model",
	Long: `Run the AI enhancement pass: every article without a summary gets a
summary, key points, and extra tags, up to the batch size.

The API key is read from the environment variable named by
enhance.api_key_env in the config (default DEEPSEEK_API_KEY).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, store, err := loadEnvironment()
		if err != nil {
			return err
		}
		defer store.Close()

		client, err := enhance.NewClient(cfg.Enhance)
		if err != nil {
			return err
		}

		batch := cfg.Enhance.BatchSize
		if flagBatch > 0 {
			batch = flagBatch
		}

		enhanced, err := enhance.NewEnhancer(store, client, batch).Run(context.Background())
		if err != nil {
			return fmt.Errorf("enhancing articles: %w", err)
		}

		if enhanced == 0 {
			fmt.Println("Nothing to enhance.")
		} else {
			fmt.Printf("Enhanced %d article(s).\n", enhanced)
		}
		return nil
	},
}

func init() {
	enhanceCmd.Flags().IntVar(&flagBatch, "batch", 0, "override the batch size")
}
