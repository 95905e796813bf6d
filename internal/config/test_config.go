package config

import "time"

// TestConfig returns a config suitable for tests.
func TestConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path:    ":memory:",
			Timeout: 1 * time.Second,
		},
		Feed: FeedConfig{
			HTTPTimeout:       5 * time.Second,
			RefreshInterval:   1 * time.Minute,
			DefaultRetryAfter: 5 * time.Minute,
			UserAgent:         "signalfeed-test/1.0",
			MaxConcurrent:     2,
			PerSourceLimit:    10,
		},
		Enhance: defaultConfig().Enhance,
		Site:    defaultConfig().Site,
		UI:      defaultConfig().UI,
		Keys:    defaultConfig().Keys,
	}
}
