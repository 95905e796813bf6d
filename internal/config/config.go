package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feed     FeedConfig     `mapstructure:"feed"`
	Enhance  EnhanceConfig  `mapstructure:"enhance"`
	Site     SiteConfig     `mapstructure:"site"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
}

type DatabaseConfig struct {
	Path        string        `mapstructure:"path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	SearchIndex string        `mapstructure:"search_index"`
}

type FeedConfig struct {
	HTTPTimeout       time.Duration `mapstructure:"http_timeout"`
	RefreshInterval   time.Duration `mapstructure:"refresh_interval"`
	DefaultRetryAfter time.Duration `mapstructure:"default_retry_after"`
	UserAgent         string        `mapstructure:"user_agent"`
	MaxConcurrent     int           `mapstructure:"max_concurrent"`
	PerSourceLimit    int           `mapstructure:"per_source_limit"`
}

// EnhanceConfig drives the optional AI summarization pass. The API key is
// read from the named environment variable, never from the config file.
type EnhanceConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Model     string        `mapstructure:"model"`
	APIKeyEnv string        `mapstructure:"api_key_env"`
	Timeout   time.Duration `mapstructure:"timeout"`
	BatchSize int           `mapstructure:"batch_size"`
}

type SiteConfig struct {
	OutputDir string `mapstructure:"output_dir"`
	Title     string `mapstructure:"title"`
	MaxAge    int    `mapstructure:"max_age_days"`
}

type UIConfig struct {
	Colors  UIColors      `mapstructure:"colors"`
	Article ArticleConfig `mapstructure:"article"`
}

type UIColors struct {
	Primary    string `mapstructure:"primary"`
	Secondary  string `mapstructure:"secondary"`
	Accent     string `mapstructure:"accent"`
	Background string `mapstructure:"background"`
	Surface    string `mapstructure:"surface"`
	Text       string `mapstructure:"text"`
	Muted      string `mapstructure:"muted"`
	Error      string `mapstructure:"error"`
	Success    string `mapstructure:"success"`
}

type ArticleConfig struct {
	MaxDescriptionLength int `mapstructure:"max_description_length"`
	WordWrapMaxWidth     int `mapstructure:"word_wrap_max_width"`
	WordWrapMinWidth     int `mapstructure:"word_wrap_min_width"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit          string `mapstructure:"quit"`
	Search        string `mapstructure:"search"`
	ToggleFilters string `mapstructure:"toggle_filters"`
	ClearFilters  string `mapstructure:"clear_filters"`
	ToggleMode    string `mapstructure:"toggle_mode"`
	NextPage      string `mapstructure:"next_page"`
	PrevPage      string `mapstructure:"prev_page"`
	Refresh       string `mapstructure:"refresh"`
	Open          string `mapstructure:"open"`
	Back          string `mapstructure:"back"`
	Help          string `mapstructure:"help"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()
	dataDir := filepath.Join(homeDir, ".signalfeed")

	return &Config{
		Database: DatabaseConfig{
			Path:        filepath.Join(dataDir, "signalfeed.db"),
			Timeout:     1 * time.Second,
			SearchIndex: filepath.Join(dataDir, "index.bleve"),
		},
		Feed: FeedConfig{
			HTTPTimeout:       30 * time.Second,
			RefreshInterval:   30 * time.Minute,
			DefaultRetryAfter: 15 * time.Minute,
			UserAgent:         "signalfeed/1.0 (https://github.com/xxxxxthhh/SignalFeed)",
			MaxConcurrent:     5,
			PerSourceLimit:    10,
		},
		Enhance: EnhanceConfig{
			BaseURL:   "https://api.deepseek.com/v1",
			Model:     "deepseek-chat",
			APIKeyEnv: "DEEPSEEK_API_KEY",
			Timeout:   60 * time.Second,
			BatchSize: 10,
		},
		Site: SiteConfig{
			OutputDir: filepath.Join(dataDir, "site"),
			Title:     "SignalFeed",
			MaxAge:    14,
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:    "#FF6B6B",
				Secondary:  "#4ECDC4",
				Accent:     "#95E1D3",
				Background: "#1A1A2E",
				Surface:    "#16213E",
				Text:       "#EAEAEA",
				Muted:      "#94A3B8",
				Error:      "#F87171",
				Success:    "#4ADE80",
			},
			Article: ArticleConfig{
				MaxDescriptionLength: 500,
				WordWrapMaxWidth:     120,
				WordWrapMinWidth:     40,
			},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:          "q",
				Search:        "/",
				ToggleFilters: "f",
				ClearFilters:  "c",
				ToggleMode:    "m",
				NextPage:      "n",
				PrevPage:      "p",
				Refresh:       "r",
				Open:          "o",
				Back:          "esc",
				Help:          "?",
			},
		},
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	cfg := defaultConfig()
	v.SetDefault("database", cfg.Database)
	v.SetDefault("feed", cfg.Feed)
	v.SetDefault("enhance", cfg.Enhance)
	v.SetDefault("site", cfg.Site)
	v.SetDefault("ui", cfg.UI)
	v.SetDefault("keys", cfg.Keys)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "signalfeed")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("SIGNALFEED")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// expandPath expands a leading ~ and resolves relative paths.
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Database.SearchIndex = expandPath(cfg.Database.SearchIndex)
	cfg.Site.OutputDir = expandPath(cfg.Site.OutputDir)
}

func Save(config *Config, path string) error {
	v := viper.New()

	// Durations are written as strings so the TOML stays readable.
	dbCfg := map[string]interface{}{
		"path":         config.Database.Path,
		"timeout":      config.Database.Timeout.String(),
		"search_index": config.Database.SearchIndex,
	}

	feedCfg := map[string]interface{}{
		"http_timeout":        config.Feed.HTTPTimeout.String(),
		"refresh_interval":    config.Feed.RefreshInterval.String(),
		"default_retry_after": config.Feed.DefaultRetryAfter.String(),
		"user_agent":          config.Feed.UserAgent,
		"max_concurrent":      config.Feed.MaxConcurrent,
		"per_source_limit":    config.Feed.PerSourceLimit,
	}

	enhanceCfg := map[string]interface{}{
		"base_url":    config.Enhance.BaseURL,
		"model":       config.Enhance.Model,
		"api_key_env": config.Enhance.APIKeyEnv,
		"timeout":     config.Enhance.Timeout.String(),
		"batch_size":  config.Enhance.BatchSize,
	}

	v.Set("database", dbCfg)
	v.Set("feed", feedCfg)
	v.Set("enhance", enhanceCfg)
	v.Set("site", config.Site)
	v.Set("ui", config.UI)
	v.Set("keys", config.Keys)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(path)
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
