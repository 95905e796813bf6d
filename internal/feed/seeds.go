package feed

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed feeds.toml
var seedsTOML []byte

// Seed is one curated feed shipped with the binary.
type Seed struct {
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

type seedsFile struct {
	Feeds []Seed `toml:"feeds"`
}

// LoadSeeds returns the built-in feed list, optionally extended by a user
// feeds.toml in the given directory.
func LoadSeeds(userDir string) ([]Seed, error) {
	var file seedsFile
	if err := toml.Unmarshal(seedsTOML, &file); err != nil {
		return nil, fmt.Errorf("parsing feeds.toml: %w", err)
	}
	seeds := file.Feeds

	if userDir != "" {
		userPath := filepath.Join(userDir, "feeds.toml")
		if data, err := os.ReadFile(userPath); err == nil {
			var userFile seedsFile
			if err := toml.Unmarshal(data, &userFile); err != nil {
				return nil, fmt.Errorf("parsing %s: %w", userPath, err)
			}
			seeds = mergeSeeds(seeds, userFile.Feeds)
		}
	}

	return seeds, nil
}

// mergeSeeds appends user feeds, letting a user entry with a matching URL
// override the built-in name.
func mergeSeeds(builtin, user []Seed) []Seed {
	byURL := make(map[string]int, len(builtin))
	merged := make([]Seed, len(builtin))
	copy(merged, builtin)
	for i, s := range merged {
		byURL[s.URL] = i
	}
	for _, s := range user {
		if i, ok := byURL[s.URL]; ok {
			merged[i] = s
			continue
		}
		byURL[s.URL] = len(merged)
		merged = append(merged, s)
	}
	return merged
}
