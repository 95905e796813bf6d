// Package filter implements the browse page's filter and pagination state
// machine: source and tag selection with AND/OR matching, option counts,
// query-string persistence, and fixed-size pagination over an immutable
// article catalog. It has no UI dependencies; rendering layers consume the
// View it derives.
package filter

import (
	"sort"
	"strings"

	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

// TagKeyDelimiter joins tag keys in generated markup. Chosen so it cannot
// collide with tag text, which may itself contain commas.
const TagKeyDelimiter = "|||"

// NormalizeText trims and collapses internal whitespace, keeping case.
func NormalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey produces the normalized identifier used for all equality and
// search comparisons. Labels keep their original case for display.
func NormalizeKey(s string) string {
	return strings.ToLower(NormalizeText(s))
}

// SplitTagField parses a TagKeyDelimiter-joined tag key field, dropping
// blank tokens.
func SplitTagField(field string) []string {
	var keys []string
	for _, tok := range strings.Split(field, TagKeyDelimiter) {
		if key := NormalizeKey(tok); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// JoinTagField is the inverse of SplitTagField, used when rendering article
// cards.
func JoinTagField(keys []string) string {
	return strings.Join(keys, TagKeyDelimiter)
}

// Article is one filterable card. Ref is the opaque display handle to the
// stored article; the remaining fields are the normalized metadata the
// predicates operate on.
type Article struct {
	Ref         *storage.Article
	SourceLabel string
	SourceKey   string
	TagKeys     []string
}

func (a *Article) hasTag(key string) bool {
	for _, k := range a.TagKeys {
		if k == key {
			return true
		}
	}
	return false
}

// Catalog is the immutable set of articles plus the label lookup tables,
// built once at load. Article order is preserved from the input and never
// changes; filtered views are subsequences of it.
type Catalog struct {
	Articles []*Article

	sourceLabels map[string]string
	tagLabels    map[string]string
	sourceOrder  []string
	tagOrder     []string
}

// NewCatalog ingests stored articles in their given order. Source labels are
// whitespace-normalized with "Unknown" as fallback; per-article duplicate
// tags collapse to one key; the first label seen for a key wins.
func NewCatalog(stored []*storage.Article) *Catalog {
	c := &Catalog{
		sourceLabels: make(map[string]string),
		tagLabels:    make(map[string]string),
	}

	sourceCounts := make(map[string]int)
	tagCounts := make(map[string]int)

	for _, sa := range stored {
		label := NormalizeText(sa.SourceLabel)
		if label == "" {
			label = "Unknown"
		}
		art := &Article{
			Ref:         sa,
			SourceLabel: label,
			SourceKey:   NormalizeKey(label),
		}

		seen := make(map[string]bool)
		for _, tag := range sa.Tags {
			tagLabel := NormalizeText(tag.Label)
			if tagLabel == "" {
				continue
			}
			key := NormalizeKey(tagLabel)
			if seen[key] {
				continue
			}
			seen[key] = true
			art.TagKeys = append(art.TagKeys, key)
			if _, ok := c.tagLabels[key]; !ok {
				c.tagLabels[key] = tagLabel
			}
			tagCounts[key]++
		}

		if _, ok := c.sourceLabels[art.SourceKey]; !ok {
			c.sourceLabels[art.SourceKey] = label
		}
		sourceCounts[art.SourceKey]++

		c.Articles = append(c.Articles, art)
	}

	c.sourceOrder = orderedKeys(c.sourceLabels, sourceCounts)
	c.tagOrder = orderedKeys(c.tagLabels, tagCounts)

	return c
}

// orderedKeys sorts option keys by descending count, then label, matching the
// order the generated page presents controls in.
func orderedKeys(labels map[string]string, counts map[string]int) []string {
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return strings.ToLower(labels[keys[i]]) < strings.ToLower(labels[keys[j]])
	})
	return keys
}

func (c *Catalog) Total() int { return len(c.Articles) }

func (c *Catalog) KnownSource(key string) bool {
	_, ok := c.sourceLabels[key]
	return ok
}

func (c *Catalog) KnownTag(key string) bool {
	_, ok := c.tagLabels[key]
	return ok
}

// SourceLabel returns the display label for a source key, falling back to
// the key itself for unknown keys.
func (c *Catalog) SourceLabel(key string) string {
	if label, ok := c.sourceLabels[key]; ok {
		return label
	}
	return key
}

func (c *Catalog) TagLabel(key string) string {
	if label, ok := c.tagLabels[key]; ok {
		return label
	}
	return key
}
