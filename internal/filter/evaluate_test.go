package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func articleWithTags(source string, tags ...string) *Article {
	return &Article{SourceLabel: source, SourceKey: NormalizeKey(source), TagKeys: tags}
}

func TestMatchesSource(t *testing.T) {
	a := articleWithTags("Go Blog", "go")

	s := NewState()
	assert.True(t, MatchesSource(s, a), "sentinel matches everything")

	s.Source = "go blog"
	assert.True(t, MatchesSource(s, a))

	s.Source = "other"
	assert.False(t, MatchesSource(s, a))
}

func TestMatchesTagSelection_EmptySelectionAlwaysTrue(t *testing.T) {
	s := NewState()
	for _, a := range []*Article{
		articleWithTags("x"),
		articleWithTags("x", "go"),
		articleWithTags("x", "go", "rust"),
	} {
		assert.True(t, MatchesTagSelection(s, a))
	}
}

func TestMatchesTagSelection_OrAndSemantics(t *testing.T) {
	both := articleWithTags("x", "go", "rust")
	onlyGo := articleWithTags("x", "go")
	onlyRust := articleWithTags("x", "rust")
	neither := articleWithTags("x", "zig")

	tests := []struct {
		name    string
		mode    Mode
		tags    []string
		article *Article
		want    bool
	}{
		{name: "or single hit", mode: ModeOr, tags: []string{"rust"}, article: onlyRust, want: true},
		{name: "or single miss", mode: ModeOr, tags: []string{"rust"}, article: onlyGo, want: false},
		{name: "or union", mode: ModeOr, tags: []string{"go", "rust"}, article: onlyGo, want: true},
		{name: "or no intersection", mode: ModeOr, tags: []string{"go", "rust"}, article: neither, want: false},
		{name: "and subset holds", mode: ModeAnd, tags: []string{"go", "rust"}, article: both, want: true},
		{name: "and subset fails", mode: ModeAnd, tags: []string{"go", "rust"}, article: onlyGo, want: false},
		{name: "and single", mode: ModeAnd, tags: []string{"rust"}, article: onlyRust, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			s.Mode = tt.mode
			for _, tag := range tt.tags {
				s.Tags[tag] = true
			}
			assert.Equal(t, tt.want, MatchesTagSelection(s, tt.article))
		})
	}
}

func TestMatchesAllFilters(t *testing.T) {
	a := articleWithTags("Go Blog", "go")

	s := NewState()
	s.Source = "go blog"
	s.Tags["go"] = true
	assert.True(t, MatchesAllFilters(s, a))

	s.Tags = map[string]bool{"rust": true}
	assert.False(t, MatchesAllFilters(s, a), "source matches but tags do not")

	s.Tags = map[string]bool{"go": true}
	s.Source = "other"
	assert.False(t, MatchesAllFilters(s, a), "tags match but source does not")
}

func TestDuplicateArticleTagsDoNotBreakSubsetTest(t *testing.T) {
	// Duplicate keys in an article's tag list are allowed; matching treats
	// the list as a set.
	a := articleWithTags("x", "go", "go")
	s := NewState()
	s.Mode = ModeAnd
	s.Tags["go"] = true
	assert.True(t, MatchesTagSelection(s, a))
}
