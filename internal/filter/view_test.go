package filter

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/xxxxxthhh/SignalFeed/internal/storage"
)

// viewTestCatalog builds 25 articles across two sources. Articles 0,5,10,...
// carry "rust"; articles 0,10,20 also carry "go"; even-indexed articles come
// from Alpha, odd from Beta.
func viewTestCatalog() *Catalog {
	var stored []*storage.Article
	for i := 0; i < 25; i++ {
		source := "Alpha"
		if i%2 == 1 {
			source = "Beta"
		}
		var tags []storage.Tag
		if i%5 == 0 {
			tags = append(tags, storage.Tag{Label: "rust", Key: "rust"})
		}
		if i%10 == 0 {
			tags = append(tags, storage.Tag{Label: "go", Key: "go"})
		}
		stored = append(stored, &storage.Article{
			ID:          fmt.Sprintf("a%d", i),
			SourceLabel: source,
			Tags:        tags,
		})
	}
	return NewCatalog(stored)
}

func TestComputeView_FirstPageOf25(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()

	v := ComputeView(c, &s, "", "")

	assert.Len(t, v.Filtered, 25)
	assert.Len(t, v.Visible, 10)
	assert.Equal(t, "a0", v.Visible[0].Ref.ID)
	assert.Equal(t, "a9", v.Visible[9].Ref.ID)
	assert.Equal(t, 3, v.TotalPages)
	assert.Equal(t, "page 1 / 3", v.PageLabel)
	assert.True(t, v.PrevDisabled)
	assert.False(t, v.NextDisabled)
	assert.Equal(t, "25 / 25", v.CountLabel)
	assert.Equal(t, "all sources · all tags", v.Summary)
	assert.Equal(t, 0, v.BadgeCount)
	assert.Empty(t, v.Query)
}

func TestComputeView_LastPagePartial(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()
	s.Page = 3

	v := ComputeView(c, &s, "", "")

	assert.Len(t, v.Visible, 5)
	assert.Equal(t, "a20", v.Visible[0].Ref.ID)
	assert.False(t, v.PrevDisabled)
	assert.True(t, v.NextDisabled)
	assert.Equal(t, "page 3 / 3", v.PageLabel)
}

func TestComputeView_PageClamped(t *testing.T) {
	c := viewTestCatalog()

	s := NewState()
	s.Page = 99
	v := ComputeView(c, &s, "", "")
	assert.Equal(t, 3, s.Page, "page clamps into [1, totalPages]")
	assert.Equal(t, 3, v.Page)

	s.Page = -4
	v = ComputeView(c, &s, "", "")
	assert.Equal(t, 1, s.Page)
	assert.Equal(t, 1, v.Page)
}

func TestComputeView_FilteredPreservesOrder(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()
	s.Tags["rust"] = true

	v := ComputeView(c, &s, "", "")

	want := []string{"a0", "a5", "a10", "a15", "a20"}
	var got []string
	for _, a := range v.Filtered {
		got = append(got, a.Ref.ID)
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "5 / 25", v.CountLabel)
}

func TestComputeView_OrUnionAndIntersection(t *testing.T) {
	c := viewTestCatalog()

	// rust alone.
	s := NewState()
	s.Tags["rust"] = true
	v := ComputeView(c, &s, "", "")
	assert.Len(t, v.Filtered, 5)

	// rust OR go: union (go articles are a subset of rust ones here, so
	// still 5).
	s.Tags["go"] = true
	v = ComputeView(c, &s, "", "")
	assert.Len(t, v.Filtered, 5)

	// rust AND go: only articles carrying both.
	s.Mode = ModeAnd
	v = ComputeView(c, &s, "", "")
	assert.Len(t, v.Filtered, 3)
	assert.Equal(t, "a0", v.Filtered[0].Ref.ID)
}

func TestComputeView_EmptyState(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()
	s.Source = "beta"
	s.Tags["go"] = true // go articles are all even-indexed, i.e. Alpha

	v := ComputeView(c, &s, "", "")

	assert.True(t, v.Empty)
	assert.Empty(t, v.Visible)
	assert.Equal(t, "page 0 / 0", v.PageLabel)
	assert.True(t, v.PrevDisabled)
	assert.True(t, v.NextDisabled)
	assert.Equal(t, "0 / 25", v.CountLabel)
	assert.Equal(t, 1, s.Page, "page stays at 1 when there are no results")
}

func TestComputeView_SummaryAndBadge(t *testing.T) {
	c := viewTestCatalog()

	s := NewState()
	s.Source = "alpha"
	v := ComputeView(c, &s, "", "")
	assert.Equal(t, "Alpha · all tags", v.Summary)
	assert.Equal(t, 1, v.BadgeCount)

	s.Tags["rust"] = true
	v = ComputeView(c, &s, "", "")
	assert.Equal(t, "Alpha · rust", v.Summary)
	assert.Equal(t, 2, v.BadgeCount)

	// Mode annotation appears only with more than one tag.
	s.Tags["go"] = true
	s.Mode = ModeAnd
	v = ComputeView(c, &s, "", "")
	assert.Equal(t, "Alpha · go, rust (match all)", v.Summary)
	assert.Equal(t, 3, v.BadgeCount)

	s.Mode = ModeOr
	v = ComputeView(c, &s, "", "")
	assert.Equal(t, "Alpha · go, rust (match any)", v.Summary)
}

func TestComputeView_SourceCountsIgnoreSourceFilter(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()
	s.Source = "alpha"
	s.Tags["rust"] = true

	v := ComputeView(c, &s, "", "")

	// rust articles: a0,a5,a10,a15,a20 → Alpha has 3 (even), Beta 2 (odd).
	counts := map[string]int{}
	for _, opt := range v.Sources {
		counts[opt.Key] = opt.Count
	}
	assert.Equal(t, 5, counts[AllSources], "all option counts tag-predicate matches")
	assert.Equal(t, 3, counts["alpha"])
	assert.Equal(t, 2, counts["beta"], "count ignores the active source filter")
}

func TestComputeView_TagCountsScopedBySource(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()
	s.Source = "beta"

	v := ComputeView(c, &s, "", "")

	counts := map[string]int{}
	for _, opt := range v.Tags {
		counts[opt.Key] = opt.Count
	}
	// Beta (odd indices) has rust at a5,a15 and no go articles.
	assert.Equal(t, 2, counts["rust"])
	assert.Equal(t, 0, counts["go"])
}

func TestComputeView_ZeroCountDisableRules(t *testing.T) {
	c := viewTestCatalog()

	// go tag selected: only Alpha articles carry go, so Beta's would-be
	// count is zero and the option is disabled.
	s := NewState()
	s.Tags["go"] = true
	v := ComputeView(c, &s, "", "")
	for _, opt := range v.Sources {
		if opt.Key == "beta" {
			assert.Equal(t, 0, opt.Count)
			assert.True(t, opt.Disabled)
		}
	}

	// But a selected source stays enabled even at zero count.
	s.Source = "beta"
	v = ComputeView(c, &s, "", "")
	for _, opt := range v.Sources {
		if opt.Key == "beta" {
			assert.True(t, opt.Selected)
			assert.False(t, opt.Disabled, "active selection is never locked out")
		}
	}

	// Same rule for tags: with source=beta, go has zero count and is
	// disabled until it is the active selection.
	s = NewState()
	s.Source = "beta"
	v = ComputeView(c, &s, "", "")
	for _, opt := range v.Tags {
		if opt.Key == "go" {
			assert.True(t, opt.Disabled)
		}
	}
	s.Tags["go"] = true
	v = ComputeView(c, &s, "", "")
	for _, opt := range v.Tags {
		if opt.Key == "go" {
			assert.True(t, opt.Selected)
			assert.False(t, opt.Disabled)
		}
	}
}

func TestComputeView_SearchNarrowingHidesOptions(t *testing.T) {
	c := viewTestCatalog()
	s := NewState()

	v := ComputeView(c, &s, "alp", "ru")

	for _, opt := range v.Sources {
		switch opt.Key {
		case AllSources:
			assert.False(t, opt.Hidden, "sentinel option is never hidden")
		case "alpha":
			assert.False(t, opt.Hidden)
		case "beta":
			assert.True(t, opt.Hidden)
		}
	}
	for _, opt := range v.Tags {
		switch opt.Key {
		case "rust":
			assert.False(t, opt.Hidden)
		case "go":
			assert.True(t, opt.Hidden)
		}
	}

	// Narrowing never changes the result set.
	assert.Len(t, v.Filtered, 25)
}
