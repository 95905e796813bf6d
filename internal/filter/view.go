package filter

import (
	"fmt"
	"sort"
	"strings"
)

// Option is one selectable source or tag control. Count answers "how many
// articles would match if this control were toggled", with the other filter
// dimension still applied. Disabled options cannot add a filter that is
// guaranteed to yield nothing, but the currently selected option is never
// disabled so the user can always back out of it. Hidden options are
// suppressed by the live search narrowing without affecting results.
type Option struct {
	Key      string
	Label    string
	Count    int
	Selected bool
	Disabled bool
	Hidden   bool
}

// View is the derived presentation state recomputed after every state
// change. It is immutable; rendering layers apply it without further logic.
type View struct {
	Filtered []*Article
	Visible  []*Article

	Page       int
	TotalPages int
	Empty      bool

	CountLabel string
	Summary    string
	BadgeCount int

	Sources []Option
	Tags    []Option

	PrevDisabled bool
	NextDisabled bool
	PageLabel    string

	Query string
}

// ComputeView runs the recomputation pipeline over the catalog. It clamps
// s.Page into [1, max(1, totalPages)] in place, which is the one invariant
// the state must re-establish after any change.
func ComputeView(c *Catalog, s *State, sourceSearch, tagSearch string) View {
	var v View

	for _, a := range c.Articles {
		if MatchesAllFilters(*s, a) {
			v.Filtered = append(v.Filtered, a)
		}
	}

	v.TotalPages = (len(v.Filtered) + PageSize - 1) / PageSize
	v.Empty = len(v.Filtered) == 0

	maxPage := v.TotalPages
	if maxPage < 1 {
		maxPage = 1
	}
	if s.Page < 1 {
		s.Page = 1
	}
	if s.Page > maxPage {
		s.Page = maxPage
	}
	v.Page = s.Page

	if v.Empty {
		v.PageLabel = "page 0 / 0"
		v.PrevDisabled = true
		v.NextDisabled = true
	} else {
		start := (v.Page - 1) * PageSize
		end := start + PageSize
		if end > len(v.Filtered) {
			end = len(v.Filtered)
		}
		v.Visible = v.Filtered[start:end]
		v.PageLabel = fmt.Sprintf("page %d / %d", v.Page, v.TotalPages)
		v.PrevDisabled = v.Page <= 1
		v.NextDisabled = v.Page >= v.TotalPages
	}

	v.CountLabel = fmt.Sprintf("%d / %d", len(v.Filtered), c.Total())
	v.Summary = buildSummary(c, *s)
	v.BadgeCount = badgeCount(*s)
	v.Sources = sourceOptions(c, *s, sourceSearch)
	v.Tags = tagOptions(c, *s, tagSearch)
	v.Query = EncodeQuery(*s)

	return v
}

func badgeCount(s State) int {
	n := len(s.SelectedTags())
	if s.SourceActive() {
		n++
	}
	return n
}

// buildSummary renders the human-readable active-filter line, e.g.
// "Example Blog · go, rust (match all)".
func buildSummary(c *Catalog, s State) string {
	sourcePart := "all sources"
	if s.SourceActive() {
		sourcePart = c.SourceLabel(s.Source)
	}

	tags := s.SelectedTags()
	tagPart := "all tags"
	if len(tags) > 0 {
		labels := make([]string, len(tags))
		for i, key := range tags {
			labels[i] = c.TagLabel(key)
		}
		sort.Slice(labels, func(i, j int) bool {
			return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
		})
		tagPart = strings.Join(labels, ", ")
		if len(tags) > 1 {
			if s.Mode == ModeAnd {
				tagPart += " (match all)"
			} else {
				tagPart += " (match any)"
			}
		}
	}

	return sourcePart + " · " + tagPart
}

// sourceOptions lists the "all" sentinel followed by every known source.
// Counts apply the tag predicate only, ignoring the current source filter:
// they answer "how many would match if I picked this source instead".
func sourceOptions(c *Catalog, s State, search string) []Option {
	tagMatches := make(map[string]int)
	tagTotal := 0
	for _, a := range c.Articles {
		if MatchesTagSelection(s, a) {
			tagMatches[a.SourceKey]++
			tagTotal++
		}
	}

	term := NormalizeKey(search)

	options := make([]Option, 0, len(c.sourceOrder)+1)
	options = append(options, Option{
		Key:      AllSources,
		Label:    "all sources",
		Count:    tagTotal,
		Selected: !s.SourceActive(),
		Disabled: tagTotal == 0 && s.SourceActive(),
	})

	for _, key := range c.sourceOrder {
		label := c.sourceLabels[key]
		selected := s.Source == key
		count := tagMatches[key]
		options = append(options, Option{
			Key:      key,
			Label:    label,
			Count:    count,
			Selected: selected,
			Disabled: count == 0 && !selected,
			Hidden:   term != "" && !strings.Contains(NormalizeKey(label), term),
		})
	}

	return options
}

// tagOptions lists every known tag. Counts keep the current source filter
// applied and ask for articles carrying that tag, regardless of the current
// tag selection.
func tagOptions(c *Catalog, s State, search string) []Option {
	term := NormalizeKey(search)

	options := make([]Option, 0, len(c.tagOrder))
	for _, key := range c.tagOrder {
		label := c.tagLabels[key]
		count := 0
		for _, a := range c.Articles {
			if MatchesSource(s, a) && a.hasTag(key) {
				count++
			}
		}
		selected := s.Tags[key]
		options = append(options, Option{
			Key:      key,
			Label:    label,
			Count:    count,
			Selected: selected,
			Disabled: count == 0 && !selected,
			Hidden:   term != "" && !strings.Contains(NormalizeKey(label), term),
		})
	}

	return options
}
