package filter

import "sort"

// PageSize is the fixed number of article cards per page.
const PageSize = 10

// AllSources is the sentinel source filter meaning "no source filter".
const AllSources = "all"

// Mode selects how multiple tag filters combine.
type Mode string

const (
	// ModeOr matches articles carrying at least one selected tag.
	ModeOr Mode = "or"
	// ModeAnd matches articles carrying every selected tag.
	ModeAnd Mode = "and"
)

// State is the complete filter state. It is mutated only by the Controller
// (user interaction) and by query-string hydration at load.
type State struct {
	Source string
	Tags   map[string]bool
	Mode   Mode
	Page   int
}

// NewState returns the default state: all sources, no tags, OR matching,
// page one.
func NewState() State {
	return State{
		Source: AllSources,
		Tags:   make(map[string]bool),
		Mode:   ModeOr,
		Page:   1,
	}
}

// SelectedTags returns the selected tag keys in sorted order, for
// deterministic serialization and display.
func (s State) SelectedTags() []string {
	keys := make([]string, 0, len(s.Tags))
	for k, on := range s.Tags {
		if on {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys
}

// SourceActive reports whether a source filter other than the sentinel is
// set.
func (s State) SourceActive() bool {
	return s.Source != AllSources
}

// Active reports whether any filter dimension is non-default.
func (s State) Active() bool {
	return s.SourceActive() || len(s.SelectedTags()) > 0
}

func (s State) clone() State {
	out := s
	out.Tags = make(map[string]bool, len(s.Tags))
	for k, v := range s.Tags {
		if v {
			out.Tags[k] = true
		}
	}
	return out
}
