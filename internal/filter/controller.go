package filter

import "strings"

// Preferences is the best-effort persisted preference surface. A failed or
// absent read reports ok=false and the caller falls back to its default;
// write failures are ignored by the controller.
type Preferences interface {
	BoolPref(key string) (value, ok bool)
	SetBoolPref(key string, value bool) error
}

// History receives the canonical query string after each recomputation, the
// equivalent of a non-navigating history replacement. Errors are swallowed:
// a permalink that fails to update is cosmetic.
type History interface {
	ReplaceQuery(query string) error
}

// ExpandedPrefKey stores the filters-panel expansion preference.
const ExpandedPrefKey = "filters_expanded"

// Controller owns the filter state and is the only mutator of it. Every
// mutation runs the synchronous recomputation pipeline and leaves a fresh
// View behind.
type Controller struct {
	catalog *Catalog
	state   State
	prefs   Preferences
	history History

	sourceSearch string
	tagSearch    string
	expanded     bool

	view View
}

type ControllerOption func(*Controller)

func WithPreferences(p Preferences) ControllerOption {
	return func(c *Controller) { c.prefs = p }
}

func WithHistory(h History) ControllerOption {
	return func(c *Controller) { c.history = h }
}

// WithQuery hydrates the initial state from a query string. The query is the
// source of truth at load; unknown keys fall back to defaults.
func WithQuery(raw string) ControllerOption {
	return func(c *Controller) { c.state = DecodeQuery(raw, c.catalog) }
}

// NewController hydrates state, resolves the panel expansion default (forced
// open when any filter is active, otherwise the persisted preference,
// otherwise collapsed), and runs the first recomputation without rewriting
// the query string.
func NewController(catalog *Catalog, opts ...ControllerOption) *Controller {
	c := &Controller{
		catalog: catalog,
		state:   NewState(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.state.Active() {
		c.expanded = true
	} else if c.prefs != nil {
		if v, ok := c.prefs.BoolPref(ExpandedPrefKey); ok {
			c.expanded = v
		}
	}

	c.recompute(false)
	return c
}

// View returns the presentation state derived by the last recomputation.
func (c *Controller) View() View { return c.view }

// State returns a copy of the current filter state.
func (c *Controller) State() State { return c.state.clone() }

func (c *Controller) Catalog() *Catalog { return c.catalog }

func (c *Controller) Expanded() bool { return c.expanded }

func (c *Controller) SourceSearch() string { return c.sourceSearch }

func (c *Controller) TagSearch() string { return c.tagSearch }

// SetSource selects a source filter. Unknown keys reset to the sentinel.
// Filter changes reset pagination.
func (c *Controller) SetSource(key string) {
	key = NormalizeKey(key)
	if key == "" || (key != AllSources && !c.catalog.KnownSource(key)) {
		key = AllSources
	}
	c.state.Source = key
	c.state.Page = 1
	c.recompute(true)
}

// ToggleTag flips a tag filter. Unknown keys are ignored.
func (c *Controller) ToggleTag(key string) {
	key = NormalizeKey(key)
	if !c.catalog.KnownTag(key) {
		return
	}
	if c.state.Tags[key] {
		delete(c.state.Tags, key)
	} else {
		c.state.Tags[key] = true
	}
	c.state.Page = 1
	c.recompute(true)
}

func (c *Controller) SetMode(mode Mode) {
	if mode != ModeAnd && mode != ModeOr {
		return
	}
	if c.state.Mode == mode {
		return
	}
	c.state.Mode = mode
	c.state.Page = 1
	c.recompute(true)
}

// ClearFilters resets every filter dimension to its default.
func (c *Controller) ClearFilters() {
	c.state = NewState()
	c.recompute(true)
}

// GoToPage navigates without touching filters; the page clamps during
// recomputation.
func (c *Controller) GoToPage(page int) {
	c.state.Page = page
	c.recompute(true)
}

func (c *Controller) NextPage() {
	if !c.view.NextDisabled {
		c.GoToPage(c.state.Page + 1)
	}
}

func (c *Controller) PrevPage() {
	if !c.view.PrevDisabled {
		c.GoToPage(c.state.Page - 1)
	}
}

// SetSourceSearch narrows which source options are visible. If the narrowing
// hides the currently selected source, the selection resets to the sentinel
// so the control never displays a choice the user cannot see.
func (c *Controller) SetSourceSearch(term string) {
	c.sourceSearch = term
	if c.state.SourceActive() {
		needle := NormalizeKey(term)
		label := NormalizeKey(c.catalog.SourceLabel(c.state.Source))
		if needle != "" && !strings.Contains(label, needle) {
			c.state.Source = AllSources
			c.state.Page = 1
		}
	}
	c.recompute(true)
}

// SetTagSearch narrows which tag options are visible; selections are kept
// even when hidden.
func (c *Controller) SetTagSearch(term string) {
	c.tagSearch = term
	c.recompute(true)
}

// TogglePanel flips the filters panel and persists the preference
// best-effort.
func (c *Controller) TogglePanel() {
	c.expanded = !c.expanded
	if c.prefs != nil {
		_ = c.prefs.SetBoolPref(ExpandedPrefKey, c.expanded)
	}
}

func (c *Controller) recompute(sync bool) {
	c.view = ComputeView(c.catalog, &c.state, c.sourceSearch, c.tagSearch)
	if sync && c.history != nil {
		_ = c.history.ReplaceQuery(c.view.Query)
	}
}
