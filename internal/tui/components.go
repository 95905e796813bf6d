package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/xxxxxthhh/SignalFeed/internal/filter"
)

// visibleOptions drops options hidden by the narrowing search.
func visibleOptions(options []filter.Option) []filter.Option {
	out := make([]filter.Option, 0, len(options))
	for _, opt := range options {
		if !opt.Hidden {
			out = append(out, opt)
		}
	}
	return out
}

// focusedOptions returns the visible options of the section holding the
// cursor.
func (a *App) focusedOptions() []filter.Option {
	v := a.controller.View()
	if a.filterSection == sectionSources {
		return visibleOptions(v.Sources)
	}
	return visibleOptions(v.Tags)
}

// clampFilterCursor keeps the cursor on an existing option after the list
// under it changed.
func (a *App) clampFilterCursor() {
	n := len(a.focusedOptions())
	if n == 0 {
		a.filterCursor = 0
		return
	}
	if a.filterCursor >= n {
		a.filterCursor = n - 1
	}
	if a.filterCursor < 0 {
		a.filterCursor = 0
	}
}

func (a *App) renderOption(opt filter.Option, focused bool) string {
	label := fmt.Sprintf("%s (%d)", opt.Label, opt.Count)

	switch {
	case opt.Selected:
		label = SelectedOptionStyle.Render(label)
	case opt.Disabled:
		label = DisabledOptionStyle.Render(label)
	}

	if focused {
		return CursorOptionStyle.Render("› ") + label
	}
	return "  " + label
}

func (a *App) renderSection(title string, options []filter.Option, section filterSection) string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render(title))
	b.WriteString("\n")

	if len(options) == 0 {
		b.WriteString(HelpStyle.Render("  nothing matches"))
		b.WriteString("\n")
		return b.String()
	}

	for i, opt := range options {
		focused := a.filtersFocused && a.filterSection == section && a.filterCursor == i
		b.WriteString(a.renderOption(opt, focused))
		b.WriteString("\n")
	}
	return b.String()
}

// renderFilterPanel draws the collapsible filters panel. Collapsed it is a
// single summary line; expanded it lists both option sections.
func (a *App) renderFilterPanel() string {
	v := a.controller.View()

	summary := v.Summary
	if v.BadgeCount > 0 {
		summary = BadgeStyle.Render(fmt.Sprintf("%d", v.BadgeCount)) + " " + summary
	}

	if !a.controller.Expanded() {
		return StatusBarStyle.Render("filters: " + summary)
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("filters"))
	b.WriteString("  ")
	b.WriteString(summary)
	b.WriteString("\n\n")

	if a.narrowing {
		b.WriteString(a.narrowInput.View())
		b.WriteString("\n\n")
	}

	b.WriteString(a.renderSection("sources", visibleOptions(v.Sources), sectionSources))
	b.WriteString("\n")
	b.WriteString(a.renderSection("tags", visibleOptions(v.Tags), sectionTags))

	mode := "match any"
	if a.controller.State().Mode == filter.ModeAnd {
		mode = "match all"
	}
	b.WriteString("\n")
	b.WriteString(HelpStyle.Render(fmt.Sprintf("tag mode: %s  ·  tab switch section · enter select · m mode · c clear · / narrow", mode)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(SurfaceColor).
		Padding(0, 1).
		Render(b.String())
}
