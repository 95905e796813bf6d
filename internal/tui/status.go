package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages.
const (
	MsgRefreshing     = "Refreshing…"
	MsgLoadingArticle = "Loading article…"
	MsgNoResults      = "No results"
	MsgFiltersCleared = "Filters cleared"
	MsgLinkOpened     = "Opened in browser"
)

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

func MsgRefreshSummary(sources, added, errors int) string {
	base := fmt.Sprintf("Refreshed: %d sources • %d new articles", sources, added)
	if errors > 0 {
		base += fmt.Sprintf(" • %d errors", errors)
	}
	return base
}

// statusBar renders the one-line bar under the browse list: match counts,
// page position, the shareable filter query, and any transient message.
func (a *App) statusBar() string {
	v := a.controller.View()

	parts := []string{CompactLogo, v.CountLabel, v.PageLabel}

	if q := v.Query; q != "" {
		parts = append(parts, "?"+truncateMiddle(q, 40))
	}
	if badge := v.BadgeCount; badge > 0 {
		parts = append(parts, BadgeStyle.Render(fmt.Sprintf("%d", badge)))
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	if a.err != nil {
		parts = append(parts, ErrorMessageStyle.Render(truncateEnd(a.err.Error(), 60)))
	}

	return StatusBarStyle.Render(strings.Join(parts, "  •  "))
}
