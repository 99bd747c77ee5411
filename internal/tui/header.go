package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/sysmap-go/internal/format"
)

// renderHeader renders the top bar.
//
// Layout:
//
//	left:   "sysmap  <base>" (or "probing backend…" before discovery)
//	center: connection indicator: LIVE, PAUSED, RECONNECTING, UNREACHABLE
//	right:  "updated HH:MM:SS  Poll: Ns"
func renderHeader(app *App, width int) string {
	left := "sysmap"
	switch {
	case app.base != "":
		left += "  " + sanitize(app.base)
	case app.resolving:
		left += "  probing backend…"
	}

	center, right := connectionStatus(app)

	innerWidth := width - 2
	spacing := innerWidth - lipgloss.Width(left) - lipgloss.Width(center) - lipgloss.Width(right)
	if spacing < 0 {
		spacing = 0
	}
	leftSpacing := spacing / 2
	row := left +
		strings.Repeat(" ", leftSpacing) +
		center +
		strings.Repeat(" ", spacing-leftSpacing) +
		right

	return app.theme.header().Width(width).MaxHeight(1).Render(row)
}

func connectionStatus(app *App) (center, right string) {
	sched := app.session.Scheduler
	switch {
	case app.resolveErr != nil:
		return StyleError.Render("● BACKEND NOT REACHABLE"), StyleError.Render("Press R to retry")
	case app.base == "":
		return StyleWarn.Render("● PROBING"), ""
	case app.session.LastError != nil:
		center = StyleError.Render("● RECONNECTING  " + classifyError(app.session.LastError))
		if sched.AutoRefresh() && app.retryIn > 0 {
			right = StyleError.Render("retry in " + formatDuration(app.retryIn))
		} else {
			right = StyleError.Render("Press r to retry")
		}
		return center, right
	case !sched.AutoRefresh():
		center = StyleStopped.Render("● PAUSED")
	default:
		center = StyleLive.Render("● LIVE")
	}
	right = app.theme.dimStyle().Render(fmt.Sprintf("updated %s  Poll: %s",
		format.FormatClock(app.session.LastUpdated), formatDuration(sched.Interval())))
	return center, right
}

// formatDuration formats an interval compactly, e.g. "2s", "1.5s", "2m" or "1m30s".
func formatDuration(d time.Duration) string {
	if d >= time.Minute {
		m, sec := int(d/time.Minute), int((d%time.Minute)/time.Second)
		if sec == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, sec)
	}
	if d%time.Second == 0 {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:max(0, n)])
	}
	return string(r[:n-1]) + "…"
}
