package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/sysmap-go/internal/format"
)

const (
	sidebarMax = 40
	sidebarMin = 24
)

// renderBody lays out the graph canvas and the sidebar side by side.
func renderBody(app *App, width, height int) string {
	sw := min(sidebarMax, width/3)
	if sw < sidebarMin {
		sw = 0
	}
	cw := width - sw

	canvasH := height
	var overlay string
	if o := overlayText(app); o != "" {
		overlay = lipgloss.PlaceHorizontal(cw, lipgloss.Center, o)
		canvasH--
	}
	canvas := renderGraph(app.sub, app.highlight, app.camera, app.theme, cw, canvasH)
	if overlay != "" {
		canvas = overlay + "\n" + canvas
	}
	if sw == 0 {
		return canvas
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, canvas, renderSidebar(app, sw, height))
}

// overlayText is the banner over the canvas while something is wrong.
func overlayText(app *App) string {
	switch {
	case app.resolveErr != nil:
		return StyleError.Render("Backend not reachable")
	case app.base != "" && app.session.LastError != nil:
		return StyleWarn.Render("Reconnecting…")
	case app.graph != nil && app.query != "" && app.sub.Empty():
		return app.theme.dimStyle().Render(fmt.Sprintf("no nodes match %q", app.query))
	}
	return ""
}

// renderSidebar lists the visible nodes and, below, details of the
// selection.
func renderSidebar(app *App, width, height int) string {
	inner := width - 2
	dim := app.theme.dimStyle()
	var lines []string

	lines = append(lines, StyleKey.Render(fmt.Sprintf("Nodes (%d)", len(app.sub.Nodes))))
	listH := height / 2
	start := 0
	if app.cursor >= listH-1 {
		start = app.cursor - (listH - 2)
	}
	for i := start; i < len(app.sub.Nodes) && len(lines) < listH; i++ {
		n := app.sub.Nodes[i]
		marker := "  "
		if i == app.cursor {
			marker = "> "
		}
		color := app.theme.nodeColor(n.Type)
		if app.highlight.Dimmed(n.ID) {
			color = app.theme.faded
		}
		glyph := lipgloss.NewStyle().Foreground(color).Render(string(nodeRune(n)))
		style := severityToStyle(nodeSeverity(n))
		if n.ID == app.highlight.Selected {
			style = style.Bold(true)
		}
		label := style.Render(truncate(sanitize(n.Label()), inner-4))
		lines = append(lines, marker+glyph+" "+label)
	}

	if sel := app.graph.Lookup(app.highlight.Selected); sel != nil {
		lines = append(lines, "", StyleKey.Render("Details"))
		for _, l := range format.DetailLines(sel, app.detail, app.now()) {
			lines = append(lines, dim.Render(l.Key+": ")+truncate(sanitize(l.Value), max(0, inner-len(l.Key)-2)))
		}
	}

	if len(lines) > height {
		lines = lines[:height]
	}
	return app.theme.panel().Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}
