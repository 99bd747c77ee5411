package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	plot "github.com/chriskim06/drawille-go"

	"github.com/dm/sysmap-go/internal/format"
	"github.com/dm/sysmap-go/internal/model"
)

const (
	historyHeight = 5
	statsWidth    = 30
)

// renderHistory draws the poll history row: a braille chart of node and
// edge counts next to a latency sparkline and the latest figures.
func renderHistory(app *App, width, height int) string {
	sw := min(statsWidth, width/2)
	cw := width - sw

	chart := renderCountChart(app.history, app.theme, cw, height)
	stats := renderPollStats(app, sw, height)
	return lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(cw).Height(height).MaxHeight(height).Render(chart), stats)
}

// renderCountChart plots node and edge counts over the retained polls.
// It needs two points to draw a line.
func renderCountChart(h *model.PollHistory, th theme, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	nodes := h.Values(model.SeriesNodes)
	if len(nodes) < 2 {
		return th.dimStyle().Render("collecting poll history…")
	}
	edges := h.Values(model.SeriesEdges)

	c := plot.NewCanvas(width, height)
	c.NumDataPoints = len(nodes)
	c.ShowAxis = false
	c.LineColors = chartColors(th)
	c.Fill([][]float64{nodes, edges})
	return c.String()
}

// chartColors returns the line colours for nodes and edges.
func chartColors(th theme) []plot.Color {
	if th.name == lightTheme.name {
		return []plot.Color{plot.Black, plot.LightGray}
	}
	return []plot.Color{plot.Red, plot.DimGray}
}

func renderPollStats(app *App, width, height int) string {
	inner := width - 2
	dim := app.theme.dimStyle()
	lines := []string{
		dim.Render("latency ") + RenderSparkline(app.history.Values(model.SeriesLatency), max(0, inner-8), colorCyan),
	}
	if app.graph != nil {
		lines = append(lines, fmt.Sprintf("%s nodes  %s edges",
			format.FormatNumber(int64(len(app.graph.Nodes))),
			format.FormatNumber(int64(len(app.graph.Edges)))))
	}
	if lat := app.history.Values(model.SeriesLatency); len(lat) > 0 {
		last := lat[len(lat)-1]
		lines = append(lines, dim.Render("last fetch ")+severityToStyle(latencySeverity(last)).Render(format.FormatLatency(last)))
	}
	lines = append(lines, dim.Render(fmt.Sprintf("polls %d  reheats %d  %s",
		app.history.Len(), app.reheats, app.session.Scheduler.State())))
	if len(lines) > height {
		lines = lines[:height]
	}
	return app.theme.panel().Width(width).Height(height).MaxHeight(height).Render(strings.Join(lines, "\n"))
}
