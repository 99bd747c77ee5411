package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dm/sysmap-go/internal/model"
	"github.com/dm/sysmap-go/internal/view"
)

type cell struct {
	r     rune
	color lipgloss.Color
	bold  bool
}

// grid is a character raster the graph is drawn onto.
type grid struct {
	w, h  int
	cells []cell
}

func newGrid(w, h int) *grid {
	return &grid{w: w, h: h, cells: make([]cell, w*h)}
}

func (g *grid) set(x, y int, c cell) {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return
	}
	g.cells[y*g.w+x] = c
}

func (g *grid) at(x, y int) cell {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return cell{}
	}
	return g.cells[y*g.w+x]
}

func (g *grid) text(x, y int, s string, color lipgloss.Color) {
	for _, r := range s {
		if x >= g.w {
			return
		}
		g.set(x, y, cell{r: r, color: color})
		x++
	}
}

// line draws a Bresenham line between two cells, leaving the end points.
func (g *grid) line(x0, y0, x1, y1 int, c cell) {
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	e := dx + dy
	x, y := x0, y0
	for {
		if (x != x0 || y != y0) && (x != x1 || y != y1) {
			g.set(x, y, c)
		}
		if x == x1 && y == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func (g *grid) String() string {
	var sb strings.Builder
	for y := 0; y < g.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := 0; x < g.w; x++ {
			c := g.cells[y*g.w+x]
			if c.r == 0 {
				sb.WriteByte(' ')
				continue
			}
			st := lipgloss.NewStyle().Foreground(c.color).Bold(c.bold)
			sb.WriteString(st.Render(string(c.r)))
		}
	}
	return sb.String()
}

// edgeRune picks a line glyph per edge kind.
func edgeRune(kind model.EdgeKind) rune {
	switch kind {
	case model.EdgeNet:
		return '┄'
	case model.EdgeParent:
		return '·'
	case model.EdgeMount:
		return '∙'
	default:
		return '•'
	}
}

// nodeRune picks a glyph per node type. Processes grow with memory use.
func nodeRune(n *model.Node) rune {
	switch a := n.Attrs.(type) {
	case *model.HostAttrs:
		return '◆'
	case *model.CPUAttrs:
		return '■'
	case *model.RAMAttrs:
		return '▣'
	case *model.DiskAttrs:
		return '▤'
	case *model.RemoteAttrs:
		return '◎'
	case *model.ProcessAttrs:
		switch size := processSize(a.MemMB); {
		case size >= 8:
			return '●'
		case size >= 4:
			return '•'
		default:
			return '∘'
		}
	default:
		return '○'
	}
}

// processSize buckets process memory the same way the 3D view scales
// process spheres: mem_mb/50 clamped to [2, 12].
func processSize(memMB float64) float64 {
	return clamp(memMB/50, 2, 12)
}

type projected struct {
	node  *model.Node
	x, y  int
	depth float64
}

// renderGraph projects the subgraph through the camera onto a w×h grid.
// Edges go down first, then nodes from far to near. Nodes outside the
// highlight fade when a selection is active; the selection is labelled.
func renderGraph(sub view.Subgraph, hl view.Highlight, cam *orbitCamera, th theme, w, h int) string {
	if w <= 0 || h <= 0 {
		return ""
	}
	g := newGrid(w, h)

	// Off-screen nodes still anchor edges, so keep unclipped coordinates.
	type point struct {
		x, y int
		ok   bool
	}
	pts := make(map[string]point, len(sub.Nodes))
	var visible []projected
	for _, n := range sub.Nodes {
		if n.Position == nil {
			continue
		}
		x, y, depth, ok := cam.Project(*n.Position, w, h)
		pts[n.ID] = point{clampInt(x, -2*w, 3*w), clampInt(y, -2*h, 3*h), depth >= nearPlane}
		if ok {
			visible = append(visible, projected{n, x, y, depth})
		}
	}

	for _, e := range sub.Edges {
		a, aok := pts[e.Source]
		b, bok := pts[e.Target]
		if !aok || !bok || !a.ok || !b.ok {
			continue
		}
		color := th.edgeColor(e.Kind)
		if hl.Active() && !hl.Incident(e) {
			color = th.faded
		}
		g.line(a.x, a.y, b.x, b.y, cell{r: edgeRune(e.Kind), color: color})
	}

	sort.SliceStable(visible, func(i, j int) bool { return visible[i].depth > visible[j].depth })
	for _, p := range visible {
		color := th.nodeColor(p.node.Type)
		if hl.Dimmed(p.node.ID) {
			color = th.faded
		}
		g.set(p.x, p.y, cell{r: nodeRune(p.node), color: color, bold: p.node.ID == hl.Selected})
	}
	for _, p := range visible {
		if p.node.ID == hl.Selected {
			g.text(p.x+2, p.y, sanitize(p.node.Label()), th.text)
		}
	}
	return g.String()
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
