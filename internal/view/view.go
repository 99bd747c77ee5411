// Package view derives what the dashboard shows from the canonical graph:
// the filtered subgraph and the highlight around a selected node. Nothing
// here mutates the graph.
package view

import (
	"strings"

	"github.com/dm/sysmap-go/internal/model"
)

// Subgraph is the part of the canonical graph that survives a filter.
type Subgraph struct {
	Nodes []*model.Node
	Edges []model.Edge
	// Focus is the id of the first surviving node, the one the camera moves
	// to. Empty when nothing matched or no filter is active.
	Focus string
	// Full reports that no filter is active and the subgraph is the whole
	// canonical graph.
	Full bool
}

// Empty reports whether the filter matched nothing.
func (s Subgraph) Empty() bool {
	return len(s.Nodes) == 0
}

// Filter keeps the nodes whose label or id contains query, ignoring case,
// and the edges whose endpoints both survive. A blank query returns the
// whole graph. Node order follows the canonical graph.
func Filter(g *model.Graph, query string) Subgraph {
	if g == nil {
		return Subgraph{Full: strings.TrimSpace(query) == ""}
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Subgraph{Nodes: g.Nodes, Edges: g.Edges, Full: true}
	}

	var sub Subgraph
	keep := make(map[string]bool)
	for _, n := range g.Nodes {
		if matches(n, q) {
			sub.Nodes = append(sub.Nodes, n)
			keep[n.ID] = true
		}
	}
	for _, e := range g.Edges {
		if keep[e.Source] && keep[e.Target] {
			sub.Edges = append(sub.Edges, e)
		}
	}
	if len(sub.Nodes) > 0 {
		sub.Focus = sub.Nodes[0].ID
	}
	return sub
}

func matches(n *model.Node, q string) bool {
	return strings.Contains(strings.ToLower(n.Label()), q) ||
		strings.Contains(strings.ToLower(n.ID), q)
}
