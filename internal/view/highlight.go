package view

import "github.com/dm/sysmap-go/internal/model"

// Highlight classifies nodes and edges relative to a selected node.
type Highlight struct {
	Selected  string
	Neighbors map[string]bool
	Edges     map[string]bool
}

// Neighborhood computes the highlight for the node id: the node itself,
// every node one edge away in either direction, and the incident edges.
// An empty id yields an inactive highlight.
func Neighborhood(edges []model.Edge, id string) Highlight {
	h := Highlight{
		Selected:  id,
		Neighbors: make(map[string]bool),
		Edges:     make(map[string]bool),
	}
	if id == "" {
		return h
	}
	h.Neighbors[id] = true
	for _, e := range edges {
		if e.Source != id && e.Target != id {
			continue
		}
		h.Neighbors[e.Source] = true
		h.Neighbors[e.Target] = true
		h.Edges[e.Key()] = true
	}
	return h
}

// Active reports whether a node is selected.
func (h Highlight) Active() bool {
	return h.Selected != ""
}

// Contains reports whether the node id is the selection or adjacent to it.
func (h Highlight) Contains(id string) bool {
	return h.Neighbors[id]
}

// Incident reports whether the edge touches the selection.
func (h Highlight) Incident(e model.Edge) bool {
	return h.Edges[e.Key()]
}

// Dimmed reports whether the node should fade: something is selected and
// the node is not part of its neighborhood.
func (h Highlight) Dimmed(id string) bool {
	return h.Active() && !h.Contains(id)
}
