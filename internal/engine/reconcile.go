package engine

import "github.com/dm/sysmap-go/internal/model"

// Strategy is how a snapshot was folded into the canonical graph.
type Strategy int

const (
	// FirstLoad adopts the snapshot as-is; there is nothing to carry over.
	FirstLoad Strategy = iota
	// Structural replaces the graph, carrying positions over by node id.
	Structural
	// MetadataOnly keeps the canonical graph and refreshes node attributes.
	MetadataOnly
)

func (s Strategy) String() string {
	switch s {
	case FirstLoad:
		return "first-load"
	case Structural:
		return "structural"
	case MetadataOnly:
		return "metadata"
	default:
		return "unknown"
	}
}

// Result is the outcome of Reconcile.
type Result struct {
	Graph    *model.Graph
	Strategy Strategy
}

// Reheat reports whether the layout should be nudged to settle again.
func (r Result) Reheat() bool {
	return r.Strategy == Structural
}

// Reconcile folds next into the canonical graph prior (nil before the first
// successful poll).
//
// When the shape is unchanged the returned graph is prior itself: node
// pointers, positions, velocities and edges are untouched and only each
// node's Attrs is replaced from next. Attribute churn must never move the
// layout.
func Reconcile(prior *model.Graph, next *model.Snapshot) Result {
	if prior == nil {
		return Result{
			Graph:    &model.Graph{Nodes: next.Nodes, Edges: next.Edges, GeneratedAt: next.GeneratedAt},
			Strategy: FirstLoad,
		}
	}
	if StructuralChange(prior, next) {
		return Result{Graph: MergePositions(prior, next), Strategy: Structural}
	}

	updated := model.Index(next.Nodes)
	for _, n := range prior.Nodes {
		if u, ok := updated[n.ID]; ok {
			n.Attrs = u.Attrs
		}
	}
	prior.GeneratedAt = next.GeneratedAt
	return Result{Graph: prior, Strategy: MetadataOnly}
}

// StructuralChange reports whether next adds anything to prior: a different
// node or edge count, a node id prior lacks, or an edge key (source->target)
// prior lacks. With equal counts and no additions nothing can have been
// removed either. Edge kind is not part of the key.
func StructuralChange(prior *model.Graph, next *model.Snapshot) bool {
	if prior == nil {
		return true
	}
	if len(prior.Nodes) != len(next.Nodes) || len(prior.Edges) != len(next.Edges) {
		return true
	}

	ids := make(map[string]struct{}, len(prior.Nodes))
	for _, n := range prior.Nodes {
		ids[n.ID] = struct{}{}
	}
	for _, n := range next.Nodes {
		if _, ok := ids[n.ID]; !ok {
			return true
		}
	}

	keys := make(map[string]struct{}, len(prior.Edges))
	for _, e := range prior.Edges {
		keys[e.Key()] = struct{}{}
	}
	for _, e := range next.Edges {
		if _, ok := keys[e.Key()]; !ok {
			return true
		}
	}
	return false
}

// MergePositions builds a new canonical graph from next. Every node whose id
// had a position in prior lands where it was, at rest; other nodes keep a nil
// position so the render sink places them. The nodes of next are modified in
// place. When prior repeats an id, its last node wins.
func MergePositions(prior *model.Graph, next *model.Snapshot) *model.Graph {
	var old map[string]*model.Node
	if prior != nil {
		old = model.Index(prior.Nodes)
	}
	for _, n := range next.Nodes {
		p, ok := old[n.ID]
		if !ok || p.Position == nil {
			continue
		}
		pos := *p.Position
		n.Position = &pos
		n.Velocity = &model.Vec3{}
	}
	return &model.Graph{Nodes: next.Nodes, Edges: next.Edges, GeneratedAt: next.GeneratedAt}
}
