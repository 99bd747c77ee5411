package model

import "time"

// NodeType classifies a topology node.
type NodeType string

const (
	NodeHost    NodeType = "host"
	NodeCPU     NodeType = "cpu"
	NodeRAM     NodeType = "ram"
	NodeDisk    NodeType = "disk"
	NodeProcess NodeType = "process"
	NodeRemote  NodeType = "remote"
)

// EdgeKind classifies the relation an edge describes.
type EdgeKind string

const (
	EdgeOwns   EdgeKind = "owns"
	EdgeParent EdgeKind = "parent"
	EdgeRuns   EdgeKind = "runs"
	EdgeNet    EdgeKind = "net"
	EdgeMount  EdgeKind = "mount"
)

// Vec3 is a point or vector in layout space.
type Vec3 struct {
	X float64 `toml:"x" json:"x"`
	Y float64 `toml:"y" json:"y"`
	Z float64 `toml:"z" json:"z"`
}

// Node is a single vertex of the topology. ID is the only key used to
// correlate nodes across polls; Attrs may change freely.
//
// Position and Velocity belong to the render sink. They are nil on every
// freshly fetched node and are only carried forward by the reconciler.
type Node struct {
	ID       string
	Type     NodeType
	Attrs    Attributes
	Position *Vec3
	Velocity *Vec3
}

// Label returns the display label of the node, falling back to its id.
func (n *Node) Label() string {
	if n.Attrs != nil {
		if l := n.Attrs.Base().Label; l != "" {
			return l
		}
	}
	return n.ID
}

// Edge is a directed relation between two node ids.
type Edge struct {
	Source string
	Target string
	Kind   EdgeKind
	Fields map[string]any
}

// Key returns the identity used when diffing edges. Kind is not part of it.
func (e Edge) Key() string {
	return EdgeKey(e.Source, e.Target)
}

// EdgeKey builds the diff key for an ordered endpoint pair.
func EdgeKey(source, target string) string {
	return source + "->" + target
}

// Snapshot is one position-less topology reading produced by a poll.
type Snapshot struct {
	Nodes       []*Node
	Edges       []Edge
	GeneratedAt time.Time
	FetchedAt   time.Time
	Latency     time.Duration
}

// Graph is the canonical, position-bearing graph driving the live view.
type Graph struct {
	Nodes       []*Node
	Edges       []Edge
	GeneratedAt time.Time
}

// Index maps node ids to nodes. When ids repeat, the last node wins.
func Index(nodes []*Node) map[string]*Node {
	idx := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		idx[n.ID] = n
	}
	return idx
}

// Lookup returns the node with the given id, or nil.
func (g *Graph) Lookup(id string) *Node {
	if g == nil {
		return nil
	}
	var found *Node
	for _, n := range g.Nodes {
		if n.ID == id {
			found = n
		}
	}
	return found
}

// Camera is the persisted viewpoint: where the eye sits and what it orbits.
type Camera struct {
	Position Vec3 `toml:"position"`
	Target   Vec3 `toml:"target"`
}

// DefaultCamera looks at the origin from the positive Z axis.
func DefaultCamera() Camera {
	return Camera{Position: Vec3{Z: 400}}
}
