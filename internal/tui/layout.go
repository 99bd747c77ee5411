package tui

import (
	"hash/fnv"
	"math"

	"github.com/dm/sysmap-go/internal/model"
)

const (
	seedRadius     = 150.0
	neighborRadius = 40.0
)

// placeNew gives every node without a position a starting point. A node
// lands near an already placed neighbour when it has one, otherwise on a
// sphere around the origin. Placement hashes the node id, so a node that
// leaves and returns comes back to the same spot relative to its anchor.
// Placed nodes are never moved.
func placeNew(g *model.Graph) int {
	if g == nil {
		return 0
	}
	placed := make(map[string]*model.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if n.Position != nil {
			placed[n.ID] = n
		}
	}
	neighbors := make(map[string][]string)
	for _, e := range g.Edges {
		neighbors[e.Source] = append(neighbors[e.Source], e.Target)
		neighbors[e.Target] = append(neighbors[e.Target], e.Source)
	}

	count := 0
	for _, n := range g.Nodes {
		if n.Position != nil {
			continue
		}
		var anchor model.Vec3
		radius := seedRadius
		for _, id := range neighbors[n.ID] {
			if p, ok := placed[id]; ok {
				anchor, radius = *p.Position, neighborRadius
				break
			}
		}
		pos := add(anchor, scale(spherePoint(n.ID), radius))
		n.Position = &pos
		n.Velocity = &model.Vec3{}
		placed[n.ID] = n
		count++
	}
	return count
}

// spherePoint maps an id to a point on the unit sphere.
func spherePoint(id string) model.Vec3 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(id))
	sum := h.Sum64()
	u := float64(sum&0xffffffff) / float64(math.MaxUint32)
	v := float64(sum>>32) / float64(math.MaxUint32)
	theta := 2 * math.Pi * u
	z := 2*v - 1
	r := math.Sqrt(1 - z*z)
	return model.Vec3{X: r * math.Cos(theta), Y: r * math.Sin(theta), Z: z}
}
