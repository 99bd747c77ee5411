package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/sysmap-go/internal/model"
)

func TestPlaceNew_PlacesEveryNode(t *testing.T) {
	g := &model.Graph{Nodes: fixtureNodes(1), Edges: fixtureEdges()}
	assert.Equal(t, 3, placeNew(g))
	for _, n := range g.Nodes {
		require.NotNil(t, n.Position)
		assert.Equal(t, &model.Vec3{}, n.Velocity)
	}
	assert.Equal(t, 0, placeNew(g), "second pass has nothing to do")
}

func TestPlaceNew_KeepsExistingPositions(t *testing.T) {
	nodes := fixtureNodes(1)
	nodes[0].Position = &model.Vec3{X: 7, Y: 8, Z: 9}
	g := &model.Graph{Nodes: nodes, Edges: fixtureEdges()}

	assert.Equal(t, 2, placeNew(g))
	assert.Equal(t, &model.Vec3{X: 7, Y: 8, Z: 9}, g.Nodes[0].Position)
}

func TestPlaceNew_NewcomerLandsNearNeighbor(t *testing.T) {
	nodes := fixtureNodes(1)
	anchor := model.Vec3{X: 1000, Y: -500, Z: 300}
	nodes[0].Position = &anchor
	g := &model.Graph{Nodes: nodes, Edges: fixtureEdges()}
	placeNew(g)

	for _, n := range g.Nodes[1:] {
		assert.InDelta(t, neighborRadius, length(sub(*n.Position, anchor)), 1e-6)
	}
}

func TestPlaceNew_Deterministic(t *testing.T) {
	a := &model.Graph{Nodes: fixtureNodes(1)}
	b := &model.Graph{Nodes: fixtureNodes(99)}
	placeNew(a)
	placeNew(b)
	for i := range a.Nodes {
		assert.Equal(t, *a.Nodes[i].Position, *b.Nodes[i].Position)
	}
}

func TestSpherePoint_OnUnitSphere(t *testing.T) {
	for _, id := range []string{"host", "cpu", "pid:1", "ip:10.0.0.1", ""} {
		assert.InDelta(t, 1, length(spherePoint(id)), 1e-9, id)
	}
	assert.NotEqual(t, spherePoint("pid:1"), spherePoint("pid:2"))
}

func TestPlaceNew_NilGraph(t *testing.T) {
	assert.Equal(t, 0, placeNew(nil))
}
