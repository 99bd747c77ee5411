package engine

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/sysmap-go/internal/model"
)

// recordingSink records every call in order.
type recordingSink struct {
	calls  []string
	graphs []*model.Graph
}

func (r *recordingSink) Render(g *model.Graph) {
	r.calls = append(r.calls, "render")
	r.graphs = append(r.graphs, g)
}

func (r *recordingSink) Reheat() {
	r.calls = append(r.calls, "reheat")
}

func newTestSession(auto bool) *Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSession(newTestScheduler(auto), logger)
}

func fixtureSnapshot(t *testing.T) *model.Snapshot {
	t.Helper()
	snap, err := FetchSnapshot(context.Background(), &MockTopologyClient{})
	require.NoError(t, err)
	return snap
}

func TestNewSession(t *testing.T) {
	s := newTestSession(true)
	assert.NotEmpty(t, s.ID)
	assert.Nil(t, s.Graph)
	assert.Equal(t, model.DefaultCamera(), s.Camera)
	assert.NotNil(t, s.Logger())

	other := newTestSession(true)
	assert.NotEqual(t, s.ID, other.ID)
}

func TestHandleResult_FirstLoadRendersWithoutReheat(t *testing.T) {
	s := newTestSession(true)
	sink := &recordingSink{}
	c, _ := s.Scheduler.Start()

	out := s.HandleResult(c.Gen, fixtureSnapshot(t), nil, sink)
	assert.False(t, out.Stale)
	assert.NoError(t, out.Err)
	assert.Equal(t, FirstLoad, out.Result.Strategy)
	assert.Equal(t, []string{"render"}, sink.calls, "first load adopts the graph as-is")
	require.NotNil(t, s.Graph)
	assert.Len(t, s.Graph.Nodes, 3)
	assert.Equal(t, time.Unix(1700000000, 0), s.LastUpdated)
	assert.Equal(t, StateIdle, s.Scheduler.State())
}

func TestHandleResult_MetadataOnlyDoesNotReheat(t *testing.T) {
	s := newTestSession(true)
	sink := &recordingSink{}

	c, _ := s.Scheduler.Start()
	s.HandleResult(c.Gen, fixtureSnapshot(t), nil, sink)
	first := s.Graph
	first.Nodes[0].Position = &model.Vec3{X: 5}

	c2 := s.Scheduler.RefreshNow()
	require.NotNil(t, c2)
	out := s.HandleResult(c2.Gen, fixtureSnapshot(t), nil, sink)

	assert.Equal(t, MetadataOnly, out.Result.Strategy)
	assert.Equal(t, []string{"render", "render"}, sink.calls)
	assert.Same(t, first, s.Graph, "metadata refresh keeps the graph object")
	assert.Equal(t, &model.Vec3{X: 5}, s.Graph.Nodes[0].Position)
}

func TestHandleResult_StructuralChangeReheats(t *testing.T) {
	s := newTestSession(true)
	sink := &recordingSink{}

	c, _ := s.Scheduler.Start()
	s.HandleResult(c.Gen, fixtureSnapshot(t), nil, sink)
	s.Graph.Nodes[0].Position = &model.Vec3{Y: 7}

	next := fixtureSnapshot(t)
	next.Nodes = append(next.Nodes, &model.Node{ID: "pid:2", Type: model.NodeProcess, Attrs: &model.ProcessAttrs{}})
	next.Edges = append(next.Edges, model.Edge{Source: "host", Target: "pid:2", Kind: model.EdgeRuns})
	c2 := s.Scheduler.RefreshNow()
	require.NotNil(t, c2)
	out := s.HandleResult(c2.Gen, next, nil, sink)

	assert.Equal(t, Structural, out.Result.Strategy)
	assert.Equal(t, []string{"render", "render", "reheat"}, sink.calls)
	assert.Equal(t, &model.Vec3{Y: 7}, s.Graph.Nodes[0].Position, "positions survive the reheat")
}

func TestHandleResult_FailureKeepsGraphAndSchedulesRetry(t *testing.T) {
	s := newTestSession(true)
	sink := &recordingSink{}

	c, _ := s.Scheduler.Start()
	s.HandleResult(c.Gen, fixtureSnapshot(t), nil, sink)
	graph := s.Graph

	c2 := s.Scheduler.RefreshNow()
	require.NotNil(t, c2)
	fail := &FetchError{Err: errMockFailure}
	out := s.HandleResult(c2.Gen, nil, fail, sink)

	assert.ErrorIs(t, out.Err, errMockFailure)
	require.NotNil(t, out.Retry)
	assert.Equal(t, 2*time.Second, out.Retry.Delay)
	assert.Same(t, graph, s.Graph, "previous graph stays on screen")
	assert.Equal(t, []string{"render"}, sink.calls, "failures never render")
	assert.Equal(t, fail, s.LastError)
	assert.Equal(t, StateBackoff, s.Scheduler.State())
}

func TestHandleResult_SuccessAfterFailureClearsError(t *testing.T) {
	s := newTestSession(true)
	c, _ := s.Scheduler.Start()
	out := s.HandleResult(c.Gen, nil, errMockFailure, nil)
	require.NotNil(t, out.Retry)

	cycle, _ := s.Scheduler.Fire(*out.Retry, time.Now())
	require.NotNil(t, cycle)
	s.HandleResult(cycle.Gen, fixtureSnapshot(t), nil, nil)

	assert.NoError(t, s.LastError)
	assert.Equal(t, 2*time.Second, s.Scheduler.Backoff().Current())
	assert.NotNil(t, s.Graph)
}

func TestHandleResult_StaleResultDropped(t *testing.T) {
	s := newTestSession(true)
	sink := &recordingSink{}
	c, _ := s.Scheduler.Start()
	s.Scheduler.SetAutoRefresh(false)

	out := s.HandleResult(c.Gen, fixtureSnapshot(t), nil, sink)
	assert.True(t, out.Stale)
	assert.Empty(t, sink.calls)
	assert.Nil(t, s.Graph)
}

func TestHandleResult_NilSnapshotIsMalformed(t *testing.T) {
	s := newTestSession(true)
	c, _ := s.Scheduler.Start()

	out := s.HandleResult(c.Gen, nil, nil, nil)
	var fe *FetchError
	require.True(t, errors.As(out.Err, &fe))
	assert.True(t, fe.Malformed())
}
