package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tidwall/gjson"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/model"
)

// FetchSnapshot performs one poll against /api/topology and converts the
// payload into a Snapshot. Every failure comes back as a *FetchError.
// The returned nodes never carry positions.
func FetchSnapshot(ctx context.Context, c client.TopologyClient) (*model.Snapshot, error) {
	start := time.Now()
	body, err := c.Topology(ctx)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	snap, err := ParseSnapshot(body)
	if err != nil {
		return nil, &FetchError{Err: err}
	}

	snap.FetchedAt = time.Now()
	snap.Latency = snap.FetchedAt.Sub(start)
	if snap.GeneratedAt.IsZero() {
		snap.GeneratedAt = snap.FetchedAt
	}
	return snap, nil
}

// ParseSnapshot decodes a topology document:
//
//	{"nodes":[{"data":{"id":..,"type":..}}], "edges":[{"data":{"source":..,"target":..}}], "generated_at": <epoch seconds>}
//
// Only identity fields are validated; everything else is kept opaquely.
// Missing node or edge arrays are treated as empty.
func ParseSnapshot(body []byte) (*model.Snapshot, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: invalid JSON", ErrMalformedPayload)
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, fmt.Errorf("%w: document is not an object", ErrMalformedPayload)
	}

	rawNodes, err := arrayField(root, "nodes")
	if err != nil {
		return nil, err
	}
	rawEdges, err := arrayField(root, "edges")
	if err != nil {
		return nil, err
	}

	snap := &model.Snapshot{
		Nodes: make([]*model.Node, 0, len(rawNodes)),
		Edges: make([]model.Edge, 0, len(rawEdges)),
	}

	for i, rn := range rawNodes {
		data := rn.Get("data")
		if !data.IsObject() {
			return nil, fmt.Errorf("%w: node %d has no data object", ErrMalformedPayload, i)
		}
		id, ok := stringField(data, "id")
		if !ok {
			return nil, fmt.Errorf("%w: node %d has no id", ErrMalformedPayload, i)
		}
		typ, ok := stringField(data, "type")
		if !ok {
			return nil, fmt.Errorf("%w: node %q has no type", ErrMalformedPayload, id)
		}
		attrs, err := model.DecodeAttributes(model.NodeType(typ), []byte(data.Raw))
		if err != nil {
			return nil, fmt.Errorf("%w: node %q: %v", ErrMalformedPayload, id, err)
		}
		snap.Nodes = append(snap.Nodes, &model.Node{
			ID:    id,
			Type:  model.NodeType(typ),
			Attrs: attrs,
		})
	}

	for i, re := range rawEdges {
		data := re.Get("data")
		if !data.IsObject() {
			return nil, fmt.Errorf("%w: edge %d has no data object", ErrMalformedPayload, i)
		}
		source, ok := stringField(data, "source")
		if !ok {
			return nil, fmt.Errorf("%w: edge %d has no source", ErrMalformedPayload, i)
		}
		target, ok := stringField(data, "target")
		if !ok {
			return nil, fmt.Errorf("%w: edge %d has no target", ErrMalformedPayload, i)
		}
		fields, _ := data.Value().(map[string]any)
		snap.Edges = append(snap.Edges, model.Edge{
			Source: source,
			Target: target,
			Kind:   model.EdgeKind(data.Get("kind").String()),
			Fields: fields,
		})
	}

	if ts := root.Get("generated_at"); ts.Type == gjson.Number {
		sec, frac := math.Modf(ts.Float())
		snap.GeneratedAt = time.Unix(int64(sec), int64(frac*1e9))
	}

	return snap, nil
}

func arrayField(root gjson.Result, name string) ([]gjson.Result, error) {
	v := root.Get(name)
	switch {
	case !v.Exists() || v.Type == gjson.Null:
		return nil, nil
	case !v.IsArray():
		return nil, fmt.Errorf("%w: %s is not an array", ErrMalformedPayload, name)
	}
	return v.Array(), nil
}

func stringField(obj gjson.Result, name string) (string, bool) {
	v := obj.Get(name)
	if v.Type != gjson.String || v.Str == "" {
		return "", false
	}
	return v.Str, true
}
