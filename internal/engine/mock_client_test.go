package engine

import (
	"context"
	"errors"

	"github.com/dm/sysmap-go/internal/client"
)

// MockTopologyClient implements client.TopologyClient for testing.
type MockTopologyClient struct {
	HealthFn   func(ctx context.Context) (*client.HealthInfo, error)
	TopologyFn func(ctx context.Context) ([]byte, error)
	ProcessFn  func(ctx context.Context, pid int) (*client.ProcessDetail, error)
}

func (m *MockTopologyClient) Health(ctx context.Context) (*client.HealthInfo, error) {
	if m.HealthFn != nil {
		return m.HealthFn(ctx)
	}
	return &client.HealthInfo{OK: true}, nil
}

func (m *MockTopologyClient) Topology(ctx context.Context) ([]byte, error) {
	if m.TopologyFn != nil {
		return m.TopologyFn(ctx)
	}
	return []byte(fixtureTopology), nil
}

func (m *MockTopologyClient) Process(ctx context.Context, pid int) (*client.ProcessDetail, error) {
	if m.ProcessFn != nil {
		return m.ProcessFn(ctx, pid)
	}
	return &client.ProcessDetail{PID: pid}, nil
}

func (m *MockTopologyClient) BaseURL() string {
	return "http://mock:8787"
}

var errMockFailure = errors.New("mock failure")

const fixtureTopology = `{
	"generated_at": 1700000000,
	"nodes": [
		{"data": {"id": "host", "label": "box", "type": "host", "os": "Linux", "boot_time": 1699990000}},
		{"data": {"id": "cpu", "label": "CPU x4", "type": "cpu", "cores": 4, "usage_percent": 10}},
		{"data": {"id": "pid:1", "label": "init (1)", "type": "process", "cpu": 0.1, "mem_mb": 12.5, "user": "root"}}
	],
	"edges": [
		{"data": {"source": "host", "target": "cpu", "kind": "owns"}},
		{"data": {"source": "cpu", "target": "pid:1", "kind": "runs"}}
	]
}`
