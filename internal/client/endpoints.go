package client

import (
	"context"
	"encoding/json"
	"fmt"
)

const (
	endpointHealth   = "/api/health"
	endpointTopology = "/api/topology"
	endpointProcess  = "/api/process/%d"
)

// HealthPath is the probe path used by endpoint discovery.
const HealthPath = endpointHealth

// Health calls /api/health. Any 2xx counts as healthy; a body that is not
// the usual JSON document is tolerated and yields an empty HealthInfo.
func (c *DefaultClient) Health(ctx context.Context) (*HealthInfo, error) {
	body, err := c.doGet(ctx, endpointHealth)
	if err != nil {
		return nil, fmt.Errorf("Health: %w", err)
	}

	var result HealthInfo
	_ = json.Unmarshal(body, &result)
	return &result, nil
}

// Topology fetches the raw topology document from /api/topology.
// Decoding is left to the caller.
func (c *DefaultClient) Topology(ctx context.Context) ([]byte, error) {
	body, err := c.doGet(ctx, endpointTopology)
	if err != nil {
		return nil, fmt.Errorf("Topology: %w", err)
	}
	return body, nil
}

// Process fetches extended attributes for one process from /api/process/:pid.
func (c *DefaultClient) Process(ctx context.Context, pid int) (*ProcessDetail, error) {
	body, err := c.doGet(ctx, fmt.Sprintf(endpointProcess, pid))
	if err != nil {
		return nil, fmt.Errorf("Process: %w", err)
	}

	var result ProcessDetail
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("Process decode: %w", err)
	}
	return &result, nil
}
