package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Attributes is the per-type payload of a node. Each node type has its own
// arm; every arm also keeps the full source record in Base().Fields.
type Attributes interface {
	Kind() NodeType
	Base() *Common
}

// Common holds what every attribute arm shares.
type Common struct {
	Label  string         `json:"label"`
	Fields map[string]any `json:"-"`
}

// Base returns the shared part of an attribute arm.
func (c *Common) Base() *Common { return c }

// HostAttrs describes the machine itself.
type HostAttrs struct {
	Common
	OS       string  `json:"os"`
	BootTime float64 `json:"boot_time"`
}

func (*HostAttrs) Kind() NodeType { return NodeHost }

// CPUAttrs describes the processor package.
type CPUAttrs struct {
	Common
	Cores        int      `json:"cores"`
	UsagePercent float64  `json:"usage_percent"`
	FreqMHz      *float64 `json:"freq_mhz"`
	Load1        float64  `json:"load_1"`
	Load5        float64  `json:"load_5"`
	Load15       float64  `json:"load_15"`
}

func (*CPUAttrs) Kind() NodeType { return NodeCPU }

// RAMAttrs describes virtual memory.
type RAMAttrs struct {
	Common
	Total     int64   `json:"total"`
	Used      int64   `json:"used"`
	Available int64   `json:"available"`
	Percent   float64 `json:"percent"`
}

func (*RAMAttrs) Kind() NodeType { return NodeRAM }

// DiskAttrs describes one mounted partition.
type DiskAttrs struct {
	Common
	FSType  string  `json:"fstype"`
	Total   int64   `json:"total"`
	Used    int64   `json:"used"`
	Percent float64 `json:"percent"`
}

func (*DiskAttrs) Kind() NodeType { return NodeDisk }

// ProcessAttrs describes a running process.
type ProcessAttrs struct {
	Common
	CPU   float64 `json:"cpu"`
	MemMB float64 `json:"mem_mb"`
	User  string  `json:"user"`
}

func (*ProcessAttrs) Kind() NodeType { return NodeProcess }

// RemoteAttrs describes a remote network peer.
type RemoteAttrs struct {
	Common
}

func (*RemoteAttrs) Kind() NodeType { return NodeRemote }

// OtherAttrs carries nodes whose type has no dedicated arm, or whose record
// did not fit the arm of its declared type.
type OtherAttrs struct {
	Common
	Type NodeType `json:"-"`
}

func (a *OtherAttrs) Kind() NodeType { return a.Type }

// DecodeAttributes builds the attribute arm for t from a raw JSON object.
// Fields holds every key of the object regardless of the arm chosen. A record
// that does not match its arm's field types degrades to OtherAttrs rather than
// failing: only identity fields are validated by the fetcher.
func DecodeAttributes(t NodeType, raw []byte) (Attributes, error) {
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}

	var arm Attributes
	switch t {
	case NodeHost:
		arm = &HostAttrs{}
	case NodeCPU:
		arm = &CPUAttrs{}
	case NodeRAM:
		arm = &RAMAttrs{}
	case NodeDisk:
		arm = &DiskAttrs{}
	case NodeProcess:
		arm = &ProcessAttrs{}
	case NodeRemote:
		arm = &RemoteAttrs{}
	}
	if arm == nil || json.Unmarshal(raw, arm) != nil {
		other := &OtherAttrs{Type: t}
		if l, ok := fields["label"].(string); ok {
			other.Label = l
		}
		arm = other
	}
	arm.Base().Fields = fields
	return arm, nil
}

// ProcessID extracts the pid from a "pid:<n>" node id.
func ProcessID(nodeID string) (int, bool) {
	rest, ok := strings.CutPrefix(nodeID, "pid:")
	if !ok {
		return 0, false
	}
	pid, err := strconv.Atoi(rest)
	if err != nil || pid < 0 {
		return 0, false
	}
	return pid, true
}
