package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dm/sysmap-go/internal/model"
)

func TestPercentSeverity(t *testing.T) {
	cases := []struct {
		pct  float64
		want severity
	}{
		{0, severityNormal},
		{80, severityNormal},
		{80.1, severityWarning},
		{90, severityWarning},
		{90.1, severityCritical},
		{100, severityCritical},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, percentSeverity(tc.pct), "pct=%v", tc.pct)
	}
}

func TestLatencySeverity(t *testing.T) {
	assert.Equal(t, severityNormal, latencySeverity(500))
	assert.Equal(t, severityWarning, latencySeverity(501))
	assert.Equal(t, severityCritical, latencySeverity(2001))
}

func TestNodeSeverity(t *testing.T) {
	cases := []struct {
		name string
		node *model.Node
		want severity
	}{
		{"busy cpu", &model.Node{Attrs: &model.CPUAttrs{UsagePercent: 95}}, severityCritical},
		{"full ram", &model.Node{Attrs: &model.RAMAttrs{Percent: 85}}, severityWarning},
		{"roomy disk", &model.Node{Attrs: &model.DiskAttrs{Percent: 40}}, severityNormal},
		{"hot process", &model.Node{Attrs: &model.ProcessAttrs{CPU: 99}}, severityCritical},
		{"host", &model.Node{Attrs: &model.HostAttrs{}}, severityNormal},
		{"no attributes", &model.Node{ID: "x"}, severityNormal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, nodeSeverity(tc.node))
		})
	}
}
