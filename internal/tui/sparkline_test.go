package tui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sparkColor = lipgloss.Color("#ffffff")

func spark(values []float64, width int) []rune {
	return []rune(stripANSI(RenderSparkline(values, width, sparkColor)))
}

func TestRenderSparkline_Shapes(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		width  int
		want   string
	}{
		{"no samples", nil, 6, strings.Repeat(" ", 6)},
		{"zero latency", []float64{0, 0, 0}, 3, "▁▁▁"},
		{"steady latency", []float64{12, 12, 12}, 3, "███"},
		{"first sample left-padded", []float64{42}, 4, "   █"},
		{"min and max of the window", []float64{100, 200}, 2, "▁█"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, string(spark(tc.values, tc.width)))
		})
	}
}

func TestRenderSparkline_ZeroWidth(t *testing.T) {
	assert.Empty(t, RenderSparkline([]float64{1, 2, 3}, 0, sparkColor))
}

func TestRenderSparkline_RisingLatencyNeverDips(t *testing.T) {
	got := spark([]float64{5, 9, 14, 20, 31, 47, 80, 120}, 8)
	require.Len(t, got, 8)
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i], got[i-1], "index %d", i)
	}
	assert.Equal(t, '▁', got[0])
	assert.Equal(t, '█', got[7])
}

func TestRenderSparkline_KeepsNewestSamples(t *testing.T) {
	// The poll history holds more samples than the panel is wide.
	values := make([]float64, 60)
	for i := range values {
		values[i] = float64(60 - i)
	}
	values[59] = 500

	got := spark(values, 10)
	require.Len(t, got, 10)
	assert.Equal(t, '█', got[9], "latest spike is visible")
	assert.Equal(t, '▁', got[8], "smallest value in the window")
}

func TestRenderSparkline_SmallSwingStillVisible(t *testing.T) {
	got := spark([]float64{100, 101, 102}, 3)
	require.Len(t, got, 3)
	assert.Equal(t, '▁', got[0])
	assert.NotContains(t, []rune{'▁', '█'}, got[1])
	assert.Equal(t, '█', got[2])
}
