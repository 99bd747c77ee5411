package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// sparkBlocks is the 8-level block character set for sparklines.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// RenderSparkline converts a slice of float64 values into a block sparkline
// string of exactly `width` characters, scaled between the smallest and the
// largest visible value so that small swings in latency stay visible.
//
// Rules:
//   - Empty values → return width spaces
//   - Flat series → all '█' when positive, all '▁' otherwise
//   - Values longer than width → use last width values
//   - Fewer values than width → left-pad with spaces
func RenderSparkline(values []float64, width int, color lipgloss.Color) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat(" ", width)
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	lo, hi := slices.Min(values), slices.Max(values)

	var sb strings.Builder
	sb.WriteString(strings.Repeat(" ", width-len(values)))
	for _, v := range values {
		var idx int
		switch {
		case hi > lo:
			idx = int((v - lo) / (hi - lo) * 7)
		case hi > 0:
			idx = 7
		}
		idx = max(0, min(7, idx))
		sb.WriteRune(sparkBlocks[idx])
	}
	return lipgloss.NewStyle().Foreground(color).Render(sb.String())
}
