package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/sysmap-go/internal/model"
)

// severity represents the alert level for a metric value.
type severity int

const (
	severityNormal   severity = iota
	severityWarning           // yellow
	severityCritical          // red
)

// percentSeverity returns Warning above 80%, Critical above 90%.
func percentSeverity(pct float64) severity {
	switch {
	case pct > 90:
		return severityCritical
	case pct > 80:
		return severityWarning
	default:
		return severityNormal
	}
}

// latencySeverity returns Warning above 500ms, Critical above 2s.
func latencySeverity(ms float64) severity {
	switch {
	case ms > 2000:
		return severityCritical
	case ms > 500:
		return severityWarning
	default:
		return severityNormal
	}
}

// nodeSeverity rates how loaded a node is: CPU usage, memory or disk
// fill, or a process's CPU share. Other types are always normal.
func nodeSeverity(n *model.Node) severity {
	switch a := n.Attrs.(type) {
	case *model.CPUAttrs:
		return percentSeverity(a.UsagePercent)
	case *model.RAMAttrs:
		return percentSeverity(a.Percent)
	case *model.DiskAttrs:
		return percentSeverity(a.Percent)
	case *model.ProcessAttrs:
		return percentSeverity(a.CPU)
	default:
		return severityNormal
	}
}

// severityToStyle maps a severity level to the appropriate lipgloss style.
func severityToStyle(s severity) lipgloss.Style {
	switch s {
	case severityWarning:
		return lipgloss.NewStyle().Foreground(colorYellow)
	case severityCritical:
		return lipgloss.NewStyle().Foreground(colorRed)
	default:
		return lipgloss.NewStyle()
	}
}
