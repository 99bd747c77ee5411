package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/dm/sysmap-go/internal/model"
)

// theme is one colour palette. Dark is the default; t toggles light.
type theme struct {
	name   string
	text   lipgloss.Color
	dim    lipgloss.Color
	faded  lipgloss.Color
	bar    lipgloss.Color
	barAlt lipgloss.Color
	nodes  map[model.NodeType]lipgloss.Color
	edges  map[model.EdgeKind]lipgloss.Color
}

var (
	colorRed    = lipgloss.Color("#ef4444")
	colorYellow = lipgloss.Color("#f59e0b")
	colorGreen  = lipgloss.Color("#10b981")
	colorGray   = lipgloss.Color("#6b7280")
	colorCyan   = lipgloss.Color("#06b6d4")
)

var nodeColors = map[model.NodeType]lipgloss.Color{
	model.NodeHost:    lipgloss.Color("#6b5b95"),
	model.NodeCPU:     lipgloss.Color("#ff8c42"),
	model.NodeRAM:     lipgloss.Color("#58a6ff"),
	model.NodeDisk:    lipgloss.Color("#8fd694"),
	model.NodeProcess: lipgloss.Color("#c792ea"),
	model.NodeRemote:  lipgloss.Color("#ff6b6b"),
}

var edgeColors = map[model.EdgeKind]lipgloss.Color{
	model.EdgeOwns:   lipgloss.Color("#77aa22"),
	model.EdgeParent: lipgloss.Color("#666666"),
	model.EdgeRuns:   lipgloss.Color("#33aadd"),
	model.EdgeNet:    lipgloss.Color("#ee6666"),
	model.EdgeMount:  lipgloss.Color("#5599cc"),
}

var darkTheme = theme{
	name:   "dark",
	text:   lipgloss.Color("#f8fafc"),
	dim:    colorGray,
	faded:  lipgloss.Color("#394155"),
	bar:    lipgloss.Color("#1e293b"),
	barAlt: lipgloss.Color("#0f172a"),
	nodes:  nodeColors,
	edges:  edgeColors,
}

var lightTheme = theme{
	name:   "light",
	text:   lipgloss.Color("#0f172a"),
	dim:    lipgloss.Color("#64748b"),
	faded:  lipgloss.Color("#cbd5e1"),
	bar:    lipgloss.Color("#e2e8f0"),
	barAlt: lipgloss.Color("#f4f6fb"),
	nodes:  nodeColors,
	edges:  edgeColors,
}

func themeNamed(name string) theme {
	if name == lightTheme.name {
		return lightTheme
	}
	return darkTheme
}

func (t theme) toggled() theme {
	if t.name == darkTheme.name {
		return lightTheme
	}
	return darkTheme
}

func (t theme) nodeColor(typ model.NodeType) lipgloss.Color {
	if c, ok := t.nodes[typ]; ok {
		return c
	}
	return lipgloss.Color("#aaaaaa")
}

func (t theme) edgeColor(kind model.EdgeKind) lipgloss.Color {
	if c, ok := t.edges[kind]; ok {
		return c
	}
	return lipgloss.Color("#888888")
}

func (t theme) header() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.bar).Foreground(t.text).Padding(0, 1)
}

func (t theme) panel() lipgloss.Style {
	return lipgloss.NewStyle().Background(t.barAlt).Foreground(t.text).Padding(0, 1)
}

func (t theme) dimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.dim)
}

func (t theme) textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(t.text)
}

// Fixed styles that do not change with the theme.
var (
	StyleError   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	StyleWarn    = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	StyleLive    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	StyleStopped = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	StyleToast   = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	StyleKey     = lipgloss.NewStyle().Bold(true)
)
