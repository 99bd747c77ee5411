package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds all key bindings for the TUI.
type keyMap struct {
	Quit        key.Binding
	Refresh     key.Binding
	Resolve     key.Binding
	AutoRefresh key.Binding
	Filter      key.Binding
	Escape      key.Binding
	Help        key.Binding
	Up          key.Binding
	Down        key.Binding
	Select      key.Binding
	Clear       key.Binding
	Recenter    key.Binding
	Theme       key.Binding
	OrbitLeft   key.Binding
	OrbitRight  key.Binding
	OrbitUp     key.Binding
	OrbitDown   key.Binding
	ZoomIn      key.Binding
	ZoomOut     key.Binding
}

// keys is the global key map.
var keys = keyMap{
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh now"),
	),
	Resolve: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "rediscover backend"),
	),
	AutoRefresh: key.NewBinding(
		key.WithKeys("a"),
		key.WithHelp("a", "auto-refresh"),
	),
	Filter: key.NewBinding(
		key.WithKeys("/"),
		key.WithHelp("/", "filter"),
	),
	Escape: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "cancel"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "toggle help"),
	),
	Up: key.NewBinding(
		key.WithKeys("k"),
		key.WithHelp("k", "prev node"),
	),
	Down: key.NewBinding(
		key.WithKeys("j"),
		key.WithHelp("j", "next node"),
	),
	Select: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "select"),
	),
	Clear: key.NewBinding(
		key.WithKeys("x"),
		key.WithHelp("x", "clear selection"),
	),
	Recenter: key.NewBinding(
		key.WithKeys("c"),
		key.WithHelp("c", "recenter"),
	),
	Theme: key.NewBinding(
		key.WithKeys("t"),
		key.WithHelp("t", "theme"),
	),
	OrbitLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "orbit")),
	OrbitRight: key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "orbit")),
	OrbitUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "orbit")),
	OrbitDown:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "orbit")),
	ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	ZoomOut:    key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
}

// helpText is the full help string displayed in the footer when help is toggled on.
const helpText = "q: quit  r: refresh  R: rediscover  a: auto-refresh  /: filter  j/k: move  enter: select  x: clear  ←↑↓→: orbit  +/-: zoom  c: recenter  t: theme  ?: help"
