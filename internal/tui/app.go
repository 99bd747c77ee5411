package tui

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/model"
	"github.com/dm/sysmap-go/internal/view"
)

const (
	orbitStep = 0.15
	zoomStep  = 1.2
)

// Resolver finds the backend base URL.
type Resolver interface {
	Resolve(ctx context.Context) (string, error)
	// Probe checks a single base URL without touching persisted state.
	Probe(ctx context.Context, base string) bool
}

// ViewStore is the persisted state the view reads and writes.
type ViewStore interface {
	Endpoint() (string, error)
	Camera() (model.Camera, bool, error)
	SetCamera(cam model.Camera) error
}

// ClientFactory builds a client for a resolved base URL.
type ClientFactory func(base string) (client.TopologyClient, error)

// Options wires an App.
type Options struct {
	Session   *engine.Session
	Resolver  Resolver
	NewClient ClientFactory
	// Store may be nil, in which case the camera is not persisted.
	Store ViewStore
	// Changes signals writes to the state file. May be nil.
	Changes        <-chan struct{}
	RequestTimeout time.Duration
	CameraDebounce time.Duration
	Theme          string
	History        *model.PollHistory
}

// App is the root Bubble Tea model for sysmap. It drives the session's
// scheduler from the Bubble Tea loop and is the session's render sink.
type App struct {
	session   *engine.Session
	resolver  Resolver
	newClient ClientFactory
	store     ViewStore
	changes   <-chan struct{}
	logger    *slog.Logger
	timeout   time.Duration
	debounce  time.Duration
	now       func() time.Time

	// Backend
	client     client.TopologyClient
	base       string
	resolving  bool
	resolveErr error
	started    bool
	retryIn    time.Duration

	// What the sink was last given.
	graph   *model.Graph
	reheats int
	history *model.PollHistory

	// View state
	camera    *orbitCamera
	camSeq    int
	filter    textinput.Model
	filtering bool
	query     string
	sub       view.Subgraph
	cursor    int
	highlight view.Highlight
	detail    *client.ProcessDetail
	theme     theme

	toast    string
	toastSeq int

	// Layout
	width, height int

	showHelp bool
}

// NewApp creates the App. The persisted camera, if any, is applied at once.
func NewApp(opts Options) *App {
	if opts.Session == nil {
		opts.Session = engine.NewSession(engine.NewScheduler(engine.SchedulerConfig{
			Interval:    2 * time.Second,
			PauseWindow: 1200 * time.Millisecond,
			AutoRefresh: true,
		}), nil)
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = 10 * time.Second
	}
	if opts.CameraDebounce <= 0 {
		opts.CameraDebounce = 300 * time.Millisecond
	}
	if opts.History == nil {
		opts.History = model.NewPollHistory(0)
	}

	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter by label or id"
	ti.CharLimit = 128

	app := &App{
		session:   opts.Session,
		resolver:  opts.Resolver,
		newClient: opts.NewClient,
		store:     opts.Store,
		changes:   opts.Changes,
		logger:    opts.Session.Logger().With("component", "tui"),
		timeout:   opts.RequestTimeout,
		debounce:  opts.CameraDebounce,
		now:       time.Now,
		history:   opts.History,
		filter:    ti,
		theme:     themeNamed(opts.Theme),
		sub:       view.Subgraph{Full: true},
	}
	app.camera = newOrbitCamera(app.session.Camera)
	if app.store != nil {
		if cam, ok, err := app.store.Camera(); err != nil {
			app.logger.Warn("reading persisted camera", "error", err)
		} else if ok {
			app.camera.Set(cam)
		}
	}
	app.session.Camera = app.camera.Snapshot()
	return app
}

// Render implements engine.Sink.
func (app *App) Render(g *model.Graph) {
	app.graph = g
	if n := placeNew(g); n > 0 {
		app.logger.Debug("placed new nodes", "count", n)
	}
	app.refreshView()
}

// Reheat implements engine.Sink. Placement of newcomers already happened
// in Render; existing positions stay where they are.
func (app *App) Reheat() {
	app.reheats++
}

// Init implements tea.Model. Discovery runs first; polling starts once a
// backend is found.
func (app *App) Init() tea.Cmd {
	cmds := []tea.Cmd{watchCmd(app.changes), textinput.Blink}
	if app.resolver != nil {
		app.resolving = true
		cmds = append(cmds, resolveCmd(app.resolver))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model. It is the only place App state changes.
func (app *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		app.width = msg.Width
		app.height = msg.Height

	case ResolvedMsg:
		return app, app.handleResolved(msg)

	case PollResultMsg:
		out := app.session.HandleResult(msg.Gen, msg.Snapshot, msg.Err, app)
		if out.Stale {
			return app, nil
		}
		if out.Err != nil {
			app.retryIn = 0
			if out.Retry != nil {
				app.retryIn = out.Retry.Delay
			}
			return app, timerCmd(out.Retry)
		}
		app.history.Push(model.PollPoint{
			Timestamp: msg.Snapshot.FetchedAt,
			Nodes:     len(app.graph.Nodes),
			Edges:     len(app.graph.Edges),
			LatencyMS: float64(msg.Snapshot.Latency) / float64(time.Millisecond),
		})
		return app, nil

	case TimerMsg:
		cycle, next := app.session.Scheduler.Fire(msg.Timer, app.now())
		return app, tea.Batch(fetchCmd(app.client, cycle, app.timeout), timerCmd(next))

	case ProcessDetailMsg:
		if msg.NodeID != app.highlight.Selected {
			return app, nil
		}
		if msg.Err != nil {
			app.logger.Info("process detail unavailable", "node", msg.NodeID, "error", msg.Err)
			return app, nil
		}
		app.detail = msg.Detail

	case StateChangedMsg:
		return app, tea.Batch(app.handleStateChanged(), watchCmd(app.changes))

	case cameraSaveMsg:
		if msg.seq != app.camSeq || app.store == nil {
			return app, nil
		}
		return app, saveCameraCmd(app.store, app.camera.Snapshot())

	case cameraSavedMsg:
		if msg.err != nil {
			app.logger.Warn("saving camera", "error", msg.err)
		}

	case toastExpiredMsg:
		if msg.seq == app.toastSeq {
			app.toast = ""
		}

	case tea.KeyMsg:
		if app.filtering {
			return app, app.handleFilterKey(msg)
		}
		return app, app.handleKey(msg)
	}

	return app, nil
}

func (app *App) handleResolved(msg ResolvedMsg) tea.Cmd {
	app.resolving = false
	if msg.Err != nil {
		return app.resolveFailed("backend discovery failed", msg.Err)
	}
	c, err := app.newClient(msg.Base)
	if err != nil {
		return app.resolveFailed("building client for "+msg.Base, err)
	}
	app.resolveErr = nil
	app.client = c
	app.base = msg.Base
	app.logger.Info("connected", "base", msg.Base)

	if !app.started {
		app.started = true
		cycle, t := app.session.Scheduler.Start()
		return tea.Batch(fetchCmd(c, &cycle, app.timeout), timerCmd(t))
	}
	return fetchCmd(c, app.session.Scheduler.RefreshNow(), app.timeout)
}

// resolveFailed records a discovery failure. Before polling has started
// it is the unreachable banner; afterwards polling keeps the current client
// and the failure is only a toast.
func (app *App) resolveFailed(what string, err error) tea.Cmd {
	if !app.started {
		app.resolveErr = err
		app.logger.Error(what, "error", err)
		return nil
	}
	app.logger.Warn(what+", keeping current backend", "base", app.base, "error", err)
	return app.showToast("Re-resolve failed: " + classifyError(err))
}

// handleStateChanged adopts an endpoint someone else wrote to the state
// file, once it answers a probe. Full discovery is skipped so an override
// cannot shadow the new endpoint. Our own camera writes leave the endpoint
// alone and are ignored.
func (app *App) handleStateChanged() tea.Cmd {
	if app.store == nil || app.resolver == nil || app.resolving {
		return nil
	}
	base, err := app.store.Endpoint()
	if err != nil {
		app.logger.Warn("reading state after change", "error", err)
		return nil
	}
	if base == "" || base == app.base {
		return nil
	}
	app.logger.Info("endpoint changed externally", "from", app.base, "to", base)
	app.resolving = true
	return adoptCmd(app.resolver, base)
}

func (app *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	sched := app.session.Scheduler
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Refresh):
		if app.client == nil {
			return nil
		}
		return fetchCmd(app.client, sched.RefreshNow(), app.timeout)
	case key.Matches(msg, keys.Resolve):
		if app.resolver == nil || app.resolving {
			return nil
		}
		app.resolving = true
		return resolveCmd(app.resolver)
	case key.Matches(msg, keys.AutoRefresh):
		on := !sched.AutoRefresh()
		t := sched.SetAutoRefresh(on)
		text := "Auto-refresh off"
		if on {
			text = "Auto-refresh on"
		}
		return tea.Batch(timerCmd(t), app.showToast(text))
	case key.Matches(msg, keys.Help):
		app.showHelp = !app.showHelp
	case key.Matches(msg, keys.Filter):
		app.filtering = true
		app.filter.SetValue(app.query)
		return app.filter.Focus()
	case key.Matches(msg, keys.Escape), key.Matches(msg, keys.Clear):
		app.clearSelection()
	case key.Matches(msg, keys.Up):
		app.moveCursor(-1)
	case key.Matches(msg, keys.Down):
		app.moveCursor(1)
	case key.Matches(msg, keys.Select):
		if app.cursor < len(app.sub.Nodes) {
			return app.selectNode(app.sub.Nodes[app.cursor].ID)
		}
	case key.Matches(msg, keys.Theme):
		app.theme = app.theme.toggled()
	case key.Matches(msg, keys.Recenter):
		app.camera.Fit(app.visiblePositions())
		return app.cameraChanged()
	case key.Matches(msg, keys.OrbitLeft):
		return app.orbit(-orbitStep, 0)
	case key.Matches(msg, keys.OrbitRight):
		return app.orbit(orbitStep, 0)
	case key.Matches(msg, keys.OrbitUp):
		return app.orbit(0, orbitStep)
	case key.Matches(msg, keys.OrbitDown):
		return app.orbit(0, -orbitStep)
	case key.Matches(msg, keys.ZoomIn):
		app.camera.Zoom(1 / zoomStep)
		return app.interacted()
	case key.Matches(msg, keys.ZoomOut):
		app.camera.Zoom(zoomStep)
		return app.interacted()
	}
	return nil
}

func (app *App) handleFilterKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		app.filtering = false
		app.filter.Blur()
		app.filter.SetValue("")
		app.applyFilter("")
		return nil
	case tea.KeyEnter:
		app.filtering = false
		app.filter.Blur()
		return nil
	}
	var cmd tea.Cmd
	app.filter, cmd = app.filter.Update(msg)
	if v := app.filter.Value(); v != app.query {
		app.applyFilter(v)
	}
	return cmd
}

// applyFilter recomputes the subgraph. A matching filter selects its first
// node; a filter that matches nothing clears the selection; clearing the
// filter keeps whatever was selected.
func (app *App) applyFilter(q string) {
	app.query = q
	app.refreshView()
	app.cursor = 0
	switch {
	case app.sub.Full:
	case app.sub.Focus != "":
		app.highlightNode(app.sub.Focus)
	default:
		app.clearSelection()
	}
}

// refreshView recomputes the derived views after the graph or filter moved.
func (app *App) refreshView() {
	app.sub = view.Filter(app.graph, app.query)
	if app.cursor >= len(app.sub.Nodes) {
		app.cursor = max(0, len(app.sub.Nodes)-1)
	}
	if app.highlight.Active() {
		app.highlight = view.Neighborhood(app.sub.Edges, app.highlight.Selected)
	}
}

func (app *App) highlightNode(id string) {
	if id != app.highlight.Selected {
		app.detail = nil
	}
	app.highlight = view.Neighborhood(app.sub.Edges, id)
}

func (app *App) selectNode(id string) tea.Cmd {
	app.highlightNode(id)
	if pid, ok := model.ProcessID(id); ok {
		return processCmd(app.client, id, pid, app.timeout)
	}
	return nil
}

func (app *App) clearSelection() {
	app.highlight = view.Highlight{}
	app.detail = nil
}

func (app *App) moveCursor(delta int) {
	n := len(app.sub.Nodes)
	if n == 0 {
		app.cursor = 0
		return
	}
	app.cursor = (app.cursor + delta + n) % n
}

func (app *App) orbit(dYaw, dPitch float64) tea.Cmd {
	app.camera.Orbit(dYaw, dPitch)
	return app.interacted()
}

// interacted opens the scheduler's pause window so a poll does not land
// mid-gesture, then schedules the camera save.
func (app *App) interacted() tea.Cmd {
	app.session.Scheduler.Interact(app.now())
	return app.cameraChanged()
}

// cameraChanged restarts the save debounce. Only the latest change saves.
func (app *App) cameraChanged() tea.Cmd {
	app.session.Camera = app.camera.Snapshot()
	app.camSeq++
	return debounceCmd(app.debounce, app.camSeq)
}

func (app *App) showToast(text string) tea.Cmd {
	app.toast = text
	app.toastSeq++
	return toastCmd(app.toastSeq)
}

func (app *App) visiblePositions() []model.Vec3 {
	var pts []model.Vec3
	for _, n := range app.sub.Nodes {
		if n.Position != nil {
			pts = append(pts, *n.Position)
		}
	}
	return pts
}

// View implements tea.Model. Renders the full TUI.
func (app *App) View() string {
	width, height := app.size()
	parts := []string{renderHeader(app, width)}

	chartH := historyHeight
	if height < 16 {
		chartH = 0
	}
	bodyH := height - 2 - chartH // header, footer
	if bodyH < 3 {
		bodyH = 3
	}
	parts = append(parts, renderBody(app, width, bodyH))
	if chartH > 0 {
		parts = append(parts, renderHistory(app, width, chartH))
	}
	parts = append(parts, renderFooter(app, width))
	return strings.Join(parts, "\n")
}

func (app *App) size() (int, int) {
	w, h := app.width, app.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	return w, h
}
