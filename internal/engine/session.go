package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/dm/sysmap-go/internal/model"
)

// Sink is the render side: it displays the canonical graph and owns the
// layout simulation.
type Sink interface {
	// Render displays g. Nodes without a position are for the sink to place.
	Render(g *model.Graph)
	// Reheat lets the simulation settle again after a structural change
	// without discarding positions.
	Reheat()
}

// Session is the state of one dashboard session: the canonical graph, the
// poll scheduler and the camera. It has a single writer, the driver loop.
type Session struct {
	ID          string
	Graph       *model.Graph
	Scheduler   *Scheduler
	Camera      model.Camera
	LastUpdated time.Time
	LastError   error

	logger *slog.Logger
}

// NewSession starts a session around sched.
func NewSession(sched *Scheduler, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.Default()
	}
	id := uuid.NewString()
	return &Session{
		ID:        id,
		Scheduler: sched,
		Camera:    model.DefaultCamera(),
		logger:    logger.With("session", id),
	}
}

// Logger returns the session-scoped logger.
func (s *Session) Logger() *slog.Logger {
	return s.logger
}

// Outcome is what one finished poll cycle did.
type Outcome struct {
	// Stale results belonged to a superseded cycle and were dropped.
	Stale  bool
	Result Result
	Err    error
	// Retry, when set, must be armed by the driver.
	Retry *Timer
}

// HandleResult folds the result of cycle gen into the session. Order is
// fixed: drop stale results, reconcile, render, reheat on structural change,
// then reset the backoff. A failure never escapes; it comes back in the
// Outcome with the retry timer to arm.
func (s *Session) HandleResult(gen uint64, snap *model.Snapshot, err error, sink Sink) Outcome {
	if !s.Scheduler.Current(gen) {
		s.logger.Debug("dropping stale poll result", "gen", gen)
		return Outcome{Stale: true}
	}
	if err == nil && snap == nil {
		err = &FetchError{Err: fmt.Errorf("%w: empty snapshot", ErrMalformedPayload)}
	}
	if err != nil {
		s.LastError = err
		retry := s.Scheduler.Complete(gen, err)
		attrs := []any{"error", err, "autoRefresh", s.Scheduler.AutoRefresh()}
		if retry != nil {
			attrs = append(attrs, "retryIn", retry.Delay)
		}
		s.logger.Warn("poll failed", attrs...)
		return Outcome{Err: err, Retry: retry}
	}

	res := Reconcile(s.Graph, snap)
	s.Graph = res.Graph
	if sink != nil {
		sink.Render(res.Graph)
		if res.Reheat() {
			sink.Reheat()
		}
	}
	s.LastUpdated = snap.GeneratedAt
	s.LastError = nil
	s.Scheduler.Complete(gen, nil)

	level := slog.LevelDebug
	if res.Strategy != MetadataOnly {
		level = slog.LevelInfo
	}
	s.logger.Log(context.Background(), level, "poll applied",
		"strategy", res.Strategy.String(),
		"nodes", len(res.Graph.Nodes),
		"edges", len(res.Graph.Edges),
		"latency", snap.Latency,
	)
	return Outcome{Result: res}
}
