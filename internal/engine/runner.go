package engine

import (
	"context"
	"time"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/model"
)

// Runner drives a Session without a UI: one goroutine owns the session and
// the scheduler; fetches run in the background and report back over a
// channel, so the session itself is never touched concurrently.
type Runner struct {
	Session      *Session
	Client       client.TopologyClient
	Sink         Sink
	FetchTimeout time.Duration
	// Report, if set, is called on the loop goroutine after every cycle.
	Report func(Outcome)
}

type cycleResult struct {
	gen  uint64
	snap *model.Snapshot
	err  error
}

// Run polls until ctx is done. It returns nil on cancellation.
func (r *Runner) Run(ctx context.Context) error {
	timeout := r.FetchTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	results := make(chan cycleResult, 1)
	fired := make(chan Timer, 1)

	var current *time.Timer
	arm := func(t *Timer) {
		if t == nil {
			return
		}
		if current != nil {
			current.Stop()
		}
		tt := *t
		current = time.AfterFunc(tt.Delay, func() {
			select {
			case fired <- tt:
			case <-ctx.Done():
			}
		})
	}
	start := func(c *Cycle) {
		if c == nil {
			return
		}
		gen := c.Gen
		go func() {
			fctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			snap, err := FetchSnapshot(fctx, r.Client)
			select {
			case results <- cycleResult{gen: gen, snap: snap, err: err}:
			case <-ctx.Done():
			}
		}()
	}
	defer func() {
		if current != nil {
			current.Stop()
		}
	}()

	first, t := r.Session.Scheduler.Start()
	start(&first)
	arm(t)

	for {
		select {
		case <-ctx.Done():
			return nil
		case res := <-results:
			out := r.Session.HandleResult(res.gen, res.snap, res.err, r.Sink)
			arm(out.Retry)
			if r.Report != nil && !out.Stale {
				r.Report(out)
			}
		case t := <-fired:
			c, next := r.Session.Scheduler.Fire(t, time.Now())
			start(c)
			arm(next)
		}
	}
}
