package engine

import "time"

// State is the scheduler's position in its poll loop.
type State int

const (
	StateIdle State = iota
	StatePolling
	StateBackoff
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateBackoff:
		return "backoff"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Timer is a one-shot timer the driver must arm: after Delay, hand it back
// to Fire. A timer whose generation has moved on is ignored, which is how
// the scheduler cancels timers it no longer wants.
type Timer struct {
	Gen   uint64
	Delay time.Duration
	Retry bool
}

// Cycle is a poll the driver must start. Its result goes back through
// Current/Complete tagged with Gen.
type Cycle struct {
	Gen uint64
}

// SchedulerConfig configures a Scheduler.
type SchedulerConfig struct {
	Interval    time.Duration
	PauseWindow time.Duration
	Backoff     *Backoff
	AutoRefresh bool
}

// Scheduler decides when polls run. It owns no goroutines and no clocks:
// the driver (the Bubble Tea loop, or Runner) arms the Timers it returns,
// starts the Cycles it returns and reports back. All methods must be called
// from that one driver.
//
// At most one cycle is in flight. Responses for superseded cycles are
// rejected by generation.
type Scheduler struct {
	interval    time.Duration
	pauseWindow time.Duration
	backoff     *Backoff
	auto        bool

	state      State
	pauseUntil time.Time
	timerGen   uint64
	pollGen    uint64
	inFlight   bool
}

// NewScheduler returns a scheduler that has not polled yet.
func NewScheduler(cfg SchedulerConfig) *Scheduler {
	if cfg.Backoff == nil {
		cfg.Backoff = NewBackoff(2*time.Second, 1.6, 15*time.Second)
	}
	s := &Scheduler{
		interval:    cfg.Interval,
		pauseWindow: cfg.PauseWindow,
		backoff:     cfg.Backoff,
		auto:        cfg.AutoRefresh,
	}
	s.state = s.restingState()
	return s
}

// State returns the current state.
func (s *Scheduler) State() State { return s.state }

// AutoRefresh reports whether periodic polling is enabled.
func (s *Scheduler) AutoRefresh() bool { return s.auto }

// InFlight reports whether a cycle is outstanding.
func (s *Scheduler) InFlight() bool { return s.inFlight }

// Backoff exposes the retry delay state.
func (s *Scheduler) Backoff() *Backoff { return s.backoff }

// Interval returns the regular poll interval.
func (s *Scheduler) Interval() time.Duration { return s.interval }

// Start issues the first poll right away and, with auto-refresh on, arms
// the regular interval.
func (s *Scheduler) Start() (Cycle, *Timer) {
	c := s.begin()
	if !s.auto {
		return c, nil
	}
	return c, s.arm(s.interval, false)
}

// Fire handles an expired timer. It returns the cycle to start (nil when
// the tick is skipped) and the timer to arm next (nil when the timer was
// stale). A tick is skipped while a cycle is in flight or while the user is
// interacting with the view. A retry re-arms the regular interval.
func (s *Scheduler) Fire(t Timer, now time.Time) (*Cycle, *Timer) {
	if t.Gen != s.timerGen || !s.auto {
		return nil, nil
	}
	if t.Retry && !s.inFlight {
		s.state = StateIdle
	}
	next := s.arm(s.interval, false)
	if s.inFlight || s.Paused(now) {
		return nil, next
	}
	c := s.begin()
	return &c, next
}

// RefreshNow starts a cycle on explicit user request, unless one is
// already in flight. It ignores the pause window.
func (s *Scheduler) RefreshNow() *Cycle {
	if s.inFlight {
		return nil
	}
	c := s.begin()
	return &c
}

// Current reports whether a result tagged gen belongs to the outstanding
// cycle. Anything else is late and must be dropped unread.
func (s *Scheduler) Current(gen uint64) bool {
	return s.inFlight && gen == s.pollGen
}

// Complete records the outcome of cycle gen. Success resets the backoff.
// Failure cancels the regular interval and, with auto-refresh on, returns
// a one-shot retry timer after the current backoff delay, growing the delay
// for next time. Stale results are ignored.
func (s *Scheduler) Complete(gen uint64, err error) (retry *Timer) {
	if !s.Current(gen) {
		return nil
	}
	s.inFlight = false

	if err == nil {
		s.backoff.Reset()
		s.state = s.restingState()
		return nil
	}

	s.timerGen++
	if !s.auto {
		s.state = StateStopped
		return nil
	}
	s.state = StateBackoff
	return s.arm(s.backoff.Next(), true)
}

// SetAutoRefresh toggles periodic polling. Turning it off cancels every
// pending timer and orphans any in-flight cycle. Turning it on arms the
// regular interval.
func (s *Scheduler) SetAutoRefresh(on bool) *Timer {
	s.timerGen++
	s.auto = on
	if !on {
		s.pollGen++
		s.inFlight = false
		s.state = StateStopped
		return nil
	}
	if !s.inFlight {
		s.state = StateIdle
	}
	return s.arm(s.interval, false)
}

// Interact opens the pause window: ticks inside it are skipped so a
// re-render does not fight the user's drag or zoom.
func (s *Scheduler) Interact(now time.Time) {
	s.pauseUntil = now.Add(s.pauseWindow)
}

// Paused reports whether now falls inside the pause window.
func (s *Scheduler) Paused(now time.Time) bool {
	return now.Before(s.pauseUntil)
}

func (s *Scheduler) begin() Cycle {
	s.pollGen++
	s.inFlight = true
	s.state = StatePolling
	return Cycle{Gen: s.pollGen}
}

func (s *Scheduler) arm(d time.Duration, retry bool) *Timer {
	return &Timer{Gen: s.timerGen, Delay: d, Retry: retry}
}

func (s *Scheduler) restingState() State {
	if s.auto {
		return StateIdle
	}
	return StateStopped
}
