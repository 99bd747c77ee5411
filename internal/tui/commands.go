package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/model"
)

const (
	resolveTimeout = 30 * time.Second
	toastDuration  = 1600 * time.Millisecond
)

// timerCmd arms a scheduler timer. A nil timer arms nothing.
func timerCmd(t *engine.Timer) tea.Cmd {
	if t == nil {
		return nil
	}
	armed := *t
	return tea.Tick(armed.Delay, func(time.Time) tea.Msg {
		return TimerMsg{Timer: armed}
	})
}

// fetchCmd runs poll cycle c against the backend.
func fetchCmd(c client.TopologyClient, cycle *engine.Cycle, timeout time.Duration) tea.Cmd {
	if c == nil || cycle == nil {
		return nil
	}
	gen := cycle.Gen
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		snap, err := engine.FetchSnapshot(ctx, c)
		return PollResultMsg{Gen: gen, Snapshot: snap, Err: err}
	}
}

func resolveCmd(r Resolver) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		base, err := r.Resolve(ctx)
		return ResolvedMsg{Base: base, Err: err}
	}
}

// adoptCmd probes base and, if it answers, reports it as resolved.
func adoptCmd(r Resolver, base string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), resolveTimeout)
		defer cancel()
		if !r.Probe(ctx, base) {
			return ResolvedMsg{Err: fmt.Errorf("endpoint %s not reachable", base)}
		}
		return ResolvedMsg{Base: base}
	}
}

func processCmd(c client.TopologyClient, nodeID string, pid int, timeout time.Duration) tea.Cmd {
	if c == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		p, err := c.Process(ctx, pid)
		return ProcessDetailMsg{NodeID: nodeID, Detail: p, Err: err}
	}
}

// watchCmd waits for the next state file change. It yields nothing once
// the channel is closed.
func watchCmd(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return StateChangedMsg{}
	}
}

func debounceCmd(d time.Duration, seq int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return cameraSaveMsg{seq: seq}
	})
}

func saveCameraCmd(store ViewStore, cam model.Camera) tea.Cmd {
	return func() tea.Msg {
		return cameraSavedMsg{err: store.SetCamera(cam)}
	}
}

func toastCmd(seq int) tea.Cmd {
	return tea.Tick(toastDuration, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}
