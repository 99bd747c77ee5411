package tui

import (
	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/model"
)

// ResolvedMsg reports the outcome of endpoint discovery.
type ResolvedMsg struct {
	Base string
	Err  error
}

// PollResultMsg delivers the outcome of poll cycle Gen.
type PollResultMsg struct {
	Gen      uint64
	Snapshot *model.Snapshot
	Err      error
}

// TimerMsg is a scheduler timer coming due.
type TimerMsg struct{ Timer engine.Timer }

// ProcessDetailMsg delivers the on-demand record of a selected process.
type ProcessDetailMsg struct {
	NodeID string
	Detail *client.ProcessDetail
	Err    error
}

// StateChangedMsg signals that the state file was written by someone.
type StateChangedMsg struct{}

type cameraSaveMsg struct{ seq int }

type cameraSavedMsg struct{ err error }

type toastExpiredMsg struct{ seq int }
