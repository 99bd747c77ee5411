package model

import "time"

const defaultHistoryCap = 60

// History series names accepted by PollHistory.Values.
const (
	SeriesNodes   = "nodes"
	SeriesEdges   = "edges"
	SeriesLatency = "latency"
)

// PollPoint records the shape and cost of one successful poll.
type PollPoint struct {
	Timestamp time.Time
	Nodes     int
	Edges     int
	LatencyMS float64
}

// PollHistory is a fixed-size ring buffer of PollPoints.
// When the buffer is full, new pushes overwrite the oldest entry.
type PollHistory struct {
	buf  []PollPoint
	head int // index of the next write position
	size int // number of valid entries
}

// NewPollHistory creates a PollHistory with the given capacity.
// If capacity <= 0, defaultHistoryCap (60) is used.
func NewPollHistory(capacity int) *PollHistory {
	if capacity <= 0 {
		capacity = defaultHistoryCap
	}
	return &PollHistory{
		buf: make([]PollPoint, capacity),
	}
}

// Push appends a new point, overwriting the oldest if full.
func (h *PollHistory) Push(p PollPoint) {
	h.buf[h.head] = p
	h.head = (h.head + 1) % len(h.buf)
	if h.size < len(h.buf) {
		h.size++
	}
}

// Len returns the number of valid entries.
func (h *PollHistory) Len() int {
	return h.size
}

// Cap returns the ring capacity.
func (h *PollHistory) Cap() int {
	return len(h.buf)
}

// Clear resets the history to empty.
func (h *PollHistory) Clear() {
	h.head = 0
	h.size = 0
}

// Values returns the named series in chronological order (oldest first).
// Unknown series names yield zeros.
func (h *PollHistory) Values(series string) []float64 {
	out := make([]float64, h.size)
	// oldest entry sits at (head - size + cap) % cap
	start := (h.head - h.size + len(h.buf)) % len(h.buf)
	for i := 0; i < h.size; i++ {
		p := h.buf[(start+i)%len(h.buf)]
		switch series {
		case SeriesNodes:
			out[i] = float64(p.Nodes)
		case SeriesEdges:
			out[i] = float64(p.Edges)
		case SeriesLatency:
			out[i] = p.LatencyMS
		}
	}
	return out
}
