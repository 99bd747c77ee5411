package engine

import (
	"math"
	"time"
)

// Backoff spaces out retries after failed polls. Each failure multiplies
// the delay by Factor, capped at Ceiling; a success drops it back to Floor.
type Backoff struct {
	floor   time.Duration
	factor  float64
	ceiling time.Duration
	current time.Duration
}

// NewBackoff returns a Backoff starting at floor.
func NewBackoff(floor time.Duration, factor float64, ceiling time.Duration) *Backoff {
	if factor < 1 {
		factor = 1
	}
	if ceiling < floor {
		ceiling = floor
	}
	return &Backoff{floor: floor, factor: factor, ceiling: ceiling, current: floor}
}

// Current returns the delay the next retry will wait.
func (b *Backoff) Current() time.Duration {
	return b.current
}

// Next returns the delay for this retry and grows the delay for the one after.
// Delays are kept in whole milliseconds.
func (b *Backoff) Next() time.Duration {
	d := b.current
	grown := time.Duration(math.Round(float64(b.current.Milliseconds())*b.factor)) * time.Millisecond
	b.current = min(b.ceiling, grown)
	return d
}

// Reset drops the delay back to the floor.
func (b *Backoff) Reset() {
	b.current = b.floor
}
