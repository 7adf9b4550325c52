// Package indicator provides streaming technical indicator calculations over
// market ticks.
//
// All indicators implement the Indicator interface, receiving ticks and
// producing float64 values. Indicators are causal and keep a fixed look-back
// window; before warm-up they return a defined startup value instead of
// failing.
package indicator

import (
	"math"

	"novacrypt-core/internal/model"
)

// Indicator is the interface for all technical indicators.
type Indicator interface {
	// Name returns the indicator name (e.g., "SMA", "RSI").
	Name() string

	// Update feeds a new tick and recalculates.
	Update(tick model.MarketTick)

	// Value returns the current calculated value. Returns a defined startup
	// value (commonly 0 or 100) when not enough data has been seen.
	Value() float64

	// Ready returns true when a full look-back window has been accumulated.
	Ready() bool
}

// window is a bounded rolling buffer of float64 samples shared by the
// window-based indicators. Oldest sample is evicted once length exceeds cap.
type window struct {
	cap  int
	vals []float64
}

func newWindow(capacity int) *window {
	return &window{cap: capacity, vals: make([]float64, 0, capacity)}
}

func (w *window) push(v float64) {
	if len(w.vals) >= w.cap {
		copy(w.vals, w.vals[1:])
		w.vals[len(w.vals)-1] = v
		return
	}
	w.vals = append(w.vals, v)
}

func (w *window) len() int { return len(w.vals) }

func (w *window) full() bool { return len(w.vals) >= w.cap }

// mean returns the simple average of the current contents, 0 if empty.
func (w *window) mean() float64 {
	if len(w.vals) == 0 {
		return 0
	}
	var sum float64
	for _, v := range w.vals {
		sum += v
	}
	return sum / float64(len(w.vals))
}

// stddev returns the population standard deviation of the current contents.
func (w *window) stddev() float64 {
	n := len(w.vals)
	if n == 0 {
		return 0
	}
	mean := w.mean()
	var variance float64
	for _, v := range w.vals {
		d := v - mean
		variance += d * d
	}
	return math.Sqrt(variance / float64(n))
}
