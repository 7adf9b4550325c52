package indicator

import (
	"math"

	"novacrypt-core/internal/model"
)

// ATR calculates the Average True Range as a simple rolling mean of the true
// range over the last `period` samples.
type ATR struct {
	period    int
	prevClose float64
	seeded    bool
	ranges    *window
}

// NewATR creates a new ATR indicator with the given period (typically 14).
func NewATR(period int) *ATR {
	return &ATR{period: period, ranges: newWindow(period)}
}

func (a *ATR) Name() string { return "ATR" }

func (a *ATR) Update(tick model.MarketTick) {
	high, low, close := tick.HighPrice(), tick.LowPrice(), tick.Price
	if !a.seeded {
		a.prevClose = close
		a.seeded = true
		return
	}

	tr := math.Max(high-low, math.Max(math.Abs(high-a.prevClose), math.Abs(low-a.prevClose)))
	a.ranges.push(tr)
	a.prevClose = close
}

func (a *ATR) Value() float64 { return a.ranges.mean() }
func (a *ATR) Ready() bool    { return a.ranges.full() }
