package indicator

import "novacrypt-core/internal/model"

// EMA calculates an Exponential Moving Average, seeded with the first
// observed close. O(1) per update, no window storage needed.
type EMA struct {
	period int
	alpha  float64
	value  float64
	count  int
}

// NewEMA creates a new EMA indicator with the given period.
func NewEMA(period int) *EMA {
	return &EMA{
		period: period,
		alpha:  2.0 / float64(period+1),
	}
}

func (e *EMA) Name() string { return "EMA" }

func (e *EMA) Update(tick model.MarketTick) {
	e.updateValue(tick.Price)
}

// updateValue applies one sample. Split out so MACD can run a signal EMA over
// the macd series rather than over ticks.
func (e *EMA) updateValue(v float64) {
	e.count++
	if e.count == 1 {
		e.value = v
		return
	}
	e.value = e.alpha*v + (1-e.alpha)*e.value
}

func (e *EMA) Value() float64 { return e.value }
func (e *EMA) Ready() bool    { return e.count >= e.period }
