package indicator

import "novacrypt-core/internal/model"

// MACD calculates Moving Average Convergence Divergence:
// macd = EMA(fast) - EMA(slow), signal = EMA(signalPeriod) over the macd
// series, histogram = macd - signal.
type MACD struct {
	fast   *EMA
	slow   *EMA
	signal *EMA
	macd   float64
}

// NewMACD creates a MACD indicator with the given fast/slow/signal periods
// (typically 12, 26, 9).
func NewMACD(fastPeriod, slowPeriod, signalPeriod int) *MACD {
	return &MACD{
		fast:   NewEMA(fastPeriod),
		slow:   NewEMA(slowPeriod),
		signal: NewEMA(signalPeriod),
	}
}

func (m *MACD) Name() string { return "MACD" }

func (m *MACD) Update(tick model.MarketTick) {
	m.fast.Update(tick)
	m.slow.Update(tick)
	m.macd = m.fast.Value() - m.slow.Value()
	m.signal.updateValue(m.macd)
}

// Value returns the MACD line.
func (m *MACD) Value() float64 { return m.macd }

// Signal returns the signal line.
func (m *MACD) Signal() float64 { return m.signal.Value() }

// Histogram returns macd - signal.
func (m *MACD) Histogram() float64 { return m.macd - m.signal.Value() }

func (m *MACD) Ready() bool { return m.slow.Ready() }
