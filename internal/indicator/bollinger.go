package indicator

import "novacrypt-core/internal/model"

// BollingerBands calculates a middle band (SMA) with upper/lower bands at
// k population standard deviations over the last `period` closes.
type BollingerBands struct {
	k   float64
	win *window
}

// NewBollingerBands creates a Bollinger Bands indicator (typically 20, 2.0).
func NewBollingerBands(period int, k float64) *BollingerBands {
	return &BollingerBands{k: k, win: newWindow(period)}
}

func (b *BollingerBands) Name() string { return "BollingerBands" }

func (b *BollingerBands) Update(tick model.MarketTick) {
	b.win.push(tick.Price)
}

// Value returns the middle band.
func (b *BollingerBands) Value() float64 { return b.win.mean() }

// Middle returns the middle band (SMA of the window).
func (b *BollingerBands) Middle() float64 { return b.win.mean() }

// Upper returns middle + k*stddev.
func (b *BollingerBands) Upper() float64 {
	return b.win.mean() + b.k*b.win.stddev()
}

// Lower returns middle - k*stddev.
func (b *BollingerBands) Lower() float64 {
	return b.win.mean() - b.k*b.win.stddev()
}

func (b *BollingerBands) Ready() bool { return b.win.full() }
