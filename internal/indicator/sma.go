package indicator

import "novacrypt-core/internal/model"

// SMA calculates a Simple Moving Average over the last `period` closes.
// Before the window fills it averages whatever it has seen.
type SMA struct {
	period int
	win    *window
}

// NewSMA creates a new SMA indicator with the given period.
func NewSMA(period int) *SMA {
	return &SMA{period: period, win: newWindow(period)}
}

func (s *SMA) Name() string { return "SMA" }

func (s *SMA) Update(tick model.MarketTick) {
	s.win.push(tick.Price)
}

func (s *SMA) Value() float64 { return s.win.mean() }
func (s *SMA) Ready() bool    { return s.win.full() }
