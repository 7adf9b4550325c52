package indicator

import "novacrypt-core/internal/model"

// RSI calculates the Relative Strength Index over the last `period` signed
// price changes. Gains and losses are averaged with plain rolling means, not
// Wilder's smoothing.
type RSI struct {
	period    int
	prevClose float64
	seeded    bool
	gains     *window
	losses    *window
}

// NewRSI creates a new RSI indicator with the given period (typically 14).
func NewRSI(period int) *RSI {
	return &RSI{
		period: period,
		gains:  newWindow(period),
		losses: newWindow(period),
	}
}

func (r *RSI) Name() string { return "RSI" }

func (r *RSI) Update(tick model.MarketTick) {
	price := tick.Price
	if !r.seeded {
		// First tick only establishes the reference close, no delta yet.
		r.prevClose = price
		r.seeded = true
		return
	}

	change := price - r.prevClose
	r.prevClose = price

	if change >= 0 {
		r.gains.push(change)
		r.losses.push(0)
	} else {
		r.gains.push(0)
		r.losses.push(-change)
	}
}

// Value returns the RSI in [0,100]. With no losses in the window (including
// before warm-up) it returns 100.
func (r *RSI) Value() float64 {
	avgLoss := r.losses.mean()
	if avgLoss == 0 {
		return 100
	}
	rs := r.gains.mean() / avgLoss
	return 100 - 100/(1+rs)
}

func (r *RSI) Ready() bool { return r.gains.full() }
