package indicator

import (
	"math"
	"sort"

	"novacrypt-core/internal/model"
)

// Default indicator configuration.
var (
	DefaultSMAPeriods = []int{20, 50, 200}
	DefaultEMAPeriods = []int{12, 26}
)

// Engine owns one instance of each core indicator plus configurable SMA/EMA
// sets and the most recent order-book snapshot, and assembles the flat
// feature vector consumed by the decision layer.
//
// Designed for single-goroutine usage (the pipeline's drain loop); no locks.
type Engine struct {
	rsi  *RSI
	macd *MACD
	bb   *BollingerBands
	atr  *ATR

	smaPeriods []int
	smas       map[int]*SMA
	emaPeriods []int
	emas       map[int]*EMA

	book    model.OrderBookSnapshot
	hasBook bool
}

// NewEngine creates an engine with RSI(14), MACD(12,26,9),
// BollingerBands(20,2.0), ATR(14) and the given SMA/EMA period sets.
// Nil period slices select the defaults. Periods are kept in ascending order
// so the feature vector layout is deterministic.
func NewEngine(smaPeriods, emaPeriods []int) *Engine {
	if smaPeriods == nil {
		smaPeriods = DefaultSMAPeriods
	}
	if emaPeriods == nil {
		emaPeriods = DefaultEMAPeriods
	}

	e := &Engine{
		rsi:        NewRSI(14),
		macd:       NewMACD(12, 26, 9),
		bb:         NewBollingerBands(20, 2.0),
		atr:        NewATR(14),
		smaPeriods: append([]int(nil), smaPeriods...),
		smas:       make(map[int]*SMA, len(smaPeriods)),
		emaPeriods: append([]int(nil), emaPeriods...),
		emas:       make(map[int]*EMA, len(emaPeriods)),
	}
	sort.Ints(e.smaPeriods)
	sort.Ints(e.emaPeriods)

	for _, p := range e.smaPeriods {
		e.smas[p] = NewSMA(p)
	}
	for _, p := range e.emaPeriods {
		e.emas[p] = NewEMA(p)
	}
	return e
}

// Update forwards the tick to every indicator. Indicators are independent,
// order does not matter.
func (e *Engine) Update(tick model.MarketTick) {
	e.rsi.Update(tick)
	e.macd.Update(tick)
	e.bb.Update(tick)
	e.atr.Update(tick)
	for _, s := range e.smas {
		s.Update(tick)
	}
	for _, m := range e.emas {
		m.Update(tick)
	}
}

// UpdateOrderBook replaces the stored snapshot. Last write wins, no history.
func (e *Engine) UpdateOrderBook(book model.OrderBookSnapshot) {
	e.book = book.Clone()
	e.hasBook = true
}

// OrderBook returns a copy of the stored snapshot and whether one exists.
func (e *Engine) OrderBook() (model.OrderBookSnapshot, bool) {
	return e.book.Clone(), e.hasBook
}

// FeatureCount returns the length of the vector FeatureVector produces.
func (e *Engine) FeatureCount() int {
	return 8 + len(e.smaPeriods) + len(e.emaPeriods) + 3
}

// FeatureVector returns, in fixed order:
// {RSI, MACD, MACD signal, MACD histogram, BB upper, BB middle, BB lower, ATR}
// ++ configured SMAs (ascending period) ++ configured EMAs (ascending period)
// ++ {spread, imbalance, slippage estimate}.
func (e *Engine) FeatureVector() []float64 {
	features := make([]float64, 0, e.FeatureCount())
	features = append(features,
		e.rsi.Value(),
		e.macd.Value(),
		e.macd.Signal(),
		e.macd.Histogram(),
		e.bb.Upper(),
		e.bb.Middle(),
		e.bb.Lower(),
		e.atr.Value(),
	)
	for _, p := range e.smaPeriods {
		features = append(features, e.smas[p].Value())
	}
	for _, p := range e.emaPeriods {
		features = append(features, e.emas[p].Value())
	}
	features = append(features, e.Spread(), e.Imbalance(), e.SlippageEstimate())
	return features
}

// IndicatorValue looks up a single scalar output by name. Returns 0 for
// unknown names.
func (e *Engine) IndicatorValue(name string) float64 {
	switch name {
	case "RSI":
		return e.rsi.Value()
	case "MACD":
		return e.macd.Value()
	case "MACD_SIGNAL":
		return e.macd.Signal()
	case "MACD_HIST":
		return e.macd.Histogram()
	case "BB_UPPER":
		return e.bb.Upper()
	case "BB_MIDDLE":
		return e.bb.Middle()
	case "BB_LOWER":
		return e.bb.Lower()
	case "ATR":
		return e.atr.Value()
	}
	return 0
}

// SMA returns the value of the configured SMA with the given period, 0 if the
// period is not configured.
func (e *Engine) SMA(period int) float64 {
	if s, ok := e.smas[period]; ok {
		return s.Value()
	}
	return 0
}

// EMA returns the value of the configured EMA with the given period, 0 if the
// period is not configured.
func (e *Engine) EMA(period int) float64 {
	if m, ok := e.emas[period]; ok {
		return m.Value()
	}
	return 0
}

// Spread returns bestAsk - bestBid from the stored snapshot, 0 if either side
// is empty.
func (e *Engine) Spread() float64 {
	if len(e.book.Bids) == 0 || len(e.book.Asks) == 0 {
		return 0
	}
	return e.book.BestAsk() - e.book.BestBid()
}

// Imbalance returns (Σbidvol - Σaskvol)/(Σbidvol + Σaskvol) in [-1,1],
// 0 if either side is empty.
func (e *Engine) Imbalance() float64 {
	if len(e.book.Bids) == 0 || len(e.book.Asks) == 0 {
		return 0
	}
	bid, ask := e.book.BidVolume(), e.book.AskVolume()
	total := bid + ask
	if total == 0 {
		return 0
	}
	return (bid - ask) / total
}

// SlippageEstimate returns spread * (1 + |imbalance|), a coarse depth-aware
// estimate rather than a simulated fill.
func (e *Engine) SlippageEstimate() float64 {
	if len(e.book.Bids) == 0 || len(e.book.Asks) == 0 {
		return 0
	}
	return e.Spread() * (1 + math.Abs(e.Imbalance()))
}
