package indicator

import (
	"testing"

	"novacrypt-core/internal/model"
)

func testBook() model.OrderBookSnapshot {
	return model.OrderBookSnapshot{
		Bids: []model.Level{{Price: 100, Volume: 3}, {Price: 99, Volume: 1}},
		Asks: []model.Level{{Price: 101, Volume: 1}, {Price: 102, Volume: 1}},
		Source: "TEST", Confidence: 1,
	}
}

func TestEngine_FeatureVectorLength(t *testing.T) {
	e := NewEngine(nil, nil) // defaults: 3 SMAs, 2 EMAs
	feats := e.FeatureVector()
	if len(feats) != 16 {
		t.Fatalf("expected 16 engine features (8+3+2+3), got %d", len(feats))
	}
	if e.FeatureCount() != len(feats) {
		t.Errorf("FeatureCount()=%d, vector length=%d", e.FeatureCount(), len(feats))
	}
}

func TestEngine_FeatureVectorOrder(t *testing.T) {
	e := NewEngine([]int{2}, []int{3})
	for _, p := range []float64{10, 20} {
		e.Update(tick(p))
	}
	e.UpdateOrderBook(testBook())

	feats := e.FeatureVector()
	if len(feats) != 13 { // 8 + 1 SMA + 1 EMA + 3 book
		t.Fatalf("expected 13 features, got %d", len(feats))
	}

	assertClose(t, "RSI slot", feats[0], e.IndicatorValue("RSI"), 1e-12)
	assertClose(t, "MACD slot", feats[1], e.IndicatorValue("MACD"), 1e-12)
	assertClose(t, "signal slot", feats[2], e.IndicatorValue("MACD_SIGNAL"), 1e-12)
	assertClose(t, "hist slot", feats[3], e.IndicatorValue("MACD_HIST"), 1e-12)
	assertClose(t, "BB upper slot", feats[4], e.IndicatorValue("BB_UPPER"), 1e-12)
	assertClose(t, "BB middle slot", feats[5], e.IndicatorValue("BB_MIDDLE"), 1e-12)
	assertClose(t, "BB lower slot", feats[6], e.IndicatorValue("BB_LOWER"), 1e-12)
	assertClose(t, "ATR slot", feats[7], e.IndicatorValue("ATR"), 1e-12)
	assertClose(t, "SMA slot", feats[8], e.SMA(2), 1e-12)
	assertClose(t, "EMA slot", feats[9], e.EMA(3), 1e-12)
	assertClose(t, "spread slot", feats[10], e.Spread(), 1e-12)
	assertClose(t, "imbalance slot", feats[11], e.Imbalance(), 1e-12)
	assertClose(t, "slippage slot", feats[12], e.SlippageEstimate(), 1e-12)
}

func TestEngine_OrderBookMetrics(t *testing.T) {
	e := NewEngine(nil, nil)
	e.UpdateOrderBook(testBook())

	// spread = 101 - 100 = 1
	// imbalance = (4 - 2) / (4 + 2) = 1/3
	// slippage = 1 * (1 + 1/3) = 4/3
	assertClose(t, "spread", e.Spread(), 1, 1e-9)
	assertClose(t, "imbalance", e.Imbalance(), 1.0/3.0, 1e-9)
	assertClose(t, "slippage", e.SlippageEstimate(), 4.0/3.0, 1e-9)
}

func TestEngine_EmptyBookMetricsAreZero(t *testing.T) {
	e := NewEngine(nil, nil)
	assertClose(t, "spread", e.Spread(), 0, 1e-12)
	assertClose(t, "imbalance", e.Imbalance(), 0, 1e-12)
	assertClose(t, "slippage", e.SlippageEstimate(), 0, 1e-12)

	e.UpdateOrderBook(model.OrderBookSnapshot{Asks: []model.Level{{Price: 101, Volume: 1}}})
	assertClose(t, "spread one-sided", e.Spread(), 0, 1e-12)
}

func TestEngine_OrderBookLastWriteWins(t *testing.T) {
	e := NewEngine(nil, nil)
	e.UpdateOrderBook(testBook())

	second := testBook()
	second.Bids[0].Price = 200
	second.Asks[0].Price = 201
	e.UpdateOrderBook(second)

	book, ok := e.OrderBook()
	if !ok {
		t.Fatal("expected a stored book")
	}
	assertClose(t, "best bid", book.BestBid(), 200, 1e-12)
	assertClose(t, "spread", e.Spread(), 1, 1e-9)
}

func TestEngine_SMAAccessors(t *testing.T) {
	e := NewEngine([]int{2, 4}, []int{3})
	for _, p := range []float64{10, 20, 30, 40} {
		e.Update(tick(p))
	}

	assertClose(t, "SMA(2)", e.SMA(2), 35, 1e-9)
	assertClose(t, "SMA(4)", e.SMA(4), 25, 1e-9)
	if e.SMA(99) != 0 {
		t.Errorf("unconfigured SMA period should be 0, got %v", e.SMA(99))
	}
	if e.EMA(99) != 0 {
		t.Errorf("unconfigured EMA period should be 0, got %v", e.EMA(99))
	}
	if e.IndicatorValue("NOPE") != 0 {
		t.Errorf("unknown indicator name should be 0")
	}
}
