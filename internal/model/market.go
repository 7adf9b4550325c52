package model

import "time"

// MarketTick represents a single price/volume observation from an upstream
// source. Immutable once constructed; the pipeline consumes it exactly once.
type MarketTick struct {
	Price      float64   `json:"price"`
	Volume     float64   `json:"volume"`
	High       float64   `json:"high,omitempty"` // optional; 0 means "use Price"
	Low        float64   `json:"low,omitempty"`  // optional; 0 means "use Price"
	Timestamp  time.Time `json:"timestamp"`      // event time at the source (UTC)
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"` // self-reported, [0,1]
}

// HighPrice returns the tick high, falling back to the trade price for feeds
// that only report last-trade data.
func (t *MarketTick) HighPrice() float64 {
	if t.High > 0 {
		return t.High
	}
	return t.Price
}

// LowPrice returns the tick low, falling back to the trade price.
func (t *MarketTick) LowPrice() float64 {
	if t.Low > 0 {
		return t.Low
	}
	return t.Price
}

// Level is a single resting price level in an order book.
type Level struct {
	Price  float64 `json:"price"`
	Volume float64 `json:"volume"`
}

// OrderBookSnapshot is a point-in-time view of the resting bids and asks of a
// source. Bids are ordered best-first (strictly decreasing by price), asks
// best-first (strictly increasing by price). Immutable.
type OrderBookSnapshot struct {
	Bids       []Level   `json:"bids"`
	Asks       []Level   `json:"asks"`
	Timestamp  time.Time `json:"timestamp"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
}

// BestBid returns the highest resting bid price, or 0 if the bid side is empty.
func (b *OrderBookSnapshot) BestBid() float64 {
	if len(b.Bids) == 0 {
		return 0
	}
	return b.Bids[0].Price
}

// BestAsk returns the lowest resting ask price, or 0 if the ask side is empty.
func (b *OrderBookSnapshot) BestAsk() float64 {
	if len(b.Asks) == 0 {
		return 0
	}
	return b.Asks[0].Price
}

// BidVolume returns the total resting volume on the bid side.
func (b *OrderBookSnapshot) BidVolume() float64 {
	var sum float64
	for _, l := range b.Bids {
		sum += l.Volume
	}
	return sum
}

// AskVolume returns the total resting volume on the ask side.
func (b *OrderBookSnapshot) AskVolume() float64 {
	var sum float64
	for _, l := range b.Asks {
		sum += l.Volume
	}
	return sum
}

// Clone returns a deep copy of the snapshot so callers can hold it without
// pinning the pipeline's internal state.
func (b *OrderBookSnapshot) Clone() OrderBookSnapshot {
	cp := *b
	cp.Bids = append([]Level(nil), b.Bids...)
	cp.Asks = append([]Level(nil), b.Asks...)
	return cp
}
