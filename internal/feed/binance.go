// Package feed adapts external market-data feeds onto the ingestion pipeline.
package feed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"novacrypt-core/internal/model"
)

// Sink receives normalized feed output. Satisfied by *pipeline.Pipeline.
type Sink interface {
	PushMarketData(model.MarketTick) error
	PushOrderBook(model.OrderBookSnapshot) error
}

// sourceName is the quality-tracker source label for this adapter.
const sourceName = "Binance"

// feedConfidence is attached to every normalized item. Binance publishes no
// per-message confidence, so the adapter self-reports a fixed value.
const feedConfidence = 0.99

// Binance streams trades and level-20 depth snapshots for one symbol over a
// combined websocket stream and pushes normalized items into a Sink.
// Reconnects with exponential backoff until the context is cancelled.
type Binance struct {
	Symbol string // lower-case, e.g. "btcusdt"

	// OnReconnect is called after a dropped connection, before redialing.
	OnReconnect func()

	log *slog.Logger
}

// NewBinance creates a feed adapter for one symbol.
func NewBinance(symbol string, log *slog.Logger) *Binance {
	return &Binance{Symbol: strings.ToLower(symbol), log: log}
}

type envelope struct {
	Stream string          `json:"stream"`
	Data   json.RawMessage `json:"data"`
}

type tradeMessage struct {
	Price     string `json:"p"`
	Quantity  string `json:"q"`
	TradeTime int64  `json:"T"` // ms since epoch
}

type depthMessage struct {
	Bids [][2]string `json:"bids"`
	Asks [][2]string `json:"asks"`
}

// Run connects and streams until ctx is cancelled. Validation rejections from
// the sink are logged and counted by the pipeline, never fatal.
func (b *Binance) Run(ctx context.Context, sink Sink) error {
	if b.Symbol == "" {
		return fmt.Errorf("feed: symbol required")
	}

	url := fmt.Sprintf("wss://stream.binance.com:9443/stream?streams=%s@trade/%s@depth20@100ms",
		b.Symbol, b.Symbol)

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := b.consume(ctx, url, sink)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.log.Warn("feed disconnected, retrying", "err", err, "backoff", backoff)
		if b.OnReconnect != nil {
			b.OnReconnect()
		}
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
	}
}

func (b *Binance) consume(ctx context.Context, url string, sink Sink) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	b.log.Info("feed connected", "symbol", b.Symbol)

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var env envelope
		if err := json.Unmarshal(message, &env); err != nil {
			b.log.Warn("feed: undecodable message", "err", err)
			continue
		}

		switch {
		case strings.HasSuffix(env.Stream, "@trade"):
			b.handleTrade(env.Data, sink)
		case strings.Contains(env.Stream, "@depth"):
			b.handleDepth(env.Data, sink)
		}
	}
}

func (b *Binance) handleTrade(data json.RawMessage, sink Sink) {
	var msg tradeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		b.log.Warn("feed: bad trade message", "err", err)
		return
	}

	price, perr := strconv.ParseFloat(msg.Price, 64)
	qty, qerr := strconv.ParseFloat(msg.Quantity, 64)
	if perr != nil || qerr != nil {
		b.log.Warn("feed: unparseable trade fields", "price", msg.Price, "qty", msg.Quantity)
		return
	}

	tick := model.MarketTick{
		Price:      price,
		Volume:     qty,
		Timestamp:  time.UnixMilli(msg.TradeTime).UTC(),
		Source:     sourceName,
		Confidence: feedConfidence,
	}
	if err := sink.PushMarketData(tick); err != nil {
		b.log.Debug("feed: tick rejected", "err", err)
	}
}

func (b *Binance) handleDepth(data json.RawMessage, sink Sink) {
	var msg depthMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		b.log.Warn("feed: bad depth message", "err", err)
		return
	}

	book := model.OrderBookSnapshot{
		Bids:       parseLevels(msg.Bids),
		Asks:       parseLevels(msg.Asks),
		Timestamp:  time.Now().UTC(), // depth snapshots carry no event time
		Source:     sourceName,
		Confidence: feedConfidence,
	}
	if err := sink.PushOrderBook(book); err != nil {
		b.log.Debug("feed: book rejected", "err", err)
	}
}

func parseLevels(raw [][2]string) []model.Level {
	levels := make([]model.Level, 0, len(raw))
	for _, l := range raw {
		price, perr := strconv.ParseFloat(l[0], 64)
		volume, verr := strconv.ParseFloat(l[1], 64)
		if perr != nil || verr != nil {
			continue
		}
		// Binance pads depth snapshots with zero levels on thin books;
		// they would fail validation downstream.
		if price <= 0 || volume <= 0 {
			continue
		}
		levels = append(levels, model.Level{Price: price, Volume: volume})
	}
	return levels
}
