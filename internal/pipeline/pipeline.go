// Package pipeline orchestrates market-data ingestion: it validates incoming
// ticks and order books, buffers them in bounded lossy queues, drains them on
// a background loop into the indicator engine and quality tracker, and
// publishes results through per-stream callbacks.
package pipeline

import (
	"log/slog"
	"sync"
	"time"

	"novacrypt-core/internal/indicator"
	"novacrypt-core/internal/metrics"
	"novacrypt-core/internal/model"
	"novacrypt-core/internal/quality"
	"novacrypt-core/internal/sentiment"
)

// Confidence thresholds for the post-hoc accuracy heuristic. Accuracy is
// derived from the self-reported confidence field, not from a ground-truth
// comparison.
const (
	priceAccuracyConfidence     = 0.95
	volumeAccuracyConfidence    = 0.90
	orderBookAccuracyConfidence = 0.95
)

// sentimentMaxAge bounds how long sentiment observations are retained; the
// drain loop prunes older ones each pass.
const sentimentMaxAge = 24 * time.Hour

// Callback types. At most one callback per stream; replacing is allowed and
// nil unsets. Callbacks run outside all pipeline locks.
type (
	MarketDataCallback func(model.MarketTick)
	OrderBookCallback  func(model.OrderBookSnapshot)
	SentimentCallback  func(model.SentimentSource, float64)
)

// Config holds pipeline tuning knobs. Zero values select the defaults.
type Config struct {
	UpdateInterval time.Duration // drain loop poll period (default 100ms)
	MaxQueueSize   int           // bounded queue capacity (default 1000)
	HistorySize    int           // quality rolling window (default 1000)
	SMAPeriods     []int         // nil selects indicator.DefaultSMAPeriods
	EMAPeriods     []int         // nil selects indicator.DefaultEMAPeriods
}

func (c *Config) applyDefaults() {
	if c.UpdateInterval <= 0 {
		c.UpdateInterval = 100 * time.Millisecond
	}
	if c.MaxQueueSize <= 0 {
		c.MaxQueueSize = 1000
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 1000
	}
}

// Pipeline is the ingestion orchestrator. Producers may call the Push methods
// concurrently from any goroutine; one background worker drains the queues.
type Pipeline struct {
	cfg  Config
	prom *metrics.Metrics // optional, may be nil

	// Bounded queues, each behind its own lock. Enqueue/dequeue only, O(1).
	tickMu sync.Mutex
	tickQ  *queue[model.MarketTick]
	bookMu sync.Mutex
	bookQ  *queue[model.OrderBookSnapshot]

	// Owned by the drain loop exclusively.
	engine *indicator.Engine

	sentiment *sentiment.Aggregator
	quality   *quality.Tracker

	// Latest snapshots, behind one state lock held only for copy-in/copy-out.
	stateMu         sync.Mutex
	latestTick      model.MarketTick
	hasTick         bool
	latestBook      model.OrderBookSnapshot
	hasBook         bool
	latestSentiment map[model.SentimentSource]float64
	latestFeatures  []float64

	cbMu        sync.Mutex
	onTick      MarketDataCallback
	onBook      OrderBookCallback
	onSentiment SentimentCallback

	runMu   sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
}

// New creates a pipeline. prom may be nil to run without instrumentation.
func New(cfg Config, prom *metrics.Metrics) *Pipeline {
	cfg.applyDefaults()
	return &Pipeline{
		cfg:             cfg,
		prom:            prom,
		tickQ:           newQueue[model.MarketTick](cfg.MaxQueueSize),
		bookQ:           newQueue[model.OrderBookSnapshot](cfg.MaxQueueSize),
		engine:          indicator.NewEngine(cfg.SMAPeriods, cfg.EMAPeriods),
		sentiment:       sentiment.New(),
		quality:         quality.NewTracker(cfg.HistorySize),
		latestSentiment: make(map[model.SentimentSource]float64, len(model.SentimentSources)),
	}
}

// Start spawns the background drain loop. No-op if already running.
func (p *Pipeline) Start() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if p.running {
		return
	}

	p.stopCh = make(chan struct{})
	p.done = make(chan struct{})
	p.running = true
	go p.loop(p.stopCh, p.done)
	slog.Info("pipeline started", "update_interval", p.cfg.UpdateInterval, "max_queue_size", p.cfg.MaxQueueSize)
}

// Stop signals the drain loop to exit and waits for it to finish. No-op if
// not running; safe to call from any goroutine; idempotent.
func (p *Pipeline) Stop() {
	p.runMu.Lock()
	defer p.runMu.Unlock()
	if !p.running {
		return
	}

	close(p.stopCh)
	<-p.done
	p.running = false
	slog.Info("pipeline stopped")
}

// PushMarketData validates and enqueues one tick. Rejections are counted
// against the source and returned as *ValidationError; the tick is not
// enqueued. Queue overflow is not an error: the oldest queued tick is evicted.
func (p *Pipeline) PushMarketData(tick model.MarketTick) error {
	now := time.Now()
	if verr := validateTick(&tick, now); verr != nil {
		p.quality.RecordDataPoint(tick.Source, false)
		if p.prom != nil {
			p.prom.RejectedTotal.WithLabelValues("tick").Inc()
		}
		return verr
	}

	latency := now.Sub(tick.Timestamp)
	p.quality.RecordLatency(tick.Source, latency)
	p.quality.RecordDataPoint(tick.Source, true)

	p.tickMu.Lock()
	evicted := p.tickQ.push(tick)
	depth := p.tickQ.len()
	p.tickMu.Unlock()

	if p.prom != nil {
		p.prom.TicksAccepted.Inc()
		p.prom.TickLatency.Observe(latency.Seconds())
		p.prom.QueueDepth.WithLabelValues("market_data").Set(float64(depth))
		if evicted {
			p.prom.QueueDrops.WithLabelValues("market_data").Inc()
		}
	}
	return nil
}

// PushOrderBook validates and enqueues one order-book snapshot. Same contract
// as PushMarketData.
func (p *Pipeline) PushOrderBook(book model.OrderBookSnapshot) error {
	now := time.Now()
	if verr := validateOrderBook(&book, now); verr != nil {
		p.quality.RecordDataPoint(book.Source, false)
		if p.prom != nil {
			p.prom.RejectedTotal.WithLabelValues("book").Inc()
		}
		return verr
	}

	p.quality.RecordLatency(book.Source, now.Sub(book.Timestamp))
	p.quality.RecordDataPoint(book.Source, true)

	p.bookMu.Lock()
	evicted := p.bookQ.push(book)
	depth := p.bookQ.len()
	p.bookMu.Unlock()

	if p.prom != nil {
		p.prom.BooksAccepted.Inc()
		p.prom.QueueDepth.WithLabelValues("order_book").Set(float64(depth))
		if evicted {
			p.prom.QueueDrops.WithLabelValues("order_book").Inc()
		}
	}
	return nil
}

// PushSentiment records one sentiment observation, bypassing the queues.
// The per-source latest value is recomputed immediately and the sentiment
// callback (if any) is invoked synchronously.
func (p *Pipeline) PushSentiment(source model.SentimentSource, text string, score, confidence float64) error {
	if err := p.sentiment.Record(source, text, score, confidence); err != nil {
		p.quality.RecordDataPoint(string(source), false)
		if p.prom != nil {
			p.prom.RejectedTotal.WithLabelValues("sentiment").Inc()
		}
		return err
	}

	p.quality.RecordDataPoint(string(source), true)
	value := p.sentiment.SourceSentiment(source)

	p.stateMu.Lock()
	p.latestSentiment[source] = value
	p.stateMu.Unlock()

	if p.prom != nil {
		p.prom.SentimentAccepted.Inc()
	}

	if cb := p.sentimentCallback(); cb != nil {
		cb(source, value)
	}
	return nil
}

// OnMarketData registers the market-data callback. Nil unsets.
func (p *Pipeline) OnMarketData(cb MarketDataCallback) {
	p.cbMu.Lock()
	p.onTick = cb
	p.cbMu.Unlock()
}

// OnOrderBook registers the order-book callback. Nil unsets.
func (p *Pipeline) OnOrderBook(cb OrderBookCallback) {
	p.cbMu.Lock()
	p.onBook = cb
	p.cbMu.Unlock()
}

// OnSentiment registers the sentiment callback. Nil unsets.
func (p *Pipeline) OnSentiment(cb SentimentCallback) {
	p.cbMu.Lock()
	p.onSentiment = cb
	p.cbMu.Unlock()
}

// LatestMarketData returns a copy of the most recently processed tick.
func (p *Pipeline) LatestMarketData() (model.MarketTick, bool) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.latestTick, p.hasTick
}

// LatestOrderBook returns a copy of the most recently processed snapshot.
func (p *Pipeline) LatestOrderBook() (model.OrderBookSnapshot, bool) {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.latestBook.Clone(), p.hasBook
}

// LatestSentiment returns the decay-weighted sentiment stored at the most
// recent push for the source, 0 if none.
func (p *Pipeline) LatestSentiment(source model.SentimentSource) float64 {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return p.latestSentiment[source]
}

// LatestFeatures returns a copy of the feature vector assembled on the last
// drain-loop pass: indicator outputs, order-book metrics, then the sentiment
// block {twitter, reddit, news, aggregate}. Nil before the first pass.
func (p *Pipeline) LatestFeatures() []float64 {
	p.stateMu.Lock()
	defer p.stateMu.Unlock()
	return append([]float64(nil), p.latestFeatures...)
}

// SentimentFeatures returns the aggregator's full feature set
// [twitter, reddit, news, aggregate, momentum].
func (p *Pipeline) SentimentFeatures() []float64 {
	return p.sentiment.Features()
}

// RecentSentiments returns the most recent n observations across sources.
func (p *Pipeline) RecentSentiments(n int) []model.SentimentObservation {
	return p.sentiment.Recent(n)
}

// QualityMetrics returns the latest quality sample for a source.
func (p *Pipeline) QualityMetrics(source string) quality.Sample {
	return p.quality.Latest(source)
}

// QualityHistory returns the bounded quality sample history for a source.
func (p *Pipeline) QualityHistory(source string) []quality.Sample {
	return p.quality.History(source)
}

// SourceReliability returns the composite reliability score for a source.
func (p *Pipeline) SourceReliability(source string) float64 {
	return p.quality.Reliability(source)
}

// QualityReport renders the per-source quality report.
func (p *Pipeline) QualityReport(source string) string {
	return p.quality.Report(source)
}

// QualitySummary renders the all-sources summary report.
func (p *Pipeline) QualitySummary() string {
	return p.quality.Summary()
}

// loop is the background worker: one pass per update interval until stopped.
func (p *Pipeline) loop(stopCh <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.cfg.UpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			p.step()
		}
	}
}

// step drains at most one item from each queue, updates the engine and
// quality tracker, rebuilds the feature vector and prunes old sentiment.
// Callbacks fire outside all locks.
func (p *Pipeline) step() {
	start := time.Now()

	p.tickMu.Lock()
	tick, haveTick := p.tickQ.pop()
	tickDepth := p.tickQ.len()
	p.tickMu.Unlock()

	if haveTick {
		p.engine.Update(tick)
		p.quality.RecordPriceAccuracy(tick.Source, tick.Confidence >= priceAccuracyConfidence)
		p.quality.RecordVolumeAccuracy(tick.Source, tick.Confidence >= volumeAccuracyConfidence)

		p.stateMu.Lock()
		p.latestTick = tick
		p.hasTick = true
		p.stateMu.Unlock()
	}

	p.bookMu.Lock()
	book, haveBook := p.bookQ.pop()
	bookDepth := p.bookQ.len()
	p.bookMu.Unlock()

	if haveBook {
		p.engine.UpdateOrderBook(book)
		p.quality.RecordOrderBookAccuracy(book.Source, book.Confidence >= orderBookAccuracyConfidence)

		p.stateMu.Lock()
		p.latestBook = book
		p.hasBook = true
		p.stateMu.Unlock()
	}

	// Rebuild the feature vector: engine features plus the 4-scalar
	// sentiment block (momentum stays on SentimentFeatures).
	engineFeats := p.engine.FeatureVector()
	sentFeats := p.sentiment.Features()
	features := make([]float64, 0, len(engineFeats)+4)
	features = append(features, engineFeats...)
	features = append(features, sentFeats[:4]...)

	p.stateMu.Lock()
	p.latestFeatures = features
	p.stateMu.Unlock()

	p.sentiment.PruneOlderThan(sentimentMaxAge)

	if p.prom != nil {
		p.prom.QueueDepth.WithLabelValues("market_data").Set(float64(tickDepth))
		p.prom.QueueDepth.WithLabelValues("order_book").Set(float64(bookDepth))
		for _, source := range p.quality.Sources() {
			p.prom.SourceReliability.WithLabelValues(source).Set(p.quality.Reliability(source))
		}
		p.prom.DrainDur.Observe(time.Since(start).Seconds())
	}

	// Notify after all state is released.
	if haveTick {
		if cb := p.marketDataCallback(); cb != nil {
			cb(tick)
		}
	}
	if haveBook {
		if cb := p.orderBookCallback(); cb != nil {
			cb(book.Clone())
		}
	}
}

func (p *Pipeline) marketDataCallback() MarketDataCallback {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	return p.onTick
}

func (p *Pipeline) orderBookCallback() OrderBookCallback {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	return p.onBook
}

func (p *Pipeline) sentimentCallback() SentimentCallback {
	p.cbMu.Lock()
	defer p.cbMu.Unlock()
	return p.onSentiment
}
