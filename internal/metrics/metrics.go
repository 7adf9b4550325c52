// Package metrics exposes Prometheus instrumentation for the ingestion core.
package metrics

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the ingestion pipeline.
type Metrics struct {
	TicksAccepted     prometheus.Counter
	BooksAccepted     prometheus.Counter
	SentimentAccepted prometheus.Counter

	RejectedTotal *prometheus.CounterVec // labels: kind (tick|book|sentiment)
	QueueDrops    *prometheus.CounterVec // labels: queue (market_data|order_book)
	QueueDepth    *prometheus.GaugeVec   // labels: queue

	DrainDur    prometheus.Histogram // one drain-loop pass
	TickLatency prometheus.Histogram // source timestamp → accepted push

	SourceReliability *prometheus.GaugeVec // labels: source
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		TicksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coreengine_ticks_accepted_total",
			Help: "Market ticks accepted after validation",
		}),
		BooksAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coreengine_books_accepted_total",
			Help: "Order-book snapshots accepted after validation",
		}),
		SentimentAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "coreengine_sentiment_accepted_total",
			Help: "Sentiment observations accepted",
		}),
		RejectedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coreengine_rejected_total",
			Help: "Pushes rejected by validation (by kind)",
		}, []string{"kind"}),
		QueueDrops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "coreengine_queue_drops_total",
			Help: "Oldest queued items evicted by lossy backpressure (by queue)",
		}, []string{"queue"}),
		QueueDepth: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coreengine_queue_depth",
			Help: "Current bounded queue occupancy (by queue)",
		}, []string{"queue"}),
		DrainDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coreengine_drain_duration_seconds",
			Help:    "Duration of one background drain-loop pass",
			Buckets: []float64{0.000005, 0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005},
		}),
		TickLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "coreengine_tick_latency_seconds",
			Help:    "Latency from source timestamp to accepted push",
			Buckets: prometheus.DefBuckets,
		}),
		SourceReliability: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "coreengine_source_reliability",
			Help: "Composite per-source reliability score (0-1)",
		}, []string{"source"}),
	}

	prometheus.MustRegister(
		m.TicksAccepted,
		m.BooksAccepted,
		m.SentimentAccepted,
		m.RejectedTotal,
		m.QueueDrops,
		m.QueueDepth,
		m.DrainDur,
		m.TickLatency,
		m.SourceReliability,
	)

	return m
}

// Server exposes /metrics over HTTP.
type Server struct {
	addr string
	srv  *http.Server
}

// NewServer creates a metrics server on addr.
func NewServer(addr string) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	return &Server{
		addr: addr,
		srv:  &http.Server{Addr: addr, Handler: mux},
	}
}

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	go func() {
		slog.Info("metrics server listening", "addr", s.addr)
		if err := s.srv.ListenAndServe(); err != http.ErrServerClosed {
			slog.Error("metrics server error", "err", err)
		}
	}()
}

// Stop gracefully shuts down the metrics server.
func (s *Server) Stop(ctx context.Context) {
	s.srv.Shutdown(ctx)
}
