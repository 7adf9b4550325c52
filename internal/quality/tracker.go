// Package quality tracks per-source data quality: latency statistics over a
// bounded history, completeness, confidence-derived accuracy and a composite
// reliability score.
package quality

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"
)

// Composite reliability weights over the percentage components.
const (
	completenessWeight = 0.3
	priceWeight        = 0.3
	volumeWeight       = 0.2
	orderBookWeight    = 0.2
)

// Sample is one derived quality snapshot for a source.
type Sample struct {
	// Timeliness, in milliseconds over the bounded latency history.
	AverageLatency float64 `json:"average_latency_ms"`
	MaxLatency     float64 `json:"max_latency_ms"`
	LatencyStdDev  float64 `json:"latency_stddev_ms"`

	// Completeness, percentages of total data points.
	DataCompleteness float64 `json:"data_completeness_pct"`
	MissingDataRate  float64 `json:"missing_data_rate_pct"`

	// Accuracy, percentages of total data points.
	PriceAccuracy     float64 `json:"price_accuracy_pct"`
	VolumeAccuracy    float64 `json:"volume_accuracy_pct"`
	OrderBookAccuracy float64 `json:"order_book_accuracy_pct"`

	// Composite reliability in [0,1].
	SourceReliability float64 `json:"source_reliability"`

	// Raw counts.
	TotalDataPoints    uint64 `json:"total_data_points"`
	ValidDataPoints    uint64 `json:"valid_data_points"`
	RejectedDataPoints uint64 `json:"rejected_data_points"`

	Timestamp time.Time `json:"timestamp"`
}

// sourceStats holds the rolling state for one source.
type sourceStats struct {
	history []Sample

	// Circular latency buffer in milliseconds.
	latency    []float64
	latencyPos int
	latencyLen int

	total          uint64
	valid          uint64
	rejected       uint64
	accuratePrice  uint64
	accurateVolume uint64
	accurateBook   uint64
}

// Tracker maintains quality statistics per source. It holds its own lock,
// independent of the pipeline's locks; call order is pipeline → tracker only.
type Tracker struct {
	mu          sync.Mutex
	historySize int
	sources     map[string]*sourceStats
}

// NewTracker creates a tracker whose per-source sample and latency histories
// are bounded to historySize entries (default 1000 when <= 0).
func NewTracker(historySize int) *Tracker {
	if historySize <= 0 {
		historySize = 1000
	}
	return &Tracker{
		historySize: historySize,
		sources:     make(map[string]*sourceStats),
	}
}

// RecordLatency appends one latency sample for the source and recomputes its
// quality sample.
func (t *Tracker) RecordLatency(source string, latency time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats(source)
	s.latency[s.latencyPos] = float64(latency) / float64(time.Millisecond)
	s.latencyPos = (s.latencyPos + 1) % len(s.latency)
	if s.latencyLen < len(s.latency) {
		s.latencyLen++
	}
	t.recompute(s)
}

// RecordDataPoint counts one validated (or rejected) data point for the
// source and recomputes its quality sample.
func (t *Tracker) RecordDataPoint(source string, valid bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats(source)
	s.total++
	if valid {
		s.valid++
	} else {
		s.rejected++
	}
	t.recompute(s)
}

// RecordPriceAccuracy counts one price accuracy observation.
func (t *Tracker) RecordPriceAccuracy(source string, accurate bool) {
	t.recordAccuracy(source, accurate, func(s *sourceStats) { s.accuratePrice++ })
}

// RecordVolumeAccuracy counts one volume accuracy observation.
func (t *Tracker) RecordVolumeAccuracy(source string, accurate bool) {
	t.recordAccuracy(source, accurate, func(s *sourceStats) { s.accurateVolume++ })
}

// RecordOrderBookAccuracy counts one order-book accuracy observation.
func (t *Tracker) RecordOrderBookAccuracy(source string, accurate bool) {
	t.recordAccuracy(source, accurate, func(s *sourceStats) { s.accurateBook++ })
}

func (t *Tracker) recordAccuracy(source string, accurate bool, bump func(*sourceStats)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := t.stats(source)
	if accurate {
		bump(s)
	}
	t.recompute(s)
}

// Latest returns the most recent quality sample for the source, a zero Sample
// if the source is unknown or has no computed samples yet.
func (t *Tracker) Latest(source string) Sample {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sources[source]
	if !ok || len(s.history) == 0 {
		return Sample{}
	}
	return s.history[len(s.history)-1]
}

// History returns a copy of the bounded sample history for the source.
func (t *Tracker) History(source string) []Sample {
	t.mu.Lock()
	defer t.mu.Unlock()

	s, ok := t.sources[source]
	if !ok {
		return nil
	}
	return append([]Sample(nil), s.history...)
}

// Reliability returns the composite reliability in [0,1] for the source,
// 0 for unknown sources.
func (t *Tracker) Reliability(source string) float64 {
	return t.Latest(source).SourceReliability
}

// Sources returns the tracked source names in sorted order.
func (t *Tracker) Sources() []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	names := make([]string, 0, len(t.sources))
	for name := range t.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Report renders the latest quality sample for one source as text.
func (t *Tracker) Report(source string) string {
	t.mu.Lock()
	s, ok := t.sources[source]
	if !ok || len(s.history) == 0 {
		t.mu.Unlock()
		return "No data available for source: " + source
	}
	latest := s.history[len(s.history)-1]
	t.mu.Unlock()

	return formatSample(latest)
}

// Summary renders the latest quality sample of every tracked source.
func (t *Tracker) Summary() string {
	var b strings.Builder
	b.WriteString("Data Quality Summary Report\n")
	b.WriteString("=========================\n\n")

	for _, source := range t.Sources() {
		latest := t.Latest(source)
		if latest.Timestamp.IsZero() {
			continue
		}
		fmt.Fprintf(&b, "Source: %s\n", source)
		b.WriteString("------------------------\n")
		b.WriteString(formatSample(latest))
		b.WriteString("\n")
	}
	return b.String()
}

// stats returns the stats for source, creating them on first use. Caller
// holds t.mu.
func (t *Tracker) stats(source string) *sourceStats {
	s, ok := t.sources[source]
	if !ok {
		s = &sourceStats{latency: make([]float64, t.historySize)}
		t.sources[source] = s
	}
	return s
}

// recompute derives a fresh Sample and appends it to the bounded history.
// Latency-only records before the first counted data point do not produce a
// sample. Caller holds t.mu.
func (t *Tracker) recompute(s *sourceStats) {
	if s.total == 0 {
		return
	}

	var sample Sample

	if s.latencyLen > 0 {
		var sum, max float64
		for i := 0; i < s.latencyLen; i++ {
			v := s.latency[i]
			sum += v
			if v > max {
				max = v
			}
		}
		mean := sum / float64(s.latencyLen)
		var sqSum float64
		for i := 0; i < s.latencyLen; i++ {
			d := s.latency[i] - mean
			sqSum += d * d
		}
		sample.AverageLatency = mean
		sample.MaxLatency = max
		sample.LatencyStdDev = math.Sqrt(sqSum / float64(s.latencyLen))
	}

	total := float64(s.total)
	sample.DataCompleteness = float64(s.valid) / total * 100
	sample.MissingDataRate = float64(s.rejected) / total * 100
	sample.PriceAccuracy = float64(s.accuratePrice) / total * 100
	sample.VolumeAccuracy = float64(s.accurateVolume) / total * 100
	sample.OrderBookAccuracy = float64(s.accurateBook) / total * 100

	sample.SourceReliability = (sample.DataCompleteness*completenessWeight +
		sample.PriceAccuracy*priceWeight +
		sample.VolumeAccuracy*volumeWeight +
		sample.OrderBookAccuracy*orderBookWeight) / 100

	sample.TotalDataPoints = s.total
	sample.ValidDataPoints = s.valid
	sample.RejectedDataPoints = s.rejected
	sample.Timestamp = time.Now().UTC()

	s.history = append(s.history, sample)
	if len(s.history) > t.historySize {
		s.history = s.history[1:]
	}
}

func formatSample(m Sample) string {
	var b strings.Builder

	b.WriteString("Data Quality Metrics:\n")
	b.WriteString("-------------------\n")
	b.WriteString("Timeliness:\n")
	fmt.Fprintf(&b, "  Average Latency: %.2f ms\n", m.AverageLatency)
	fmt.Fprintf(&b, "  Max Latency: %.2f ms\n", m.MaxLatency)
	fmt.Fprintf(&b, "  Latency StdDev: %.2f ms\n\n", m.LatencyStdDev)

	b.WriteString("Completeness:\n")
	fmt.Fprintf(&b, "  Data Completeness: %.2f%%\n", m.DataCompleteness)
	fmt.Fprintf(&b, "  Missing Data Rate: %.2f%%\n\n", m.MissingDataRate)

	b.WriteString("Accuracy:\n")
	fmt.Fprintf(&b, "  Price Accuracy: %.2f%%\n", m.PriceAccuracy)
	fmt.Fprintf(&b, "  Volume Accuracy: %.2f%%\n", m.VolumeAccuracy)
	fmt.Fprintf(&b, "  Order Book Accuracy: %.2f%%\n\n", m.OrderBookAccuracy)

	b.WriteString("Reliability:\n")
	fmt.Fprintf(&b, "  Source Reliability: %.2f%%\n", m.SourceReliability*100)
	fmt.Fprintf(&b, "  Total Data Points: %d\n", m.TotalDataPoints)
	fmt.Fprintf(&b, "  Valid Data Points: %d\n", m.ValidDataPoints)
	fmt.Fprintf(&b, "  Rejected Data Points: %d\n", m.RejectedDataPoints)

	return b.String()
}
