package quality

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReliability_PerfectSourceIsOne(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordDataPoint("Binance", true)
	tr.RecordPriceAccuracy("Binance", true)
	tr.RecordVolumeAccuracy("Binance", true)
	tr.RecordOrderBookAccuracy("Binance", true)

	sample := tr.Latest("Binance")
	assert.InDelta(t, 100, sample.DataCompleteness, 1e-9)
	assert.InDelta(t, 100, sample.PriceAccuracy, 1e-9)
	assert.InDelta(t, 100, sample.VolumeAccuracy, 1e-9)
	assert.InDelta(t, 100, sample.OrderBookAccuracy, 1e-9)
	assert.InDelta(t, 1.0, sample.SourceReliability, 1e-9)
	assert.InDelta(t, 1.0, tr.Reliability("Binance"), 1e-9)
}

func TestCompleteness_CountsRejections(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordDataPoint("Kraken", true)
	tr.RecordDataPoint("Kraken", true)
	tr.RecordDataPoint("Kraken", true)
	tr.RecordDataPoint("Kraken", false)

	sample := tr.Latest("Kraken")
	assert.InDelta(t, 75, sample.DataCompleteness, 1e-9)
	assert.InDelta(t, 25, sample.MissingDataRate, 1e-9)
	assert.EqualValues(t, 4, sample.TotalDataPoints)
	assert.EqualValues(t, 3, sample.ValidDataPoints)
	assert.EqualValues(t, 1, sample.RejectedDataPoints)
}

func TestLatencyStats(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordDataPoint("Binance", true)
	tr.RecordLatency("Binance", 10*time.Millisecond)
	tr.RecordLatency("Binance", 20*time.Millisecond)
	tr.RecordLatency("Binance", 30*time.Millisecond)

	sample := tr.Latest("Binance")
	assert.InDelta(t, 20, sample.AverageLatency, 1e-9)
	assert.InDelta(t, 30, sample.MaxLatency, 1e-9)
	// Population stddev of {10,20,30} is sqrt(200/3).
	assert.InDelta(t, 8.1649658, sample.LatencyStdDev, 1e-6)
}

func TestLatencyHistoryIsBounded(t *testing.T) {
	tr := NewTracker(3)
	tr.RecordDataPoint("Binance", true)
	for _, ms := range []int{100, 1, 1, 1} {
		tr.RecordLatency("Binance", time.Duration(ms)*time.Millisecond)
	}

	// The 100ms sample fell out of the 3-entry window.
	sample := tr.Latest("Binance")
	assert.InDelta(t, 1, sample.MaxLatency, 1e-9)
}

func TestLatencyOnlyRecordsProduceNoSample(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordLatency("Ghost", 5*time.Millisecond)

	sample := tr.Latest("Ghost")
	assert.True(t, sample.Timestamp.IsZero())
	assert.Empty(t, tr.History("Ghost"))
}

func TestHistoryIsBounded(t *testing.T) {
	tr := NewTracker(5)
	for i := 0; i < 20; i++ {
		tr.RecordDataPoint("Binance", true)
	}

	history := tr.History("Binance")
	require.Len(t, history, 5)
	// Oldest evicted: the retained samples are the 16th through 20th.
	assert.EqualValues(t, 16, history[0].TotalDataPoints)
	assert.EqualValues(t, 20, history[4].TotalDataPoints)
}

func TestUnknownSource(t *testing.T) {
	tr := NewTracker(0)
	assert.Zero(t, tr.Reliability("nope"))
	assert.True(t, tr.Latest("nope").Timestamp.IsZero())
	assert.Contains(t, tr.Report("nope"), "No data available")
}

func TestReport_ContainsEveryField(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordDataPoint("Binance", true)
	tr.RecordLatency("Binance", 12*time.Millisecond)
	tr.RecordPriceAccuracy("Binance", true)

	report := tr.Report("Binance")
	for _, want := range []string{
		"Average Latency", "Max Latency", "Latency StdDev",
		"Data Completeness", "Missing Data Rate",
		"Price Accuracy", "Volume Accuracy", "Order Book Accuracy",
		"Source Reliability", "Total Data Points", "Valid Data Points", "Rejected Data Points",
	} {
		assert.Contains(t, report, want)
	}
}

func TestSummary_ListsAllSources(t *testing.T) {
	tr := NewTracker(0)
	tr.RecordDataPoint("Binance", true)
	tr.RecordDataPoint("Kraken", false)

	summary := tr.Summary()
	assert.True(t, strings.HasPrefix(summary, "Data Quality Summary Report"))
	assert.Contains(t, summary, "Source: Binance")
	assert.Contains(t, summary, "Source: Kraken")
	assert.Equal(t, []string{"Binance", "Kraken"}, tr.Sources())
}
