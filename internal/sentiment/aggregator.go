// Package sentiment aggregates time-stamped sentiment observations from the
// recognized textual sources into decayed weighted averages and a fixed-weight
// cross-source aggregate.
package sentiment

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"novacrypt-core/internal/model"
)

// ErrInvalidInput is returned for unrecognized sources or out-of-range
// confidence values.
var ErrInvalidInput = errors.New("invalid input")

// Fixed cross-source weights. A source with no data contributes 0; it is not
// excluded from the weighting.
const (
	twitterWeight = 0.3
	redditWeight  = 0.3
	newsWeight    = 0.4
)

// decayHalfLife controls recency weighting: weight = confidence * exp(-age/1h).
const decayScale = time.Hour

// momentumDepth is how far back the momentum delta reaches across the merged
// observation stream.
const momentumDepth = 20

// Aggregator stores observations per source and computes weighted sentiment.
// Safe for concurrent use.
type Aggregator struct {
	mu   sync.Mutex
	data map[model.SentimentSource][]model.SentimentObservation

	now func() time.Time
}

// New creates an empty Aggregator.
func New() *Aggregator {
	return &Aggregator{
		data: make(map[model.SentimentSource][]model.SentimentObservation, len(model.SentimentSources)),
		now:  time.Now,
	}
}

// Record appends an observation with the current time to the source's list.
func (a *Aggregator) Record(source model.SentimentSource, text string, score, confidence float64) error {
	if !source.Valid() {
		return fmt.Errorf("sentiment: unrecognized source %q: %w", source, ErrInvalidInput)
	}
	if confidence < 0 || confidence > 1 {
		return fmt.Errorf("sentiment: confidence %.4f outside [0,1]: %w", confidence, ErrInvalidInput)
	}

	a.mu.Lock()
	a.data[source] = append(a.data[source], model.SentimentObservation{
		Score:      score,
		Confidence: confidence,
		Source:     source,
		Timestamp:  a.now(),
		Text:       text,
	})
	a.mu.Unlock()
	return nil
}

// SourceSentiment returns the confidence-and-recency-weighted mean score for
// one source, 0 if it has no observations.
func (a *Aggregator) SourceSentiment(source model.SentimentSource) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.weightedSentiment(a.data[source])
}

// AggregateSentiment combines the per-source sentiments with fixed weights:
// 0.3*twitter + 0.3*reddit + 0.4*news.
func (a *Aggregator) AggregateSentiment() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return twitterWeight*a.weightedSentiment(a.data[model.SourceTwitter]) +
		redditWeight*a.weightedSentiment(a.data[model.SourceReddit]) +
		newsWeight*a.weightedSentiment(a.data[model.SourceNews])
}

// Features returns [twitter, reddit, news, aggregate, momentum].
func (a *Aggregator) Features() []float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	twitter := a.weightedSentiment(a.data[model.SourceTwitter])
	reddit := a.weightedSentiment(a.data[model.SourceReddit])
	news := a.weightedSentiment(a.data[model.SourceNews])
	aggregate := twitterWeight*twitter + redditWeight*reddit + newsWeight*news

	return []float64{twitter, reddit, news, aggregate, a.momentum()}
}

// Recent returns the most recent n observations across all sources, newest
// first.
func (a *Aggregator) Recent(n int) []model.SentimentObservation {
	a.mu.Lock()
	defer a.mu.Unlock()
	merged := a.merged()
	if len(merged) > n {
		merged = merged[:n]
	}
	return merged
}

// PruneOlderThan removes observations whose age exceeds maxAge. Called
// periodically by the pipeline's drain loop.
func (a *Aggregator) PruneOlderThan(maxAge time.Duration) {
	now := a.now()
	a.mu.Lock()
	defer a.mu.Unlock()

	for source, obs := range a.data {
		kept := obs[:0]
		for _, o := range obs {
			if now.Sub(o.Timestamp) <= maxAge {
				kept = append(kept, o)
			}
		}
		a.data[source] = kept
	}
}

// momentum is the score of the most recent observation minus the score of the
// observation momentumDepth back (or the oldest available), 0 with fewer than
// two observations. Caller holds a.mu.
func (a *Aggregator) momentum() float64 {
	merged := a.merged()
	if len(merged) < 2 {
		return 0
	}
	depth := momentumDepth
	if depth > len(merged) {
		depth = len(merged)
	}
	return merged[0].Score - merged[depth-1].Score
}

// merged returns all observations sorted by timestamp descending. Caller
// holds a.mu.
func (a *Aggregator) merged() []model.SentimentObservation {
	var all []model.SentimentObservation
	for _, obs := range a.data {
		all = append(all, obs...)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Timestamp.After(all[j].Timestamp)
	})
	return all
}

// weightedSentiment computes the decayed weighted mean of one source's
// observations. Caller holds a.mu.
func (a *Aggregator) weightedSentiment(obs []model.SentimentObservation) float64 {
	if len(obs) == 0 {
		return 0
	}

	now := a.now()
	var weightedSum, totalWeight float64
	for _, o := range obs {
		age := now.Sub(o.Timestamp).Seconds()
		weight := o.Confidence * math.Exp(-age/decayScale.Seconds())
		weightedSum += o.Score * weight
		totalWeight += weight
	}
	if totalWeight <= 0 {
		return 0
	}
	return weightedSum / totalWeight
}
