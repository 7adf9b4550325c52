package sentiment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"novacrypt-core/internal/model"
)

// fixedClock lets tests control observation ages.
type fixedClock struct {
	t time.Time
}

func (c *fixedClock) now() time.Time          { return c.t }
func (c *fixedClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestAggregator() (*Aggregator, *fixedClock) {
	clock := &fixedClock{t: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	a := New()
	a.now = clock.now
	return a, clock
}

func TestRecord_RejectsBadInput(t *testing.T) {
	a := New()

	err := a.Record("Telegram", "hi", 0.5, 0.9)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = a.Record(model.SourceTwitter, "hi", 0.5, 1.2)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidInput)

	err = a.Record(model.SourceTwitter, "hi", 0.5, -0.1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSourceSentiment_EmptyIsZero(t *testing.T) {
	a := New()
	assert.Zero(t, a.SourceSentiment(model.SourceReddit))
	assert.Zero(t, a.AggregateSentiment())
}

func TestSourceSentiment_SingleObservation(t *testing.T) {
	a, _ := newTestAggregator()
	require.NoError(t, a.Record(model.SourceNews, "bullish", 0.8, 0.5))

	// A single observation's weight cancels out in the weighted mean.
	assert.InDelta(t, 0.8, a.SourceSentiment(model.SourceNews), 1e-9)
}

func TestSourceSentiment_OlderWeighsLess(t *testing.T) {
	a, clock := newTestAggregator()

	// Same confidence, opposite scores. The older observation decays, so the
	// mean must land strictly on the newer side of zero.
	require.NoError(t, a.Record(model.SourceTwitter, "bearish", -1, 0.9))
	clock.advance(30 * time.Minute)
	require.NoError(t, a.Record(model.SourceTwitter, "bullish", 1, 0.9))

	got := a.SourceSentiment(model.SourceTwitter)
	assert.Greater(t, got, 0.0)
	assert.Less(t, got, 1.0)
}

func TestSourceSentiment_ConfidenceWeights(t *testing.T) {
	a, _ := newTestAggregator()

	// Same age, different confidence: mean = (1*0.9 - 1*0.1) / 1.0 = 0.8.
	require.NoError(t, a.Record(model.SourceReddit, "up", 1, 0.9))
	require.NoError(t, a.Record(model.SourceReddit, "down", -1, 0.1))

	assert.InDelta(t, 0.8, a.SourceSentiment(model.SourceReddit), 1e-9)
}

func TestAggregateSentiment_FixedWeights(t *testing.T) {
	a, _ := newTestAggregator()
	require.NoError(t, a.Record(model.SourceNews, "good", 0.5, 1))

	// Twitter and Reddit have no data and contribute 0, not excluded.
	assert.InDelta(t, 0.4*0.5, a.AggregateSentiment(), 1e-9)
}

func TestFeatures_ShapeAndAggregate(t *testing.T) {
	a, clock := newTestAggregator()
	require.NoError(t, a.Record(model.SourceTwitter, "t", 0.2, 1))
	clock.advance(time.Second)
	require.NoError(t, a.Record(model.SourceReddit, "r", -0.4, 1))
	clock.advance(time.Second)
	require.NoError(t, a.Record(model.SourceNews, "n", 0.6, 1))

	feats := a.Features()
	require.Len(t, feats, 5)
	assert.InDelta(t, 0.3*feats[0]+0.3*feats[1]+0.4*feats[2], feats[3], 1e-9)
}

func TestMomentum_NewestMinusOldest(t *testing.T) {
	a, clock := newTestAggregator()
	require.NoError(t, a.Record(model.SourceTwitter, "a", 0.1, 1))
	clock.advance(time.Second)
	require.NoError(t, a.Record(model.SourceReddit, "b", 0.2, 1))
	clock.advance(time.Second)
	require.NoError(t, a.Record(model.SourceNews, "c", 0.5, 1))

	feats := a.Features()
	assert.InDelta(t, 0.5-0.1, feats[4], 1e-9)
}

func TestMomentum_ZeroWithFewerThanTwo(t *testing.T) {
	a, _ := newTestAggregator()
	assert.Zero(t, a.Features()[4])

	require.NoError(t, a.Record(model.SourceNews, "only", 0.9, 1))
	assert.Zero(t, a.Features()[4])
}

func TestRecent_MergedNewestFirst(t *testing.T) {
	a, clock := newTestAggregator()
	require.NoError(t, a.Record(model.SourceTwitter, "first", 0.1, 1))
	clock.advance(time.Minute)
	require.NoError(t, a.Record(model.SourceNews, "second", 0.2, 1))
	clock.advance(time.Minute)
	require.NoError(t, a.Record(model.SourceReddit, "third", 0.3, 1))

	recent := a.Recent(2)
	require.Len(t, recent, 2)
	assert.Equal(t, "third", recent[0].Text)
	assert.Equal(t, "second", recent[1].Text)
}

func TestPruneOlderThan(t *testing.T) {
	a, clock := newTestAggregator()
	require.NoError(t, a.Record(model.SourceTwitter, "old", -1, 1))
	clock.advance(25 * time.Hour)
	require.NoError(t, a.Record(model.SourceTwitter, "fresh", 1, 1))

	a.PruneOlderThan(24 * time.Hour)

	recent := a.Recent(10)
	require.Len(t, recent, 1)
	assert.Equal(t, "fresh", recent[0].Text)
	assert.InDelta(t, 1, a.SourceSentiment(model.SourceTwitter), 1e-9)
}
