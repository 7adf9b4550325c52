package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueue_FIFO(t *testing.T) {
	q := newQueue[int](4)
	for _, v := range []int{1, 2, 3} {
		assert.False(t, q.push(v))
	}
	require.Equal(t, 3, q.len())

	for _, want := range []int{1, 2, 3} {
		v, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
	_, ok := q.pop()
	assert.False(t, ok)
}

func TestQueue_EvictsOldestWhenFull(t *testing.T) {
	q := newQueue[int](3)
	q.push(1)
	q.push(2)
	q.push(3)
	assert.True(t, q.push(4), "push into a full queue must evict")
	assert.Equal(t, 3, q.len(), "size never exceeds capacity")

	// 1 was evicted; 2, 3, 4 survive in order.
	for _, want := range []int{2, 3, 4} {
		v, ok := q.pop()
		require.True(t, ok)
		assert.Equal(t, want, v)
	}
}

func TestQueue_PushPopInterleaved(t *testing.T) {
	q := newQueue[int](2)
	q.push(1)
	q.push(2)
	v, _ := q.pop()
	assert.Equal(t, 1, v)

	q.push(3)
	q.push(4) // evicts 2
	v, _ = q.pop()
	assert.Equal(t, 3, v)
	v, _ = q.pop()
	assert.Equal(t, 4, v)
	assert.Equal(t, 0, q.len())
}
