package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagateway/internal/domain/lifecycle"
)

func msg(id string) *lifecycle.PendingMessage {
	return &lifecycle.PendingMessage{ID: id, To: "5511999999999@s.whatsapp.net", Content: "hi", EnqueuedAt: time.Now()}
}

func TestQueueFIFOOrder(t *testing.T) {
	q := lifecycle.NewQueue(10)
	pos1 := q.Enqueue(msg("1"))
	pos2 := q.Enqueue(msg("2"))

	assert.Equal(t, 1, pos1)
	assert.Equal(t, 2, pos2)
	assert.Equal(t, 2, q.Len())

	first := q.Dequeue()
	require.NotNil(t, first)
	assert.Equal(t, "1", first.ID)

	second := q.Dequeue()
	require.NotNil(t, second)
	assert.Equal(t, "2", second.ID)

	assert.Nil(t, q.Dequeue())
}

func TestQueueBound(t *testing.T) {
	q := lifecycle.NewQueue(3)
	q.Enqueue(msg("1"))
	q.Enqueue(msg("2"))
	q.Enqueue(msg("3"))
	assert.Equal(t, 3, q.Len())

	// MAX_QUEUE_SIZE + 1 enqueue evicts the oldest, keeps the newest (spec §8).
	q.Enqueue(msg("4"))
	assert.Equal(t, 3, q.Len())

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 3)
	assert.Equal(t, "2", snapshot[0].ID)
	assert.Equal(t, "3", snapshot[1].ID)
	assert.Equal(t, "4", snapshot[2].ID)
}

func TestQueueSnapshotDoesNotConsume(t *testing.T) {
	q := lifecycle.NewQueue(10)
	q.Enqueue(msg("1"))

	_ = q.Snapshot()
	assert.Equal(t, 1, q.Len())
}

func TestQueueDropExpired(t *testing.T) {
	q := lifecycle.NewQueue(10)
	old := msg("stale")
	old.EnqueuedAt = time.Now().Add(-10 * time.Minute)
	q.Enqueue(old)
	q.Enqueue(msg("fresh"))

	dropped := q.DropExpired(time.Now(), 5*time.Minute)
	require.Len(t, dropped, 1)
	assert.Equal(t, "stale", dropped[0].ID)
	assert.Equal(t, 1, q.Len())

	remaining := q.Snapshot()
	require.Len(t, remaining, 1)
	assert.Equal(t, "fresh", remaining[0].ID)
}

func TestQueueWrapAroundAfterDequeue(t *testing.T) {
	q := lifecycle.NewQueue(2)
	q.Enqueue(msg("1"))
	q.Enqueue(msg("2"))
	q.Dequeue()
	q.Enqueue(msg("3"))

	snapshot := q.Snapshot()
	require.Len(t, snapshot, 2)
	assert.Equal(t, "2", snapshot[0].ID)
	assert.Equal(t, "3", snapshot[1].ID)
}
