package queue

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBackoffDoubles(t *testing.T) {
	p := DefaultRetryPolicy()

	assert.Equal(t, 60*time.Second, p.Backoff(2))
	assert.Equal(t, 120*time.Second, p.Backoff(3))
	assert.Equal(t, 240*time.Second, p.Backoff(4))
}

func TestNewJobDefaults(t *testing.T) {
	j := NewJob(ChannelWhatsApp, 1, 2, 3, "+212600000001", "hello")

	assert.NotEmpty(t, j.ID)
	assert.Equal(t, ChannelWhatsApp, j.Channel)
	assert.Equal(t, 3, j.Policy.MaxAttempts)
	assert.Zero(t, j.Attempt)
}

func TestMemoryQueueDelayedVisibility(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()
	now := time.Now()
	q.SetClock(func() time.Time { return now })

	job := NewJob(ChannelWhatsApp, 10, 1, 1, "+212600000001", "hi")
	require.NoError(t, q.Enqueue(ctx, job, 2*time.Minute))

	got, err := q.Dequeue(ctx, ChannelWhatsApp)
	require.NoError(t, err)
	assert.Nil(t, got, "job must stay invisible until its delay elapses")

	now = now.Add(2 * time.Minute)
	got, err = q.Dequeue(ctx, ChannelWhatsApp)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, job.ID, got.ID)
	assert.Equal(t, 1, got.Attempt)
}

func TestMemoryQueueClaimIsExclusive(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	require.NoError(t, q.Enqueue(ctx, NewJob(ChannelSMS, 11, 1, 1, "+212600000002", "hi"), 0))

	first, err := q.Dequeue(ctx, ChannelSMS)
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := q.Dequeue(ctx, ChannelSMS)
	require.NoError(t, err)
	assert.Nil(t, second, "a claimed job must not be handed out twice")
}

func TestMemoryQueueFailReschedulesThenAbandons(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()
	now := time.Now()
	q.SetClock(func() time.Time { return now })

	job := NewJob(ChannelWhatsApp, 12, 1, 1, "+212600000003", "hi")
	require.NoError(t, q.Enqueue(ctx, job, 0))

	for attempt := 1; attempt <= job.Policy.MaxAttempts; attempt++ {
		got, err := q.Dequeue(ctx, ChannelWhatsApp)
		require.NoError(t, err)
		require.NotNil(t, got, "attempt %d should be claimable", attempt)
		assert.Equal(t, attempt, got.Attempt)

		retried, err := q.Fail(ctx, got)
		require.NoError(t, err)
		if attempt < job.Policy.MaxAttempts {
			assert.True(t, retried)
			now = now.Add(got.Policy.Backoff(attempt+1) + time.Second)
		} else {
			assert.False(t, retried, "final attempt must abandon the job")
		}
	}

	pending, err := q.HasPending(ctx, ChannelWhatsApp, 12)
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestMemoryQueueHasPendingCoversScheduledAndClaimed(t *testing.T) {
	ctx := context.Background()
	q := NewMemoryQueue()

	require.NoError(t, q.Enqueue(ctx, NewJob(ChannelWhatsApp, 20, 1, 1, "+212600000004", "hi"), time.Hour))

	pending, err := q.HasPending(ctx, ChannelWhatsApp, 20)
	require.NoError(t, err)
	assert.True(t, pending, "scheduled job counts as pending")

	q.SetClock(func() time.Time { return time.Now().Add(2 * time.Hour) })
	job, err := q.Dequeue(ctx, ChannelWhatsApp)
	require.NoError(t, err)
	require.NotNil(t, job)

	pending, err = q.HasPending(ctx, ChannelWhatsApp, 20)
	require.NoError(t, err)
	assert.True(t, pending, "claimed job still counts as pending")

	require.NoError(t, q.Complete(ctx, job))
	pending, err = q.HasPending(ctx, ChannelWhatsApp, 20)
	require.NoError(t, err)
	assert.False(t, pending)

	pending, err = q.HasPending(ctx, ChannelSMS, 20)
	require.NoError(t, err)
	assert.False(t, pending, "pending is tracked per channel")
}
