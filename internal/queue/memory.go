// internal/queue/memory.go
package queue

import (
	"context"
	"sync"
	"time"
)

// MemoryQueue is an in-process Client with the same lease semantics as the
// Redis queue. It backs tests and single-node development runs; it is not
// durable across restarts.
type MemoryQueue struct {
	mu        sync.Mutex
	scheduled map[Channel][]*Job
	claimed   map[string]*Job
	now       func() time.Time
}

func NewMemoryQueue() *MemoryQueue {
	return &MemoryQueue{
		scheduled: make(map[Channel][]*Job),
		claimed:   make(map[string]*Job),
		now:       time.Now,
	}
}

// SetClock overrides the queue's clock. Test hook.
func (q *MemoryQueue) SetClock(now func() time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.now = now
}

func (q *MemoryQueue) Enqueue(_ context.Context, job *Job, delay time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	job.EnqueuedAt = q.now()
	job.ReadyAt = job.EnqueuedAt.Add(delay)
	q.scheduled[job.Channel] = append(q.scheduled[job.Channel], job)
	return nil
}

func (q *MemoryQueue) Dequeue(_ context.Context, ch Channel) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	jobs := q.scheduled[ch]
	for i, job := range jobs {
		if job.ReadyAt.After(q.now()) {
			continue
		}
		q.scheduled[ch] = append(jobs[:i:i], jobs[i+1:]...)
		job.Attempt++
		q.claimed[job.ID] = job
		return job, nil
	}
	return nil, nil
}

func (q *MemoryQueue) Complete(_ context.Context, job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.claimed, job.ID)
	return nil
}

func (q *MemoryQueue) Fail(_ context.Context, job *Job) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	delete(q.claimed, job.ID)
	if job.Attempt >= job.Policy.MaxAttempts {
		return false, nil
	}
	job.ReadyAt = q.now().Add(job.Policy.Backoff(job.Attempt + 1))
	q.scheduled[job.Channel] = append(q.scheduled[job.Channel], job)
	return true, nil
}

func (q *MemoryQueue) HasPending(_ context.Context, ch Channel, orderID int64) (bool, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, job := range q.scheduled[ch] {
		if job.OrderID == orderID {
			return true, nil
		}
	}
	for _, job := range q.claimed {
		if job.Channel == ch && job.OrderID == orderID {
			return true, nil
		}
	}
	return false, nil
}

// Scheduled returns a snapshot of jobs waiting on the channel. Test hook.
func (q *MemoryQueue) Scheduled(ch Channel) []*Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]*Job, len(q.scheduled[ch]))
	copy(out, q.scheduled[ch])
	return out
}
