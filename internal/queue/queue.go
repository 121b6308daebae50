// internal/queue/queue.go
package queue

import (
	"context"
	"time"

	"github.com/oklog/ulid/v2"
)

// Channel names a notification transport with its own worker pool.
type Channel string

const (
	ChannelWhatsApp Channel = "whatsapp"
	ChannelSMS      Channel = "sms"
)

// RetryPolicy is stamped onto a job at enqueue time. It is fixed per channel
// rather than per tenant.
type RetryPolicy struct {
	MaxAttempts    int           `json:"max_attempts"`
	InitialBackoff time.Duration `json:"initial_backoff"`
}

// DefaultRetryPolicy is 3 attempts with exponential backoff starting at 60s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, InitialBackoff: 60 * time.Second}
}

// Backoff returns the delay before the given attempt number (1-based).
// Attempt 2 waits InitialBackoff, attempt 3 waits twice that, and so on.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	d := p.InitialBackoff
	for i := 2; i < attempt; i++ {
		d *= 2
	}
	return d
}

// Job is one delayed notification delivery unit.
type Job struct {
	ID       string  `json:"id"`
	Channel  Channel `json:"channel"`
	OrderID  int64   `json:"order_id"`
	ClientID int64   `json:"client_id"`
	BuyerID  int64   `json:"buyer_id"`
	Phone    string  `json:"phone"`
	Body     string  `json:"body"`

	// Attempt counts delivery attempts already started, including the one
	// currently claimed.
	Attempt int         `json:"attempt"`
	Policy  RetryPolicy `json:"policy"`

	ReadyAt    time.Time `json:"ready_at"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewJob builds a job with a fresh ULID and the default retry policy.
func NewJob(ch Channel, orderID, clientID, buyerID int64, phone, body string) *Job {
	return &Job{
		ID:       ulid.Make().String(),
		Channel:  ch,
		OrderID:  orderID,
		ClientID: clientID,
		BuyerID:  buyerID,
		Phone:    phone,
		Body:     body,
		Policy:   DefaultRetryPolicy(),
	}
}

// Client is a durable delayed-job queue. Implementations guarantee that a
// claimed job is leased exclusively: a retry never runs concurrently with a
// still-in-flight prior attempt.
type Client interface {
	// Enqueue schedules the job to become due after delay. An error here is
	// fatal to the job and must be surfaced to the caller.
	Enqueue(ctx context.Context, job *Job, delay time.Duration) error

	// Dequeue claims the next due job on the channel, or returns (nil, nil)
	// when none is due yet.
	Dequeue(ctx context.Context, ch Channel) (*Job, error)

	// Complete releases a claimed job permanently.
	Complete(ctx context.Context, job *Job) error

	// Fail reschedules a claimed job per its retry policy. It returns true
	// if another attempt was scheduled, false if the job was abandoned.
	Fail(ctx context.Context, job *Job) (bool, error)

	// HasPending reports whether the channel still holds an unfinished job
	// for the order. The monitor sweep consults this before re-enqueueing.
	HasPending(ctx context.Context, ch Channel, orderID int64) (bool, error)
}
