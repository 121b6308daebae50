// internal/service/dispatch/worker.go
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"orderbot-service/internal/channel"
	"orderbot-service/internal/domain/message"
	"orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	xerrors "orderbot-service/internal/pkg/errors"
	"orderbot-service/internal/queue"

	"go.uber.org/zap"
)

// Store is the dispatch workers' persistence contract.
type Store interface {
	FindOrder(ctx context.Context, id int64) (*order.Order, error)
	// RecordAttempt appends the audit row and, when markSent is true, flips
	// the order's sent flag in the same transaction.
	RecordAttempt(ctx context.Context, m *message.Message, markSent bool) error
}

// Config tunes one channel's worker pool.
type Config struct {
	Concurrency  int
	PollInterval time.Duration
	SendTimeout  time.Duration
}

func (c *Config) applyDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.SendTimeout <= 0 {
		c.SendTimeout = 30 * time.Second
	}
}

// Worker is a long-running consumer pool for one channel. Each goroutine
// claims due jobs, calls the channel adapter, and records the outcome. A
// single job's failure never takes the pool down.
type Worker struct {
	channel queue.Channel
	queue   queue.Client
	sender  channel.Sender
	store   Store
	metrics *metrics.Metrics
	cfg     Config
	logger  *zap.Logger
}

func NewWorker(ch queue.Channel, q queue.Client, sender channel.Sender, store Store, m *metrics.Metrics, cfg Config, logger *zap.Logger) *Worker {
	cfg.applyDefaults()
	return &Worker{
		channel: ch,
		queue:   q,
		sender:  sender,
		store:   store,
		metrics: m,
		cfg:     cfg,
		logger:  logger.With(zap.String("channel", string(ch))),
	}
}

// Run blocks until ctx is cancelled, processing jobs with bounded
// concurrency.
func (w *Worker) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < w.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.loop(ctx)
		}()
	}
	wg.Wait()
}

func (w *Worker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		for {
			job, err := w.queue.Dequeue(ctx, w.channel)
			if err != nil {
				w.logger.Error("dequeue failed", zap.Error(err))
				break
			}
			if job == nil {
				break
			}
			w.process(ctx, job)
		}
	}
}

// ProcessOne claims and processes a single due job. It returns false when no
// job was due. Exposed for the in-process test harness.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	job, err := w.queue.Dequeue(ctx, w.channel)
	if err != nil {
		return false, err
	}
	if job == nil {
		return false, nil
	}
	w.process(ctx, job)
	return true, nil
}

func (w *Worker) process(ctx context.Context, job *queue.Job) {
	o, err := w.store.FindOrder(ctx, job.OrderID)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			// Order vanished; nothing to deliver.
			w.complete(ctx, job)
			return
		}
		w.logger.Error("order lookup failed", zap.Int64("order_id", job.OrderID), zap.Error(err))
		w.fail(ctx, job)
		return
	}

	// The buyer may have confirmed through another channel while this job
	// sat in the queue; a terminal order gets no late notification.
	if o.Status.Terminal() {
		w.logger.Info("order already confirmed, dropping notification",
			zap.Int64("order_id", o.ID), zap.String("status", string(o.Status)))
		w.metrics.DispatchOutcomes.WithLabelValues(string(w.channel), "skipped").Inc()
		w.complete(ctx, job)
		return
	}

	if w.alreadySent(o) {
		w.complete(ctx, job)
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, w.cfg.SendTimeout)
	started := time.Now()
	sendErr := w.sender.Send(sendCtx, job.Phone, job.Body)
	cancel()
	w.metrics.DispatchLatency.WithLabelValues(string(w.channel)).Observe(time.Since(started).Seconds())

	m := &message.Message{
		OrderID:        job.OrderID,
		ClientID:       job.ClientID,
		BuyerID:        job.BuyerID,
		Type:           messageType(w.channel),
		RecipientPhone: job.Phone,
		Content:        job.Body,
	}

	if sendErr != nil {
		m.Status = message.StatusFailed
		m.ErrorMessage = sql.NullString{String: sendErr.Error(), Valid: true}
		if err := w.store.RecordAttempt(ctx, m, false); err != nil {
			w.logger.Error("failed to record attempt", zap.Int64("order_id", job.OrderID), zap.Error(err))
		}
		w.metrics.DispatchOutcomes.WithLabelValues(string(w.channel), "failed").Inc()

		if errors.Is(sendErr, xerrors.ErrChannelUnavailable) {
			w.logger.Warn("channel unavailable", zap.Int64("order_id", job.OrderID), zap.Error(sendErr))
		} else {
			w.logger.Warn("send rejected", zap.Int64("order_id", job.OrderID), zap.Error(sendErr))
		}
		w.fail(ctx, job)
		return
	}

	m.Status = message.StatusSent
	m.SentAt = sql.NullTime{Time: time.Now(), Valid: true}
	if err := w.store.RecordAttempt(ctx, m, true); err != nil {
		// The send went out but the record didn't stick: keep the job so the
		// audit row is written on the next attempt rather than lost.
		w.logger.Error("failed to finalize sent attempt", zap.Int64("order_id", job.OrderID), zap.Error(err))
		w.fail(ctx, job)
		return
	}

	w.metrics.DispatchOutcomes.WithLabelValues(string(w.channel), "sent").Inc()
	w.logger.Info("notification delivered",
		zap.Int64("order_id", job.OrderID),
		zap.String("phone", job.Phone),
		zap.Int("attempt", job.Attempt),
	)
	w.complete(ctx, job)
}

func (w *Worker) alreadySent(o *order.Order) bool {
	switch w.channel {
	case queue.ChannelWhatsApp:
		return o.WhatsAppSent
	case queue.ChannelSMS:
		return o.SMSSent
	default:
		return false
	}
}

func (w *Worker) complete(ctx context.Context, job *queue.Job) {
	if err := w.queue.Complete(ctx, job); err != nil {
		w.logger.Error("failed to complete job", zap.String("job_id", job.ID), zap.Error(err))
	}
}

func (w *Worker) fail(ctx context.Context, job *queue.Job) {
	retried, err := w.queue.Fail(ctx, job)
	if err != nil {
		w.logger.Error("failed to reschedule job", zap.String("job_id", job.ID), zap.Error(err))
		return
	}
	if retried {
		w.metrics.JobsRetried.WithLabelValues(string(w.channel)).Inc()
	} else {
		w.metrics.JobsAbandoned.WithLabelValues(string(w.channel)).Inc()
	}
}

func messageType(ch queue.Channel) message.Type {
	if ch == queue.ChannelSMS {
		return message.TypeSMS
	}
	return message.TypeWhatsApp
}
