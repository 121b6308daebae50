// internal/service/monitor/monitor.go
package monitor

import (
	"context"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	"orderbot-service/internal/queue"

	"go.uber.org/zap"
)

// OrderStore provides the sweep's read path.
type OrderStore interface {
	FindPendingUnsent(ctx context.Context, createdBefore time.Time, limit int) ([]order.Order, error)
}

// BuyerStore resolves the buyer for re-scheduling.
type BuyerStore interface {
	FindByID(ctx context.Context, id int64) (*buyer.Buyer, error)
}

// Rescheduler re-drives the WhatsApp notification for one order.
type Rescheduler interface {
	ScheduleWhatsApp(ctx context.Context, o *order.Order, b *buyer.Buyer) error
}

// Monitor is the fallback sweep: a self-healing backstop against enqueue
// attempts lost at webhook time. It never replaces the immediate scheduling
// path and never double-sends: an order is re-driven only when its sent flag
// is still false AND the queue holds no job for it.
type Monitor struct {
	orders    OrderStore
	buyers    BuyerStore
	scheduler Rescheduler
	queue     queue.Client
	interval  time.Duration
	grace     time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

func NewMonitor(
	orders OrderStore,
	buyers BuyerStore,
	scheduler Rescheduler,
	q queue.Client,
	interval, grace time.Duration,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if grace <= 0 {
		grace = 5 * time.Minute
	}
	return &Monitor{
		orders:    orders,
		buyers:    buyers,
		scheduler: scheduler,
		queue:     q,
		interval:  interval,
		grace:     grace,
		metrics:   m,
		logger:    logger,
	}
}

// Run sweeps on a fixed interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// Sweep re-drives scheduling for pending orders whose WhatsApp notification
// was lost. Exposed for tests.
func (m *Monitor) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-m.grace)
	orders, err := m.orders.FindPendingUnsent(ctx, cutoff, 100)
	if err != nil {
		m.logger.Error("sweep query failed", zap.Error(err))
		return
	}

	for _, o := range orders {
		// A delayed-but-pending job is not lost; leave it alone.
		pending, err := m.queue.HasPending(ctx, queue.ChannelWhatsApp, o.ID)
		if err != nil {
			m.logger.Warn("pending check failed", zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}
		if pending {
			continue
		}

		b, err := m.buyers.FindByID(ctx, o.BuyerID)
		if err != nil {
			m.logger.Warn("buyer lookup failed", zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}

		o := o
		if err := m.scheduler.ScheduleWhatsApp(ctx, &o, b); err != nil {
			m.logger.Error("re-schedule failed", zap.Int64("order_id", o.ID), zap.Error(err))
			continue
		}

		m.metrics.MonitorResweeps.Inc()
		m.logger.Info("order re-driven by sweep",
			zap.Int64("order_id", o.ID),
			zap.String("order_number", o.OrderNumber),
		)
	}
}
