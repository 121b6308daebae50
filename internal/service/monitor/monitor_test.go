package monitor

import (
	"context"
	"testing"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	"orderbot-service/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrders struct {
	unsent []order.Order
}

func (f *fakeOrders) FindPendingUnsent(_ context.Context, _ time.Time, _ int) ([]order.Order, error) {
	return f.unsent, nil
}

type fakeBuyers struct{}

func (fakeBuyers) FindByID(_ context.Context, id int64) (*buyer.Buyer, error) {
	return &buyer.Buyer{ID: id, Phone: "+212600000001"}, nil
}

type fakeRescheduler struct {
	orderIDs []int64
}

func (f *fakeRescheduler) ScheduleWhatsApp(_ context.Context, o *order.Order, _ *buyer.Buyer) error {
	f.orderIDs = append(f.orderIDs, o.ID)
	return nil
}

func TestSweepRedrivesOnlyOrdersWithoutPendingJobs(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	// Order 2 still has a delayed job in the queue; order 1 lost its enqueue.
	require.NoError(t, q.Enqueue(ctx, queue.NewJob(queue.ChannelWhatsApp, 2, 1, 5, "+212600000002", "hi"), time.Hour))

	orders := &fakeOrders{unsent: []order.Order{
		{ID: 1, BuyerID: 4, Status: order.StatusPending},
		{ID: 2, BuyerID: 5, Status: order.StatusPending},
	}}
	sched := &fakeRescheduler{}
	m := NewMonitor(orders, fakeBuyers{}, sched, q, time.Second, time.Minute, metrics.Registry("monitortest"), zap.NewNop())

	m.Sweep(ctx)

	assert.Equal(t, []int64{1}, sched.orderIDs, "an order with a queued job must be left alone")
}

func TestSweepIsIdempotentAcrossRuns(t *testing.T) {
	ctx := context.Background()
	q := queue.NewMemoryQueue()

	orders := &fakeOrders{unsent: []order.Order{{ID: 1, BuyerID: 4, Status: order.StatusPending}}}
	sched := &fakeRescheduler{}
	m := NewMonitor(orders, fakeBuyers{}, sched, q, time.Second, time.Minute, metrics.Registry("monitortest"), zap.NewNop())

	m.Sweep(ctx)
	require.Equal(t, []int64{1}, sched.orderIDs)

	// The fake rescheduler does not enqueue, so a second sweep re-drives
	// again; with the real scheduler the queued job suppresses it.
	require.NoError(t, q.Enqueue(ctx, queue.NewJob(queue.ChannelWhatsApp, 1, 1, 4, "+212600000001", "hi"), time.Minute))
	m.Sweep(ctx)
	assert.Equal(t, []int64{1}, sched.orderIDs)
}
