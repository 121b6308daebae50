package order

import (
	"context"
	"errors"
	"testing"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/message"
	domainorder "orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeIngestStore struct {
	knownClients map[int64]bool
	buyers       map[string]*buyer.Buyer
	orders       []*domainorder.Order
}

func newFakeIngestStore(clients ...int64) *fakeIngestStore {
	known := make(map[int64]bool)
	for _, id := range clients {
		known[id] = true
	}
	return &fakeIngestStore{knownClients: known, buyers: make(map[string]*buyer.Buyer)}
}

func (f *fakeIngestStore) ClientExists(_ context.Context, clientID int64) (bool, error) {
	return f.knownClients[clientID], nil
}

func (f *fakeIngestStore) CreateOrderWithBuyer(_ context.Context, b *buyer.Buyer, o *domainorder.Order) (*buyer.Buyer, error) {
	key := b.Phone
	if existing, ok := f.buyers[key]; ok {
		b = existing
	} else {
		b.ID = int64(len(f.buyers) + 1)
		f.buyers[key] = b
	}
	o.ID = int64(len(f.orders) + 1)
	o.BuyerID = b.ID
	f.orders = append(f.orders, o)
	return b, nil
}

type fakeScheduler struct {
	err   error
	calls int
}

func (f *fakeScheduler) Schedule(_ context.Context, _ *domainorder.Order, _ *buyer.Buyer) error {
	f.calls++
	return f.err
}

type fakeOrderReader struct {
	orders map[int64]*domainorder.Order
}

func (f *fakeOrderReader) FindByID(_ context.Context, id int64) (*domainorder.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, xerrors.ErrNotFound
}

func (f *fakeOrderReader) ListByClient(_ context.Context, _ int64, _ *domainorder.ListFilters) ([]domainorder.Order, int64, error) {
	return nil, 45, nil
}

type fakeMessageReader struct {
	messages []message.Message
}

func (f *fakeMessageReader) ListByOrder(_ context.Context, _ int64) ([]message.Message, error) {
	return f.messages, nil
}

func validRequest() *domainorder.WebhookRequest {
	return &domainorder.WebhookRequest{
		ClientID:    1,
		OrderNumber: "ORD-1001",
		Buyer:       domainorder.BuyerPayload{Name: "Amina", Phone: "+212600000001"},
		ProductName: "Ceramic Mug",
		Quantity:    2,
		TotalPrice:  90,
	}
}

func newService(store *fakeIngestStore, sched *fakeScheduler) *OrderService {
	return NewOrderService(store, &fakeOrderReader{orders: map[int64]*domainorder.Order{}}, &fakeMessageReader{}, sched, 48*time.Hour, metrics.Registry("ordertest"), zap.NewNop())
}

func TestIngestWebhookCreatesPendingOrderWithToken(t *testing.T) {
	store := newFakeIngestStore(1)
	sched := &fakeScheduler{}
	s := newService(store, sched)

	o, b, err := s.IngestWebhook(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, domainorder.StatusPending, o.Status)
	assert.Len(t, o.ConfirmationToken, 32)
	assert.WithinDuration(t, time.Now().Add(48*time.Hour), o.TokenExpiresAt, time.Minute)
	assert.Equal(t, "unpaid", o.PaymentStatus)
	assert.Equal(t, b.ID, o.BuyerID)
	assert.Equal(t, 1, sched.calls)
}

func TestIngestWebhookReusesBuyerByPhone(t *testing.T) {
	store := newFakeIngestStore(1)
	s := newService(store, &fakeScheduler{})

	_, first, err := s.IngestWebhook(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.OrderNumber = "ORD-1002"
	_, second, err := s.IngestWebhook(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "same phone for the same client is one buyer")
	assert.Len(t, store.orders, 2)
	assert.Len(t, store.buyers, 1)
}

func TestIngestWebhookListsMissingFields(t *testing.T) {
	s := newService(newFakeIngestStore(1), &fakeScheduler{})

	req := &domainorder.WebhookRequest{ClientID: 1, Quantity: 2, TotalPrice: 10}
	_, _, err := s.IngestWebhook(context.Background(), req)

	var ve *xerrors.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.ElementsMatch(t, []string{"order_number", "buyer.name", "buyer.phone", "product_name"}, ve.Fields)
	assert.ErrorIs(t, err, xerrors.ErrValidation)
}

func TestIngestWebhookRejectsUnknownClient(t *testing.T) {
	store := newFakeIngestStore(1)
	s := newService(store, &fakeScheduler{})

	req := validRequest()
	req.ClientID = 42
	_, _, err := s.IngestWebhook(context.Background(), req)

	assert.ErrorIs(t, err, xerrors.ErrNotFound)
	assert.Empty(t, store.orders)
}

func TestIngestWebhookSurfacesSchedulingFailure(t *testing.T) {
	store := newFakeIngestStore(1)
	sched := &fakeScheduler{err: errors.New("queue down")}
	s := newService(store, sched)

	_, _, err := s.IngestWebhook(context.Background(), validRequest())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "scheduling failed")
	assert.Len(t, store.orders, 1, "the order row survives for the monitor to re-drive")
}

func TestListOrdersNormalizesPaging(t *testing.T) {
	s := newService(newFakeIngestStore(1), &fakeScheduler{})

	resp, err := s.ListOrders(context.Background(), 1, &domainorder.ListFilters{Page: 0, PageSize: 500})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 100, resp.PageSize)
	assert.Equal(t, int64(45), resp.Total)
	assert.Equal(t, 1, resp.TotalPages)
}
