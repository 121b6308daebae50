package confirm

import (
	"context"
	"sync"
	"testing"
	"time"

	"orderbot-service/internal/domain/client"
	"orderbot-service/internal/domain/order"
	"orderbot-service/internal/metrics"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeOrderStore struct {
	mu    sync.Mutex
	order *order.Order
}

func (f *fakeOrderStore) FindByToken(_ context.Context, token string) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil || f.order.ConfirmationToken != token {
		return nil, xerrors.ErrNotFound
	}
	o := *f.order
	return &o, nil
}

func (f *fakeOrderStore) FindByID(_ context.Context, id int64) (*order.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil || f.order.ID != id {
		return nil, xerrors.ErrNotFound
	}
	o := *f.order
	return &o, nil
}

func (f *fakeOrderStore) ConfirmStatus(_ context.Context, id int64, status order.Status, notes string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil || f.order.ID != id || f.order.Status != order.StatusPending {
		return false, nil
	}
	f.order.Status = status
	f.order.ConfirmedAt.Time = time.Now()
	f.order.ConfirmedAt.Valid = true
	if notes != "" {
		f.order.Notes.String = notes
		f.order.Notes.Valid = true
	}
	return true, nil
}

type fakeClientStore struct{}

func (fakeClientStore) FindByID(_ context.Context, id int64) (*client.Client, error) {
	return &client.Client{ID: id, Email: "owner@example.com"}, nil
}

type fakeEmailer struct {
	mu    sync.Mutex
	sends int
}

func (f *fakeEmailer) Send(_, _, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sends++
	return nil
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	orders []*order.Order
}

func (f *fakeBroadcaster) BroadcastOrderUpdate(_ int64, o *order.Order) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders = append(f.orders, o)
}

func (f *fakeBroadcaster) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.orders)
}

func pendingOrder() *order.Order {
	return &order.Order{
		ID:                7,
		OrderNumber:       "ORD-1001",
		ClientID:          1,
		ConfirmationToken: "tok123",
		TokenExpiresAt:    time.Now().Add(time.Hour),
		Status:            order.StatusPending,
	}
}

func newService(store *fakeOrderStore, bc *fakeBroadcaster) *ConfirmService {
	return NewConfirmService(store, fakeClientStore{}, &fakeEmailer{}, bc, metrics.Registry("confirmtest"), zap.NewNop())
}

func TestMintTokenIsRandomHex(t *testing.T) {
	a, err := MintToken()
	require.NoError(t, err)
	b, err := MintToken()
	require.NoError(t, err)

	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
}

func TestResolveRejectsUnknownAndExpiredTokens(t *testing.T) {
	store := &fakeOrderStore{order: pendingOrder()}
	s := newService(store, &fakeBroadcaster{})

	_, err := s.Resolve(context.Background(), "nope")
	assert.ErrorIs(t, err, xerrors.ErrNotFound)

	store.order.TokenExpiresAt = time.Now().Add(-time.Minute)
	_, err = s.Resolve(context.Background(), "tok123")
	assert.ErrorIs(t, err, xerrors.ErrNotFound, "an expired token must be indistinguishable from a missing one")
}

func TestConsumeAppliesDecisionOnce(t *testing.T) {
	store := &fakeOrderStore{order: pendingOrder()}
	bc := &fakeBroadcaster{}
	s := newService(store, bc)

	got, err := s.Consume(context.Background(), "tok123", order.StatusApproved, "leave at door")
	require.NoError(t, err)
	assert.Equal(t, order.StatusApproved, got.Status)
	assert.True(t, got.ConfirmedAt.Valid)
	assert.Equal(t, "leave at door", got.Notes.String)
	assert.Equal(t, 1, bc.count())

	// A second decision on the spent token must not change anything.
	again, err := s.Consume(context.Background(), "tok123", order.StatusDeclined, "")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyConfirmed)
	assert.Equal(t, order.StatusApproved, again.Status)
	assert.Equal(t, 1, bc.count(), "no broadcast for a rejected repeat")
}

func TestConsumeLosingTheRaceReportsAlreadyConfirmed(t *testing.T) {
	o := pendingOrder()
	o.Status = order.StatusChanged
	store := &fakeOrderStore{order: o}
	bc := &fakeBroadcaster{}
	s := newService(store, bc)

	got, err := s.Consume(context.Background(), "tok123", order.StatusApproved, "")
	assert.ErrorIs(t, err, xerrors.ErrAlreadyConfirmed)
	assert.Equal(t, order.StatusChanged, got.Status)
	assert.Zero(t, bc.count())
}
