package scheduler

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/client"
	"orderbot-service/internal/domain/order"
	domainsettings "orderbot-service/internal/domain/settings"
	"orderbot-service/internal/queue"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettings struct {
	cfg *domainsettings.BotSettings
}

func (f *fakeSettings) Get(_ context.Context, _ int64) (*domainsettings.BotSettings, error) {
	return f.cfg, nil
}

type fakeClients struct {
	language string
}

func (f *fakeClients) FindByID(_ context.Context, id int64) (*client.Client, error) {
	return &client.Client{ID: id, Language: f.language}, nil
}

func testOrder() *order.Order {
	return &order.Order{
		ID:                7,
		OrderNumber:       "ORD-1001",
		ClientID:          1,
		BuyerID:           3,
		ProductName:       "Ceramic Mug",
		Quantity:          2,
		TotalPrice:        90,
		ConfirmationToken: "tok123",
		Status:            order.StatusPending,
	}
}

func testBuyer() *buyer.Buyer {
	return &buyer.Buyer{ID: 3, ClientID: 1, Name: "Amina", Phone: "+212600000001"}
}

func TestScheduleEnqueuesBothChannelsWithConfiguredDelays(t *testing.T) {
	q := queue.NewMemoryQueue()
	base := time.Now()
	q.SetClock(func() time.Time { return base })

	cfg := &domainsettings.BotSettings{
		ClientID:             1,
		WhatsAppDelayMinutes: 2,
		SMSDelayMinutes:      5,
		SMSEnabled:           true,
		CompanyName:          "Mug Store",
	}
	s := NewScheduler(q, &fakeSettings{cfg: cfg}, &fakeClients{}, "https://orders.example", zap.NewNop())

	require.NoError(t, s.Schedule(context.Background(), testOrder(), testBuyer()))

	wa := q.Scheduled(queue.ChannelWhatsApp)
	require.Len(t, wa, 1)
	assert.Equal(t, base.Add(2*time.Minute), wa[0].ReadyAt)
	assert.Equal(t, int64(7), wa[0].OrderID)
	assert.Equal(t, "+212600000001", wa[0].Phone)
	assert.Contains(t, wa[0].Body, "https://orders.example/confirm?orderId=7&token=tok123")
	assert.Contains(t, wa[0].Body, "Amina")
	assert.NotContains(t, wa[0].Body, "{{")

	sms := q.Scheduled(queue.ChannelSMS)
	require.Len(t, sms, 1)
	assert.Equal(t, base.Add(5*time.Minute), sms[0].ReadyAt)
}

func TestScheduleSkipsSMSWhenDisabled(t *testing.T) {
	q := queue.NewMemoryQueue()
	cfg := &domainsettings.BotSettings{ClientID: 1, WhatsAppDelayMinutes: 1, SMSDelayMinutes: 5}
	s := NewScheduler(q, &fakeSettings{cfg: cfg}, &fakeClients{}, "https://orders.example", zap.NewNop())

	require.NoError(t, s.Schedule(context.Background(), testOrder(), testBuyer()))

	assert.Len(t, q.Scheduled(queue.ChannelWhatsApp), 1)
	assert.Empty(t, q.Scheduled(queue.ChannelSMS))
}

func TestScheduleUsesCustomTemplateOverDefault(t *testing.T) {
	q := queue.NewMemoryQueue()
	cfg := &domainsettings.BotSettings{
		ClientID:         1,
		WhatsAppTemplate: sql.NullString{String: "Custom for {{buyer_name}}: {{confirmation_link}}", Valid: true},
	}
	s := NewScheduler(q, &fakeSettings{cfg: cfg}, &fakeClients{}, "https://orders.example", zap.NewNop())

	require.NoError(t, s.ScheduleWhatsApp(context.Background(), testOrder(), testBuyer()))

	wa := q.Scheduled(queue.ChannelWhatsApp)
	require.Len(t, wa, 1)
	assert.Equal(t, "Custom for Amina: https://orders.example/confirm?orderId=7&token=tok123", wa[0].Body)
}

func TestScheduleLocalizesDefaultTemplate(t *testing.T) {
	q := queue.NewMemoryQueue()
	cfg := &domainsettings.BotSettings{ClientID: 1}
	s := NewScheduler(q, &fakeSettings{cfg: cfg}, &fakeClients{language: "fr"}, "https://orders.example", zap.NewNop())

	require.NoError(t, s.ScheduleWhatsApp(context.Background(), testOrder(), testBuyer()))

	wa := q.Scheduled(queue.ChannelWhatsApp)
	require.Len(t, wa, 1)
	assert.Contains(t, wa[0].Body, "Bonjour Amina")
}
