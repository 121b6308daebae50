// internal/service/scheduler/scheduler.go
package scheduler

import (
	"context"
	"fmt"
	"time"

	"orderbot-service/internal/domain/buyer"
	"orderbot-service/internal/domain/client"
	"orderbot-service/internal/domain/order"
	domainsettings "orderbot-service/internal/domain/settings"
	"orderbot-service/internal/queue"
	settingssvc "orderbot-service/internal/service/settings"
	"orderbot-service/internal/template"

	"go.uber.org/zap"
)

// SettingsProvider resolves a client's bot settings (lazily created).
type SettingsProvider interface {
	Get(ctx context.Context, clientID int64) (*domainsettings.BotSettings, error)
}

// ClientStore provides the tenant row for language fallback.
type ClientStore interface {
	FindByID(ctx context.Context, id int64) (*client.Client, error)
}

// Scheduler renders notification bodies and hands delayed jobs to the queue.
// It does not retry enqueue failures: those surface to the order creation
// flow.
type Scheduler struct {
	queue    queue.Client
	settings SettingsProvider
	clients  ClientStore
	baseURL  string
	logger   *zap.Logger
}

func NewScheduler(q queue.Client, settings SettingsProvider, clients ClientStore, baseURL string, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		queue:    q,
		settings: settings,
		clients:  clients,
		baseURL:  baseURL,
		logger:   logger,
	}
}

// plan carries everything needed to enqueue one order's notifications.
type plan struct {
	settings *domainsettings.BotSettings
	vars     template.Vars
	locale   string
}

func (s *Scheduler) buildPlan(ctx context.Context, o *order.Order, b *buyer.Buyer) (*plan, error) {
	cfg, err := s.settings.Get(ctx, o.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve settings for client %d: %w", o.ClientID, err)
	}

	cl, err := s.clients.FindByID(ctx, o.ClientID)
	if err != nil {
		return nil, fmt.Errorf("resolve client %d: %w", o.ClientID, err)
	}

	locale := settingssvc.ResolveLocale(cfg, cl.Language)
	return &plan{
		settings: cfg,
		locale:   locale,
		vars: template.Vars{
			BuyerName:        b.Name,
			OrderNumber:      o.OrderNumber,
			ProductName:      o.ProductName,
			Quantity:         o.Quantity,
			TotalPrice:       o.TotalPrice,
			ConfirmationLink: s.ConfirmationLink(o),
			CompanyName:      cfg.CompanyName,
			SupportPhone:     cfg.SupportPhone,
			StoreURL:         cfg.StoreURL,
		},
	}, nil
}

// ConfirmationLink builds the deterministic public confirmation URL.
func (s *Scheduler) ConfirmationLink(o *order.Order) string {
	return fmt.Sprintf("%s/confirm?orderId=%d&token=%s", s.baseURL, o.ID, o.ConfirmationToken)
}

// Schedule enqueues the order's notifications: WhatsApp always, SMS only
// when the client has it enabled. An enqueue error is fatal to that job and
// propagates to the caller.
func (s *Scheduler) Schedule(ctx context.Context, o *order.Order, b *buyer.Buyer) error {
	p, err := s.buildPlan(ctx, o, b)
	if err != nil {
		return err
	}

	if err := s.enqueue(ctx, p, o, b, queue.ChannelWhatsApp); err != nil {
		return err
	}

	if p.settings.SMSEnabled {
		if err := s.enqueue(ctx, p, o, b, queue.ChannelSMS); err != nil {
			return err
		}
	}
	return nil
}

// ScheduleWhatsApp re-drives only the WhatsApp notification; the monitor
// sweep uses it for orders whose original enqueue was lost.
func (s *Scheduler) ScheduleWhatsApp(ctx context.Context, o *order.Order, b *buyer.Buyer) error {
	p, err := s.buildPlan(ctx, o, b)
	if err != nil {
		return err
	}
	return s.enqueue(ctx, p, o, b, queue.ChannelWhatsApp)
}

func (s *Scheduler) enqueue(ctx context.Context, p *plan, o *order.Order, b *buyer.Buyer, ch queue.Channel) error {
	var tmpl string
	var delay time.Duration

	switch ch {
	case queue.ChannelWhatsApp:
		tmpl = template.DefaultWhatsApp(p.locale)
		if p.settings.WhatsAppTemplate.Valid && p.settings.WhatsAppTemplate.String != "" {
			tmpl = p.settings.WhatsAppTemplate.String
		}
		delay = time.Duration(p.settings.WhatsAppDelayMinutes) * time.Minute
	case queue.ChannelSMS:
		tmpl = template.DefaultSMS(p.locale)
		if p.settings.SMSTemplate.Valid && p.settings.SMSTemplate.String != "" {
			tmpl = p.settings.SMSTemplate.String
		}
		delay = time.Duration(p.settings.SMSDelayMinutes) * time.Minute
	default:
		return fmt.Errorf("unknown channel %q", ch)
	}

	body := template.Render(tmpl, p.vars)
	job := queue.NewJob(ch, o.ID, o.ClientID, b.ID, b.Phone, body)

	if err := s.queue.Enqueue(ctx, job, delay); err != nil {
		return fmt.Errorf("enqueue %s notification for order %d: %w", ch, o.ID, err)
	}

	s.logger.Info("notification scheduled",
		zap.String("channel", string(ch)),
		zap.Int64("order_id", o.ID),
		zap.String("order_number", o.OrderNumber),
		zap.Duration("delay", delay),
	)
	return nil
}
