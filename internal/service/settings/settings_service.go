// internal/service/settings/settings_service.go
package settings

import (
	"context"
	"fmt"

	"orderbot-service/internal/domain/settings"
	"orderbot-service/internal/template"

	"go.uber.org/zap"
)

// Store is the persistence contract the service needs.
type Store interface {
	GetOrCreate(ctx context.Context, clientID int64, defaults *settings.BotSettings) (*settings.BotSettings, error)
	Update(ctx context.Context, s *settings.BotSettings) error
}

// Defaults seed a client's settings row on first access.
type Defaults struct {
	WhatsAppDelayMinutes int
	SMSDelayMinutes      int
	SMSEnabled           bool
	CompanyName          string
	SupportPhone         string
	StoreURL             string
}

type SettingsService struct {
	store    Store
	defaults Defaults
	logger   *zap.Logger
}

func NewSettingsService(store Store, defaults Defaults, logger *zap.Logger) *SettingsService {
	return &SettingsService{store: store, defaults: defaults, logger: logger}
}

// Get returns the client's settings, creating the default row on first use.
func (s *SettingsService) Get(ctx context.Context, clientID int64) (*settings.BotSettings, error) {
	row, err := s.store.GetOrCreate(ctx, clientID, &settings.BotSettings{
		WhatsAppDelayMinutes: s.defaults.WhatsAppDelayMinutes,
		SMSDelayMinutes:      s.defaults.SMSDelayMinutes,
		SMSEnabled:           s.defaults.SMSEnabled,
		CompanyName:          s.defaults.CompanyName,
		SupportPhone:         s.defaults.SupportPhone,
		StoreURL:             s.defaults.StoreURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load bot settings: %w", err)
	}
	return row, nil
}

// Update applies the non-nil fields of req onto the stored settings.
func (s *SettingsService) Update(ctx context.Context, clientID int64, req *settings.UpdateRequest) (*settings.BotSettings, error) {
	current, err := s.Get(ctx, clientID)
	if err != nil {
		return nil, err
	}

	if req.WhatsAppTemplate != nil {
		current.WhatsAppTemplate.String = *req.WhatsAppTemplate
		current.WhatsAppTemplate.Valid = *req.WhatsAppTemplate != ""
	}
	if req.SMSTemplate != nil {
		current.SMSTemplate.String = *req.SMSTemplate
		current.SMSTemplate.Valid = *req.SMSTemplate != ""
	}
	if req.WhatsAppDelayMinutes != nil {
		current.WhatsAppDelayMinutes = *req.WhatsAppDelayMinutes
	}
	if req.SMSDelayMinutes != nil {
		current.SMSDelayMinutes = *req.SMSDelayMinutes
	}
	if req.SMSEnabled != nil {
		current.SMSEnabled = *req.SMSEnabled
	}
	if req.CompanyName != nil {
		current.CompanyName = *req.CompanyName
	}
	if req.SupportPhone != nil {
		current.SupportPhone = *req.SupportPhone
	}
	if req.StoreURL != nil {
		current.StoreURL = *req.StoreURL
	}
	if req.Language != nil {
		current.Language.String = *req.Language
		current.Language.Valid = *req.Language != ""
	}

	if err := s.store.Update(ctx, current); err != nil {
		return nil, err
	}

	s.logger.Info("bot settings updated", zap.Int64("client_id", clientID))
	return current, nil
}

// Preview renders a template against fixed sample data for the dashboard UI.
func (s *SettingsService) Preview(req *settings.PreviewRequest) string {
	tmpl := req.Template
	if tmpl == "" {
		locale := req.Language
		if locale == "" {
			locale = template.FallbackLocale
		}
		tmpl = template.DefaultWhatsApp(locale)
	}

	return template.Render(tmpl, template.Vars{
		BuyerName:        "Ali",
		OrderNumber:      "ORD-20250101-SAMPLE",
		ProductName:      "Sample Product",
		Quantity:         2,
		TotalPrice:       500,
		ConfirmationLink: "https://example.com/confirm?orderId=1&token=sample",
		CompanyName:      s.defaults.CompanyName,
		SupportPhone:     s.defaults.SupportPhone,
		StoreURL:         s.defaults.StoreURL,
	})
}

// ResolveLocale picks the message locale: settings language, then the
// client's language, then the fallback.
func ResolveLocale(s *settings.BotSettings, clientLanguage string) string {
	if s != nil && s.Language.Valid && s.Language.String != "" {
		return s.Language.String
	}
	if clientLanguage != "" {
		return clientLanguage
	}
	return template.FallbackLocale
}
