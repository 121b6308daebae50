// internal/domain/settings/entity.go
package settings

import (
	"database/sql"
	"time"
)

// BotSettings is the one-per-client notification configuration. A row is
// created lazily with defaults the first time a client's settings are read.
type BotSettings struct {
	ID       int64 `json:"id" db:"id"`
	ClientID int64 `json:"client_id" db:"client_id"`

	WhatsAppTemplate sql.NullString `json:"whatsapp_template,omitempty" db:"whatsapp_template"`
	SMSTemplate      sql.NullString `json:"sms_template,omitempty" db:"sms_template"`

	WhatsAppDelayMinutes int  `json:"whatsapp_delay_minutes" db:"whatsapp_delay_minutes"`
	SMSDelayMinutes      int  `json:"sms_delay_minutes" db:"sms_delay_minutes"`
	SMSEnabled           bool `json:"sms_enabled" db:"sms_enabled"`

	CompanyName  string         `json:"company_name" db:"company_name"`
	SupportPhone string         `json:"support_phone" db:"support_phone"`
	StoreURL     string         `json:"store_url" db:"store_url"`
	Language     sql.NullString `json:"language,omitempty" db:"language"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateRequest carries the dashboard-editable settings fields. Nil pointers
// leave the stored value untouched.
type UpdateRequest struct {
	WhatsAppTemplate     *string `json:"whatsapp_template"`
	SMSTemplate          *string `json:"sms_template"`
	WhatsAppDelayMinutes *int    `json:"whatsapp_delay_minutes"`
	SMSDelayMinutes      *int    `json:"sms_delay_minutes"`
	SMSEnabled           *bool   `json:"sms_enabled"`
	CompanyName          *string `json:"company_name"`
	SupportPhone         *string `json:"support_phone"`
	StoreURL             *string `json:"store_url"`
	Language             *string `json:"language"`
}

// PreviewRequest asks for a template render against fixed sample data.
type PreviewRequest struct {
	Template string `json:"template"`
	Language string `json:"language"`
}
