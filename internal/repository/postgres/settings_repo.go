// internal/repository/postgres/settings_repo.go
package postgres

import (
	"context"
	"errors"
	"fmt"

	"orderbot-service/internal/domain/settings"
	xerrors "orderbot-service/internal/pkg/errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BotSettingsRepository struct {
	db *pgxpool.Pool
}

func NewBotSettingsRepository(db *pgxpool.Pool) *BotSettingsRepository {
	return &BotSettingsRepository{db: db}
}

const settingsColumns = `
	id, client_id, whatsapp_template, sms_template,
	whatsapp_delay_minutes, sms_delay_minutes, sms_enabled,
	company_name, support_phone, store_url, language,
	created_at, updated_at
`

func scanSettings(row pgx.Row) (*settings.BotSettings, error) {
	var s settings.BotSettings
	err := row.Scan(
		&s.ID, &s.ClientID, &s.WhatsAppTemplate, &s.SMSTemplate,
		&s.WhatsAppDelayMinutes, &s.SMSDelayMinutes, &s.SMSEnabled,
		&s.CompanyName, &s.SupportPhone, &s.StoreURL, &s.Language,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, xerrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bot settings: %w", err)
	}
	return &s, nil
}

// GetOrCreate returns the client's settings row, lazily inserting the
// defaults on first access. Exactly one row exists per client.
func (r *BotSettingsRepository) GetOrCreate(ctx context.Context, clientID int64, defaults *settings.BotSettings) (*settings.BotSettings, error) {
	insert := `
		INSERT INTO bot_settings (
			client_id, whatsapp_delay_minutes, sms_delay_minutes, sms_enabled,
			company_name, support_phone, store_url
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (client_id) DO NOTHING
	`
	_, err := r.db.Exec(ctx, insert,
		clientID, defaults.WhatsAppDelayMinutes, defaults.SMSDelayMinutes, defaults.SMSEnabled,
		defaults.CompanyName, defaults.SupportPhone, defaults.StoreURL,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert bot settings: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM bot_settings WHERE client_id = $1`, settingsColumns)
	return scanSettings(r.db.QueryRow(ctx, query, clientID))
}

// Update persists the full settings row for a client.
func (r *BotSettingsRepository) Update(ctx context.Context, s *settings.BotSettings) error {
	query := `
		UPDATE bot_settings
		SET whatsapp_template = $1,
		    sms_template = $2,
		    whatsapp_delay_minutes = $3,
		    sms_delay_minutes = $4,
		    sms_enabled = $5,
		    company_name = $6,
		    support_phone = $7,
		    store_url = $8,
		    language = $9,
		    updated_at = NOW()
		WHERE client_id = $10
	`
	result, err := r.db.Exec(ctx, query,
		s.WhatsAppTemplate, s.SMSTemplate,
		s.WhatsAppDelayMinutes, s.SMSDelayMinutes, s.SMSEnabled,
		s.CompanyName, s.SupportPhone, s.StoreURL, s.Language,
		s.ClientID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bot settings: %w", err)
	}
	if result.RowsAffected() == 0 {
		return xerrors.ErrNotFound
	}
	return nil
}
