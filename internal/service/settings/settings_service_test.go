package settings

import (
	"context"
	"database/sql"
	"testing"

	domainsettings "orderbot-service/internal/domain/settings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeStore struct {
	rows map[int64]*domainsettings.BotSettings
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[int64]*domainsettings.BotSettings)}
}

func (f *fakeStore) GetOrCreate(_ context.Context, clientID int64, defaults *domainsettings.BotSettings) (*domainsettings.BotSettings, error) {
	if row, ok := f.rows[clientID]; ok {
		return row, nil
	}
	row := *defaults
	row.ID = int64(len(f.rows) + 1)
	row.ClientID = clientID
	f.rows[clientID] = &row
	return &row, nil
}

func (f *fakeStore) Update(_ context.Context, s *domainsettings.BotSettings) error {
	f.rows[s.ClientID] = s
	return nil
}

func testDefaults() Defaults {
	return Defaults{
		WhatsAppDelayMinutes: 2,
		SMSDelayMinutes:      5,
		SMSEnabled:           true,
		CompanyName:          "Mug Store",
	}
}

func TestGetCreatesDefaultRowOnFirstRead(t *testing.T) {
	store := newFakeStore()
	s := NewSettingsService(store, testDefaults(), zap.NewNop())

	row, err := s.Get(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, int64(1), row.ClientID)
	assert.Equal(t, 2, row.WhatsAppDelayMinutes)
	assert.Equal(t, 5, row.SMSDelayMinutes)
	assert.True(t, row.SMSEnabled)
	assert.Equal(t, "Mug Store", row.CompanyName)

	again, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, row.ID, again.ID, "second read returns the same row")
}

func TestUpdateTouchesOnlyProvidedFields(t *testing.T) {
	store := newFakeStore()
	s := NewSettingsService(store, testDefaults(), zap.NewNop())

	delay := 15
	disabled := false
	tmpl := "Salaam {{buyer_name}}"
	row, err := s.Update(context.Background(), 1, &domainsettings.UpdateRequest{
		WhatsAppDelayMinutes: &delay,
		SMSEnabled:           &disabled,
		WhatsAppTemplate:     &tmpl,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, row.WhatsAppDelayMinutes)
	assert.False(t, row.SMSEnabled)
	assert.Equal(t, "Salaam {{buyer_name}}", row.WhatsAppTemplate.String)
	assert.Equal(t, 5, row.SMSDelayMinutes, "untouched field keeps its value")
	assert.Equal(t, "Mug Store", row.CompanyName)
}

func TestUpdateClearingTemplateRestoresDefault(t *testing.T) {
	store := newFakeStore()
	s := NewSettingsService(store, testDefaults(), zap.NewNop())

	tmpl := "custom"
	_, err := s.Update(context.Background(), 1, &domainsettings.UpdateRequest{WhatsAppTemplate: &tmpl})
	require.NoError(t, err)

	empty := ""
	row, err := s.Update(context.Background(), 1, &domainsettings.UpdateRequest{WhatsAppTemplate: &empty})
	require.NoError(t, err)
	assert.False(t, row.WhatsAppTemplate.Valid, "empty template falls back to the built-in default")
}

func TestPreviewFillsSampleData(t *testing.T) {
	s := NewSettingsService(newFakeStore(), testDefaults(), zap.NewNop())

	out := s.Preview(&domainsettings.PreviewRequest{Template: "{{buyer_name}} / {{order_number}} / {{company_name}}"})
	assert.Equal(t, "Ali / ORD-20250101-SAMPLE / Mug Store", out)

	out = s.Preview(&domainsettings.PreviewRequest{})
	assert.NotContains(t, out, "{{", "default template renders clean")
}

func TestResolveLocalePrecedence(t *testing.T) {
	withLang := &domainsettings.BotSettings{Language: sql.NullString{String: "ar", Valid: true}}

	assert.Equal(t, "ar", ResolveLocale(withLang, "fr"))
	assert.Equal(t, "fr", ResolveLocale(&domainsettings.BotSettings{}, "fr"))
	assert.Equal(t, "en", ResolveLocale(&domainsettings.BotSettings{}, ""))
	assert.Equal(t, "en", ResolveLocale(nil, ""))
}
