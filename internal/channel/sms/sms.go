// internal/channel/sms/sms.go
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	xerrors "orderbot-service/internal/pkg/errors"

	"go.uber.org/zap"
)

// Config holds the SMS gateway connection parameters.
type Config struct {
	GatewayURL string
	APIKey     string
	Sender     string
}

// Adapter sends SMS through an HTTP gateway and implements channel.Sender.
type Adapter struct {
	cfg    Config
	http   *http.Client
	logger *zap.Logger
}

func New(cfg Config, logger *zap.Logger) *Adapter {
	return &Adapter{
		cfg:    cfg,
		http:   &http.Client{Timeout: 30 * time.Second},
		logger: logger.With(zap.String("component", "sms")),
	}
}

// IsReady reports whether the gateway is configured.
func (a *Adapter) IsReady() bool {
	return a.cfg.GatewayURL != "" && a.cfg.APIKey != ""
}

// Send posts the message to the gateway.
func (a *Adapter) Send(ctx context.Context, phone, message string) error {
	if !a.IsReady() {
		return fmt.Errorf("sms gateway not configured: %w", xerrors.ErrChannelUnavailable)
	}

	payload := map[string]string{
		"to":      phone,
		"from":    a.cfg.Sender,
		"message": message,
	}
	b, _ := json.Marshal(payload)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.cfg.GatewayURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+a.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms gateway unreachable: %w", xerrors.ErrChannelUnavailable)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("sms gateway error: status=%d body=%s", resp.StatusCode, string(body))
	}
	return nil
}
