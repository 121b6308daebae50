// internal/channel/whatsapp/whatsapp.go
package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	xerrors "orderbot-service/internal/pkg/errors"

	"go.mau.fi/whatsmeow"
	waProto "go.mau.fi/whatsmeow/proto/waE2E"
	"go.mau.fi/whatsmeow/store/sqlstore"
	"go.mau.fi/whatsmeow/types"
	waLog "go.mau.fi/whatsmeow/util/log"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
	_ "modernc.org/sqlite"
)

// Config holds configuration to initialise the WhatsApp adapter.
type Config struct {
	StorePath string
	LogLevel  string
}

// Adapter owns the persistent WhatsApp session and implements
// channel.Sender on top of it.
type Adapter struct {
	client *whatsmeow.Client
	logger *zap.Logger
}

// New creates a WhatsApp adapter backed by an SQLite device store.
func New(ctx context.Context, cfg Config, logger *zap.Logger) (*Adapter, error) {
	if cfg.StorePath == "" {
		return nil, errors.New("store path is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure store dir: %w", err)
	}

	storeLogger := waLog.Stdout("whatsmeow/sqlstore", cfg.LogLevel, true)
	container, err := sqlstore.New(ctx, "sqlite",
		fmt.Sprintf("file:%s?_pragma=busy_timeout=10000&_pragma=foreign_keys(ON)", cfg.StorePath),
		storeLogger)
	if err != nil {
		return nil, fmt.Errorf("create sqlstore: %w", err)
	}

	deviceStore, err := container.GetFirstDevice(ctx)
	if err != nil {
		return nil, fmt.Errorf("get device: %w", err)
	}

	waLogger := waLog.Stdout("whatsmeow/client", cfg.LogLevel, true)
	return &Adapter{
		client: whatsmeow.NewClient(deviceStore, waLogger),
		logger: logger.With(zap.String("component", "whatsapp")),
	}, nil
}

// Start connects the client and handles the login/QR pairing flow.
func (a *Adapter) Start(ctx context.Context) error {
	if a.client.Store.ID == nil {
		a.logger.Info("pairing required, waiting for QR scan")
		qrChan, err := a.client.GetQRChannel(ctx)
		if err != nil {
			return fmt.Errorf("get qr channel: %w", err)
		}

		go func() {
			for evt := range qrChan {
				if evt.Event == "code" {
					a.logger.Info("scan the QR code with WhatsApp", zap.String("qr", evt.Code))
				} else {
					a.logger.Info("pairing event received", zap.String("event", evt.Event))
				}
			}
		}()
	}

	if err := a.client.Connect(); err != nil {
		return fmt.Errorf("connect wa client: %w", err)
	}

	a.logger.Info("whatsapp client connected")
	return nil
}

// Close disconnects the underlying session.
func (a *Adapter) Close() {
	if a.client != nil {
		a.client.Disconnect()
	}
}

// IsReady reports whether the session is paired and connected.
func (a *Adapter) IsReady() bool {
	return a.client != nil && a.client.Store.ID != nil && a.client.IsConnected()
}

// Send delivers a text message to the given phone number.
func (a *Adapter) Send(ctx context.Context, phone, message string) error {
	if !a.IsReady() {
		return fmt.Errorf("whatsapp session not connected: %w", xerrors.ErrChannelUnavailable)
	}

	jid := types.NewJID(phone, types.DefaultUserServer)
	_, err := a.client.SendMessage(ctx, jid, &waProto.Message{
		Conversation: proto.String(message),
	})
	if err != nil {
		return fmt.Errorf("send whatsapp message to %s: %w", phone, err)
	}
	return nil
}
