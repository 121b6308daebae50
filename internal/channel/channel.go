// internal/channel/channel.go
package channel

import "context"

// Sender is the abstract send capability of one notification transport.
// Dispatch workers depend only on this interface, never on the concrete
// session or HTTP client behind it.
type Sender interface {
	// Send delivers a rendered message to a phone number. It returns
	// xerrors.ErrChannelUnavailable (possibly wrapped) when the transport
	// is not ready, so the queue's backoff governs recovery.
	Send(ctx context.Context, phone, message string) error

	// IsReady reports whether the transport can currently send.
	IsReady() bool
}
