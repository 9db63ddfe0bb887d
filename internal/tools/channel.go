package tools

import (
	"context"

	"github.com/jonathan/cv-agent/internal/types"
)

// Channel is the dispatcher's view of the outbound notification transport.
// A nil or unconfigured channel makes send_email fail with
// ChannelUnavailable; it never blocks the rest of the tool set.
type Channel interface {
	// Configured reports whether the channel can attempt deliveries.
	Configured() bool

	// Send delivers a single message and returns a receipt on success.
	Send(ctx context.Context, message types.EmailMessage) (*types.DeliveryReceipt, error)
}
