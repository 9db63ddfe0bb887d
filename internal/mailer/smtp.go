package mailer

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/jonathan/cv-agent/internal/types"
)

// SMTPChannel delivers notification emails through an SMTP server. A channel
// is always constructed, even from empty or broken settings; in that case it
// reports itself as unconfigured and every send fails with NotConfiguredError.
type SMTPChannel struct {
	cfg    SMTPConfig
	client *mail.Client
	reason string
	logger *zap.Logger
}

// NewChannel builds the outbound mail channel. Construction never fails:
// callers always receive a usable value and check Configured before relying
// on delivery.
func NewChannel(cfg SMTPConfig, logger *zap.Logger) *SMTPChannel {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}

	channel := &SMTPChannel{cfg: cfg, logger: logger}

	if cfg.IsEmpty() {
		channel.reason = "no smtp settings provided"
		logger.Debug("notification channel disabled", zap.String("reason", channel.reason))
		return channel
	}

	if err := cfg.Validate(); err != nil {
		channel.reason = err.Error()
		logger.Warn("notification channel disabled", zap.String("reason", channel.reason))
		return channel
	}

	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTimeout(cfg.Timeout),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		channel.reason = err.Error()
		logger.Warn("notification channel disabled", zap.String("reason", channel.reason))
		return channel
	}

	channel.client = client
	logger.Info("notification channel configured",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
	)
	return channel
}

// Configured reports whether the channel can attempt deliveries.
func (c *SMTPChannel) Configured() bool {
	return c.client != nil
}

// Host returns the configured SMTP host, or empty when unconfigured.
func (c *SMTPChannel) Host() string {
	if c.client == nil {
		return ""
	}
	return c.cfg.Host
}

// Probe dials the SMTP server and disconnects without sending. It verifies
// reachability only; a failed probe does not disable the channel.
func (c *SMTPChannel) Probe(ctx context.Context) error {
	if c.client == nil {
		return &NotConfiguredError{Reason: c.reason}
	}
	if err := c.client.DialWithContext(ctx); err != nil {
		return &DeliveryError{Message: "smtp server unreachable", Cause: err}
	}
	if err := c.client.Close(); err != nil {
		c.logger.Debug("smtp probe close failed", zap.Error(err))
	}
	return nil
}

// Send delivers a single plain-text message and returns a receipt on success.
func (c *SMTPChannel) Send(ctx context.Context, message types.EmailMessage) (*types.DeliveryReceipt, error) {
	if c.client == nil {
		return nil, &NotConfiguredError{Reason: c.reason}
	}

	msg := mail.NewMsg()
	if err := msg.From(c.cfg.From); err != nil {
		return nil, &DeliveryError{Message: "invalid sender address", Cause: err}
	}
	if err := msg.To(message.Recipient); err != nil {
		return nil, &DeliveryError{Message: "invalid recipient address", Cause: err}
	}
	msg.Subject(message.Subject)
	msg.SetBodyString(mail.TypeTextPlain, message.Body)

	if err := c.client.DialAndSendWithContext(ctx, msg); err != nil {
		return nil, &DeliveryError{Message: "smtp send failed", Cause: err}
	}

	receipt := &types.DeliveryReceipt{
		ID:         uuid.NewString(),
		Recipient:  message.Recipient,
		Subject:    message.Subject,
		Host:       c.cfg.Host,
		AcceptedAt: time.Now().UTC().Format(time.RFC3339),
	}
	c.logger.Info("email accepted",
		zap.String("id", receipt.ID),
		zap.String("recipient", receipt.Recipient),
	)
	return receipt, nil
}
