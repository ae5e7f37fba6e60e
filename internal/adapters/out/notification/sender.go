// Package notification sends order-status notifications to purchasers. The
// channel is picked per customer loyalty tier; actual delivery providers live
// outside this repo, so the default senders write structured log records.
package notification

import (
	"context"
	"log/slog"

	"orderflow/internal/core/domain/model/customer"
)

// Recipient identifies who a notification goes to.
type Recipient struct {
	Name  string
	Email string
	Phone string
}

// Message is a channel-agnostic notification payload.
type Message struct {
	Subject string
	Body    string
}

// Sender delivers one message over one channel.
type Sender interface {
	Send(ctx context.Context, recipient Recipient, message Message) error
}

// SenderFactory resolves the delivery channel for a loyalty tier.
type SenderFactory interface {
	SenderFor(tier customer.Tier) Sender
}

// LogSender is the default Sender. It records the notification instead of
// delivering it, which keeps the pipeline observable without external
// providers.
type LogSender struct {
	logger  *slog.Logger
	channel string
}

// NewLogSender creates a log-backed sender for the named channel.
func NewLogSender(logger *slog.Logger, channel string) *LogSender {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogSender{
		logger:  logger.With(slog.String("component", "notification")),
		channel: channel,
	}
}

// Send logs the notification.
func (s *LogSender) Send(_ context.Context, recipient Recipient, message Message) error {
	s.logger.Info("notification sent",
		slog.String("channel", s.channel),
		slog.String("recipient", recipient.Name),
		slog.String("subject", message.Subject),
	)
	return nil
}

// TierSenderFactory routes Gold and Platinum customers to the SMS channel
// and everyone else to email.
type TierSenderFactory struct {
	email Sender
	sms   Sender
}

// NewTierSenderFactory creates a factory over the two channel senders.
func NewTierSenderFactory(email, sms Sender) *TierSenderFactory {
	return &TierSenderFactory{email: email, sms: sms}
}

// SenderFor picks the channel for a tier.
func (f *TierSenderFactory) SenderFor(tier customer.Tier) Sender {
	if tier >= customer.Gold {
		return f.sms
	}
	return f.email
}

var _ SenderFactory = (*TierSenderFactory)(nil)
