package email

import (
	"context"
	"log/slog"
)

// NoopSender stands in when no provider is configured. Sends are
// logged and dropped, so registration works on a bare laptop.
type NoopSender struct{}

func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

func (s *NoopSender) Send(_ context.Context, msg Message) error {
	slog.Info("noop_email_send", "to", msg.To, "subject", msg.Subject)
	return nil
}
