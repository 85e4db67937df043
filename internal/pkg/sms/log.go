package sms

import (
	"context"
	"log/slog"
)

// Log is an SMS implementation that only logs messages, for local development.
type Log struct{}

// NewLog constructs a log-only message sender.
func NewLog() *Log {
	return &Log{}
}

// Send logs the message instead of delivering it.
func (l *Log) Send(ctx context.Context, msg Message) error {
	slog.InfoContext(ctx, "sms message (log driver)", "to", msg.To, "body", msg.Body)
	return nil
}

// Close implements io.Closer for interface compatibility.
func (l *Log) Close() error {
	return nil
}
