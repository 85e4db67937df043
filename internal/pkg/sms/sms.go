package sms

import (
	"context"
	"errors"
	"io"
)

// ErrUnknownDriver is returned when the configured driver is not supported.
var ErrUnknownDriver = errors.New("unknown sms driver")

// Message represents a short text message payload.
//
// Fields are intentionally provider-agnostic so they can be sent using Twilio
// or other delivery mechanisms.
type Message struct {
	// From is an optional explicit sender; fallback depends on implementation.
	From string
	// To is the recipient phone number in E.164 format.
	To string
	// Body is the message text.
	Body string
}

// SMS abstracts a short message provider (Twilio, third-party API, etc).
type SMS interface {
	io.Closer
	// Send dispatches the given message using the underlying provider.
	Send(ctx context.Context, msg Message) error
}

// DriverConfig configures the sender built by NewFromDriver.
type DriverConfig struct {
	// Driver selects the implementation, one of "twilio" or "log".
	Driver string
	// Twilio holds provider settings used when Driver is "twilio".
	Twilio TwilioConfig
}

// NewFromDriver builds an SMS sender based on the configured driver.
func NewFromDriver(cfg DriverConfig) (SMS, error) {
	switch cfg.Driver {
	case "twilio":
		return NewTwilio(cfg.Twilio)
	case "log":
		return NewLog(), nil
	default:
		return nil, ErrUnknownDriver
	}
}
