// Package sms defines the contracts for sending short text messages.
//
// The main purpose is to keep the rest of the application independent from a
// specific messaging provider. Handlers and use cases work with the SMS
// interface and Message payload; the concrete delivery mechanism (Twilio,
// log-only, etc) is implemented elsewhere in this package.
package sms
