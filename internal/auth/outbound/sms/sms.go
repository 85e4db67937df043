package sms

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/sms"
	"go.opentelemetry.io/otel/codes"
)

// SMS adapts the provider-agnostic sender to the OTP dispatch contract.
type SMS struct {
	sender  sms.SMS
	timeout time.Duration
	ins     instrument.Instrumentation
}

// NewSMS wraps sender with tracing and a per-dispatch timeout.
func NewSMS(sender sms.SMS, timeout time.Duration, ins instrument.Instrumentation) *SMS {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &SMS{sender: sender, timeout: timeout, ins: ins}
}

// SendOTP delivers a verification code to the phone number.
func (s *SMS) SendOTP(ctx context.Context, phone, code string) error {
	ctx, span := s.ins.Tracer("auth.outbound.sms").Start(ctx, "SendOTP")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	err := s.sender.Send(ctx, sms.Message{
		To:   phone,
		Body: "Your verification code is " + code,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	return nil
}
