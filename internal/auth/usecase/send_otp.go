package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

const otpDigits = 6

var otpMax = big.NewInt(1_000_000)

type SendOTPInput struct {
	Phone string `validate:"required,e164"`
}

// SendOTP generates a one-time password for the phone number, delivers it by
// SMS, and stores its hash for later verification.
//
// The SMS is dispatched before anything is stored, so a failed delivery leaves
// no pending challenge behind.
func (s *Usecase) SendOTP(ctx context.Context, in SendOTPInput) error {
	ctx, span := s.startSpan(ctx, "SendOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return goerror.NewInvalidInput(err)
	}

	cooldown := s.cfg.GetSecond("modules.auth.otp_cooldown_seconds")
	acquired, err := s.otpStore.AcquireCooldown(ctx, in.Phone, cooldown)
	if err != nil {
		slog.ErrorContext(ctx, "failed to acquire otp cooldown", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}
	if !acquired {
		slog.WarnContext(ctx, "otp requested during cooldown", "phone", in.Phone)
		return goerror.NewBusiness("Please wait before requesting another OTP.", goerror.CodeTooManyRequest)
	}

	code, err := s.generateOTP()
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate otp code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.smsSender.SendOTP(ctx, in.Phone, code); err != nil {
		slog.ErrorContext(ctx, "failed to send otp sms", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}

	codeHash, err := s.bcrypt.Hash(code)
	if err != nil {
		slog.ErrorContext(ctx, "failed to hash otp code", "error", err)
		return goerror.NewServer(err)
	}

	if err := s.otpStore.Put(ctx, in.Phone, entity.OTPRecord{
		CodeHash:  string(codeHash),
		ExpiresAt: s.clock.Now().Add(s.cfg.GetMinute("modules.auth.otp_ttl_minutes")),
	}); err != nil {
		slog.ErrorContext(ctx, "failed to store otp record", "phone", in.Phone, "error", err)
		return goerror.NewServer(err)
	}

	return nil
}

func (s *Usecase) generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpMax)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", otpDigits, n.Int64()), nil
}
