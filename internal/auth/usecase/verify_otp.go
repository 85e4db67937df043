package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type VerifyOTPInput struct {
	Phone string `validate:"required,e164"`
	OTP   string `validate:"required,len=6,numeric"`
}

type VerifyOTPOutput struct {
	IsNewUser bool
	// Token is a session token, set when the phone belongs to an existing user.
	Token string
	User  *entity.User
	// RegistrationToken proves phone ownership to the register endpoint, set
	// when no account exists yet.
	RegistrationToken string
}

// VerifyOTP checks a submitted code against the pending challenge for the
// phone number.
//
// The challenge is consumed before the hash comparison, so every code allows
// exactly one attempt. A missing, expired, or mismatched code produces the
// same rejection.
func (s *Usecase) VerifyOTP(ctx context.Context, in VerifyOTPInput) (*VerifyOTPOutput, error) {
	ctx, span := s.startSpan(ctx, "VerifyOTP")
	defer span.End()

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	rec, err := s.otpStore.Take(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "no pending otp for phone", "phone", in.Phone)
		return nil, goerror.NewBusiness("OTP expired or invalid.", goerror.CodeRejected)
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to take otp record", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if s.clock.Now().After(rec.ExpiresAt) {
		slog.WarnContext(ctx, "otp expired", "phone", in.Phone)
		return nil, goerror.NewBusiness("OTP expired or invalid.", goerror.CodeRejected)
	}

	if !s.bcrypt.Verify(rec.CodeHash, in.OTP) {
		slog.WarnContext(ctx, "otp code mismatch", "phone", in.Phone)
		return nil, goerror.NewBusiness("OTP expired or invalid.", goerror.CodeRejected)
	}

	user, err := s.repoDB.GetUserByPhone(ctx, in.Phone)
	if errors.Is(err, goerror.ErrNotFound) {
		regToken, err := s.jwt.GeneratePhoneVerified(in.Phone)
		if err != nil {
			slog.ErrorContext(ctx, "failed to generate registration token", "phone", in.Phone, "error", err)
			return nil, goerror.NewServer(err)
		}

		return &VerifyOTPOutput{
			IsNewUser:         true,
			RegistrationToken: regToken,
		}, nil
	}
	if err != nil {
		slog.ErrorContext(ctx, "failed to repo get user by phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	token, err := s.jwt.GenerateSession(user.ID, user.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &VerifyOTPOutput{
		IsNewUser: false,
		Token:     token,
		User:      user,
	}, nil
}
