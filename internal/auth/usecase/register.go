package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
)

type RegisterInput struct {
	Name              string `validate:"required,min=2,max=100,alphaspace"`
	Email             string `validate:"required,email"`
	Phone             string `validate:"required,e164"`
	RegistrationToken string `validate:"required"`
}

type RegisterOutput struct {
	Token string
	User  *entity.User
}

// Register creates an account for a phone number that completed OTP
// verification.
//
// The registration token must carry the same phone number as the request; a
// missing or mismatched token is rejected before any storage access.
func (s *Usecase) Register(ctx context.Context, in RegisterInput) (*RegisterOutput, error) {
	ctx, span := s.startSpan(ctx, "Register")
	defer span.End()

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if err := s.validator.Validate(in); err != nil {
		return nil, goerror.NewInvalidInput(err)
	}

	phone, err := s.jwt.VerifyPhoneVerified(in.RegistrationToken)
	if err != nil || phone != in.Phone {
		slog.WarnContext(ctx, "registration token rejected", "phone", in.Phone, "error", err)
		return nil, goerror.NewBusiness("Phone verification required.", goerror.CodeUnauthorized)
	}

	if _, err := s.repoDB.GetUserByEmailOrPhone(ctx, in.Email, in.Phone); err == nil {
		return nil, goerror.NewBusiness("User already exists.", goerror.CodeConflict)
	} else if !errors.Is(err, goerror.ErrNotFound) {
		slog.ErrorContext(ctx, "failed to repo get user by email or phone", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	user := entity.User{
		ID:        s.uid.Generate(),
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		CreatedAt: s.clock.Now(),
	}

	if err := s.repoDB.CreateUser(ctx, user); err != nil {
		if errors.Is(err, goerror.ErrConflict) {
			return nil, goerror.NewBusiness("User already exists.", goerror.CodeConflict)
		}
		slog.ErrorContext(ctx, "failed to repo create user", "phone", in.Phone, "error", err)
		return nil, goerror.NewServer(err)
	}

	if err := s.repoMessaging.PublishUserRegistered(ctx, UserRegisteredEvent{
		UserID: user.ID,
		Name:   user.Name,
		Email:  user.Email,
		Phone:  user.Phone,
	}); err != nil {
		slog.ErrorContext(ctx, "failed to publish user registered", "user_id", user.ID, "error", err)
	}

	token, err := s.jwt.GenerateSession(user.ID, user.Phone)
	if err != nil {
		slog.ErrorContext(ctx, "failed to generate session token", "user_id", user.ID, "error", err)
		return nil, goerror.NewServer(err)
	}

	return &RegisterOutput{
		Token: token,
		User:  &user,
	}, nil
}
