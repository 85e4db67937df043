package usecase

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"go.opentelemetry.io/otel/trace"
)

// UserRegisteredEvent is published after a new account is created.
type UserRegisteredEvent struct {
	UserID int64
	Name   string
	Email  string
	Phone  string
}

type repoMessaging interface {
	PublishUserRegistered(ctx context.Context, msg UserRegisteredEvent) error
}

type repoDB interface {
	GetUserByPhone(ctx context.Context, phone string) (*entity.User, error)
	GetUserByEmailOrPhone(ctx context.Context, email, phone string) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.User) error
}

// otpStore keeps pending OTP challenges keyed by phone number.
//
// Take removes the record it returns, so a code can be checked at most once.
type otpStore interface {
	Put(ctx context.Context, phone string, rec entity.OTPRecord) error
	Take(ctx context.Context, phone string) (*entity.OTPRecord, error)
	AcquireCooldown(ctx context.Context, phone string, ttl time.Duration) (bool, error)
}

type smsSender interface {
	SendOTP(ctx context.Context, phone, code string) error
}

type Usecase struct {
	repoDB        repoDB
	repoMessaging repoMessaging
	otpStore      otpStore
	smsSender     smsSender
	validator     validator.Validator
	cfg           config.Config
	bcrypt        hash.Hash
	uid           uid.NumberID
	clock         clock.Clocker
	jwt           jwt.JWT
	ins           instrument.Instrumentation
	goroutine     *goroutine.Manager
}

type Dependency struct {
	RepoDB        repoDB
	RepoMessaging repoMessaging
	OTPStore      otpStore
	SMSSender     smsSender
	Validator     validator.Validator
	Config        config.Config
	Bcrypt        hash.Hash
	UID           uid.NumberID
	Clock         clock.Clocker
	JWT           jwt.JWT
	Instrument    instrument.Instrumentation
	Goroutine     *goroutine.Manager
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:        dep.RepoDB,
		repoMessaging: dep.RepoMessaging,
		otpStore:      dep.OTPStore,
		smsSender:     dep.SMSSender,
		validator:     dep.Validator,
		cfg:           dep.Config,
		bcrypt:        dep.Bcrypt,
		uid:           dep.UID,
		clock:         dep.Clock,
		jwt:           dep.JWT,
		ins:           dep.Instrument,
		goroutine:     dep.Goroutine,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("auth.usecase").Start(ctx, name)
}
