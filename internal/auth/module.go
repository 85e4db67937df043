package auth

import (
	"fmt"
	"io"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth/inbound"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/db"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/mq"
	"github.com/shandysiswandi/otpgate/internal/auth/outbound/otpstore"
	smsout "github.com/shandysiswandi/otpgate/internal/auth/outbound/sms"
	"github.com/shandysiswandi/otpgate/internal/auth/usecase"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/messaging"
	"github.com/shandysiswandi/otpgate/internal/pkg/router"
	"github.com/shandysiswandi/otpgate/internal/pkg/sms"
	"github.com/shandysiswandi/otpgate/internal/pkg/uid"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

type Dependency struct {
	DBConn     *pgxpool.Pool              `validate:"required"`
	CacheConn  *redis.Client
	Goroutine  *goroutine.Manager         `validate:"required"`
	Router     *router.Router             `validate:"required"`
	Messaging  messaging.Messaging        `validate:"required"`
	SMS        sms.SMS                    `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	Bcrypt     hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
	JWT        jwt.JWT                    `validate:"required"`
}

type noopCloser struct{}

func (noopCloser) Close() error { return nil }

// New wires the auth module and registers its HTTP endpoints. The returned
// closer stops module-owned background work.
func New(dep Dependency) (io.Closer, error) {
	if err := dep.Validator.Validate(dep); err != nil {
		return nil, err
	}

	var store otpstore.Store
	var closer io.Closer = noopCloser{}

	switch driver := dep.Config.GetString("modules.auth.otp_store_driver"); driver {
	case "redis":
		if dep.CacheConn == nil {
			return nil, fmt.Errorf("auth: otp store driver %q requires a cache connection", driver)
		}
		store = otpstore.NewRedis(dep.CacheConn, dep.Clock, dep.Instrument)
	case "memory":
		mem := otpstore.NewMemory(dep.Clock, dep.Config.GetSecond("modules.auth.otp_sweep_interval_seconds"))
		store = mem
		closer = mem
	default:
		return nil, fmt.Errorf("auth: unknown otp store driver %q", driver)
	}

	dbAuth := db.NewDB(dep.DBConn, dep.Instrument)
	repoMsg := mq.NewMessaging(dep.Messaging, dep.Instrument)
	sender := smsout.NewSMS(dep.SMS, dep.Config.GetSecond("modules.auth.sms_timeout_seconds"), dep.Instrument)

	uc := usecase.New(usecase.Dependency{
		RepoDB:        dbAuth,
		RepoMessaging: repoMsg,
		OTPStore:      store,
		SMSSender:     sender,
		Validator:     dep.Validator,
		Config:        dep.Config,
		Bcrypt:        dep.Bcrypt,
		UID:           dep.UID,
		Clock:         dep.Clock,
		JWT:           dep.JWT,
		Instrument:    dep.Instrument,
		Goroutine:     dep.Goroutine,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return closer, nil
}
