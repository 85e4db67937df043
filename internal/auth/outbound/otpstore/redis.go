package otpstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	otpKeyPrefix      = "auth:otp:"
	cooldownKeyPrefix = "auth:otp:cooldown:"
)

// Redis keeps pending OTP challenges in Redis.
//
// Records expire server-side through key TTLs, and Take uses GETDEL so a
// challenge can only be consumed once even across instances.
type Redis struct {
	client *redis.Client
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

func NewRedis(client *redis.Client, clk clock.Clocker, ins instrument.Instrumentation) *Redis {
	return &Redis{client: client, clock: clk, ins: ins}
}

func (r *Redis) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return r.ins.Tracer("auth.outbound.otpstore").Start(ctx, name)
}

func (r *Redis) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (r *Redis) Put(ctx context.Context, phone string, rec entity.OTPRecord) (err error) {
	ctx, span := r.startSpan(ctx, "Put")
	defer func() { r.endSpan(span, err) }()

	ttl := rec.ExpiresAt.Sub(r.clock.Now())
	if ttl <= 0 {
		return nil
	}

	body, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, otpKeyPrefix+phone, body, ttl).Err()
	return err
}

func (r *Redis) Take(ctx context.Context, phone string) (_ *entity.OTPRecord, err error) {
	ctx, span := r.startSpan(ctx, "Take")
	defer func() { r.endSpan(span, err) }()

	body, err := r.client.GetDel(ctx, otpKeyPrefix+phone).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var rec entity.OTPRecord
	if err = json.Unmarshal(body, &rec); err != nil {
		return nil, err
	}

	return &rec, nil
}

func (r *Redis) AcquireCooldown(ctx context.Context, phone string, ttl time.Duration) (_ bool, err error) {
	ctx, span := r.startSpan(ctx, "AcquireCooldown")
	defer func() { r.endSpan(span, err) }()

	if ttl <= 0 {
		return true, nil
	}

	return r.client.SetNX(ctx, cooldownKeyPrefix+phone, "1", ttl).Result()
}
