// Package otpstore provides storage backends for pending OTP challenges.
package otpstore

import (
	"context"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
)

// Store is the challenge storage contract shared by the backends.
type Store interface {
	// Put saves the pending challenge for a phone number, replacing any
	// previous one.
	Put(ctx context.Context, phone string, rec entity.OTPRecord) error
	// Take removes and returns the pending challenge for a phone number.
	Take(ctx context.Context, phone string) (*entity.OTPRecord, error)
	// AcquireCooldown reports whether a new OTP may be issued for the phone
	// number and starts the cooldown window when it may.
	AcquireCooldown(ctx context.Context, phone string, ttl time.Duration) (bool, error)
}
