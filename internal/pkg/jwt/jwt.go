package jwt

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidSigningMethod is returned when the JWT signing method is not supported.
	ErrInvalidSigningMethod = errors.New("invalid JWT signing method")

	// ErrSigningKeyTooShort is returned when the HS512 signing key is less than 64 bytes.
	ErrSigningKeyTooShort = errors.New("HS512 signing key must be at least 64 bytes (512 bits)")

	// ErrTokenExpired is returned when the JWT token has expired.
	ErrTokenExpired = errors.New("JWT token has expired")

	// ErrInvalidToken is returned when the token is malformed, fails validation,
	// or carries the wrong scope for the requested check.
	ErrInvalidToken = errors.New("invalid token")
)

// Token scopes. A session token asserts an authenticated user; a
// phone-verified token asserts only that its subject phone passed an OTP
// check and may complete registration.
const (
	ScopeSession       = "session"
	ScopePhoneVerified = "phone_verified"
)

// JWT defines the token operations needed by the auth flows.
type JWT interface {
	// GenerateSession creates a signed session credential for the user.
	GenerateSession(userID int64, phone string) (string, error)
	// VerifySession parses and validates a session token and returns claims.
	VerifySession(tokenStr string) (Claims, error)
	// GeneratePhoneVerified creates a short-lived assertion that phone
	// ownership was just proven via OTP.
	GeneratePhoneVerified(phone string) (string, error)
	// VerifyPhoneVerified validates a phone-verified assertion and returns
	// the phone number it was issued for.
	VerifyPhoneVerified(tokenStr string) (string, error)
}

type clocker interface {
	Now() time.Time
}

type generator interface {
	Generate() string
}

type jwtContextKey struct{}

// Config defines the inputs for building a JWT implementation.
type Config struct {
	// Secret is the HMAC signing key.
	Secret []byte
	// Issuer is the token issuer value.
	Issuer string
	// Audiences are the accepted token audiences.
	Audiences []string
	// SessionTTL is the session credential time-to-live.
	SessionTTL time.Duration
	// PhoneVerifiedTTL is the registration assertion time-to-live.
	PhoneVerifiedTTL time.Duration
	// Clock provides the current time source.
	Clock clocker
	// UUID generates token IDs.
	UUID generator
}

// Claims wraps registered claims with the auth payload.
type Claims struct {
	// RegisteredClaims holds the standard JWT claims.
	jwt.RegisteredClaims
	// UserID is the authenticated user identifier. Zero for
	// phone-verified assertions, which precede user creation.
	UserID int64 `json:"user_id,string,omitempty"`
	// Phone is the E.164 phone number bound to the token.
	Phone string `json:"phone"`
	// Scope distinguishes session credentials from registration assertions.
	Scope string `json:"scope"`
}

// GetAuth returns the JWT claims stored in the context, if any.
func GetAuth(ctx context.Context) *Claims {
	clm, ok := ctx.Value(jwtContextKey{}).(Claims)
	if !ok {
		return nil
	}
	return &clm
}

// SetAuth stores JWT claims in the context.
func SetAuth(ctx context.Context, clm Claims) context.Context {
	return context.WithValue(ctx, jwtContextKey{}, clm)
}
