package jwt

import (
	"errors"
	"strconv"
	"time"

	libJWT "github.com/golang-jwt/jwt/v5"
)

// Symmetric implements JWT signing and verification using an HMAC secret.
type Symmetric struct {
	secret           []byte
	issuer           string
	audiences        []string
	sessionTTL       time.Duration
	phoneVerifiedTTL time.Duration
	clock            clocker
	uuid             generator
}

// NewHS512 constructs a Symmetric JWT implementation using HS512.
//
// Key length is checked here so a misconfigured signing secret fails at
// process startup rather than on the first request.
func NewHS512(cfg Config) (*Symmetric, error) {
	if len(cfg.Secret) < 64 {
		return nil, ErrSigningKeyTooShort
	}

	return &Symmetric{
		secret:           cfg.Secret,
		issuer:           cfg.Issuer,
		audiences:        cfg.Audiences,
		sessionTTL:       cfg.SessionTTL,
		phoneVerifiedTTL: cfg.PhoneVerifiedTTL,
		clock:            cfg.Clock,
		uuid:             cfg.UUID,
	}, nil
}

// GenerateSession creates a signed session credential for the user.
func (s *Symmetric) GenerateSession(userID int64, phone string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(strconv.FormatInt(userID, 10), s.sessionTTL),
		UserID:           userID,
		Phone:            phone,
		Scope:            ScopeSession,
	})
}

// VerifySession parses and validates a session token.
func (s *Symmetric) VerifySession(tokenStr string) (Claims, error) {
	claims, err := s.verify(tokenStr)
	if err != nil {
		return Claims{}, err
	}
	if claims.Scope != ScopeSession {
		return Claims{}, ErrInvalidToken
	}
	return claims, nil
}

// GeneratePhoneVerified creates a short-lived phone-ownership assertion.
func (s *Symmetric) GeneratePhoneVerified(phone string) (string, error) {
	return s.sign(Claims{
		RegisteredClaims: s.registered(phone, s.phoneVerifiedTTL),
		Phone:            phone,
		Scope:            ScopePhoneVerified,
	})
}

// VerifyPhoneVerified validates a phone-verified assertion and returns the
// phone it was issued for.
func (s *Symmetric) VerifyPhoneVerified(tokenStr string) (string, error) {
	claims, err := s.verify(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Scope != ScopePhoneVerified || claims.Phone == "" {
		return "", ErrInvalidToken
	}
	return claims.Phone, nil
}

func (s *Symmetric) registered(subject string, ttl time.Duration) libJWT.RegisteredClaims {
	now := s.clock.Now()

	return libJWT.RegisteredClaims{
		ID:        s.uuid.Generate(),
		Subject:   subject,
		Issuer:    s.issuer,
		Audience:  s.audiences,
		IssuedAt:  libJWT.NewNumericDate(now),
		NotBefore: libJWT.NewNumericDate(now),
		ExpiresAt: libJWT.NewNumericDate(now.Add(ttl)),
	}
}

func (s *Symmetric) sign(claims Claims) (string, error) {
	return libJWT.NewWithClaims(libJWT.SigningMethodHS512, claims).SignedString(s.secret)
}

func (s *Symmetric) verify(tokenStr string) (Claims, error) {
	var claims Claims

	token, err := libJWT.ParseWithClaims(tokenStr, &claims,
		func(t *libJWT.Token) (any, error) {
			if t.Method != libJWT.SigningMethodHS512 {
				return nil, ErrInvalidSigningMethod
			}
			return s.secret, nil
		},
		libJWT.WithIssuer(s.issuer),
		libJWT.WithAudience(s.audiences...),
		libJWT.WithValidMethods([]string{libJWT.SigningMethodHS512.Alg()}),
		libJWT.WithIssuedAt(),
		libJWT.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, libJWT.ErrTokenExpired) {
			return Claims{}, ErrTokenExpired
		}
		return Claims{}, err
	}

	if !token.Valid {
		return Claims{}, ErrInvalidToken
	}

	return claims, nil
}
