package jwt

import (
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeClock struct{ at time.Time }

func (c fakeClock) Now() time.Time { return c.at }

type fakeUUID struct{}

func (fakeUUID) Generate() string { return "test-token-id" }

func newTestJWT(t *testing.T, at time.Time) *Symmetric {
	t.Helper()

	s, err := NewHS512(Config{
		Secret:           []byte(strings.Repeat("s", 64)),
		Issuer:           "otpgate",
		Audiences:        []string{"otpgate-clients"},
		SessionTTL:       24 * time.Hour,
		PhoneVerifiedTTL: 15 * time.Minute,
		Clock:            fakeClock{at: at},
		UUID:             fakeUUID{},
	})
	if err != nil {
		t.Fatalf("new hs512: %v", err)
	}
	return s
}

func TestNewHS512RejectsShortKey(t *testing.T) {
	_, err := NewHS512(Config{Secret: []byte("short")})
	if !errors.Is(err, ErrSigningKeyTooShort) {
		t.Fatalf("expected ErrSigningKeyTooShort, got %v", err)
	}
}

func TestSessionRoundTrip(t *testing.T) {
	s := newTestJWT(t, time.Now())

	token, err := s.GenerateSession(42, "+919876543210")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := s.VerifySession(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("user id = %d, want 42", claims.UserID)
	}
	if claims.Phone != "+919876543210" {
		t.Errorf("phone = %q", claims.Phone)
	}
}

func TestSessionExpired(t *testing.T) {
	s := newTestJWT(t, time.Now().Add(-48*time.Hour))

	token, err := s.GenerateSession(1, "+15550001111")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	if _, err := s.VerifySession(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestPhoneVerifiedRoundTrip(t *testing.T) {
	s := newTestJWT(t, time.Now())

	token, err := s.GeneratePhoneVerified("+15550001111")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	phone, err := s.VerifyPhoneVerified(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if phone != "+15550001111" {
		t.Errorf("phone = %q", phone)
	}
}

func TestScopesDoNotCross(t *testing.T) {
	s := newTestJWT(t, time.Now())

	assertion, err := s.GeneratePhoneVerified("+15550001111")
	if err != nil {
		t.Fatalf("generate assertion: %v", err)
	}
	if _, err := s.VerifySession(assertion); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("assertion must not pass as session, got %v", err)
	}

	session, err := s.GenerateSession(7, "+15550001111")
	if err != nil {
		t.Fatalf("generate session: %v", err)
	}
	if _, err := s.VerifyPhoneVerified(session); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("session must not pass as assertion, got %v", err)
	}
}
