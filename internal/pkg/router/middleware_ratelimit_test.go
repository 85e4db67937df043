package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shandysiswandi/otpgate/internal/pkg/config"
)

func newRateLimitConfig(t *testing.T, yaml string) config.Config {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	if err != nil {
		t.Fatalf("NewViperFromBytes() error = %v", err)
	}

	return cfg
}

func TestMiddlewareRateLimitPerIP(t *testing.T) {
	cfg := newRateLimitConfig(t, `
app:
  server:
    rate_limit:
      enabled: true
      rps: 1
      burst: 2
`)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewareRateLimit(cfg)(next)

	doRequest := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", nil)
		req.RemoteAddr = ip
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec.Code
	}

	for i := range 2 {
		if code := doRequest("10.0.0.1"); code != http.StatusOK {
			t.Fatalf("request %d status = %d, want %d", i+1, code, http.StatusOK)
		}
	}

	if code := doRequest("10.0.0.1"); code != http.StatusTooManyRequests {
		t.Errorf("burst exceeded status = %d, want %d", code, http.StatusTooManyRequests)
	}

	if code := doRequest("10.0.0.2"); code != http.StatusOK {
		t.Errorf("other client status = %d, want %d", code, http.StatusOK)
	}
}

func TestMiddlewareRateLimitDisabled(t *testing.T) {
	cfg := newRateLimitConfig(t, `
app:
  server:
    rate_limit:
      enabled: false
`)

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middlewareRateLimit(cfg)(next)

	for range 5 {
		req := httptest.NewRequest(http.MethodPost, "/auth/send-otp", nil)
		req.RemoteAddr = "10.0.0.1"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	}
}
