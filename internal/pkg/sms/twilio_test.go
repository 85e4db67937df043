package sms

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewTwilioRequiresCredentials(t *testing.T) {
	// Arrange
	cfg := TwilioConfig{}

	// Act
	_, err := NewTwilio(cfg)

	// Assert
	if err == nil {
		t.Fatal("expected error for missing credentials, got nil")
	}
}

func TestTwilioSend(t *testing.T) {
	// Arrange
	var gotTo, gotFrom, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/2010-04-01/Accounts/AC123/Messages.json" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "AC123" || pass != "secret" {
			t.Errorf("unexpected basic auth: %s %s", user, pass)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		gotTo = r.PostForm.Get("To")
		gotFrom = r.PostForm.Get("From")
		gotBody = r.PostForm.Get("Body")
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	tw, err := NewTwilio(TwilioConfig{
		AccountSID: "AC123",
		AuthToken:  "secret",
		From:       "+15550001111",
		WhatsApp:   true,
		BaseURL:    srv.URL,
	})
	if err != nil {
		t.Fatalf("NewTwilio: %v", err)
	}

	// Act
	err = tw.Send(context.Background(), Message{To: "+6281234567890", Body: "Your code is 123456"})

	// Assert
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	if gotTo != "whatsapp:+6281234567890" {
		t.Errorf("To = %q", gotTo)
	}
	if gotFrom != "whatsapp:+15550001111" {
		t.Errorf("From = %q", gotFrom)
	}
	if gotBody != "Your code is 123456" {
		t.Errorf("Body = %q", gotBody)
	}
}

func TestTwilioSendProviderError(t *testing.T) {
	// Arrange
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	tw, err := NewTwilio(TwilioConfig{AccountSID: "AC123", AuthToken: "bad", From: "+15550001111", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewTwilio: %v", err)
	}

	// Act
	err = tw.Send(context.Background(), Message{To: "+6281234567890", Body: "hi"})

	// Assert
	if err == nil {
		t.Fatal("expected provider error, got nil")
	}
}

func TestTwilioSendRequiresRecipient(t *testing.T) {
	// Arrange
	tw, err := NewTwilio(TwilioConfig{AccountSID: "AC123", AuthToken: "secret", From: "+15550001111"})
	if err != nil {
		t.Fatalf("NewTwilio: %v", err)
	}

	// Act
	err = tw.Send(context.Background(), Message{Body: "hi"})

	// Assert
	if err != ErrTwilioNoRecipient {
		t.Fatalf("expected ErrTwilioNoRecipient, got %v", err)
	}
}
