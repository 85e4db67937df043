package sms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrTwilioCredentialsRequired is returned when AccountSID/AuthToken are missing.
	ErrTwilioCredentialsRequired = errors.New("twilio account sid and auth token are required")
	// ErrTwilioNoRecipient is returned when Message.To is empty.
	ErrTwilioNoRecipient = errors.New("no recipient provided")
	// ErrTwilioNoSender is returned when both Message.From and the configured default From are empty.
	ErrTwilioNoSender = errors.New("no sender provided")
)

const defaultTwilioBaseURL = "https://api.twilio.com"

// Twilio is an SMS implementation backed by the Twilio Messages API.
type Twilio struct {
	accountSID  string
	authToken   string
	baseURL     string
	defaultFrom string
	whatsapp    bool
	client      *http.Client
}

// TwilioConfig configures the Twilio implementation.
type TwilioConfig struct {
	// AccountSID is the Twilio account identifier.
	AccountSID string
	// AuthToken is the Twilio API secret.
	AuthToken string
	// From is the default sender when Message.From is empty.
	From string
	// WhatsApp sends messages over the WhatsApp channel when true.
	WhatsApp bool
	// BaseURL overrides the API base URL, mostly for tests.
	BaseURL string
	// Timeout bounds each API call; defaults to 10 seconds.
	Timeout time.Duration
}

// NewTwilio constructs a Twilio message sender.
func NewTwilio(cfg TwilioConfig) (*Twilio, error) {
	if cfg.AccountSID == "" || cfg.AuthToken == "" {
		return nil, ErrTwilioCredentialsRequired
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultTwilioBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Twilio{
		accountSID:  cfg.AccountSID,
		authToken:   cfg.AuthToken,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		defaultFrom: cfg.From,
		whatsapp:    cfg.WhatsApp,
		client:      &http.Client{Timeout: timeout},
	}, nil
}

// Send delivers a message through the Twilio Messages API.
func (t *Twilio) Send(ctx context.Context, msg Message) error {
	if msg.To == "" {
		return ErrTwilioNoRecipient
	}

	from := msg.From
	if from == "" {
		from = t.defaultFrom
	}
	if from == "" {
		return ErrTwilioNoSender
	}

	form := url.Values{}
	form.Set("To", t.address(msg.To))
	form.Set("From", t.address(from))
	form.Set("Body", msg.Body)

	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", t.baseURL, t.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.accountSID, t.authToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		//nolint:err113 // carries the provider response for diagnosis
		return fmt.Errorf("twilio responded %d: %s", resp.StatusCode, string(body))
	}

	return nil
}

func (t *Twilio) address(number string) string {
	if !t.whatsapp || strings.HasPrefix(number, "whatsapp:") {
		return number
	}
	return "whatsapp:" + number
}

// Close implements io.Closer for interface compatibility.
func (t *Twilio) Close() error {
	t.client.CloseIdleConnections()
	return nil
}
