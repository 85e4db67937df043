package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/auth/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

var errBoom = errors.New("boom")

type fakeDB struct {
	usersByPhone map[string]*entity.User
	emailTaken   map[string]bool
	createErr    error
	created      []entity.User
}

func (f *fakeDB) GetUserByPhone(_ context.Context, phone string) (*entity.User, error) {
	if u, ok := f.usersByPhone[phone]; ok {
		return u, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) GetUserByEmailOrPhone(_ context.Context, email, phone string) (*entity.User, error) {
	if u, ok := f.usersByPhone[phone]; ok {
		return u, nil
	}
	if f.emailTaken[email] {
		return &entity.User{Email: email}, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeDB) CreateUser(_ context.Context, user entity.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, user)
	return nil
}

type fakeStore struct {
	records   map[string]entity.OTPRecord
	putErr    error
	takeErr   error
	cooldowns map[string]bool
	denied    bool
}

func (f *fakeStore) Put(_ context.Context, phone string, rec entity.OTPRecord) error {
	if f.putErr != nil {
		return f.putErr
	}
	if f.records == nil {
		f.records = map[string]entity.OTPRecord{}
	}
	f.records[phone] = rec
	return nil
}

func (f *fakeStore) Take(_ context.Context, phone string) (*entity.OTPRecord, error) {
	if f.takeErr != nil {
		return nil, f.takeErr
	}
	rec, ok := f.records[phone]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	delete(f.records, phone)
	return &rec, nil
}

func (f *fakeStore) AcquireCooldown(_ context.Context, phone string, _ time.Duration) (bool, error) {
	if f.denied {
		return false, nil
	}
	if f.cooldowns == nil {
		f.cooldowns = map[string]bool{}
	}
	f.cooldowns[phone] = true
	return true, nil
}

type sentSMS struct {
	phone string
	code  string
}

type fakeSMS struct {
	sent []sentSMS
	err  error
}

func (f *fakeSMS) SendOTP(_ context.Context, phone, code string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentSMS{phone: phone, code: code})
	return nil
}

type fakeMQ struct {
	events []UserRegisteredEvent
	err    error
}

func (f *fakeMQ) PublishUserRegistered(_ context.Context, msg UserRegisteredEvent) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, msg)
	return nil
}

type fakeJWT struct {
	phoneVerifiedFor string
	verifyErr        error
}

func (f *fakeJWT) GenerateSession(userID int64, phone string) (string, error) {
	return "session-token", nil
}

func (f *fakeJWT) VerifySession(string) (jwt.Claims, error) {
	return jwt.Claims{}, nil
}

func (f *fakeJWT) GeneratePhoneVerified(phone string) (string, error) {
	return "reg-token-" + phone, nil
}

func (f *fakeJWT) VerifyPhoneVerified(tokenStr string) (string, error) {
	if f.verifyErr != nil {
		return "", f.verifyErr
	}
	return f.phoneVerifiedFor, nil
}

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	return f.now
}

type fakeUID struct {
	next int64
}

func (f *fakeUID) Generate() int64 {
	f.next++
	return f.next
}

const testConfigYAML = `
modules:
  auth:
    otp_cooldown_seconds: 60
    otp_ttl_minutes: 10
`

type ucFixture struct {
	uc    *Usecase
	db    *fakeDB
	store *fakeStore
	sms   *fakeSMS
	mq    *fakeMQ
	jwt   *fakeJWT
	clock *fakeClock
}

func newFixture(t *testing.T) *ucFixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	fx := &ucFixture{
		db:    &fakeDB{usersByPhone: map[string]*entity.User{}, emailTaken: map[string]bool{}},
		store: &fakeStore{},
		sms:   &fakeSMS{},
		mq:    &fakeMQ{},
		jwt:   &fakeJWT{},
		clock: &fakeClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)},
	}

	fx.uc = New(Dependency{
		RepoDB:        fx.db,
		RepoMessaging: fx.mq,
		OTPStore:      fx.store,
		SMSSender:     fx.sms,
		Validator:     v10,
		Config:        cfg,
		Bcrypt:        hash.NewBcrypt(4, ""),
		UID:           &fakeUID{next: 100},
		Clock:         fx.clock,
		JWT:           fx.jwt,
		Instrument:    instrument.NewNoop(),
	})

	return fx
}

func TestSendOTPStoresHashedCode(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	in := SendOTPInput{Phone: "+6281234567890"}

	// Act
	err := fx.uc.SendOTP(context.Background(), in)

	// Assert
	if err != nil {
		t.Fatalf("SendOTP: %v", err)
	}
	if len(fx.sms.sent) != 1 {
		t.Fatalf("expected 1 sms, got %d", len(fx.sms.sent))
	}
	code := fx.sms.sent[0].code
	if len(code) != 6 {
		t.Errorf("code length = %d, want 6", len(code))
	}
	rec, ok := fx.store.records[in.Phone]
	if !ok {
		t.Fatal("expected otp record stored")
	}
	if rec.CodeHash == code {
		t.Error("code stored in plain text")
	}
	if !hash.NewBcrypt(4, "").Verify(rec.CodeHash, code) {
		t.Error("stored hash does not match sent code")
	}
	wantExpiry := fx.clock.now.Add(10 * time.Minute)
	if !rec.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("ExpiresAt = %v, want %v", rec.ExpiresAt, wantExpiry)
	}
}

func TestSendOTPRejectsInvalidPhone(t *testing.T) {
	// Arrange
	fx := newFixture(t)

	// Act
	err := fx.uc.SendOTP(context.Background(), SendOTPInput{Phone: "081234"})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInvalidInput {
		t.Fatalf("expected invalid input error, got %v", err)
	}
	if len(fx.sms.sent) != 0 {
		t.Error("no sms should be sent for invalid phone")
	}
}

func TestSendOTPCooldownActive(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	fx.store.denied = true

	// Act
	err := fx.uc.SendOTP(context.Background(), SendOTPInput{Phone: "+6281234567890"})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeTooManyRequest {
		t.Fatalf("expected too many requests error, got %v", err)
	}
	if len(fx.sms.sent) != 0 {
		t.Error("no sms should be sent during cooldown")
	}
}

func TestSendOTPDispatchFailureStoresNothing(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	fx.sms.err = errBoom

	// Act
	err := fx.uc.SendOTP(context.Background(), SendOTPInput{Phone: "+6281234567890"})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeInternal {
		t.Fatalf("expected server error, got %v", err)
	}
	if len(fx.store.records) != 0 {
		t.Error("failed dispatch must not leave a pending otp")
	}
}

func putOTP(t *testing.T, fx *ucFixture, phone, code string, expiresAt time.Time) {
	t.Helper()
	h, err := hash.NewBcrypt(4, "").Hash(code)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := fx.store.Put(context.Background(), phone, entity.OTPRecord{
		CodeHash:  string(h),
		ExpiresAt: expiresAt,
	}); err != nil {
		t.Fatalf("put: %v", err)
	}
}

func TestVerifyOTPExistingUser(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.db.usersByPhone[phone] = &entity.User{ID: 7, Name: "Jane Doe", Email: "jane@example.com", Phone: phone}
	putOTP(t, fx, phone, "123456", fx.clock.now.Add(10*time.Minute))

	// Act
	out, err := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "123456"})

	// Assert
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if out.IsNewUser {
		t.Error("IsNewUser = true for existing user")
	}
	if out.Token != "session-token" {
		t.Errorf("Token = %q", out.Token)
	}
	if out.User == nil || out.User.ID != 7 {
		t.Errorf("User = %+v", out.User)
	}
	if out.RegistrationToken != "" {
		t.Error("RegistrationToken must be empty for existing user")
	}
}

func TestVerifyOTPNewUser(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	putOTP(t, fx, phone, "123456", fx.clock.now.Add(10*time.Minute))

	// Act
	out, err := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "123456"})

	// Assert
	if err != nil {
		t.Fatalf("VerifyOTP: %v", err)
	}
	if !out.IsNewUser {
		t.Error("IsNewUser = false for unknown phone")
	}
	if out.RegistrationToken != "reg-token-"+phone {
		t.Errorf("RegistrationToken = %q", out.RegistrationToken)
	}
	if out.Token != "" || out.User != nil {
		t.Error("no session data expected for new user")
	}
}

func TestVerifyOTPWrongCodeConsumesChallenge(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	putOTP(t, fx, phone, "123456", fx.clock.now.Add(10*time.Minute))

	// Act
	_, err1 := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "654321"})
	_, err2 := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "123456"})

	// Assert
	for i, err := range []error{err1, err2} {
		var gerr *goerror.Error
		if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeRejected {
			t.Fatalf("attempt %d: expected rejection, got %v", i+1, err)
		}
		if gerr.Msg() != "OTP expired or invalid." {
			t.Errorf("attempt %d: message = %q", i+1, gerr.Msg())
		}
	}
}

func TestVerifyOTPExpired(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	putOTP(t, fx, phone, "123456", fx.clock.now.Add(-time.Second))

	// Act
	_, err := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: phone, OTP: "123456"})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeRejected {
		t.Fatalf("expected rejection for expired otp, got %v", err)
	}
	if len(fx.store.records) != 0 {
		t.Error("expired challenge must be consumed")
	}
}

func TestVerifyOTPMissingChallenge(t *testing.T) {
	// Arrange
	fx := newFixture(t)

	// Act
	_, err := fx.uc.VerifyOTP(context.Background(), VerifyOTPInput{Phone: "+6281234567890", OTP: "123456"})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeRejected {
		t.Fatalf("expected rejection for missing otp, got %v", err)
	}
}

func TestRegisterCreatesUser(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.jwt.phoneVerifiedFor = phone

	// Act
	out, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "Jane@Example.com",
		Phone:             phone,
		RegistrationToken: "reg-token",
	})

	// Assert
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(fx.db.created) != 1 {
		t.Fatalf("expected 1 created user, got %d", len(fx.db.created))
	}
	created := fx.db.created[0]
	if created.Email != "jane@example.com" {
		t.Errorf("Email = %q, want lowercased", created.Email)
	}
	if created.Phone != phone {
		t.Errorf("Phone = %q", created.Phone)
	}
	if !created.CreatedAt.Equal(fx.clock.now) {
		t.Errorf("CreatedAt = %v", created.CreatedAt)
	}
	if out.Token != "session-token" {
		t.Errorf("Token = %q", out.Token)
	}
	if len(fx.mq.events) != 1 || fx.mq.events[0].Phone != phone {
		t.Errorf("events = %+v", fx.mq.events)
	}
}

func TestRegisterRejectsTokenForOtherPhone(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	fx.jwt.phoneVerifiedFor = "+6289999999999"

	// Act
	_, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             "+6281234567890",
		RegistrationToken: "reg-token",
	})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if len(fx.db.created) != 0 {
		t.Error("no user should be created")
	}
}

func TestRegisterRejectsInvalidToken(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	fx.jwt.verifyErr = jwt.ErrInvalidToken

	// Act
	_, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             "+6281234567890",
		RegistrationToken: "bogus",
	})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestRegisterDuplicateUser(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.jwt.phoneVerifiedFor = phone
	fx.db.usersByPhone[phone] = &entity.User{ID: 9, Phone: phone}

	// Act
	_, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             phone,
		RegistrationToken: "reg-token",
	})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if gerr.Msg() != "User already exists." {
		t.Errorf("message = %q", gerr.Msg())
	}
}

func TestRegisterDuplicateEmailOnly(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.jwt.phoneVerifiedFor = phone
	fx.db.emailTaken = map[string]bool{"jane@example.com": true}

	// Act
	_, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             phone,
		RegistrationToken: "reg-token",
	})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
	if gerr.Msg() != "User already exists." {
		t.Errorf("message = %q", gerr.Msg())
	}
	if len(fx.db.created) != 0 {
		t.Error("no user should be created")
	}
}

func TestRegisterDuplicateOnInsertRace(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.jwt.phoneVerifiedFor = phone
	fx.db.createErr = goerror.ErrConflict

	// Act
	_, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             phone,
		RegistrationToken: "reg-token",
	})

	// Assert
	var gerr *goerror.Error
	if !errors.As(err, &gerr) || gerr.Code() != goerror.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestRegisterPublishFailureStillSucceeds(t *testing.T) {
	// Arrange
	fx := newFixture(t)
	phone := "+6281234567890"
	fx.jwt.phoneVerifiedFor = phone
	fx.mq.err = errBoom

	// Act
	out, err := fx.uc.Register(context.Background(), RegisterInput{
		Name:              "Jane Doe",
		Email:             "jane@example.com",
		Phone:             phone,
		RegistrationToken: "reg-token",
	})

	// Assert
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if out.User == nil {
		t.Fatal("expected user in output")
	}
}
