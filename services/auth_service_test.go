package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/services"
	"github.com/RamaAlqdri/sehatin/utils"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

type fakeMailer struct {
	otp   map[string]string
	reset map[string]string
}

func newFakeMailer() *fakeMailer {
	return &fakeMailer{otp: map[string]string{}, reset: map[string]string{}}
}

func (m *fakeMailer) SendOTPEmail(_ context.Context, to, code string) error {
	m.otp[to] = code
	return nil
}

func (m *fakeMailer) SendResetEmail(_ context.Context, to, code string) error {
	m.reset[to] = code
	return nil
}

var testTokens = services.TokenConfig{
	Secret:       "login-secret",
	TTL:          time.Hour,
	ForgotSecret: "forgot-secret",
	ForgotTTL:    15 * time.Minute,
	OTPTTL:       5 * time.Minute,
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := services.NewAuthService(store, newFakeMailer(), testTokens, utils.NewClock(time.UTC))

	user, err := auth.Register(ctx, "Rama", "  Rama@Example.com ", "secret1")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "rama@example.com" || user.WeightTarget != 55 {
		t.Fatalf("user = %+v", user)
	}
	if _, err := auth.Register(ctx, "Again", "rama@example.com", "secret1"); !errors.Is(err, utils.ErrConflict) {
		t.Fatalf("duplicate error = %v, want ErrConflict", err)
	}
	if _, err := auth.Register(ctx, "X", "not-an-email", "secret1"); !errors.Is(err, utils.ErrInvalidInput) {
		t.Fatalf("bad email error = %v", err)
	}

	res, err := auth.LoginUser(ctx, "RAMA@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	claims, err := utils.ParseJWT(testTokens.Secret, res.AccessToken)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if claims.ID != user.ID.String() || claims.Role != utils.RoleUser {
		t.Fatalf("claims = %+v", claims)
	}
	if _, err := auth.LoginUser(ctx, "rama@example.com", "wrong!!"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("wrong password error = %v", err)
	}
	if _, err := auth.LoginUser(ctx, "ghost@example.com", "secret1"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("unknown user error = %v", err)
	}
}

func TestOtpVerifyFlow(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mailer := newFakeMailer()
	now := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	auth := services.NewAuthService(store, mailer, testTokens, utils.FixedClock(time.UTC, now))

	if _, err := auth.Register(ctx, "Otp", "otp@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.GenerateOtp(ctx, "otp@example.com", services.OtpVerify); err != nil {
		t.Fatalf("generate: %v", err)
	}
	code := mailer.otp["otp@example.com"]
	if len(code) != 6 {
		t.Fatalf("mailed code = %q", code)
	}

	if _, err := auth.VerifyOtp(ctx, "otp@example.com", "000000x"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("wrong code error = %v", err)
	}
	res, err := auth.VerifyOtp(ctx, "otp@example.com", code)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if res.User == nil || res.User.VerifiedAt == nil {
		t.Fatalf("user not verified: %+v", res.User)
	}
	// codes are single use
	if _, err := auth.VerifyOtp(ctx, "otp@example.com", code); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("reused code error = %v", err)
	}
}

func TestOtpExpires(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mailer := newFakeMailer()
	now := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	auth := services.NewAuthService(store, mailer, testTokens, utils.FixedClock(time.UTC, now))
	later := services.NewAuthService(store, mailer, testTokens, utils.FixedClock(time.UTC, now.Add(6*time.Minute)))

	if _, err := auth.Register(ctx, "Late", "late@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.GenerateOtp(ctx, "late@example.com", services.OtpVerify); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := later.VerifyOtp(ctx, "late@example.com", mailer.otp["late@example.com"]); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("expired code error = %v", err)
	}
}

func TestExpiredOtpCleanupFailureIsLogged(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mailer := newFakeMailer()
	now := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	auth := services.NewAuthService(store, mailer, testTokens, utils.FixedClock(time.UTC, now))
	later := services.NewAuthService(store, mailer, testTokens, utils.FixedClock(time.UTC, now.Add(6*time.Minute)))

	core, logs := observer.New(zap.WarnLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })

	if _, err := auth.Register(ctx, "Stale", "stale@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.GenerateOtp(ctx, "stale@example.com", services.OtpVerify); err != nil {
		t.Fatalf("generate: %v", err)
	}
	err := store.DB.Callback().Delete().Before("gorm:delete").Register("test:fail_delete", func(db *gorm.DB) {
		_ = db.AddError(errors.New("disk full"))
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := later.VerifyOtp(ctx, "stale@example.com", mailer.otp["stale@example.com"]); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("expired code error = %v", err)
	}
	if n := logs.FilterMessage("expired otp not deleted").Len(); n != 1 {
		t.Fatalf("cleanup warnings = %d, want 1", n)
	}
}

func TestForgotPasswordOtpIssuesResetToken(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	mailer := newFakeMailer()
	auth := services.NewAuthService(store, mailer, testTokens, utils.NewClock(time.UTC))

	if _, err := auth.Register(ctx, "Forgot", "forgot@example.com", "secret1"); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := auth.GenerateOtp(ctx, "forgot@example.com", services.OtpReset); err != nil {
		t.Fatalf("generate: %v", err)
	}
	code, ok := mailer.reset["forgot@example.com"]
	if !ok {
		t.Fatal("reset mail not sent")
	}
	res, err := auth.VerifyForgotOtp(ctx, "forgot@example.com", code)
	if err != nil {
		t.Fatalf("verify forgot: %v", err)
	}
	if _, err := utils.ParseJWT(testTokens.ForgotSecret, res.AccessToken); err != nil {
		t.Fatalf("reset token not signed with forgot secret: %v", err)
	}
	if _, err := utils.ParseJWT(testTokens.Secret, res.AccessToken); err == nil {
		t.Fatal("reset token accepted as login token")
	}
}

func TestAdminSeedAndLogin(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := services.NewAuthService(store, newFakeMailer(), testTokens, utils.NewClock(time.UTC))

	created, err := auth.SeedAdmin(ctx, "admin@example.com", "admin-pass")
	if err != nil || !created {
		t.Fatalf("seed = %v, %v", created, err)
	}
	created, err = auth.SeedAdmin(ctx, "ADMIN@example.com", "other-pass")
	if err != nil || created {
		t.Fatalf("second seed = %v, %v; want no-op", created, err)
	}

	res, err := auth.LoginAdmin(ctx, "admin@example.com", "admin-pass")
	if err != nil {
		t.Fatalf("admin login: %v", err)
	}
	claims, err := utils.ParseJWT(testTokens.Secret, res.AccessToken)
	if err != nil || claims.Role != utils.RoleAdmin {
		t.Fatalf("admin claims = %+v, %v", claims, err)
	}
	if _, err := auth.LoginAdmin(ctx, "admin@example.com", "other-pass"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("reseeded password should not apply: %v", err)
	}
}

func TestGoogleLoginCreatesVerifiedUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	auth := services.NewAuthService(store, newFakeMailer(), testTokens, utils.NewClock(time.UTC))

	first, err := auth.GoogleLogin(ctx, "g@example.com", "Gee")
	if err != nil {
		t.Fatalf("google login: %v", err)
	}
	if first.User.VerifiedAt == nil {
		t.Fatal("google user should be verified")
	}
	second, err := auth.GoogleLogin(ctx, "G@example.com", "Gee")
	if err != nil {
		t.Fatalf("second google login: %v", err)
	}
	if second.User.ID != first.User.ID {
		t.Fatal("second login created another user")
	}
	if _, err := auth.GoogleLogin(ctx, "", "Nobody"); !errors.Is(err, utils.ErrUnauthorized) {
		t.Fatalf("empty email error = %v", err)
	}
}
