package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"go.uber.org/zap"
)

const otpDigits = 6

type Mailer interface {
	SendOTPEmail(ctx context.Context, to, code string) error
	SendResetEmail(ctx context.Context, to, code string) error
}

type TokenConfig struct {
	Secret       string
	TTL          time.Duration
	ForgotSecret string
	ForgotTTL    time.Duration
	OTPTTL       time.Duration
}

type AuthService struct {
	store  *repository.Store
	mailer Mailer
	tokens TokenConfig
	clock  utils.Clock
}

func NewAuthService(store *repository.Store, mailer Mailer, tokens TokenConfig, clock utils.Clock) *AuthService {
	return &AuthService{store: store, mailer: mailer, tokens: tokens, clock: clock}
}

type AuthResult struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user,omitempty"`
}

// OTP purposes pick the mail template.
const (
	OtpVerify = "verify"
	OtpReset  = "reset"
)

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email is required", utils.ErrInvalidInput)
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, err
	}
	exists, err := s.store.Users.EmailExists(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: email already registered", utils.ErrConflict)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         strings.TrimSpace(name),
		Email:        email,
		Password:     hash,
		WeightTarget: models.DefaultWeightTarget,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *AuthService) LoginUser(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || !utils.CheckPasswordHash(password, user.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", utils.ErrUnauthorized)
	}
	return s.issue(user)
}

func (s *AuthService) LoginAdmin(ctx context.Context, email, password string) (*AuthResult, error) {
	admin, err := s.store.Admins.GetByEmail(ctx, normalizeEmail(email))
	if err != nil || !utils.CheckPasswordHash(password, admin.Password) {
		return nil, fmt.Errorf("%w: invalid email or password", utils.ErrUnauthorized)
	}
	token, err := utils.GenerateJWT(s.tokens.Secret, s.tokens.TTL, admin.ID.String(), admin.Email, utils.RoleAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token}, nil
}

// GoogleLogin signs in the Google account, creating a verified user on first sight.
func (s *AuthService) GoogleLogin(ctx context.Context, email, name string) (*AuthResult, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, fmt.Errorf("%w: google account has no email", utils.ErrUnauthorized)
	}
	user, err := s.store.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
	case errors.Is(err, utils.ErrNotFound):
		now := s.clock.Now().UTC()
		user = &models.User{Name: name, Email: email, VerifiedAt: &now, WeightTarget: models.DefaultWeightTarget}
		if err := s.store.Users.Create(ctx, user); err != nil {
			return nil, fmt.Errorf("create google user: %w", err)
		}
		logger.Info("google user created", zap.String("user_id", user.ID.String()))
	default:
		return nil, err
	}
	return s.issue(user)
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(s.tokens.Secret, s.tokens.TTL, user.ID.String(), user.Email, utils.RoleUser)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token, User: user}, nil
}

// GenerateOtp replaces any pending code for the user and mails a new one.
func (s *AuthService) GenerateOtp(ctx context.Context, email, purpose string) error {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return err
	}

	code := utils.GenerateOTPCode(otpDigits)
	hash, err := utils.HashPassword(code)
	if err != nil {
		return err
	}
	if err := s.store.Otps.Replace(ctx, &models.Otp{
		UserID:    user.ID,
		Code:      hash,
		ExpiresAt: s.clock.Now().Add(s.tokens.OTPTTL).UTC(),
	}); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	if purpose == OtpReset {
		return s.mailer.SendResetEmail(ctx, user.Email, code)
	}
	return s.mailer.SendOTPEmail(ctx, user.Email, code)
}

// checkOtp consumes the user's pending code when it matches and has not expired.
func (s *AuthService) checkOtp(ctx context.Context, email, code string) (*models.User, error) {
	user, err := s.store.Users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		return nil, err
	}
	otp, err := s.store.Otps.GetByUser(ctx, user.ID)
	if err != nil {
		if errors.Is(err, utils.ErrNotFound) {
			return nil, fmt.Errorf("%w: no pending otp", utils.ErrUnauthorized)
		}
		return nil, err
	}
	if s.clock.Now().After(otp.ExpiresAt) {
		if err := s.store.Otps.DeleteByUser(ctx, user.ID); err != nil {
			logger.Warn("expired otp not deleted", zap.String("user_id", user.ID.String()), zap.Error(err))
		}
		return nil, fmt.Errorf("%w: otp expired", utils.ErrUnauthorized)
	}
	if !utils.CheckPasswordHash(code, otp.Code) {
		return nil, fmt.Errorf("%w: invalid otp", utils.ErrUnauthorized)
	}
	if err := s.store.Otps.DeleteByUser(ctx, user.ID); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyOtp marks the account verified and signs the user in.
func (s *AuthService) VerifyOtp(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.checkOtp(ctx, email, code)
	if err != nil {
		return nil, err
	}
	if user, err = s.store.Users.Update(ctx, user.ID, map[string]any{"verified_at": s.clock.Now().UTC()}); err != nil {
		return nil, err
	}
	return s.issue(user)
}

// VerifyForgotOtp returns a short-lived token accepted only by the password reset route.
func (s *AuthService) VerifyForgotOtp(ctx context.Context, email, code string) (*AuthResult, error) {
	user, err := s.checkOtp(ctx, email, code)
	if err != nil {
		return nil, err
	}
	token, err := utils.GenerateJWT(s.tokens.ForgotSecret, s.tokens.ForgotTTL, user.ID.String(), user.Email, utils.RoleUser)
	if err != nil {
		return nil, err
	}
	return &AuthResult{AccessToken: token}, nil
}

// SeedAdmin creates the admin account if it does not exist yet.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return false, fmt.Errorf("%w: admin email and password are required", utils.ErrInvalidInput)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return false, err
	}
	return s.store.Admins.FirstOrCreate(ctx, &models.Admin{Email: email, Password: hash})
}
