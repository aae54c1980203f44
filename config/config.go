package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Env         string   `yaml:"env"`
	Port        string   `yaml:"port"`
	CORSOrigins []string `yaml:"cors_origins"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Admin    AdminConfig    `yaml:"admin"`
	AWS      AWSConfig      `yaml:"aws"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Google   GoogleConfig   `yaml:"google"`

	Timezone string                  `yaml:"timezone"`
	Locale   string                  `yaml:"locale"`
	Locales  map[string]utils.Locale `yaml:"locales"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"` // postgres | sqlite
	Host     string `yaml:"host"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	Port     string `yaml:"port"`
	SSLMode  string `yaml:"sslmode"`
	Path     string `yaml:"path"`
}

type AuthConfig struct {
	JWTSecret       string        `yaml:"jwt_secret"`
	JWTTTL          time.Duration `yaml:"jwt_ttl"`
	ForgotJWTSecret string        `yaml:"forgot_password_jwt_secret"`
	ForgotJWTTTL    time.Duration `yaml:"forgot_password_jwt_ttl"`
	OTPTTL          time.Duration `yaml:"otp_ttl"`
}

type AdminConfig struct {
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

type AWSConfig struct {
	Region        string `yaml:"region"`
	SESEmail      string `yaml:"ses_email"`
	S3Bucket      string `yaml:"s3_bucket"`
	CloudFrontURL string `yaml:"cloudfront_url"`
	SNSFCMArn     string `yaml:"sns_fcm_arn"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type GoogleConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	CallbackURL  string `yaml:"callback_url"`
}

func defaults() *Config {
	return &Config{
		Env:  "development",
		Port: "8080",
		Database: DatabaseConfig{
			Driver:  "postgres",
			Port:    "5432",
			SSLMode: "disable",
			Path:    "sehatin.db",
		},
		Auth: AuthConfig{
			JWTTTL:       24 * time.Hour,
			ForgotJWTTTL: 15 * time.Minute,
			OTPTTL:       5 * time.Minute,
		},
		Gemini:   GeminiConfig{Model: "gemini-1.5-flash"},
		Timezone: "UTC",
		Locale:   "en",
	}
}

// Load reads .env (if present), then the YAML file named by CONFIG_FILE
// (if set), then environment variables, each layer overriding the last.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("could not load .env file", zap.Error(err))
	}

	cfg := defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	for name, l := range cfg.Locales {
		utils.RegisterLocale(name, l)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Env, "ENV")
	setString(&cfg.Port, "PORT")
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	setString(&cfg.Database.Driver, "DB_DRIVER")
	setString(&cfg.Database.Host, "DB_HOST")
	setString(&cfg.Database.User, "DB_USER")
	setString(&cfg.Database.Password, "DB_PASSWORD")
	setString(&cfg.Database.Name, "DB_NAME")
	setString(&cfg.Database.Port, "DB_PORT")
	setString(&cfg.Database.SSLMode, "DB_SSLMODE")
	setString(&cfg.Database.Path, "DB_PATH")

	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")
	setDuration(&cfg.Auth.JWTTTL, "JWT_TTL")
	setString(&cfg.Auth.ForgotJWTSecret, "FORGOT_PASSWORD_JWT_SECRET")
	setDuration(&cfg.Auth.ForgotJWTTTL, "FORGOT_PASSWORD_JWT_TTL")
	setDuration(&cfg.Auth.OTPTTL, "OTP_TTL")

	setString(&cfg.Admin.Email, "ADMIN_EMAIL")
	setString(&cfg.Admin.Password, "ADMIN_PASSWORD")

	setString(&cfg.AWS.Region, "AWS_REGION")
	setString(&cfg.AWS.SESEmail, "SES_EMAIL")
	setString(&cfg.AWS.S3Bucket, "S3_BUCKET")
	setString(&cfg.AWS.CloudFrontURL, "CLOUDFRONT_URL")
	setString(&cfg.AWS.SNSFCMArn, "SNS_FCM_ARN")

	setString(&cfg.Gemini.APIKey, "GEMINI_API_KEY")
	setString(&cfg.Gemini.Model, "GEMINI_MODEL")

	setString(&cfg.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Google.CallbackURL, "GOOGLE_CALLBACK_URL")

	setString(&cfg.Timezone, "APP_TIMEZONE")
	setString(&cfg.Locale, "APP_LOCALE")
}

func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET must be set")
	}
	if c.Auth.ForgotJWTSecret == "" {
		return fmt.Errorf("FORGOT_PASSWORD_JWT_SECRET must be set")
	}
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.Database.Driver)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location resolves the configured zone. Validate has already checked it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) Clock() utils.Clock { return utils.NewClock(c.Location()) }

func (c *Config) AWSEnabled() bool { return c.AWS.Region != "" }

func (c *Config) GoogleEnabled() bool {
	return c.Google.ClientID != "" && c.Google.ClientSecret != "" && c.Google.CallbackURL != ""
}

// getEnvOrDefault returns the value of key, or def when it is unset.
func getEnvOrDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func setString(dst *string, key string) { *dst = getEnvOrDefault(key, *dst) }

// setDuration accepts Go durations ("15m") or plain seconds ("900").
func setDuration(dst *time.Duration, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if d, err := time.ParseDuration(v); err == nil {
		*dst = d
		return
	}
	if secs, err := strconv.Atoi(v); err == nil {
		*dst = time.Duration(secs) * time.Second
		return
	}
	logger.Warn("ignoring malformed duration", zap.String("key", key), zap.String("value", v))
}

func splitList(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
