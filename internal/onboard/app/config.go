package app

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/aussiebroadwan/onboard/pkg/httpx"
	"github.com/caarlos0/env/v11"
)

const (
	DriverLocal  = "local"
	DriverGoTrue = "gotrue"

	InvitePath = "/auth/accept-invite"
	ResetPath  = "/auth/reset-password"
)

// Config is loaded once at startup and never re-read.
type Config struct {
	DatabaseFile        string        `env:"ONBOARD_DATABASE_FILE" envDefault:"onboard.db"`
	PepperFile          string        `env:"ONBOARD_PEPPER_FILE" envDefault:"pepper"`
	Env                 string        `env:"ENV" envDefault:"dev"`
	LogLevel            string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat           string        `env:"LOG_FORMAT" envDefault:"json"`
	Port                int           `env:"PORT" envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	// Bearer tokens are minted by the identity provider with this secret.
	JWTSecret   string   `env:"ONBOARD_JWT_SECRET"`
	JWTIssuer   string   `env:"ONBOARD_JWT_ISSUER"`
	JWTAudience []string `env:"ONBOARD_JWT_AUDIENCE" envSeparator:","`

	IdentityDriver     string `env:"ONBOARD_IDENTITY_DRIVER" envDefault:"local"`
	GoTrueURL          string `env:"ONBOARD_GOTRUE_URL"`
	GoTrueServiceKey   string `env:"ONBOARD_GOTRUE_SERVICE_KEY"`
	IdentityPageSize   int    `env:"ONBOARD_IDENTITY_PAGE_SIZE" envDefault:"200"`
	LockPostgresDSN    string `env:"ONBOARD_LOCK_POSTGRES_DSN"`
	OwnerEmail         string `env:"ONBOARD_OWNER_EMAIL"`
	SelfServiceEnabled bool   `env:"ONBOARD_SELF_SERVICE_ENABLED" envDefault:"true"`

	InviteRedirectURL        string `env:"ONBOARD_INVITE_REDIRECT_URL"`
	PasswordResetRedirectURL string `env:"ONBOARD_PASSWORD_RESET_REDIRECT_URL"`

	InviteTTL         time.Duration `env:"ONBOARD_INVITE_TTL" envDefault:"168h"`
	InviteBaseBackoff time.Duration `env:"ONBOARD_INVITE_BASE_BACKOFF" envDefault:"250ms"`
	InviteMaxBackoff  time.Duration `env:"ONBOARD_INVITE_MAX_BACKOFF" envDefault:"2s"`
	TrialLength       time.Duration `env:"ONBOARD_TRIAL_LENGTH" envDefault:"336h"`
	SignupIPLimit     int           `env:"ONBOARD_SIGNUP_IP_LIMIT" envDefault:"5"`
	SignupEmailLimit  int           `env:"ONBOARD_SIGNUP_EMAIL_LIMIT" envDefault:"3"`
	SignupWindow      time.Duration `env:"ONBOARD_SIGNUP_WINDOW" envDefault:"1h"`

	// Coarse per-minute HTTP limits in front of the services.
	PublicRateLimit int `env:"ONBOARD_PUBLIC_RATE_LIMIT" envDefault:"10"`
	AdminRateLimit  int `env:"ONBOARD_ADMIN_RATE_LIMIT" envDefault:"60"`

	// Proxies (CIDRs or addresses) allowed to set X-Forwarded-For. Empty
	// means client addresses are the TCP peer.
	TrustedProxies []string `env:"ONBOARD_TRUSTED_PROXIES" envSeparator:","`
}

// LoadConfig parses the environment. Call Validate before using the result.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("ONBOARD_JWT_SECRET is required"))
	}
	if err := validateRedirect(c.InviteRedirectURL, InvitePath); err != nil {
		errs = append(errs, fmt.Errorf("ONBOARD_INVITE_REDIRECT_URL: %w", err))
	}
	if err := validateRedirect(c.PasswordResetRedirectURL, ResetPath); err != nil {
		errs = append(errs, fmt.Errorf("ONBOARD_PASSWORD_RESET_REDIRECT_URL: %w", err))
	}

	switch c.IdentityDriver {
	case DriverLocal:
	case DriverGoTrue:
		if c.GoTrueURL == "" || c.GoTrueServiceKey == "" {
			errs = append(errs, errors.New("gotrue identity driver needs ONBOARD_GOTRUE_URL and ONBOARD_GOTRUE_SERVICE_KEY"))
		}
	default:
		errs = append(errs, fmt.Errorf("ONBOARD_IDENTITY_DRIVER %q: want %s or %s", c.IdentityDriver, DriverLocal, DriverGoTrue))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}
	if c.InviteTTL <= 0 || c.TrialLength <= 0 || c.SignupWindow <= 0 {
		errs = append(errs, errors.New("invite TTL, trial length and signup window must be positive"))
	}
	if c.SignupIPLimit <= 0 || c.SignupEmailLimit <= 0 {
		errs = append(errs, errors.New("signup limits must be positive"))
	}
	if c.PublicRateLimit <= 0 || c.AdminRateLimit <= 0 {
		errs = append(errs, errors.New("HTTP rate limits must be positive"))
	}
	if _, err := httpx.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("ONBOARD_TRUSTED_PROXIES: %w", err))
	}

	return errors.Join(errs...)
}

func validateRedirect(raw, path string) error {
	if raw == "" {
		return errors.New("is required")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("scheme %q is not http or https", u.Scheme)
	}
	if u.Host == "" {
		return errors.New("host is missing")
	}
	if u.Path != path {
		return fmt.Errorf("path must be %s, got %q", path, u.Path)
	}
	return nil
}
