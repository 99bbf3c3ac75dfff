// Package config loads the accessd configuration from the environment and
// optional .env files.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/carlfalc/glutenworld-sub001/pkg/billing"
	"github.com/carlfalc/glutenworld-sub001/pkg/httpserver"
	"github.com/carlfalc/glutenworld-sub001/pkg/kv"
	"github.com/carlfalc/glutenworld-sub001/pkg/pgstore"
)

var (
	ErrParsingConfig      = errors.New("config.parse_failed")
	ErrInvalidTrialStore  = errors.New("config.invalid_trial_store")
	ErrInvalidProvider    = errors.New("config.invalid_billing_provider")
	ErrMissingCookieKeys  = errors.New("config.missing_cookie_secrets")
	ErrMissingAuthSecret  = errors.New("config.missing_auth_secret")
	ErrMissingProviderKey = errors.New("config.missing_billing_credentials")
)

// Trial store backends.
const (
	TrialStoreCookie = "cookie"
	TrialStoreRedis  = "redis"
)

// Billing providers.
const (
	ProviderStripe = "stripe"
	ProviderPaddle = "paddle"
	ProviderNone   = "none"
)

type App struct {
	Env     string `env:"APP_ENV" envDefault:"development"`
	Service string `env:"APP_SERVICE" envDefault:"accessd"`
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`
}

type Auth struct {
	JWTSecret   string        `env:"AUTH_JWT_SECRET"`
	CookieName  string        `env:"AUTH_COOKIE_NAME" envDefault:"gw_session"`
	ClockLeeway time.Duration `env:"AUTH_CLOCK_LEEWAY" envDefault:"30s"`
}

type Gate struct {
	AuthPath    string        `env:"GATE_AUTH_PATH" envDefault:"/auth"`
	PaywallPath string        `env:"GATE_PAYWALL_PATH" envDefault:"/pricing"`
	RetryAfter  time.Duration `env:"GATE_RETRY_AFTER" envDefault:"5s"`
}

type Trial struct {
	Store         string   `env:"TRIAL_STORE" envDefault:"cookie"`
	CookieSecrets []string `env:"COOKIE_SECRETS" envSeparator:","`
	CookieDomain  string   `env:"COOKIE_DOMAIN"`
	VisitorCookie string   `env:"VISITOR_COOKIE" envDefault:"gw_visitor"`
}

type Billing struct {
	Provider  string `env:"BILLING_PROVIDER" envDefault:"none"`
	PlansFile string `env:"BILLING_PLANS_FILE" envDefault:"plans.yaml"`

	Stripe billing.StripeConfig
	Paddle billing.PaddleConfig
}

// Config is everything accessd needs to start.
type Config struct {
	App      App
	Auth     Auth
	Gate     Gate
	Trial    Trial
	Billing  Billing
	HTTP     httpserver.Config
	Postgres pgstore.Config
	Redis    kv.RedisConfig
}

// Production reports whether cookies must be marked Secure.
func (c Config) Production() bool {
	return c.App.Env == "production" || c.App.Env == "staging"
}

// Load reads the given .env files, or ./.env when none are given, and then
// parses the environment. Values already set in the environment win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return Config{}, errors.Join(ErrParsingConfig, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks cross-field requirements env tags cannot express.
func (c Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, ErrMissingAuthSecret)
	}

	switch c.Trial.Store {
	case TrialStoreCookie:
		if len(c.Trial.CookieSecrets) == 0 {
			errs = append(errs, ErrMissingCookieKeys)
		}
	case TrialStoreRedis:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidTrialStore, c.Trial.Store))
	}

	switch c.Billing.Provider {
	case ProviderStripe:
		if c.Billing.Stripe.SecretKey == "" {
			errs = append(errs, fmt.Errorf("%w: STRIPE_SECRET_KEY", ErrMissingProviderKey))
		}
	case ProviderPaddle:
		if c.Billing.Paddle.APIKey == "" {
			errs = append(errs, fmt.Errorf("%w: PADDLE_API_KEY", ErrMissingProviderKey))
		}
	case ProviderNone:
	default:
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidProvider, c.Billing.Provider))
	}
	return errors.Join(errs...)
}
