package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App          AppConfig
	DB           DBConfig
	Redis        RedisConfig
	JWT          JWTConfig
	Stripe       StripeConfig
	Checkout     CheckoutConfig
	Nutrition    NutritionConfig
	FeatureFlags FeatureFlagsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"GAINSCHEF_APP_ENV" required:"true"`
	Port         string `envconfig:"GAINSCHEF_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"GAINSCHEF_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"GAINSCHEF_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"GAINSCHEF_DB_DSN"`
	Driver string `envconfig:"GAINSCHEF_DB_DRIVER" default:"postgres"`

	LegacyHost     string `envconfig:"GAINSCHEF_DB_HOST"`
	LegacyPort     int    `envconfig:"GAINSCHEF_DB_PORT" default:"5432"`
	LegacyUser     string `envconfig:"GAINSCHEF_DB_USER"`
	LegacyPassword string `envconfig:"GAINSCHEF_DB_PASSWORD"`
	LegacyName     string `envconfig:"GAINSCHEF_DB_NAME"`
	LegacySSLMode  string `envconfig:"GAINSCHEF_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"GAINSCHEF_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"GAINSCHEF_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"GAINSCHEF_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"GAINSCHEF_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"GAINSCHEF_REDIS_URL"`
	Address      string        `envconfig:"GAINSCHEF_REDIS_ADDR"`
	Password     string        `envconfig:"GAINSCHEF_REDIS_PASSWORD"`
	DB           int           `envconfig:"GAINSCHEF_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"GAINSCHEF_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"GAINSCHEF_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"GAINSCHEF_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"GAINSCHEF_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"GAINSCHEF_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"GAINSCHEF_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"GAINSCHEF_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"GAINSCHEF_JWT_EXPIRATION_MINUTES" default:"60"`
}

type StripeConfig struct {
	APIKey        string `envconfig:"GAINSCHEF_STRIPE_API_KEY"`
	WebhookSecret string `envconfig:"GAINSCHEF_STRIPE_WEBHOOK_SECRET"`
	Env           string `envconfig:"GAINSCHEF_STRIPE_ENV" default:"test"`
}

// Environment returns the normalized Stripe environment (test/live).
func (s StripeConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(s.Env))
	if env == "" {
		return "test"
	}
	return env
}

// CheckoutConfig carries the redirect targets handed to the payment provider.
type CheckoutConfig struct {
	BaseURL        string        `envconfig:"GAINSCHEF_CHECKOUT_BASE_URL" required:"true"`
	SuccessPath    string        `envconfig:"GAINSCHEF_CHECKOUT_SUCCESS_PATH" default:"/checkout/success"`
	CancelPath     string        `envconfig:"GAINSCHEF_CHECKOUT_CANCEL_PATH" default:"/checkout"`
	RequestTimeout time.Duration `envconfig:"GAINSCHEF_CHECKOUT_REQUEST_TIMEOUT" default:"15s"`
}

func (c CheckoutConfig) validate() error {
	parsed, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("parsing checkout base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("checkout base url %q must be absolute", c.BaseURL)
	}
	return nil
}

// SuccessURL embeds the provider's session-id placeholder so the post-redirect
// page can look up payment status.
func (c CheckoutConfig) SuccessURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.SuccessPath + "?session_id={CHECKOUT_SESSION_ID}"
}

func (c CheckoutConfig) CancelURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.CancelPath
}

type NutritionConfig struct {
	ClientID     string        `envconfig:"GAINSCHEF_NUTRITION_CLIENT_ID"`
	ClientSecret string        `envconfig:"GAINSCHEF_NUTRITION_CLIENT_SECRET"`
	BaseURL      string        `envconfig:"GAINSCHEF_NUTRITION_BASE_URL"`
	TokenURL     string        `envconfig:"GAINSCHEF_NUTRITION_TOKEN_URL"`
	TokenTTLSlop time.Duration `envconfig:"GAINSCHEF_NUTRITION_TOKEN_TTL_SLOP" default:"30s"`
}

type FeatureFlagsConfig struct {
	AutoMigrate bool `envconfig:"GAINSCHEF_AUTO_MIGRATE" default:"false"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	legacyValues := map[string]string{
		EnvDBHost: db.LegacyHost,
		EnvDBUser: db.LegacyUser,
		EnvDBName: db.LegacyName,
	}
	for _, env := range legacyDBEnvVars {
		if legacyValues[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.LegacyUser)
	if db.LegacyPassword != "" {
		userInfo = url.UserPassword(db.LegacyUser, db.LegacyPassword)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.LegacyHost, db.LegacyPort),
		Path:   db.LegacyName,
	}

	if db.LegacySSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.LegacySSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
