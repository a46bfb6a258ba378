package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Checkout CheckoutConfig
	Razorpay RazorpayConfig
	Webhook  WebhookConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.DB.ensureDSN(); err != nil {
		return nil, err
	}
	if err := cfg.Checkout.compilePhonePattern(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"SPICEKART_APP_ENV" required:"true"`
	Port         string `envconfig:"SPICEKART_APP_PORT" required:"true"`
	LogLevel     string `envconfig:"SPICEKART_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"SPICEKART_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"SPICEKART_DB_DSN"`
	Driver string `envconfig:"SPICEKART_DB_DRIVER" default:"postgres"`

	Host     string `envconfig:"SPICEKART_DB_HOST"`
	Port     int    `envconfig:"SPICEKART_DB_PORT" default:"5432"`
	User     string `envconfig:"SPICEKART_DB_USER"`
	Password string `envconfig:"SPICEKART_DB_PASSWORD"`
	Name     string `envconfig:"SPICEKART_DB_NAME"`
	SSLMode  string `envconfig:"SPICEKART_DB_SSLMODE" default:"disable"`

	MaxOpenConns    int           `envconfig:"SPICEKART_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"SPICEKART_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"SPICEKART_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"SPICEKART_DB_CONN_MAX_IDLE_TIME" default:"10m"`

	AutoMigrate bool `envconfig:"SPICEKART_AUTO_MIGRATE" default:"false"`
}

type RedisConfig struct {
	URL          string        `envconfig:"SPICEKART_REDIS_URL" required:"true"`
	Address      string        `envconfig:"SPICEKART_REDIS_ADDR"`
	Password     string        `envconfig:"SPICEKART_REDIS_PASSWORD"`
	DB           int           `envconfig:"SPICEKART_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"SPICEKART_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"SPICEKART_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"SPICEKART_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"SPICEKART_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"SPICEKART_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"SPICEKART_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"SPICEKART_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"SPICEKART_JWT_EXPIRATION_MINUTES" default:"60"`
}

// CheckoutConfig carries the pricing and checkout policy knobs. The shipping
// threshold, flat rate and tax rate are configuration, never constants in the
// pricing engine.
type CheckoutConfig struct {
	Currency                   string        `envconfig:"SPICEKART_CHECKOUT_CURRENCY" default:"INR"`
	TaxRatePercent             float64       `envconfig:"SPICEKART_CHECKOUT_TAX_RATE_PERCENT" default:"5"`
	FreeShippingThresholdCents int64         `envconfig:"SPICEKART_CHECKOUT_FREE_SHIPPING_THRESHOLD_CENTS" default:"50000"`
	FlatShippingCents          int64         `envconfig:"SPICEKART_CHECKOUT_FLAT_SHIPPING_CENTS" default:"5000"`
	DraftTTL                   time.Duration `envconfig:"SPICEKART_CHECKOUT_DRAFT_TTL" default:"24h"`
	PendingOrderTTL            time.Duration `envconfig:"SPICEKART_CHECKOUT_PENDING_ORDER_TTL" default:"48h"`
	PhonePattern               string        `envconfig:"SPICEKART_CHECKOUT_PHONE_PATTERN" default:"^\\+?[0-9]{10,14}$"`

	phoneRegexp *regexp.Regexp
}

// PhoneRegexp returns the compiled phone format; Load guarantees it is set.
func (c CheckoutConfig) PhoneRegexp() *regexp.Regexp {
	return c.phoneRegexp
}

func (c *CheckoutConfig) compilePhonePattern() error {
	re, err := regexp.Compile(c.PhonePattern)
	if err != nil {
		return fmt.Errorf("invalid phone pattern %q: %w", c.PhonePattern, err)
	}
	c.phoneRegexp = re
	return nil
}

type RazorpayConfig struct {
	KeyID  string `envconfig:"SPICEKART_RAZORPAY_KEY_ID"`
	Secret string `envconfig:"SPICEKART_RAZORPAY_SECRET"`
	Env    string `envconfig:"SPICEKART_RAZORPAY_ENV" default:"test"`
}

// Environment returns the normalized Razorpay environment (test/live).
func (r RazorpayConfig) Environment() string {
	env := strings.TrimSpace(strings.ToLower(r.Env))
	if env == "" {
		return "test"
	}
	return env
}

type WebhookConfig struct {
	Secret         string        `envconfig:"SPICEKART_WEBHOOK_SECRET"`
	IdempotencyTTL time.Duration `envconfig:"SPICEKART_WEBHOOK_IDEMPOTENCY_TTL" default:"720h"`
}

func (db *DBConfig) ensureDSN() error {
	if db.DSN != "" {
		return nil
	}

	missing := []string{}
	values := map[string]string{
		EnvDBHost: db.Host,
		EnvDBUser: db.User,
		EnvDBName: db.Name,
	}
	for _, env := range requiredDBEnvVars {
		if values[env] == "" {
			missing = append(missing, env)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("either %s or %s are required", EnvDBDSN, strings.Join(missing, ", "))
	}

	userInfo := url.User(db.User)
	if db.Password != "" {
		userInfo = url.UserPassword(db.User, db.Password)
	}

	u := &url.URL{
		Scheme: "postgres",
		User:   userInfo,
		Host:   fmt.Sprintf("%s:%d", db.Host, db.Port),
		Path:   db.Name,
	}

	if db.SSLMode != "" {
		q := u.Query()
		q.Set("sslmode", db.SSLMode)
		u.RawQuery = q.Encode()
	}

	db.DSN = u.String()
	return nil
}
