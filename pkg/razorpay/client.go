package razorpay

import (
	"context"
	"errors"
	"fmt"
	"strings"

	razorpaygo "github.com/razorpay/razorpay-go"

	"github.com/spicekart/storefront-backend/pkg/config"
	"github.com/spicekart/storefront-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"
)

var (
	errKeyIDRequired  = errors.New("razorpay key id is required")
	errSecretRequired = errors.New("razorpay secret is required")
	errInvalidEnv     = fmt.Errorf("razorpay environment must be %q or %q", testEnv, liveEnv)
)

// Client wraps the Razorpay SDK plus env-specific metadata. The secret never
// leaves the server; signature verification happens locally against it.
type Client struct {
	api         *razorpaygo.Client
	environment string
	keyID       string
	secret      string
}

// NewClient initializes the Razorpay SDK once with the configured secrets.
func NewClient(ctx context.Context, cfg config.RazorpayConfig, logg *logger.Logger) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment())
	if err != nil {
		return nil, err
	}

	keyID := strings.TrimSpace(cfg.KeyID)
	if keyID == "" {
		return nil, errKeyIDRequired
	}
	secret := strings.TrimSpace(cfg.Secret)
	if secret == "" {
		return nil, errSecretRequired
	}

	if err := validateKeyID(env, keyID); err != nil {
		return nil, err
	}

	api := razorpaygo.NewClient(keyID, secret)

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("razorpay client initialized (%s)", env))
	}

	return &Client{
		api:         api,
		environment: env,
		keyID:       keyID,
		secret:      secret,
	}, nil
}

// CreateOrder creates a remote provider order for the given amount.
func (c *Client) CreateOrder(ctx context.Context, amountCents int64, currency, receipt string) (string, error) {
	if c == nil || c.api == nil {
		return "", errors.New("razorpay client not initialized")
	}
	if amountCents <= 0 {
		return "", fmt.Errorf("invalid order amount %d", amountCents)
	}

	data := map[string]interface{}{
		"amount":   amountCents,
		"currency": currency,
		"receipt":  receipt,
	}
	body, err := c.api.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("create razorpay order: %w", err)
	}

	orderID, ok := body["id"].(string)
	if !ok || orderID == "" {
		return "", errors.New("razorpay order response missing id")
	}
	return orderID, nil
}

// KeyID returns the publishable key handed to the buyer's browser.
func (c *Client) KeyID() string {
	if c == nil {
		return ""
	}
	return c.keyID
}

// Secret returns the server-held signing secret.
func (c *Client) Secret() string {
	if c == nil {
		return ""
	}
	return c.secret
}

// Environment reports the normalized Razorpay environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}

func validateKeyID(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "rzp_test_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a test key (rzp_test_)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "rzp_live_") {
			return nil
		}
		return fmt.Errorf("razorpay environment %q requires a live key (rzp_live_)", liveEnv)
	default:
		return errInvalidEnv
	}
}
