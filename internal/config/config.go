package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress  string
	DatabaseURI string
	TokenSecret string

	RatesAddress  string
	RatesAPIKey   string
	RatesCacheTTL time.Duration

	CallbackBaseURL  string
	NotifyWebhookURL string

	QRGatewayAddress     string
	QRGatewaySecret      string
	QRGatewayProductCode string
	WalletGatewayAddress string
	WalletGatewaySecret  string
	CardGatewayAddress   string
	CardGatewaySecret    string

	ShippingCharge   int64
	ReturnWindowDays int
	DeliveryLeadDays int

	SweepInterval   time.Duration
	ShutdownTimeout time.Duration

	CallbackRateLimit  int
	CallbackRateWindow time.Duration
}

const (
	defaultRunAddress         = ":8080"
	defaultTokenSecret        = "change-me-in-production"
	defaultRatesAddress       = "https://api.freecurrencyapi.com"
	defaultRatesCacheTTL      = 5 * time.Minute
	defaultCallbackBaseURL    = "http://localhost:8080"
	defaultShippingCharge     = 5000 // paise, flat per order
	defaultReturnWindowDays   = 50
	defaultDeliveryLeadDays   = 7
	defaultSweepInterval      = 5 * time.Minute
	defaultShutdownTimeout    = 10 * time.Second
	defaultCallbackRateLimit  = 60
	defaultCallbackRateWindow = time.Minute
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:           getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:          getString(lookup, "DATABASE_URI", ""),
		TokenSecret:          getString(lookup, "TOKEN_SECRET", defaultTokenSecret),
		RatesAddress:         getString(lookup, "RATES_ADDRESS", defaultRatesAddress),
		RatesAPIKey:          getString(lookup, "RATES_API_KEY", ""),
		RatesCacheTTL:        getDuration(lookup, "RATES_CACHE_TTL", defaultRatesCacheTTL),
		CallbackBaseURL:      getString(lookup, "CALLBACK_BASE_URL", defaultCallbackBaseURL),
		NotifyWebhookURL:     getString(lookup, "NOTIFY_WEBHOOK_URL", ""),
		QRGatewayAddress:     getString(lookup, "QR_GATEWAY_ADDRESS", ""),
		QRGatewaySecret:      getString(lookup, "QR_GATEWAY_SECRET", ""),
		QRGatewayProductCode: getString(lookup, "QR_GATEWAY_PRODUCT_CODE", "STOREFRONT"),
		WalletGatewayAddress: getString(lookup, "WALLET_GATEWAY_ADDRESS", ""),
		WalletGatewaySecret:  getString(lookup, "WALLET_GATEWAY_SECRET", ""),
		CardGatewayAddress:   getString(lookup, "CARD_GATEWAY_ADDRESS", ""),
		CardGatewaySecret:    getString(lookup, "CARD_GATEWAY_SECRET", ""),
		ShippingCharge:       getInt64(lookup, "SHIPPING_CHARGE", defaultShippingCharge),
		ReturnWindowDays:     getInt(lookup, "RETURN_WINDOW_DAYS", defaultReturnWindowDays),
		DeliveryLeadDays:     getInt(lookup, "DELIVERY_LEAD_DAYS", defaultDeliveryLeadDays),
		SweepInterval:        getDuration(lookup, "SWEEP_INTERVAL", defaultSweepInterval),
		ShutdownTimeout:      getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
		CallbackRateLimit:    getInt(lookup, "CALLBACK_RATE_LIMIT", defaultCallbackRateLimit),
		CallbackRateWindow:   getDuration(lookup, "CALLBACK_RATE_WINDOW", defaultCallbackRateWindow),
	}

	fs := flag.NewFlagSet("storefront", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		sweepIntervalStr   = cfg.SweepInterval.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
		ratesTTLStr        = cfg.RatesCacheTTL.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RatesAddress, "r", cfg.RatesAddress, "Currency rate provider base URL")
	fs.StringVar(&cfg.RatesAPIKey, "rates-key", cfg.RatesAPIKey, "Currency rate provider API key")
	fs.StringVar(&ratesTTLStr, "rates-ttl", ratesTTLStr, "Currency rate cache TTL")
	fs.StringVar(&cfg.TokenSecret, "token-secret", cfg.TokenSecret, "Secret for verifying session tokens")
	fs.StringVar(&cfg.CallbackBaseURL, "callback-base", cfg.CallbackBaseURL, "Public base URL gateways redirect back to")
	fs.StringVar(&cfg.NotifyWebhookURL, "notify", cfg.NotifyWebhookURL, "Webhook receiving order confirmations, empty disables")
	fs.Int64Var(&cfg.ShippingCharge, "shipping", cfg.ShippingCharge, "Flat shipping charge per order in minor units")
	fs.IntVar(&cfg.ReturnWindowDays, "return-window", cfg.ReturnWindowDays, "Days after order date return/cancel stays eligible")
	fs.IntVar(&cfg.DeliveryLeadDays, "delivery-lead", cfg.DeliveryLeadDays, "Days added to order date for the delivery estimate")
	fs.StringVar(&sweepIntervalStr, "sweep-interval", sweepIntervalStr, "Interval between delivery sweeps")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.SweepInterval, err = time.ParseDuration(sweepIntervalStr); err != nil {
		return nil, fmt.Errorf("invalid sweep interval: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if cfg.RatesCacheTTL, err = time.ParseDuration(ratesTTLStr); err != nil {
		return nil, fmt.Errorf("invalid rates cache TTL: %w", err)
	}

	if secretFile, ok := lookup("TOKEN_SECRET_FILE"); ok && secretFile != "" {
		content, err := os.ReadFile(secretFile)
		if err != nil {
			return nil, fmt.Errorf("read token secret file: %w", err)
		}
		cfg.TokenSecret = string(content)
	}

	if cfg.ShippingCharge < 0 {
		cfg.ShippingCharge = defaultShippingCharge
	}

	if cfg.ReturnWindowDays <= 0 {
		cfg.ReturnWindowDays = defaultReturnWindowDays
	}

	if cfg.DeliveryLeadDays <= 0 {
		cfg.DeliveryLeadDays = defaultDeliveryLeadDays
	}

	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.RatesCacheTTL <= 0 {
		cfg.RatesCacheTTL = defaultRatesCacheTTL
	}

	if cfg.CallbackRateLimit <= 0 {
		cfg.CallbackRateLimit = defaultCallbackRateLimit
	}

	if cfg.CallbackRateWindow <= 0 {
		cfg.CallbackRateWindow = defaultCallbackRateWindow
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getInt64(lookup envLookup, key string, def int64) int64 {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
