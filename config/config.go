package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port                string
	Env                 string
	PostgresUser        string
	PostgresPassword    string
	PostgresDB          string
	PostgresHost        string
	PostgresPort        string
	PostgresSSLMode     string
	PostgresTimeZone    string
	RedisURL            string // optional; empty disables the catalog cache
	StripeSecretKey     string
	StripeWebhookKey    string
	JWTSecret           string
	FrontendURL         string
	PurchaseSNSTopicARN string

	// Marketplace pricing. Amounts are integer minor units (cents).
	Currency                string
	PlatformFeePercent      int64
	DefaultBundlePriceCents int64
}

func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:                getEnv("PORT", "8087"),
		Env:                 getEnv("APP_ENV", "development"),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:          os.Getenv("POSTGRES_DB"),
		PostgresHost:        os.Getenv("POSTGRES_HOST"),
		PostgresPort:        getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:     getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:    getEnv("POSTGRES_TIMEZONE", "Europe/Dublin"),
		RedisURL:            os.Getenv("REDIS_URL"),
		StripeSecretKey:     os.Getenv("STRIPE_API_KEY"),
		StripeWebhookKey:    os.Getenv("STRIPE_WEBHOOK_SECRET"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		FrontendURL:         getEnv("FRONTEND_URL", "http://localhost:3000"),
		PurchaseSNSTopicARN: os.Getenv("PURCHASE_SNS_TOPIC_ARN"),
		Currency:            getEnv("CURRENCY", "eur"),
	}

	var err error
	if cfg.PlatformFeePercent, err = getEnvInt64("PLATFORM_FEE_PERCENT", 20); err != nil {
		return nil, err
	}
	if cfg.DefaultBundlePriceCents, err = getEnvInt64("DEFAULT_BUNDLE_PRICE_CENTS", 600); err != nil {
		return nil, err
	}
	if cfg.PlatformFeePercent < 0 || cfg.PlatformFeePercent > 100 {
		return nil, fmt.Errorf("PLATFORM_FEE_PERCENT must be between 0 and 100")
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" ||
		cfg.StripeSecretKey == "" || cfg.StripeWebhookKey == "" || cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required environment variables")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) (int64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}
