package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is built once by Load and
// passed to constructors; nothing else reads the environment directly.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPAddr    string

	OTLPEndpoint string

	DBType            string
	DBHost            string
	DBPort            string
	DBName            string
	DBUser            string
	DBPassword        string
	DBSSLMode         string
	DBMaxIdleConn     int
	DBMaxOpenConn     int
	DBConnMaxLifetime int
	DBConnMaxIdleTime int

	Gateway  GatewayConfig
	Exchange ExchangeConfig

	RedisAddr     string
	RedisPassword string

	ServiceAPIKey string
	SeedPlans     bool
}

// GatewayConfig configures the hosted-checkout payment gateway.
type GatewayConfig struct {
	SecretKey   string
	BaseURL     string
	RedirectURL string
	Timeout     time.Duration
}

// ExchangeConfig configures the exchange-rate provider chain.
type ExchangeConfig struct {
	DailyRatesURL   string
	CurrencyDataURL string
	ProviderTimeout time.Duration
	CacheTTL        time.Duration
}

const (
	defaultGatewayBaseURL  = "https://api.flutterwave.com/v3"
	defaultDailyRatesURL   = "https://open.er-api.com/v6/latest/USD"
	defaultCurrencyDataURL = "https://cdn.jsdelivr.net/npm/@fawazahmed0/currency-api@latest/v1/currencies/usd.json"
)

// Load loads configuration from environment variables and .env file.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		AppName:     getenv("APP_SERVICE", "lodger"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		HTTPAddr:    getenv("HTTP_ADDR", ":8080"),

		OTLPEndpoint: getenv("OTLP_ENDPOINT", "localhost:4317"),

		DBType:            getenv("DATABASE_TYPE", "postgres"),
		DBHost:            getenv("DATABASE_HOST", "localhost"),
		DBPort:            getenv("DATABASE_PORT", "5432"),
		DBName:            getenv("DATABASE_NAME", "lodger"),
		DBUser:            getenv("DATABASE_USER", "postgres"),
		DBPassword:        getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:         getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn:     getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn:     getenvInt("DATABASE_MAX_OPEN_CONN", 25),
		DBConnMaxLifetime: getenvInt("DATABASE_CONN_MAX_LIFETIME", 3600),
		DBConnMaxIdleTime: getenvInt("DATABASE_CONN_MAX_IDLE_TIME", 600),

		Gateway: GatewayConfig{
			SecretKey:   strings.TrimSpace(getenv("FLW_SECRET_KEY", "")),
			BaseURL:     strings.TrimRight(getenv("FLW_BASE_URL", defaultGatewayBaseURL), "/"),
			RedirectURL: strings.TrimSpace(getenv("FLW_REDIRECT_URL", "")),
			Timeout:     getenvDuration("FLW_TIMEOUT", 10*time.Second),
		},
		Exchange: ExchangeConfig{
			DailyRatesURL:   getenv("EXCHANGE_DAILY_RATES_URL", defaultDailyRatesURL),
			CurrencyDataURL: getenv("EXCHANGE_CURRENCY_DATA_URL", defaultCurrencyDataURL),
			ProviderTimeout: getenvDuration("EXCHANGE_PROVIDER_TIMEOUT", 4*time.Second),
			CacheTTL:        getenvDuration("EXCHANGE_CACHE_TTL", 5*time.Minute),
		},

		RedisAddr:     strings.TrimSpace(getenv("REDIS_ADDR", "")),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		ServiceAPIKey: strings.TrimSpace(getenv("SERVICE_API_KEY", "")),
		SeedPlans:     getenvBool("SEED_PLANS", true),
	}

	return cfg
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvBool(key string, def bool) bool {
	value := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if value == "" {
		return def
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return def
	}
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

func getenvDuration(key string, def time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return def
	}
	return parsed
}
