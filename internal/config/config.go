package config

import (
	"os"
	"strconv"
)

// Config is the resolved settings object consumed by the executor. Values
// come from the environment; the defaults keep a local run working against
// a localhost Redis.
type Config struct {
	RedisURL string

	OrderChannel  string
	ResultChannel string

	Binance CredentialConfig
	Bybit   CredentialConfig

	MaxOrderRate  int // orders per second admitted to dispatch; 0 disables
	EnableTestnet bool

	QueueCapacity int // bounded ingest queue; producers stall when full
	MaxInFlight   int // concurrent execution cap

	MetricsAddr   string
	PyroscopeAddr string // empty disables profiling
}

// CredentialConfig is an API key pair for one exchange. Empty values mean
// that exchange's delegator cannot authenticate; the router does not care.
type CredentialConfig struct {
	APIKey    string
	APISecret string
}

// FromEnv resolves the configuration from environment variables.
func FromEnv() Config {
	return Config{
		RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
		OrderChannel:  getEnv("ORDER_CHANNEL", "xor:orders:execute"),
		ResultChannel: getEnv("RESULT_CHANNEL", "xor:orders:result"),
		Binance: CredentialConfig{
			APIKey:    getEnv("BINANCE_API_KEY", ""),
			APISecret: getEnv("BINANCE_API_SECRET", ""),
		},
		Bybit: CredentialConfig{
			APIKey:    getEnv("BYBIT_API_KEY", ""),
			APISecret: getEnv("BYBIT_API_SECRET", ""),
		},
		MaxOrderRate:  getEnvAsInt("MAX_ORDER_RATE", 100),
		EnableTestnet: getEnvAsBool("ENABLE_TESTNET", false),
		QueueCapacity: getEnvAsInt("ORDER_QUEUE_CAPACITY", 10000),
		MaxInFlight:   getEnvAsInt("MAX_INFLIGHT_ORDERS", 256),
		MetricsAddr:   getEnv("METRICS_ADDR", ":9100"),
		PyroscopeAddr: getEnv("PYROSCOPE_ADDR", ""),
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvAsBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return v == "true" || v == "1"
}
