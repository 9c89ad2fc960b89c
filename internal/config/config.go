package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port        string
	DatabaseURL string

	JWTSecret     string
	TokenTTLHours int
	BcryptCost    int

	RateLimitPerMinute      int
	RateLimitBurst          int
	OwnerRateLimitPerMinute int
	OwnerRateLimitBurst     int

	OTLPEndpoint string
	OTLPInsecure bool
}

func Load() Config {
	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	return Config{
		Port:        port,
		DatabaseURL: os.Getenv("DB_DSN"),

		JWTSecret:     os.Getenv("AUTH_JWT_SECRET"),
		TokenTTLHours: readInt("AUTH_TOKEN_TTL_HOURS", 24),
		BcryptCost:    readInt("AUTH_BCRYPT_COST", 10),

		RateLimitPerMinute:      readInt("API_RATE_LIMIT_PER_MIN", 120),
		RateLimitBurst:          readInt("API_RATE_LIMIT_BURST", 30),
		OwnerRateLimitPerMinute: readInt("API_OWNER_RATE_LIMIT_PER_MIN", 300),
		OwnerRateLimitBurst:     readInt("API_OWNER_RATE_LIMIT_BURST", 60),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OTLPInsecure: os.Getenv("OTEL_EXPORTER_OTLP_INSECURE") == "true",
	}
}

func readInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
