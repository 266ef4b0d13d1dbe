// Package config loads all server configuration from environment variables.
//
// Everything has a sensible local-dev default; the only required variable is
// JWT_SECRET (at least 16 bytes), because issuing tokens with a guessable
// secret would be worse than refusing to start. Optional integrations (redis,
// Backblaze B2, Sendgrid, Google Sign-In) activate only when their variables
// are set; the server always starts without them.
package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port    int
	DBPath  string
	DataDir string // local upload storage root

	JWTSecret      string
	AccessTokenTTL time.Duration
	BcryptCost     int

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	RedisAddr     string // empty disables the token revocation list
	RedisPassword string

	B2AccountID string // all three set → uploads go to Backblaze B2
	B2AppKey    string
	B2Bucket    string

	SendgridAPIKey string // empty → emails are logged to the console
	EmailFrom      string
}

func Load() Config {
	return Config{
		Port:    getenvInt("PORT", 8080),
		DBPath:  getenv("DB_PATH", "data/academihub.db"),
		DataDir: getenv("DATA_DIR", "data/uploads"),

		JWTSecret:      getenv("JWT_SECRET", ""),
		AccessTokenTTL: getenvDuration("ACCESS_TOKEN_TTL", 24*time.Hour),
		BcryptCost:     getenvInt("BCRYPT_COST", 12),

		GoogleClientID:     getenv("GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getenv("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getenv("GOOGLE_REDIRECT_URL", "postmessage"),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),

		B2AccountID: getenv("B2_ACCOUNT_ID", ""),
		B2AppKey:    getenv("B2_APP_KEY", ""),
		B2Bucket:    getenv("B2_BUCKET", ""),

		SendgridAPIKey: getenv("SENDGRID_API_KEY", ""),
		EmailFrom:      getenv("EMAIL_FROM", "no-reply@academihub.local"),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if parsed, err := time.ParseDuration(val); err == nil {
			return parsed
		}
	}
	return fallback
}
