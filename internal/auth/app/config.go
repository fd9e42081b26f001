package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/aussiebroadwan/doorman/pkg/jwtx"
)

type Config struct {
	Issuer string // Issuer claim stamped on every token

	AccessSecret  string // Required in prod: HMAC secret for access tokens (min 32 bytes)
	SessionSecret string // Required in prod: HMAC secret for session tokens (min 32 bytes)

	AccessTTL      time.Duration // Access token lifetime (default: 15m)
	SessionTTL     time.Duration // Session token lifetime (default: 168h)
	RotateSessions bool          // Rotate session tokens on renewal (default: true)

	DatabaseFile string // Path to SQLite database file (default: ./doorman.db)
	PepperFile   string // Path to file containing pepper for password hashing (default: ./pepper)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Expired-session cleanup interval (default: 1h)
}

func LoadConfig() Config {
	cfg := Config{
		Issuer:               getEnvOrDefault("DOORMAN_ISSUER", "doorman"),
		AccessSecret:         os.Getenv("DOORMAN_ACCESS_SECRET"),
		SessionSecret:        os.Getenv("DOORMAN_SESSION_SECRET"),
		AccessTTL:            getEnvDurationOrDefault("DOORMAN_ACCESS_TTL", jwtx.DefaultAccessTokenTTL),
		SessionTTL:           getEnvDurationOrDefault("DOORMAN_SESSION_TTL", jwtx.DefaultSessionTokenTTL),
		RotateSessions:       getEnvBoolOrDefault("DOORMAN_ROTATE_SESSIONS", true),
		DatabaseFile:         getEnvOrDefault("DOORMAN_DATABASE_FILE", "doorman.db"),
		PepperFile:           getEnvOrDefault("DOORMAN_PEPPER_FILE", "pepper"),
		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
	}

	return cfg
}

// DevMode reports whether the service runs without the prod hardening
// (Secure cookies, mandatory secrets).
func (c Config) DevMode() bool {
	return c.Env == "dev"
}

// Validate rejects configurations that would silently weaken the token
// scheme. Secrets are checked for presence and length here; dev mode fills
// missing ones with ephemeral values before validation.
func (c Config) Validate() error {
	if len(c.AccessSecret) < jwtx.MinSecretBytes {
		return fmt.Errorf("access secret must be at least %d bytes", jwtx.MinSecretBytes)
	}
	if len(c.SessionSecret) < jwtx.MinSecretBytes {
		return fmt.Errorf("session secret must be at least %d bytes", jwtx.MinSecretBytes)
	}
	if c.AccessSecret == c.SessionSecret {
		return errors.New("access and session secrets must differ, or the token classes collapse into one")
	}
	if c.AccessTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.AccessTTL >= c.SessionTTL {
		return errors.New("access token lifetime must be shorter than the session lifetime")
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if boolValue, err := strconv.ParseBool(value); err == nil {
		return boolValue
	}

	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Integer minutes, for operators who don't speak Go durations
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
