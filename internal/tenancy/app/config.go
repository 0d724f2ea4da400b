package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/abyford453/FleetGuard/pkg/httpx"
)

type Config struct {
	DatabaseFile     string        // Optional: path to SQLite database file (default: ./fleetguard.db)
	JWTPublicKeyFile string        // Required: PEM file holding the identity provider's Ed25519 public key
	JWTKeyID         string        // Optional: kid the public key is registered under (default: default)
	JWTIssuer        string        // Optional: expected iss claim (default: fleet-auth)
	JWTAudience      []string      // Optional: accepted aud values, comma separated (default: fleetguard)
	JWTLeeway        time.Duration // Optional: tolerated clock skew on exp/nbf (default: 30s)

	PublicURL         string // Optional: prefix for invite accept links (default: http://localhost:8080)
	InviteDefaultDays int    // Optional: invite expiry when the request omits one (default: 7)

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	SessionIdleTTL       time.Duration // Session slots idle this long are swept (default: 30 days)
	SessionSweepInterval time.Duration // How often the sweeper runs (default: 1h)

	RateLimits httpx.RateLimitProfiles
}

func LoadConfig() Config {
	cfg := Config{
		DatabaseFile:     getEnvOrDefault("FLEET_DATABASE_FILE", "fleetguard.db"),
		JWTPublicKeyFile: os.Getenv("FLEET_JWT_PUBLIC_KEY_FILE"),
		JWTKeyID:         getEnvOrDefault("FLEET_JWT_KEY_ID", "default"),
		JWTIssuer:        getEnvOrDefault("FLEET_JWT_ISSUER", "fleet-auth"),
		JWTAudience:      splitList(getEnvOrDefault("FLEET_JWT_AUDIENCE", "fleetguard")),
		JWTLeeway:        getEnvDurationOrDefault("FLEET_JWT_LEEWAY", 30*time.Second),

		PublicURL:         getEnvOrDefault("FLEET_PUBLIC_URL", "http://localhost:8080"),
		InviteDefaultDays: getEnvIntOrDefault("FLEET_INVITE_DEFAULT_DAYS", 7),

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		SessionIdleTTL:       getEnvDurationOrDefault("SESSION_IDLE_TTL", 30*24*time.Hour),
		SessionSweepInterval: getEnvDurationOrDefault("SESSION_SWEEP_INTERVAL", 1*time.Hour),

		RateLimits: httpx.LoadRateLimitProfiles(),
	}

	if cfg.InviteDefaultDays <= 0 {
		cfg.InviteDefaultDays = 7
	}

	cfg.PublicURL = strings.TrimRight(cfg.PublicURL, "/")

	return cfg
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

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
