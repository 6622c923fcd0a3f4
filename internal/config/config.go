package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is read from the environment once at startup and treated as
// immutable afterwards. Secrets are never re-read on the hot path.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	Postgres  PostgresConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Admin     AdminConfig
}

type ServerConfig struct {
	Port        string
	Env         string
	CORSOrigins []string
}

type AuthConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	BcryptCost    int
	CookieSecure  bool
}

type PostgresConfig struct {
	DatabaseURL string
	Host        string
	Port        string
	User        string
	Password    string
	Database    string
	SSLMode     string
}

type StorageConfig struct {
	UploadDir string
}

type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// AdminConfig seeds the initial admin user. Both fields empty disables seeding.
type AdminConfig struct {
	Email    string
	Password string
}

func (s ServerConfig) IsProduction() bool {
	return s.Env == "production"
}

func Load() (Config, error) {
	accessSecret := os.Getenv("ACCESS_SECRET")
	refreshSecret := os.Getenv("REFRESH_SECRET")
	if accessSecret == "" || refreshSecret == "" {
		return Config{}, fmt.Errorf("ACCESS_SECRET and REFRESH_SECRET are required")
	}
	if accessSecret == refreshSecret {
		return Config{}, fmt.Errorf("ACCESS_SECRET and REFRESH_SECRET must differ")
	}

	accessTTL, err := parseDuration("ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return Config{}, err
	}
	refreshTTL, err := parseDuration("REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return Config{}, err
	}
	bcryptCost, err := parseInt("BCRYPT_COST", 10)
	if err != nil {
		return Config{}, err
	}
	rps, err := parseFloat("RATE_LIMIT_RPS", 50)
	if err != nil {
		return Config{}, err
	}
	if rps <= 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_RPS must be positive, got %v", rps)
	}
	burst, err := parseInt("RATE_LIMIT_BURST", 100)
	if err != nil {
		return Config{}, err
	}
	if burst < 1 {
		return Config{}, fmt.Errorf("RATE_LIMIT_BURST must be at least 1, got %d", burst)
	}

	env := getenv("APP_ENV", "development")

	return Config{
		Server: ServerConfig{
			Port:        getenv("PORT", "8080"),
			Env:         env,
			CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
		},
		Auth: AuthConfig{
			AccessSecret:  accessSecret,
			RefreshSecret: refreshSecret,
			AccessTTL:     accessTTL,
			RefreshTTL:    refreshTTL,
			BcryptCost:    bcryptCost,
			CookieSecure:  env == "production",
		},
		Postgres: PostgresConfig{
			DatabaseURL: os.Getenv("DATABASE_URL"),
			Host:        getenv("PGHOST", "localhost"),
			Port:        getenv("PGPORT", "5432"),
			User:        os.Getenv("PGUSER"),
			Password:    os.Getenv("PGPASSWORD"),
			Database:    os.Getenv("PGDATABASE"),
			SSLMode:     getenv("PGSSLMODE", "disable"),
		},
		Storage: StorageConfig{
			UploadDir: getenv("UPLOAD_DIR", "./uploads"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: rps,
			Burst:             burst,
		},
		Admin: AdminConfig{
			Email:    os.Getenv("ADMIN_EMAIL"),
			Password: os.Getenv("ADMIN_PASSWORD"),
		},
	}, nil
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	val := os.Getenv(key)
	if val == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
