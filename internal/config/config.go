package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const devJWTSecret = "default_super_secret_key"

// OAuthProvider holds client credentials for one third-party identity provider
type OAuthProvider struct {
	ClientID     string
	ClientSecret string
	IssuerURL    string // optional; enables ID token verification
}

// Config is the runtime configuration of the API server
type Config struct {
	Port      string
	DSN       string
	Release   bool
	LogLevel  string
	AppURL    string
	APIURL    string
	JWTSecret []byte

	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	DemoMode          bool
	InstanceCacheSize int
	InstanceTTL       time.Duration
	CORSOrigins       []string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OAuth map[string]OAuthProvider
}

// Load reads configs/.env (if present) and the process environment
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	release := os.Getenv("GIN_MODE") == "release"

	cfg := &Config{
		Port:              GetEnv("PORT", "8080"),
		DSN:               buildDSN(),
		Release:           release,
		LogLevel:          GetEnv("LOG_LEVEL", "info"),
		AppURL:            strings.TrimRight(GetEnv("APP_URL", "http://localhost:5173"), "/"),
		APIURL:            strings.TrimRight(GetEnv("API_URL", "http://localhost:8080"), "/"),
		AccessTokenTTL:    GetEnvDuration("ACCESS_TOKEN_TTL", time.Hour),
		RefreshTokenTTL:   GetEnvDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		DemoMode:          GetEnvBool("DEMO_MODE", !release),
		InstanceCacheSize: GetEnvInt("INSTANCE_CACHE_SIZE", 1024),
		InstanceTTL:       GetEnvDuration("INSTANCE_TTL", 24*time.Hour),
		CORSOrigins:       GetEnvSlice("CORS_ORIGINS", []string{"http://localhost:5173", "http://127.0.0.1:5173"}),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		RedisPassword:     os.Getenv("REDIS_PASSWORD"),
		RedisDB:           GetEnvInt("REDIS_DB", 0),
		OAuth:             make(map[string]OAuthProvider),
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		if release {
			return nil, errors.New("JWT_SECRET environment variable is required in release mode")
		}
		secret = devJWTSecret // development fallback only
	}
	cfg.JWTSecret = []byte(secret)

	for _, name := range []string{"google", "microsoft", "linkedin_oidc"} {
		prefix := "OAUTH_" + strings.ToUpper(name) + "_"
		id := os.Getenv(prefix + "CLIENT_ID")
		if id == "" {
			continue
		}
		cfg.OAuth[name] = OAuthProvider{
			ClientID:     id,
			ClientSecret: os.Getenv(prefix + "CLIENT_SECRET"),
			IssuerURL:    os.Getenv(prefix + "ISSUER"),
		}
	}

	return cfg, nil
}

func buildDSN() string {
	if dsn := os.Getenv("DATABASE_URL"); dsn != "" {
		return dsn
	}
	return "postgres://" + GetEnv("DB_USER", "postgres") + ":" + GetEnv("DB_PASSWORD", "postgres") +
		"@" + GetEnv("DB_HOST", "localhost") + ":" + GetEnv("DB_PORT", "5432") +
		"/" + GetEnv("DB_NAME", "postgres") + "?sslmode=" + GetEnv("DB_SSLMODE", "disable")
}

// GetEnv returns the variable or defaultValue when unset
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetEnvInt returns the variable parsed as int or defaultValue
func GetEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvBool returns the variable parsed as bool or defaultValue
func GetEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvDuration returns the variable parsed as a duration or defaultValue
func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// GetEnvSlice splits a comma separated variable, dropping empty items
func GetEnvSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
