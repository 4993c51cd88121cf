package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"
)

// Config carries everything read from the environment, including the
// booking defaults applied when a caller omits a payment block.
type Config struct {
	Env  string
	Port string

	DatabaseDSN string

	JWTSecret string
	JWTExpiry time.Duration

	CORSOrigins []string

	DefaultCurrency      string
	DefaultPaymentMethod string
}

func envOrDefault(key, def string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	return value
}

// Load reads configuration from the environment. JWT_SECRET is the only
// hard requirement.
func Load() (*Config, error) {
	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	expiry := 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("JWT_EXPIRES_IN")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid JWT_EXPIRES_IN %q: %w", raw, err)
		}
		expiry = d
	}

	dsn, err := resolveMySQLDSN()
	if err != nil {
		return nil, err
	}

	return &Config{
		Env:                  envOrDefault("APP_ENV", "development"),
		Port:                 envOrDefault("PORT", "8080"),
		DatabaseDSN:          dsn,
		JWTSecret:            secret,
		JWTExpiry:            expiry,
		CORSOrigins:          parseCorsOrigins(),
		DefaultCurrency:      envOrDefault("DEFAULT_CURRENCY", "USD"),
		DefaultPaymentMethod: envOrDefault("DEFAULT_PAYMENT_METHOD", "cash"),
	}, nil
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

func parseCorsOrigins() []string {
	raw := strings.TrimSpace(os.Getenv("CORS_ORIGINS"))
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "Local")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

func resolveMySQLDSN() (string, error) {
	raw := strings.TrimSpace(os.Getenv("MYSQL_URL"))
	if raw == "" {
		raw = strings.TrimSpace(os.Getenv("DATABASE_URL"))
	}

	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := envOrDefault("DB_USER", "root")
	pass := envOrDefault("DB_PASS", "")
	host := envOrDefault("DB_HOST", "127.0.0.1")
	port := envOrDefault("DB_PORT", "3306")
	dbName := envOrDefault("DB_NAME", "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, pass, host, port, dbName,
	), nil
}
