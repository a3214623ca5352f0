package config

import (
	"fmt"
	"log"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverSQLite   = "sqlite"
)

const defaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// Config holds application configuration.
type Config struct {
	Port          string
	IsProduction  bool
	StorageDriver string
	DatabaseURL   string
	SQLitePath    string
	EnableDBCheck bool

	JWTSecret string
	JWTIssuer string

	// Location is used for day, weekday and month boundaries in reports.
	Location  *time.Location
	RateLimit string

	CORSAllowedOrigins []string

	// AMQP is optional; without a URL events stay in process.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	DashboardExcludedHeads []string
	DashboardCacheTTL      time.Duration
	UserCacheTTL           time.Duration

	// BootstrapAdminID is ensured to be an active admin at startup when set.
	BootstrapAdminID    string
	BootstrapAdminEmail string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	v := viper.New()
	v.SetDefault("PORT", "8080")
	v.SetDefault("IS_PRODUCTION", false)
	v.SetDefault("STORAGE_DRIVER", StorageDriverPostgres)
	v.SetDefault("PGSQL_URL", "")
	v.SetDefault("SQLITE_PATH", "./data/vouchers.db")
	v.SetDefault("ENABLE_DB_CHECK", true)
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("TIMEZONE", "Asia/Karachi")
	v.SetDefault("RATE_LIMIT", "100-M")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "")
	v.SetDefault("AMQP_URL", "")
	v.SetDefault("AMQP_EXCHANGE", "vouchers")
	v.SetDefault("AMQP_QUEUE", "voucher_events")
	v.SetDefault("DASHBOARD_EXCLUDED_HEADS", "ARY GOLD STREET (Mart)")
	v.SetDefault("DASHBOARD_CACHE_TTL", "2m")
	v.SetDefault("USER_CACHE_TTL", "5m")
	v.SetDefault("BOOTSTRAP_ADMIN_ID", "")
	v.SetDefault("BOOTSTRAP_ADMIN_EMAIL", "")
	v.AutomaticEnv()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:                   v.GetString("PORT"),
		IsProduction:           v.GetBool("IS_PRODUCTION"),
		StorageDriver:          strings.ToLower(strings.TrimSpace(v.GetString("STORAGE_DRIVER"))),
		DatabaseURL:            v.GetString("PGSQL_URL"),
		SQLitePath:             v.GetString("SQLITE_PATH"),
		EnableDBCheck:          v.GetBool("ENABLE_DB_CHECK"),
		JWTSecret:              v.GetString("JWT_SECRET"),
		JWTIssuer:              v.GetString("JWT_ISSUER"),
		RateLimit:              v.GetString("RATE_LIMIT"),
		CORSAllowedOrigins:     splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		AMQPURL:                v.GetString("AMQP_URL"),
		AMQPExchange:           v.GetString("AMQP_EXCHANGE"),
		AMQPQueue:              v.GetString("AMQP_QUEUE"),
		DashboardExcludedHeads: splitList(v.GetString("DASHBOARD_EXCLUDED_HEADS")),
		BootstrapAdminID:       strings.TrimSpace(v.GetString("BOOTSTRAP_ADMIN_ID")),
		BootstrapAdminEmail:    strings.TrimSpace(v.GetString("BOOTSTRAP_ADMIN_EMAIL")),
	}

	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = defaultJWTSecret
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	tz := v.GetString("TIMEZONE")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.DashboardCacheTTL = parseDuration(v, "DASHBOARD_CACHE_TTL", 2*time.Minute)
	cfg.UserCacheTTL = parseDuration(v, "USER_CACHE_TTL", 5*time.Minute)

	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Voucher events will be delivered in process only.")
	}

	return cfg, cfg.Validate()
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StorageDriver {
	case StorageDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("PGSQL_URL is required when STORAGE_DRIVER is %s", StorageDriverPostgres)
		}
	case StorageDriverSQLite:
		if c.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required when STORAGE_DRIVER is %s", StorageDriverSQLite)
		}
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.IsProduction && c.JWTSecret == defaultJWTSecret {
		return fmt.Errorf("JWT_SECRET must be set in production")
	}
	if c.RateLimit == "" {
		return fmt.Errorf("RATE_LIMIT must not be empty")
	}
	if c.BootstrapAdminID != "" && c.BootstrapAdminEmail == "" {
		return fmt.Errorf("BOOTSTRAP_ADMIN_EMAIL is required when BOOTSTRAP_ADMIN_ID is set")
	}
	return nil
}

func parseDuration(v *viper.Viper, key string, fallback time.Duration) time.Duration {
	raw := v.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
