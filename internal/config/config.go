package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	MasterDB   DatabaseConfig
	TenantDB   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	Slack      SlackConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings. The master database
// (organization and admin metadata) and the tenant database (per-tenant
// collections) are configured independently; there is no shared transaction
// between them.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings for the per-name lock.
type RedisConfig struct {
	Addr     string
	Password string //nolint:gosec // G117: Redis connection config
	DB       int
	LockTTL  time.Duration
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret    string //nolint:gosec // G117: JWT signing secret config
	AccessTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
}

// SlackConfig holds the optional lifecycle-notification settings. Empty
// token disables notifications.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, DB passwords) must be set explicitly.
func Load() (*Config, error) {
	masterDB, err := loadDatabase("ORGD_MASTER_DB", "orgd_master")
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	tenantDB, err := loadDatabase("ORGD_TENANT_DB", "orgd_tenants")
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("ORGD_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	lockTTL, err := getEnvDuration("ORGD_REDIS_LOCK_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("ORGD_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("ORGD_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("ORGD_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("ORGD_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	cfg := &Config{
		MasterDB: masterDB,
		TenantDB: tenantDB,
		Redis: RedisConfig{
			Addr:     getEnv("ORGD_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("ORGD_REDIS_PASSWORD", ""),
			DB:       redisDB,
			LockTTL:  lockTTL,
		},
		JWT: JWTConfig{
			Secret:    getEnv("ORGD_JWT_SECRET", ""),
			AccessTTL: accessTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("ORGD_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  getEnvList("ORGD_CORS_ORIGINS", []string{"http://localhost:5173"}),
		},
		Slack: SlackConfig{
			BotToken: getEnv("ORGD_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("ORGD_SLACK_CHANNEL", "#org-lifecycle"),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

func loadDatabase(prefix, defaultName string) (DatabaseConfig, error) {
	port, err := getEnvInt(prefix+"_PORT", 5432)
	if err != nil {
		return DatabaseConfig{}, err
	}

	maxConns, err := getEnvInt(prefix+"_MAX_CONNS", 25)
	if err != nil {
		return DatabaseConfig{}, err
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"_HOST", "localhost"),
		Port:     port,
		User:     getEnv(prefix+"_USER", "orgd"),
		Password: getEnv(prefix+"_PASSWORD", ""),
		DBName:   getEnv(prefix+"_NAME", defaultName),
		SSLMode:  getEnv(prefix+"_SSLMODE", "disable"),
		MaxConns: maxConns,
	}, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("ORGD_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ORGD_JWT_SECRET must be at least 32 characters")
	}

	if (c.MasterDB.SSLMode == "disable" || c.TenantDB.SSLMode == "disable") && !c.SelfHosted {
		log.Warn().Msg("sslmode=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	// Bounds checks.
	for _, db := range []struct {
		prefix string
		cfg    DatabaseConfig
	}{
		{"ORGD_MASTER_DB", c.MasterDB},
		{"ORGD_TENANT_DB", c.TenantDB},
	} {
		if db.cfg.Port < 1 || db.cfg.Port > 65535 {
			return fmt.Errorf("%s_PORT must be 1-65535, got %d", db.prefix, db.cfg.Port)
		}
		if db.cfg.MaxConns < 1 {
			return fmt.Errorf("%s_MAX_CONNS must be >= 1, got %d", db.prefix, db.cfg.MaxConns)
		}
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("ORGD_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.Redis.LockTTL <= 0 {
		return fmt.Errorf("ORGD_REDIS_LOCK_TTL must be positive, got %s", c.Redis.LockTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("ORGD_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("ORGD_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
