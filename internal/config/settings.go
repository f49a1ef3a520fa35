package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"sentinel/internal/support"
)

const (
	DefaultPort = 5000

	AuthModeStrict     = "strict"
	AuthModePermissive = "permissive"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	// developmentSecret signs tokens when JWT_SECRET_KEY is unset outside production.
	developmentSecret = "sentinel-development-secret"
)

var (
	ErrUnknownDriver      = errors.New("unknown database driver")
	ErrUnknownAuthMode    = errors.New("unknown auth mode")
	ErrPermissiveInProd   = errors.New("permissive auth mode is not allowed in production")
	ErrMissingSecret      = errors.New("JWT_SECRET_KEY is required in production")
	ErrInvalidPort        = errors.New("port must be between 1 and 65535")
	ErrMissingSQLitePath  = errors.New("SQLITE_PATH must not be empty")
	ErrInvalidQueryWindow = errors.New("DB_QUERY_TIMEOUT_MS must be positive")
)

type Config struct {
	Port       int
	Production bool
	Debug      bool
	LogLevel   string

	AuthMode  string
	JWTSecret string

	Database Database

	// RedisURL is optional. When set, Redis reachability is part of /health.
	RedisURL string
}

type Database struct {
	Driver string

	URL      string
	Host     string
	Port     string
	Name     string
	User     string
	Password string
	SSLMode  string

	SQLitePath string

	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration

	QueryTimeout time.Duration
	AutoMigrate  bool
}

// Load reads the process environment. production and debug come from the
// command line and are overridden by PRODUCTION and DEBUG when those are set.
// Port is left at DefaultPort; the caller resolves PORT and BACKEND_PORT
// against its -port flag.
func Load(production, debug bool) Config {
	production = support.GetEnvBool("PRODUCTION", production)
	debug = support.GetEnvBool("DEBUG", debug)

	defaultLevel := "debug"
	if production {
		defaultLevel = "info"
	}

	cfg := Config{
		Port:       DefaultPort,
		Production: production,
		Debug:      debug,
		LogLevel:   strings.ToLower(support.FirstEnv(defaultLevel, "LOG_LEVEL")),
		AuthMode:   strings.ToLower(strings.TrimSpace(support.FirstEnv(AuthModeStrict, "AUTH_MODE"))),
		JWTSecret:  support.FirstEnv("", "JWT_SECRET_KEY"),
		RedisURL:   strings.TrimSpace(support.FirstEnv("", "REDIS_URL")),
		Database:   loadDatabase(),
	}

	if cfg.JWTSecret == "" && !cfg.Production {
		log.Warn("JWT_SECRET_KEY not set, using development secret")
		cfg.JWTSecret = developmentSecret
	}

	return cfg
}

func loadDatabase() Database {
	return Database{
		Driver:          strings.ToLower(strings.TrimSpace(support.FirstEnv(DriverPostgres, "DB_DRIVER"))),
		URL:             support.FirstEnv("", "DATABASE_URL"),
		Host:            support.FirstEnv("localhost", "DB_HOST"),
		Port:            support.FirstEnv("5432", "DB_PORT"),
		Name:            support.FirstEnv("blacklist", "DB_NAME"),
		User:            support.FirstEnv("postgres", "DB_USERNAME"),
		Password:        support.FirstEnv("postgres", "DB_PASSWORD"),
		SSLMode:         support.FirstEnv("disable", "DB_SSLMODE"),
		SQLitePath:      support.FirstEnv("sentinel.db", "SQLITE_PATH"),
		MaxOpenConns:    support.GetEnvInt("DB_MAX_OPEN_CONNS", 32),
		MaxIdleConns:    support.GetEnvInt("DB_MAX_IDLE_CONNS", 16),
		ConnMaxLifetime: time.Duration(support.GetEnvInt("DB_CONN_MAX_LIFETIME", 300)) * time.Second,
		ConnMaxIdleTime: time.Duration(support.GetEnvInt("DB_CONN_MAX_IDLE_TIME", 60)) * time.Second,
		QueryTimeout:    support.GetEnvMillis("DB_QUERY_TIMEOUT_MS", 5*time.Second),
		AutoMigrate:     support.GetEnvBool("DB_AUTO_MIGRATE", true),
	}
}

func (c Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	switch c.AuthMode {
	case AuthModeStrict:
	case AuthModePermissive:
		if c.Production {
			return ErrPermissiveInProd
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAuthMode, c.AuthMode)
	}

	if c.AuthMode == AuthModeStrict && c.JWTSecret == "" {
		return ErrMissingSecret
	}

	return c.Database.Validate()
}

func (d Database) Validate() error {
	switch d.Driver {
	case DriverPostgres:
	case DriverSQLite:
		if strings.TrimSpace(d.SQLitePath) == "" {
			return ErrMissingSQLitePath
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownDriver, d.Driver)
	}

	if d.QueryTimeout <= 0 {
		return ErrInvalidQueryWindow
	}
	return nil
}

// DSN returns the connection string for the configured driver. DATABASE_URL
// wins over the individual PostgreSQL settings.
func (d Database) DSN() string {
	if d.Driver == DriverSQLite {
		return d.SQLitePath
	}
	if d.URL != "" {
		return d.URL
	}

	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// Redacted describes the target database without credentials, for logging.
func (d Database) Redacted() string {
	if d.Driver == DriverSQLite {
		return "sqlite:" + d.SQLitePath
	}
	if d.URL != "" {
		if parsed, err := url.Parse(d.URL); err == nil {
			return parsed.Redacted()
		}
		return "postgres:<unparsable url>"
	}
	return fmt.Sprintf("postgres://%s@%s:%s/%s", d.User, d.Host, d.Port, d.Name)
}

// ParseLogLevel falls back to info for unknown names.
func ParseLogLevel(name string) log.Level {
	level, err := log.ParseLevel(name)
	if err != nil {
		return log.InfoLevel
	}
	return level
}
