package config

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "BACKEND_PORT", "PRODUCTION", "DEBUG", "LOG_LEVEL", "AUTH_MODE",
		"JWT_SECRET_KEY", "REDIS_URL", "DB_DRIVER", "DATABASE_URL", "DB_HOST",
		"DB_PORT", "DB_NAME", "DB_USERNAME", "DB_PASSWORD", "DB_SSLMODE",
		"SQLITE_PATH", "DB_QUERY_TIMEOUT_MS", "DB_AUTO_MIGRATE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg := Load(false, false)

	if cfg.Port != DefaultPort {
		t.Fatalf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
	if cfg.AuthMode != AuthModeStrict {
		t.Fatalf("AuthMode = %q, want strict", cfg.AuthMode)
	}
	if cfg.JWTSecret != developmentSecret {
		t.Fatalf("expected development secret outside production, got %q", cfg.JWTSecret)
	}
	if cfg.Database.QueryTimeout != 5*time.Second {
		t.Fatalf("QueryTimeout = %s, want 5s", cfg.Database.QueryTimeout)
	}
	if !cfg.Database.AutoMigrate {
		t.Fatal("AutoMigrate should be enabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestLoadEnvOverridesFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("PRODUCTION", "true")
	t.Setenv("DEBUG", "1")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg := Load(false, false)
	if !cfg.Production || !cfg.Debug {
		t.Fatalf("expected env to enable production and debug, got %+v", cfg)
	}
	if cfg.JWTSecret != "s3cret" {
		t.Fatalf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoadLeavesPortToCaller(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "8080")
	t.Setenv("BACKEND_PORT", "9090")

	if cfg := Load(false, false); cfg.Port != DefaultPort {
		t.Fatalf("Port = %d, want %d", cfg.Port, DefaultPort)
	}
}

func TestLoadProductionKeepsEmptySecret(t *testing.T) {
	clearEnv(t)

	cfg := Load(true, false)
	if cfg.JWTSecret != "" {
		t.Fatalf("production must not fall back to a development secret")
	}
	if err := cfg.Validate(); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("Validate = %v, want ErrMissingSecret", err)
	}
}

func TestValidate(t *testing.T) {
	base := Config{
		Port:      5000,
		AuthMode:  AuthModeStrict,
		JWTSecret: "secret",
		Database: Database{
			Driver:       DriverSQLite,
			SQLitePath:   "test.db",
			QueryTimeout: time.Second,
		},
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		want   error
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = 0 }, want: ErrInvalidPort},
		{name: "unknown mode", mutate: func(c *Config) { c.AuthMode = "open" }, want: ErrUnknownAuthMode},
		{name: "permissive in production", mutate: func(c *Config) { c.AuthMode = AuthModePermissive; c.Production = true }, want: ErrPermissiveInProd},
		{name: "permissive in development", mutate: func(c *Config) { c.AuthMode = AuthModePermissive; c.JWTSecret = "" }},
		{name: "unknown driver", mutate: func(c *Config) { c.Database.Driver = "mysql" }, want: ErrUnknownDriver},
		{name: "empty sqlite path", mutate: func(c *Config) { c.Database.SQLitePath = " " }, want: ErrMissingSQLitePath},
		{name: "zero query timeout", mutate: func(c *Config) { c.Database.QueryTimeout = 0 }, want: ErrInvalidQueryWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.want == nil {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Fatalf("Validate = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDatabaseDSN(t *testing.T) {
	db := Database{Driver: DriverPostgres, Host: "db", Port: "5433", User: "u", Password: "p", Name: "bl", SSLMode: "require"}
	if got := db.DSN(); got != "host=db port=5433 user=u password=p dbname=bl sslmode=require" {
		t.Fatalf("DSN = %q", got)
	}

	db.URL = "postgres://u:p@db:5433/bl"
	if got := db.DSN(); got != db.URL {
		t.Fatalf("DATABASE_URL should win, got %q", got)
	}
	if strings.Contains(db.Redacted(), ":p@") {
		t.Fatalf("Redacted leaked password: %q", db.Redacted())
	}

	lite := Database{Driver: DriverSQLite, SQLitePath: "file.db"}
	if got := lite.DSN(); got != "file.db" {
		t.Fatalf("sqlite DSN = %q", got)
	}
}

func TestParseLogLevel(t *testing.T) {
	if got := ParseLogLevel("warn"); got != log.WarnLevel {
		t.Fatalf("ParseLogLevel(warn) = %v", got)
	}
	if got := ParseLogLevel("nonsense"); got != log.InfoLevel {
		t.Fatalf("ParseLogLevel(nonsense) = %v", got)
	}
}
