package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"sentinel/internal/app/server"
	"sentinel/internal/auth"
	"sentinel/internal/blacklist"
	"sentinel/internal/config"
	"sentinel/internal/database"
	"sentinel/internal/health"
	"sentinel/internal/support"
)

// Components holds everything the process owns for its lifetime.
type Components struct {
	Server *server.Server
	DB     *gorm.DB
	Redis  *redis.Client
}

// Setup wires the store, services and HTTP server from cfg.
func Setup(ctx context.Context, cfg config.Config, opts ...database.Option) (*Components, error) {
	mode, err := auth.ParseMode(cfg.AuthMode)
	if err != nil {
		return nil, err
	}
	if mode == auth.ModePermissive {
		log.Warn("Permissive auth mode enabled: any bearer token is accepted")
	}

	db, err := database.Open(cfg.Database, cfg.Debug, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to set up database: %w", err)
	}

	components := &Components{DB: db}

	store := database.NewEntryStore(db, cfg.Database.QueryTimeout)
	probes := []health.Probe{}

	if cfg.RedisURL != "" {
		client, err := support.NewRedisClient(cfg.RedisURL)
		if err != nil {
			_ = components.Close()
			return nil, err
		}
		components.Redis = client
		if err := support.PingRedis(ctx, client); err != nil {
			log.Warn("Redis not reachable at startup", "error", err)
		}
		probes = append(probes, health.RedisProbe{Client: client})
	}

	issuer := auth.NewIssuer(cfg.JWTSecret)
	srv, err := server.New(server.Deps{
		Blacklist: blacklist.NewService(store),
		Gate:      auth.NewGate(mode, cfg.JWTSecret, issuer),
		Issuer:    issuer,
		Health:    health.NewAggregator(health.DatabaseProbe{Store: store}, health.WithExternal(probes...)),
		Debug:     cfg.Debug,
	})
	if err != nil {
		_ = components.Close()
		return nil, err
	}
	components.Server = srv

	return components, nil
}

func (c *Components) Close() error {
	var errs []error
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if err := database.Close(c.DB); err != nil {
		errs = append(errs, fmt.Errorf("close database: %w", err))
	}
	return errors.Join(errs...)
}
