package health

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"

	"sentinel/internal/support"
)

// Pinger is satisfied by database.EntryStore.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseProbe reports the entry store as down when it cannot be pinged.
type DatabaseProbe struct {
	Store Pinger
}

func (DatabaseProbe) Name() string { return "database" }

func (p DatabaseProbe) Check(ctx context.Context) (bool, error) {
	if err := p.Store.Ping(ctx); err != nil {
		log.Warn("Database ping failed", "error", err)
		return false, nil
	}
	return true, nil
}

// RedisProbe checks an optional Redis dependency.
type RedisProbe struct {
	Client *redis.Client
}

func (RedisProbe) Name() string { return "redis" }

func (p RedisProbe) Check(ctx context.Context) (bool, error) {
	if err := support.PingRedis(ctx, p.Client); err != nil {
		log.Warn("Redis ping failed", "error", err)
		return false, nil
	}
	return true, nil
}
