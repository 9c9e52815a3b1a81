package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/Killzin1000/quality-estetica2/config"
	redisadapter "github.com/Killzin1000/quality-estetica2/internal/adapters/redis"
	"github.com/Killzin1000/quality-estetica2/internal/bootstrap"
	"github.com/Killzin1000/quality-estetica2/internal/ports"
)

var errRedisNotConfigured = errors.New("redis not configured")

// sessionInfra is the optional Redis side of an access change. When it is missing,
// running dashboards only see the change once their cached profile expires.
type sessionInfra struct {
	Client redis.UniversalClient
	Cache  ports.ProfileCache
	Events ports.SessionEventBus
}

// connectSessionInfra attaches the profile cache and event bus when Redis is configured.
func connectSessionInfra(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (*sessionInfra, error) {
	client, err := maybeConnectRedis(ctx, logger, cfg)
	if errors.Is(err, errRedisNotConfigured) {
		logger.Info("no redis configuration detected; live sessions will not be notified")
		return &sessionInfra{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &sessionInfra{
		Client: client,
		Cache:  redisadapter.NewProfileCache(client, cfg.ProfileCacheTTL),
		Events: redisadapter.NewEventBus(client, cfg.EventsChannel, logger),
	}, nil
}

func (s *sessionInfra) Close() error {
	if s == nil || s.Client == nil {
		return nil
	}
	if err := s.Client.Close(); err != nil {
		return fmt.Errorf("close redis: %w", err)
	}
	return nil
}

// maybeConnectRedis returns a connected client when configuration is present.
//
//nolint:ireturn // returning redis.UniversalClient keeps sentinel/cluster support flexible.
func maybeConnectRedis(ctx context.Context, logger *slog.Logger, cfg *config.RedisConfig) (redis.UniversalClient, error) {
	if !hasRedisConfig(cfg) {
		return nil, errRedisNotConfigured
	}
	client, err := bootstrap.ConnectRedis(ctx, bootstrap.DatabaseConfig{RedisConfig: *cfg, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("connect redis: %w", err)
	}
	return client, nil
}

func hasRedisConfig(cfg *config.RedisConfig) bool {
	if cfg == nil {
		return false
	}
	if cfg.UseCluster {
		return len(cfg.ClusterNodes) > 0 || cfg.URI != ""
	}
	if cfg.UseSentinel {
		return len(cfg.SentinelNodes) > 0
	}
	return cfg.URI != ""
}
