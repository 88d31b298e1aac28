package cache

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/infrastructure/config"
)

// NewIdempotencyStore builds the webhook dedupe store selected by configuration.
// The "redis" backend requires a reachable Redis; there is no silent fallback
// because a per-process dedupe map would reprocess webhook replays delivered
// to a different instance.
func NewIdempotencyStore(webhookCfg config.WebhookConfig, redisCfg config.RedisConfig, logger *zap.Logger) (shared.IdempotencyStore, error) {
	switch webhookCfg.DedupeBackend {
	case "redis":
		store, err := NewRedisIdempotencyStore(RedisConfig{
			Host:     redisCfg.Host,
			Port:     redisCfg.Port,
			Password: redisCfg.Password,
			DB:       redisCfg.DB,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis idempotency store: %w", err)
		}
		logger.Info("using Redis webhook dedupe store")
		return store, nil
	case "memory":
		logger.Warn("using in-memory webhook dedupe store; replays delivered to another instance will be reprocessed")
		return NewInMemoryIdempotencyStore(), nil
	default:
		return nil, fmt.Errorf("unknown dedupe backend %q", webhookCfg.DedupeBackend)
	}
}
