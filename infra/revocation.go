package infra

import (
	"context"
	"fmt"

	"pixelnote/config"
	"pixelnote/repositories"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SetupTokenRepository returns the revocation store selected by config.
// The returned close function releases the redis client, if any.
func SetupTokenRepository(ctx context.Context, cfg config.RevocationConfig, db *gorm.DB, log *zap.Logger) (repositories.ITokenRepository, func() error, error) {
	if cfg.Backend != config.RevocationRedis {
		log.Info("Using database token revocation")
		return repositories.NewTokenRepository(db), func() error { return nil }, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("could not connect to redis (%s): %w", cfg.RedisAddr, err)
	}
	log.Info("Using redis token revocation", zap.String("addr", cfg.RedisAddr))
	return repositories.NewRedisTokenRepository(client), client.Close, nil
}
