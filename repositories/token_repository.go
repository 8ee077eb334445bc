package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pixelnote/models"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// ITokenRepository remembers revoked tokens by their jti until they expire.
// expiresAt is a unix timestamp; 0 means the token never expires.
type ITokenRepository interface {
	AddRevokedToken(ctx context.Context, tokenID string, expiresAt int64) error
	IsTokenRevoked(ctx context.Context, tokenID string) (bool, error)
	CleanExpiredTokens(ctx context.Context) (int64, error)
}

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) ITokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) AddRevokedToken(ctx context.Context, tokenID string, expiresAt int64) error {
	revoked := models.RevokedToken{
		TokenID:   tokenID,
		ExpiresAt: expiresAt,
	}
	result := r.db.WithContext(ctx).Create(&revoked)
	if result.Error != nil {
		// Logging out twice is not an error
		if isDuplicate(result.Error) {
			return nil
		}
		return translate(result.Error)
	}
	return nil
}

func (r *TokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var count int64
	result := r.db.WithContext(ctx).Model(&models.RevokedToken{}).Where("token_id = ?", tokenID).Count(&count)
	if result.Error != nil {
		return false, translate(result.Error)
	}
	return count > 0, nil
}

func (r *TokenRepository) CleanExpiredTokens(ctx context.Context) (int64, error) {
	now := time.Now().Unix()
	result := r.db.WithContext(ctx).Unscoped().
		Where("expires_at > 0 AND expires_at < ?", now).
		Delete(&models.RevokedToken{})
	if result.Error != nil {
		return 0, translate(result.Error)
	}
	return result.RowsAffected, nil
}

// RedisTokenRepository keeps revocations as keys whose TTL matches the
// token's remaining lifetime, so expired entries vanish on their own.
type RedisTokenRepository struct {
	client *redis.Client
}

func NewRedisTokenRepository(client *redis.Client) ITokenRepository {
	return &RedisTokenRepository{client: client}
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("revoked:%s", tokenID)
}

func (r *RedisTokenRepository) AddRevokedToken(ctx context.Context, tokenID string, expiresAt int64) error {
	var ttl time.Duration
	if expiresAt > 0 {
		ttl = time.Until(time.Unix(expiresAt, 0))
		if ttl <= 0 {
			return nil
		}
	}
	if err := r.client.Set(ctx, revokedKey(tokenID), expiresAt, ttl).Err(); err != nil {
		return translate(err)
	}
	return nil
}

func (r *RedisTokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, revokedKey(tokenID)).Err()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, translate(err)
	}
	return true, nil
}

// CleanExpiredTokens is a no-op: redis expires the keys itself.
func (r *RedisTokenRepository) CleanExpiredTokens(ctx context.Context) (int64, error) {
	return 0, nil
}
