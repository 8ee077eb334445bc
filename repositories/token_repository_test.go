package repositories

import (
	"context"
	"os"
	"testing"
	"time"

	"pixelnote/models"
	"pixelnote/testutil"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRepository_RevokeAndCheck(t *testing.T) {
	ctx := context.Background()
	repo := NewTokenRepository(testutil.NewDB(t))

	revoked, err := repo.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.AddRevokedToken(ctx, "jti-1", time.Now().Add(time.Hour).Unix()))
	// Revoking twice is fine
	require.NoError(t, repo.AddRevokedToken(ctx, "jti-1", time.Now().Add(time.Hour).Unix()))

	revoked, err = repo.IsTokenRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestTokenRepository_CleanExpired(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := NewTokenRepository(db)

	require.NoError(t, repo.AddRevokedToken(ctx, "expired", time.Now().Add(-time.Minute).Unix()))
	require.NoError(t, repo.AddRevokedToken(ctx, "live", time.Now().Add(time.Hour).Unix()))
	require.NoError(t, repo.AddRevokedToken(ctx, "forever", 0))

	removed, err := repo.CleanExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	var remaining []models.RevokedToken
	require.NoError(t, db.Order("token_id").Find(&remaining).Error)
	require.Len(t, remaining, 2)
	assert.Equal(t, "forever", remaining[0].TokenID)
	assert.Equal(t, "live", remaining[1].TokenID)
}

// Runs against a real redis only when REDIS_ADDR is set.
func TestRedisTokenRepository(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })
	require.NoError(t, client.Ping(ctx).Err())

	repo := NewRedisTokenRepository(client)
	tokenID := uuid.NewString()
	t.Cleanup(func() { client.Del(ctx, revokedKey(tokenID)) })

	revoked, err := repo.IsTokenRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, repo.AddRevokedToken(ctx, tokenID, time.Now().Add(time.Minute).Unix()))
	revoked, err = repo.IsTokenRevoked(ctx, tokenID)
	require.NoError(t, err)
	assert.True(t, revoked)

	ttl, err := client.TTL(ctx, revokedKey(tokenID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
	assert.LessOrEqual(t, ttl, time.Minute)

	// Already expired tokens are not stored at all
	staleID := uuid.NewString()
	require.NoError(t, repo.AddRevokedToken(ctx, staleID, time.Now().Add(-time.Minute).Unix()))
	revoked, err = repo.IsTokenRevoked(ctx, staleID)
	require.NoError(t, err)
	assert.False(t, revoked)

	removed, err := repo.CleanExpiredTokens(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}
