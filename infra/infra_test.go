package infra

import (
	"context"
	"path/filepath"
	"testing"

	"pixelnote/config"
	"pixelnote/migrations"
	"pixelnote/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.AppConfig{Env: "prod", LogLevel: "warn"})
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, log.Core().Enabled(zapcore.WarnLevel))

	log, err = NewLogger(config.AppConfig{Env: "dev", LogLevel: "bogus"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))
}

func TestSetupDBSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelnote.db")
	db, err := SetupDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: path}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, migrations.Run(db))
	// Running twice is harmless
	require.NoError(t, migrations.Run(db))

	for _, table := range []string{"users", "revoked_tokens", "notes", "reminders", "drawings"} {
		assert.True(t, db.Migrator().HasTable(table), table)
	}
}

func TestSetupDBUnknownDriver(t *testing.T) {
	_, err := SetupDB(config.DatabaseConfig{Driver: "mysql", DSN: "x"}, zap.NewNop())
	assert.Error(t, err)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?_foreign_keys=on&_busy_timeout=5000", sqliteDSN("a.db"))
	assert.Equal(t, "file:x?mode=memory", sqliteDSN("file:x?mode=memory"))
}

func TestSetupTokenRepositoryDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pixelnote.db")
	db, err := SetupDB(config.DatabaseConfig{Driver: config.DriverSQLite, DSN: path}, zap.NewNop())
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo, closeFn, err := SetupTokenRepository(context.Background(), config.RevocationConfig{Backend: config.RevocationDatabase}, db, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &repositories.TokenRepository{}, repo)
	assert.NoError(t, closeFn())
}

func TestSetupTokenRepositoryRedisUnreachable(t *testing.T) {
	_, _, err := SetupTokenRepository(context.Background(), config.RevocationConfig{
		Backend:   config.RevocationRedis,
		RedisAddr: "127.0.0.1:1",
	}, nil, zap.NewNop())
	assert.Error(t, err)
}
