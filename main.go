package main

import (
	"context"
	"fmt"
	"os"

	"pixelnote/config"
	"pixelnote/infra"
	"pixelnote/migrations"
	"pixelnote/repositories"
	"pixelnote/server"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// app holds what every command needs once config is loaded.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap(cmd *cli.Command) (*app, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := infra.NewLogger(cfg.App)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := infra.SetupDB(cfg.Database, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = a.log.Sync()
}

func (a *app) tokenRepository(ctx context.Context) (repositories.ITokenRepository, func() error, error) {
	return infra.SetupTokenRepository(ctx, a.cfg.Revocation, a.db, a.log)
}

func serve(ctx context.Context, cmd *cli.Command) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if a.cfg.Database.AutoMigrate {
		if err := migrations.Run(a.db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
		a.log.Info("Database migrated")
	}

	tokens, closeTokens, err := a.tokenRepository(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeTokens() }()

	authService, err := server.NewAuthService(a.db, tokens, a.cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	if a.cfg.App.IsProd() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.SetupRouter(server.Deps{
		DB:          a.db,
		AuthService: authService,
		Config:      a.cfg.App,
		Log:         a.log,
	})

	return server.Serve(ctx, a.cfg.App.Address(), router, a.log)
}

func migrate(_ context.Context, cmd *cli.Command) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if err := migrations.Run(a.db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	a.log.Info("Database migrated", zap.String("driver", a.cfg.Database.Driver))
	return nil
}

func cleanTokens(ctx context.Context, cmd *cli.Command) error {
	a, err := bootstrap(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	tokens, closeTokens, err := a.tokenRepository(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = closeTokens() }()

	authService, err := server.NewAuthService(a.db, tokens, a.cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to create auth service: %w", err)
	}

	removed, err := authService.CleanExpiredTokens(ctx)
	if err != nil {
		return fmt.Errorf("failed to clean revoked tokens: %w", err)
	}
	a.log.Info("Expired revocations removed",
		zap.Int64("count", removed),
		zap.String("backend", a.cfg.Revocation.Backend),
	)
	return nil
}

func main() {
	cmd := &cli.Command{
		Name:   "pixelnote",
		Usage:  "Notes, reminders and drawings API",
		Action: serve,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to an optional YAML config file",
				Sources: cli.EnvVars("APP_CONFIG_FILE"),
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP API",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Create or update the database schema and exit",
				Action: migrate,
			},
			{
				Name:   "clean-tokens",
				Usage:  "Purge revocation records of tokens that have expired",
				Action: cleanTokens,
			},
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "pixelnote: %v\n", err)
		os.Exit(1)
	}
}
