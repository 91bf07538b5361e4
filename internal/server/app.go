// Package server wires the auth application together: configuration,
// database, migrations, the auth service and the HTTP endpoint, plus
// graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/avpetrov/authcore/internal/logging"
	"github.com/avpetrov/authcore/internal/server/auth"
	"github.com/avpetrov/authcore/internal/server/config"
	"github.com/avpetrov/authcore/internal/server/httpapi"
	"github.com/avpetrov/authcore/internal/server/migrations"
	"github.com/avpetrov/authcore/internal/server/repositories/users"
	"github.com/avpetrov/authcore/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	if err := migrations.Run(ctx, db); err != nil {
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	repo := users.NewPostgresRepository(db)
	hasher := auth.NewPasswordHasher(cfg.BcryptCost)
	codec := auth.NewCodec(
		[]byte(cfg.JWTSecret), []byte(cfg.JWTRefreshSecret),
		cfg.JWTDuration, cfg.JWTRefreshDuration, logger)
	authService := services.NewAuthService(repo, hasher, codec, logger)

	srv := httpapi.NewServer(cfg, logger, authService, codec, repo)

	return &App{config: cfg, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	err := app.server.Run(ctx)

	if closeErr := app.db.Close(); closeErr != nil {
		app.logger.Error(ctx, "closing db", "error", closeErr)
	}

	return err
}
