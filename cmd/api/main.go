// @title                       Vehicle Price Marketplace API
// @version                     1.0
// @description                 Vehicle price reports, approvals, reviews and price estimates.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/carvalue/marketplace-api/internal/api"
	"github.com/carvalue/marketplace-api/internal/api/handler"
	"github.com/carvalue/marketplace-api/internal/core/ports"
	"github.com/carvalue/marketplace-api/internal/core/service"
	"github.com/carvalue/marketplace-api/internal/infrastructure/config"
	mongodb "github.com/carvalue/marketplace-api/internal/infrastructure/db/mongo"
	redisdb "github.com/carvalue/marketplace-api/internal/infrastructure/db/redis"
	"github.com/carvalue/marketplace-api/internal/infrastructure/db/sqlite"
	"github.com/carvalue/marketplace-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

type repositories struct {
	users   ports.UserRepository
	reports ports.ReportRepository
	reviews ports.ReviewRepository
	check   handler.Check
	close   func(context.Context) error
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: "marketplace-api",
	})

	repos, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := repos.close(context.Background()); err != nil {
			log.Error().Err(err).Msg("closing store")
		}
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	authService := service.NewAuthService(repos.users, redisdb.NewRevocationList(rdb), service.AuthConfig{
		JWTSecret:           cfg.Auth.JWTSecret,
		TokenTTL:            cfg.Auth.TokenTTL,
		BootstrapAdminEmail: cfg.Auth.BootstrapAdminEmail,
	}, component(log, "auth"))

	e := api.NewRouter(api.Deps{
		Auth:    authService,
		Users:   service.NewUserService(repos.users, component(log, "users")),
		Reports: service.NewReportService(repos.reports, repos.users, component(log, "reports")),
		Reviews: service.NewReviewService(repos.reviews, repos.reports, component(log, "reviews")),
		HealthChecks: []handler.Check{
			repos.check,
			{Name: "redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }},
		},
		Logger: log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.Store.Driver).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config) (*repositories, error) {
	switch cfg.Store.Driver {
	case config.DriverMongo:
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, err
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &repositories{
			users:   mongodb.NewUserRepository(db),
			reports: mongodb.NewReportRepository(db),
			reviews: mongodb.NewReviewRepository(db),
			check:   handler.Check{Name: "mongodb", Ping: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			close:   client.Disconnect,
		}, nil

	case config.DriverSQLite:
		store, err := sqlite.Open(ctx, cfg.SQLite.Path)
		if err != nil {
			return nil, err
		}
		return &repositories{
			users:   sqlite.NewUserRepository(store),
			reports: sqlite.NewReportRepository(store),
			reviews: sqlite.NewReviewRepository(store),
			check:   handler.Check{Name: "sqlite", Ping: store.Ping},
			close:   func(context.Context) error { return store.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}

func component(log zerolog.Logger, name string) zerolog.Logger {
	return log.With().Str("component", name).Logger()
}
