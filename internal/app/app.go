package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/config"
	"github.com/Freeeeeet/trip_planner/internal/controller"
	"github.com/Freeeeeet/trip_planner/internal/repository"
	"github.com/Freeeeeet/trip_planner/internal/repository/postgres"
	"github.com/Freeeeeet/trip_planner/internal/repository/sqlite"
	"github.com/Freeeeeet/trip_planner/internal/service"
	"github.com/Freeeeeet/trip_planner/internal/tripwindow"
	"github.com/Freeeeeet/trip_planner/internal/validation"
)

const shutdownTimeout = 15 * time.Second

// App собранное приложение: хранилище, сервисы, HTTP сервер и планировщик
type App struct {
	cfg       *config.Config
	server    *http.Server
	scheduler *Scheduler
	closers   []func() error
	logger    *zap.Logger
}

// New подключается к хранилищу, применяет миграции и собирает зависимости
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	a := &App{cfg: cfg, logger: logger}

	store, err := a.openStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	trips := service.NewTripService(store, logger)

	var windows tripwindow.Provider = trips
	if cfg.CacheEnabled() {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		a.closers = append(a.closers, client.Close)
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warn("Redis is unreachable, trip windows will be read from the store", zap.Error(err))
		}
		windows = tripwindow.NewCachedProvider(trips, client, cfg.TripWindowTTL, logger)
	}

	series := service.NewSeriesService(store, windows, service.NewGeneralizer(logger), logger)
	handlers := controller.NewHandlers(trips, series, validation.New(), logger)

	a.server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      controller.NewRouter(handlers, logger),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	a.scheduler = NewScheduler(series, cfg.SweepCron, logger)

	return a, nil
}

func (a *App) openStore(ctx context.Context) (repository.Store, error) {
	switch a.cfg.DBDriver {
	case config.DriverSQLite:
		db, err := sqlite.Open(a.cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)

		if err := a.migrate(ctx, NewSQLiteMigrator(db, a.logger)); err != nil {
			return nil, err
		}
		return sqlite.NewStore(db, a.logger), nil

	default:
		pool, err := pgxpool.New(ctx, a.cfg.DBDSN)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, func() error {
			pool.Close()
			return nil
		})

		if err := pool.Ping(ctx); err != nil {
			return nil, fmt.Errorf("ping postgres: %w", err)
		}

		if err := a.migrate(ctx, NewPostgresMigrator(pool, a.logger)); err != nil {
			return nil, err
		}
		return postgres.NewStore(pool, a.logger), nil
	}
}

func (a *App) migrate(ctx context.Context, migrator *Migrator) error {
	defer migrator.Close()

	if err := migrator.Run(ctx); err != nil {
		return err
	}

	version, err := migrator.Version(ctx)
	if err != nil {
		return err
	}
	a.logger.Info("Database ready", zap.String("driver", a.cfg.DBDriver), zap.Int64("schema_version", version))
	return nil
}

// Run обслуживает HTTP запросы до отмены ctx, затем корректно останавливается
func (a *App) Run(ctx context.Context) error {
	defer a.close()

	if err := a.scheduler.Start(ctx); err != nil {
		return err
	}
	defer a.scheduler.Stop()

	serverErr := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return nil
}

func (a *App) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("Failed to release resource", zap.Error(err))
		}
	}
	a.closers = nil
}

