package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/migrations"
)

// Migrator обёртка над goose
type Migrator struct {
	db      *sql.DB
	dialect string
	dir     string
	ownsDB  bool
	logger  *zap.Logger
}

// NewPostgresMigrator создаёт мигратор для PostgreSQL
func NewPostgresMigrator(pool *pgxpool.Pool, logger *zap.Logger) *Migrator {
	// Goose работает с *sql.DB, поэтому создаём его из пула
	return &Migrator{
		db:      stdlib.OpenDBFromPool(pool),
		dialect: "postgres",
		dir:     migrations.PostgresDir,
		ownsDB:  true,
		logger:  logger,
	}
}

// NewSQLiteMigrator создаёт мигратор для SQLite поверх уже открытой базы
func NewSQLiteMigrator(db *sql.DB, logger *zap.Logger) *Migrator {
	return &Migrator{
		db:      db,
		dialect: "sqlite3",
		dir:     migrations.SQLiteDir,
		logger:  logger,
	}
}

func (mg *Migrator) prepare() error {
	goose.SetBaseFS(migrations.FS)
	if err := goose.SetDialect(mg.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	return nil
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	if err := mg.prepare(); err != nil {
		return err
	}

	mg.logger.Info("Applying database migrations", zap.String("dialect", mg.dialect))

	if err := goose.UpContext(ctx, mg.db, mg.dir); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	mg.logger.Info("Migrations applied successfully")
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	if err := mg.prepare(); err != nil {
		return 0, err
	}

	version, err := goose.GetDBVersionContext(ctx, mg.db)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает соединение мигратора, если оно создано им самим
func (mg *Migrator) Close() error {
	// Пул и SQLite база управляются в main
	if mg.ownsDB && mg.db != nil {
		return mg.db.Close()
	}
	return nil
}
