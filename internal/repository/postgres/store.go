package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

// Store хранилище поверх пула соединений
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

// NewStore создаёт хранилище
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	return &Store{pool: pool, logger: logger}
}

// WithinTx выполняет fn в одной транзакции; ошибка откатывает всё
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	pgTx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer pgTx.Rollback(ctx)

	if err := fn(ctx, newTxRepos(pgTx)); err != nil {
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

// txRepos репозитории, привязанные к одной транзакции
type txRepos struct {
	trips       *TripRepository
	activities  *ActivityRepository
	occurrences *OccurrenceRepository
}

func newTxRepos(db Querier) *txRepos {
	return &txRepos{
		trips:       NewTripRepository(db),
		activities:  NewActivityRepository(db),
		occurrences: NewOccurrenceRepository(db),
	}
}

func (t *txRepos) CreateTrip(ctx context.Context, trip *model.Trip) error {
	return t.trips.Create(ctx, trip)
}

func (t *txRepos) GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	return t.trips.GetByID(ctx, id)
}

func (t *txRepos) CreateActivity(ctx context.Context, activity *model.Activity) error {
	return t.activities.Create(ctx, activity)
}

func (t *txRepos) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	return t.activities.GetByID(ctx, id)
}

func (t *txRepos) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	return t.activities.Update(ctx, activity)
}

func (t *txRepos) ListChildActivities(ctx context.Context, parentID uuid.UUID) ([]*model.Activity, error) {
	return t.activities.GetChildren(ctx, parentID)
}

func (t *txRepos) ListTripActivities(ctx context.Context, tripID uuid.UUID) ([]*model.Activity, error) {
	return t.activities.GetByTripID(ctx, tripID)
}

func (t *txRepos) ListStaleRecurringActivities(ctx context.Context) ([]*model.Activity, error) {
	return t.activities.GetStale(ctx)
}

func (t *txRepos) CreateOccurrence(ctx context.Context, occurrence *model.Occurrence) error {
	return t.occurrences.Create(ctx, occurrence)
}

func (t *txRepos) GetOccurrence(ctx context.Context, id uuid.UUID) (*model.Occurrence, error) {
	return t.occurrences.GetByID(ctx, id)
}

func (t *txRepos) ListOccurrences(ctx context.Context, activityID uuid.UUID) ([]*model.Occurrence, error) {
	return t.occurrences.GetByActivityID(ctx, activityID)
}

func (t *txRepos) CountOccurrences(ctx context.Context, activityID uuid.UUID) (int, error) {
	return t.occurrences.CountByActivityID(ctx, activityID)
}

func (t *txRepos) UpdateOccurrence(ctx context.Context, occurrence *model.Occurrence) error {
	return t.occurrences.Update(ctx, occurrence)
}

func (t *txRepos) DeleteOccurrences(ctx context.Context, ids []uuid.UUID) (int64, error) {
	return t.occurrences.DeleteByIDs(ctx, ids)
}

var _ repository.Store = (*Store)(nil)
var _ repository.Tx = (*txRepos)(nil)
