// Package sqlite встраиваемое хранилище на SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

// Open открывает базу SQLite с включёнными внешними ключами.
// Одно соединение: транзакции сериализуются, а ":memory:" остаётся одной базой.
func Open(path string) (*sql.DB, error) {
	dsn := path
	if strings.Contains(dsn, "?") {
		dsn += "&_foreign_keys=on"
	} else {
		dsn += "?_foreign_keys=on"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

// Store хранилище поверх *sql.DB
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewStore(db *sql.DB, logger *zap.Logger) *Store {
	return &Store{db: db, logger: logger}
}

// WithinTx выполняет fn в одной транзакции; ошибка откатывает всё
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &txRepos{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		s.logger.Error("Failed to commit transaction", zap.Error(err))
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}

type txRepos struct {
	tx *sql.Tx
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func (t *txRepos) CreateTrip(ctx context.Context, trip *model.Trip) error {
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip.CreatedAt = now()
	trip.UpdatedAt = trip.CreatedAt

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO trips (id, title, date_from, date_to, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		trip.ID.String(), trip.Title, trip.From, trip.To, trip.CreatedAt, trip.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

func (t *txRepos) GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip model.Trip
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, title, date_from, date_to, created_at, updated_at FROM trips WHERE id = ?`,
		id.String(),
	).Scan(&trip.ID, &trip.Title, &trip.From, &trip.To, &trip.CreatedAt, &trip.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get trip by id: %w", err)
	}

	return &trip, nil
}

const activityColumns = `
	id, trip_id, title, description, location, duration_minutes,
	recurrence_type, recurrence_interval, recurrence_weekdays, recurrence_end_date, recurrence_count,
	parent_id, created_at, updated_at
`

func (t *txRepos) CreateActivity(ctx context.Context, activity *model.Activity) error {
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = now()
	activity.UpdatedAt = activity.CreatedAt
	rule := repository.ColumnsOf(activity.Recurrence)

	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		activity.ID.String(),
		activity.TripID.String(),
		activity.Title,
		activity.Description,
		activity.Location,
		activity.DurationMinutes,
		rule.Type,
		rule.Interval,
		rule.Weekdays,
		rule.EndDate,
		rule.Count,
		nullableID(activity.ParentID),
		activity.CreatedAt,
		activity.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

func (t *txRepos) GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	activity, err := scanActivity(t.tx.QueryRowContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE id = ?`, id.String()))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get activity by id: %w", err)
	}

	return activity, nil
}

func (t *txRepos) UpdateActivity(ctx context.Context, activity *model.Activity) error {
	activity.UpdatedAt = now()
	rule := repository.ColumnsOf(activity.Recurrence)

	res, err := t.tx.ExecContext(ctx, `
		UPDATE activities
		SET title = ?, description = ?, location = ?, duration_minutes = ?,
			recurrence_type = ?, recurrence_interval = ?, recurrence_weekdays = ?,
			recurrence_end_date = ?, recurrence_count = ?, parent_id = ?, updated_at = ?
		WHERE id = ?`,
		activity.Title,
		activity.Description,
		activity.Location,
		activity.DurationMinutes,
		rule.Type,
		rule.Interval,
		rule.Weekdays,
		rule.EndDate,
		rule.Count,
		nullableID(activity.ParentID),
		activity.UpdatedAt,
		activity.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update activity: %w", model.ErrNotFound)
	}

	return nil
}

func (t *txRepos) ListChildActivities(ctx context.Context, parentID uuid.UUID) ([]*model.Activity, error) {
	return t.listActivities(ctx, "get child activities",
		`SELECT `+activityColumns+` FROM activities WHERE parent_id = ? ORDER BY created_at, id`, parentID.String())
}

func (t *txRepos) ListTripActivities(ctx context.Context, tripID uuid.UUID) ([]*model.Activity, error) {
	return t.listActivities(ctx, "get activities by trip",
		`SELECT `+activityColumns+` FROM activities WHERE trip_id = ? ORDER BY created_at, id`, tripID.String())
}

func (t *txRepos) ListStaleRecurringActivities(ctx context.Context) ([]*model.Activity, error) {
	return t.listActivities(ctx, "get stale activities", `
		SELECT `+activityColumns+`
		FROM activities a
		WHERE (a.recurrence_type IS NOT NULL OR a.parent_id IS NOT NULL)
		  AND NOT EXISTS (SELECT 1 FROM occurrences o WHERE o.activity_id = a.id)
		ORDER BY a.created_at, a.id`)
}

func (t *txRepos) listActivities(ctx context.Context, op, query string, args ...any) ([]*model.Activity, error) {
	rows, err := t.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var activities []*model.Activity
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		activities = append(activities, activity)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return activities, nil
}

func (t *txRepos) CreateOccurrence(ctx context.Context, occurrence *model.Occurrence) error {
	if occurrence.ID == uuid.Nil {
		occurrence.ID = uuid.New()
	}
	occurrence.CreatedAt = now()

	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO occurrences (id, activity_id, start_at, end_at, created_at) VALUES (?, ?, ?, ?, ?)`,
		occurrence.ID.String(), occurrence.ActivityID.String(), occurrence.Start, occurrence.End, occurrence.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}

	return nil
}

func (t *txRepos) GetOccurrence(ctx context.Context, id uuid.UUID) (*model.Occurrence, error) {
	var o model.Occurrence
	err := t.tx.QueryRowContext(ctx,
		`SELECT id, activity_id, start_at, end_at, created_at FROM occurrences WHERE id = ?`, id.String(),
	).Scan(&o.ID, &o.ActivityID, &o.Start, &o.End, &o.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get occurrence by id: %w", err)
	}

	return &o, nil
}

func (t *txRepos) ListOccurrences(ctx context.Context, activityID uuid.UUID) ([]*model.Occurrence, error) {
	rows, err := t.tx.QueryContext(ctx, `
		SELECT id, activity_id, start_at, end_at, created_at
		FROM occurrences
		WHERE activity_id = ?`, activityID.String())
	if err != nil {
		return nil, fmt.Errorf("get occurrences by activity: %w", err)
	}
	defer rows.Close()

	var occurrences []*model.Occurrence
	for rows.Next() {
		var o model.Occurrence
		if err := rows.Scan(&o.ID, &o.ActivityID, &o.Start, &o.End, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan occurrence: %w", err)
		}
		occurrences = append(occurrences, &o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get occurrences by activity: %w", err)
	}

	// строковое представление времени в SQLite не гарантирует порядок, сортируем здесь
	model.SortOccurrences(occurrences)
	return occurrences, nil
}

func (t *txRepos) CountOccurrences(ctx context.Context, activityID uuid.UUID) (int, error) {
	var count int
	err := t.tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM occurrences WHERE activity_id = ?`, activityID.String(),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count occurrences: %w", err)
	}

	return count, nil
}

func (t *txRepos) UpdateOccurrence(ctx context.Context, occurrence *model.Occurrence) error {
	res, err := t.tx.ExecContext(ctx,
		`UPDATE occurrences SET activity_id = ?, start_at = ?, end_at = ? WHERE id = ?`,
		occurrence.ActivityID.String(), occurrence.Start, occurrence.End, occurrence.ID.String(),
	)
	if err != nil {
		return fmt.Errorf("update occurrence: %w", err)
	}

	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update occurrence: %w", model.ErrNotFound)
	}

	return nil
}

func (t *txRepos) DeleteOccurrences(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	placeholders := make([]string, 0, len(ids))
	args := make([]any, 0, len(ids))
	for _, id := range ids {
		placeholders = append(placeholders, "?")
		args = append(args, id.String())
	}

	res, err := t.tx.ExecContext(ctx,
		`DELETE FROM occurrences WHERE id IN (`+strings.Join(placeholders, ", ")+`)`, args...)
	if err != nil {
		return 0, fmt.Errorf("delete occurrences: %w", err)
	}

	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanActivity(row rowScanner) (*model.Activity, error) {
	var (
		activity model.Activity
		rule     repository.RuleColumns
		parentID uuid.NullUUID
	)

	err := row.Scan(
		&activity.ID,
		&activity.TripID,
		&activity.Title,
		&activity.Description,
		&activity.Location,
		&activity.DurationMinutes,
		&rule.Type,
		&rule.Interval,
		&rule.Weekdays,
		&rule.EndDate,
		&rule.Count,
		&parentID,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if parentID.Valid {
		id := parentID.UUID
		activity.ParentID = &id
	}

	activity.Recurrence, err = rule.Rule()
	if err != nil {
		return nil, err
	}

	return &activity, nil
}

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

var _ repository.Store = (*Store)(nil)
var _ repository.Tx = (*txRepos)(nil)
