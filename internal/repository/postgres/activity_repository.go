package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

const activityColumns = `
	id, trip_id, title, description, location, duration_minutes,
	recurrence_type, recurrence_interval, recurrence_weekdays, recurrence_end_date, recurrence_count,
	parent_id, created_at, updated_at
`

// ActivityRepository управляет активностями в базе данных
type ActivityRepository struct {
	db Querier
}

// NewActivityRepository создаёт новый репозиторий
func NewActivityRepository(db Querier) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create создаёт активность
func (r *ActivityRepository) Create(ctx context.Context, activity *model.Activity) error {
	query := `
		INSERT INTO activities (
			id, trip_id, title, description, location, duration_minutes,
			recurrence_type, recurrence_interval, recurrence_weekdays, recurrence_end_date, recurrence_count,
			parent_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	rule := repository.ColumnsOf(activity.Recurrence)

	err := r.db.QueryRow(
		ctx,
		query,
		activity.ID,
		activity.TripID,
		activity.Title,
		activity.Description,
		activity.Location,
		activity.DurationMinutes,
		rule.Type,
		rule.Interval,
		rule.Weekdays,
		rule.EndDate,
		rule.Count,
		activity.ParentID,
	).Scan(&activity.CreatedAt, &activity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create activity: %w", err)
	}

	return nil
}

// GetByID получает активность по ID
func (r *ActivityRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE id = $1`

	activity, err := scanActivity(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get activity by id: %w", err)
	}

	return activity, nil
}

// Update перезаписывает содержимое, правило и родителя активности
func (r *ActivityRepository) Update(ctx context.Context, activity *model.Activity) error {
	query := `
		UPDATE activities
		SET title = $2, description = $3, location = $4, duration_minutes = $5,
			recurrence_type = $6, recurrence_interval = $7, recurrence_weekdays = $8,
			recurrence_end_date = $9, recurrence_count = $10, parent_id = $11,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	rule := repository.ColumnsOf(activity.Recurrence)

	err := r.db.QueryRow(
		ctx,
		query,
		activity.ID,
		activity.Title,
		activity.Description,
		activity.Location,
		activity.DurationMinutes,
		rule.Type,
		rule.Interval,
		rule.Weekdays,
		rule.EndDate,
		rule.Count,
		activity.ParentID,
	).Scan(&activity.UpdatedAt)

	if err != nil {
		return fmt.Errorf("update activity: %w", err)
	}

	return nil
}

// GetChildren получает прямых потомков активности
func (r *ActivityRepository) GetChildren(ctx context.Context, parentID uuid.UUID) ([]*model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE parent_id = $1 ORDER BY created_at, id`

	return r.list(ctx, "get child activities", query, parentID)
}

// GetByTripID получает все активности поездки
func (r *ActivityRepository) GetByTripID(ctx context.Context, tripID uuid.UUID) ([]*model.Activity, error) {
	query := `SELECT ` + activityColumns + ` FROM activities WHERE trip_id = $1 ORDER BY created_at, id`

	return r.list(ctx, "get activities by trip", query, tripID)
}

// GetStale получает активности с правилом или родителем, у которых не осталось вхождений
func (r *ActivityRepository) GetStale(ctx context.Context) ([]*model.Activity, error) {
	query := `
		SELECT ` + activityColumns + `
		FROM activities a
		WHERE (a.recurrence_type IS NOT NULL OR a.parent_id IS NOT NULL)
		  AND NOT EXISTS (SELECT 1 FROM occurrences o WHERE o.activity_id = a.id)
		ORDER BY a.created_at, a.id
	`

	return r.list(ctx, "get stale activities", query)
}

func (r *ActivityRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Activity, error) {
	rows, err := r.db.Query(ctx, query, args...)
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

func scanActivity(row pgx.Row) (*model.Activity, error) {
	var (
		activity model.Activity
		rule     repository.RuleColumns
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
		&activity.ParentID,
		&activity.CreatedAt,
		&activity.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	activity.Recurrence, err = rule.Rule()
	if err != nil {
		return nil, err
	}

	return &activity, nil
}
