package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// OccurrenceRepository управляет вхождениями активностей
type OccurrenceRepository struct {
	db Querier
}

func NewOccurrenceRepository(db Querier) *OccurrenceRepository {
	return &OccurrenceRepository{db: db}
}

// Create создаёт вхождение
func (r *OccurrenceRepository) Create(ctx context.Context, occurrence *model.Occurrence) error {
	query := `
		INSERT INTO occurrences (id, activity_id, start_at, end_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`

	if occurrence.ID == uuid.Nil {
		occurrence.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		occurrence.ID,
		occurrence.ActivityID,
		occurrence.Start,
		occurrence.End,
	).Scan(&occurrence.CreatedAt)

	if err != nil {
		return fmt.Errorf("create occurrence: %w", err)
	}

	return nil
}

// GetByID получает вхождение по ID
func (r *OccurrenceRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Occurrence, error) {
	query := `
		SELECT id, activity_id, start_at, end_at, created_at
		FROM occurrences
		WHERE id = $1
	`

	var o model.Occurrence
	err := r.db.QueryRow(ctx, query, id).Scan(&o.ID, &o.ActivityID, &o.Start, &o.End, &o.CreatedAt)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get occurrence by id: %w", err)
	}

	return &o, nil
}

// GetByActivityID получает вхождения активности по возрастанию начала
func (r *OccurrenceRepository) GetByActivityID(ctx context.Context, activityID uuid.UUID) ([]*model.Occurrence, error) {
	query := `
		SELECT id, activity_id, start_at, end_at, created_at
		FROM occurrences
		WHERE activity_id = $1
		ORDER BY start_at, id
	`

	rows, err := r.db.Query(ctx, query, activityID)
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

	return occurrences, nil
}

// CountByActivityID считает вхождения активности
func (r *OccurrenceRepository) CountByActivityID(ctx context.Context, activityID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM occurrences WHERE activity_id = $1`

	var count int
	if err := r.db.QueryRow(ctx, query, activityID).Scan(&count); err != nil {
		return 0, fmt.Errorf("count occurrences: %w", err)
	}

	return count, nil
}

// Update перезаписывает владельца и время вхождения
func (r *OccurrenceRepository) Update(ctx context.Context, occurrence *model.Occurrence) error {
	query := `
		UPDATE occurrences
		SET activity_id = $2, start_at = $3, end_at = $4
		WHERE id = $1
	`

	tag, err := r.db.Exec(ctx, query, occurrence.ID, occurrence.ActivityID, occurrence.Start, occurrence.End)
	if err != nil {
		return fmt.Errorf("update occurrence: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update occurrence: %w", model.ErrNotFound)
	}

	return nil
}

// DeleteByIDs удаляет вхождения и возвращает количество удалённых строк
func (r *OccurrenceRepository) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	raw := make([]string, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.String())
	}

	tag, err := r.db.Exec(ctx, `DELETE FROM occurrences WHERE id = ANY($1::uuid[])`, raw)
	if err != nil {
		return 0, fmt.Errorf("delete occurrences: %w", err)
	}

	return tag.RowsAffected(), nil
}
