package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

type TripRepository struct {
	db Querier
}

func NewTripRepository(db Querier) *TripRepository {
	return &TripRepository{db: db}
}

// Create создаёт поездку
func (r *TripRepository) Create(ctx context.Context, trip *model.Trip) error {
	query := `
		INSERT INTO trips (id, title, date_from, date_to)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at
	`

	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx, query,
		trip.ID,
		trip.Title,
		trip.From,
		trip.To,
	).Scan(&trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}

	return nil
}

// GetByID получает поездку по ID
func (r *TripRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	query := `
		SELECT id, title, date_from, date_to, created_at, updated_at
		FROM trips
		WHERE id = $1
	`

	var trip model.Trip
	err := r.db.QueryRow(ctx, query, id).Scan(
		&trip.ID,
		&trip.Title,
		&trip.From,
		&trip.To,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)

	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get trip by id: %w", err)
	}

	return &trip, nil
}
