// Package repository описывает хранилище поездок, активностей и вхождений.
// Реализации: postgres (pgx), sqlite (database/sql), memory (для тестов).
package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// Store выполняет последовательность операций как одну транзакцию.
// Ошибка из fn откатывает все изменения.
type Store interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx операции хранилища внутри транзакции.
// Get* возвращают nil, nil если запись не найдена.
type Tx interface {
	CreateTrip(ctx context.Context, trip *model.Trip) error
	GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error)

	CreateActivity(ctx context.Context, activity *model.Activity) error
	GetActivity(ctx context.Context, id uuid.UUID) (*model.Activity, error)
	UpdateActivity(ctx context.Context, activity *model.Activity) error
	ListChildActivities(ctx context.Context, parentID uuid.UUID) ([]*model.Activity, error)
	ListTripActivities(ctx context.Context, tripID uuid.UUID) ([]*model.Activity, error)
	// ListStaleRecurringActivities активности с правилом или родителем, но без вхождений
	ListStaleRecurringActivities(ctx context.Context) ([]*model.Activity, error)

	CreateOccurrence(ctx context.Context, occurrence *model.Occurrence) error
	GetOccurrence(ctx context.Context, id uuid.UUID) (*model.Occurrence, error)
	// ListOccurrences вхождения активности по возрастанию Start
	ListOccurrences(ctx context.Context, activityID uuid.UUID) ([]*model.Occurrence, error)
	CountOccurrences(ctx context.Context, activityID uuid.UUID) (int, error)
	UpdateOccurrence(ctx context.Context, occurrence *model.Occurrence) error
	DeleteOccurrences(ctx context.Context, ids []uuid.UUID) (int64, error)
}
