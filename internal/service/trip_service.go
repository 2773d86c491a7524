package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/export"
	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

type TripService struct {
	store  repository.Store
	logger *zap.Logger
}

func NewTripService(store repository.Store, logger *zap.Logger) *TripService {
	return &TripService{
		store:  store,
		logger: logger,
	}
}

// CreateTrip создаёт поездку; даты хранятся без времени суток
func (s *TripService) CreateTrip(ctx context.Context, title string, from, to time.Time) (*model.Trip, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: empty title", model.ErrInvalidTrip)
	}

	from, to = model.DateOf(from), model.DateOf(to)
	if from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", model.ErrInvalidTrip,
			from.Format(model.DateLayout), to.Format(model.DateLayout))
	}

	trip := &model.Trip{
		ID:    uuid.New(),
		Title: title,
		From:  from,
		To:    to,
	}

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.CreateTrip(ctx, trip)
	})
	if err != nil {
		return nil, fmt.Errorf("create trip: %w", err)
	}

	s.logger.Info("Trip created",
		zap.String("trip_id", trip.ID.String()),
		zap.String("from", from.Format(model.DateLayout)),
		zap.String("to", to.Format(model.DateLayout)),
	)

	return trip, nil
}

// GetTrip получает поездку по ID
func (s *TripService) GetTrip(ctx context.Context, id uuid.UUID) (*model.Trip, error) {
	var trip *model.Trip
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		trip, err = getTrip(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return trip, nil
}

// Window окно дат поездки прямо из хранилища
func (s *TripService) Window(ctx context.Context, tripID uuid.UUID) (model.TripWindow, error) {
	trip, err := s.GetTrip(ctx, tripID)
	if err != nil {
		return model.TripWindow{}, err
	}
	return trip.Window(), nil
}

// Activities активности поездки в порядке создания
func (s *TripService) Activities(ctx context.Context, tripID uuid.UUID) ([]*model.Activity, error) {
	var activities []*model.Activity
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := getTrip(ctx, tx, tripID); err != nil {
			return err
		}

		var err error
		activities, err = tx.ListTripActivities(ctx, tripID)
		if err != nil {
			return fmt.Errorf("get trip activities: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return activities, nil
}

// Calendar выгружает все вхождения поездки в iCalendar
func (s *TripService) Calendar(ctx context.Context, tripID uuid.UUID) ([]byte, error) {
	var (
		trip        *model.Trip
		activities  []*model.Activity
		occurrences []*model.Occurrence
	)

	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		trip, err = getTrip(ctx, tx, tripID)
		if err != nil {
			return err
		}

		activities, err = tx.ListTripActivities(ctx, tripID)
		if err != nil {
			return fmt.Errorf("get trip activities: %w", err)
		}

		for _, a := range activities {
			list, err := tx.ListOccurrences(ctx, a.ID)
			if err != nil {
				return fmt.Errorf("get occurrences: %w", err)
			}
			occurrences = append(occurrences, list...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	model.SortOccurrences(occurrences)

	return export.ICalendar(trip, activities, occurrences, time.Now())
}

func getTrip(ctx context.Context, tx repository.Tx, id uuid.UUID) (*model.Trip, error) {
	trip, err := tx.GetTrip(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get trip: %w", err)
	}
	if trip == nil {
		return nil, fmt.Errorf("trip %s: %w", id, model.ErrNotFound)
	}
	return trip, nil
}
