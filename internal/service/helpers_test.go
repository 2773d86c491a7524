package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
	"github.com/Freeeeeet/trip_planner/internal/repository/memory"
)

type fixture struct {
	store  *memory.Store
	trips  *TripService
	series *SeriesService
	trip   *model.Trip
}

func newFixture(t *testing.T, from, to time.Time) *fixture {
	t.Helper()

	logger := zap.NewNop()
	store := memory.NewStore()
	trips := NewTripService(store, logger)
	series := NewSeriesService(store, trips, NewGeneralizer(logger), logger)

	trip, err := trips.CreateTrip(context.Background(), "Alps", from, to)
	require.NoError(t, err)

	return &fixture{store: store, trips: trips, series: series, trip: trip}
}

func day(d, hour int) time.Time {
	return time.Date(2024, time.January, d, hour, 0, 0, 0, time.UTC)
}

// dailySeries создаёт ежедневную серию из n вхождений начиная с 2024-01-01 10:00
func (f *fixture) dailySeries(t *testing.T, n int) (*model.Activity, []*model.Occurrence) {
	t.Helper()

	rule, err := model.CustomDays(1, model.Termination{Count: n - 1})
	require.NoError(t, err)

	activity := &model.Activity{TripID: f.trip.ID, Title: "Yoga", DurationMinutes: 60}
	occurrences, err := f.series.CreateSeries(context.Background(), activity, rule, day(1, 10))
	require.NoError(t, err)
	require.Len(t, occurrences, n)

	return activity, occurrences
}

func (f *fixture) activity(t *testing.T, id uuid.UUID) *model.Activity {
	t.Helper()

	var activity *model.Activity
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		var err error
		activity, err = tx.GetActivity(ctx, id)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, activity)
	return activity
}

func (f *fixture) occurrences(t *testing.T, activityID uuid.UUID) []*model.Occurrence {
	t.Helper()

	occurrences, err := f.series.ListOccurrences(context.Background(), activityID)
	require.NoError(t, err)
	return occurrences
}

func (f *fixture) occurrenceOwner(t *testing.T, occurrenceID uuid.UUID) *model.Activity {
	t.Helper()

	var occurrence *model.Occurrence
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		var err error
		occurrence, err = tx.GetOccurrence(ctx, occurrenceID)
		return err
	})
	require.NoError(t, err)
	require.NotNil(t, occurrence)
	return f.activity(t, occurrence.ActivityID)
}

// insert сохраняет активность и вхождения в обход сервиса
func (f *fixture) insert(t *testing.T, activity *model.Activity, starts ...time.Time) []*model.Occurrence {
	t.Helper()

	var created []*model.Occurrence
	err := f.store.WithinTx(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		if err := tx.CreateActivity(ctx, activity); err != nil {
			return err
		}
		for _, start := range starts {
			o := model.NewOccurrence(activity, start)
			if err := tx.CreateOccurrence(ctx, o); err != nil {
				return err
			}
			created = append(created, o)
		}
		return nil
	})
	require.NoError(t, err)
	return created
}

func ids(occurrences []*model.Occurrence) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, o.ID)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
