package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/app"
	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
	"github.com/Freeeeeet/trip_planner/internal/repository/sqlite"
	"github.com/Freeeeeet/trip_planner/internal/service"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	migrator := app.NewSQLiteMigrator(db, zap.NewNop())
	require.NoError(t, migrator.Run(context.Background()))

	version, err := migrator.Version(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), version)

	return sqlite.NewStore(db, zap.NewNop())
}

func TestStoreRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	weekdays, err := model.ParseWeekdaySet([]string{"Tue", "Sat"})
	require.NoError(t, err)
	end := time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)
	rule, err := model.CustomWeeks(2, weekdays, model.Termination{EndDate: &end})
	require.NoError(t, err)

	trip := &model.Trip{
		Title: "Rome",
		From:  time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		To:    time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}
	root := &model.Activity{TripID: uuid.Nil, Title: "Tour", Location: "Forum", DurationMinutes: 45, Recurrence: rule}
	child := &model.Activity{Title: "Tour (late)", DurationMinutes: 60}
	start := time.Date(2024, 3, 5, 11, 30, 0, 0, time.UTC)
	occurrence := &model.Occurrence{Start: start, End: start.Add(45 * time.Minute)}

	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		require.NoError(t, tx.CreateTrip(ctx, trip))

		root.TripID = trip.ID
		require.NoError(t, tx.CreateActivity(ctx, root))

		child.TripID = trip.ID
		child.ParentID = &root.ID
		require.NoError(t, tx.CreateActivity(ctx, child))

		occurrence.ActivityID = root.ID
		return tx.CreateOccurrence(ctx, occurrence)
	})
	require.NoError(t, err)

	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		gotTrip, err := tx.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		require.NotNil(t, gotTrip)
		assert.True(t, trip.From.Equal(gotTrip.From))
		assert.True(t, trip.To.Equal(gotTrip.To))

		gotRoot, err := tx.GetActivity(ctx, root.ID)
		require.NoError(t, err)
		require.NotNil(t, gotRoot)
		assert.Equal(t, "Forum", gotRoot.Location)
		assert.Equal(t, rule.String(), gotRoot.Recurrence.String())
		assert.Nil(t, gotRoot.ParentID)

		children, err := tx.ListChildActivities(ctx, root.ID)
		require.NoError(t, err)
		require.Len(t, children, 1)
		assert.Equal(t, child.ID, children[0].ID)
		assert.Equal(t, root.ID, *children[0].ParentID)
		assert.Nil(t, children[0].Recurrence)

		gotOccurrence, err := tx.GetOccurrence(ctx, occurrence.ID)
		require.NoError(t, err)
		require.NotNil(t, gotOccurrence)
		assert.True(t, start.Equal(gotOccurrence.Start))
		assert.Equal(t, 45*time.Minute, gotOccurrence.Duration())

		stale, err := tx.ListStaleRecurringActivities(ctx)
		require.NoError(t, err)
		require.Len(t, stale, 1)
		assert.Equal(t, child.ID, stale[0].ID)

		missing, err := tx.GetActivity(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, missing)
		return nil
	})
	require.NoError(t, err)
}

func TestStoreRollback(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	trip := &model.Trip{Title: "Oslo", From: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), To: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC)}
	boom := errors.New("boom")

	err := store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		require.NoError(t, tx.CreateTrip(ctx, trip))
		return boom
	})
	require.ErrorIs(t, err, boom)

	err = store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		got, err := tx.GetTrip(ctx, trip.ID)
		require.NoError(t, err)
		assert.Nil(t, got)
		return nil
	})
	require.NoError(t, err)
}

func TestStoreSeriesLifecycle(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	logger := zap.NewNop()

	trips := service.NewTripService(store, logger)
	series := service.NewSeriesService(store, trips, service.NewGeneralizer(logger), logger)

	trip, err := trips.CreateTrip(ctx, "Kyoto", time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	rule, err := model.CustomDays(2, model.Termination{Count: 3})
	require.NoError(t, err)

	activity := &model.Activity{TripID: trip.ID, Title: "Temple", DurationMinutes: 60}
	created, err := series.CreateSeries(ctx, activity, rule, time.Date(2024, 4, 2, 9, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, created, 4)

	_, err = series.EditSeries(ctx, created[2].ID, model.EditFollowing, model.ActivityChanges{DurationMinutes: ptr(30)})
	require.NoError(t, err)

	result, err := series.DeleteSeries(ctx, created[1].ID, model.EditFollowing)
	require.NoError(t, err)
	assert.Len(t, result.RemovedOccurrenceIDs, 3)
	require.Len(t, result.GeneralizedActivityIDs, 1)

	remaining, err := series.ListOccurrences(ctx, activity.ID)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, created[0].ID, remaining[0].ID)

	result, err = series.DeleteSeries(ctx, created[0].ID, model.EditAll)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{activity.ID}, result.GeneralizedActivityIDs)

	n, err := series.GeneralizeStale(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func ptr[T any](v T) *T {
	return &v
}
