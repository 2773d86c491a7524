package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

func TestCreateTrip(t *testing.T) {
	f := newFixture(t, day(1, 15), day(10, 8))

	assert.Equal(t, day(1, 0), f.trip.From)
	assert.Equal(t, day(10, 0), f.trip.To)

	stored, err := f.trips.GetTrip(context.Background(), f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alps", stored.Title)

	window, err := f.trips.Window(context.Background(), f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, f.trip.Window(), window)
}

func TestCreateTripInvalid(t *testing.T) {
	f := newFixture(t, day(1, 0), day(10, 0))

	_, err := f.trips.CreateTrip(context.Background(), "Backwards", day(10, 0), day(1, 0))
	assert.ErrorIs(t, err, model.ErrInvalidTrip)

	_, err = f.trips.CreateTrip(context.Background(), "  ", day(1, 0), day(2, 0))
	assert.ErrorIs(t, err, model.ErrInvalidTrip)
}

func TestGetTripNotFound(t *testing.T) {
	f := newFixture(t, day(1, 0), day(10, 0))

	_, err := f.trips.GetTrip(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = f.trips.Window(context.Background(), uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTripActivitiesAndCalendar(t *testing.T) {
	f := newFixture(t, day(1, 0), day(31, 0))
	yoga, _ := f.dailySeries(t, 3)

	dinner := &model.Activity{TripID: f.trip.ID, Title: "Dinner", DurationMinutes: 90}
	_, err := f.series.CreateSeries(context.Background(), dinner, nil, day(2, 19))
	require.NoError(t, err)

	activities, err := f.trips.Activities(context.Background(), f.trip.ID)
	require.NoError(t, err)
	require.Len(t, activities, 2)
	assert.Equal(t, yoga.ID, activities[0].ID)
	assert.Equal(t, dinner.ID, activities[1].ID)

	data, err := f.trips.Calendar(context.Background(), f.trip.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, strings.Count(string(data), "BEGIN:VEVENT"))
	assert.Contains(t, string(data), "SUMMARY:Dinner")
}
