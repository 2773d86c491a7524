package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

func TestICalendar(t *testing.T) {
	trip := &model.Trip{ID: uuid.New(), Title: "Lisbon"}
	activity := &model.Activity{
		ID:              uuid.New(),
		TripID:          trip.ID,
		Title:           "Surf lesson",
		Description:     "Bring a towel, sunscreen",
		Location:        "Carcavelos",
		DurationMinutes: 90,
	}
	first := model.NewOccurrence(activity, time.Date(2024, 6, 3, 9, 30, 0, 0, time.UTC))
	second := model.NewOccurrence(activity, time.Date(2024, 6, 5, 9, 30, 0, 0, time.UTC))

	data, err := ICalendar(trip, []*model.Activity{activity}, []*model.Occurrence{first, second}, time.Now())
	require.NoError(t, err)

	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)

	events := cal.Events()
	require.Len(t, events, 2)

	for i, o := range []*model.Occurrence{first, second} {
		event := events[i]

		uid, err := event.Props.Text(ical.PropUID)
		require.NoError(t, err)
		assert.Equal(t, o.ID.String(), uid)

		summary, err := event.Props.Text(ical.PropSummary)
		require.NoError(t, err)
		assert.Equal(t, "Surf lesson", summary)

		description, err := event.Props.Text(ical.PropDescription)
		require.NoError(t, err)
		assert.Equal(t, "Bring a towel, sunscreen", description)

		location, err := event.Props.Text(ical.PropLocation)
		require.NoError(t, err)
		assert.Equal(t, "Carcavelos", location)

		assert.Equal(t, o.Start.Format(floatingLayout), event.Props.Get(ical.PropDateTimeStart).Value)
		assert.Equal(t, o.End.Format(floatingLayout), event.Props.Get(ical.PropDateTimeEnd).Value)
	}
}

func TestICalendarUnknownActivity(t *testing.T) {
	orphan := &model.Occurrence{ID: uuid.New(), ActivityID: uuid.New()}

	_, err := ICalendar(&model.Trip{Title: "Broken"}, nil, []*model.Occurrence{orphan}, time.Now())
	assert.ErrorIs(t, err, model.ErrNotFound)
}
