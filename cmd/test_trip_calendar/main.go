package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository/memory"
	"github.com/Freeeeeet/trip_planner/internal/service"
)

func main() {
	ctx := context.Background()
	logger := zap.NewNop()

	// Тестовая поездка на две недели начиная с понедельника текущей недели
	now := time.Now()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for from.Weekday() != time.Monday {
		from = from.AddDate(0, 0, -1)
	}
	to := from.AddDate(0, 0, 13)

	store := memory.NewStore()
	trips := service.NewTripService(store, logger)
	series := service.NewSeriesService(store, trips, service.NewGeneralizer(logger), logger)

	trip, err := trips.CreateTrip(ctx, "Test trip", from, to)
	if err != nil {
		fail("create trip", err)
	}

	weekdays, err := model.ParseWeekdaySet([]string{"Mon", "Wed", "Fri"})
	if err != nil {
		fail("parse weekdays", err)
	}
	swimRule, err := model.CustomWeeks(1, weekdays, model.Termination{})
	if err != nil {
		fail("build rule", err)
	}
	swim := &model.Activity{TripID: trip.ID, Title: "Swimming", Location: "Pool", DurationMinutes: 90}
	swims, err := series.CreateSeries(ctx, swim, swimRule, from.Add(9*time.Hour))
	if err != nil {
		fail("create swimming", err)
	}

	hikeRule, err := model.CustomDays(3, model.Termination{})
	if err != nil {
		fail("build rule", err)
	}
	hike := &model.Activity{TripID: trip.ID, Title: "Hike", DurationMinutes: 240}
	if _, err := series.CreateSeries(ctx, hike, hikeRule, from.AddDate(0, 0, 1).Add(8*time.Hour)); err != nil {
		fail("create hike", err)
	}

	dinner := &model.Activity{TripID: trip.ID, Title: "Farewell dinner", Location: "Harbour", DurationMinutes: 120}
	if _, err := series.CreateSeries(ctx, dinner, nil, to.Add(19*time.Hour)); err != nil {
		fail("create dinner", err)
	}

	// Вторая неделя плавания переезжает в другой бассейн
	location := "Sea"
	if _, err := series.EditSeries(ctx, swims[3].ID, model.EditFollowing, model.ActivityChanges{Location: &location}); err != nil {
		fail("edit swimming", err)
	}

	data, err := trips.Calendar(ctx, trip.ID)
	if err != nil {
		fail("export calendar", err)
	}

	filename := "trip.ics"
	if err := os.WriteFile(filename, data, 0644); err != nil {
		fail("save file", err)
	}

	fmt.Printf("Calendar saved to %s\n", filename)
	fmt.Printf("Period: %s - %s\n", from.Format(model.DateLayout), to.Format(model.DateLayout))
}

func fail(step string, err error) {
	fmt.Printf("Failed to %s: %v\n", step, err)
	os.Exit(1)
}
