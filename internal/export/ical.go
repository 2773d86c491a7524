// Package export выгружает вхождения поездки во внешние форматы.
package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

const (
	productID = "-//trip_planner//calendar export//EN"
	// floatingLayout локальное время без зоны (RFC 5545, FORM #1)
	floatingLayout = "20060102T150405"
)

// ICalendar собирает календарь поездки: один VEVENT на каждое вхождение.
// Время вхождений выгружается без часового пояса.
func ICalendar(trip *model.Trip, activities []*model.Activity, occurrences []*model.Occurrence, stamp time.Time) ([]byte, error) {
	byID := make(map[uuid.UUID]*model.Activity, len(activities))
	for _, a := range activities {
		byID[a.ID] = a
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText("X-WR-CALNAME", trip.Title)

	for _, o := range occurrences {
		activity, ok := byID[o.ActivityID]
		if !ok {
			return nil, fmt.Errorf("occurrence %s: activity %s: %w", o.ID, o.ActivityID, model.ErrNotFound)
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, o.ID.String())
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetText(ical.PropSummary, activity.Title)
		if activity.Description != "" {
			event.Props.SetText(ical.PropDescription, activity.Description)
		}
		if activity.Location != "" {
			event.Props.SetText(ical.PropLocation, activity.Location)
		}
		event.Props.Set(floatingProp(ical.PropDateTimeStart, o.Start))
		event.Props.Set(floatingProp(ical.PropDateTimeEnd, o.End))

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}

func floatingProp(name string, t time.Time) *ical.Prop {
	prop := ical.NewProp(name)
	prop.SetValueType(ical.ValueDateTime)
	prop.Value = t.Format(floatingLayout)
	return prop
}
