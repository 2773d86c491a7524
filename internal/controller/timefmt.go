package controller

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// DateTimeLayout локальное время без часового пояса
const DateTimeLayout = "2006-01-02T15:04:05"

// LocalTime дата и время в формате DateTimeLayout
type LocalTime struct {
	time.Time
}

func (t *LocalTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(DateTimeLayout, s)
	if err != nil {
		return fmt.Errorf("date-time must look like %s: %w", DateTimeLayout, err)
	}
	t.Time = parsed
	return nil
}

func (t LocalTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Format(DateTimeLayout))
}

// Date календарная дата в формате model.DateLayout
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return fmt.Errorf("date must look like %s: %w", model.DateLayout, err)
	}
	d.Time = parsed
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format(model.DateLayout))
}
