package model

import (
	"time"

	"github.com/google/uuid"
)

// Trip поездка, внутри которой планируются активности
type Trip struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	From      time.Time `json:"from"` // первый день поездки
	To        time.Time `json:"to"`   // последний день поездки (включительно)
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Window возвращает окно дат поездки
func (t *Trip) Window() TripWindow {
	return TripWindow{From: DateOf(t.From), To: DateOf(t.To)}
}

// TripWindow границы дат поездки, обе включительно
type TripWindow struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// Contains проверяет что дата t лежит в окне (сравнение по календарным дням)
func (w TripWindow) Contains(t time.Time) bool {
	d := DateOf(t)
	return !d.Before(DateOf(w.From)) && !d.After(DateOf(w.To))
}

// DateOf отбрасывает время суток, оставляя календарную дату в той же локации
func DateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
