package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// Occurrence конкретное вхождение активности в календаре
type Occurrence struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewOccurrence создаёт вхождение активности; End = start + длительность активности
func NewOccurrence(activity *Activity, start time.Time) *Occurrence {
	return &Occurrence{
		ID:         uuid.New(),
		ActivityID: activity.ID,
		Start:      start,
		End:        start.Add(activity.Duration()),
	}
}

// Duration длительность вхождения
func (o *Occurrence) Duration() time.Duration {
	return o.End.Sub(o.Start)
}

// Replicate копирует вхождение на другую календарную дату.
// Время суток и длительность сохраняются, меняется только дата.
func (o *Occurrence) Replicate(date time.Time) Occurrence {
	start := time.Date(date.Year(), date.Month(), date.Day(),
		o.Start.Hour(), o.Start.Minute(), o.Start.Second(), o.Start.Nanosecond(), o.Start.Location())
	return Occurrence{
		ID:         uuid.New(),
		ActivityID: o.ActivityID,
		Start:      start,
		End:        start.Add(o.Duration()),
	}
}

// Reassign переносит вхождение в другую активность, пересчитывая End по её длительности
func (o *Occurrence) Reassign(activity *Activity) {
	o.ActivityID = activity.ID
	o.End = o.Start.Add(activity.Duration())
}

// FirstOccurrence возвращает вхождение с минимальным Start (начало серии) или nil
func FirstOccurrence(occurrences []*Occurrence) *Occurrence {
	var first *Occurrence
	for _, o := range occurrences {
		if first == nil || o.Start.Before(first.Start) {
			first = o
		}
	}
	return first
}

// SortOccurrences сортирует вхождения по Start
func SortOccurrences(occurrences []*Occurrence) {
	sort.SliceStable(occurrences, func(i, j int) bool {
		return occurrences[i].Start.Before(occurrences[j].Start)
	})
}
