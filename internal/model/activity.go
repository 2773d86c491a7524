package model

import (
	"time"

	"github.com/google/uuid"
)

// Activity планируемая активность поездки.
// ParentID заполнен у под-серии, отделённой от предка правкой "following".
type Activity struct {
	ID              uuid.UUID       `json:"id"`
	TripID          uuid.UUID       `json:"trip_id"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	Location        string          `json:"location"`
	DurationMinutes int             `json:"duration_minutes"`
	Recurrence      *RecurrenceRule `json:"recurrence,omitempty"`
	ParentID        *uuid.UUID      `json:"parent_id,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Duration длительность каждого вхождения
func (a *Activity) Duration() time.Duration {
	return time.Duration(a.DurationMinutes) * time.Minute
}

// IsRecurring есть ли у активности правило повторения
func (a *Activity) IsRecurring() bool {
	return a.Recurrence != nil
}

// IsGeneralized активность без правила и без родителя
func (a *Activity) IsGeneralized() bool {
	return a.Recurrence == nil && a.ParentID == nil
}

// Fork создаёт копию активности с новым ID, привязанную к parent
func (a *Activity) Fork(parent *uuid.UUID) *Activity {
	fork := *a
	fork.ID = uuid.New()
	fork.ParentID = parent
	fork.CreatedAt = time.Time{}
	fork.UpdatedAt = time.Time{}
	return &fork
}

// ActivityChanges правка содержимого активности; nil поле не меняется
type ActivityChanges struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	DurationMinutes *int    `json:"duration_minutes,omitempty"`
}

// IsEmpty нет ни одного изменения
func (c ActivityChanges) IsEmpty() bool {
	return c.Title == nil && c.Description == nil && c.Location == nil && c.DurationMinutes == nil
}

// ChangesDuration меняет ли правка длительность
func (c ActivityChanges) ChangesDuration(a *Activity) bool {
	return c.DurationMinutes != nil && *c.DurationMinutes != a.DurationMinutes
}

// Apply применяет правку к активности
func (c ActivityChanges) Apply(a *Activity) {
	if c.Title != nil {
		a.Title = *c.Title
	}
	if c.Description != nil {
		a.Description = *c.Description
	}
	if c.Location != nil {
		a.Location = *c.Location
	}
	if c.DurationMinutes != nil {
		a.DurationMinutes = *c.DurationMinutes
	}
}
