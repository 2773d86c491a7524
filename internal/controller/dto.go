package controller

import (
	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/validation"
)

type createTripRequest struct {
	Title string `json:"title" validate:"required,max=200"`
	From  *Date  `json:"from" validate:"required"`
	To    *Date  `json:"to" validate:"required"`
}

type ruleRequest struct {
	Type            string   `json:"type"`
	Interval        int      `json:"interval"`
	Weekdays        []string `json:"weekdays"`
	EndDate         *Date    `json:"end_date"`
	OccurrenceCount int      `json:"occurrence_count"`
}

func (r *ruleRequest) input() validation.RuleInput {
	in := validation.RuleInput{
		Type:            r.Type,
		Interval:        r.Interval,
		Weekdays:        r.Weekdays,
		OccurrenceCount: r.OccurrenceCount,
	}
	if r.EndDate != nil {
		end := r.EndDate.Time
		in.EndDate = &end
	}
	return in
}

type createActivityRequest struct {
	Title           string       `json:"title" validate:"required,max=200"`
	Description     string       `json:"description"`
	Location        string       `json:"location"`
	DurationMinutes int          `json:"duration_minutes" validate:"gte=0"`
	Start           *LocalTime   `json:"start" validate:"required"`
	Recurrence      *ruleRequest `json:"recurrence"`
}

type editOccurrencesRequest struct {
	Title           *string `json:"title" validate:"omitempty,max=200"`
	Description     *string `json:"description"`
	Location        *string `json:"location"`
	DurationMinutes *int    `json:"duration_minutes" validate:"omitempty,gte=0"`
}

func (r *editOccurrencesRequest) changes() model.ActivityChanges {
	return model.ActivityChanges{
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		DurationMinutes: r.DurationMinutes,
	}
}

type tripResponse struct {
	ID         uuid.UUID         `json:"id"`
	Title      string            `json:"title"`
	From       Date              `json:"from"`
	To         Date              `json:"to"`
	Activities []*model.Activity `json:"activities,omitempty"`
}

func newTripResponse(trip *model.Trip, activities []*model.Activity) tripResponse {
	return tripResponse{
		ID:         trip.ID,
		Title:      trip.Title,
		From:       Date{trip.From},
		To:         Date{trip.To},
		Activities: activities,
	}
}

type occurrenceResponse struct {
	ID         uuid.UUID `json:"id"`
	ActivityID uuid.UUID `json:"activity_id"`
	Start      LocalTime `json:"start"`
	End        LocalTime `json:"end"`
}

func newOccurrenceResponses(occurrences []*model.Occurrence) []occurrenceResponse {
	out := make([]occurrenceResponse, 0, len(occurrences))
	for _, o := range occurrences {
		out = append(out, occurrenceResponse{
			ID:         o.ID,
			ActivityID: o.ActivityID,
			Start:      LocalTime{o.Start},
			End:        LocalTime{o.End},
		})
	}
	return out
}

type activityResponse struct {
	Activity    *model.Activity      `json:"activity"`
	Occurrences []occurrenceResponse `json:"occurrences"`
}

type occurrencesResponse struct {
	Occurrences []occurrenceResponse `json:"occurrences"`
}

type errorResponse struct {
	Error string `json:"error"`
}
