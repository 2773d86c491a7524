// Package memory хранилище в памяти для тестов и локального запуска.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

type state struct {
	trips       map[uuid.UUID]model.Trip
	activities  map[uuid.UUID]model.Activity
	occurrences map[uuid.UUID]model.Occurrence
	seq         int64
	created     map[uuid.UUID]int64 // порядок создания активностей
}

func (s *state) clone() *state {
	c := &state{
		trips:       make(map[uuid.UUID]model.Trip, len(s.trips)),
		activities:  make(map[uuid.UUID]model.Activity, len(s.activities)),
		occurrences: make(map[uuid.UUID]model.Occurrence, len(s.occurrences)),
		created:     make(map[uuid.UUID]int64, len(s.created)),
		seq:         s.seq,
	}
	for k, v := range s.trips {
		c.trips[k] = v
	}
	for k, v := range s.activities {
		c.activities[k] = v
	}
	for k, v := range s.occurrences {
		c.occurrences[k] = v
	}
	for k, v := range s.created {
		c.created[k] = v
	}
	return c
}

// Store хранилище в памяти. WithinTx работает над копией состояния
// и подменяет его только при успехе.
type Store struct {
	mu    sync.Mutex
	state *state

	// FailOn если задан, вызывается перед каждой записью; ошибка прерывает транзакцию
	FailOn func(op string) error
}

func NewStore() *Store {
	return &Store{state: &state{
		trips:       map[uuid.UUID]model.Trip{},
		activities:  map[uuid.UUID]model.Activity{},
		occurrences: map[uuid.UUID]model.Occurrence{},
		created:     map[uuid.UUID]int64{},
	}}
}

func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.state.clone()
	if err := fn(ctx, &tx{state: work, failOn: s.FailOn}); err != nil {
		return err
	}

	s.state = work
	return nil
}

type tx struct {
	state  *state
	failOn func(op string) error
}

func (t *tx) check(op string) error {
	if t.failOn != nil {
		return t.failOn(op)
	}
	return nil
}

func (t *tx) CreateTrip(_ context.Context, trip *model.Trip) error {
	if err := t.check("create_trip"); err != nil {
		return err
	}
	if trip.ID == uuid.Nil {
		trip.ID = uuid.New()
	}
	trip.CreatedAt = time.Now()
	trip.UpdatedAt = trip.CreatedAt
	t.state.trips[trip.ID] = *trip
	return nil
}

func (t *tx) GetTrip(_ context.Context, id uuid.UUID) (*model.Trip, error) {
	trip, ok := t.state.trips[id]
	if !ok {
		return nil, nil
	}
	return &trip, nil
}

func (t *tx) CreateActivity(_ context.Context, activity *model.Activity) error {
	if err := t.check("create_activity"); err != nil {
		return err
	}
	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.CreatedAt = time.Now()
	activity.UpdatedAt = activity.CreatedAt
	t.state.seq++
	t.state.created[activity.ID] = t.state.seq
	t.state.activities[activity.ID] = copyActivity(activity)
	return nil
}

func (t *tx) GetActivity(_ context.Context, id uuid.UUID) (*model.Activity, error) {
	activity, ok := t.state.activities[id]
	if !ok {
		return nil, nil
	}
	out := copyActivity(&activity)
	return &out, nil
}

func (t *tx) UpdateActivity(_ context.Context, activity *model.Activity) error {
	if err := t.check("update_activity"); err != nil {
		return err
	}
	if _, ok := t.state.activities[activity.ID]; !ok {
		return model.ErrNotFound
	}
	activity.UpdatedAt = time.Now()
	t.state.activities[activity.ID] = copyActivity(activity)
	return nil
}

func (t *tx) ListChildActivities(_ context.Context, parentID uuid.UUID) ([]*model.Activity, error) {
	return t.activitiesWhere(func(a *model.Activity) bool {
		return a.ParentID != nil && *a.ParentID == parentID
	}), nil
}

func (t *tx) ListTripActivities(_ context.Context, tripID uuid.UUID) ([]*model.Activity, error) {
	return t.activitiesWhere(func(a *model.Activity) bool {
		return a.TripID == tripID
	}), nil
}

func (t *tx) ListStaleRecurringActivities(_ context.Context) ([]*model.Activity, error) {
	return t.activitiesWhere(func(a *model.Activity) bool {
		return !a.IsGeneralized() && t.count(a.ID) == 0
	}), nil
}

func (t *tx) activitiesWhere(match func(a *model.Activity) bool) []*model.Activity {
	var out []*model.Activity
	for _, a := range t.state.activities {
		a := copyActivity(&a)
		if match(&a) {
			out = append(out, &a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return t.state.created[out[i].ID] < t.state.created[out[j].ID]
	})
	return out
}

func (t *tx) CreateOccurrence(_ context.Context, occurrence *model.Occurrence) error {
	if err := t.check("create_occurrence"); err != nil {
		return err
	}
	if occurrence.ID == uuid.Nil {
		occurrence.ID = uuid.New()
	}
	occurrence.CreatedAt = time.Now()
	t.state.occurrences[occurrence.ID] = *occurrence
	return nil
}

func (t *tx) GetOccurrence(_ context.Context, id uuid.UUID) (*model.Occurrence, error) {
	o, ok := t.state.occurrences[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (t *tx) ListOccurrences(_ context.Context, activityID uuid.UUID) ([]*model.Occurrence, error) {
	var out []*model.Occurrence
	for _, o := range t.state.occurrences {
		if o.ActivityID == activityID {
			o := o
			out = append(out, &o)
		}
	}
	model.SortOccurrences(out)
	return out, nil
}

func (t *tx) CountOccurrences(_ context.Context, activityID uuid.UUID) (int, error) {
	return t.count(activityID), nil
}

func (t *tx) count(activityID uuid.UUID) int {
	n := 0
	for _, o := range t.state.occurrences {
		if o.ActivityID == activityID {
			n++
		}
	}
	return n
}

func (t *tx) UpdateOccurrence(_ context.Context, occurrence *model.Occurrence) error {
	if err := t.check("update_occurrence"); err != nil {
		return err
	}
	if _, ok := t.state.occurrences[occurrence.ID]; !ok {
		return model.ErrNotFound
	}
	t.state.occurrences[occurrence.ID] = *occurrence
	return nil
}

func (t *tx) DeleteOccurrences(_ context.Context, ids []uuid.UUID) (int64, error) {
	if err := t.check("delete_occurrences"); err != nil {
		return 0, err
	}
	var n int64
	for _, id := range ids {
		if _, ok := t.state.occurrences[id]; ok {
			delete(t.state.occurrences, id)
			n++
		}
	}
	return n, nil
}

func copyActivity(a *model.Activity) model.Activity {
	out := *a
	if a.ParentID != nil {
		id := *a.ParentID
		out.ParentID = &id
	}
	return out
}

var _ repository.Store = (*Store)(nil)
var _ repository.Tx = (*tx)(nil)
