package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/recurrence"
	"github.com/Freeeeeet/trip_planner/internal/repository"
	"github.com/Freeeeeet/trip_planner/internal/tripwindow"
)

// DeleteResult итог удаления в серии
type DeleteResult struct {
	RemovedOccurrenceIDs   []uuid.UUID `json:"removed_occurrence_ids"`
	GeneralizedActivityIDs []uuid.UUID `json:"generalized_activity_ids"`
}

// SeriesService создаёт, редактирует и удаляет серии вхождений.
// Каждая операция выполняется одной транзакцией хранилища.
type SeriesService struct {
	store       repository.Store
	windows     tripwindow.Provider
	generalizer *Generalizer
	logger      *zap.Logger
}

func NewSeriesService(
	store repository.Store,
	windows tripwindow.Provider,
	generalizer *Generalizer,
	logger *zap.Logger,
) *SeriesService {
	return &SeriesService{
		store:       store,
		windows:     windows,
		generalizer: generalizer,
		logger:      logger,
	}
}

// CreateSeries создаёт активность с якорным вхождением и, если задано правило,
// все последующие вхождения до конца поездки. Якорь идёт первым в результате.
func (s *SeriesService) CreateSeries(ctx context.Context, activity *model.Activity, rule *model.RecurrenceRule, anchorStart time.Time) ([]*model.Occurrence, error) {
	if activity.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: negative duration", model.ErrInvalidChanges)
	}

	window, err := s.windows.Window(ctx, activity.TripID)
	if err != nil {
		return nil, fmt.Errorf("get trip window: %w", err)
	}

	if !window.Contains(anchorStart) {
		return nil, fmt.Errorf("anchor %s: %w", anchorStart.Format(model.DateLayout), model.ErrOutsideTripWindow)
	}

	if activity.ID == uuid.Nil {
		activity.ID = uuid.New()
	}
	activity.Recurrence = rule
	activity.ParentID = nil

	var created []*model.Occurrence
	err = s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if err := tx.CreateActivity(ctx, activity); err != nil {
			return fmt.Errorf("create activity: %w", err)
		}

		anchor := model.NewOccurrence(activity, anchorStart)
		if err := tx.CreateOccurrence(ctx, anchor); err != nil {
			return fmt.Errorf("create anchor occurrence: %w", err)
		}
		created = append(created, anchor)

		if rule == nil {
			return nil
		}

		for _, o := range recurrence.Generate(*anchor, rule, window.To) {
			o := o
			if err := tx.CreateOccurrence(ctx, &o); err != nil {
				return fmt.Errorf("create occurrence: %w", err)
			}
			created = append(created, &o)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Series created",
		zap.String("activity_id", activity.ID.String()),
		zap.String("trip_id", activity.TripID.String()),
		zap.Stringer("rule", rule),
		zap.Int("occurrences", len(created)),
	)

	return created, nil
}

// EditSeries применяет правку содержимого к вхождениям, выбранным по editType.
// Возвращает изменённые вхождения по возрастанию Start.
func (s *SeriesService) EditSeries(ctx context.Context, occurrenceID uuid.UUID, editType model.EditType, changes model.ActivityChanges) ([]*model.Occurrence, error) {
	if _, err := model.ParseEditType(string(editType)); err != nil {
		return nil, err
	}
	if changes.IsEmpty() {
		return nil, fmt.Errorf("%w: nothing to change", model.ErrInvalidChanges)
	}
	if changes.DurationMinutes != nil && *changes.DurationMinutes < 0 {
		return nil, fmt.Errorf("%w: negative duration", model.ErrInvalidChanges)
	}

	var updated []*model.Occurrence
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		target, owner, err := resolveTarget(ctx, tx, occurrenceID)
		if err != nil {
			return err
		}

		chain, err := selectChain(ctx, tx, owner, editType)
		if err != nil {
			return err
		}

		var touched []*model.Activity
		for _, member := range chain {
			selected, err := selectOccurrences(ctx, tx, member, target, editType)
			if err != nil {
				return err
			}
			if len(selected) == 0 {
				continue
			}

			edited, err := s.editMember(ctx, tx, member, selected, editType, changes)
			if err != nil {
				return err
			}
			touched = append(touched, member)
			if edited.ID != member.ID {
				touched = append(touched, edited)
			}
			updated = append(updated, selected...)
		}

		_, err = s.generalizer.GeneralizeAll(ctx, tx, touched)
		return err
	})
	if err != nil {
		return nil, err
	}

	model.SortOccurrences(updated)

	s.logger.Info("Series edited",
		zap.String("occurrence_id", occurrenceID.String()),
		zap.String("edit_type", string(editType)),
		zap.Int("occurrences", len(updated)),
	)

	return updated, nil
}

// editMember применяет правку к выбранным вхождениям одной активности.
// Если у активности остаются невыбранные вхождения, выбранные уходят в новую активность:
// отдельную для single, дочернюю для following. Иначе активность меняется на месте.
func (s *SeriesService) editMember(
	ctx context.Context,
	tx repository.Tx,
	member *model.Activity,
	selected []*model.Occurrence,
	editType model.EditType,
	changes model.ActivityChanges,
) (*model.Activity, error) {
	occurrences, err := tx.ListOccurrences(ctx, member.ID)
	if err != nil {
		return nil, fmt.Errorf("list occurrences: %w", err)
	}

	inPlace := editType == model.EditAll || len(selected) >= len(occurrences)
	if editType == model.EditFollowing {
		// following меняет на месте, только если правка начинается с первого вхождения
		first := model.FirstOccurrence(occurrences)
		inPlace = first == nil || !first.Start.Before(model.FirstOccurrence(selected).Start)
	}

	if inPlace {
		changesDuration := changes.ChangesDuration(member)
		changes.Apply(member)
		if err := tx.UpdateActivity(ctx, member); err != nil {
			return nil, fmt.Errorf("update activity: %w", err)
		}
		if !changesDuration {
			return member, nil
		}
		return member, moveOccurrences(ctx, tx, member, selected)
	}

	var fork *model.Activity
	if editType == model.EditSingle {
		fork = member.Fork(nil)
		fork.Recurrence = nil
	} else {
		parentID := member.ID
		fork = member.Fork(&parentID)
	}
	changes.Apply(fork)

	if err := tx.CreateActivity(ctx, fork); err != nil {
		return nil, fmt.Errorf("create forked activity: %w", err)
	}

	s.logger.Debug("Activity forked",
		zap.String("activity_id", member.ID.String()),
		zap.String("fork_id", fork.ID.String()),
		zap.Int("occurrences", len(selected)),
	)

	return fork, moveOccurrences(ctx, tx, fork, selected)
}

// moveOccurrences привязывает вхождения к активности и пересчитывает End
func moveOccurrences(ctx context.Context, tx repository.Tx, activity *model.Activity, occurrences []*model.Occurrence) error {
	for _, o := range occurrences {
		o.Reassign(activity)
		if err := tx.UpdateOccurrence(ctx, o); err != nil {
			return fmt.Errorf("update occurrence: %w", err)
		}
	}
	return nil
}

// DeleteSeries удаляет вхождения, выбранные по editType, и обобщает
// активности цепочки, оставшиеся без вхождений
func (s *SeriesService) DeleteSeries(ctx context.Context, occurrenceID uuid.UUID, editType model.EditType) (*DeleteResult, error) {
	if _, err := model.ParseEditType(string(editType)); err != nil {
		return nil, err
	}

	result := &DeleteResult{}
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		target, owner, err := resolveTarget(ctx, tx, occurrenceID)
		if err != nil {
			return err
		}

		chain, err := selectChain(ctx, tx, owner, editType)
		if err != nil {
			return err
		}

		var ids []uuid.UUID
		for _, member := range chain {
			selected, err := selectOccurrences(ctx, tx, member, target, editType)
			if err != nil {
				return err
			}
			for _, o := range selected {
				ids = append(ids, o.ID)
			}
		}

		if len(ids) > 0 {
			if _, err := tx.DeleteOccurrences(ctx, ids); err != nil {
				return fmt.Errorf("delete occurrences: %w", err)
			}
		}
		result.RemovedOccurrenceIDs = ids

		generalized, err := s.generalizer.GeneralizeAll(ctx, tx, chain)
		if err != nil {
			return err
		}
		result.GeneralizedActivityIDs = generalized
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Series deleted",
		zap.String("occurrence_id", occurrenceID.String()),
		zap.String("edit_type", string(editType)),
		zap.Int("removed", len(result.RemovedOccurrenceIDs)),
		zap.Int("generalized", len(result.GeneralizedActivityIDs)),
	)

	return result, nil
}

// ListOccurrences вхождения активности по возрастанию Start
func (s *SeriesService) ListOccurrences(ctx context.Context, activityID uuid.UUID) ([]*model.Occurrence, error) {
	var occurrences []*model.Occurrence
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		activity, err := tx.GetActivity(ctx, activityID)
		if err != nil {
			return fmt.Errorf("get activity: %w", err)
		}
		if activity == nil {
			return fmt.Errorf("activity %s: %w", activityID, model.ErrNotFound)
		}

		occurrences, err = tx.ListOccurrences(ctx, activityID)
		if err != nil {
			return fmt.Errorf("get occurrences: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return occurrences, nil
}

// GeneralizeStale обобщает активности, оставшиеся с правилом или родителем без вхождений
func (s *SeriesService) GeneralizeStale(ctx context.Context) (int, error) {
	var generalized []uuid.UUID
	err := s.store.WithinTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		stale, err := tx.ListStaleRecurringActivities(ctx)
		if err != nil {
			return fmt.Errorf("get stale activities: %w", err)
		}

		generalized, err = s.generalizer.GeneralizeAll(ctx, tx, stale)
		return err
	})
	if err != nil {
		return 0, err
	}

	if len(generalized) > 0 {
		s.logger.Info("Stale activities generalized", zap.Int("count", len(generalized)))
	}

	return len(generalized), nil
}
