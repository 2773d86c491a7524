package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

// Generalizer сбрасывает правило и родителя у активности без вхождений.
// Саму активность никогда не удаляет.
type Generalizer struct {
	logger *zap.Logger
}

func NewGeneralizer(logger *zap.Logger) *Generalizer {
	return &Generalizer{logger: logger}
}

// Generalize возвращает true, если активность перешла в обобщённое состояние.
// Повторный вызов ничего не меняет.
func (g *Generalizer) Generalize(ctx context.Context, tx repository.Tx, activity *model.Activity) (bool, error) {
	if activity.IsGeneralized() {
		return false, nil
	}

	count, err := tx.CountOccurrences(ctx, activity.ID)
	if err != nil {
		return false, fmt.Errorf("count occurrences: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	activity.Recurrence = nil
	activity.ParentID = nil

	if err := tx.UpdateActivity(ctx, activity); err != nil {
		return false, fmt.Errorf("generalize activity: %w", err)
	}

	g.logger.Info("Activity generalized",
		zap.String("activity_id", activity.ID.String()),
	)

	return true, nil
}

// GeneralizeAll обобщает каждую активность и возвращает ID изменённых
func (g *Generalizer) GeneralizeAll(ctx context.Context, tx repository.Tx, activities []*model.Activity) ([]uuid.UUID, error) {
	var generalized []uuid.UUID
	for _, activity := range activities {
		changed, err := g.Generalize(ctx, tx, activity)
		if err != nil {
			return nil, err
		}
		if changed {
			generalized = append(generalized, activity.ID)
		}
	}
	return generalized, nil
}
