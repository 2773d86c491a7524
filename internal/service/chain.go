package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Freeeeeet/trip_planner/internal/model"
	"github.com/Freeeeeet/trip_planner/internal/repository"
)

// resolveTarget находит вхождение и активность-владельца
func resolveTarget(ctx context.Context, tx repository.Tx, occurrenceID uuid.UUID) (*model.Occurrence, *model.Activity, error) {
	target, err := tx.GetOccurrence(ctx, occurrenceID)
	if err != nil {
		return nil, nil, fmt.Errorf("get occurrence: %w", err)
	}
	if target == nil {
		return nil, nil, fmt.Errorf("occurrence %s: %w", occurrenceID, model.ErrNotFound)
	}

	owner, err := tx.GetActivity(ctx, target.ActivityID)
	if err != nil {
		return nil, nil, fmt.Errorf("get activity: %w", err)
	}
	if owner == nil {
		return nil, nil, fmt.Errorf("occurrence %s has no activity %s: %w", target.ID, target.ActivityID, model.ErrChainIntegrity)
	}

	return target, owner, nil
}

// baseActivity поднимается по ParentID до корня цепочки
func baseActivity(ctx context.Context, tx repository.Tx, activity *model.Activity) (*model.Activity, error) {
	visited := map[uuid.UUID]bool{activity.ID: true}

	current := activity
	for current.ParentID != nil {
		parent, err := tx.GetActivity(ctx, *current.ParentID)
		if err != nil {
			return nil, fmt.Errorf("get parent activity: %w", err)
		}
		if parent == nil {
			return nil, fmt.Errorf("activity %s has missing parent %s: %w", current.ID, *current.ParentID, model.ErrChainIntegrity)
		}
		if visited[parent.ID] {
			return nil, fmt.Errorf("parent cycle at activity %s: %w", parent.ID, model.ErrChainIntegrity)
		}
		visited[parent.ID] = true
		current = parent
	}

	return current, nil
}

// withDescendants возвращает активность и всех её потомков (обход в ширину)
func withDescendants(ctx context.Context, tx repository.Tx, root *model.Activity) ([]*model.Activity, error) {
	chain := []*model.Activity{root}
	visited := map[uuid.UUID]bool{root.ID: true}

	for i := 0; i < len(chain); i++ {
		children, err := tx.ListChildActivities(ctx, chain[i].ID)
		if err != nil {
			return nil, fmt.Errorf("get child activities: %w", err)
		}
		for _, child := range children {
			if visited[child.ID] {
				return nil, fmt.Errorf("activity %s reached twice: %w", child.ID, model.ErrChainIntegrity)
			}
			visited[child.ID] = true
			chain = append(chain, child)
		}
	}

	return chain, nil
}

// selectChain активности, затронутые правкой данного типа
func selectChain(ctx context.Context, tx repository.Tx, owner *model.Activity, editType model.EditType) ([]*model.Activity, error) {
	switch editType {
	case model.EditSingle:
		return []*model.Activity{owner}, nil
	case model.EditFollowing:
		return withDescendants(ctx, tx, owner)
	case model.EditAll:
		root, err := baseActivity(ctx, tx, owner)
		if err != nil {
			return nil, err
		}
		return withDescendants(ctx, tx, root)
	default:
		return nil, fmt.Errorf("%w: %q", model.ErrInvalidEditType, editType)
	}
}

// selectOccurrences вхождения активности, затронутые правкой данного типа
func selectOccurrences(ctx context.Context, tx repository.Tx, activity *model.Activity, target *model.Occurrence, editType model.EditType) ([]*model.Occurrence, error) {
	if editType == model.EditSingle {
		return []*model.Occurrence{target}, nil
	}

	occurrences, err := tx.ListOccurrences(ctx, activity.ID)
	if err != nil {
		return nil, fmt.Errorf("get occurrences: %w", err)
	}
	if editType == model.EditAll {
		return occurrences, nil
	}

	var selected []*model.Occurrence
	for _, o := range occurrences {
		if !o.Start.Before(target.Start) {
			selected = append(selected, o)
		}
	}
	return selected, nil
}
