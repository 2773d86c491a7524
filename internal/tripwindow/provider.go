// Package tripwindow поставляет границы дат поездки для генерации вхождений.
package tripwindow

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

// Provider источник окна дат поездки
type Provider interface {
	Window(ctx context.Context, tripID uuid.UUID) (model.TripWindow, error)
}

const keyPrefix = "trip_window:"

// CachedProvider кэширует окна поездок в Redis поверх другого Provider
type CachedProvider struct {
	next   Provider
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedProvider создаёт кэширующий провайдер
func NewCachedProvider(next Provider, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedProvider {
	return &CachedProvider{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

type cachedWindow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Window читает окно из кэша, при промахе - из источника.
// Недоступный Redis не ломает запрос: идём напрямую в источник.
func (p *CachedProvider) Window(ctx context.Context, tripID uuid.UUID) (model.TripWindow, error) {
	key := keyPrefix + tripID.String()

	raw, err := p.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if window, decodeErr := decodeWindow(raw); decodeErr == nil {
			return window, nil
		}
		p.logger.Warn("Dropping malformed cached trip window", zap.String("trip_id", tripID.String()))
	case errors.Is(err, redis.Nil):
	default:
		p.logger.Warn("Trip window cache read failed", zap.String("trip_id", tripID.String()), zap.Error(err))
	}

	window, err := p.next.Window(ctx, tripID)
	if err != nil {
		return model.TripWindow{}, err
	}

	payload, err := json.Marshal(cachedWindow{
		From: window.From.Format(model.DateLayout),
		To:   window.To.Format(model.DateLayout),
	})
	if err != nil {
		return model.TripWindow{}, fmt.Errorf("encode trip window: %w", err)
	}

	if err := p.client.Set(ctx, key, payload, p.ttl).Err(); err != nil {
		p.logger.Warn("Trip window cache write failed", zap.String("trip_id", tripID.String()), zap.Error(err))
	}

	return window, nil
}

// Invalidate удаляет окно поездки из кэша
func (p *CachedProvider) Invalidate(ctx context.Context, tripID uuid.UUID) error {
	if err := p.client.Del(ctx, keyPrefix+tripID.String()).Err(); err != nil {
		return fmt.Errorf("invalidate trip window: %w", err)
	}
	return nil
}

func decodeWindow(raw string) (model.TripWindow, error) {
	var cw cachedWindow
	if err := json.Unmarshal([]byte(raw), &cw); err != nil {
		return model.TripWindow{}, err
	}

	from, err := time.Parse(model.DateLayout, cw.From)
	if err != nil {
		return model.TripWindow{}, err
	}
	to, err := time.Parse(model.DateLayout, cw.To)
	if err != nil {
		return model.TripWindow{}, err
	}

	return model.TripWindow{From: from, To: to}, nil
}
