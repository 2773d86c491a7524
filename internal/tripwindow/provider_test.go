package tripwindow

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/trip_planner/internal/model"
)

type countingProvider struct {
	windows map[uuid.UUID]model.TripWindow
	calls   int
}

func (p *countingProvider) Window(_ context.Context, tripID uuid.UUID) (model.TripWindow, error) {
	p.calls++
	w, ok := p.windows[tripID]
	if !ok {
		return model.TripWindow{}, model.ErrNotFound
	}
	return w, nil
}

func setup(t *testing.T) (*miniredis.Miniredis, *countingProvider, *CachedProvider, uuid.UUID) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	tripID := uuid.New()
	source := &countingProvider{windows: map[uuid.UUID]model.TripWindow{
		tripID: {
			From: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
			To:   time.Date(2024, 7, 14, 0, 0, 0, 0, time.UTC),
		},
	}}

	return mr, source, NewCachedProvider(source, client, time.Minute, zap.NewNop()), tripID
}

func TestCachedProviderReadThrough(t *testing.T) {
	mr, source, cached, tripID := setup(t)
	ctx := context.Background()

	first, err := cached.Window(ctx, tripID)
	require.NoError(t, err)
	second, err := cached.Window(ctx, tripID)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, source.calls)
	assert.True(t, mr.Exists(keyPrefix+tripID.String()))

	mr.FastForward(2 * time.Minute)
	_, err = cached.Window(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedProviderInvalidate(t *testing.T) {
	_, source, cached, tripID := setup(t)
	ctx := context.Background()

	_, err := cached.Window(ctx, tripID)
	require.NoError(t, err)
	require.NoError(t, cached.Invalidate(ctx, tripID))

	_, err = cached.Window(ctx, tripID)
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls)
}

func TestCachedProviderPropagatesSourceErrors(t *testing.T) {
	mr, _, cached, _ := setup(t)

	missing := uuid.New()
	_, err := cached.Window(context.Background(), missing)
	assert.True(t, errors.Is(err, model.ErrNotFound))
	assert.False(t, mr.Exists(keyPrefix+missing.String()))
}

func TestCachedProviderFallsBackWhenRedisIsDown(t *testing.T) {
	mr, source, cached, tripID := setup(t)
	mr.Close()

	window, err := cached.Window(context.Background(), tripID)
	require.NoError(t, err)
	assert.Equal(t, source.windows[tripID], window)
}

func TestCachedProviderIgnoresMalformedEntries(t *testing.T) {
	mr, source, cached, tripID := setup(t)
	require.NoError(t, mr.Set(keyPrefix+tripID.String(), "{not json"))

	window, err := cached.Window(context.Background(), tripID)
	require.NoError(t, err)
	assert.Equal(t, source.windows[tripID], window)
	assert.Equal(t, 1, source.calls)
}
