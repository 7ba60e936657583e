package calendar

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Freeeeeet/availability_bot/internal/availability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	failGet bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (m *memoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet {
		return nil, errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return v, nil
}

func (m *memoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

type countingSource struct {
	calls int
	busy  []availability.Interval
	err   error
}

func (c *countingSource) Name() string { return "counting" }

func (c *countingSource) Busy(context.Context, time.Time, time.Time) ([]availability.Interval, error) {
	c.calls++
	return c.busy, c.err
}

func TestCachedSource_ReadThrough(t *testing.T) {
	inner := &countingSource{busy: []availability.Interval{hours(9, 10), hours(20, 21)}}
	store := newMemoryStore()
	src := NewCachedSource(inner, store, 5*time.Minute, zap.NewNop())

	first, err := src.Busy(context.Background(), day.Add(8*time.Hour), day.Add(12*time.Hour))
	require.NoError(t, err)
	second, err := src.Busy(context.Background(), day.Add(6*time.Hour), day.Add(23*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, 1, inner.calls, "same UTC day should hit the cache")
	require.Len(t, first, 1)
	assert.True(t, first[0].Start.Equal(hours(9, 10).Start))
	assert.Len(t, second, 2)

	require.Len(t, store.ttls, 1)
	for key, ttl := range store.ttls {
		assert.Equal(t, 5*time.Minute, ttl)
		assert.Contains(t, key, "busy:counting:")
	}
}

func TestCachedSource_InnerErrorNotCached(t *testing.T) {
	inner := &countingSource{err: errors.New("timeout")}
	store := newMemoryStore()
	src := NewCachedSource(inner, store, time.Minute, zap.NewNop())

	_, err := src.Busy(context.Background(), day, day.Add(time.Hour))
	require.Error(t, err)
	assert.Empty(t, store.data)
}

func TestCachedSource_StoreFailureFallsThrough(t *testing.T) {
	inner := &countingSource{busy: []availability.Interval{hours(9, 10)}}
	store := newMemoryStore()
	store.failGet = true
	src := NewCachedSource(inner, store, time.Minute, zap.NewNop())

	got, err := src.Busy(context.Background(), day, day.Add(24*time.Hour))
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, 1, inner.calls)
	assert.Equal(t, "counting", src.Name())
}

func TestDayAligned(t *testing.T) {
	lo, hi := dayAligned(day.Add(3*time.Hour), day.Add(26*time.Hour))
	assert.Equal(t, day, lo)
	assert.Equal(t, day.Add(48*time.Hour), hi)

	lo, hi = dayAligned(day, day.Add(24*time.Hour))
	assert.Equal(t, day, lo)
	assert.Equal(t, day.Add(24*time.Hour), hi)
}
