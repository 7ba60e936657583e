package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type chanPrefetcher struct {
	calls chan struct{}
	err   error
}

func (p *chanPrefetcher) Prefetch(context.Context) error {
	p.calls <- struct{}{}
	return p.err
}

func TestScheduler_RunsImmediately(t *testing.T) {
	p := &chanPrefetcher{calls: make(chan struct{}, 4), err: errors.New("redis down")}
	s, err := NewScheduler(p, "@every 1h", zap.NewNop())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.Start(ctx))

	select {
	case <-p.calls:
	case <-time.After(2 * time.Second):
		t.Fatal("prefetch was not started")
	}
	s.Stop()
}

func TestScheduler_Disabled(t *testing.T) {
	p := &chanPrefetcher{calls: make(chan struct{}, 1)}
	s, err := NewScheduler(p, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	s.Stop()

	select {
	case <-p.calls:
		t.Fatal("disabled scheduler must not prefetch")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestScheduler_InvalidSpec(t *testing.T) {
	_, err := NewScheduler(&chanPrefetcher{}, "every tuesday", zap.NewNop())
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	logger, err := NewLogger("production", "warn")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
	assert.True(t, logger.Core().Enabled(zap.WarnLevel))

	dev, err := NewLogger("development", "")
	require.NoError(t, err)
	assert.True(t, dev.Core().Enabled(zap.DebugLevel))

	_, err = NewLogger("development", "chatty")
	assert.Error(t, err)
}
