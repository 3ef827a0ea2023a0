package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

func TestRehydratorStartsEveryEnabledInstanceStaggered(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	var ids []session.SessionID
	for i := 0; i < 3; i++ {
		id := session.NewSessionID()
		ids = append(ids, id)
		repo.byID[id] = restoreAs(session.NewSession("fleet"), id)
	}

	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) { return newFakeAdapter(), nil }
	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)

	rh := lifecycle.NewRehydrator(repo, ctrl, 10*time.Millisecond, log)

	start := time.Now()
	err := rh.Run(context.Background())
	require.NoError(t, err)
	elapsed := time.Since(start)

	assert.GreaterOrEqual(t, elapsed, 20*time.Millisecond)

	for _, id := range ids {
		_, err := registry.Get(id)
		assert.NoError(t, err)
	}
}

func TestRehydratorStopsEarlyOnContextCancel(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	for i := 0; i < 5; i++ {
		id := session.NewSessionID()
		repo.byID[id] = restoreAs(session.NewSession("fleet"), id)
	}

	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) { return newFakeAdapter(), nil }
	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)

	rh := lifecycle.NewRehydrator(repo, ctrl, time.Hour, log)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := rh.Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
