package lifecycle_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

func TestSupervisorRestartsEnabledInstanceWithNoLiveSession(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("orphaned"), id)

	started := make(chan lifecycle.InstanceID, 1)
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) {
		return newFakeAdapter(), nil
	}

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)

	policy := controllerFastPolicy()
	policy.RecoveryCheckInterval = 10 * time.Millisecond
	sup := lifecycle.NewSupervisor(registry, repo, ctrl, policy, log)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	go sup.Run(ctx)

	waitFor(t, time.Second, func() bool {
		_, err := registry.Get(id)
		if err == nil {
			select {
			case started <- id:
			default:
			}
			return true
		}
		return false
	})
}

func TestSupervisorMemoryMonitorDoesNotPanicWithoutHistory(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) { return newFakeAdapter(), nil }
	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)

	policy := controllerFastPolicy()
	policy.MemoryCheckInterval = 5 * time.Millisecond
	policy.MemoryHistorySize = 3
	sup := lifecycle.NewSupervisor(registry, repo, ctrl, policy, log)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NotPanics(t, func() { sup.Run(ctx) })
}
