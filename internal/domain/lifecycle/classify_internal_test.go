package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wagateway/internal/domain/session"
)

func TestClassifyZombieStuckInactive(t *testing.T) {
	p := DefaultPolicy()
	p.ZombieThreshold = time.Minute
	p.LoadingTimeout = time.Minute
	p.InactivityThreshold = time.Minute

	now := time.Now()

	zombie := SessionState{Status: session.StatusConnected, LastPingOK: now.Add(-2 * time.Minute)}
	fresh := SessionState{Status: session.StatusConnected, LastPingOK: now.Add(-time.Second)}
	stuck := SessionState{Status: session.StatusLoading, LoadingStartedAt: now.Add(-2 * time.Minute)}
	notYetStuck := SessionState{Status: session.StatusLoading, LoadingStartedAt: now.Add(-time.Second)}
	inactive := SessionState{Status: session.StatusConnected, LastActivity: now.Add(-2 * time.Minute), LastPingOK: now}
	active := SessionState{Status: session.StatusConnected, LastActivity: now.Add(-time.Second), LastPingOK: now}

	assert.True(t, isZombie(zombie, now, p))
	assert.False(t, isZombie(fresh, now, p))
	assert.True(t, isStuck(stuck, now, p))
	assert.False(t, isStuck(notYetStuck, now, p))
	assert.True(t, isInactive(inactive, now, p))
	assert.False(t, isInactive(active, now, p))
}

func TestClassifyNonDecreasing(t *testing.T) {
	assert.True(t, nonDecreasing([]uint64{1, 1, 2, 3}))
	assert.False(t, nonDecreasing([]uint64{3, 2, 1}))
	assert.True(t, nonDecreasing(nil))
}
