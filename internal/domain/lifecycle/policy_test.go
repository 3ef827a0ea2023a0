package lifecycle_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
)

func TestPolicyReconnectDelayImmediate(t *testing.T) {
	p := lifecycle.DefaultPolicy()

	delay := p.ReconnectDelay(session.ReasonNetworkError, 0)
	assert.GreaterOrEqual(t, delay, p.ImmediateBase)
	assert.Less(t, delay, p.ImmediateBase+time.Second)

	delayAt3 := p.ReconnectDelay(session.ReasonNetworkError, 3)
	assert.Equal(t, p.ImmediateBase+3*p.ImmediateStep, delayAt3)
}

func TestPolicyReconnectDelayExponentialIsBounded(t *testing.T) {
	p := lifecycle.DefaultPolicy()

	for attempt := 0; attempt < 30; attempt++ {
		delay := p.ReconnectDelay(session.ReasonUnknown, attempt)
		assert.LessOrEqual(t, delay, p.MaxDelay+p.JitterMax)
		assert.GreaterOrEqual(t, delay, time.Duration(0))
	}
}

func TestPolicyReconnectDelayMonotonicUpToCap(t *testing.T) {
	p := lifecycle.DefaultPolicy()
	p.JitterMax = 0

	// With jitter disabled each delay is the bare backoff term, so it can be
	// compared across increasing attempt counts; per spec §8 invariant 4,
	// successive delays for a fixed non-immediate reason are non-decreasing
	// up to MAX_DELAY.
	prevDelay := time.Duration(-1)
	for attempt := 0; attempt < 15; attempt++ {
		delay := p.ReconnectDelay(session.ReasonUnknown, attempt)
		assert.GreaterOrEqual(t, delay, prevDelay)
		prevDelay = delay
	}
}

func TestPolicyDefaults(t *testing.T) {
	p := lifecycle.DefaultPolicy()

	assert.Equal(t, 180*time.Second, p.InitTimeout)
	assert.Equal(t, 10, p.MaxConsecutiveFailures)
	assert.Equal(t, 20, p.MaxReconnectAttempts)
	assert.Equal(t, 100, p.MaxQueueSize)
	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, 30*time.Second, p.GracefulShutdownTimeout)
}
