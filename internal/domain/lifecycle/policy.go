// Package lifecycle implements the Session Lifecycle & Resilience Engine:
// the per-instance state machine, its probes, reconnector, pending-message
// queue, rehydrator and shutdown coordinator that sit above the WhatsApp
// adapter layer.
package lifecycle

import (
	"math/rand"
	"time"

	"wagateway/internal/domain/session"
	"wagateway/internal/infra/config"
)

// Policy is the engine's numeric and classification policy (C1), built once
// from config.LifecycleConfig and handed to every component that needs a
// timeout, interval or backoff parameter instead of a hardcoded constant.
type Policy struct {
	InitTimeout        time.Duration
	LoadingTimeout     time.Duration
	PromotionPoll      time.Duration
	PromotionMaxPolls  int

	HeartbeatInterval      time.Duration
	StateCheckTimeout      time.Duration
	MaxConsecutiveFailures int
	MaxContextErrors       int
	DeepCheckInterval      time.Duration
	DeepCheckTimeout       time.Duration
	WatchdogInterval       time.Duration
	PingTimeoutThreshold   time.Duration
	RecoveryCheckInterval  time.Duration

	ZombieThreshold     time.Duration
	InactivityThreshold time.Duration
	MemoryCheckInterval time.Duration
	MemoryHistorySize   int
	MaxHeapBytesPerInstance uint64

	DestroyTimeout       time.Duration
	ImmediateBase        time.Duration
	ImmediateStep        time.Duration
	BaseDelay            time.Duration
	MaxDelay             time.Duration
	JitterMax            time.Duration
	MaxReconnectAttempts int
	ReconnectResetAfter  time.Duration

	MaxQueueSize int
	MaxRetries   int
	MessageTTL   time.Duration
	DrainDelay   time.Duration
	DrainPacing  time.Duration

	RehydrateStagger       time.Duration
	GracefulShutdownTimeout time.Duration
}

// NewPolicy builds a Policy from loaded configuration.
func NewPolicy(cfg config.LifecycleConfig) Policy {
	return Policy{
		InitTimeout:             cfg.InitTimeout,
		LoadingTimeout:          cfg.LoadingTimeout,
		PromotionPoll:           cfg.PromotionPoll,
		PromotionMaxPolls:       cfg.PromotionMaxPolls,
		HeartbeatInterval:       cfg.HeartbeatInterval,
		StateCheckTimeout:       cfg.StateCheckTimeout,
		MaxConsecutiveFailures:  cfg.MaxConsecutiveFailures,
		MaxContextErrors:        cfg.MaxContextErrors,
		DeepCheckInterval:       cfg.DeepCheckInterval,
		DeepCheckTimeout:        cfg.DeepCheckTimeout,
		WatchdogInterval:        cfg.WatchdogInterval,
		PingTimeoutThreshold:    cfg.PingTimeoutThreshold,
		RecoveryCheckInterval:   cfg.RecoveryCheckInterval,
		ZombieThreshold:         cfg.ZombieThreshold,
		InactivityThreshold:     cfg.InactivityThreshold,
		MemoryCheckInterval:     cfg.MemoryCheckInterval,
		MemoryHistorySize:       cfg.MemoryHistorySize,
		MaxHeapBytesPerInstance: cfg.MaxHeapBytesPerInstance,
		DestroyTimeout:          cfg.DestroyTimeout,
		ImmediateBase:           cfg.ImmediateBase,
		ImmediateStep:           cfg.ImmediateStep,
		BaseDelay:               cfg.BaseDelay,
		MaxDelay:                cfg.MaxDelay,
		JitterMax:               cfg.JitterMax,
		MaxReconnectAttempts:    cfg.MaxReconnectAttempts,
		ReconnectResetAfter:     cfg.ReconnectResetAfter,
		MaxQueueSize:            cfg.MaxQueueSize,
		MaxRetries:              cfg.MaxRetries,
		MessageTTL:              cfg.MessageTTL,
		DrainDelay:              cfg.DrainDelay,
		DrainPacing:             cfg.DrainPacing,
		RehydrateStagger:        cfg.RehydrateStagger,
		GracefulShutdownTimeout: cfg.GracefulShutdownTimeout,
	}
}

// DefaultPolicy returns the conservative defaults named in spec.md §1/§4,
// useful for tests and for callers that have not loaded a Config.
func DefaultPolicy() Policy {
	return NewPolicy(config.LifecycleConfig{
		InitTimeout:             180 * time.Second,
		LoadingTimeout:          300 * time.Second,
		PromotionPoll:           15 * time.Second,
		PromotionMaxPolls:       10,
		HeartbeatInterval:       180 * time.Second,
		StateCheckTimeout:       15 * time.Second,
		MaxConsecutiveFailures:  10,
		MaxContextErrors:        15,
		DeepCheckInterval:       30 * time.Minute,
		DeepCheckTimeout:        20 * time.Second,
		WatchdogInterval:        60 * time.Second,
		PingTimeoutThreshold:    600 * time.Second,
		RecoveryCheckInterval:   60 * time.Second,
		ZombieThreshold:         1800 * time.Second,
		InactivityThreshold:     900 * time.Second,
		MemoryCheckInterval:     900 * time.Second,
		MemoryHistorySize:       10,
		MaxHeapBytesPerInstance: 256 * 1024 * 1024,
		DestroyTimeout:          10 * time.Second,
		ImmediateBase:           3 * time.Second,
		ImmediateStep:           1500 * time.Millisecond,
		BaseDelay:               5 * time.Second,
		MaxDelay:                300 * time.Second,
		JitterMax:               3 * time.Second,
		MaxReconnectAttempts:    20,
		ReconnectResetAfter:     30 * time.Minute,
		MaxQueueSize:            100,
		MaxRetries:              3,
		MessageTTL:              5 * time.Minute,
		DrainDelay:              2 * time.Second,
		DrainPacing:             500 * time.Millisecond,
		RehydrateStagger:        2 * time.Second,
		GracefulShutdownTimeout: 30 * time.Second,
	})
}

// ReconnectDelay implements the spec §4.6 delay formula: immediate reasons
// get a linear delay, everything else gets exponential backoff with jitter.
// attempts is the session's reconnect_attempts counter *before* this attempt.
func (p Policy) ReconnectDelay(reason session.DisconnectReason, attempts int) time.Duration {
	if reason.IsImmediate() {
		return p.ImmediateBase + time.Duration(attempts)*p.ImmediateStep
	}

	backoff := float64(p.BaseDelay) * pow15(attempts)
	delay := time.Duration(backoff)
	if delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	if p.JitterMax > 0 {
		delay += time.Duration(rand.Int63n(int64(p.JitterMax) + 1))
	}
	return delay
}

// pow15 computes 1.5^n without pulling in math.Pow for a handful of calls a
// minute; n is always small (bounded by MaxReconnectAttempts).
func pow15(n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= 1.5
	}
	return result
}
