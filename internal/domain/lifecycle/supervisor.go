package lifecycle

import (
	"context"
	"runtime"
	"time"

	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// Supervisor is the Liveness Supervisor's global half (C8): the per-instance
// heartbeat/deep-check/watchdog probes live on Controller (spec §4.4), armed
// per SessionState; Supervisor runs the two sweeps that need a view across
// every instance at once — the recovery sweep and the memory monitor.
type Supervisor struct {
	registry *Registry
	repo     session.Repository
	ctrl     *Controller
	policy   Policy
	logger   logger.Logger

	memSamples []uint64
}

// NewSupervisor creates a Supervisor. Run must be called once to start its
// sweep loops; it exits when ctx is cancelled.
func NewSupervisor(registry *Registry, repo session.Repository, ctrl *Controller, policy Policy, log logger.Logger) *Supervisor {
	return &Supervisor{
		registry: registry,
		repo:     repo,
		ctrl:     ctrl,
		policy:   policy,
		logger:   log,
	}
}

// Run starts the recovery sweep and memory monitor loops and blocks until
// ctx is cancelled.
func (s *Supervisor) Run(ctx context.Context) {
	go s.recoverySweepLoop(ctx)
	s.memoryMonitorLoop(ctx)
}

func (s *Supervisor) recoverySweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.policy.RecoveryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runRecoverySweep(ctx)
		}
	}
}

// runRecoverySweep implements spec §4.1/§4.5's recovery sweep: classify
// every live SessionState as zombie/stuck/inactive and reconnect it, then
// restart any enabled=true instance that currently has no SessionState at
// all (the "intent dominance" invariant, spec §8).
func (s *Supervisor) runRecoverySweep(ctx context.Context) {
	if s.ctrl.ShuttingDown() {
		return
	}

	now := time.Now()
	seen := make(map[InstanceID]struct{})

	for _, st := range s.registry.Enumerate() {
		seen[st.InstanceID] = struct{}{}

		switch {
		case isZombie(st, now, s.policy):
			s.logger.WarnWithFields("recovery sweep: zombie session", logger.Fields{"instance_id": st.InstanceID.String()})
			s.scheduleIfReconnector(st.InstanceID, session.ReasonZombie)

		case isStuck(st, now, s.policy):
			s.logger.WarnWithFields("recovery sweep: stuck session", logger.Fields{"instance_id": st.InstanceID.String()})
			s.scheduleIfReconnector(st.InstanceID, session.ReasonStuck)

		case isInactive(st, now, s.policy):
			s.logger.InfoWithFields("recovery sweep: inactive session, probing before reconnect", logger.Fields{"instance_id": st.InstanceID.String()})
			if !s.onDemandHeartbeatOK(ctx, st) {
				s.scheduleIfReconnector(st.InstanceID, session.ReasonZombie)
			}
		}
	}

	enabled, err := s.repo.GetEnabled(ctx)
	if err != nil {
		s.logger.WarnWithError("recovery sweep: failed to list enabled instances", err, nil)
		return
	}

	for _, sess := range enabled {
		if _, ok := seen[sess.ID()]; ok {
			continue
		}
		s.logger.InfoWithFields("recovery sweep: restarting enabled instance with no live session", logger.Fields{
			"instance_id": sess.ID().String(),
		})
		s.ctrl.Start(ctx, sess.ID())
	}
}

func isZombie(st SessionState, now time.Time, p Policy) bool {
	return st.Status == session.StatusConnected && !st.LastPingOK.IsZero() && now.Sub(st.LastPingOK) > p.ZombieThreshold
}

func isStuck(st SessionState, now time.Time, p Policy) bool {
	if st.Status != session.StatusInitializing && st.Status != session.StatusLoading {
		return false
	}
	return !st.LoadingStartedAt.IsZero() && now.Sub(st.LoadingStartedAt) > p.LoadingTimeout
}

func isInactive(st SessionState, now time.Time, p Policy) bool {
	return st.Status == session.StatusConnected && !st.LastActivity.IsZero() && now.Sub(st.LastActivity) > p.InactivityThreshold
}

// onDemandHeartbeatOK performs a single ad-hoc liveness check for an
// inactive session (spec §4.1's "triggers an on-demand heartbeat before any
// reconnect"). A missing adapter or probe error reports not-ok.
func (s *Supervisor) onDemandHeartbeatOK(ctx context.Context, st SessionState) bool {
	if st.Adapter == nil {
		return false
	}
	checkCtx, cancel := context.WithTimeout(ctx, s.policy.StateCheckTimeout)
	defer cancel()
	state, err := st.Adapter.GetState(checkCtx)
	return err == nil && state == AdapterStateConnected
}

func (s *Supervisor) scheduleIfReconnector(id InstanceID, reason session.DisconnectReason) {
	if s.ctrl.reconnector != nil {
		s.ctrl.reconnector.Schedule(id, reason)
	}
}

// memoryMonitorLoop implements spec §4.1's memory monitor: sample process
// heap and keep a rolling history of MemoryHistorySize samples. When the
// history is full and non-decreasing it logs a suspected leak, forces a GC
// and sheds state by reconnecting the oldest CONNECTED session; there is no
// separate heap-size threshold.
func (s *Supervisor) memoryMonitorLoop(ctx context.Context) {
	ticker := time.NewTicker(s.policy.MemoryCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runMemoryCheck()
		}
	}
}

func (s *Supervisor) runMemoryCheck() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.memSamples = append(s.memSamples, m.HeapAlloc)
	if len(s.memSamples) > s.policy.MemoryHistorySize {
		s.memSamples = s.memSamples[len(s.memSamples)-s.policy.MemoryHistorySize:]
	}

	if len(s.memSamples) < s.policy.MemoryHistorySize {
		return
	}

	if nonDecreasing(s.memSamples) {
		s.logger.WarnWithFields("memory monitor: suspected heap leak", logger.Fields{
			"heap_alloc_bytes": m.HeapAlloc,
			"samples":          len(s.memSamples),
		})
		runtime.GC()
		s.shedOldestConnected()
	}
}

func nonDecreasing(samples []uint64) bool {
	for i := 1; i < len(samples); i++ {
		if samples[i] < samples[i-1] {
			return false
		}
	}
	return true
}

func (s *Supervisor) shedOldestConnected() {
	var oldest *SessionState
	for _, st := range s.registry.Enumerate() {
		if st.Status != session.StatusConnected {
			continue
		}
		stCopy := st
		if oldest == nil || stCopy.AuthenticatedAt.Before(oldest.AuthenticatedAt) {
			oldest = &stCopy
		}
	}
	if oldest == nil {
		return
	}

	s.logger.WarnWithFields("memory monitor: shedding oldest connected session", logger.Fields{
		"instance_id": oldest.InstanceID.String(),
	})
	s.scheduleIfReconnector(oldest.InstanceID, session.ReasonMemoryShed)
}
