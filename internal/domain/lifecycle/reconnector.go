package lifecycle

import (
	"context"
	"sync"
	"time"

	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// ReconnectTarget is the narrow slice of the controller (C7) the reconnector
// drives: teardown the live adapter, then later start a fresh one. Kept as
// an interface so the reconnector never imports the controller directly —
// the controller is the one that holds a *Reconnector and calls Schedule.
type ReconnectTarget interface {
	Teardown(ctx context.Context, id InstanceID) error
	Start(ctx context.Context, id InstanceID) error
}

// reconnectRequest is one entry in the reconnector's work queue.
type reconnectRequest struct {
	id     InstanceID
	reason session.DisconnectReason
}

// Reconnector is the serialised per-instance reconnect pipeline (C9, spec
// §4.6): teardown → backoff delay → fresh start, with at most one in-flight
// reconnect per instance (spec §8 invariant 2) enforced by an in-flight
// guard keyed by instance id.
type Reconnector struct {
	registry *Registry
	repo     session.Repository
	target   ReconnectTarget
	policy   Policy
	logger   logger.Logger

	requests chan reconnectRequest

	mu       sync.Mutex
	inFlight map[InstanceID]struct{}
}

// NewReconnector creates a Reconnector. Run must be called once to start
// processing scheduled reconnects.
func NewReconnector(registry *Registry, repo session.Repository, target ReconnectTarget, policy Policy, log logger.Logger) *Reconnector {
	return &Reconnector{
		registry: registry,
		repo:     repo,
		target:   target,
		policy:   policy,
		logger:   log,
		requests: make(chan reconnectRequest, 256),
		inFlight: make(map[InstanceID]struct{}),
	}
}

// Schedule enqueues a reconnect for id with the given disconnect reason. If
// a reconnect for this id is already in flight, it returns ErrReconnectInFlight
// and drops the request — the in-flight attempt will itself re-observe
// current state on its next start() (spec §8 invariant 2: single reconnect
// per instance).
func (r *Reconnector) Schedule(id InstanceID, reason session.DisconnectReason) error {
	r.mu.Lock()
	if _, busy := r.inFlight[id]; busy {
		r.mu.Unlock()
		r.logger.DebugWithFields("reconnect already in flight, ignoring", logger.Fields{
			"instance_id": id.String(),
		})
		return ErrReconnectInFlight
	}
	r.inFlight[id] = struct{}{}
	r.mu.Unlock()

	select {
	case r.requests <- reconnectRequest{id: id, reason: reason}:
	default:
		r.mu.Lock()
		delete(r.inFlight, id)
		r.mu.Unlock()
		r.logger.WarnWithFields("reconnect request queue full, dropping", logger.Fields{
			"instance_id": id.String(),
		})
	}
	return nil
}

// Run processes scheduled reconnects until ctx is cancelled.
func (r *Reconnector) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-r.requests:
			go r.run(ctx, req)
		}
	}
}

func (r *Reconnector) run(ctx context.Context, req reconnectRequest) {
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, req.id)
		r.mu.Unlock()
	}()

	id := req.id

	if st, err := r.registry.Get(id); err == nil {
		st.mu.Lock()
		st.Reconnecting = true
		st.LastDisconnectReason = req.reason
		st.mu.Unlock()
		st.cancelProbes()
	}

	teardownCtx, cancel := context.WithTimeout(ctx, r.policy.DestroyTimeout)
	if err := r.target.Teardown(teardownCtx, id); err != nil {
		r.logger.WarnWithError("adapter teardown reported an error, continuing reconnect", err, logger.Fields{
			"instance_id": id.String(),
		})
	}
	cancel()

	r.registry.Delete(id)

	attempts := 0
	if sess, err := r.repo.GetByID(ctx, id); err == nil {
		attempts = sess.IncrementReconnectAttempts(r.policy.MaxReconnectAttempts)
		sess.SetStatus(session.StatusReconnecting)
		if req.reason != "" {
			sess.DisconnectWithReason(req.reason)
			sess.SetStatus(session.StatusReconnecting)
		}
		if err := r.repo.Update(ctx, sess); err != nil {
			r.logger.ErrorWithError("failed to persist reconnecting status", err, logger.Fields{
				"instance_id": id.String(),
			})
		}

		if !sess.Enabled() {
			r.logger.InfoWithFields("disconnect reason disabled intent, not scheduling reconnect", logger.Fields{
				"instance_id": id.String(),
				"reason":      string(req.reason),
			})
			return
		}
	}

	delay := r.policy.ReconnectDelay(req.reason, attempts)
	r.logger.InfoWithFields("scheduling reconnect", logger.Fields{
		"instance_id": id.String(),
		"reason":      string(req.reason),
		"attempts":    attempts,
		"delay_ms":    delay.Milliseconds(),
	})

	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if err := r.target.Start(ctx, id); err != nil {
		r.logger.WarnWithError("reconnect start rejected", err, logger.Fields{
			"instance_id": id.String(),
		})
	}
}
