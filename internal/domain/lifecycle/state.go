package lifecycle

import (
	"sync"
	"time"

	"wagateway/internal/domain/session"
)

// InstanceID is the stable identifier SessionState, InstanceRecord and the
// session blob store are all keyed by.
type InstanceID = session.SessionID

// SessionState is the in-memory record held by the registry (C5), field for
// field as spec.md §3 names it, plus the webhook/sistema mirrors and
// degraded flag SPEC_FULL.md adds so the webhook dispatcher and /api/health
// don't need a store round-trip on the hot path.
type SessionState struct {
	mu sync.Mutex

	InstanceID InstanceID
	Status     session.Status
	Adapter    Adapter // nil until Start builds it; left set after Disconnected/InitError (Teardown destroys it without clearing the field)
	QR         string

	WebhookURL string
	SistemaURL string

	CreatedAt        time.Time
	LoadingStartedAt time.Time
	LastActivity     time.Time
	LastPingOK       time.Time
	LastDeepCheckOK  time.Time
	AuthenticatedAt  time.Time
	DisconnectedAt   time.Time

	ReconnectAttempts       int
	ConsecutivePingFailures int
	ContextErrorCount       int
	WSCheckFailures         int

	Reconnecting              bool
	ShuttingDown              bool
	NeedsReconnect            bool
	LifecyclePromotionRunning bool
	Degraded                  bool

	LastDisconnectReason session.DisconnectReason

	// probeCancel stops the three probe goroutines armed on entering
	// CONNECTED (spec §4.4); nil when no probes are armed.
	probeCancel func()
}

// newSessionState creates a freshly-initializing SessionState.
func newSessionState(id InstanceID) *SessionState {
	now := time.Now()
	return &SessionState{
		InstanceID: id,
		Status:     session.StatusInitializing,
		CreatedAt:  now,
	}
}

// snapshot returns a value copy safe to hand to a reader (health endpoint,
// logging) without leaking the mutex or a pointer into the registry map.
func (s *SessionState) snapshot() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *s
	cp.probeCancel = nil
	return cp
}

// cancelProbes stops the armed probe timers, if any, and clears the handle.
// Called on any exit from CONNECTED (spec §4.4).
func (s *SessionState) cancelProbes() {
	s.mu.Lock()
	cancel := s.probeCancel
	s.probeCancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// armProbes stores the cancel function for the probe goroutines just
// started. Any previously armed set is cancelled first.
func (s *SessionState) armProbes(cancel func()) {
	s.mu.Lock()
	prev := s.probeCancel
	s.probeCancel = cancel
	s.mu.Unlock()
	if prev != nil {
		prev()
	}
}
