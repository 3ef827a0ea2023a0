package lifecycle

import (
	"context"
	"time"
)

// AdapterState is the connection state the adapter itself reports through
// getState(), distinct from the controller's own Status (session.Status):
// the adapter speaks whatsmeow/browser-layer vocabulary, the controller
// translates it into the ten-value state machine (spec §4.2).
type AdapterState int

const (
	AdapterStateDisconnected AdapterState = iota
	AdapterStateOpening
	AdapterStatePairing
	AdapterStateConnected
	AdapterStateUnpaired
	AdapterStateUnpairedIdle
	AdapterStateConflict
	AdapterStateTimeout
)

func (s AdapterState) String() string {
	switch s {
	case AdapterStateDisconnected:
		return "DISCONNECTED"
	case AdapterStateOpening:
		return "OPENING"
	case AdapterStatePairing:
		return "PAIRING"
	case AdapterStateConnected:
		return "CONNECTED"
	case AdapterStateUnpaired:
		return "UNPAIRED"
	case AdapterStateUnpairedIdle:
		return "UNPAIRED_IDLE"
	case AdapterStateConflict:
		return "CONFLICT"
	case AdapterStateTimeout:
		return "TIMEOUT"
	default:
		return "UNKNOWN"
	}
}

// MediaKind distinguishes the payload carried by an outbound media message.
type MediaKind int

const (
	MediaKindImage MediaKind = iota
	MediaKindDocument
	MediaKindAudio
	MediaKindVideo
)

// OutboundMedia is the adapter-facing media send payload.
type OutboundMedia struct {
	Kind     MediaKind
	Path     string
	Caption  string
	Filename string
}

// AdapterInfo is the device identity the adapter can report once
// authenticated.
type AdapterInfo struct {
	JID   string
	Phone string
}

// Adapter is the Browser Client Adapter (C6, spec §6.1): the opaque handle
// the controller drives through an instance's life, wrapping whatsmeow. The
// controller treats it as an external collaborator — any call may block or
// fail mid-flight, and the controller must hold no lock while calling it.
type Adapter interface {
	// Initialize starts the underlying connection. The controller enforces
	// INIT_TIMEOUT around this call; Initialize itself should not enforce
	// its own conflicting deadline.
	Initialize(ctx context.Context) error

	// GetState reports the adapter's own view of its connection, used by the
	// promotion loop (spec §4.3) and the heartbeat probe (spec §4.4).
	GetState(ctx context.Context) (AdapterState, error)

	// Destroy tears the adapter down. Implementations must swallow
	// context-destroyed/target-closed style errors from an already-dead
	// connection rather than surface them, per spec §4.6.
	Destroy(ctx context.Context) error

	// Takeover resolves a CONFLICT state observation (spec §4.2) by
	// reasserting this device as the active session.
	Takeover(ctx context.Context) error

	// SendMessage dispatches a text message. Callers only invoke this while
	// the controller believes the session is CONNECTED.
	SendMessage(ctx context.Context, to, body string) error

	// SendMedia dispatches a media message.
	SendMedia(ctx context.Context, to string, media OutboundMedia) error

	// Info returns the device identity known so far; the zero value is
	// valid before authentication completes.
	Info() AdapterInfo

	// SetEventSink registers the single event sink the adapter delivers
	// lifecycle events to. The controller calls this once per SessionState
	// and clears it before Destroy.
	SetEventSink(sink AdapterEventSink)
}

// AdapterEventSink is the set of events the core subscribes to (spec §6.1).
// The controller implements this interface and is the sole consumer; the
// adapter must not invoke it concurrently for the same instance.
type AdapterEventSink interface {
	OnQR(payload string)
	OnLoading(percent int, message string)
	OnAuthenticated()
	OnReady(jid, phone string)
	OnAuthFailure(reason string)
	OnDisconnected(reason string)
	OnChangeState(state AdapterState)
	OnRemoteSessionSaved()
	OnMessage(msg InboundMessage)
}

// InboundMessage is the adapter-facing shape of a received message, kept
// independent of whatsmeow's own event types so the controller and C13
// webhook dispatcher never import the driver package directly.
type InboundMessage struct {
	ID        string
	From      string
	Body      string
	IsFromMe  bool
	Timestamp time.Time
}
