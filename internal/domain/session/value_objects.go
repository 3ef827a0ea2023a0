package session

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// SessionID represents a unique session identifier
type SessionID struct {
	value string
}

// NewSessionID creates a new unique session ID
func NewSessionID() SessionID {
	return SessionID{value: uuid.New().String()}
}

// SessionIDFromString creates a SessionID from a string value
func SessionIDFromString(s string) (SessionID, error) {
	if s == "" {
		return SessionID{}, ErrInvalidSessionID
	}

	// Validate UUID format
	if _, err := uuid.Parse(s); err != nil {
		return SessionID{}, ErrInvalidSessionID
	}

	return SessionID{value: s}, nil
}

// String returns the string representation of the SessionID
func (id SessionID) String() string {
	return id.value
}

// IsEmpty returns true if the SessionID is empty
func (id SessionID) IsEmpty() bool {
	return id.value == ""
}

// Equals compares two SessionIDs for equality
func (id SessionID) Equals(other SessionID) bool {
	return id.value == other.value
}

// Status represents the connection status of an instance's session.
//
// This is the observational status set from the lifecycle state machine
// (spec §4.2): it is persisted by the controller on every transition but may
// lag the in-memory SessionState by one event, since persistence happens
// after the state machine has already moved.
type Status int

const (
	// StatusInitializing is entered the moment start() is called.
	StatusInitializing Status = iota
	// StatusLoading indicates the whatsmeow sync is in progress (0-100%).
	StatusLoading
	// StatusQRRequired means a QR payload is waiting to be scanned.
	StatusQRRequired
	// StatusAuthenticated means whatsmeow confirmed pairing; promotion to
	// CONNECTED is pending (spec §4.3).
	StatusAuthenticated
	// StatusConnected is the only status in which sends are dispatched
	// directly instead of being queued.
	StatusConnected
	// StatusSyncTimeout is reached when LOADING(100%) never promotes.
	StatusSyncTimeout
	// StatusDisconnected is the terminal status after a clean or dirty
	// disconnect; a reconnect may follow depending on the reason.
	StatusDisconnected
	// StatusAuthFailure means whatsmeow rejected authentication; no
	// automatic reconnect follows.
	StatusAuthFailure
	// StatusInitError means adapter.initialize() did not complete within
	// INIT_TIMEOUT.
	StatusInitError
	// StatusReconnecting is the status persisted while the reconnector has
	// torn the session down and is waiting out its backoff delay.
	StatusReconnecting
)

// String returns the string representation of the Status
func (s Status) String() string {
	switch s {
	case StatusInitializing:
		return "initializing"
	case StatusLoading:
		return "loading"
	case StatusQRRequired:
		return "qr_required"
	case StatusAuthenticated:
		return "authenticated"
	case StatusConnected:
		return "connected"
	case StatusSyncTimeout:
		return "sync_timeout"
	case StatusDisconnected:
		return "disconnected"
	case StatusAuthFailure:
		return "auth_failure"
	case StatusInitError:
		return "init_error"
	case StatusReconnecting:
		return "reconnecting"
	default:
		return "unknown"
	}
}

// IsValid returns true if the status is valid
func (s Status) IsValid() bool {
	return s >= StatusInitializing && s <= StatusReconnecting
}

// IsTerminal returns true for statuses that do not themselves imply a live
// adapter handle (spec §3 SessionState invariant: client_handle is non-empty
// iff status is not in {DISCONNECTED, INIT_ERROR}).
func (s Status) IsTerminal() bool {
	return s == StatusDisconnected || s == StatusInitError
}

// StatusFromString creates a Status from a string value
func StatusFromString(s string) (Status, error) {
	switch strings.ToLower(s) {
	case "initializing":
		return StatusInitializing, nil
	case "loading":
		return StatusLoading, nil
	case "qr_required":
		return StatusQRRequired, nil
	case "authenticated":
		return StatusAuthenticated, nil
	case "connected":
		return StatusConnected, nil
	case "sync_timeout":
		return StatusSyncTimeout, nil
	case "disconnected":
		return StatusDisconnected, nil
	case "auth_failure":
		return StatusAuthFailure, nil
	case "init_error":
		return StatusInitError, nil
	case "reconnecting":
		return StatusReconnecting, nil
	default:
		return StatusDisconnected, fmt.Errorf("invalid status: %s", s)
	}
}

// SessionName represents a session name with validation
type SessionName struct {
	value string
}

// NewSessionName creates a new SessionName with validation
func NewSessionName(name string) (SessionName, error) {
	if err := validateSessionName(name); err != nil {
		return SessionName{}, err
	}

	return SessionName{value: name}, nil
}

// String returns the string representation of the SessionName
func (n SessionName) String() string {
	return n.value
}

// IsEmpty returns true if the SessionName is empty
func (n SessionName) IsEmpty() bool {
	return n.value == ""
}

// validateSessionName validates a session name
func validateSessionName(name string) error {
	if name == "" {
		return ErrInvalidSessionName
	}

	if len(name) < 3 {
		return ErrSessionNameTooShort
	}

	if len(name) > 50 {
		return ErrSessionNameTooLong
	}

	// Check for invalid characters (only alphanumeric, spaces, hyphens, underscores)
	for _, char := range name {
		if !isValidSessionNameChar(char) {
			return ErrInvalidSessionNameChars
		}
	}

	return nil
}

// isValidSessionNameChar checks if a character is valid for session names
func isValidSessionNameChar(char rune) bool {
	return (char >= 'a' && char <= 'z') ||
		(char >= 'A' && char <= 'Z') ||
		(char >= '0' && char <= '9') ||
		char == ' ' ||
		char == '-' ||
		char == '_'
}

// SessionIdentifier represents a flexible session identifier that can be either a SessionID or SessionName
type SessionIdentifier struct {
	value          string
	identifierType IdentifierType
}

// IdentifierType represents the type of session identifier
type IdentifierType int

const (
	// IdentifierTypeID indicates the identifier is a SessionID (UUID)
	IdentifierTypeID IdentifierType = iota
	// IdentifierTypeName indicates the identifier is a SessionName
	IdentifierTypeName
)

// String returns the string representation of the IdentifierType
func (t IdentifierType) String() string {
	switch t {
	case IdentifierTypeID:
		return "id"
	case IdentifierTypeName:
		return "name"
	default:
		return "unknown"
	}
}

// NewSessionIdentifier creates a new SessionIdentifier with automatic type detection
func NewSessionIdentifier(value string) (SessionIdentifier, error) {
	if value == "" {
		return SessionIdentifier{}, ErrInvalidSessionIdentifier
	}

	// Trim whitespace to handle user input gracefully
	value = strings.TrimSpace(value)
	if value == "" {
		return SessionIdentifier{}, ErrInvalidSessionIdentifier
	}

	// Try to parse as UUID first (SessionID)
	if _, err := uuid.Parse(value); err == nil {
		return SessionIdentifier{
			value:          value,
			identifierType: IdentifierTypeID,
		}, nil
	}

	// If not a UUID, validate as SessionName
	if err := validateSessionName(value); err != nil {
		return SessionIdentifier{}, fmt.Errorf("invalid session identifier '%s': %w", value, err)
	}

	return SessionIdentifier{
		value:          value,
		identifierType: IdentifierTypeName,
	}, nil
}

// SessionIdentifierFromID creates a SessionIdentifier from a SessionID
func SessionIdentifierFromID(id SessionID) SessionIdentifier {
	return SessionIdentifier{
		value:          id.String(),
		identifierType: IdentifierTypeID,
	}
}

// SessionIdentifierFromName creates a SessionIdentifier from a SessionName
func SessionIdentifierFromName(name SessionName) SessionIdentifier {
	return SessionIdentifier{
		value:          name.String(),
		identifierType: IdentifierTypeName,
	}
}

// String returns the string representation of the SessionIdentifier
func (si SessionIdentifier) String() string {
	return si.value
}

// Type returns the type of the identifier
func (si SessionIdentifier) Type() IdentifierType {
	return si.identifierType
}

// IsID returns true if the identifier is a SessionID
func (si SessionIdentifier) IsID() bool {
	return si.identifierType == IdentifierTypeID
}

// IsName returns true if the identifier is a SessionName
func (si SessionIdentifier) IsName() bool {
	return si.identifierType == IdentifierTypeName
}

// ToSessionID converts the identifier to a SessionID if it's an ID type
func (si SessionIdentifier) ToSessionID() (SessionID, error) {
	if !si.IsID() {
		return SessionID{}, ErrInvalidSessionID
	}
	return SessionIDFromString(si.value)
}

// ToSessionName converts the identifier to a SessionName if it's a name type
func (si SessionIdentifier) ToSessionName() (SessionName, error) {
	if !si.IsName() {
		return SessionName{}, ErrInvalidSessionName
	}
	return NewSessionName(si.value)
}

// IsEmpty returns true if the SessionIdentifier is empty
func (si SessionIdentifier) IsEmpty() bool {
	return si.value == ""
}

// Equals compares two SessionIdentifiers for equality
func (si SessionIdentifier) Equals(other SessionIdentifier) bool {
	return si.value == other.value && si.identifierType == other.identifierType
}

// Validate validates the SessionIdentifier
func (si SessionIdentifier) Validate() error {
	if si.IsEmpty() {
		return ErrInvalidSessionIdentifier
	}

	if si.IsID() {
		// Validate UUID format
		if _, err := uuid.Parse(si.value); err != nil {
			return fmt.Errorf("invalid session ID format: %w", err)
		}
	} else if si.IsName() {
		// Validate session name
		if err := validateSessionName(si.value); err != nil {
			return fmt.Errorf("invalid session name: %w", err)
		}
	} else {
		return fmt.Errorf("unknown identifier type: %s", si.identifierType.String())
	}

	return nil
}

// WhatsAppJID represents a WhatsApp JID (Jabber ID)
type WhatsAppJID struct {
	value string
}

// NewWhatsAppJID creates a new WhatsAppJID with validation
func NewWhatsAppJID(jid string) (WhatsAppJID, error) {
	if jid == "" {
		return WhatsAppJID{}, ErrInvalidWhatsAppJID
	}

	// Basic JID validation (should contain @ symbol)
	if !strings.Contains(jid, "@") {
		return WhatsAppJID{}, ErrInvalidWhatsAppJID
	}

	return WhatsAppJID{value: jid}, nil
}

// String returns the string representation of the WhatsAppJID
func (j WhatsAppJID) String() string {
	return j.value
}

// IsEmpty returns true if the WhatsAppJID is empty
func (j WhatsAppJID) IsEmpty() bool {
	return j.value == ""
}

// Equals compares two WhatsAppJIDs for equality
func (j WhatsAppJID) Equals(other WhatsAppJID) bool {
	return j.value == other.value
}

// DisconnectReason classifies why a session left CONNECTED, driving both the
// reconnector's delay formula and the no-reconnect policy (spec §4.6, §7).
type DisconnectReason string

const (
	ReasonConflict      DisconnectReason = "CONFLICT"
	ReasonUnpaired      DisconnectReason = "UNPAIRED"
	ReasonNavigation    DisconnectReason = "NAVIGATION"
	ReasonTimeout       DisconnectReason = "TIMEOUT"
	ReasonNetworkError  DisconnectReason = "NETWORK_ERROR"
	ReasonLogout        DisconnectReason = "LOGOUT"
	ReasonTosBlock      DisconnectReason = "TOS_BLOCK"
	ReasonSmbTosBlock   DisconnectReason = "SMB_TOS_BLOCK"
	ReasonBanned        DisconnectReason = "BANNED"
	ReasonStreamReplace DisconnectReason = "STREAM_REPLACED"
	ReasonUnknown       DisconnectReason = "UNKNOWN"

	// Internal failure reasons fed by the liveness supervisor (spec §4.4/§4.5).
	ReasonConsecutiveHeartbeatFailures DisconnectReason = "CONSECUTIVE_HEARTBEAT_FAILURES"
	ReasonContextErrors                DisconnectReason = "CONTEXT_ERRORS"
	ReasonDeepCheckFailed              DisconnectReason = "DEEP_CHECK_FAILED"
	ReasonWatchdogTimeout              DisconnectReason = "WATCHDOG_TIMEOUT"
	ReasonZombie                       DisconnectReason = "ZOMBIE"
	ReasonStuck                        DisconnectReason = "STUCK"
	ReasonSyncTimeout                  DisconnectReason = "SYNC_TIMEOUT"
	ReasonInitTimeout                  DisconnectReason = "INIT_TIMEOUT"
	ReasonMemoryShed                   DisconnectReason = "MEMORY_SHED"

	// ReasonSendTriggered marks a reconnect kicked off by a caller sending
	// while the instance was not CONNECTED (C10 producer side, spec §4.7).
	ReasonSendTriggered DisconnectReason = "SEND_TRIGGERED"
)

// immediateReasons is the set for which the reconnector uses the immediate
// (linear) backoff formula instead of the exponential one (spec §4.6).
var immediateReasons = map[DisconnectReason]bool{
	ReasonConflict:      true,
	ReasonUnpaired:      true,
	ReasonNavigation:    true,
	ReasonTimeout:       true,
	ReasonNetworkError:  true,
	ReasonSendTriggered: true,
}

// IsImmediate reports whether this reason uses the immediate backoff curve.
func (r DisconnectReason) IsImmediate() bool {
	return immediateReasons[r]
}

// noReconnectReasons is the set that permanently disables reconnection and
// flips InstanceRecord.Enabled to false (spec §4.6, §7).
var noReconnectReasons = map[DisconnectReason]bool{
	ReasonLogout:      true,
	ReasonTosBlock:    true,
	ReasonSmbTosBlock: true,
	ReasonBanned:      true,
}

// PreventsReconnect reports whether this reason should stop the engine from
// ever retrying this instance automatically.
func (r DisconnectReason) PreventsReconnect() bool {
	return noReconnectReasons[r]
}

// String returns the string representation of the DisconnectReason
func (r DisconnectReason) String() string {
	if r == "" {
		return string(ReasonUnknown)
	}
	return string(r)
}
