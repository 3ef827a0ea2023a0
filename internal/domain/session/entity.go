package session

import (
	"net/url"
	"strings"
	"time"
)

// Session represents one instance's durable record: the InstanceRecord of
// spec.md §3. "enabled" is the durable intent the rehydrator and recovery
// sweep act on; "status" is the last-known, observational connection state
// and may lag the in-memory engine by one event.
type Session struct {
	id                   SessionID
	name                 string
	status               Status
	waJID                string
	qrCode               string
	proxyURL             string
	isActive             bool
	enabled              bool
	webhookURL           string
	sistemaURL           string
	apiToken             string
	phone                string
	lastDisconnectReason DisconnectReason
	reconnectAttempts    int
	lastConnectionAt     time.Time
	createdAt            time.Time
	updatedAt            time.Time
}

// NewSession creates a new session with the given name. New sessions start
// enabled (intent to run) with status DISCONNECTED.
func NewSession(name string) *Session {
	if name == "" {
		panic("session name cannot be empty")
	}

	now := time.Now()
	return &Session{
		id:        NewSessionID(),
		name:      name,
		status:    StatusDisconnected,
		enabled:   true,
		createdAt: now,
		updatedAt: now,
	}
}

// RestoreSession restores a session from persistence
func RestoreSession(
	id SessionID,
	name string,
	status Status,
	waJID string,
	qrCode string,
	proxyURL string,
	isActive bool,
	enabled bool,
	webhookURL string,
	sistemaURL string,
	apiToken string,
	phone string,
	lastDisconnectReason DisconnectReason,
	reconnectAttempts int,
	lastConnectionAt time.Time,
	createdAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:                   id,
		name:                 name,
		status:               status,
		waJID:                waJID,
		qrCode:               qrCode,
		proxyURL:             proxyURL,
		isActive:             isActive,
		enabled:              enabled,
		webhookURL:           webhookURL,
		sistemaURL:           sistemaURL,
		apiToken:             apiToken,
		phone:                phone,
		lastDisconnectReason: lastDisconnectReason,
		reconnectAttempts:    reconnectAttempts,
		lastConnectionAt:     lastConnectionAt,
		createdAt:            createdAt,
		updatedAt:            updatedAt,
	}
}

// Connect marks the session as connected with the given WhatsApp JID
func (s *Session) Connect(waJID string) error {
	if s.status == StatusConnected {
		return ErrSessionAlreadyConnected
	}

	if waJID == "" {
		return ErrInvalidWhatsAppJID
	}

	s.waJID = waJID
	s.status = StatusConnected
	s.isActive = true
	s.lastConnectionAt = time.Now()
	s.reconnectAttempts = 0
	s.lastDisconnectReason = ""
	s.updatedAt = time.Now()

	return nil
}

// Disconnect marks the session as disconnected with an unclassified reason.
// Callers that know the reason should use DisconnectWithReason instead so the
// engine's no-reconnect policy (spec §4.6) can act on it.
func (s *Session) Disconnect() {
	s.status = StatusDisconnected
	s.isActive = false
	s.updatedAt = time.Now()
}

// DisconnectWithReason records a classified disconnect reason. If the reason
// permanently disables reconnection (spec §4.6 NO_RECONNECT_REASONS), the
// session's intent is also cleared.
func (s *Session) DisconnectWithReason(reason DisconnectReason) {
	s.status = StatusDisconnected
	s.isActive = false
	s.lastDisconnectReason = reason
	if reason.PreventsReconnect() {
		s.enabled = false
	}
	s.updatedAt = time.Now()
}

// SetStatus persists an observational status transition without touching
// isActive/enabled (used by the lifecycle controller for intermediate states
// such as INITIALIZING, LOADING, QR_REQUIRED, RECONNECTING).
func (s *Session) SetStatus(status Status) {
	s.status = status
	s.updatedAt = time.Now()
}

// SetConnecting marks the session as reconnecting/initializing.
func (s *Session) SetConnecting() {
	s.status = StatusInitializing
	s.updatedAt = time.Now()
}

// IncrementReconnectAttempts bumps the reconnect counter, resetting to zero
// (not stopping) once MAX_RECONNECT_ATTEMPTS is reached — spec §4.6 retry
// policy / §8 reset-idempotence invariant.
func (s *Session) IncrementReconnectAttempts(maxAttempts int) int {
	s.reconnectAttempts++
	if s.reconnectAttempts >= maxAttempts {
		s.reconnectAttempts = 0
	}
	s.updatedAt = time.Now()
	return s.reconnectAttempts
}

// ResetReconnectAttempts clears the counter after a stable CONNECTED period
// (spec §4.6 success criterion).
func (s *Session) ResetReconnectAttempts() {
	s.reconnectAttempts = 0
	s.updatedAt = time.Now()
}

// Enable sets the durable intent to true (the rehydrator and recovery sweep
// then keep this instance running).
func (s *Session) Enable() {
	s.enabled = true
	s.updatedAt = time.Now()
}

// Disable clears the durable intent; the engine will not restart this
// instance automatically.
func (s *Session) Disable() {
	s.enabled = false
	s.updatedAt = time.Now()
}

// SetQRCode updates the session QR code
func (s *Session) SetQRCode(qrCode string) {
	s.qrCode = qrCode
	s.updatedAt = time.Now()
}

// ClearQRCode clears the session QR code
func (s *Session) ClearQRCode() {
	s.qrCode = ""
	s.updatedAt = time.Now()
}

// UpdateName updates the session name
func (s *Session) UpdateName(name string) error {
	if name == "" {
		return ErrInvalidSessionName
	}

	s.name = name
	s.updatedAt = time.Now()
	return nil
}

// SetWebhookURL sets the delivery/inbound webhook callback target.
func (s *Session) SetWebhookURL(webhookURL string) {
	s.webhookURL = webhookURL
	s.updatedAt = time.Now()
}

// SetSistemaURL sets the secondary downstream callback target.
func (s *Session) SetSistemaURL(sistemaURL string) {
	s.sistemaURL = sistemaURL
	s.updatedAt = time.Now()
}

// SetAPIToken sets the bearer token required to call this instance's send
// endpoints.
func (s *Session) SetAPIToken(token string) {
	s.apiToken = token
	s.updatedAt = time.Now()
}

// SetPhone records the phone number whatsmeow reported after authentication.
func (s *Session) SetPhone(phone string) {
	s.phone = phone
	s.updatedAt = time.Now()
}

// SetProxyURL updates the session proxy URL with validation
func (s *Session) SetProxyURL(proxyURL string) error {
	if proxyURL != "" {
		if err := s.validateProxyURL(proxyURL); err != nil {
			return err
		}
	}

	s.proxyURL = proxyURL
	s.updatedAt = time.Now()
	return nil
}

// ClearProxyURL clears the session proxy URL
func (s *Session) ClearProxyURL() {
	s.proxyURL = ""
	s.updatedAt = time.Now()
}

// HasProxy returns true if the session has a proxy configured
func (s *Session) HasProxy() bool {
	return s.proxyURL != ""
}

// GetProxyType returns the proxy type from the proxy URL
func (s *Session) GetProxyType() string {
	if !s.HasProxy() {
		return ""
	}

	if strings.HasPrefix(s.proxyURL, "http://") {
		return "http"
	} else if strings.HasPrefix(s.proxyURL, "https://") {
		return "https"
	} else if strings.HasPrefix(s.proxyURL, "socks4://") {
		return "socks4"
	} else if strings.HasPrefix(s.proxyURL, "socks5://") {
		return "socks5"
	}

	return "unknown"
}

// GetProxyHost returns the proxy host from the proxy URL
func (s *Session) GetProxyHost() string {
	if !s.HasProxy() {
		return ""
	}

	parsedURL, err := url.Parse(s.proxyURL)
	if err != nil {
		return ""
	}

	return parsedURL.Hostname()
}

// GetProxyPort returns the proxy port from the proxy URL
func (s *Session) GetProxyPort() string {
	if !s.HasProxy() {
		return ""
	}

	parsedURL, err := url.Parse(s.proxyURL)
	if err != nil {
		return ""
	}

	port := parsedURL.Port()
	if port == "" {
		// Return default ports based on scheme
		switch parsedURL.Scheme {
		case "http", "https":
			return "8080"
		case "socks4", "socks5":
			return "1080"
		}
	}

	return port
}

// HasProxyAuth returns true if the proxy URL contains authentication
func (s *Session) HasProxyAuth() bool {
	if !s.HasProxy() {
		return false
	}

	parsedURL, err := url.Parse(s.proxyURL)
	if err != nil {
		return false
	}

	return parsedURL.User != nil
}

// validateProxyURL validates the proxy URL format
func (s *Session) validateProxyURL(proxyURL string) error {
	if proxyURL == "" {
		return nil // Empty is valid (no proxy)
	}

	parsedURL, err := url.Parse(proxyURL)
	if err != nil {
		return ErrInvalidProxyURL
	}

	// Check if scheme is supported
	supportedSchemes := []string{"http", "https", "socks4", "socks5"}
	schemeSupported := false
	for _, scheme := range supportedSchemes {
		if parsedURL.Scheme == scheme {
			schemeSupported = true
			break
		}
	}

	if !schemeSupported {
		return ErrUnsupportedProxyScheme
	}

	// Check if host is present
	if parsedURL.Hostname() == "" {
		return ErrInvalidProxyHost
	}

	return nil
}

// CanConnect returns true if the session can be connected
func (s *Session) CanConnect() bool {
	return s.status != StatusConnected
}

// IsConnected returns true if the session is connected
func (s *Session) IsConnected() bool {
	return s.status == StatusConnected && s.isActive
}

// IsConnecting returns true if the session is mid-connection-attempt
func (s *Session) IsConnecting() bool {
	switch s.status {
	case StatusInitializing, StatusLoading, StatusAuthenticated, StatusReconnecting:
		return true
	default:
		return false
	}
}

// Getters
func (s *Session) ID() SessionID { return s.id }

func (s *Session) Name() string { return s.name }

func (s *Session) Status() Status { return s.status }

func (s *Session) WaJID() string { return s.waJID }

func (s *Session) QRCode() string { return s.qrCode }

func (s *Session) IsActive() bool { return s.isActive }

func (s *Session) Enabled() bool { return s.enabled }

func (s *Session) WebhookURL() string { return s.webhookURL }

func (s *Session) SistemaURL() string { return s.sistemaURL }

func (s *Session) APIToken() string { return s.apiToken }

func (s *Session) Phone() string { return s.phone }

func (s *Session) LastDisconnectReason() DisconnectReason { return s.lastDisconnectReason }

func (s *Session) ReconnectAttempts() int { return s.reconnectAttempts }

func (s *Session) LastConnectionAt() time.Time { return s.lastConnectionAt }

func (s *Session) CreatedAt() time.Time { return s.createdAt }

func (s *Session) UpdatedAt() time.Time { return s.updatedAt }

func (s *Session) ProxyURL() string { return s.proxyURL }

// Validate validates the session entity
func (s *Session) Validate() error {
	if s.name == "" {
		return ErrInvalidSessionName
	}

	if len(s.name) < 3 || len(s.name) > 50 {
		return ErrInvalidSessionName
	}

	return nil
}
