package whats

import (
	"context"
	"fmt"
	"sync/atomic"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/internal/domain/whatsapp"
	"wagateway/pkg/logger"
)

// lifecycleAdapter implements lifecycle.Adapter over the existing whatsmeow
// Client, translating the client's whatsapp.EventHandler callbacks into the
// lifecycle engine's AdapterEventSink. Client itself is unchanged; this is
// the seam the engine drives instead of a bare whatsapp.Client/Manager pair.
type lifecycleAdapter struct {
	id     session.SessionID
	client *Client
	logger logger.Logger

	// destroyed is set once Destroy has run; every later call returns
	// lifecycle.ErrTornDown instead of touching the closed client (spec
	// DESIGN NOTES: context-destroyed/target-closed is an explicit variant).
	destroyed atomic.Bool
}

// newLifecycleAdapter wraps an already-constructed Client.
func newLifecycleAdapter(id session.SessionID, client *Client, log logger.Logger) *lifecycleAdapter {
	return &lifecycleAdapter{id: id, client: client, logger: log}
}

func (a *lifecycleAdapter) Initialize(ctx context.Context) error {
	if a.destroyed.Load() {
		return lifecycle.ErrTornDown
	}
	_, err := a.client.Connect(ctx)
	return err
}

func (a *lifecycleAdapter) GetState(ctx context.Context) (lifecycle.AdapterState, error) {
	if a.destroyed.Load() {
		return lifecycle.AdapterStateDisconnected, lifecycle.ErrTornDown
	}
	return translateConnectionStatus(a.client.GetConnectionStatus()), nil
}

func (a *lifecycleAdapter) Destroy(ctx context.Context) error {
	a.destroyed.Store(true)
	return a.client.Close()
}

// Takeover re-asserts this device against a CONFLICT observation. whatsmeow
// has no dedicated takeover call; reconnecting is the documented recovery
// (the existing socket is already gone by the time CONFLICT is observed).
func (a *lifecycleAdapter) Takeover(ctx context.Context) error {
	if a.destroyed.Load() {
		return lifecycle.ErrTornDown
	}
	_, err := a.client.Connect(ctx)
	return err
}

func (a *lifecycleAdapter) SendMessage(ctx context.Context, to, body string) error {
	if a.destroyed.Load() {
		return lifecycle.ErrTornDown
	}
	return a.client.SendMessage(ctx, to, body)
}

func (a *lifecycleAdapter) SendMedia(ctx context.Context, to string, media lifecycle.OutboundMedia) error {
	if a.destroyed.Load() {
		return lifecycle.ErrTornDown
	}
	switch media.Kind {
	case lifecycle.MediaKindDocument:
		return a.client.SendDocument(ctx, to, media.Path, media.Filename)
	default:
		return a.client.SendImage(ctx, to, media.Path, media.Caption)
	}
}

func (a *lifecycleAdapter) Info() lifecycle.AdapterInfo {
	return lifecycle.AdapterInfo{JID: a.client.GetJID()}
}

func (a *lifecycleAdapter) SetEventSink(sink lifecycle.AdapterEventSink) {
	if sink == nil {
		a.client.RemoveEventHandler()
		return
	}
	a.client.SetEventHandler(&eventBridge{id: a.id, sink: sink})
}

// translateConnectionStatus maps the client's 6-value ConnectionStatus onto
// the adapter's 8-value vocabulary (spec §6.1). Of the extra adapter states,
// only TIMEOUT is produced here (for StatusError); UNPAIRED, UNPAIRED_IDLE and
// CONFLICT are never produced by this adapter.
func translateConnectionStatus(s whatsapp.ConnectionStatus) lifecycle.AdapterState {
	switch s {
	case whatsapp.StatusConnected, whatsapp.StatusAuthenticated:
		return lifecycle.AdapterStateConnected
	case whatsapp.StatusConnecting:
		return lifecycle.AdapterStateOpening
	case whatsapp.StatusAuthenticating:
		return lifecycle.AdapterStatePairing
	case whatsapp.StatusError:
		return lifecycle.AdapterStateTimeout
	default:
		return lifecycle.AdapterStateDisconnected
	}
}

// eventBridge implements whatsapp.EventHandler, the narrower 7-callback
// surface Client already speaks, and re-dispatches onto the lifecycle
// engine's 9-callback AdapterEventSink. Client has no loading-percent or
// remote-session-saved event today (whatsmeow's history-sync progress isn't
// wired into handleEvent); OnLoading/OnRemoteSessionSaved are simply never
// called from here until Client exposes that signal.
type eventBridge struct {
	id   session.SessionID
	sink lifecycle.AdapterEventSink
}

func (b *eventBridge) OnConnected(sessionID session.SessionID, jid string) {
	b.sink.OnChangeState(lifecycle.AdapterStateConnected)
}

func (b *eventBridge) OnDisconnected(sessionID session.SessionID, reason string) {
	b.sink.OnDisconnected(reason)
}

func (b *eventBridge) OnQRCode(sessionID session.SessionID, qrCode string) {
	b.sink.OnQR(qrCode)
}

func (b *eventBridge) OnAuthenticated(sessionID session.SessionID, jid string) {
	b.sink.OnAuthenticated()
	b.sink.OnReady(jid, "")
}

func (b *eventBridge) OnAuthenticationFailed(sessionID session.SessionID, reason string) {
	b.sink.OnAuthFailure(reason)
}

func (b *eventBridge) OnMessage(sessionID session.SessionID, message *whatsapp.Message) {
	b.sink.OnMessage(lifecycle.InboundMessage{
		ID:        message.ID,
		From:      message.From,
		Body:      message.Body,
		IsFromMe:  message.IsFromMe,
		Timestamp: message.Timestamp,
	})
}

func (b *eventBridge) OnError(sessionID session.SessionID, err error) {
	b.sink.OnDisconnected(fmt.Sprintf("adapter error: %v", err))
}
