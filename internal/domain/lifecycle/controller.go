package lifecycle

import (
	"context"
	"errors"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// AdapterFactory builds a fresh, unstarted Adapter for an instance. Supplied
// by the infra layer (internal/infra/whats) so this package never imports a
// concrete whatsmeow type.
type AdapterFactory func(id InstanceID) (Adapter, error)

// AuthBlobStore is the narrow slice of C3 the controller needs: deleting a
// stale blob when the adapter reports UNPAIRED (spec §4.2). Optional — a nil
// store is treated as a no-op, so this package compiles and tests stand
// alone before C3 exists.
type AuthBlobStore interface {
	Delete(ctx context.Context, id InstanceID) error
}

// MessageSink receives inbound messages and raw lifecycle events for
// delivery to the webhook dispatcher (C13). Optional.
type MessageSink interface {
	OnMessage(id InstanceID, msg InboundMessage)
	OnStatusChange(id InstanceID, status session.Status, reason session.DisconnectReason)
}

// Controller is the Session Lifecycle Controller (C7): one controller drives
// every instance's state machine, attaching adapter event handlers and
// starting/stopping the probe set.
type Controller struct {
	registry    *Registry
	repo        session.Repository
	queues      *QueueStore
	policy      Policy
	logger      logger.Logger
	newAdapter  AdapterFactory
	reconnector *Reconnector
	blobs       AuthBlobStore
	messages    MessageSink

	shuttingDown atomic.Bool
}

// NewController creates a Controller. SetReconnector must be called once
// before Start is used, since the reconnector and controller reference each
// other (the reconnector drives Teardown/Start; the controller schedules
// reconnects on it).
func NewController(registry *Registry, repo session.Repository, queues *QueueStore, policy Policy, log logger.Logger, newAdapter AdapterFactory) *Controller {
	return &Controller{
		registry:   registry,
		repo:       repo,
		queues:     queues,
		policy:     policy,
		logger:     log,
		newAdapter: newAdapter,
	}
}

// SetReconnector wires the reconnector this controller schedules retries on.
func (c *Controller) SetReconnector(r *Reconnector) { c.reconnector = r }

// SetAuthBlobStore wires C3 for UNPAIRED blob cleanup.
func (c *Controller) SetAuthBlobStore(store AuthBlobStore) { c.blobs = store }

// SetMessageSink wires C13's inbound side.
func (c *Controller) SetMessageSink(sink MessageSink) { c.messages = sink }

// ShuttingDown reports whether the shutdown coordinator has begun draining.
func (c *Controller) ShuttingDown() bool { return c.shuttingDown.Load() }

// MarkShuttingDown is called once by the Shutdown Coordinator (C12).
func (c *Controller) MarkShuttingDown() { c.shuttingDown.Store(true) }

// Start begins (or resumes) an instance's lifecycle: spec §4.2's `start()`.
// Safe to call for an instance with no existing SessionState (fresh boot,
// rehydrator) or one mid-reconnect (reconnector's own Start call). Returns
// ErrShuttingDown once the shutdown coordinator has begun draining.
func (c *Controller) Start(ctx context.Context, id InstanceID) error {
	if c.shuttingDown.Load() {
		c.logger.WarnWithFields("ignoring start() during shutdown", logger.Fields{"instance_id": id.String()})
		return ErrShuttingDown
	}

	st := c.registry.GetOrCreate(id)
	st.mu.Lock()
	st.Status = session.StatusInitializing
	st.LoadingStartedAt = time.Now()
	st.Reconnecting = false
	st.mu.Unlock()

	// spec §4.2: start() persists RECONNECTING in C4 even though the live
	// SessionState is INITIALIZING — it is the durable "busy (re)starting"
	// marker consumers of connection_status see while adapter init runs.
	if sess, err := c.repo.GetByID(ctx, id); err == nil {
		sess.SetStatus(session.StatusReconnecting)
		_ = c.repo.Update(ctx, sess)
	}

	adapter, err := c.newAdapter(id)
	if err != nil {
		c.logger.ErrorWithError("failed to build adapter", err, logger.Fields{"instance_id": id.String()})
		c.transitionToInitError(ctx, id, session.ReasonInitTimeout)
		return nil
	}

	st.mu.Lock()
	st.Adapter = adapter
	st.mu.Unlock()

	router := &eventRouter{controller: c, id: id}
	adapter.SetEventSink(router)

	go c.runInitialize(ctx, id, adapter)
	return nil
}

func (c *Controller) runInitialize(ctx context.Context, id InstanceID, adapter Adapter) {
	initCtx, cancel := context.WithTimeout(ctx, c.policy.InitTimeout)
	defer cancel()

	err := adapter.Initialize(initCtx)
	if err != nil {
		c.logger.ErrorWithError("adapter initialize failed", err, logger.Fields{"instance_id": id.String()})
		c.transitionToInitError(ctx, id, session.ReasonInitTimeout)
	}
}

func (c *Controller) transitionToInitError(ctx context.Context, id InstanceID, reason session.DisconnectReason) {
	if st, err := c.registry.Get(id); err == nil {
		st.mu.Lock()
		st.Status = session.StatusInitError
		st.mu.Unlock()
	}
	if sess, err := c.repo.GetByID(ctx, id); err == nil {
		sess.SetStatus(session.StatusInitError)
		_ = c.repo.Update(ctx, sess)
	}
	if c.reconnector != nil {
		c.reconnector.Schedule(id, reason)
	}
}

// Teardown implements ReconnectTarget: stop probes, detach the event sink,
// and destroy the adapter under DESTROY_TIMEOUT (already bounded by the
// caller's context). Satisfies spec §4.6.
func (c *Controller) Teardown(ctx context.Context, id InstanceID) error {
	st, err := c.registry.Get(id)
	if err != nil {
		return nil // already gone; nothing to tear down
	}

	st.cancelProbes()

	st.mu.Lock()
	adapter := st.Adapter
	st.ShuttingDown = true
	st.mu.Unlock()

	if adapter == nil {
		return nil
	}

	adapter.SetEventSink(nil)
	return adapter.Destroy(ctx)
}

// SendText implements the C10 producer side (spec §1(f), §6.4): send now if
// the instance is CONNECTED, otherwise enqueue and trigger a reconnect.
func (c *Controller) SendText(ctx context.Context, id InstanceID, to, body string) (queued bool, position int, messageID string, err error) {
	return c.sendOrEnqueue(ctx, id, &PendingMessage{Kind: MessageKindText, To: to, Content: body})
}

// SendMedia is SendText's media counterpart (spec §6.4 /api/send-media).
func (c *Controller) SendMedia(ctx context.Context, id InstanceID, to string, media OutboundMedia) (queued bool, position int, messageID string, err error) {
	return c.sendOrEnqueue(ctx, id, &PendingMessage{Kind: MessageKindMedia, To: to, MediaRef: media.Path, Caption: media.Caption})
}

// sendOrEnqueue is the shared send(i,m) round trip named in spec §2's data
// flow: C5 lookup, then either C6.sendMessage (CONNECTED) or
// C10.enqueue+C9.Schedule (everything else).
func (c *Controller) sendOrEnqueue(ctx context.Context, id InstanceID, msg *PendingMessage) (bool, int, string, error) {
	if c.shuttingDown.Load() {
		return false, 0, "", ErrShuttingDown
	}

	st, err := c.registry.Get(id)
	if err != nil {
		return false, 0, "", err
	}

	st.mu.Lock()
	status := st.Status
	adapter := st.Adapter
	st.mu.Unlock()

	msg.ID = newMessageID()
	msg.EnqueuedAt = time.Now()

	if status == session.StatusConnected && adapter != nil {
		sendCtx, cancel := context.WithTimeout(ctx, c.policy.StateCheckTimeout)
		var sendErr error
		if msg.Kind == MessageKindMedia {
			sendErr = adapter.SendMedia(sendCtx, msg.To, OutboundMedia{Path: msg.MediaRef, Caption: msg.Caption})
		} else {
			sendErr = adapter.SendMessage(sendCtx, msg.To, msg.Content)
		}
		cancel()

		if sendErr == nil {
			st.mu.Lock()
			st.LastActivity = time.Now()
			st.mu.Unlock()
			return false, 0, msg.ID, nil
		}
		if errors.Is(sendErr, ErrTornDown) {
			return false, 0, "", sendErr
		}
		c.logger.WarnWithError("synchronous send failed, falling back to queue", sendErr, logger.Fields{"instance_id": id.String()})
	}

	position := c.queues.For(id).Enqueue(msg)
	if c.reconnector != nil {
		_ = c.reconnector.Schedule(id, session.ReasonSendTriggered)
	}
	return true, position, msg.ID, nil
}

// eventRouter implements AdapterEventSink, binding every callback to the
// instance id it was created for.
type eventRouter struct {
	controller *Controller
	id         InstanceID
}

func (r *eventRouter) OnQR(payload string) { r.controller.handleQR(r.id, payload) }

func (r *eventRouter) OnLoading(percent int, message string) {
	r.controller.handleLoading(r.id, percent, message)
}

func (r *eventRouter) OnAuthenticated() { r.controller.handleAuthenticated(r.id) }

func (r *eventRouter) OnReady(jid, phone string) { r.controller.handleReady(r.id, jid, phone) }

func (r *eventRouter) OnAuthFailure(reason string) { r.controller.handleAuthFailure(r.id, reason) }

func (r *eventRouter) OnDisconnected(reason string) { r.controller.handleDisconnected(r.id, reason) }

func (r *eventRouter) OnChangeState(state AdapterState) { r.controller.handleChangeState(r.id, state) }

func (r *eventRouter) OnRemoteSessionSaved() {
	r.controller.logger.InfoWithFields("remote session saved", logger.Fields{"instance_id": r.id.String()})
}

func (r *eventRouter) OnMessage(msg InboundMessage) {
	if r.controller.messages != nil {
		r.controller.messages.OnMessage(r.id, msg)
	}
}

func (c *Controller) handleQR(id InstanceID, payload string) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	st.Status = session.StatusQRRequired
	st.QR = payload
	st.LoadingStartedAt = time.Time{}
	st.mu.Unlock()

	ctx := context.Background()
	if sess, err := c.repo.GetByID(ctx, id); err == nil {
		sess.SetStatus(session.StatusQRRequired)
		sess.SetQRCode(payload)
		_ = c.repo.Update(ctx, sess)
	}
}

func (c *Controller) handleLoading(id InstanceID, percent int, message string) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}

	st.mu.Lock()
	first := st.LoadingStartedAt.IsZero()
	if first {
		st.LoadingStartedAt = time.Now()
	}
	st.Status = session.StatusLoading
	st.mu.Unlock()

	if percent >= 100 {
		c.armLoadingTimeout(id)
	}

	if sess, err := c.repo.GetByID(context.Background(), id); err == nil {
		sess.SetStatus(session.StatusLoading)
		_ = c.repo.Update(context.Background(), sess)
	}
}

// armLoadingTimeout schedules the spec §4.2 SYNC_TIMEOUT transition if
// `ready` never arrives after LOADING(100%).
func (c *Controller) armLoadingTimeout(id InstanceID) {
	time.AfterFunc(c.policy.LoadingTimeout, func() {
		st, err := c.registry.Get(id)
		if err != nil {
			return
		}
		st.mu.Lock()
		stillLoading := st.Status == session.StatusLoading
		st.mu.Unlock()
		if !stillLoading {
			return
		}

		c.logger.WarnWithFields("loading never promoted to ready, syncing timeout", logger.Fields{"instance_id": id.String()})
		st.mu.Lock()
		st.Status = session.StatusSyncTimeout
		st.mu.Unlock()

		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonSyncTimeout)
		}
	})
}

func (c *Controller) handleAuthenticated(id InstanceID) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}

	st.mu.Lock()
	st.Status = session.StatusAuthenticated
	st.AuthenticatedAt = time.Now()
	alreadyPromoting := st.LifecyclePromotionRunning
	st.LifecyclePromotionRunning = true
	st.mu.Unlock()

	if alreadyPromoting {
		return
	}

	go c.runPromotionLoop(id)
}

// runPromotionLoop implements spec §4.3: poll adapter.getState() up to
// PromotionMaxPolls times, PromotionPoll apart. A CONNECTED observation
// promotes; exhausting every poll transitions to SYNC_TIMEOUT.
func (c *Controller) runPromotionLoop(id InstanceID) {
	defer func() {
		if st, err := c.registry.Get(id); err == nil {
			st.mu.Lock()
			st.LifecyclePromotionRunning = false
			st.mu.Unlock()
		}
	}()

	for poll := 0; poll < c.policy.PromotionMaxPolls; poll++ {
		time.Sleep(c.policy.PromotionPoll)

		st, err := c.registry.Get(id)
		if err != nil {
			return
		}
		st.mu.Lock()
		adapter := st.Adapter
		stillAuthenticated := st.Status == session.StatusAuthenticated
		st.mu.Unlock()
		if adapter == nil || !stillAuthenticated {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.policy.StateCheckTimeout)
		state, err := adapter.GetState(ctx)
		cancel()
		if err != nil {
			continue
		}
		if state == AdapterStateConnected {
			info := adapter.Info()
			c.handleReady(id, info.JID, info.Phone)
			return
		}
	}

	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	st.Status = session.StatusSyncTimeout
	st.mu.Unlock()

	if c.reconnector != nil {
		c.reconnector.Schedule(id, session.ReasonSyncTimeout)
	}
}

func (c *Controller) handleReady(id InstanceID, jid, phone string) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}

	st.mu.Lock()
	if st.Status == session.StatusConnected {
		st.mu.Unlock()
		return
	}
	st.Status = session.StatusConnected
	st.ReconnectAttempts = 0
	st.LastActivity = time.Now()
	st.QR = ""
	st.Degraded = false
	st.mu.Unlock()

	st.armProbes(c.armProbeSet(id))

	ctx := context.Background()
	if sess, err := c.repo.GetByID(ctx, id); err == nil {
		if jid != "" {
			_ = sess.Connect(jid)
		} else {
			sess.SetStatus(session.StatusConnected)
		}
		sess.ResetReconnectAttempts()
		if phone != "" {
			sess.SetPhone(phone)
		}
		sess.ClearQRCode()
		_ = c.repo.Update(ctx, sess)
	}

	c.scheduleDrain(id)
	c.scheduleResetAfterStability(id)

	if c.messages != nil {
		c.messages.OnStatusChange(id, session.StatusConnected, session.ReasonUnknown)
	}
}

// scheduleResetAfterStability implements the spec §4.6 success criterion:
// after RECONNECT_RESET_AFTER of unbroken CONNECTED, the attempt counter is
// cleared (it already was on entry; this guards against a disconnect right
// after promotion re-accumulating from a stale high counter).
func (c *Controller) scheduleResetAfterStability(id InstanceID) {
	time.AfterFunc(c.policy.ReconnectResetAfter, func() {
		st, err := c.registry.Get(id)
		if err != nil {
			return
		}
		st.mu.Lock()
		stillConnected := st.Status == session.StatusConnected
		st.mu.Unlock()
		if !stillConnected {
			return
		}
		if sess, err := c.repo.GetByID(context.Background(), id); err == nil {
			sess.ResetReconnectAttempts()
			_ = c.repo.Update(context.Background(), sess)
		}
	})
}

// scheduleDrain implements spec §4.7: after a 2s stabilisation delay, drain
// the pending queue FIFO, pacing sends and stopping early on any exit from
// CONNECTED.
func (c *Controller) scheduleDrain(id InstanceID) {
	time.AfterFunc(c.policy.DrainDelay, func() {
		c.drainQueue(id)
	})
}

func (c *Controller) drainQueue(id InstanceID) {
	q := c.queues.For(id)
	now := time.Now()
	for _, expired := range q.DropExpired(now, c.policy.MessageTTL) {
		c.logger.WarnWithFields("dropping expired pending message", logger.Fields{
			"instance_id": id.String(),
			"message_id":  expired.ID,
		})
	}

	for {
		st, err := c.registry.Get(id)
		if err != nil || st.snapshot().Status != session.StatusConnected {
			return
		}

		msg := q.Dequeue()
		if msg == nil {
			return
		}

		st.mu.Lock()
		adapter := st.Adapter
		st.mu.Unlock()
		if adapter == nil {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.policy.StateCheckTimeout)
		var sendErr error
		if msg.Kind == MessageKindMedia {
			sendErr = adapter.SendMedia(ctx, msg.To, OutboundMedia{Path: msg.MediaRef, Caption: msg.Caption})
		} else {
			sendErr = adapter.SendMessage(ctx, msg.To, msg.Content)
		}
		cancel()

		if sendErr != nil {
			msg.Attempts++
			msg.LastError = sendErr.Error()
			if msg.Attempts < c.policy.MaxRetries {
				q.Enqueue(msg)
			} else {
				c.logger.WarnWithFields("dropping pending message after max retries", logger.Fields{
					"instance_id": id.String(),
					"message_id":  msg.ID,
				})
			}
		}

		time.Sleep(c.policy.DrainPacing)
	}
}

func (c *Controller) handleAuthFailure(id InstanceID, reason string) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.cancelProbes()
	st.mu.Lock()
	st.Status = session.StatusAuthFailure
	st.mu.Unlock()

	if sess, err := c.repo.GetByID(context.Background(), id); err == nil {
		sess.SetStatus(session.StatusAuthFailure)
		_ = c.repo.Update(context.Background(), sess)
	}

	c.logger.WarnWithFields("authentication failed, no automatic reconnect", logger.Fields{
		"instance_id": id.String(),
		"reason":      reason,
	})

	if c.messages != nil {
		c.messages.OnStatusChange(id, session.StatusAuthFailure, session.ReasonUnknown)
	}
}

func (c *Controller) handleDisconnected(id InstanceID, reasonStr string) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.cancelProbes()

	reason := classifyDisconnectReason(reasonStr)

	st.mu.Lock()
	st.Status = session.StatusDisconnected
	st.DisconnectedAt = time.Now()
	st.LastDisconnectReason = reason
	st.mu.Unlock()

	if sess, err := c.repo.GetByID(context.Background(), id); err == nil {
		sess.DisconnectWithReason(reason)
		_ = c.repo.Update(context.Background(), sess)
	}

	if c.reconnector != nil && !c.shuttingDown.Load() {
		c.reconnector.Schedule(id, reason)
	}

	if c.messages != nil {
		c.messages.OnStatusChange(id, session.StatusDisconnected, reason)
	}
}

func (c *Controller) handleChangeState(id InstanceID, state AdapterState) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}

	switch state {
	case AdapterStateConflict:
		st.mu.Lock()
		adapter := st.Adapter
		st.mu.Unlock()
		if adapter == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), c.policy.StateCheckTimeout)
		defer cancel()
		if err := adapter.Takeover(ctx); err != nil {
			c.logger.WarnWithError("takeover after CONFLICT failed", err, logger.Fields{"instance_id": id.String()})
		}

	case AdapterStateUnpaired:
		if c.blobs != nil {
			ctx, cancel := context.WithTimeout(context.Background(), c.policy.DestroyTimeout)
			if err := c.blobs.Delete(ctx, id); err != nil {
				c.logger.WarnWithError("failed to delete stale auth blob", err, logger.Fields{"instance_id": id.String()})
			}
			cancel()
		}
		st.mu.Lock()
		st.Status = session.StatusQRRequired
		st.mu.Unlock()

	case AdapterStateConnected:
		st.mu.Lock()
		notYetConnected := st.Status != session.StatusConnected
		st.mu.Unlock()
		if notYetConnected {
			info := InBandInfo(st)
			c.handleReady(id, info.JID, info.Phone)
		}
	}
}

// InBandInfo reads the adapter's reported identity without requiring the
// caller to hold SessionState's lock itself.
func InBandInfo(st *SessionState) AdapterInfo {
	st.mu.Lock()
	adapter := st.Adapter
	st.mu.Unlock()
	if adapter == nil {
		return AdapterInfo{}
	}
	return adapter.Info()
}

// classifyDisconnectReason maps the adapter's raw reason string onto the
// DisconnectReason vocabulary (spec §4.5/§7); unrecognised strings classify
// as ReasonUnknown so the reconnector still applies the exponential curve.
func classifyDisconnectReason(raw string) session.DisconnectReason {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(session.ReasonConflict):
		return session.ReasonConflict
	case string(session.ReasonUnpaired):
		return session.ReasonUnpaired
	case string(session.ReasonNavigation):
		return session.ReasonNavigation
	case string(session.ReasonTimeout):
		return session.ReasonTimeout
	case string(session.ReasonNetworkError):
		return session.ReasonNetworkError
	case string(session.ReasonLogout):
		return session.ReasonLogout
	case string(session.ReasonTosBlock):
		return session.ReasonTosBlock
	case string(session.ReasonSmbTosBlock):
		return session.ReasonSmbTosBlock
	case string(session.ReasonBanned):
		return session.ReasonBanned
	case string(session.ReasonStreamReplace):
		return session.ReasonStreamReplace
	case "":
		return session.ReasonUnknown
	default:
		return session.ReasonUnknown
	}
}

// armProbeSet starts the heartbeat, deep-check and watchdog loops (spec
// §4.4) for id and returns a cancel function that stops all three.
func (c *Controller) armProbeSet(id InstanceID) func() {
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup

	wg.Add(3)
	go func() { defer wg.Done(); c.heartbeatLoop(ctx, id) }()
	go func() { defer wg.Done(); c.deepCheckLoop(ctx, id) }()
	go func() { defer wg.Done(); c.watchdogLoop(ctx, id) }()

	return func() {
		cancel()
		wg.Wait()
	}
}

func (c *Controller) heartbeatLoop(ctx context.Context, id InstanceID) {
	ticker := time.NewTicker(c.policy.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runHeartbeat(id)
		}
	}
}

func (c *Controller) runHeartbeat(id InstanceID) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	adapter := st.Adapter
	reconnecting := st.Reconnecting
	st.mu.Unlock()
	if adapter == nil || reconnecting {
		return
	}

	checkCtx, cancel := context.WithTimeout(context.Background(), c.policy.StateCheckTimeout)
	state, err := adapter.GetState(checkCtx)
	cancel()

	st.mu.Lock()
	defer st.mu.Unlock()

	if err != nil {
		st.ConsecutivePingFailures++
		if isContextDestroyed(err) {
			st.ContextErrorCount++
		}
	} else if state != AdapterStateConnected {
		st.ConsecutivePingFailures++
	} else {
		st.ConsecutivePingFailures = 0
		st.LastPingOK = time.Now()
		return
	}

	if st.ConsecutivePingFailures >= c.policy.MaxConsecutiveFailures {
		st.mu.Unlock()
		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonConsecutiveHeartbeatFailures)
		}
		st.mu.Lock()
		return
	}
	if st.ContextErrorCount >= c.policy.MaxContextErrors {
		st.mu.Unlock()
		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonContextErrors)
		}
		st.mu.Lock()
	}
}

// isContextDestroyed reports whether err is the adapter's torn-down sentinel
// (spec DESIGN NOTES: "context-destroyed/target-closed must be modelled as
// an explicit error variant"), counted separately from a plain ping failure.
func isContextDestroyed(err error) bool {
	return errors.Is(err, ErrTornDown)
}

func (c *Controller) deepCheckLoop(ctx context.Context, id InstanceID) {
	ticker := time.NewTicker(c.policy.DeepCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runDeepCheck(id)
		}
	}
}

func (c *Controller) runDeepCheck(id InstanceID) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	adapter := st.Adapter
	reconnecting := st.Reconnecting
	st.mu.Unlock()
	if adapter == nil || reconnecting {
		return
	}

	checkCtx, cancel := context.WithTimeout(context.Background(), c.policy.DeepCheckTimeout)
	state, err := adapter.GetState(checkCtx)
	cancel()

	if err != nil || state != AdapterStateConnected {
		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonDeepCheckFailed)
		}
		return
	}

	st.mu.Lock()
	st.LastDeepCheckOK = time.Now()
	st.mu.Unlock()

	c.checkHeapBudget(id, st)
}

// checkHeapBudget approximates spec §4.4's "browser heap within per-instance
// limit" check: whatsmeow runs every instance in this one process with no
// separate per-instance browser to sample, so the deep probe divides the
// process heap evenly across currently-CONNECTED instances and compares the
// share against MaxHeapBytesPerInstance. Over budget marks the instance
// degraded and flags it for recovery via a MEMORY_SHED reconnect; back under
// budget clears the flag (cleared for real once the reconnect lands in
// handleReady).
func (c *Controller) checkHeapBudget(id InstanceID, st *SessionState) {
	if c.policy.MaxHeapBytesPerInstance == 0 {
		return
	}

	connected := 0
	for _, s := range c.registry.Enumerate() {
		if s.Status == session.StatusConnected {
			connected++
		}
	}
	if connected == 0 {
		connected = 1
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	share := mem.HeapAlloc / uint64(connected)

	st.mu.Lock()
	wasDegraded := st.Degraded
	st.Degraded = share > c.policy.MaxHeapBytesPerInstance
	nowDegraded := st.Degraded
	st.mu.Unlock()

	if nowDegraded && !wasDegraded {
		c.logger.WarnWithFields("instance heap share over budget, marking degraded", logger.Fields{
			"instance_id":  id.String(),
			"heap_share":   share,
			"heap_limit":   c.policy.MaxHeapBytesPerInstance,
			"connected_n":  connected,
		})
		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonMemoryShed)
		}
	}
}

func (c *Controller) watchdogLoop(ctx context.Context, id InstanceID) {
	ticker := time.NewTicker(c.policy.WatchdogInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.runWatchdog(id)
		}
	}
}

func (c *Controller) runWatchdog(id InstanceID) {
	st, err := c.registry.Get(id)
	if err != nil {
		return
	}
	st.mu.Lock()
	lastPing := st.LastPingOK
	reconnecting := st.Reconnecting
	st.mu.Unlock()
	if reconnecting || lastPing.IsZero() {
		return
	}

	// spec §8 boundary behaviour: strictly greater than the threshold, not
	// greater-or-equal.
	if time.Since(lastPing) > c.policy.PingTimeoutThreshold {
		if c.reconnector != nil {
			c.reconnector.Schedule(id, session.ReasonWatchdogTimeout)
		}
	}
}
