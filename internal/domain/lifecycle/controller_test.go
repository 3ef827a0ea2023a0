package lifecycle_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// fakeAdapter is a controllable lifecycle.Adapter: tests drive its state and
// observe sends without a real whatsmeow connection.
type fakeAdapter struct {
	mu        sync.Mutex
	sink      lifecycle.AdapterEventSink
	state     lifecycle.AdapterState
	info      lifecycle.AdapterInfo
	destroyed bool
	sent      []string
	sendCh    chan string
}

func newFakeAdapter() *fakeAdapter {
	return &fakeAdapter{sendCh: make(chan string, 16)}
}

func (a *fakeAdapter) Initialize(ctx context.Context) error { return nil }

func (a *fakeAdapter) GetState(ctx context.Context) (lifecycle.AdapterState, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state, nil
}

func (a *fakeAdapter) setState(s lifecycle.AdapterState) {
	a.mu.Lock()
	a.state = s
	a.mu.Unlock()
}

func (a *fakeAdapter) Destroy(ctx context.Context) error {
	a.mu.Lock()
	a.destroyed = true
	a.mu.Unlock()
	return nil
}

func (a *fakeAdapter) Takeover(ctx context.Context) error { return nil }

func (a *fakeAdapter) SendMessage(ctx context.Context, to, body string) error {
	a.mu.Lock()
	a.sent = append(a.sent, to)
	a.mu.Unlock()
	a.sendCh <- to
	return nil
}

func (a *fakeAdapter) SendMedia(ctx context.Context, to string, media lifecycle.OutboundMedia) error {
	return a.SendMessage(ctx, to, media.Caption)
}

func (a *fakeAdapter) Info() lifecycle.AdapterInfo {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.info
}

func (a *fakeAdapter) SetEventSink(sink lifecycle.AdapterEventSink) {
	a.mu.Lock()
	a.sink = sink
	a.mu.Unlock()
}

func (a *fakeAdapter) getSink() lifecycle.AdapterEventSink {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sink
}

// controllerFastPolicy returns a Policy tuned so every timing-dependent
// transition in the tests below resolves in well under a second.
func controllerFastPolicy() lifecycle.Policy {
	p := lifecycle.DefaultPolicy()
	p.InitTimeout = time.Second
	p.PromotionPoll = 5 * time.Millisecond
	p.PromotionMaxPolls = 20
	p.StateCheckTimeout = 200 * time.Millisecond
	p.DrainDelay = 5 * time.Millisecond
	p.DrainPacing = time.Millisecond
	p.MessageTTL = time.Minute
	p.MaxRetries = 3
	p.ReconnectResetAfter = time.Hour
	p.ImmediateBase = 5 * time.Millisecond
	p.ImmediateStep = time.Millisecond
	p.BaseDelay = 5 * time.Millisecond
	p.MaxDelay = 20 * time.Millisecond
	p.JitterMax = 0
	p.DestroyTimeout = 50 * time.Millisecond
	return p
}

// waitFor polls cond until it returns true or the timeout elapses.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatal("condition not met before timeout")
}

func TestControllerPromotesAuthenticatedToConnected(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("promote-me"), id)

	var adapter *fakeAdapter
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) {
		adapter = newFakeAdapter()
		return adapter, nil
	}

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)

	ctrl.Start(context.Background(), id)

	waitFor(t, time.Second, func() bool { return adapter != nil && adapter.getSink() != nil })

	adapter.setState(lifecycle.AdapterStateConnected)
	adapter.getSink().OnAuthenticated()

	waitFor(t, time.Second, func() bool { return statusOf(registry, id) == session.StatusConnected })

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, session.StatusConnected, stored.Status())
}

// statusOf reads an instance's current status via a registry snapshot,
// avoiding a direct unsynchronised field read on the live SessionState.
func statusOf(registry *lifecycle.Registry, id lifecycle.InstanceID) session.Status {
	for _, st := range registry.Enumerate() {
		if st.InstanceID.Equals(id) {
			return st.Status
		}
	}
	return session.StatusDisconnected
}

func TestControllerDrainsQueueOnceConnected(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("drain-me"), id)

	queues.For(id).Enqueue(&lifecycle.PendingMessage{
		ID:         "m1",
		Kind:       lifecycle.MessageKindText,
		To:         "5511999999999@s.whatsapp.net",
		Content:    "hi",
		EnqueuedAt: time.Now(),
	})

	var adapter *fakeAdapter
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) {
		adapter = newFakeAdapter()
		return adapter, nil
	}

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)
	ctrl.Start(context.Background(), id)

	waitFor(t, time.Second, func() bool { return adapter != nil && adapter.getSink() != nil })
	adapter.setState(lifecycle.AdapterStateConnected)
	adapter.getSink().OnAuthenticated()

	select {
	case to := <-adapter.sendCh:
		assert.Equal(t, "5511999999999@s.whatsapp.net", to)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for queued message to drain")
	}

	assert.Equal(t, 0, queues.For(id).Len())
}

func TestControllerAuthFailurePersistsAuthFailureStatus(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("bad-creds"), id)

	var adapter *fakeAdapter
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) {
		adapter = newFakeAdapter()
		return adapter, nil
	}

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)
	ctrl.Start(context.Background(), id)

	waitFor(t, time.Second, func() bool { return adapter != nil && adapter.getSink() != nil })
	adapter.getSink().OnAuthFailure("401")

	waitFor(t, time.Second, func() bool {
		stored, err := repo.GetByID(context.Background(), id)
		return err == nil && stored.Status() == session.StatusAuthFailure
	})
}

func TestControllerDisconnectTriggersReconnectCycle(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("flaky"), id)

	var mu sync.Mutex
	var adapters []*fakeAdapter
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) {
		a := newFakeAdapter()
		mu.Lock()
		adapters = append(adapters, a)
		mu.Unlock()
		return a, nil
	}

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)
	rc := lifecycle.NewReconnector(registry, repo, ctrl, controllerFastPolicy(), log)
	ctrl.SetReconnector(rc)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	go rc.Run(ctx)

	ctrl.Start(ctx, id)

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(adapters) == 1 && adapters[0].getSink() != nil
	})

	mu.Lock()
	first := adapters[0]
	mu.Unlock()
	first.setState(lifecycle.AdapterStateConnected)
	first.getSink().OnAuthenticated()

	waitFor(t, time.Second, func() bool { return statusOf(registry, id) == session.StatusConnected })

	first.getSink().OnDisconnected(string(session.ReasonNetworkError))

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(adapters) == 2
	})

	mu.Lock()
	assert.True(t, adapters[0].destroyed)
	mu.Unlock()

	stored, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, stored.Enabled())
}

func TestControllerTeardownDestroysAdapterAndCancelsProbes(t *testing.T) {
	registry := lifecycle.NewRegistry()
	repo := newFakeRepository()
	queues := lifecycle.NewQueueStore(10)
	log := &logger.NoopLogger{}

	id := session.NewSessionID()
	repo.byID[id] = restoreAs(session.NewSession("teardown-me"), id)

	adapter := newFakeAdapter()
	factory := func(lifecycle.InstanceID) (lifecycle.Adapter, error) { return adapter, nil }

	ctrl := lifecycle.NewController(registry, repo, queues, controllerFastPolicy(), log, factory)
	ctrl.Start(context.Background(), id)

	waitFor(t, time.Second, func() bool { return adapter.getSink() != nil })

	err := ctrl.Teardown(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, adapter.destroyed)
}
