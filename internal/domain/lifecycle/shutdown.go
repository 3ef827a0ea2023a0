package lifecycle

import (
	"context"
	"sync"
	"time"

	"wagateway/pkg/logger"
)

// ShutdownCoordinator is C12: generalizes the teacher's lack of signal
// handling (its cmd/server/main.go runs the HTTP server directly) into the
// os/signal + context pattern used by the retrieved example repos'
// entrypoints, bounded by GRACEFUL_SHUTDOWN_TIMEOUT. It tears down every
// live instance concurrently rather than one at a time, since teardown per
// instance is already bounded by DESTROY_TIMEOUT.
type ShutdownCoordinator struct {
	registry *Registry
	ctrl     *Controller
	timeout  time.Duration
	logger   logger.Logger
}

// NewShutdownCoordinator creates a ShutdownCoordinator.
func NewShutdownCoordinator(registry *Registry, ctrl *Controller, timeout time.Duration, log logger.Logger) *ShutdownCoordinator {
	return &ShutdownCoordinator{registry: registry, ctrl: ctrl, timeout: timeout, logger: log}
}

// Shutdown marks the engine as shutting down (so no further reconnects are
// scheduled) and tears down every live instance in parallel, bounded by
// GRACEFUL_SHUTDOWN_TIMEOUT. Returns once every instance has been torn down
// or the timeout elapses, whichever comes first.
func (c *ShutdownCoordinator) Shutdown(ctx context.Context) {
	c.ctrl.MarkShuttingDown()

	states := c.registry.Enumerate()
	c.logger.InfoWithFields("graceful shutdown starting", logger.Fields{
		"instance_count": len(states),
		"timeout_ms":     c.timeout.Milliseconds(),
	})

	shutdownCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var wg sync.WaitGroup
	for _, st := range states {
		wg.Add(1)
		go func(id InstanceID) {
			defer wg.Done()
			if err := c.ctrl.Teardown(shutdownCtx, id); err != nil {
				c.logger.WarnWithError("error tearing down instance during shutdown", err, logger.Fields{
					"instance_id": id.String(),
				})
			}
		}(st.InstanceID)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.InfoWithFields("graceful shutdown completed", nil)
	case <-shutdownCtx.Done():
		c.logger.WarnWithFields("graceful shutdown timed out, some instances may not have torn down cleanly", nil)
	}
}
