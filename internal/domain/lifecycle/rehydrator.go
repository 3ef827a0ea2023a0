package lifecycle

import (
	"context"
	"time"

	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
)

// Rehydrator is the boot-time half of C11: it runs once from app startup,
// generalizing the teacher's AutoReconnectUseCase
// (internal/usecases/session/reconnect.go) from "reconnect sessions with a
// known JID" to "start every enabled=true instance", staggered so a large
// fleet does not open every adapter in the same instant.
type Rehydrator struct {
	repo    session.Repository
	ctrl    *Controller
	stagger time.Duration
	logger  logger.Logger
}

// NewRehydrator creates a Rehydrator.
func NewRehydrator(repo session.Repository, ctrl *Controller, stagger time.Duration, log logger.Logger) *Rehydrator {
	return &Rehydrator{repo: repo, ctrl: ctrl, stagger: stagger, logger: log}
}

// Run loads every enabled=true instance and calls Controller.Start for each,
// REHYDRATE_STAGGER apart. Blocks until every instance has been started or
// ctx is cancelled; does not wait for any instance to finish connecting.
func (r *Rehydrator) Run(ctx context.Context) error {
	sessions, err := r.repo.GetEnabled(ctx)
	if err != nil {
		return err
	}

	r.logger.InfoWithFields("rehydrating enabled instances", logger.Fields{"count": len(sessions)})

	for i, sess := range sessions {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.stagger):
			}
		}

		r.logger.InfoWithFields("rehydrating instance", logger.Fields{
			"instance_id": sess.ID().String(),
			"name":        sess.Name(),
		})
		r.ctrl.Start(ctx, sess.ID())
	}

	return nil
}
