package message

import (
	"context"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
	"wagateway/pkg/validator"
)

// SendTextUseCase implements the C10 producer side of the send-or-enqueue
// contract for plain text: POST /api/send-text resolves to either a
// synchronous C6 send or a queued C10 entry, never to the old
// waManager-direct path.
type SendTextUseCase struct {
	ctrl      *lifecycle.Controller
	logger    logger.Logger
	validator validator.Validator
}

// NewSendTextUseCase creates a SendTextUseCase.
func NewSendTextUseCase(ctrl *lifecycle.Controller, log logger.Logger, v validator.Validator) *SendTextUseCase {
	return &SendTextUseCase{ctrl: ctrl, logger: log, validator: v}
}

// SendTextRequest is the resolved send-text request: Instance has already
// been mapped from the caller's raw identifier to a concrete InstanceID by
// the HTTP handler (spec §6.4 accepts either the instance id or name).
type SendTextRequest struct {
	Instance session.SessionID `validate:"required"`
	To       string            `validate:"required"`
	Message  string            `validate:"required"`
}

// SendTextResponse mirrors spec §6.4's 200/202 response shapes: Queued is
// false for a synchronous send, true for a queued one (Position then > 0).
type SendTextResponse struct {
	Queued    bool   `json:"queued"`
	MessageID string `json:"messageId"`
	Position  int    `json:"position,omitempty"`
}

// Execute runs the send(i,m) round trip: C5 lookup, then either
// C6.sendMessage or C10.enqueue+C9.Schedule.
func (uc *SendTextUseCase) Execute(ctx context.Context, req SendTextRequest) (*SendTextResponse, error) {
	if err := uc.validator.Validate(req); err != nil {
		uc.logger.ErrorWithError("validation failed for send text", err, logger.Fields{
			"instance_id": req.Instance.String(),
		})
		return nil, err
	}

	queued, position, messageID, err := uc.ctrl.SendText(ctx, req.Instance, req.To, req.Message)
	if err != nil {
		uc.logger.ErrorWithError("send text failed", err, logger.Fields{
			"instance_id": req.Instance.String(),
			"to":          req.To,
		})
		return nil, err
	}

	return &SendTextResponse{Queued: queued, MessageID: messageID, Position: position}, nil
}
