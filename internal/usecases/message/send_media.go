package message

import (
	"context"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/pkg/logger"
	"wagateway/pkg/validator"
)

// SendMediaUseCase is SendTextUseCase's media counterpart: POST
// /api/send-media (spec §6.4), same send-or-enqueue contract.
type SendMediaUseCase struct {
	ctrl      *lifecycle.Controller
	logger    logger.Logger
	validator validator.Validator
}

// NewSendMediaUseCase creates a SendMediaUseCase.
func NewSendMediaUseCase(ctrl *lifecycle.Controller, log logger.Logger, v validator.Validator) *SendMediaUseCase {
	return &SendMediaUseCase{ctrl: ctrl, logger: log, validator: v}
}

// SendMediaRequest is the resolved send-media request; Instance is mapped
// from the caller's raw identifier by the HTTP handler, same as SendText.
type SendMediaRequest struct {
	Instance session.SessionID `validate:"required"`
	To       string            `validate:"required"`
	MediaURL string            `validate:"required"`
	Caption  string
	Kind     lifecycle.MediaKind
	Filename string
}

// SendMediaResponse mirrors SendTextResponse's 200/202 shape.
type SendMediaResponse struct {
	Queued    bool   `json:"queued"`
	MessageID string `json:"messageId"`
	Position  int    `json:"position,omitempty"`
}

// Execute runs the send(i,m) round trip for media.
func (uc *SendMediaUseCase) Execute(ctx context.Context, req SendMediaRequest) (*SendMediaResponse, error) {
	if err := uc.validator.Validate(req); err != nil {
		uc.logger.ErrorWithError("validation failed for send media", err, logger.Fields{
			"instance_id": req.Instance.String(),
		})
		return nil, err
	}

	media := lifecycle.OutboundMedia{
		Kind:     req.Kind,
		Path:     req.MediaURL,
		Caption:  req.Caption,
		Filename: req.Filename,
	}

	queued, position, messageID, err := uc.ctrl.SendMedia(ctx, req.Instance, req.To, media)
	if err != nil {
		uc.logger.ErrorWithError("send media failed", err, logger.Fields{
			"instance_id": req.Instance.String(),
			"to":          req.To,
		})
		return nil, err
	}

	return &SendMediaResponse{Queued: queued, MessageID: messageID, Position: position}, nil
}
