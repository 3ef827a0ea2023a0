package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/internal/http/dto"
	messageUC "wagateway/internal/usecases/message"
	sessionUC "wagateway/internal/usecases/session"
	pkgerrors "wagateway/pkg/errors"
	"wagateway/pkg/logger"
)

// MessageHandler handles the send-or-enqueue HTTP surface (C10 producer
// side, spec §6.4): POST /api/send-text and POST /api/send-media.
type MessageHandler struct {
	sendTextUC  *messageUC.SendTextUseCase
	sendMediaUC *messageUC.SendMediaUseCase
	resolveUC   *sessionUC.ResolveUseCase
	logger      logger.Logger
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(
	sendTextUC *messageUC.SendTextUseCase,
	sendMediaUC *messageUC.SendMediaUseCase,
	resolveUC *sessionUC.ResolveUseCase,
	logger logger.Logger,
) *MessageHandler {
	return &MessageHandler{
		sendTextUC:  sendTextUC,
		sendMediaUC: sendMediaUC,
		resolveUC:   resolveUC,
		logger:      logger,
	}
}

// SendText handles POST /api/send-text
// @Summary Enviar mensagem de texto
// @Description Envia uma mensagem de texto. Responde 200 se enviada de imediato, 202 se a instância não está conectada e a mensagem foi enfileirada.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.SendTextRequest true "Dados da mensagem"
// @Success 200 {object} dto.SuccessResponse{data=dto.SendMessageResponse} "Mensagem enviada"
// @Success 202 {object} dto.SuccessResponse{data=dto.SendMessageResponse} "Mensagem enfileirada"
// @Failure 400 {object} dto.ErrorResponse "Dados inválidos"
// @Failure 404 {object} dto.ErrorResponse "Instância não encontrada"
// @Security ApiKeyAuth
// @Router /api/send-text [post]
func (h *MessageHandler) SendText(w http.ResponseWriter, r *http.Request) {
	var req dto.SendTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	instanceID, err := h.resolveInstance(r, req.Instance)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	result, err := h.sendTextUC.Execute(r.Context(), messageUC.SendTextRequest{
		Instance: instanceID,
		To:       req.To,
		Message:  req.Message,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.writeSendResult(w, result.Queued, result.MessageID, result.Position)
}

// SendMedia handles POST /api/send-media
// @Summary Enviar mídia
// @Description Envia uma mídia (imagem, documento, áudio ou vídeo). Responde 200 se enviada de imediato, 202 se enfileirada.
// @Tags Messages
// @Accept json
// @Produce json
// @Param request body dto.SendMediaRequest true "Dados da mídia"
// @Success 200 {object} dto.SuccessResponse{data=dto.SendMessageResponse} "Mídia enviada"
// @Success 202 {object} dto.SuccessResponse{data=dto.SendMessageResponse} "Mídia enfileirada"
// @Failure 400 {object} dto.ErrorResponse "Dados inválidos"
// @Failure 404 {object} dto.ErrorResponse "Instância não encontrada"
// @Security ApiKeyAuth
// @Router /api/send-media [post]
func (h *MessageHandler) SendMedia(w http.ResponseWriter, r *http.Request) {
	var req dto.SendMediaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	instanceID, err := h.resolveInstance(r, req.Instance)
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	result, err := h.sendMediaUC.Execute(r.Context(), messageUC.SendMediaRequest{
		Instance: instanceID,
		To:       req.To,
		MediaURL: req.MediaURL,
		Caption:  req.Caption,
		Kind:     parseMediaKind(req.Kind),
		Filename: req.Filename,
	})
	if err != nil {
		h.handleUseCaseError(w, err)
		return
	}

	h.writeSendResult(w, result.Queued, result.MessageID, result.Position)
}

func parseMediaKind(kind string) lifecycle.MediaKind {
	switch kind {
	case "document":
		return lifecycle.MediaKindDocument
	case "audio":
		return lifecycle.MediaKindAudio
	case "video":
		return lifecycle.MediaKindVideo
	default:
		return lifecycle.MediaKindImage
	}
}

// resolveInstance maps the caller's flexible instance identifier (id or
// name) onto the InstanceID the lifecycle engine is keyed by, the same way
// SessionHandler resolves identifiers for the session routes.
func (h *MessageHandler) resolveInstance(r *http.Request, identifierStr string) (session.SessionID, error) {
	if identifierStr == "" {
		return session.SessionID{}, session.ErrInvalidSessionIdentifier
	}

	identifier, err := session.NewSessionIdentifier(identifierStr)
	if err != nil {
		return session.SessionID{}, err
	}

	result, err := h.resolveUC.Execute(r.Context(), sessionUC.ResolveRequest{Identifier: identifier})
	if err != nil {
		h.logger.ErrorWithError("failed to resolve instance for send", err, logger.Fields{
			"identifier": identifierStr,
		})
		return session.SessionID{}, err
	}

	return result.Session.ID(), nil
}

// writeSendResult applies spec §6.4's status code rule: 200 for a
// synchronous send, 202 when the message was queued.
func (h *MessageHandler) writeSendResult(w http.ResponseWriter, queued bool, messageID string, position int) {
	status := http.StatusOK
	message := "Message sent"
	if queued {
		status = http.StatusAccepted
		message = "Message queued"
	}

	h.writeSuccessResponse(w, status, message, dto.SendMessageResponse{
		Queued:    queued,
		MessageID: messageID,
		Position:  position,
	})
}

func (h *MessageHandler) writeSuccessResponse(w http.ResponseWriter, statusCode int, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(dto.NewSuccessResponse(message, data))
}

func (h *MessageHandler) writeErrorResponse(w http.ResponseWriter, statusCode int, message string, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	var details string
	if err != nil {
		details = err.Error()
	}
	json.NewEncoder(w).Encode(dto.NewErrorResponse(message, "", details))

	h.logger.ErrorWithError("HTTP error response", err, logger.Fields{
		"status_code": statusCode,
		"message":     message,
	})
}

func (h *MessageHandler) handleUseCaseError(w http.ResponseWriter, err error) {
	if appErr, ok := err.(*pkgerrors.AppError); ok {
		h.writeErrorResponse(w, appErr.GetHTTPStatus(), appErr.Message, err)
		return
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound), errors.Is(err, lifecycle.ErrNotFound):
		h.writeErrorResponse(w, http.StatusNotFound, "Instance not found", err)
	case errors.Is(err, lifecycle.ErrShuttingDown):
		h.writeErrorResponse(w, http.StatusServiceUnavailable, "Engine shutting down", err)
	case errors.Is(err, lifecycle.ErrTornDown):
		h.writeErrorResponse(w, http.StatusConflict, "Instance is being torn down", err)
	case errors.Is(err, session.ErrInvalidSessionIdentifier):
		h.writeErrorResponse(w, http.StatusBadRequest, "Invalid instance identifier", err)
	default:
		h.writeErrorResponse(w, http.StatusInternalServerError, "Internal server error", err)
	}
}
