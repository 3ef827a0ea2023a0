package container

import (
	"context"

	"wagateway/internal/http/server"
	"wagateway/internal/infra/config"
	messageUC "wagateway/internal/usecases/message"
	sessionUC "wagateway/internal/usecases/session"
	whatsappUC "wagateway/internal/usecases/whatsapp"
	"wagateway/pkg/logger"
)

// Container defines the interface for application containers
type Container interface {
	GetLogger() logger.Logger
	GetConfig() *config.Config
	Health() error
	Close() error
	IsInitialized() bool
}

// UseCaseContainer defines the interface for use case management
type UseCaseContainer interface {
	GetSessionUseCases() SessionUseCases
	GetWhatsAppUseCases() WhatsAppUseCases
	GetMessageUseCases() MessageUseCases
}

// HTTPContainer defines the interface for HTTP layer management
type HTTPContainer interface {
	GetServerManager() *server.ServerManager
	GetServerInfo() server.ServerInfo
	StartServer(ctx context.Context) error
}

// SessionUseCases groups all session-related use cases
type SessionUseCases struct {
	Create        *sessionUC.CreateUseCase
	Connect       *sessionUC.ConnectUseCase
	Disconnect    *sessionUC.DisconnectUseCase
	List          *sessionUC.ListUseCase
	Delete        *sessionUC.DeleteUseCase
	Resolve       *sessionUC.ResolveUseCase
	SetProxy      *sessionUC.SetProxyUseCase
	AutoReconnect *sessionUC.AutoReconnectUseCase
}

// WhatsAppUseCases groups all WhatsApp-related use cases
type WhatsAppUseCases struct {
	GenerateQR  *whatsappUC.GenerateQRUseCase
	PairPhone   *whatsappUC.PairPhoneUseCase
	SendMessage *whatsappUC.SendMessageUseCase
}

// MessageUseCases groups the lifecycle-engine-backed send-or-enqueue use
// cases (C10 producer side).
type MessageUseCases struct {
	SendText  *messageUC.SendTextUseCase
	SendMedia *messageUC.SendMediaUseCase
}
