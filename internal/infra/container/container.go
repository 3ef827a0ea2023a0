package container

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3" // Import SQLite driver for whatsmeow
	"github.com/uptrace/bun"
	"go.mau.fi/whatsmeow/store/sqlstore"

	"wagateway/internal/domain/lifecycle"
	"wagateway/internal/domain/session"
	"wagateway/internal/domain/whatsapp"
	"wagateway/internal/infra/authstore"
	"wagateway/internal/infra/config"
	"wagateway/internal/infra/database"
	"wagateway/internal/infra/database/migrations"
	infraLogger "wagateway/internal/infra/logger"
	"wagateway/internal/infra/repository"
	"wagateway/internal/infra/webhook"
	"wagateway/internal/infra/whats"
	"wagateway/pkg/logger"
	"wagateway/pkg/validator"
)

// Container holds all infrastructure dependencies
type Container struct {
	// Configuration
	Config *config.Config

	// Core infrastructure
	Logger    logger.Logger
	Validator validator.Validator
	DB        *bun.DB

	// Database components
	DBConnection database.Connection
	Migrator     *migrations.Migrator

	// Repositories
	SessionRepo session.Repository

	// WhatsApp components
	WhatsAppStore   *sqlstore.Container
	WhatsAppManager whatsapp.Manager

	// Session Lifecycle & Resilience Engine (C1, C3, C5-C13)
	AuthStore            *authstore.Store
	WebhookDispatcher    *webhook.Dispatcher
	LifecycleRegistry    *lifecycle.Registry
	LifecycleQueues      *lifecycle.QueueStore
	LifecycleController  *lifecycle.Controller
	LifecycleReconnector *lifecycle.Reconnector
	LifecycleSupervisor  *lifecycle.Supervisor
	Rehydrator           *lifecycle.Rehydrator
	ShutdownCoordinator  *lifecycle.ShutdownCoordinator

	// Internal state
	isInitialized bool
}

// New creates a new infrastructure container
func New(cfg *config.Config) (*Container, error) {
	container := &Container{
		Config: cfg,
	}

	if err := container.initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize container: %w", err)
	}

	return container, nil
}

// initialize sets up all infrastructure components
func (c *Container) initialize() error {
	// Initialize logger first
	if err := c.initializeLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	c.Logger.Info("initializing infrastructure container")

	// Initialize validator
	if err := c.initializeValidator(); err != nil {
		return fmt.Errorf("failed to initialize validator: %w", err)
	}

	// Initialize database
	if err := c.initializeDatabase(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	// Initialize repositories
	if err := c.initializeRepositories(); err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	// Initialize WhatsApp manager
	if err := c.initializeWhatsApp(); err != nil {
		return fmt.Errorf("failed to initialize WhatsApp: %w", err)
	}

	// Initialize the Session Lifecycle & Resilience Engine
	if err := c.initializeLifecycle(); err != nil {
		return fmt.Errorf("failed to initialize lifecycle engine: %w", err)
	}

	c.isInitialized = true
	c.Logger.Info("infrastructure container initialized successfully")

	return nil
}

// initializeLogger sets up the logger
func (c *Container) initializeLogger() error {
	c.Logger = infraLogger.New(&c.Config.Log)
	return nil
}

// initializeValidator sets up the validator
func (c *Container) initializeValidator() error {
	c.Validator = validator.New()
	return nil
}

// initializeDatabase sets up the database connection and migrations
func (c *Container) initializeDatabase() error {
	// Create database connection
	dbConn, err := database.New(&c.Config.Database, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to create database connection: %w", err)
	}

	c.DBConnection = dbConn
	c.DB = dbConn.GetDB()

	// Create migrator
	c.Migrator = migrations.NewMigrator(c.DB, c.Logger)

	// Run migrations if auto-migrate is enabled
	if c.Config.Database.AutoMigrate {
		ctx := context.Background()
		if err := c.Migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run database migrations: %w", err)
		}
	}

	return nil
}

// initializeRepositories sets up all repositories
func (c *Container) initializeRepositories() error {
	// Session repository
	c.SessionRepo = repository.NewSessionRepository(c.DB, c.Logger)

	c.Logger.Info("repositories initialized")
	return nil
}

// initializeWhatsApp sets up WhatsApp components
func (c *Container) initializeWhatsApp() error {
	// Create WhatsApp sqlstore container using the same database
	dbURL := c.Config.Database.URL
	dbDriver := c.Config.Database.Driver

	// Adjust driver name for whatsmeow compatibility
	switch dbDriver {
	case "sqlite", "sqlite3":
		dbDriver = "sqlite3"
		// Add foreign keys parameter for SQLite (only for file-based databases)
		if dbURL == "./data/wagateway.db" {
			dbURL = "./data/wagateway.db?_foreign_keys=on"
		} else if !strings.Contains(dbURL, ":memory:") && !strings.Contains(dbURL, "mode=memory") && !strings.Contains(dbURL, "_foreign_keys") {
			// Add foreign keys parameter if not already present and not in-memory
			if strings.Contains(dbURL, "?") {
				dbURL += "&_foreign_keys=on"
			} else {
				dbURL += "?_foreign_keys=on"
			}
		}
	case "postgres", "postgresql":
		dbDriver = "postgres"
	default:
		return fmt.Errorf("unsupported database driver for WhatsApp store: %s", dbDriver)
	}

	// Create logger adapter for whatsmeow
	waLogger := whats.NewLoggerAdapter(c.Logger, "WhatsApp")

	whatsappStore, err := sqlstore.New(context.Background(), dbDriver, dbURL, waLogger)
	if err != nil {
		return fmt.Errorf("failed to create WhatsApp store: %w", err)
	}

	// Upgrade WhatsApp store schema
	err = whatsappStore.Upgrade(context.Background())
	if err != nil {
		return fmt.Errorf("failed to upgrade WhatsApp store: %w", err)
	}

	c.WhatsAppStore = whatsappStore

	// Create WhatsApp manager
	c.WhatsAppManager = whats.NewManager(&c.Config.WhatsApp, whatsappStore, c.SessionRepo, c.Logger)

	c.Logger.Info("WhatsApp components initialized")
	return nil
}

// initializeLifecycle wires the Session Lifecycle & Resilience Engine
// (C1, C3, C5-C13) on top of the already-initialized repository and
// WhatsApp manager.
func (c *Container) initializeLifecycle() error {
	policy := lifecycle.NewPolicy(c.Config.Lifecycle)

	authStore, err := authstore.New(c.Config.Storage.SessionStoragePath, c.Logger)
	if err != nil {
		return fmt.Errorf("failed to initialize auth blob store: %w", err)
	}
	c.AuthStore = authStore

	c.WebhookDispatcher = webhook.New(c.SessionRepo, c.Logger, c.Config.Features.EnableWebhooks)

	manager, ok := c.WhatsAppManager.(*whats.Manager)
	if !ok {
		return fmt.Errorf("WhatsApp manager does not support lifecycle adapters")
	}

	c.LifecycleRegistry = lifecycle.NewRegistry()
	c.LifecycleQueues = lifecycle.NewQueueStore(c.Config.Lifecycle.MaxQueueSize)

	c.LifecycleController = lifecycle.NewController(
		c.LifecycleRegistry,
		c.SessionRepo,
		c.LifecycleQueues,
		policy,
		c.Logger,
		manager.AdapterFactory(),
	)
	c.LifecycleController.SetAuthBlobStore(c.AuthStore)
	c.LifecycleController.SetMessageSink(c.WebhookDispatcher)

	c.LifecycleReconnector = lifecycle.NewReconnector(
		c.LifecycleRegistry,
		c.SessionRepo,
		c.LifecycleController,
		policy,
		c.Logger,
	)
	c.LifecycleController.SetReconnector(c.LifecycleReconnector)

	c.LifecycleSupervisor = lifecycle.NewSupervisor(
		c.LifecycleRegistry,
		c.SessionRepo,
		c.LifecycleController,
		policy,
		c.Logger,
	)

	c.Rehydrator = lifecycle.NewRehydrator(
		c.SessionRepo,
		c.LifecycleController,
		c.Config.Lifecycle.RehydrateStagger,
		c.Logger,
	)

	c.ShutdownCoordinator = lifecycle.NewShutdownCoordinator(
		c.LifecycleRegistry,
		c.LifecycleController,
		c.Config.Lifecycle.GracefulShutdownTimeout,
		c.Logger,
	)

	c.Logger.Info("lifecycle engine initialized")
	return nil
}

// StartLifecycleEngine starts the reconnector's supervisor loop, the
// liveness supervisor's recovery sweep and memory monitor, and rehydrates
// every instance whose durable intent is enabled. ctx governs all three
// background loops; callers should derive it from the process lifetime and
// cancel it during shutdown, after ShutdownCoordinator.Shutdown has torn
// every live instance down.
func (c *Container) StartLifecycleEngine(ctx context.Context) error {
	go c.LifecycleReconnector.Run(ctx)
	go c.LifecycleSupervisor.Run(ctx)

	return c.Rehydrator.Run(ctx)
}

// Close gracefully shuts down all infrastructure components
func (c *Container) Close() error {
	if !c.isInitialized {
		return nil
	}

	c.Logger.Info("shutting down infrastructure container")

	var errors []error

	// Drain every live instance before the WhatsApp manager and its store
	// are torn down from under it.
	if c.ShutdownCoordinator != nil {
		c.ShutdownCoordinator.Shutdown(context.Background())
	}

	// Stop WhatsApp manager
	if c.WhatsAppManager != nil {
		if err := c.WhatsAppManager.Stop(); err != nil {
			errors = append(errors, fmt.Errorf("failed to stop WhatsApp manager: %w", err))
		}
	}

	// Close WhatsApp store
	if c.WhatsAppStore != nil {
		if err := c.WhatsAppStore.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close WhatsApp store: %w", err))
		}
	}

	// Close database connection
	if c.DBConnection != nil {
		if err := c.DBConnection.Close(); err != nil {
			errors = append(errors, fmt.Errorf("failed to close database connection: %w", err))
		}
	}

	if len(errors) > 0 {
		// Log all errors
		for _, err := range errors {
			c.Logger.ErrorWithError("error during container shutdown", err, nil)
		}
		return fmt.Errorf("multiple errors during shutdown: %v", errors)
	}

	c.Logger.Info("infrastructure container shut down successfully")
	return nil
}

// Health checks the health of all infrastructure components
func (c *Container) Health() error {
	if !c.isInitialized {
		return fmt.Errorf("container not initialized")
	}

	// Check database health
	if err := c.DBConnection.Health(); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}

	// Check WhatsApp manager health
	if err := c.WhatsAppManager.HealthCheck(); err != nil {
		return fmt.Errorf("WhatsApp manager health check failed: %w", err)
	}

	return nil
}

// IsInitialized returns true if the container is initialized
func (c *Container) IsInitialized() bool {
	return c.isInitialized
}

// GetDatabaseStats returns database connection statistics
func (c *Container) GetDatabaseStats() interface{} {
	if c.DB == nil {
		return sql.DBStats{}
	}
	return c.DB.DB.Stats()
}

// GetWhatsAppStats returns WhatsApp manager statistics
func (c *Container) GetWhatsAppStats() *whatsapp.ManagerStats {
	if c.WhatsAppManager == nil {
		return nil
	}
	// Cast to concrete type to access GetStats method
	if manager, ok := c.WhatsAppManager.(*whats.Manager); ok {
		return manager.GetStats()
	}
	return nil
}

// StartWhatsAppManager starts the WhatsApp manager
func (c *Container) StartWhatsAppManager() error {
	if c.WhatsAppManager == nil {
		return fmt.Errorf("WhatsApp manager not initialized")
	}

	ctx := context.Background()
	return c.WhatsAppManager.Start(ctx)
}

// ResetDatabase drops and recreates all database tables
func (c *Container) ResetDatabase() error {
	if c.Migrator == nil {
		return fmt.Errorf("migrator not initialized")
	}

	c.Logger.Warn("resetting database")
	ctx := context.Background()
	return c.Migrator.Reset(ctx)
}

// MigrateDatabase runs database migrations
func (c *Container) MigrateDatabase() error {
	if c.Migrator == nil {
		return fmt.Errorf("migrator not initialized")
	}

	c.Logger.Info("running database migrations")
	ctx := context.Background()
	return c.Migrator.Migrate(ctx)
}
