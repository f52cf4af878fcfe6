package app

import (
	"fmt"

	"github.com/moesamiii/production/internal/config"
	"github.com/moesamiii/production/internal/database"
	"github.com/moesamiii/production/internal/handlers"
	"github.com/moesamiii/production/internal/logger"
	"github.com/moesamiii/production/internal/middleware"
	"github.com/moesamiii/production/internal/repositories"
	"github.com/moesamiii/production/internal/routes"
	"github.com/moesamiii/production/internal/services"
	"github.com/moesamiii/production/internal/validator"
	"github.com/moesamiii/production/ws"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	gormDB, err := gorm.Open(postgres.Open(cfg.Database.DSN), &gorm.Config{})
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.Migrate(gormDB); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	if cfg.Admin.PasswordHash == "" {
		logger.Warn("admin.password_hash is not set; deliverable management endpoints are disabled")
	}

	ginRouter := SetupRouter(cfg, gormDB)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter wires repositories, services, handlers and the websocket
// hub into a ready gin engine. Split out of Run so tests can mount it
// on httptest.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	wsManager := ws.NewWebSocketManager()
	go wsManager.Run()
	wsHandler := ws.NewWebSocketHandler(wsManager)

	serviceContainer := initializeServices(cfg, wsManager)
	appHandlers := initializeHandlers(serviceContainer)

	ginRouter := initializeGinRouter(gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, wsHandler)

	return ginRouter
}

func initializeServices(cfg *config.Config, wsManager *ws.WebSocketManager) *services.ServiceContainer {
	deliverableRepo := repositories.NewDeliverableRepository()
	chatMessageRepo := repositories.NewChatMessageRepository()

	deliverableService := services.NewDeliverableService(deliverableRepo, wsManager)
	chatService := services.NewChatService(chatMessageRepo, wsManager, cfg.Chat.HistoryLimit)
	authService := services.NewAuthService(cfg.Admin.PasswordHash, cfg.JWT.Secret, cfg.JWT.TTL)

	return &services.ServiceContainer{
		DeliverableService: deliverableService,
		ChatService:        chatService,
		AuthService:        authService,
	}
}

func initializeHandlers(container *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	return &handlers.AppHandlers{
		AuthHandler:        handlers.NewAuthHandler(baseHandler, container.AuthService),
		DeliverableHandler: handlers.NewDeliverableHandler(baseHandler, container.DeliverableService, container.AuthService),
		ChatHandler:        handlers.NewChatHandler(baseHandler, container.ChatService),
	}
}

func initializeGinRouter(db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.DBMiddleware(db))
	return router
}
