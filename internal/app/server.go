// internal/app/server.go
package app

import (
	"context"
	"fmt"
	"log"

	"orderbot-service/internal/channel/sms"
	"orderbot-service/internal/channel/whatsapp"
	"orderbot-service/internal/config"
	"orderbot-service/internal/db"
	authHandler "orderbot-service/internal/handlers/auth"
	orderHandler "orderbot-service/internal/handlers/order"
	settingsHandler "orderbot-service/internal/handlers/settings"
	webhookHandler "orderbot-service/internal/handlers/webhook"
	wsHandler "orderbot-service/internal/handlers/websocket"
	"orderbot-service/internal/metrics"
	"orderbot-service/internal/middleware"
	"orderbot-service/internal/queue"
	"orderbot-service/internal/repository/postgres"
	authUsecase "orderbot-service/internal/service/auth"
	confirmUsecase "orderbot-service/internal/service/confirm"
	"orderbot-service/internal/service/dispatch"
	"orderbot-service/internal/service/email"
	monitorUsecase "orderbot-service/internal/service/monitor"
	orderUsecase "orderbot-service/internal/service/order"
	schedulerUsecase "orderbot-service/internal/service/scheduler"
	settingsUsecase "orderbot-service/internal/service/settings"
	"orderbot-service/internal/websocket"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Server struct {
	cfg    config.AppConfig
	engine *gin.Engine
	logger *zap.Logger
}

func NewServer() *Server {
	cfg := config.Load()
	engine := gin.New()
	return &Server{cfg: cfg, engine: engine}
}

func (s *Server) Start(ctx context.Context) error {
	// ----- PostgreSQL -----
	pool, err := db.ConnectDB(s.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	defer pool.Close()

	// ----- Redis -----
	redisClient, err := db.NewRedisClient(db.RedisConfig{
		Addr:     s.cfg.RedisAddr,
		Password: s.cfg.RedisPass,
		DB:       0,
		PoolSize: 10,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("[REDIS] connected")

	// ----- Logger -----
	logger, _ := zap.NewProduction()
	defer logger.Sync()
	s.logger = logger

	// ----- Metrics -----
	m := metrics.Registry("orderbot")

	// ----- Email -----
	emailSender := email.NewEmailSender(
		s.cfg.SMTPHost,
		s.cfg.SMTPPort,
		s.cfg.SMTPUser,
		s.cfg.SMTPPass,
		s.cfg.SMTPFromName,
		s.cfg.SMTPSecure,
	)

	// ----- Channel adapters -----
	waAdapter, err := whatsapp.New(ctx, whatsapp.Config{
		StorePath: s.cfg.WhatsAppStorePath,
		LogLevel:  s.cfg.WhatsAppLogLevel,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to init WhatsApp adapter: %w", err)
	}
	go func() {
		if err := waAdapter.Start(ctx); err != nil {
			logger.Error("whatsapp session start failed", zap.Error(err))
		}
	}()
	defer waAdapter.Close()

	smsAdapter := sms.New(sms.Config{
		GatewayURL: s.cfg.SMSGatewayURL,
		APIKey:     s.cfg.SMSAPIKey,
		Sender:     s.cfg.SMSSender,
	}, logger)

	// ----- Repositories -----
	dbWrapper := postgres.NewDB(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	buyerRepo := postgres.NewBuyerRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	messageRepo := postgres.NewMessageRepository(pool)
	settingsRepo := postgres.NewBotSettingsRepository(pool)
	ingestStore := postgres.NewIngestStore(dbWrapper, buyerRepo, orderRepo, clientRepo)
	dispatchStore := postgres.NewDispatchStore(dbWrapper, orderRepo, messageRepo)

	// ----- Queue -----
	jobQueue := queue.NewRedisQueue(redisClient, logger)

	// ----- WebSocket Hub -----
	hub := websocket.NewHub()
	go hub.Run(ctx)

	// ----- Services -----
	settingsService := settingsUsecase.NewSettingsService(settingsRepo, settingsUsecase.Defaults{
		WhatsAppDelayMinutes: s.cfg.DefaultDelayWhatsApp,
		SMSDelayMinutes:      s.cfg.DefaultDelaySMS,
		SMSEnabled:           true,
	}, logger)

	schedulerService := schedulerUsecase.NewScheduler(
		jobQueue,
		settingsService,
		clientRepo,
		s.cfg.PublicBaseURL,
		logger,
	)

	orderService := orderUsecase.NewOrderService(
		ingestStore,
		orderRepo,
		messageRepo,
		schedulerService,
		s.cfg.TokenTTL,
		m,
		logger,
	)

	confirmService := confirmUsecase.NewConfirmService(
		orderRepo,
		clientRepo,
		emailSender,
		hub,
		m,
		logger,
	)

	authService := authUsecase.NewAuthService(clientRepo, emailSender, s.cfg.PublicBaseURL, logger)

	// ----- Dispatch workers -----
	workerCfg := dispatch.Config{Concurrency: s.cfg.WorkerConcurrency}
	waWorker := dispatch.NewWorker(queue.ChannelWhatsApp, jobQueue, waAdapter, dispatchStore, m, workerCfg, logger)
	smsWorker := dispatch.NewWorker(queue.ChannelSMS, jobQueue, smsAdapter, dispatchStore, m, workerCfg, logger)
	go waWorker.Run(ctx)
	go smsWorker.Run(ctx)

	// ----- Monitor sweep -----
	mon := monitorUsecase.NewMonitor(
		orderRepo,
		buyerRepo,
		schedulerService,
		jobQueue,
		s.cfg.MonitorInterval,
		s.cfg.MonitorGrace,
		m,
		logger,
	)
	go mon.Run(ctx)

	// ----- Handlers -----
	webhookHandlerInst := webhookHandler.NewWebhookHandler(orderService)
	orderHandlerInst := orderHandler.NewOrderHandler(orderService, confirmService)
	settingsHandlerInst := settingsHandler.NewSettingsHandler(settingsService)
	authHandlerInst := authHandler.NewAuthHandler(authService)
	wsHandlerInst := wsHandler.NewWebSocketHandler(hub, logger)

	// ----- Middlewares -----
	s.engine.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.RequestIDMiddleware(),
		middleware.LoggingMiddleware(logger),
		middleware.CORSMiddleware(),
	)

	// ----- Router -----
	handlers := &Handlers{
		WebhookHandler:  webhookHandlerInst,
		OrderHandler:    orderHandlerInst,
		SettingsHandler: settingsHandlerInst,
		AuthHandler:     authHandlerInst,
		WSHandler:       wsHandlerInst,
	}
	SetupRouter(s.engine, handlers)

	// ----- Start HTTP -----
	log.Printf("server running on %s", s.cfg.HTTPAddr)
	return s.engine.Run(s.cfg.HTTPAddr)
}
