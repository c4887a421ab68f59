package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"concierge/config"
	"concierge/cron"
	"concierge/database"
	bookingRepo "concierge/database/repository/booking"
	"concierge/handlers"
	"concierge/middleware"
	"concierge/routes"
	"concierge/services/booking"
	"concierge/services/content"
	"concierge/services/gate"
	ai "concierge/services/intelligence"
	"concierge/services/notification"
	"concierge/services/scheduling"
	"concierge/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Repositories.
	repo := bookingRepo.NewMongoBookingRepo()
	if err := repo.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure booking indexes: %v", err)
	}

	// Services.
	calculator, err := scheduling.NewCalculator(
		scheduling.DefaultWeekly(),
		config.AppConfig.Timezone,
		config.AppConfig.HorizonDays,
	)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to build slot calculator: %v", err)
	}

	sink := notification.NewSMTPSink(
		config.AppConfig.SMTPHost,
		config.AppConfig.SMTPPort,
		config.AppConfig.SMTPUser,
		config.AppConfig.SMTPPassword,
		config.AppConfig.OperatorName,
		config.AppConfig.OperatorEmail,
	)

	reminders := cron.NewAsynqReminderScheduler()
	cron.InitReminderWorker(repo, sink)

	bookingService := &booking.DefaultBookingService{
		Repo:          repo,
		Slots:         calculator,
		Notifier:      sink,
		Reminders:     reminders,
		OperatorName:  config.AppConfig.OperatorName,
		OperatorEmail: config.AppConfig.OperatorEmail,
	}

	library := content.NewLibrary(config.AppConfig.ContentDir)
	toolset := ai.NewToolset(library, bookingService)

	var assistant ai.AssistantService
	if config.AppConfig.GeminiAPIKey != "" {
		ctxStore := ai.NewRedisContextStore(utils.GetContextCacheClient(), 30*time.Minute)
		assistant, err = ai.NewGeminiAssistant(config.AppConfig.GeminiAPIKey, toolset, ctxStore)
		if err != nil {
			logger.Sugar().Fatalf("main: failed to initialize Gemini assistant: %v", err)
		}
	} else {
		logger.Warn("main: GEMINI_API_KEY not set, chat endpoint will reject requests")
	}

	requestGate := &gate.Gate{
		Counter:            gate.NewRedisCounter(utils.GetRateLimitCacheClient()),
		GlobalLimit:        config.AppConfig.MaxRequestsPerDay,
		SessionLimit:       config.AppConfig.MaxRequestsPerSession,
		MaxQuestionLength:  config.AppConfig.MaxQuestionLength,
		MaxHistoryMessages: config.AppConfig.MaxHistoryMessages,
		MaxMessageLength:   config.AppConfig.MaxMessageLength,
	}

	// Handlers and routes.
	chatHandler := handlers.NewChatHandler(requestGate, assistant)
	bookingHandler := handlers.NewBookingHandler(bookingService)
	routes.RegisterRoutes(router, chatHandler, bookingHandler)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
