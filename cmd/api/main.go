package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/voicereach/voicereach-backend/internal/config"
	"github.com/voicereach/voicereach-backend/internal/db"
	"github.com/voicereach/voicereach-backend/internal/engine"
	"github.com/voicereach/voicereach-backend/internal/handler"
	"github.com/voicereach/voicereach-backend/internal/metadata"
	"github.com/voicereach/voicereach-backend/internal/repository"
	"github.com/voicereach/voicereach-backend/internal/service"
	"github.com/voicereach/voicereach-backend/internal/telephony"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	logger.Info("starting VoiceReach API server")

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	database, err := db.New(db.Config{
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		logger.Error("failed to connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.Close()

	logger.Info("connected to database")

	metaStore, err := metadata.NewRedisStore(metadata.Config{URL: cfg.Redis.URL}, logger)
	if err != nil {
		logger.Error("failed to connect to Redis", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer metaStore.Close()

	provider, err := telephony.NewClient(telephony.ClientConfig{
		ServerURL: cfg.Telephony.ServerURL,
		APIKey:    cfg.Telephony.APIKey,
		APISecret: cfg.Telephony.APISecret,
	}, logger)
	if err != nil {
		logger.Error("failed to configure voice provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Repositories
	campaignRepo := repository.NewCampaignRepository(database.DB)
	contactRepo := repository.NewContactRepository(database.DB)
	callRepo := repository.NewCallRepository(database.DB)
	queueRepo := repository.NewQueueRepository(database.DB)
	phoneRepo := repository.NewPhoneNumberRepository(database.DB)

	// Engine
	resolver := engine.NewResolver(contactRepo, cfg.Engine.DefaultRegion, logger)
	dispatcher := engine.NewDispatcher(
		callRepo,
		campaignRepo,
		phoneRepo,
		provider,
		metaStore,
		cfg.Telephony.AgentName,
		logger,
	)
	scheduler := engine.NewScheduler(campaignRepo, resolver, dispatcher, engine.SchedulerConfig{
		PollInterval:   cfg.Engine.PollInterval,
		InterCallDelay: cfg.Engine.InterCallDelay,
	}, logger)

	engineCtx, engineCancel := context.WithCancel(context.Background())
	defer engineCancel()

	scheduler.Start(engineCtx)
	defer scheduler.Stop()

	// Services and handlers
	campaignSvc := service.NewCampaignService(campaignRepo, callRepo, queueRepo, contactRepo, logger)
	campaignHandler := handler.NewCampaignHandler(campaignSvc, scheduler, logger)
	healthHandler := handler.NewHealthHandler(database.DB, metaStore, provider, logger)

	// Router
	r := chi.NewRouter()
	r.Use(handler.RecoveryMiddleware(logger))
	r.Use(handler.LoggingMiddleware(logger))
	r.Use(handler.CORSMiddleware)

	r.Get("/health", healthHandler.Health)

	r.Route("/campaigns", func(r chi.Router) {
		r.Post("/", campaignHandler.CreateCampaign)
		r.Get("/", campaignHandler.ListCampaigns)
		r.Get("/engine/status", campaignHandler.EngineStatus)
		r.Get("/{id}", campaignHandler.GetCampaign)
		r.Post("/{id}/start", campaignHandler.StartCampaign)
		r.Post("/{id}/pause", campaignHandler.PauseCampaign)
		r.Post("/{id}/resume", campaignHandler.ResumeCampaign)
		r.Post("/{id}/stop", campaignHandler.StopCampaign)
		r.Post("/{id}/reset-daily", campaignHandler.ResetDaily)
		r.Get("/{id}/status", campaignHandler.CampaignStatus)
		r.Get("/{id}/calls", campaignHandler.ListCalls)
	})

	r.Post("/contact-files", campaignHandler.UploadContactFile)

	addr := fmt.Sprintf(":%d", cfg.API.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("API server listening", slog.String("addr", addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)

	case sig := <-quit:
		logger.Info("shutting down", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed", slog.String("error", err.Error()))
			os.Exit(1)
		}

		scheduler.Stop()
		logger.Info("server stopped gracefully")
	}
}
