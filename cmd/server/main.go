package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Mikael-duru/mockwise/internal/agent"
	"github.com/Mikael-duru/mockwise/internal/auth"
	"github.com/Mikael-duru/mockwise/internal/config"
	"github.com/Mikael-duru/mockwise/internal/httpserver"
	"github.com/Mikael-duru/mockwise/internal/llm"
	"github.com/Mikael-duru/mockwise/internal/media"
	"github.com/Mikael-duru/mockwise/internal/store"
	"github.com/Mikael-duru/mockwise/internal/telephony"
	"github.com/Mikael-duru/mockwise/internal/voice"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if cfg.Environment == "development" {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	db, err := store.Dial(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("failed to connect to mongo", zap.Error(err))
	}
	interviews := store.NewInterviews(db)
	feedbacks := store.NewFeedbacks(db)
	users := store.NewUsers(db)

	gemini, err := llm.NewGemini(ctx, cfg.GeminiKey, cfg.GeminiModel)
	if err != nil {
		logger.Fatal("failed to create gemini client", zap.Error(err))
	}

	uploader, err := media.NewUploader(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
	if err != nil {
		logger.Fatal("failed to create media uploader", zap.Error(err))
	}

	dispatcher := agent.NewDispatcher(gemini, feedbacks, logger)

	srv := httpserver.New(httpserver.Deps{
		Logger:     logger,
		Sessions:   auth.NewSessionManager(cfg.SessionSecret, cfg.IsProduction()),
		Verifier:   auth.NewHS256Verifier(cfg.IdentitySecret),
		Users:      users,
		Interviews: interviews,
		Feedbacks:  feedbacks,
		Questions:  gemini,
		Uploader:   uploader,
		Calls:      agent.NewRegistry(),
		Dispatcher: dispatcher,
		NewVoiceCaller: func() agent.VoiceCaller {
			return voice.NewClient(cfg.VoiceBaseURL, cfg.VoiceAPIKey, logger)
		},
		WorkflowID: cfg.VoiceWorkflowID,
	})

	phone := telephony.NewHandler(interviews, dispatcher, logger)
	phone.Register(srv.Echo, func() string { return cfg.TwilioAuthToken })

	server := &http.Server{
		Addr:              cfg.HTTPAddress,
		Handler:           srv.Echo,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server listening", zap.String("address", cfg.HTTPAddress))
		serverErrors <- server.ListenAndServe()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			logger.Fatal("server error", zap.Error(err))
		}
	case sig := <-sigChan:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("graceful shutdown failed", zap.Error(err))
		_ = server.Close()
	}
	if err := db.Close(shutdownCtx); err != nil {
		logger.Warn("mongo disconnect failed", zap.Error(err))
	}
}
