// cmd/intake-server/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"intake-call-service/internal/common/config"
	"intake-call-service/internal/common/logger"
	"intake-call-service/internal/dialogue"
	"intake-call-service/internal/genai"
	"intake-call-service/internal/interview"
	"intake-call-service/internal/speech"
	"intake-call-service/internal/summary"
)

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting intake call server...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
		log = logger.NewZapAdapter(zapLog)
	}

	ctx := context.Background()

	// --- Audio store and synthesis ---
	store, err := speech.NewStore(cfg.Server.StaticDir)
	if err != nil {
		zapLog.Fatal("audio store init failed", zap.Error(err))
	}

	synth := speech.NewClient(speech.Config{
		APIKey:  cfg.Speech.APIKey,
		VoiceID: cfg.Speech.VoiceID,
		ModelID: cfg.Speech.ModelID,
		BaseURL: cfg.Speech.BaseURL,
		Timeout: config.GetDuration(cfg.Speech.Timeout),
	}, log)

	// --- Acknowledgement generation ---
	generator := genai.NewGenerator(genai.Config{
		BaseURL:     cfg.GenAI.BaseURL,
		APIKey:      cfg.GenAI.APIKey,
		Model:       cfg.GenAI.Model,
		MaxTokens:   cfg.GenAI.MaxTokens,
		Temperature: cfg.GenAI.Temperature,
		Timeout:     config.GetDuration(cfg.GenAI.Timeout),
		MaxRetries:  cfg.GenAI.MaxRetries,
	}, log)

	resolver := dialogue.NewResolver(generator)

	// --- Summary dispatch ---
	var dispatcher summary.Dispatcher
	switch cfg.Email.Provider {
	case "ses":
		dispatcher, err = summary.NewSESDispatcher(ctx, cfg.Email.SES.Region, cfg.Email.From, cfg.Email.Recipient, log)
		if err != nil {
			zapLog.Fatal("ses dispatcher init failed", zap.Error(err))
		}
	default:
		dispatcher = summary.NewSMTPDispatcher(summary.SMTPConfig{
			Host:      cfg.Email.SMTP.Host,
			Port:      cfg.Email.SMTP.Port,
			Username:  cfg.Email.SMTP.Username,
			Password:  cfg.Email.SMTP.Password,
			UseTLS:    cfg.Email.SMTP.UseTLS,
			From:      cfg.Email.From,
			Recipient: cfg.Email.Recipient,
			Timeout:   config.GetDuration(cfg.Email.Timeout),
		}, log)
	}

	controller := interview.NewController(
		cfg.Server.PublicBaseURL,
		resolver,
		synth,
		store,
		generator,
		dispatcher,
		log,
	)

	mux := http.NewServeMux()
	controller.Register(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLog.Info("listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("server error", zap.Error(err))
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("shutdown error", zap.Error(err))
	}
}
