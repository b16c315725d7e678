package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/dasomlab/dasom/internal/brain"
	"github.com/dasomlab/dasom/internal/chat"
	"github.com/dasomlab/dasom/internal/config"
	"github.com/dasomlab/dasom/internal/httpapi"
	"github.com/dasomlab/dasom/internal/memory"
	"github.com/dasomlab/dasom/internal/observability"
	"github.com/dasomlab/dasom/internal/recommend"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := memory.NewStore(ctx, cfg.DatabaseURL, cfg.MemoryDir)
	if err != nil {
		log.Fatalf("memory store init failed: %v", err)
	}
	defer store.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:        cfg.BrainMode,
		BaseURL:     cfg.APIBaseURL,
		APIKey:      cfg.APIKey,
		Model:       cfg.Model,
		MaxTokens:   cfg.MaxTokens,
		Temperature: cfg.Temperature,
		TopP:        cfg.TopP,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}
	if _, ok := adapter.(*brain.MockAdapter); ok {
		log.Printf("brain adapter: mock (no model API key configured)")
	} else {
		log.Printf("brain adapter: openai-compatible (%s)", cfg.Model)
	}

	chatSvc := chat.NewService(adapter, store, metrics, chat.Options{
		SystemPrompt: cfg.SystemPrompt,
		MaxHistory:   cfg.MaxHistory,
		MaxSentences: cfg.MaxSentences,
		StreamDelay:  cfg.StreamDelay,
	})

	api := httpapi.New(cfg, chatSvc, store, recommend.NewLibrary(), metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
