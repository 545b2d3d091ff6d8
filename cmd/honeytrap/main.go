package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/thedefenders/honeytrap/internal/archive"
	"github.com/thedefenders/honeytrap/internal/brain"
	"github.com/thedefenders/honeytrap/internal/config"
	"github.com/thedefenders/honeytrap/internal/engine"
	"github.com/thedefenders/honeytrap/internal/feed"
	"github.com/thedefenders/honeytrap/internal/httpapi"
	"github.com/thedefenders/honeytrap/internal/observability"
	"github.com/thedefenders/honeytrap/internal/report"
	"github.com/thedefenders/honeytrap/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	archiveStore, err := archive.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("archive store init failed: %v", err)
	}
	defer archiveStore.Close()

	adapter, err := brain.NewAdapter(brain.Config{
		Mode:    cfg.BrainMode,
		HTTPURL: cfg.BrainHTTPURL,
	})
	if err != nil {
		log.Fatalf("brain adapter init failed: %v", err)
	}

	if cfg.APIKey == "" {
		log.Printf("WARNING: APP_API_KEY not set, intake endpoints are unauthenticated")
	}
	if cfg.FinalCallbackURL == "" {
		log.Printf("WARNING: FINAL_CALLBACK_URL not set, final reports will not be delivered")
	}

	sessions := session.NewStore()
	hub := feed.NewHub()
	dispatcher := report.NewDispatcher(cfg.FinalCallbackURL, report.DefaultPolicy)

	eng := engine.New(engine.Config{
		MaxTurns:         cfg.MaxTurns,
		ClassifierWindow: cfg.ClassifierWindow,
	}, sessions, adapter, dispatcher, archiveStore, hub, metrics)

	api := httpapi.New(cfg, eng, hub, metrics)
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
