package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"menushot/internal/auth"
	"menushot/internal/config"
	"menushot/internal/dish"
	"menushot/internal/llm"
	"menushot/internal/router"
	"menushot/internal/storage"
)

func main() {

	// ───────────────────────── ENV ─────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ───────────────────────── STORAGE ─────────────────────────
	// Without R2 the data URIs stay on the dish records.
	var images dish.ImageStore
	if cfg.R2.Enabled() {
		r2Client, err := storage.NewR2Client(ctx, storage.R2Config{
			Endpoint:      cfg.R2.Endpoint,
			AccessKey:     cfg.R2.AccessKey,
			SecretKey:     cfg.R2.SecretKey,
			Bucket:        cfg.R2.Bucket,
			PublicBaseURL: cfg.R2.PublicBaseURL,
		})
		if err != nil {
			log.Fatal("❌ R2 init failed:", err)
		}
		images = r2Client
		log.Println("🪣 R2 image storage enabled")
	}

	// ───────────────────────── AI GATEWAY ─────────────────────────
	gateway := llm.NewGeminiClient(llm.GeminiConfig{
		APIKey:     cfg.Gemini.APIKey,
		BaseURL:    cfg.Gemini.BaseURL,
		TextModel:  cfg.Gemini.TextModel,
		ImageModel: cfg.Gemini.ImageModel,
		Timeout:    cfg.Gemini.Timeout,
	})

	// ───────────────────────── SERVICES ─────────────────────────
	worker := dish.NewWorker(cfg.Generation.QueueSize)
	dishService := dish.NewService(
		dish.NewInMemoryRepository(),
		gateway,
		images,
		worker,
		dish.Options{ClearImageOnFailure: cfg.Generation.ClearImageOnFailure},
	)

	tokens := auth.NewTokenManager(cfg.Session.JWTSecret, cfg.Session.TTL)
	if !tokens.Enabled() {
		log.Println("⚠️  JWT_SECRET not set, session routes are unauthenticated")
	}

	// ───────────────────────── GENERATION WORKER ─────────────────────────
	go func() {
		if err := worker.Run(ctx, dishService.ProcessJob); err != nil {
			log.Printf("❌ Generation worker: %v", err)
		}
	}()

	// ───────────────────────── HTTP ─────────────────────────
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router.NewRouter(cfg, dish.NewHandler(dishService, tokens), tokens),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("🚀 API running at http://localhost:%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-sigCh:
		log.Println("Received shutdown signal")
	case err := <-errCh:
		log.Printf("Server error: %v", err)
	}

	// Queued generations are abandoned; in-memory sessions go with the process.
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
	log.Println("👋 Server stopped")
}
