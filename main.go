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

	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"tshirt-designer-server/modules/common/config"
	"tshirt-designer-server/modules/common/gemini"
	"tshirt-designer-server/modules/common/stability"
	"tshirt-designer-server/modules/common/storage"
	"tshirt-designer-server/modules/common/utils"
	"tshirt-designer-server/modules/server"
	"tshirt-designer-server/modules/tshirt"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Shared outbound client, zero timeout keeps net/http's default behaviour
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	geminiClient, err := gemini.NewClient(ctx, gemini.Options{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		BaseURL:    cfg.GeminiBaseURL,
		HTTPClient: httpClient,
	})
	if err != nil {
		log.Fatalf("❌ Failed to create Gemini client: %v", err)
	}

	stabilityClient := stability.NewClient(cfg.StabilityAPIKey, cfg.StabilityBaseURL, httpClient)

	var mirror storage.Mirror
	if cfg.SupabaseEnabled() {
		supabaseMirror, err := storage.NewSupabaseMirror(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseBucket)
		if err != nil {
			log.Printf("⚠️  Supabase mirror disabled: %v", err)
		} else {
			mirror = supabaseMirror
		}
	}

	store, err := storage.NewLocalStore(cfg.StaticDir, mirror)
	if err != nil {
		log.Fatalf("❌ Failed to prepare static directory: %v", err)
	}

	service, err := tshirt.NewService(geminiClient, stabilityClient, store, tshirt.Options{
		PublicBaseURL: cfg.PublicBaseURL,
		ImageFormat:   cfg.ImageFormat,
		WebPEncoder:   utils.WebPEncoder{Quality: cfg.WebPQuality},
	})
	if err != nil {
		log.Fatalf("❌ Failed to create T-shirt service: %v", err)
	}

	handler := tshirt.NewHandler(service)
	router := server.NewRouter(handler.HandleGenerate, store.Dir())

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("🚀 T-shirt Designer Server starting on port %s", cfg.Port)
		log.Printf("🎨 Generate: POST http://localhost:%s/generate-tshirt", cfg.Port)
		log.Printf("🖼️  Static: %s/static/", cfg.PublicBaseURL)
		log.Printf("❤️  Health check: http://localhost:%s/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Printf("🛑 Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
	log.Printf("👋 Server stopped")
}
