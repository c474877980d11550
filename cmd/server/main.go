package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"estate/internal/app"
	"estate/internal/auth"
	"estate/internal/config"
	"estate/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/httprate"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Print version info
	log.Printf("Property Search Engine")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := cfg.RequireAuth(); err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Set Gin mode
	gin.SetMode(cfg.Server.GinMode)

	engine, err := app.New(cfg, app.Options{})
	if err != nil {
		log.Fatalf("Failed to initialize services: %v", err)
	}
	defer engine.Close()

	router := handler.NewRouter(handler.RouterConfig{
		Search: handler.NewSearchHandler(engine.Search),
		Reveal: handler.NewRevealHandler(engine.Gate),
		Issuer: auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL),
		Ping:   engine.Ping,
		Build: handler.BuildInfo{
			Version:   Version,
			BuildTime: BuildTime,
			GitCommit: GitCommit,
		},
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: cfg.Server.AllowedMethods,
		AllowedHeaders: cfg.Server.AllowedHeaders,
	})

	var h http.Handler = router
	if cfg.RateLimit.RequestsPerMinute > 0 {
		h = httprate.LimitByIP(cfg.RateLimit.RequestsPerMinute, time.Minute)(router)
		log.Printf("✅ Rate limit: %d requests/minute per IP", cfg.RateLimit.RequestsPerMinute)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("🚀 Starting server on %s", addr)
	log.Printf("📝 API Documentation: http://localhost:%d/api/v1", cfg.Server.Port)

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("❌ Forced shutdown: %v", err)
	}

	log.Println("✅ Server stopped")
}
