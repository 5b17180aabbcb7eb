// main.go - The entry point and router setup.

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/bosocmputer/medicine_ocr_gemini/configs"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/app"
	"github.com/bosocmputer/medicine_ocr_gemini/internal/common"
)

func main() {
	// Step 0: Load configuration from environment variables
	cfg, err := configs.Load()
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}
	common.InitLogger(cfg.LogLevel, cfg.LogFormat)

	// Step 0.5: Set production mode
	if cfg.GinMode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Step 1: Open the cache store and build providers
	application, err := app.New(context.Background(), cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize: %v", err)
	}
	defer application.Close()

	// Step 2: Initialize the Gin router
	router := application.Handler().Router()

	// Step 3: Setup HTTP server with timeouts
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       time.Minute,
		WriteTimeout:      3 * time.Minute, // OCR, cleanup and lookup can chain three provider calls
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logrus.Infof("Starting server on :%s", cfg.Port)
		logrus.Info("API Endpoints:")
		logrus.Info("  GET    /api/v1/medicines/:name")
		logrus.Info("  GET    /api/v1/suggestions?q=")
		logrus.Info("  POST   /api/v1/scan")
		logrus.Info("  POST   /api/v1/translate")
		logrus.Info("  GET    /api/v1/languages")
		logrus.Info("  GET    /api/v1/cache/count")
		logrus.Info("  DELETE /api/v1/cache")

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}
