package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"photo-print-orders/internal/config"
	"photo-print-orders/internal/handlers"
)

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := config.Load()

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		logger.Fatal("failed to create uploads directory",
			zap.String("dir", cfg.UploadsDir), zap.Error(err))
	}

	uploadHandler := handlers.NewUploadHandler(cfg.UploadsDir, logger)

	router := gin.Default()
	router.GET("/health", handlers.HealthHandler)
	router.POST("/upload", uploadHandler.Upload)

	logger.Info("server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		logger.Fatal("failed to start server", zap.Error(err))
	}
}
