package main

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/qwazi12/Bassic-Finance/config"
	"github.com/qwazi12/Bassic-Finance/handlers"
	"github.com/qwazi12/Bassic-Finance/services"
	"github.com/qwazi12/Bassic-Finance/storage"
	"github.com/qwazi12/Bassic-Finance/utils"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	logrus.Infof("Configuration loaded: %s", cfg)

	// Process-level dependencies, constructed once and passed into
	// each job's execution context.
	store, err := storage.NewGCSStore(context.Background())
	if err != nil {
		logrus.Fatalf("Failed to create storage client: %v", err)
	}
	defer store.Close()

	ffmpeg := utils.NewFFmpeg(cfg.FFmpegPath, cfg.FFprobePath)
	assembler := services.NewAssembler(cfg, store, ffmpeg)
	notifier := services.NewNotifyService(cfg.NotifyServiceURL)

	// Create Gin router
	router := gin.Default()

	// Setup CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}))

	handler := handlers.NewAssembleHandler(assembler, notifier)
	router.GET("/health", handler.Health)
	router.POST("/assemble", handler.Assemble)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	logrus.Infof("Starting video-assembler on %s", addr)
	if err := router.Run(addr); err != nil {
		logrus.Fatalf("Failed to start server: %v", err)
	}
}
