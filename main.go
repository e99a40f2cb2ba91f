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

	"github.com/gin-gonic/gin"

	"github.com/seo-agent/backend/agent"
	"github.com/seo-agent/backend/config"
	"github.com/seo-agent/backend/middleware"
	"github.com/seo-agent/backend/ollama"
	"github.com/seo-agent/backend/scraper"
	"github.com/seo-agent/backend/stats"
)

func setupGinMode() {
	mode := os.Getenv("GIN_MODE")
	if mode == "" {
		mode = gin.ReleaseMode
	}
	gin.SetMode(mode)
}

func main() {
	cfg := config.Load()
	setupGinMode()

	statsStorage, err := stats.NewStorage(cfg.DataDir)
	if err != nil {
		log.Fatal("Failed to initialize stats storage:", err)
	}

	ollamaClient := ollama.NewClient(cfg.OllamaBaseURL)
	seoAgent := agent.New(ollamaClient, cfg.DefaultModel, ollama.GenerateOptions{
		Temperature: cfg.Temperature,
		NumPredict:  cfg.NumPredict,
	})
	pageScraper := scraper.New(scraper.Options{
		UserAgent:        cfg.UserAgent,
		Timeout:          cfg.RequestTimeout,
		MaxContentLength: cfg.MaxContentLength,
	})

	server := NewServer(pageScraper, seoAgent, ollamaClient, statsStorage)
	rateLimiter := middleware.NewRateLimiter(2, 5) // 2 requests per second, burst of 5

	r := gin.Default()
	r.Use(middleware.Recovery())
	r.Use(rateLimiter.RateLimit())

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	server.Register(r.Group("/api"))

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%s\n", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	if err := statsStorage.Shutdown(); err != nil {
		log.Printf("Stats shutdown error: %v", err)
	}
}
