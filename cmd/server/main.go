package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"roomnlu/internal/config"
	"roomnlu/internal/handler"
	"roomnlu/internal/repository"
	"roomnlu/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	log.Printf("Room Booking NLU Service")
	log.Printf("Version: %s", Version)
	log.Printf("Build Time: %s", BuildTime)
	log.Printf("Git Commit: %s", GitCommit)
	log.Println("")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	gin.SetMode(cfg.Server.GinMode)

	// Optional parse-log database
	var repo *repository.PostgresRepository
	if cfg.PostgreSQL.Enabled {
		repo, err = repository.NewPostgresRepository(
			cfg.GetPostgreSQLDSN(),
			cfg.PostgreSQL.MaxConnections,
			cfg.PostgreSQL.MaxIdleConnections,
		)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer repo.Close()
		log.Println("✅ Connected to PostgreSQL parse-log database")
	} else {
		log.Println("⚠️  Parse logging disabled (no DATABASE_URL / PG_DSN)")
	}

	// Optional compiled-result cache
	var cache *repository.ParseCache
	if cfg.Redis.Enabled {
		cache = repository.NewParseCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Redis.TTLSeconds)*time.Second,
		)
		if err := cache.Ping(context.Background()); err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer cache.Close()
		log.Printf("✅ Connected to Redis cache at %s", cfg.Redis.Addr)
	} else {
		log.Println("⚠️  Parse cache disabled (no REDIS_ADDR)")
	}

	// Model extractor backend
	var extractor service.ModelExtractor
	switch cfg.Parser.Extractor {
	case "openai":
		extractor = service.NewOpenAIExtractor(&cfg.OpenAI)
		if cfg.OpenAI.Enabled {
			log.Printf("✅ OpenAI extractor initialized")
			log.Printf("   - API Base: %s", cfg.OpenAI.APIBase)
			log.Printf("   - Chat model: %s", cfg.OpenAI.ChatModel)
		} else {
			log.Println("⚠️  OpenAI extractor selected but OPENAI_API_KEY is not set")
		}
	default:
		extractor = service.NewOllamaClient(&cfg.Ollama)
		log.Printf("✅ Ollama extractor initialized")
		log.Printf("   - Host: %s", cfg.Ollama.Host)
		log.Printf("   - Model: %s", cfg.Ollama.Model)
	}

	parseService := service.NewParseService(extractor, cache, repo, cfg.Parser)
	log.Printf("✅ Services initialized (bypass enabled: %t)", cfg.Parser.BypassEnabled)

	parseHandler := handler.NewParseHandler(parseService)
	feedbackHandler := handler.NewFeedbackHandler(parseService)

	router := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{cfg.Server.AllowedOrigins}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Content-Type", "Authorization"}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"service": "room-nlu",
			"version": Version,
		})
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/parse", parseHandler.Parse)
		apiV1.GET("/parse/:id", parseHandler.GetParse)
		apiV1.POST("/feedback", feedbackHandler.Submit)
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("🚀 Starting server on %s", addr)

	go func() {
		if err := router.Run(addr); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	log.Println("✅ Server stopped")
}
