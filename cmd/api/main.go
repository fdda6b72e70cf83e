// main.go
package main

import (
	"log"
	"os"

	"github.com/drewmudry/chatshorts-api/auth"
	"github.com/drewmudry/chatshorts-api/internal/platform"
	"github.com/drewmudry/chatshorts-api/layout"
	"github.com/drewmudry/chatshorts-api/models"
	"github.com/drewmudry/chatshorts-api/renders"
	"github.com/drewmudry/chatshorts-api/webhooks"
	"github.com/drewmudry/chatshorts-api/worker"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

type Server struct {
	DB       *gorm.DB
	Redis    *redis.Client
	Settings *layout.Settings
	Router   *gin.Engine
}

func NewServer() (*Server, error) {
	// Use the shared connection initializers
	db := platform.NewDBConnection()
	rdb := platform.NewRedisClient()

	settings, err := platform.LoadLayoutSettings()
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&models.Render{}); err != nil {
		return nil, err
	}

	router := gin.Default()

	// Add CORS middleware for your frontend
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", os.Getenv("FRONTEND_URL"))
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	server := &Server{
		DB:       db,
		Redis:    rdb,
		Settings: settings,
		Router:   router,
	}

	server.setupRoutes()

	return server, nil
}

func (s *Server) setupRoutes() {
	// Health check (no auth required)
	s.Router.GET("/health", func(c *gin.Context) {
		sqlDB, err := s.DB.DB()
		if err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := sqlDB.Ping(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		if err := s.Redis.Ping(c.Request.Context()).Err(); err != nil {
			c.JSON(500, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}

		c.JSON(200, gin.H{
			"status":   "healthy",
			"database": "connected",
			"redis":    "connected",
		})
	})

	// The API only enqueues; the worker process owns the handlers.
	queue := worker.NewProcessor(s.DB, s.Redis, s.Settings)
	renderHandler := renders.NewHandler(s.DB, queue, s.Settings)
	webhookHandler := webhooks.NewHandler(s.DB, os.Getenv("WEBHOOK_SECRET"))

	s.Router.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "Chatshorts API v1"})
	})

	// Webhook routes (public - token verified in handler)
	webhookRoutes := s.Router.Group("/webhooks")
	{
		webhookRoutes.POST("/creatomate", webhookHandler.HandleCreatomateWebhook)
	}

	// Protected routes that require authentication
	protected := s.Router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/presets", renderHandler.GetPresets)

		fakeTextRoutes := protected.Group("/fake-text")
		{
			fakeTextRoutes.POST("", renderHandler.CreateFakeText)
			fakeTextRoutes.POST("/generate", renderHandler.GenerateFakeText)
		}

		protected.POST("/reddit-video", renderHandler.CreateRedditVideo)

		renderRoutes := protected.Group("/renders")
		{
			renderRoutes.GET("", renderHandler.GetUserRenders)
			renderRoutes.GET("/:id", renderHandler.GetRender)
		}
	}
}

func (s *Server) Run() error {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	return s.Router.Run(":" + port)
}

func main() {
	server, err := NewServer()
	if err != nil {
		log.Fatal("Failed to create server:", err)
	}

	if err := server.Run(); err != nil {
		log.Fatal("Failed to run server:", err)
	}
}
