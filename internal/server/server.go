// file: internal/server/server.go
// version: 1.2.0
// guid: a3c7e1f5-8b0d-42a6-9e34-5d1f7b2c8e60

package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sfalken/quickbar/internal/config"
	"github.com/sfalken/quickbar/internal/history"
	"github.com/sfalken/quickbar/internal/metrics"
	"github.com/sfalken/quickbar/internal/realtime"
	"github.com/sfalken/quickbar/internal/registry"
	"github.com/sfalken/quickbar/internal/server/middleware"
)

// Version is stamped at build time.
var Version = "dev"

// Server hosts the quickbar HTTP API.
type Server struct {
	httpServer *http.Server
	router     *gin.Engine
	registry   *registry.Registry
	history    *history.Store // nil when history is disabled
	hub        *realtime.EventHub
	startTime  time.Time
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// NewServer creates a new server instance. hist may be nil.
func NewServer(reg *registry.Registry, hist *history.Store, hub *realtime.EventHub) *Server {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	limiter := middleware.New(config.AppConfig.RateLimit)
	router.Use(limiter.Middleware())

	// Register metrics (idempotent)
	metrics.Register()
	metrics.SetEntities(reg.Count())

	server := &Server{
		router:    router,
		registry:  reg,
		history:   hist,
		hub:       hub,
		startTime: time.Now(),
	}

	server.setupRoutes()

	return server
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server and blocks until ctx is canceled, then
// shuts down gracefully.
func (s *Server) Start(ctx context.Context, cfg ServerConfig) error {
	s.httpServer = &http.Server{
		Addr:           fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:        s.router,
		ReadTimeout:    cfg.ReadTimeout,
		WriteTimeout:   cfg.WriteTimeout,
		IdleTimeout:    cfg.IdleTimeout,
		MaxHeaderBytes: 1 << 20, // 1MB
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Periodic system.status heartbeat over SSE while running.
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ticker.C:
			metrics.UpdateRuntime()
			s.hub.SendSystemStatus(map[string]any{
				"entities": s.registry.Count(),
				"clients":  s.hub.GetClientCount(),
				"uptime":   time.Since(s.startTime).Round(time.Second).String(),
			})
		case <-ctx.Done():
			log.Println("[INFO] Shutting down server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
				return fmt.Errorf("forced shutdown: %w", err)
			}
			log.Println("[INFO] Server exited")
			return nil
		}
	}
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint (standard path)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Health check endpoint
	s.router.GET("/api/health", s.healthCheck)

	// Real-time events (SSE)
	s.router.GET("/api/events", s.handleEvents)

	api := s.router.Group("/api/v1")
	{
		api.GET("/search", s.search)
		api.GET("/entities", s.listEntities)
		api.GET("/entities/:id", s.getEntity)
		api.GET("/domains", s.listDomains)
		api.GET("/history", s.listHistory)
		api.POST("/registry/reload", s.reloadRegistry)
		api.GET("/status", s.systemStatus)
	}
}

func (s *Server) handleEvents(c *gin.Context) {
	s.hub.HandleSSE(c)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS, GET")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
