package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xtamtamx/pickaxe-rcon/config"
	"github.com/xtamtamx/pickaxe-rcon/internal/console"
	"github.com/xtamtamx/pickaxe-rcon/internal/scheduler"
)

// Server represents the HTTP server
type Server struct {
	cfg        *config.Config
	router     *gin.Engine
	handlers   *Handlers
	auth       *AuthService
	limiter    *RateLimiter
	httpServer *http.Server
}

// New creates a new server instance
func New(cfg *config.Config, bridge *console.Holder, sched *scheduler.Scheduler) *Server {
	if cfg.LogLevel == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{
		cfg:      cfg,
		router:   gin.New(),
		handlers: NewHandlers(cfg, bridge, sched),
		auth:     NewAuthService(cfg.APIKey, cfg.JWTSecret),
		limiter:  NewRateLimiter(cfg.RateLimitRPS),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(RecoveryMiddleware())
	s.router.Use(LoggerMiddleware())
	s.router.Use(CORSMiddleware(s.cfg.AllowedOrigins))
	s.router.Use(RateLimitMiddleware(s.limiter))
}

func (s *Server) setupRoutes() {
	// Health check (no auth)
	s.router.GET("/health", s.handlers.HealthCheck)

	api := s.router.Group("/api")
	api.Use(AuthMiddleware(s.auth))
	{
		// Console
		api.POST("/command", s.handlers.ExecuteCommand)
		api.GET("/status", s.handlers.GetStatus)
		api.GET("/players", s.handlers.GetPlayers)
		api.GET("/version", s.handlers.GetVersion)
		api.GET("/logs", s.handlers.GetLogs)
		api.GET("/stats", s.handlers.GetStats)
		api.GET("/system", s.handlers.GetSystem)

		// Server files
		api.GET("/server-properties", s.handlers.GetProperties)
		api.POST("/server-properties", s.handlers.UpdateProperties)
		api.GET("/allowlist", s.handlers.GetAllowlist)
		api.GET("/permissions", s.handlers.GetPermissions)

		// Backups
		api.GET("/backups", s.handlers.ListBackups)
		api.POST("/backups", s.handlers.CreateBackup)
		api.POST("/backups/:filename/restore", s.handlers.RestoreBackup)
		api.DELETE("/backups/:filename", s.handlers.DeleteBackup)

		// World and lifecycle
		api.POST("/world/new", s.handlers.CreateWorld)
		api.POST("/server/start", s.handlers.StartServer)
		api.POST("/server/stop", s.handlers.StopServer)
		api.POST("/server/restart", s.handlers.RestartServer)
		api.POST("/server/update", s.handlers.UpdateServer)

		// Scheduler
		api.GET("/scheduler/tasks", s.handlers.ListTasks)
		api.POST("/scheduler/tasks", s.handlers.AddTask)
		api.DELETE("/scheduler/tasks/:id", s.handlers.RemoveTask)
		api.POST("/scheduler/tasks/:id/toggle", s.handlers.ToggleTask)

		// Settings
		api.GET("/settings", s.handlers.GetSettings)
		api.PUT("/settings/connection", s.handlers.UpdateConnection)
	}
}

// Run starts the HTTP server and blocks until shutdown
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}
	}()

	log.Printf("Starting pickaxe-rcon on %s", s.cfg.Addr())

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Router returns the Gin router (for testing)
func (s *Server) Router() *gin.Engine {
	return s.router
}
