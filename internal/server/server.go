package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"messenger-fixtures/config"
	"messenger-fixtures/internal/handler"
	"messenger-fixtures/internal/middleware"
	"messenger-fixtures/internal/redis"
	"messenger-fixtures/internal/transport/httpdto"
	"messenger-fixtures/internal/websocket"
	"messenger-fixtures/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	httpServer *http.Server
	engine     *gin.Engine
	config     *config.Config
	logger     *logger.Logger
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Fixture      *handler.FixtureHandler
	Notification *handler.NotificationHandler
	Account      *handler.AccountHandler
	WebSocket    *websocket.Handler
}

// HealthCheck reports the state of a backing service; nil errors mean healthy.
type HealthCheck func(ctx context.Context) error

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:    fmt.Sprintf(":%s", cfg.AppPort),
			Handler: engine,
		},
		engine: engine,
		config: cfg,
		logger: l,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) SetupRoutes(handlers *Handlers, limiter *redis.RateLimiter, checks map[string]HealthCheck) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.CORSMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		status := gin.H{}
		healthy := true
		for name, check := range checks {
			if err := check(c.Request.Context()); err != nil {
				status[name] = err.Error()
				healthy = false
				continue
			}
			status[name] = "ok"
		}
		if !healthy {
			c.JSON(http.StatusServiceUnavailable, httpdto.Response[gin.H]{Success: false, Data: status, Code: "UNHEALTHY"})
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(status))
	})

	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	fixtures := s.engine.Group("/v1/fixtures")
	{
		fixtures.POST("", middleware.GenerateRateLimitMiddleware(limiter), handlers.Fixture.Generate)
		fixtures.GET("/:name", handlers.Fixture.Get)
		fixtures.DELETE("/:name", handlers.Fixture.Delete)
		fixtures.POST("/:name/persist", handlers.Fixture.Persist)
		fixtures.POST("/:name/snapshot", handlers.Fixture.Snapshot)
	}

	notifications := s.engine.Group("/v1/notifications")
	{
		notifications.POST("/push", handlers.Notification.Push)
		notifications.GET("/ws", handlers.WebSocket.Connect)
	}

	accounts := s.engine.Group("/v1/accounts")
	{
		accounts.POST("", handlers.Account.Create)
		accounts.GET("/display-name", handlers.Account.DisplayName)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	if s.logger != nil {
		s.logger.Infof("Server is running on :%s", s.config.AppPort)
	}

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
