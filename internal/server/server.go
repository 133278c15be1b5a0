package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzhttp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/fsentity/internal/api/middleware"
	"github.com/GriffinCanCode/fsentity/internal/infrastructure/config"
	"github.com/GriffinCanCode/fsentity/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/fsentity/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/fsentity/internal/logging"
	"github.com/GriffinCanCode/fsentity/pkg/entity"
	"github.com/GriffinCanCode/fsentity/pkg/web"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router   *gin.Engine
	http     *http.Server
	root     *entity.Directory
	logger   *logging.Logger
	config   *config.Config
	metrics  *monitoring.Metrics
	registry *prometheus.Registry
	breaker  *resilience.Breaker
}

// NewServer creates a new server instance serving cfg.Server.Root.
func NewServer(cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}

	logger.Info("Initializing fsentity server",
		zap.String("addr", cfg.Addr()),
		zap.String("root", cfg.Server.Root),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := monitoring.NewMetrics(registry)

	root, err := entity.OpenDirectory(cfg.Server.Root,
		entity.WithLogger(logger.Logger),
		entity.WithObserver(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open served root: %w", err)
	}

	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	// Add middleware
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(logger.Logger))
	if cfg.Metrics.Enabled {
		router.Use(monitoring.Middleware(metrics))
	}
	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		rl := middleware.DefaultRateLimitConfig()
		rl.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		rl.Burst = cfg.RateLimit.Burst
		router.Use(middleware.RateLimit(rl))
	}

	s := &Server{
		router:   router,
		root:     root,
		logger:   logger,
		config:   cfg,
		metrics:  metrics,
		registry: registry,
	}
	if cfg.Breaker.Enabled {
		s.breaker = resilience.New("storage", resilience.Settings{
			Failures: uint32(cfg.Breaker.Failures),
			Cooldown: cfg.Breaker.Cooldown,
			OnStateChange: func(name string, from, to resilience.State) {
				logger.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
				metrics.RecordBreakerState(name, int(to))
			},
		})
	}
	s.routes()

	s.http = &http.Server{
		Addr:              cfg.Addr(),
		Handler:           gzhttp.GzipHandler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server initialized successfully")
	return s, nil
}

func (s *Server) routes() {
	files := []gin.HandlerFunc{web.Handler(s.root)}
	if s.breaker != nil {
		files = append([]gin.HandlerFunc{resilience.Guard(s.breaker)}, files...)
	}

	s.router.GET("/health", s.health)
	s.router.GET("/files/*path", files...)
	s.router.HEAD("/files/*path", files...)

	if s.config.Metrics.Enabled {
		s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))
		s.router.GET("/metrics/json", func(c *gin.Context) {
			c.JSON(http.StatusOK, s.metrics.Snapshot())
		})
	}
}

func (s *Server) health(c *gin.Context) {
	body := gin.H{
		"status": "ok",
		"root":   s.root.Path(),
	}
	if s.breaker != nil {
		body["storage"] = s.breaker.State().String()
	}
	c.JSON(http.StatusOK, body)
}

// Handler returns the full HTTP handler, middleware and compression included.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.http.Addr))

	errCh := make(chan error, 1)
	go func() {
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	return s.Close()
}

// Close gracefully shuts down the server
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.http.Shutdown(ctx); err != nil {
		s.logger.Error("Failed to shut down HTTP server", zap.Error(err))
		return fmt.Errorf("failed to shut down HTTP server: %w", err)
	}

	// Sync logger before exit
	s.logger.Sync()
	return nil
}
