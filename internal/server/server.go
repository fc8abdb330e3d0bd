package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/meridianlogistics/insight-service/internal/cache"
	"github.com/meridianlogistics/insight-service/internal/config"
	"github.com/meridianlogistics/insight-service/internal/handlers"
	"github.com/meridianlogistics/insight-service/internal/metrics"
	"github.com/meridianlogistics/insight-service/internal/report"
	"github.com/meridianlogistics/insight-service/internal/repository"
	"github.com/meridianlogistics/insight-service/internal/scheduler"
	"github.com/meridianlogistics/insight-service/internal/stats"
)

// Server owns the HTTP surface and the service wiring behind it
type Server struct {
	config    *config.Config
	logger    *zap.Logger
	router    *gin.Engine
	http      *http.Server
	scheduler *scheduler.Scheduler
	redis     *redis.Client
}

// New creates a fully wired server
func New(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConnections)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConnections)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.Database,
		DialTimeout:  time.Duration(cfg.Redis.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.Redis.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Redis.WriteTimeout) * time.Second,
		PoolSize:     cfg.Redis.PoolSize,
	})

	repo := repository.New(db)
	if err := repo.Migrate(); err != nil {
		return nil, err
	}

	collector := stats.NewCollector(cfg.Reporting.SlowLogSize)
	reportCache := cache.New(redisClient, collector, time.Duration(cfg.Reporting.CacheTTLSeconds)*time.Second)
	reports := report.NewService(repo, reportCache, collector, logger, cfg.Reporting.ExpiryLookaheadDays)
	metricsCollector := metrics.NewCollector(collector)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestMetrics(metricsCollector))

	handler := handlers.New(reports, repo, metricsCollector, collector, logger)
	handler.Register(router)

	if cfg.Metrics.Enabled {
		router.GET(cfg.Metrics.Endpoint, gin.WrapH(promhttp.Handler()))
	}

	srv := &Server{
		config:    cfg,
		logger:    logger,
		router:    router,
		scheduler: scheduler.New(reports, logger),
		redis:     redisClient,
		http: &http.Server{
			Addr:         ":" + strconv.Itoa(cfg.Server.Port),
			Handler:      router,
			ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
			WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
			IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
		},
	}
	return srv, nil
}

// Start starts the scheduler and blocks serving HTTP
func (s *Server) Start() error {
	if err := s.scheduler.Start(s.config.Reporting.SnapshotSchedule); err != nil {
		return err
	}

	s.logger.Info("HTTP server listening", zap.Int("port", s.config.Server.Port))
	if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server failed: %w", err)
	}
	return nil
}

// Shutdown stops the scheduler and drains in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	s.scheduler.Stop()

	if err := s.http.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	if err := s.redis.Close(); err != nil {
		s.logger.Warn("Failed to close redis client", zap.Error(err))
	}
	return nil
}

// requestMetrics records request counts and latency per route
func requestMetrics(collector *metrics.Collector) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		collector.RecordHTTPRequest(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
			time.Since(started),
		)
	}
}
