package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/virajo/backoffice/handlers"
	"github.com/virajo/backoffice/internal/config"
	"github.com/virajo/backoffice/internal/database"
	"github.com/virajo/backoffice/internal/intake"
	"github.com/virajo/backoffice/internal/notify"
	"github.com/virajo/backoffice/internal/storage"
	"github.com/virajo/backoffice/internal/store"
	"github.com/virajo/backoffice/internal/submission"
	"github.com/virajo/backoffice/pkg/logger"
	"github.com/virajo/backoffice/pkg/metrics"
	"github.com/virajo/backoffice/pkg/middleware"
)

const shutdownTimeout = 15 * time.Second

// serve wires every dependency from cfg and runs the HTTP server until ctx
// is cancelled.
func serve(ctx context.Context, cfg *config.Config) error {
	started := time.Now()
	checks := map[string]handlers.Check{}

	var cols *store.Collections
	if cfg.MongoDB.URI != "" {
		m, err := connectMongo(ctx, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() {
			if err := m.Close(context.Background()); err != nil {
				logger.Warnf("mongo disconnect: %v", err)
			}
		}()
		cols = store.NewMongoCollections(ctx, m.DB)
		checks["mongo"] = m.Ping
		logger.Infof("using MongoDB database %q", cfg.MongoDB.Database)
	} else {
		logger.Warnf("MONGODB_URI not set: records are kept in memory and lost on restart")
		cols = store.NewMemoryCollections()
	}

	var rdb *redis.Client
	if addr := cfg.Redis.Addr(); addr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warnf("redis ping %s failed: %v", addr, err)
		} else {
			logger.Infof("connected to Redis at %s", addr)
		}
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}

	backend, err := newStorage(ctx, cfg)
	if err != nil {
		return err
	}
	files := intake.New(backend, cfg.Upload.MaxBytes)
	workflow := submission.New(cols, files, notify.NewMailer(cfg.Email))

	production := cfg.Server.IsProduction()
	if production {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.RequestLogger(),
		middleware.Recovery(production),
		middleware.CORS(cfg.Server.CORSOrigins),
		middleware.ErrorHandler(production),
	)

	handlers.NewAPI(cols, workflow, files).Register(r, submitLimiter(cfg.RateLimit, rdb))
	handlers.RegisterHealth(r, checks, started)
	handlers.RegisterSwagger(r)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.RegisterCollectors(reg)
	handlers.RegisterMetrics(r, reg)

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:           r,
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.WriteTimeout,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("%s %s listening on %s (env=%s, uploads=%s)", appName, Version, srv.Addr, cfg.Server.Environment, cfg.Upload.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}
	logger.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// connectMongo retries with backoff to tolerate startup races with the
// database container.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) (*database.Mongo, error) {
	const maxAttempts = 5
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		m, err := database.Open(ctx, cfg)
		if err == nil {
			return m, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, maxAttempts, err)
		if attempt == maxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", maxAttempts, lastErr)
}

func newStorage(ctx context.Context, cfg *config.Config) (storage.Storage, error) {
	switch cfg.Upload.Backend {
	case "minio":
		s, err := storage.NewMinIOStorage(ctx, cfg.MinIO)
		if err != nil {
			return nil, fmt.Errorf("upload storage: %w", err)
		}
		logger.Infof("storing résumés in MinIO bucket %q", cfg.MinIO.Bucket)
		return s, nil
	case "", "disk":
		d := storage.NewDiskStorage(cfg.Upload.Dir)
		logger.Infof("storing résumés in %s", d.Dir())
		return d, nil
	}
	return nil, fmt.Errorf("unknown UPLOAD_BACKEND %q", cfg.Upload.Backend)
}

// submitLimiter picks the Redis limiter when requested and available,
// otherwise the in-memory one. Nil disables limiting.
func submitLimiter(cfg config.RateLimitConfig, rdb *redis.Client) gin.HandlerFunc {
	if !cfg.Enabled {
		return nil
	}
	if cfg.UseRedis && rdb != nil {
		return middleware.RedisRateLimitMiddleware(rdb, cfg.RPS, cfg.Burst, time.Duration(cfg.WindowSeconds)*time.Second)
	}
	return middleware.RateLimitMiddleware(cfg.RPS, cfg.Burst)
}
