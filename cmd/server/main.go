package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/joban727/medstintapp-sub005/config"
	"github.com/joban727/medstintapp-sub005/internal/api/handler"
	"github.com/joban727/medstintapp-sub005/internal/api/router"
	"github.com/joban727/medstintapp-sub005/internal/repository"
	"github.com/joban727/medstintapp-sub005/internal/service"
	"github.com/joban727/medstintapp-sub005/pkg/database"
	"github.com/joban727/medstintapp-sub005/pkg/jwt"
	applogger "github.com/joban727/medstintapp-sub005/pkg/logger"
	"github.com/joban727/medstintapp-sub005/pkg/ratelimit"
	"github.com/joban727/medstintapp-sub005/pkg/redis"
	"github.com/joban727/medstintapp-sub005/pkg/tracing"
)

func main() {
	configPath := flag.String("config", "", "path to a config file (default: ./config/config.yaml if present)")
	flag.Parse()

	// 1. configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	// 2. logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting competency service",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
		zap.String("rate_limit_backend", cfg.RateLimit.Backend),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. tracing
	shutdownTracing, err := tracing.Init(ctx, &cfg.Tracing, logger)
	if err != nil {
		logger.Fatal("init tracing", zap.Error(err))
	}

	// 4. database and migrations
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal("get sql.DB", zap.Error(err))
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		logger.Fatal("run migrations", zap.Error(err))
	}

	// 5. rate limiting
	var rdb *redis.Client
	limiters := router.Limiters{}
	switch cfg.RateLimit.Backend {
	case "redis":
		rdb, err = redis.NewClient(&cfg.Redis, logger)
		if err != nil {
			logger.Fatal("connect redis", zap.Error(err))
		}
		limiters.Submission = ratelimit.NewRedis(rdb, "competency-submissions", cfg.RateLimit.SubmissionLimit, cfg.RateLimit.SubmissionWindow)
		limiters.Evaluation = ratelimit.NewRedis(rdb, "competency-evaluations", cfg.RateLimit.EvaluationLimit, cfg.RateLimit.EvaluationWindow)
	default:
		submission := ratelimit.NewMemory(cfg.RateLimit.SubmissionLimit, cfg.RateLimit.SubmissionWindow)
		evaluation := ratelimit.NewMemory(cfg.RateLimit.EvaluationLimit, cfg.RateLimit.EvaluationWindow)
		go submission.RunSweeper(ctx, cfg.RateLimit.MemorySweepPeriod)
		go evaluation.RunSweeper(ctx, cfg.RateLimit.MemorySweepPeriod)
		limiters.Submission, limiters.Evaluation = submission, evaluation
	}

	// 6. wiring: repository → service → handler
	jwtMgr := jwt.NewManager(&cfg.Auth)
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, logger)
	h := handler.NewHandler(svc, logger.Named("http"))

	engine := router.Setup(cfg, h, jwtMgr, limiters, db, logger)

	// 7. HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.Dashboard.QueryTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Error("tracing shutdown", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Error("close database", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("close redis", zap.Error(err))
		}
	}

	logger.Info("server stopped")
}
