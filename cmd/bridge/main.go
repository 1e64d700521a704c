package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"remediation-bridge/internal/api"
	"remediation-bridge/internal/api/handlers"
	"remediation-bridge/internal/audit"
	"remediation-bridge/internal/config"
	"remediation-bridge/internal/k8s"
	"remediation-bridge/internal/redisclient"
	"remediation-bridge/internal/remediation"
)

// clusterHandle is what both the dispatcher and the readiness probe need
type clusterHandle interface {
	remediation.Cluster
	handlers.Pinger
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Setup logger
	logger, err := setupLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to setup logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting Remediation Bridge",
		zap.String("version", cfg.AppVersion),
		zap.String("default_namespace", cfg.DefaultNamespace),
	)

	// Acquire the cluster handle. A broken context must not stop the process:
	// every action then fails with a configuration error instead.
	var cluster clusterHandle
	k8sClient, err := k8s.NewClient(cfg.K8sInCluster, cfg.K8sKubeConfigPath, cfg.K8sRequestTimeout)
	if err != nil {
		logger.Error("Could not load Kubernetes config, actions will fail until restart", zap.Error(err))
		cluster = k8s.NewUnavailable(err)
	} else {
		logger.Info("Kubernetes client created successfully",
			zap.Bool("in_cluster", cfg.K8sInCluster),
			zap.Duration("request_timeout", cfg.K8sRequestTimeout),
		)
		cluster = k8sClient
	}

	// Optional audit trail
	var recorder audit.Recorder = audit.Nop{}
	var redisPinger handlers.Pinger
	if cfg.AuditEnabled() {
		redisClient, err := redisclient.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Fatal("Failed to create Redis client", zap.Error(err))
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Error("Error closing Redis connection", zap.Error(err))
			}
		}()

		if err := redisClient.Ping(context.Background()); err != nil {
			logger.Warn("Redis not reachable yet, audit writes will fail until it is", zap.Error(err))
		}

		recorder = audit.NewStreamRecorder(redisClient.GetRedis(), cfg.AuditStream, cfg.AuditMaxLen)
		redisPinger = redisClient
		logger.Info("Audit trail enabled", zap.String("stream", cfg.AuditStream))
	}

	dispatcher := remediation.NewDispatcher(cluster, logger)
	router := api.NewRouter(dispatcher, recorder, cluster, redisPinger, cfg, logger)

	httpServer := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	// Metrics get their own minimal mux when the port differs
	var metricsServer *http.Server
	if cfg.MetricsPort != cfg.HTTPPort {
		metricsMux := http.NewServeMux()
		metricsMux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:    ":" + cfg.MetricsPort,
			Handler: metricsMux,
		}
	}

	// Setup graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	if metricsServer != nil {
		go func() {
			logger.Info("Starting metrics server", zap.String("port", cfg.MetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// Wait for shutdown signal
	sig := <-quit
	logger.Info("Shutdown signal received, initiating graceful shutdown...", zap.String("signal", sig.String()))

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		logger.Info("HTTP server shut down gracefully")
	}

	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown error", zap.Error(err))
		}
	}

	logger.Info("Remediation Bridge shutdown complete")
}

func setupLogger(cfg *config.Config) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		level = zapcore.InfoLevel
	}

	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(level)

	if cfg.LogFormat == "console" {
		config.Encoding = "console"
		config.EncoderConfig = zap.NewDevelopmentEncoderConfig()
	}

	return config.Build(zap.Fields(zap.String("service", cfg.AppName)))
}
