package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/vaultpay/fraud-inference/internal/application/usecase"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/config"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/messaging"
	"github.com/vaultpay/fraud-inference/internal/infrastructure/ml"
	infrapostgres "github.com/vaultpay/fraud-inference/internal/infrastructure/postgres"
	grpcpresentation "github.com/vaultpay/fraud-inference/internal/presentation/grpc"
	"github.com/vaultpay/fraud-inference/internal/presentation/rest"
	"github.com/vaultpay/fraud-inference/pkg/kafka"
	"github.com/vaultpay/fraud-inference/pkg/observability"
	"github.com/vaultpay/fraud-inference/pkg/postgres"
)

const eventsTopic = "fraud.prediction.events"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  "json",
		Service: "fraud-inference",
	})

	logger.Info("starting fraud-inference",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize tracing.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: "fraud-inference",
		Endpoint:    getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(ctx)
	}

	// Initialize metrics.
	_, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName: "fraud-inference",
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Database connection.
	dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
	defer dbCancel()

	pool, err := postgres.NewPoolFromDSN(dbCtx, cfg.DatabaseURL, 10, 2)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("connected to database")

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := postgres.RunMigrations(cfg.DatabaseURL, "file://migrations"); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		logger.Info("migrations applied")
	}

	// Load the model artifacts. A load failure is not fatal: the service
	// starts degraded and refuses predictions until the artifacts are fixed.
	localModel := ml.NewLocalModel(logger)
	if err := localModel.LoadArtifacts(cfg.PreprocessorPath, cfg.ModelPath); err != nil {
		logger.Error("failed to load model artifacts, serving degraded",
			"error", err,
			"preprocessor_path", cfg.PreprocessorPath,
			"model_path", cfg.ModelPath,
		)
	}

	// Wire infrastructure adapters.
	predictionRepo := infrapostgres.NewPredictionRepository(pool)
	producer := kafka.NewProducer(kafka.Config{Brokers: []string{cfg.KafkaBroker}})
	defer producer.Close()
	eventPublisher := messaging.NewKafkaPublisher(producer, eventsTopic, logger)

	// Wire use cases.
	predictUC := usecase.NewPredictTransaction(predictionRepo, eventPublisher, localModel, cfg.DecisionThreshold, logger)
	getPredictionUC := usecase.NewGetPrediction(predictionRepo)
	listPredictionsUC := usecase.NewListPredictions(predictionRepo)

	// gRPC server.
	grpcHandler := grpcpresentation.NewPredictionServiceHandler(predictUC, getPredictionUC, logger)
	grpcServer := grpcpresentation.NewServer(grpcHandler, cfg.GRPCAddress(), logger)

	// HTTP server.
	metrics := rest.NewMetrics(prometheus.DefaultRegisterer)
	predictionHandler := rest.NewPredictionHandler(predictUC, getPredictionUC, listPredictionsUC, localModel, metrics, logger)
	dashboardHandler, err := rest.NewDashboardHandler(localModel, logger)
	if err != nil {
		logger.Error("failed to parse dashboard templates", "error", err)
		os.Exit(1)
	}
	healthHandler := rest.NewHealthHandler(localModel, pool, logger)

	httpMux := http.NewServeMux()
	predictionHandler.RegisterRoutes(httpMux)
	dashboardHandler.RegisterRoutes(httpMux)
	healthHandler.RegisterRoutes(httpMux)
	httpMux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("fraud-inference started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"model_ready", localModel.Ready(),
		"model_version", localModel.Version(),
	)

	// Wait for shutdown signal.
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
	}

	// Graceful shutdown.
	logger.Info("shutting down fraud-inference")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("fraud-inference stopped")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
