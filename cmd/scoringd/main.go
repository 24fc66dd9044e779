package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lendingverse/credit-scoring/internal/application/usecase"
	"github.com/lendingverse/credit-scoring/internal/domain/port"
	"github.com/lendingverse/credit-scoring/internal/domain/service"
	"github.com/lendingverse/credit-scoring/internal/infrastructure/config"
	"github.com/lendingverse/credit-scoring/internal/infrastructure/messaging"
	"github.com/lendingverse/credit-scoring/internal/infrastructure/mlmodel"
	fileStore "github.com/lendingverse/credit-scoring/internal/infrastructure/persistence/file"
	pgRepo "github.com/lendingverse/credit-scoring/internal/infrastructure/persistence/postgres"
	grpcPresentation "github.com/lendingverse/credit-scoring/internal/presentation/grpc"
	"github.com/lendingverse/credit-scoring/internal/presentation/rest"
	"github.com/lendingverse/credit-scoring/pkg/auth"
	"github.com/lendingverse/credit-scoring/pkg/kafka"
	"github.com/lendingverse/credit-scoring/pkg/observability"
	"github.com/lendingverse/credit-scoring/pkg/postgres"
)

func main() {
	cfg := config.Load()

	logger := observability.InitLogger(observability.LogConfig{
		Service: cfg.ServiceName,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})
	logger.Info("starting credit scoring service",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// --- Model artifacts ----------------------------------------------------
	// A missing or corrupt artifact selects the heuristic path instead of
	// failing startup.
	var classifier port.CategoryClassifier
	if c, err := mlmodel.LoadCategoryClassifier(cfg.Models.ClassifierPath()); err != nil {
		logger.Warn("category classifier unavailable, using heuristic scoring",
			"path", cfg.Models.ClassifierPath(), "error", err)
	} else {
		classifier = c
		logger.Info("category classifier loaded", "path", cfg.Models.ClassifierPath())
	}

	var estimator port.DefaultEstimator
	if e, err := mlmodel.LoadDefaultEstimator(cfg.Models.EstimatorPath()); err != nil {
		logger.Warn("default estimator unavailable",
			"path", cfg.Models.EstimatorPath(), "error", err)
	} else {
		estimator = e
		logger.Info("default estimator loaded", "path", cfg.Models.EstimatorPath())
	}

	// --- Observability ------------------------------------------------------
	meterProvider, metricsHandler, err := observability.InitMetrics()
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		_ = meterProvider.Shutdown(shutCtx) //nolint:errcheck
	}()
	scoringMetrics := observability.NewScoringMetrics(prometheus.DefaultRegisterer)

	healthHandler := rest.NewHealthHandler(logger)

	// --- Assessment recorder ------------------------------------------------
	var recorder port.AssessmentRecorder
	var finder port.AssessmentFinder
	if cfg.DB.Enabled() {
		dbCfg := postgres.Config{
			Host:     cfg.DB.Host,
			Port:     cfg.DB.Port,
			User:     cfg.DB.User,
			Password: cfg.DB.Password,
			Database: cfg.DB.Name,
			SSLMode:  cfg.DB.SSLMode,
		}
		if err := postgres.RunMigrations(dbCfg.DSN(), "file://./migrations"); err != nil {
			logger.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		pool, err := postgres.NewPool(ctx, dbCfg)
		if err != nil {
			logger.Error("failed to connect to assessment archive", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("assessment archive connected", "host", cfg.DB.Host, "database", cfg.DB.Name)

		repo := pgRepo.NewAssessmentRepo(pool)
		recorder, finder = repo, repo
		healthHandler.AddReadinessCheck("postgres", func(ctx context.Context) error {
			return postgres.HealthCheck(ctx, pool)
		})
	} else {
		logger.Info("no database configured, recording assessments to disk", "dir", cfg.AssessmentDir)
		recorder = fileStore.NewAssessmentStore(cfg.AssessmentDir, logger)
	}

	// --- Event publisher ----------------------------------------------------
	var publisher port.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(kafka.Config{Brokers: cfg.Kafka.Brokers})
		defer producer.Close()
		publisher = messaging.NewKafkaEventPublisher(producer, cfg.Kafka.Topic, logger)
		logger.Info("kafka publisher enabled", "brokers", cfg.Kafka.Brokers, "topic", cfg.Kafka.Topic)
	} else {
		publisher = messaging.NewLogEventPublisher(logger)
	}

	// --- Domain services and use cases --------------------------------------
	calculator := service.NewRatioCalculator()
	combiner := service.NewFeatureCombiner(logger)
	engine := service.NewDecisionEngine(classifier, estimator, logger)

	scoreUC := usecase.NewScoreBorrowerUseCase(calculator, combiner, engine, recorder, publisher, logger)
	categoriesUC := usecase.NewListCategoriesUseCase()
	getAssessmentUC := usecase.NewGetAssessmentUseCase(finder)
	listAssessmentsUC := usecase.NewListAssessmentsUseCase(finder)

	// --- Auth ---------------------------------------------------------------
	var jwtService *auth.JWTService
	if cfg.JWTSecret != "" {
		jwtService, err = auth.NewJWTService(auth.JWTConfig{
			Secret: cfg.JWTSecret,
			Issuer: "lendingverse",
		})
		if err != nil {
			logger.Error("failed to initialize JWT service", "error", err)
			os.Exit(1)
		}
	}

	// --- gRPC server --------------------------------------------------------
	handler := grpcPresentation.NewScoringHandler(
		scoreUC, categoriesUC, getAssessmentUC, listAssessmentsUC, scoringMetrics, logger)
	grpcServer := grpcPresentation.NewServer(handler, logger, jwtService)

	go func() {
		if err := grpcServer.Serve(cfg.GRPCAddr()); err != nil {
			logger.Error("gRPC server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- HTTP server: probes and metrics -------------------------------------
	mux := http.NewServeMux()
	healthHandler.RegisterRoutes(mux)
	mux.Handle("GET /metrics", metricsHandler)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "addr", cfg.HTTPAddr())
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server error", "error", err)
			os.Exit(1)
		}
	}()

	// --- Graceful shutdown --------------------------------------------------
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	grpcServer.GracefulStop()
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := httpServer.Shutdown(shutCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}

	logger.Info("credit scoring service stopped")
}
