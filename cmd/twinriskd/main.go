package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/twinrisk/twinrisk/internal/application/usecase"
	"github.com/twinrisk/twinrisk/internal/bootstrap"
	"github.com/twinrisk/twinrisk/internal/domain/model"
	"github.com/twinrisk/twinrisk/internal/domain/port"
	"github.com/twinrisk/twinrisk/internal/infrastructure/config"
	"github.com/twinrisk/twinrisk/internal/infrastructure/messaging"
	"github.com/twinrisk/twinrisk/internal/infrastructure/metrics"
	grpcpresentation "github.com/twinrisk/twinrisk/internal/presentation/grpc"
	"github.com/twinrisk/twinrisk/internal/presentation/rest"
	"github.com/twinrisk/twinrisk/pkg/auth"
	"github.com/twinrisk/twinrisk/pkg/kafka"
	"github.com/twinrisk/twinrisk/pkg/observability"
	pgutil "github.com/twinrisk/twinrisk/pkg/postgres"
)

const serviceName = "twinrisk"

func main() {
	if err := run(); err != nil {
		slog.Error("twinriskd exited with error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}
	policy, err := config.LoadPolicy(cfg.PolicyFile)
	if err != nil {
		return err
	}

	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})
	logger.Info("starting twinrisk",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
		"domain_policy", policy.DomainPolicy.String(),
	)

	// Tracing is only exported when an OTLP endpoint is configured.
	shutdownTracer, err := observability.InitTracer(ctx, observability.TracingConfig{
		ServiceName: serviceName,
		Endpoint:    cfg.OTLPEndpoint,
		Insecure:    true,
	})
	if err != nil {
		logger.Warn("failed to initialize tracer, continuing without tracing", "error", err)
	} else {
		defer shutdownTracer(context.Background()) //nolint:errcheck
	}

	meterProvider, metricsHandler, err := observability.InitMetrics(observability.MetricsConfig{ServiceName: serviceName})
	if err != nil {
		return err
	}
	defer meterProvider.Shutdown(context.Background()) //nolint:errcheck

	// Optional artifact store.
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		dbCtx, dbCancel := context.WithTimeout(ctx, 10*time.Second)
		pool, err = pgutil.NewPool(dbCtx, pgutil.Config{URL: cfg.DatabaseURL})
		dbCancel()
		if err != nil {
			logger.Warn("artifact store unavailable, loading model from files only", "error", err)
			pool = nil
		} else {
			defer pool.Close()
			logger.Info("connected to artifact store")
		}
	}

	// Load the model once; every request shares this context.
	schema := model.DefaultSchema()
	mc := bootstrap.LoadModelContext(ctx, schema, logger, bootstrap.ArtifactSources(pool, cfg.ModelPaths)...)
	validator, interpreter, err := bootstrap.Services(schema, policy)
	if err != nil {
		return err
	}

	// Wire infrastructure adapters.
	var publisher port.EventPublisher = messaging.NewLogPublisher(logger)
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(kafka.Config{Brokers: cfg.KafkaBrokers, ClientID: serviceName})
		if err != nil {
			return err
		}
		defer producer.Close()
		publisher = messaging.NewKafkaPublisher(producer, cfg.KafkaTopic, logger)
	}
	observer, err := metrics.NewPredictionMetrics(meterProvider)
	if err != nil {
		return err
	}

	// Wire use cases.
	predictRiskUC := usecase.NewPredictRisk(mc, validator, interpreter, publisher, observer, logger)
	getModelInfoUC := usecase.NewGetModelInfo(mc, validator, interpreter)

	// gRPC server.
	jwtService, err := newJWTService(cfg)
	if err != nil {
		return err
	}
	grpcHandler := grpcpresentation.NewRiskServiceHandler(predictRiskUC, getModelInfoUC, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.TLSCertFile,
		TLSKeyFile:  cfg.TLSKeyFile,
		Reflection:  cfg.Environment == "development",
	}, logger, jwtService)
	if err != nil {
		return err
	}

	// HTTP server (health checks and metrics).
	healthHandler := rest.NewHealthHandler(mc.Info, metricsHandler, logger)
	if pool != nil {
		healthHandler.AddCheck("database", func(ctx context.Context) error { return pgutil.HealthCheck(ctx, pool) })
	}
	httpMux := http.NewServeMux()
	healthHandler.RegisterRoutes(httpMux)

	httpServer := &http.Server{
		Addr:         cfg.HTTPAddress(),
		Handler:      httpMux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := grpcServer.Start(); err != nil {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down twinrisk")

		grpcServer.Stop()
		predictRiskUC.Wait()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer shutdownCancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "error", err)
		}
		return nil
	})

	logger.Info("twinrisk started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
		"model_version", mc.Info.ModelVersion,
		"model_origin", string(mc.Info.Origin),
	)

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("twinrisk stopped")
	return nil
}

// newJWTService returns nil when no key material is configured.
func newJWTService(cfg *config.Config) (*auth.JWTService, error) {
	jwtCfg := auth.JWTConfig{
		Secret:     cfg.JWTSecret,
		Issuer:     cfg.JWTIssuer,
		Expiration: time.Hour,
		Leeway:     30 * time.Second,
	}
	if cfg.JWTPublicKey != "" {
		pem, err := auth.LoadKeyFromFile(cfg.JWTPublicKey)
		if err != nil {
			return nil, err
		}
		jwtCfg.PublicKeyPEM = string(pem)
	}
	if !jwtCfg.Enabled() {
		return nil, nil
	}
	return auth.NewJWTService(jwtCfg)
}
