package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	healthcheck "github.com/vladislavdragonenkov/backoffice/internal/health"
	"github.com/vladislavdragonenkov/backoffice/internal/httpapi"
	"github.com/vladislavdragonenkov/backoffice/internal/metrics"
	"github.com/vladislavdragonenkov/backoffice/internal/seed"
	"github.com/vladislavdragonenkov/backoffice/internal/service/backoffice"
	"github.com/vladislavdragonenkov/backoffice/internal/service/fulfillment"
	"github.com/vladislavdragonenkov/backoffice/internal/version"
)

const healthSyncInterval = 10 * time.Second

// Run поднимает HTTP API, gRPC health, сервер метрик и воркер отгрузки и держит их до отмены ctx.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")

	deps, err := initRuntimeDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer deps.close(logger)

	publisher, producer := initPublisher(cfg, logger)
	defer closeKafka(producer, logger)

	svc, err := backoffice.New(ctx, deps.repos,
		backoffice.WithLogger(log.WithField("component", "backoffice-service")),
		backoffice.WithPublisher(publisher),
		backoffice.WithMetrics(metrics.NewEngineMetrics(prometheus.DefaultRegisterer)),
	)
	if err != nil {
		return fmt.Errorf("init backoffice service: %w", err)
	}

	if cfg.Seed {
		loader := seed.NewLoader(svc, deps.repos, seed.WithProbe(deps.probe))
		if _, err := loader.Seed(ctx); err != nil {
			return fmt.Errorf("seed test data: %w", err)
		}
	}

	registry := healthcheck.NewRegistry(version.GetVersion())
	registry.Register("storage", healthcheck.NewFuncChecker("storage", deps.ping), true)

	grpcServer, grpcHealth := newGRPCServer(logger)
	apiServer := &http.Server{
		Handler:           newAPIHandler(svc),
		ReadHeaderTimeout: 5 * time.Second,
	}
	metricsServer := &http.Server{
		Handler:           newMetricsMux(registry),
		ReadHeaderTimeout: 5 * time.Second,
	}

	apiLis, err := net.Listen("tcp", cfg.HTTPAddr)
	if err != nil {
		return fmt.Errorf("listen http %s: %w", cfg.HTTPAddr, err)
	}
	metricsLis, err := net.Listen("tcp", cfg.MetricsAddr)
	if err != nil {
		_ = apiLis.Close()
		return fmt.Errorf("listen metrics %s: %w", cfg.MetricsAddr, err)
	}
	grpcLis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		_ = apiLis.Close()
		_ = metricsLis.Close()
		return fmt.Errorf("listen grpc %s: %w", cfg.GRPCAddr, err)
	}

	worker := fulfillment.NewWorker(svc,
		fulfillment.WithInterval(cfg.FulfillmentInterval),
		fulfillment.WithLogger(log.WithField("component", "fulfillment-worker")),
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.WithField("addr", apiLis.Addr().String()).Info("http api listening")
		return serveHTTP(apiServer, apiLis)
	})
	g.Go(func() error {
		logger.WithField("addr", metricsLis.Addr().String()).Info("metrics and health checks listening")
		return serveHTTP(metricsServer, metricsLis)
	})
	g.Go(func() error {
		logger.WithField("addr", grpcLis.Addr().String()).Info("grpc health listening")
		return grpcServer.Serve(grpcLis)
	})
	g.Go(func() error {
		syncGRPCHealth(gctx, registry, grpcHealth, healthSyncInterval)
		return nil
	})
	g.Go(func() error {
		worker.Run(gctx)
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		grpcHealth.Shutdown()
		stopGRPC(grpcServer, cfg.ShutdownTimeout, logger)
		shutdownHTTP(apiServer, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsServer, cfg.ShutdownTimeout, logger)
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

func newAPIHandler(svc httpapi.Backoffice) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	return httpapi.NewRouter(svc, log.WithField("component", "http-api"))
}

// newMetricsMux отдает /metrics для Prometheus и HTTP-пробы.
func newMetricsMux(registry *healthcheck.Registry) *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", registry)
	mux.HandleFunc("/readyz", registry.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	return mux
}

func serveHTTP(srv *http.Server, lis net.Listener) error {
	if err := srv.Serve(lis); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
