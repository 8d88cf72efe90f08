package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/pulsecrm/golang_services/internal/platform/config"
	"github.com/pulsecrm/golang_services/internal/platform/logger"
	"github.com/pulsecrm/golang_services/internal/platform/messagebroker"
	"github.com/pulsecrm/golang_services/internal/pulse_service/adapters/crmclient"
	"github.com/pulsecrm/golang_services/internal/pulse_service/app"
	"github.com/pulsecrm/golang_services/internal/pulse_service/domain"
	httptransport "github.com/pulsecrm/golang_services/internal/pulse_service/transport/http"
)

const (
	serviceName     = "pulse_service"
	pushSubject     = "crm.events.>"
	pushQueueGroup  = "pulse_service_group"
	shutdownTimeout = 10 * time.Second
)

func main() {
	mainCtx, mainCancel := context.WithCancel(context.Background())
	defer mainCancel()

	cfg, err := config.Load(serviceName)
	if err != nil {
		slog.Error("Failed to load configuration", "service", serviceName, "error", err)
		os.Exit(1)
	}

	appLogger := logger.New(cfg.LogLevel)
	appLogger = appLogger.With("service", serviceName)
	appLogger.Info("Starting service...")

	appLogger.Info("Configuration loaded",
		"log_level", cfg.LogLevel,
		"http_port", cfg.PulseServicePort,
		"metrics_port", cfg.PulseServiceMetricsPort,
		"nats_url", cfg.NATSURL,
		"crm_api_base_url", cfg.CRMAPIBaseURL,
	)

	natsClient, err := messagebroker.NewNATSClient(cfg.NATSURL, appLogger, serviceName)
	if err != nil {
		appLogger.Error("Failed to connect to NATS", "error", err)
		os.Exit(1)
	}
	defer natsClient.Close()
	appLogger.Info("NATS connection initialized")

	crmClient := crmclient.NewClient(cfg.CRMAPIBaseURL, cfg.CRMAPIToken, cfg.CRMRequestTimeout, appLogger)

	// Setup application components
	projection := app.NewProjection()
	eventFeed := httptransport.NewEventFeedHandler(appLogger)
	controller := app.NewMergeController(projection, crmClient, eventFeed, appLogger)

	pushEventsChan := make(chan domain.PushEvent, 100)
	pushConsumer := app.NewPushEventConsumer(natsClient, appLogger, pushEventsChan)

	// Prime the contact list projection; a failure here is tolerable, the
	// first push event or list request will retry.
	controller.RefreshContactList(mainCtx)

	validate := validator.New()
	pulseHandler := httptransport.NewPulseHandler(projection, controller, crmClient, crmClient, appLogger, validate)
	leadHandler := httptransport.NewLeadHandler(crmClient, appLogger, validate)
	templateHandler := httptransport.NewTemplateHandler(crmClient, appLogger, validate)
	adminHandler := httptransport.NewAdminHandler(crmClient, appLogger, validate)

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(httptransport.PrometheusMetricsMiddleware)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"status": "Pulse service is healthy"})
	})

	pulseHandler.RegisterRoutes(r)
	leadHandler.RegisterRoutes(r)
	templateHandler.RegisterRoutes(r)
	adminHandler.RegisterRoutes(r)
	eventFeed.RegisterRoutes(r)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.PulseServicePort),
		Handler: r,
	}

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())
	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.PulseServiceMetricsPort),
		Handler: metricsMux,
	}

	g, groupCtx := errgroup.WithContext(mainCtx)

	g.Go(func() error {
		appLogger.Info("Starting NATS push event consumer", "subject", pushSubject, "queue_group", pushQueueGroup)
		return pushConsumer.StartConsuming(groupCtx, pushSubject, pushQueueGroup)
	})

	g.Go(func() error {
		appLogger.Info("Starting merge controller")
		err := controller.Run(groupCtx, pushEventsChan)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	g.Go(func() error {
		appLogger.Info("Starting HTTP server", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		appLogger.Info("Starting metrics server", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Shut the HTTP listeners down when the group context ends.
	g.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("HTTP server shutdown error", "error", err)
		}
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLogger.Error("Metrics server shutdown error", "error", err)
		}
		return nil
	})

	appLogger.Info("Service components initialized and workers started. Service is ready.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	var groupErr error
	select {
	case sig := <-sigCh:
		appLogger.Info("Received termination signal", "signal", sig.String())
	case groupErr = <-watchGroup(g):
		appLogger.Error("A critical component failed, initiating shutdown", "error", groupErr)
	}

	appLogger.Info("Attempting graceful shutdown...")
	mainCancel()

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		appLogger.Error("Error during graceful shutdown of components", "error", err)
	}

	appLogger.Info("Service shutdown complete.")
}

// watchGroup is a helper to monitor an errgroup for early exit.
func watchGroup(g *errgroup.Group) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- g.Wait()
	}()
	return errCh
}
