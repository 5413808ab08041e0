package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tachoscope/tachoscope-backend/internal/tacho/consumers"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/events"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/handler"
	"github.com/tachoscope/tachoscope-backend/internal/tacho/service"
	"github.com/tachoscope/tachoscope-backend/pkg/config"
	"github.com/tachoscope/tachoscope-backend/pkg/httputil"
	"github.com/tachoscope/tachoscope-backend/pkg/i18n"
	"github.com/tachoscope/tachoscope-backend/pkg/logger"
	"github.com/tachoscope/tachoscope-backend/pkg/messaging"
)

func main() {
	// Load configuration with validation (fails fast in production if required config is missing)
	cfg, err := config.LoadWithValidation(events.ServiceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stdout, events.ServiceName, cfg.Server.Environment, cfg.Server.LogLevel)
	log.Info().Msg("starting Tacho Service")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// RabbitMQ is optional: without it reports are only returned over HTTP
	var (
		rmq       *messaging.RabbitMQ
		publisher service.ReportPublisher
	)
	if cfg.RabbitMQ.Enabled {
		rmq, err = messaging.New(&cfg.RabbitMQ, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rmq.Close()

		reportPublisher, err := events.NewReportEventPublisher(rmq, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create event publisher")
		}
		publisher = reportPublisher
	}

	analysisService := service.NewService(cfg.Analysis, publisher, log)
	analysisHandler := handler.NewAnalysisHandler(analysisService, cfg.Analysis.MaxUploadBytes, log)

	if rmq != nil {
		cardConsumer, err := consumers.NewCardEventConsumer(rmq, analysisService, cfg.RabbitMQ.MaxRetries, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create card event consumer")
		}
		if err := cardConsumer.Start(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to start card event consumer")
		}

		go rmq.Watch(ctx, func() {
			if err := cardConsumer.Start(ctx); err != nil {
				log.Error().Err(err).Msg("failed to restart card event consumer")
			}
		})
	}

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RealIP)
	r.Use(httputil.RequestID)
	r.Use(httputil.Logger(log))
	r.Use(httputil.Recoverer(log))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "X-Correlation-ID", "Accept-Language"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(i18n.Middleware)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		health := map[string]interface{}{
			"status":  "healthy",
			"service": events.ServiceName,
		}
		if rmq != nil {
			health["rabbitmq"] = rmq.Health()
		}
		httputil.JSON(w, http.StatusOK, health)
	})

	// API routes
	r.Route("/api/v1/tacho", analysisHandler.RegisterRoutes)

	// Create server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server
	go func() {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Cancel context to stop consumers
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
